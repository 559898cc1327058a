package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	perrors "github.com/grocerydesk/catalog/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only hashes the first 72 bytes of a password.
const maxPasswordBytes = 72

// TokenIssuer signs a token for an authenticated subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type Service struct {
	users  UserStore
	tokens TokenIssuer
	logger *slog.Logger
	cost   int
}

func NewService(users UserStore, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger.With("component", "auth"),
		cost:   bcrypt.DefaultCost,
	}
}

// Register creates a user with a bcrypt hash of password.
func (s *Service) Register(ctx context.Context, login, password string) (*User, error) {
	if len(password) > maxPasswordBytes {
		return nil, perrors.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := s.users.Create(ctx, login, hash)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User registered", "ID", user.ID)
	return user, nil
}

// Login checks the credentials and returns a token whose subject is the user ID.
// Unknown logins and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, perrors.ErrUserNotFound) {
			return "", perrors.ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", perrors.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return "", err
	}
	return token, nil
}
