// Package auth registers catalog users and logs them in with bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	perrors "github.com/grocerydesk/catalog/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID           uuid.UUID
	Login        string
	PasswordHash []byte
}

// UserStore persists users. Logins are unique.
type UserStore interface {
	// Create stores a new user and assigns its ID.
	// Returns ErrLoginTaken if the login is already used.
	Create(ctx context.Context, login string, passwordHash []byte) (*User, error)

	// FindByLogin returns ErrUserNotFound when no user has the login.
	FindByLogin(ctx context.Context, login string) (*User, error)
}

type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, login string, passwordHash []byte) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[login]; exists {
		return nil, perrors.ErrLoginTaken
	}
	user := User{ID: uuid.New(), Login: login, PasswordHash: passwordHash}
	s.users[login] = user
	return &user, nil
}

func (s *InMemoryUserStore) FindByLogin(_ context.Context, login string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[login]
	if !exists {
		return nil, perrors.ErrUserNotFound
	}
	return &user, nil
}

const uniqueViolation = "23505"

const insertUser = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, login, password_hash`

const findUserByLogin = `SELECT id, login, password_hash FROM users WHERE login = $1`

// PgUserStore keeps users in the users table.
type PgUserStore struct {
	db *pgxpool.Pool
}

func NewPgUserStore(db *pgxpool.Pool) *PgUserStore {
	return &PgUserStore{db: db}
}

func (p *PgUserStore) Create(ctx context.Context, login string, passwordHash []byte) (*User, error) {
	user, err := scanUser(p.db.QueryRow(ctx, insertUser, login, string(passwordHash)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, perrors.ErrLoginTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (p *PgUserStore) FindByLogin(ctx context.Context, login string) (*User, error) {
	user, err := scanUser(p.db.QueryRow(ctx, findUserByLogin, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by login: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var hash string
	if err := row.Scan(&user.ID, &user.Login, &hash); err != nil {
		return nil, err
	}
	user.PasswordHash = []byte(hash)
	return &user, nil
}
