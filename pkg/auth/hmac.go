package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// HMACTokens issues and verifies HS256 tokens signed with a shared secret.
type HMACTokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACTokens creates a token issuer/verifier for the given secret and issuer.
func NewHMACTokens(secret, issuer string, ttl time.Duration) *HMACTokens {
	return &HMACTokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token whose subject is subject.
func (h *HMACTokens) Issue(subject string) (string, error) {
	now := h.now()
	token, err := jwt.NewBuilder().
		Subject(subject).
		Issuer(h.issuer).
		IssuedAt(now).
		Expiration(now.Add(h.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), h.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

func (h *HMACTokens) Verify(_ context.Context, tokenString string) (jwt.Token, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), h.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(h.issuer),
		jwt.WithClock(jwt.ClockFunc(h.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	return token, nil
}
