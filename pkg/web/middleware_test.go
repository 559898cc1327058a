package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVerifier is a mock implementation of the auth.Verifier interface.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, tokenString string) (jwt.Token, error) {
	args := m.Called(ctx, tokenString)

	var token jwt.Token
	if args.Get(0) != nil {
		token = args.Get(0).(jwt.Token)
	}
	return token, args.Error(1)
}

func TestBearerAuth(t *testing.T) {
	validToken, err := jwt.NewBuilder().
		Subject("user-123").
		Issuer("catalog").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Build()
	require.NoError(t, err)
	anonymousToken, err := jwt.NewBuilder().Issuer("catalog").Build()
	require.NoError(t, err)

	testCases := []struct {
		name               string
		authHeader         string
		setupMock          func(m *MockVerifier)
		expectedStatusCode int
		shouldCallNext     bool
		expectedSubject    string
	}{
		{
			name:       "Success - valid bearer token",
			authHeader: "Bearer valid-token",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "valid-token").Return(validToken, nil)
			},
			expectedStatusCode: http.StatusOK,
			shouldCallNext:     true,
			expectedSubject:    "user-123",
		},
		{
			name:               "Failure - no auth header",
			authHeader:         "",
			setupMock:          func(m *MockVerifier) {},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "Failure - not a bearer token",
			authHeader:         "Basic some-credentials",
			setupMock:          func(m *MockVerifier) {},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "Failure - verifier returns error",
			authHeader: "Bearer invalid-token",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "invalid-token").Return(nil, errors.New("signature mismatch"))
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "Failure - token without subject",
			authHeader: "Bearer anonymous",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "anonymous").Return(anonymousToken, nil)
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			verifier := new(MockVerifier)
			tc.setupMock(verifier)

			nextCalled := false
			var subject string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				subject, _ = GetSubject(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := BearerAuth(verifier, slog.New(slog.DiscardHandler))(next)

			req := httptest.NewRequest(http.MethodGet, "/api/product/list", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			// when
			handler.ServeHTTP(rec, req)

			// then
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.shouldCallNext, nextCalled)
			assert.Equal(t, tc.expectedSubject, subject)
			verifier.AssertExpectations(t)
		})
	}
}
