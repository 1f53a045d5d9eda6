package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Prince6626/devConnect-be/internal/storage/memory"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, jti string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authedRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/profile/view", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	}
	return r
}

func runAuth(t *testing.T, tokens *memory.Client, r *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var gotUserID string
	handler := UserAuth(testSecret, tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec, gotUserID
}

func TestUserAuthMissingCookie(t *testing.T) {
	rec, _ := runAuth(t, memory.New(), authedRequest(""))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAuthValidToken(t *testing.T) {
	userID := uuid.NewString()
	token := signToken(t, testSecret, userID, uuid.NewString(), time.Hour)

	rec, gotUserID := runAuth(t, memory.New(), authedRequest(token))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID, gotUserID)
}

func TestUserAuthWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", uuid.NewString(), uuid.NewString(), time.Hour)

	rec, _ := runAuth(t, memory.New(), authedRequest(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAuthExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, uuid.NewString(), uuid.NewString(), -time.Minute)

	rec, _ := runAuth(t, memory.New(), authedRequest(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAuthRevokedToken(t *testing.T) {
	jti := uuid.NewString()
	token := signToken(t, testSecret, uuid.NewString(), jti, time.Hour)

	tokens := memory.New()
	require.NoError(t, tokens.Revoke(context.Background(), jti, time.Hour))

	rec, _ := runAuth(t, tokens, authedRequest(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
