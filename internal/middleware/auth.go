package middleware

import (
	"context"
	"net/http"

	"github.com/Prince6626/devConnect-be/internal/logger"
	"github.com/Prince6626/devConnect-be/internal/storage"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookieName is the http-only cookie carrying the auth JWT.
const TokenCookieName = "token"

// UserAuth validates the auth cookie: signature, expiry and revocation
// (logout puts the token id in the store). On success the user id lands
// in the request context.
func UserAuth(secret string, tokens storage.TokenStore) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, `{"error":"please login"}`, http.StatusUnauthorized)
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				http.Error(w, `{"error":"please login"}`, http.StatusUnauthorized)
				return
			}

			if claims.ID != "" {
				revoked, err := tokens.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					logger.Errorf("auth revocation check token=%s: %v", claims.ID, err)
					http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
					return
				}
				if revoked {
					http.Error(w, `{"error":"please login"}`, http.StatusUnauthorized)
					return
				}
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
