package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Prince6626/devConnect-be/internal/config"
	"github.com/Prince6626/devConnect-be/internal/logger"
	"github.com/Prince6626/devConnect-be/internal/middleware"
	"github.com/Prince6626/devConnect-be/internal/model"
	"github.com/Prince6626/devConnect-be/internal/repository"
	"github.com/Prince6626/devConnect-be/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo *repository.UserRepository
	tokens   storage.TokenStore
	jwtCfg   config.JWTConfig
}

func NewAuthHandler(userRepo *repository.UserRepository, tokens storage.TokenStore, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, tokens: tokens, jwtCfg: jwtCfg}
}

type SignupRequest struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"emailId"`
	Password  string   `json:"password"`
	PhotoURL  string   `json:"photoUrl"`
	About     string   `json:"about"`
	Skills    []string `json:"skills"`
}

type LoginRequest struct {
	Email    string `json:"emailId"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.Email == "" || len(req.Password) < 4 {
		writeError(w, http.StatusBadRequest, "firstName, emailId and password are required")
		return
	}

	if _, err := h.userRepo.GetByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		logger.Errorf("signup lookup email: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to sign up")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Errorf("signup hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to sign up")
		return
	}

	photo := req.PhotoURL
	if photo == "" {
		photo = model.DefaultPhotoURL
	}
	u := &model.User{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		PhotoURL:     photo,
		About:        req.About,
		Skills:       req.Skills,
		CreatedAt:    time.Now().UTC(),
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if err := h.userRepo.Create(r.Context(), u); err != nil {
		logger.Errorf("signup create user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to sign up")
		return
	}

	writeJSON(w, http.StatusCreated, u.ToPublic())
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.issueToken(u.ID)
	if err != nil {
		logger.Errorf("login issue token user=%s: %v", u.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.jwtCfg.TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, u.ToPublic())
}

// Logout revokes the current token until its natural expiry and clears
// the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.TokenCookieName); err == nil && cookie.Value != "" {
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
			return []byte(h.jwtCfg.Secret), nil
		})
		if err == nil && token.Valid && claims.ID != "" {
			ttl := h.jwtCfg.TTL
			if claims.ExpiresAt != nil {
				ttl = time.Until(claims.ExpiresAt.Time)
			}
			if err := h.tokens.Revoke(r.Context(), claims.ID, ttl); err != nil {
				logger.Errorf("logout revoke token=%s: %v", claims.ID, err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) issueToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.jwtCfg.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtCfg.Secret))
}
