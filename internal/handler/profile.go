package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Prince6626/devConnect-be/internal/logger"
	"github.com/Prince6626/devConnect-be/internal/middleware"
	"github.com/Prince6626/devConnect-be/internal/repository"
)

type ProfileHandler struct {
	userRepo *repository.UserRepository
}

func NewProfileHandler(userRepo *repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo}
}

func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		logger.Errorf("profile view user=%s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, u.ToPublic())
}

type EditProfileRequest struct {
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	PhotoURL  *string   `json:"photoUrl"`
	About     *string   `json:"about"`
	Skills    *[]string `json:"skills"`
}

// Edit updates the allowed profile fields; absent fields keep their
// current value.
func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	userID := middleware.GetUserID(r.Context())
	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		logger.Errorf("profile edit fetch user=%s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.PhotoURL != nil {
		u.PhotoURL = *req.PhotoURL
	}
	if req.About != nil {
		u.About = *req.About
	}
	if req.Skills != nil {
		u.Skills = *req.Skills
	}
	if u.FirstName == "" {
		writeError(w, http.StatusBadRequest, "firstName cannot be empty")
		return
	}

	if err := h.userRepo.UpdateProfile(r.Context(), u.ID, u.FirstName, u.LastName, u.PhotoURL, u.About, u.Skills); err != nil {
		logger.Errorf("profile edit update user=%s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, u.ToPublic())
}
