package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cinesocial/auth-api/internal/domain"
	"github.com/cinesocial/auth-api/internal/service"
)

// ProfileHandler handles profile-setup HTTP requests.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// HandleProfileSetup applies a partial profile update for the authenticated
// user. Both the display name and the avatar file are optional.
// POST /auth/profile-setup
// Request:  multipart form with fields "displayName" and "avatar" (file)
// Response: {"success":true}
func (h *ProfileHandler) HandleProfileSetup(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	// Parse multipart form (6MB limit; avatars are capped at 5MB).
	if err := r.ParseMultipartForm(6 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	displayName := r.FormValue("displayName")

	var (
		avatarData     []byte
		avatarFilename string
	)
	file, header, err := r.FormFile("avatar")
	switch {
	case err == nil:
		defer file.Close()
		avatarData, err = io.ReadAll(file)
		if err != nil {
			slog.Error("read avatar upload", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			return
		}
		avatarFilename = header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// No avatar provided; display-name-only updates are fine.
	default:
		writeError(w, http.StatusBadRequest, "Invalid avatar upload.")
		return
	}

	if err := h.profiles.SetupProfile(r.Context(), userID, displayName, avatarData, avatarFilename); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("profile setup", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
