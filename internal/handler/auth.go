package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cinesocial/auth-api/internal/domain"
	"github.com/cinesocial/auth-api/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// VerifyResponse is the JSON body returned on a successful verification.
type VerifyResponse struct {
	Token       string  `json:"token"`
	Username    string  `json:"username"`
	DisplayName *string `json:"displayName,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	IsNewUser   bool    `json:"isNewUser"`
}

// HandleRequestCode issues and emails a one-time verification code.
// POST /auth/request-code
// Request:  {"email":"...","username":"..."}
// Response: {"success":true}
func (h *AuthHandler) HandleRequestCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.auth.RequestCode(r.Context(), req.Email, req.Username); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Email and username are required.")
			return
		}
		slog.Error("request code", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleVerifyCode redeems a verification code for a session token.
// POST /auth/verify-code
// Request:  {"email":"...","code":"..."}
// Response: {"token":"...","username":"...","displayName":"...","avatarUrl":"...","isNewUser":false}
func (h *AuthHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.auth.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Email and code are required.")
			return
		}
		if errors.Is(err, domain.ErrInvalidCode) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired code.")
			return
		}
		slog.Error("verify code", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{
		Token:       result.Token,
		Username:    result.Username,
		DisplayName: result.DisplayName,
		AvatarURL:   result.AvatarURL,
		IsNewUser:   result.IsNewUser,
	})
}
