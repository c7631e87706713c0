package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/platevision/platevision-go/internal/model"
	"github.com/platevision/platevision-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// failure builds the negative auth envelope. The messages slice is included
// when there is more than one thing to report.
func failure(msg string, messages []string) map[string]any {
	body := map[string]any{"success": false, "message": msg}
	if len(messages) > 1 {
		body["messages"] = messages
	}
	return body
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, failure("request body too large", nil))
			return
		}
		writeJSON(w, http.StatusBadRequest, failure("invalid request body", nil))
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, failure(verr.Error(), verr.Messages))
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, failure(err.Error(), nil))
		default:
			writeJSON(w, http.StatusInternalServerError, failure("internal server error", nil))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, failure("request body too large", nil))
			return
		}
		writeJSON(w, http.StatusBadRequest, failure("invalid request body", nil))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCredentialsRequired):
			writeJSON(w, http.StatusBadRequest, failure(err.Error(), nil))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, failure(err.Error(), nil))
		default:
			writeJSON(w, http.StatusInternalServerError, failure("internal server error", nil))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleLogout handles POST /api/auth/logout requests. Sessions are
// stateless tokens, so there is nothing to revoke server-side; the endpoint
// exists for the client's best-effort logout call.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.AuthResponse{
		Success: true,
		Message: "logged out",
	})
}
