package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/domain"
)

// PasswordResetService defines the behavior needed by PasswordHandler.
type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// PasswordHandler handles password recovery HTTP requests.
type PasswordHandler struct {
	passwordUC PasswordResetService
}

// NewPasswordHandler creates a new PasswordHandler.
func NewPasswordHandler(passwordUC PasswordResetService) *PasswordHandler {
	return &PasswordHandler{passwordUC: passwordUC}
}

// Forgot starts password recovery by emailing a reset link. It answers the
// same way whether or not the email is registered, so the endpoint cannot be
// used to probe for accounts.
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.passwordUC.RequestReset(r.Context(), req.Email); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to send reset email", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "if the email is registered, a reset link has been sent",
	})
}

// Verify checks whether a reset token is still valid.
func (h *PasswordHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing token", "")
		return
	}

	if _, err := h.passwordUC.VerifyToken(r.Context(), token); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "invalid reset token", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "token is valid"})
}

// Reset finishes password recovery by setting a new password.
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.passwordUC.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reset password", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "password updated"})
}
