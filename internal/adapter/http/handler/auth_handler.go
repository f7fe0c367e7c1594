package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/adapter/http/middleware"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/auth"
	"github.com/iho/cashflow/internal/usecase"
)

const refreshCookieName = "refresh_token"

// AuthService defines the behavior needed by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// AuthHandler handles registration, login and token lifecycle endpoints.
type AuthHandler struct {
	userUC       AuthService
	tokenManager *auth.TokenManager
	tokenStore   usecase.TokenStore
	refreshTTL   time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie should be false only
// for plain-HTTP local development.
func NewAuthHandler(
	userUC AuthService,
	tokenManager *auth.TokenManager,
	tokenStore usecase.TokenStore,
	refreshTTL time.Duration,
	secureCookie bool,
) *AuthHandler {
	return &AuthHandler{
		userUC:       userUC,
		tokenManager: tokenManager,
		tokenStore:   tokenStore,
		refreshTTL:   refreshTTL,
		secureCookie: secureCookie,
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to register", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Login authenticates a user and issues an access/refresh token pair. The
// refresh token is delivered only as an HTTP-only cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "invalid credentials", err.Error())

		return
	}

	if err := h.issueTokens(w, r, user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue tokens", err.Error())
		return
	}
}

// Refresh rotates the refresh token and issues a fresh access token. The old
// refresh token is revoked so it cannot be replayed.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing refresh token", "")
		return
	}

	claims, err := h.tokenManager.VerifyRefreshToken(cookie.Value)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "invalid refresh token", err.Error())

		return
	}

	userID, err := h.tokenStore.Get(r.Context(), claims.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check refresh token", err.Error())
		return
	}
	if userID == "" || userID != claims.UserID {
		writeError(w, http.StatusUnauthorized, "refresh token revoked", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), claims.UserID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to refresh", err.Error())

		return
	}

	// Rotation: the presented token is consumed even if issuing new ones fails.
	if err := h.tokenStore.Delete(r.Context(), claims.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to revoke refresh token", err.Error())
		return
	}

	if err := h.issueTokens(w, r, user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue tokens", err.Error())
		return
	}
}

// Logout revokes the refresh token and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err == nil {
		if claims, verr := h.tokenManager.VerifyRefreshToken(cookie.Value); verr == nil {
			if derr := h.tokenStore.Delete(r.Context(), claims.ID); derr != nil {
				writeError(w, http.StatusInternalServerError, "failed to revoke refresh token", derr.Error())
				return
			}
		}
	}

	h.setRefreshCookie(w, "", -1)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctxUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), ctxUser.ID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get user", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	accessToken, err := h.tokenManager.GenerateAccessToken(user)
	if err != nil {
		return err
	}

	refreshToken, tokenID, err := h.tokenManager.GenerateRefreshToken(user)
	if err != nil {
		return err
	}

	if err := h.tokenStore.Save(r.Context(), tokenID, user.ID, h.refreshTTL); err != nil {
		return err
	}

	h.setRefreshCookie(w, refreshToken, int(h.refreshTTL.Seconds()))
	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: accessToken,
		User:        dto.UserFromDomain(user),
	})

	return nil
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/api/v1/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
