package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/auth"
	"github.com/iho/cashflow/internal/usecase"
	"github.com/iho/cashflow/internal/usecase/mocks"
)

type authServiceStub struct {
	registerFn     func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	getFn          func(ctx context.Context, id string) (*domain.User, error)
}

func (s *authServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *authServiceStub) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return s.authenticateFn(ctx, input)
}

func (s *authServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func newTestAuthHandler(service AuthService, store usecase.TokenStore) (*AuthHandler, *auth.TokenManager) {
	tokenManager := auth.NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	handler := NewAuthHandler(service, tokenManager, store, 7*24*time.Hour, false)

	return handler, tokenManager
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}

	t.Fatal("expected a refresh token cookie")

	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	handler, _ := newTestAuthHandler(&authServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return &domain.User{ID: "user-1", Name: input.Name, Email: input.Email, Role: domain.RoleUser}, nil
		},
	}, mocks.NewMockTokenStore())

	body, _ := json.Marshal(dto.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "s3cret-password",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "user-1" || resp.Email != "maria@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	handler, _ := newTestAuthHandler(&authServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}, mocks.NewMockTokenStore())

	body, _ := json.Marshal(dto.RegisterRequest{Name: "Maria", Email: "maria@example.com", Password: "s3cret-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "maria@example.com", Role: domain.RoleUser}
	store := mocks.NewMockTokenStore()

	handler, tokenManager := newTestAuthHandler(&authServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			if input.Email != "maria@example.com" {
				t.Fatalf("unexpected email %q", input.Email)
			}
			return user, nil
		},
	}, store)

	body, _ := json.Marshal(dto.LoginRequest{Email: "maria@example.com", Password: "s3cret-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token in the body")
	}
	if claims, err := tokenManager.VerifyAccessToken(resp.AccessToken); err != nil || claims.UserID != "user-1" {
		t.Fatalf("expected a valid access token for user-1, got claims=%+v err=%v", claims, err)
	}

	cookie := refreshCookie(t, rec)
	if !cookie.HttpOnly {
		t.Fatal("refresh cookie must be HTTP-only")
	}
	if cookie.Value == resp.AccessToken {
		t.Fatal("refresh token must differ from the access token")
	}

	claims, err := tokenManager.VerifyRefreshToken(cookie.Value)
	if err != nil {
		t.Fatalf("expected a valid refresh token in the cookie: %v", err)
	}

	userID, err := store.Get(context.Background(), claims.ID)
	if err != nil || userID != "user-1" {
		t.Fatalf("expected refresh token registered in the store, got %q err=%v", userID, err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler, _ := newTestAuthHandler(&authServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}, mocks.NewMockTokenStore())

	body, _ := json.Marshal(dto.LoginRequest{Email: "maria@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie should be set on failed login")
	}
}

func TestAuthHandler_Refresh_RotatesToken(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "maria@example.com", Role: domain.RoleUser}
	store := mocks.NewMockTokenStore()

	handler, tokenManager := newTestAuthHandler(&authServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return user, nil
		},
	}, store)

	refreshToken, tokenID, err := tokenManager.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	if err := store.Save(context.Background(), tokenID, user.ID, time.Hour); err != nil {
		t.Fatalf("failed to seed token store: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refreshToken})
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// The presented token is revoked.
	if userID, _ := store.Get(context.Background(), tokenID); userID != "" {
		t.Fatal("expected the old refresh token to be revoked")
	}

	// A new one replaces it.
	cookie := refreshCookie(t, rec)
	claims, err := tokenManager.VerifyRefreshToken(cookie.Value)
	if err != nil {
		t.Fatalf("expected a fresh refresh token: %v", err)
	}
	if claims.ID == tokenID {
		t.Fatal("expected a new token ID after rotation")
	}
	if userID, _ := store.Get(context.Background(), claims.ID); userID != "user-1" {
		t.Fatal("expected the new refresh token registered in the store")
	}
}

func TestAuthHandler_Refresh_RevokedToken(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "maria@example.com", Role: domain.RoleUser}
	store := mocks.NewMockTokenStore()

	handler, tokenManager := newTestAuthHandler(&authServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return user, nil
		},
	}, store)

	// Valid signature, but never saved to the store.
	refreshToken, _, err := tokenManager.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refreshToken})
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_AccessTokenRejected(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "maria@example.com", Role: domain.RoleUser}
	store := mocks.NewMockTokenStore()

	handler, tokenManager := newTestAuthHandler(&authServiceStub{}, store)

	accessToken, err := tokenManager.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: accessToken})
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_MissingCookie(t *testing.T) {
	handler, _ := newTestAuthHandler(&authServiceStub{}, mocks.NewMockTokenStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "maria@example.com", Role: domain.RoleUser}
	store := mocks.NewMockTokenStore()

	handler, tokenManager := newTestAuthHandler(&authServiceStub{}, store)

	refreshToken, tokenID, err := tokenManager.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	if err := store.Save(context.Background(), tokenID, user.ID, time.Hour); err != nil {
		t.Fatalf("failed to seed token store: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refreshToken})
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if userID, _ := store.Get(context.Background(), tokenID); userID != "" {
		t.Fatal("expected the refresh token to be revoked")
	}

	cookie := refreshCookie(t, rec)
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected the cookie to be cleared, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler, _ := newTestAuthHandler(&authServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "user-1" {
				t.Fatalf("expected user-1, got %s", id)
			}
			return &domain.User{ID: "user-1", Name: "Maria", Email: "maria@example.com"}, nil
		},
	}, mocks.NewMockTokenStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = withAuthenticatedUser(req, &domain.User{ID: "user-1"})
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Name != "Maria" {
		t.Fatalf("expected Maria, got %s", resp.Name)
	}
}
