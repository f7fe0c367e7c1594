package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/cashflow/internal/adapter/http"
	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/adapter/http/handler"
	"github.com/iho/cashflow/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/cashflow/internal/adapter/repository/redis"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/auth"
	infraredis "github.com/iho/cashflow/internal/infrastructure/redis"
	"github.com/iho/cashflow/internal/usecase"
	"github.com/iho/cashflow/tests/testutil"
)

type noopMailer struct{}

func (noopMailer) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	return nil
}

func newTestRouter(t *testing.T, testDB *testutil.TestDB) (http.Handler, *auth.TokenManager) {
	t.Helper()

	ctx := context.Background()
	pool := testDB.Pool

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	txManager := postgres.NewTxManager(pool)
	flowRepo := postgres.NewFlowRepository(pool)
	snapshotRepo := postgres.NewSnapshotRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	tokenManager := auth.NewTokenManager("integration-secret", 15*time.Minute, time.Hour)
	tokenStore := redisrepo.NewTokenStore(redisClient)

	flowUC := usecase.NewFlowUseCase(txManager, flowRepo, snapshotRepo, idGen, retrier, nil)
	balanceUC := usecase.NewBalanceUseCase(snapshotRepo)
	userUC := usecase.NewUserUseCase(userRepo, idGen, nil)
	passwordUC := usecase.NewPasswordResetUseCase(userRepo, noopMailer{}, "http://localhost:3000/reset-password", nil)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		FlowHandler:     handler.NewFlowHandler(flowUC),
		BalanceHandler:  handler.NewBalanceHandler(balanceUC),
		AuthHandler:     handler.NewAuthHandler(userUC, tokenManager, tokenStore, time.Hour, false),
		UserHandler:     handler.NewUserHandler(userUC),
		PasswordHandler: handler.NewPasswordHandler(passwordUC),
		HealthHandler:   handler.NewHealthHandler(pool, redisClient),
		TokenManager:    tokenManager,
		Logger:          zerolog.Nop(),
		AuthRateLimit:   100,
		AuthRateBurst:   100,
	})

	return router, tokenManager
}

func loginAs(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", w.Code, w.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return resp.AccessToken
}

func postFlow(t *testing.T, router http.Handler, token string, req dto.CreateFlowRequest) dto.FlowResponse {
	t.Helper()

	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/flows/", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.FlowResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode flow response: %v", err)
	}

	return resp
}

func getBalance(t *testing.T, router http.Handler, token string) dto.SnapshotResponse {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/balance/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.SnapshotResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode snapshot response: %v", err)
	}

	return resp
}

func TestFlowLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router, _ := newTestRouter(t, testDB)
	testDB.CreateTestUser(ctx, "Maria", "maria@example.com", "s3cret-password", domain.RoleUser)

	token := loginAs(t, router, "maria@example.com", "s3cret-password")

	movementDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	sale := postFlow(t, router, token, dto.CreateFlowRequest{
		Direction:      "inflow",
		Classification: "sale",
		Amount:         decimal.NewFromInt(100),
		PaymentMethod:  "instant_transfer",
		MovementDate:   movementDate,
	})

	cashSale := postFlow(t, router, token, dto.CreateFlowRequest{
		Direction:      "inflow",
		Classification: "sale",
		Amount:         decimal.NewFromInt(50),
		PaymentMethod:  "cash",
		MovementDate:   movementDate,
	})

	t.Run("balances reflect created flows", func(t *testing.T) {
		balance := getBalance(t, router, token)

		if !balance.AccountBalance.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("expected account balance 100, got %s", balance.AccountBalance)
		}
		if !balance.CashBalance.Equal(decimal.NewFromInt(50)) {
			t.Fatalf("expected cash balance 50, got %s", balance.CashBalance)
		}
	})

	t.Run("reading the balance does not change it", func(t *testing.T) {
		first := getBalance(t, router, token)
		second := getBalance(t, router, token)

		if !first.AccountBalance.Equal(second.AccountBalance) ||
			!first.CashBalance.Equal(second.CashBalance) {
			t.Fatalf("consecutive reads differ: %+v vs %+v", first, second)
		}
		if first.ID != second.ID {
			t.Fatalf("consecutive reads returned different snapshots: %s vs %s", first.ID, second.ID)
		}
	})

	t.Run("editing a flow reconciles the balance", func(t *testing.T) {
		amount := decimal.NewFromInt(70)
		body, _ := json.Marshal(dto.UpdateFlowRequest{Amount: &amount})

		r := httptest.NewRequest(http.MethodPut, "/api/v1/flows/"+sale.ID, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var updated dto.FlowResponse
		if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
			t.Fatalf("failed to decode flow response: %v", err)
		}
		if !updated.Edited {
			t.Fatal("expected the flow to be marked edited")
		}

		balance := getBalance(t, router, token)
		if !balance.AccountBalance.Equal(decimal.NewFromInt(70)) {
			t.Fatalf("expected account balance 70 after edit, got %s", balance.AccountBalance)
		}
	})

	t.Run("deleting a flow reverses its effect", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodDelete, "/api/v1/flows/"+cashSale.ID, nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		balance := getBalance(t, router, token)
		if !balance.CashBalance.Equal(decimal.Zero) {
			t.Fatalf("expected cash balance 0 after delete, got %s", balance.CashBalance)
		}
	})

	t.Run("history records every mutation", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/balance/history?limit=10", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var history []dto.SnapshotResponse
		if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
			t.Fatalf("failed to decode history: %v", err)
		}

		// create, create, update, delete
		if len(history) != 4 {
			t.Fatalf("expected 4 snapshots, got %d", len(history))
		}
	})

	t.Run("rejects an invalid payment method", func(t *testing.T) {
		body, _ := json.Marshal(dto.CreateFlowRequest{
			Direction:      "inflow",
			Classification: "sale",
			Amount:         decimal.NewFromInt(10),
			PaymentMethod:  "check",
			MovementDate:   movementDate,
		})

		r := httptest.NewRequest(http.MethodPost, "/api/v1/flows/", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
