package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
)

type balanceServiceStub struct {
	currentFn func(ctx context.Context) (*domain.Snapshot, error)
	historyFn func(ctx context.Context, input usecase.ListHistoryInput) ([]*domain.Snapshot, error)
}

func (s *balanceServiceStub) GetCurrentBalance(ctx context.Context) (*domain.Snapshot, error) {
	return s.currentFn(ctx)
}

func (s *balanceServiceStub) ListHistory(ctx context.Context, input usecase.ListHistoryInput) ([]*domain.Snapshot, error) {
	return s.historyFn(ctx, input)
}

func TestBalanceHandler_Current(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		currentFn: func(ctx context.Context) (*domain.Snapshot, error) {
			return &domain.Snapshot{
				ID:             "snap-1",
				AccountBalance: decimal.NewFromInt(250),
				CashBalance:    decimal.NewFromInt(40),
				RecordedAt:     time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/balance", nil)
	rec := httptest.NewRecorder()

	handler.Current(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.SnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.AccountBalance.Equal(decimal.NewFromInt(250)) || !resp.CashBalance.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected balances: %+v", resp)
	}
}

func TestBalanceHandler_Current_Error(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		currentFn: func(ctx context.Context) (*domain.Snapshot, error) {
			return nil, errors.New("db down")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/balance", nil)
	rec := httptest.NewRecorder()

	handler.Current(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestBalanceHandler_History(t *testing.T) {
	var captured usecase.ListHistoryInput

	handler := NewBalanceHandler(&balanceServiceStub{
		historyFn: func(ctx context.Context, input usecase.ListHistoryInput) ([]*domain.Snapshot, error) {
			captured = input
			return []*domain.Snapshot{{ID: "snap-2"}, {ID: "snap-1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/balance/history?limit=2", nil)
	rec := httptest.NewRecorder()

	handler.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Limit != 2 || captured.Offset != 0 {
		t.Fatalf("expected limit=2 offset=0, got %+v", captured)
	}

	var resp []*dto.SnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "snap-2" {
		t.Fatalf("expected newest snapshot first, got %+v", resp)
	}
}
