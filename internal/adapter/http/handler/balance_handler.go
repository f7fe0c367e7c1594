package handler

import (
	"context"
	"net/http"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetCurrentBalance(ctx context.Context) (*domain.Snapshot, error)
	ListHistory(ctx context.Context, input usecase.ListHistoryInput) ([]*domain.Snapshot, error)
}

// BalanceHandler handles balance-related HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Current returns the latest balance snapshot.
func (h *BalanceHandler) Current(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.balanceUC.GetCurrentBalance(r.Context())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SnapshotFromDomain(snapshot))
}

// History lists balance snapshots, newest first.
func (h *BalanceHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	snapshots, err := h.balanceUC.ListHistory(r.Context(), usecase.ListHistoryInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list balance history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SnapshotsFromDomain(snapshots))
}
