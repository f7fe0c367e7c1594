package usecase

import (
	"context"
	"time"

	"github.com/iho/cashflow/internal/domain"
)

// BalanceUseCase serves balance reads.
type BalanceUseCase struct {
	snapshotRepo SnapshotRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(snapshotRepo SnapshotRepository) *BalanceUseCase {
	return &BalanceUseCase{snapshotRepo: snapshotRepo}
}

// GetCurrentBalance returns the latest snapshot. Before any flow has been
// recorded it returns a zero-valued snapshot.
func (uc *BalanceUseCase) GetCurrentBalance(ctx context.Context) (*domain.Snapshot, error) {
	snapshot, err := uc.snapshotRepo.GetLatest(ctx)
	if err != nil {
		return nil, err
	}

	if snapshot == nil {
		zero := domain.ZeroSnapshot(time.Now().UTC())
		return &zero, nil
	}

	return snapshot, nil
}

// ListHistoryInput represents pagination for the snapshot history.
type ListHistoryInput struct {
	Limit  int
	Offset int
}

// ListHistory returns the snapshot history, newest first.
func (uc *BalanceUseCase) ListHistory(ctx context.Context, input ListHistoryInput) ([]*domain.Snapshot, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.snapshotRepo.List(ctx, limit, offset)
}
