package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/metrics"
)

// FlowUseCase orchestrates flow mutations with balance recalculation. Every
// successful create, update or delete appends exactly one balance snapshot,
// inside the same transaction as the flow write.
type FlowUseCase struct {
	txManager    TransactionManager
	flowRepo     FlowRepository
	snapshotRepo SnapshotRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewFlowUseCase creates a new FlowUseCase. metrics may be nil.
func NewFlowUseCase(
	txManager TransactionManager,
	flowRepo FlowRepository,
	snapshotRepo SnapshotRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *FlowUseCase {
	return &FlowUseCase{
		txManager:    txManager,
		flowRepo:     flowRepo,
		snapshotRepo: snapshotRepo,
		idGen:        idGen,
		retrier:      retrier,
		metrics:      metrics,
	}
}

// CreateFlowInput represents input for recording a flow.
type CreateFlowInput struct {
	UserID         string
	Direction      domain.Direction
	Classification domain.Classification
	Amount         decimal.Decimal
	PaymentMethod  domain.PaymentMethod
	MovementDate   time.Time
	Description    string
}

// CreateFlow records a new flow and appends the resulting snapshot.
func (uc *FlowUseCase) CreateFlow(ctx context.Context, input CreateFlowInput) (*domain.Flow, error) {
	now := time.Now().UTC()

	flow := &domain.Flow{
		ID:             uc.idGen.Generate(),
		UserID:         input.UserID,
		Direction:      input.Direction,
		Classification: input.Classification,
		Amount:         input.Amount,
		PaymentMethod:  input.PaymentMethod,
		MovementDate:   input.MovementDate,
		Description:    input.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := flow.Validate(); err != nil {
		return nil, err
	}

	var appended *domain.Snapshot

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.flowRepo.Create(ctx, tx, flow); err != nil {
			return err
		}

		snapshot, err := uc.appendSnapshot(ctx, tx, func(cur domain.Snapshot) domain.Snapshot {
			return cur.Apply(flow, +1)
		})
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		appended = snapshot

		return nil
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.FlowErrors.WithLabelValues("create").Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.FlowsCreated.Inc()
		amount, _ := flow.Amount.Float64()
		uc.metrics.FlowAmount.Observe(amount)
		uc.recordSnapshot(appended)
	}

	return flow, nil
}

// UpdateFlowInput represents the optional fields of a flow update. Nil fields
// keep their stored value.
type UpdateFlowInput struct {
	Direction      *domain.Direction
	Classification *domain.Classification
	Amount         *decimal.Decimal
	PaymentMethod  *domain.PaymentMethod
	MovementDate   *time.Time
	Description    *string
}

// UpdateFlow rewrites a flow and appends one snapshot folding the reversal of
// the old values and the application of the new ones.
func (uc *FlowUseCase) UpdateFlow(ctx context.Context, id string, input UpdateFlowInput) (*domain.Flow, error) {
	var (
		updated  *domain.Flow
		appended *domain.Snapshot
	)

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		old, err := uc.flowRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		next := *old
		if input.Direction != nil {
			next.Direction = *input.Direction
		}
		if input.Classification != nil {
			next.Classification = *input.Classification
		}
		if input.Amount != nil {
			next.Amount = *input.Amount
		}
		if input.PaymentMethod != nil {
			next.PaymentMethod = *input.PaymentMethod
		}
		if input.MovementDate != nil {
			next.MovementDate = *input.MovementDate
		}
		if input.Description != nil {
			next.Description = *input.Description
		}

		next.Edited = true
		next.UpdatedAt = time.Now().UTC()

		if err := next.Validate(); err != nil {
			return err
		}

		if err := uc.flowRepo.Update(ctx, tx, &next); err != nil {
			return err
		}

		snapshot, err := uc.appendSnapshot(ctx, tx, func(cur domain.Snapshot) domain.Snapshot {
			return cur.Apply(old, -1).Apply(&next, +1)
		})
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		updated = &next
		appended = snapshot

		return nil
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.FlowErrors.WithLabelValues("update").Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.FlowsUpdated.Inc()
		uc.recordSnapshot(appended)
	}

	return updated, nil
}

// DeleteFlow removes a flow and appends the reversal snapshot. It returns the
// deleted flow's last known state.
func (uc *FlowUseCase) DeleteFlow(ctx context.Context, id string) (*domain.Flow, error) {
	var (
		deleted  *domain.Flow
		appended *domain.Snapshot
	)

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		old, err := uc.flowRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := uc.flowRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		snapshot, err := uc.appendSnapshot(ctx, tx, func(cur domain.Snapshot) domain.Snapshot {
			return cur.Apply(old, -1)
		})
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		deleted = old
		appended = snapshot

		return nil
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.FlowErrors.WithLabelValues("delete").Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.FlowsDeleted.Inc()
		uc.recordSnapshot(appended)
	}

	return deleted, nil
}

// appendSnapshot loads the latest snapshot under the recalculation lock,
// derives the next one and appends it. The lock serializes concurrent
// recalculations so no append ever starts from a stale snapshot.
func (uc *FlowUseCase) appendSnapshot(ctx context.Context, tx Transaction, apply func(domain.Snapshot) domain.Snapshot) (*domain.Snapshot, error) {
	now := time.Now().UTC()

	cur, err := uc.snapshotRepo.GetLatestLocked(ctx, tx)
	if err != nil {
		return nil, err
	}

	base := domain.ZeroSnapshot(now)
	if cur != nil {
		base = *cur
	}

	next := apply(base)
	next.ID = uc.idGen.Generate()
	next.RecordedAt = now

	if err := uc.snapshotRepo.Append(ctx, tx, &next); err != nil {
		return nil, err
	}

	return &next, nil
}

// recordSnapshot reflects a committed append in the balance metrics. Callers
// hold the non-nil metrics guard.
func (uc *FlowUseCase) recordSnapshot(snapshot *domain.Snapshot) {
	uc.metrics.SnapshotsAppended.Inc()

	account, _ := snapshot.AccountBalance.Float64()
	cash, _ := snapshot.CashBalance.Float64()
	uc.metrics.AccountBalance.Set(account)
	uc.metrics.CashBalance.Set(cash)
}

// GetFlow retrieves a flow by ID.
func (uc *FlowUseCase) GetFlow(ctx context.Context, id string) (*domain.Flow, error) {
	return uc.flowRepo.GetByID(ctx, id)
}

// ListFlowsInput represents pagination for flow listings.
type ListFlowsInput struct {
	Limit  int
	Offset int
}

// ListFlows lists all flows.
func (uc *FlowUseCase) ListFlows(ctx context.Context, input ListFlowsInput) ([]*domain.Flow, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.flowRepo.List(ctx, limit, offset)
}

// ListFlowsByUser lists the flows attributed to one user.
func (uc *FlowUseCase) ListFlowsByUser(ctx context.Context, userID string, input ListFlowsInput) ([]*domain.Flow, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.flowRepo.ListByUser(ctx, userID, limit, offset)
}

// ListFlowsByDate lists the flows whose movement date falls on one UTC
// calendar day.
func (uc *FlowUseCase) ListFlowsByDate(ctx context.Context, day time.Time) ([]*domain.Flow, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	return uc.flowRepo.ListByDateRange(ctx, start, end)
}
