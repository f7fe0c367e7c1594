package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
)

// FlowRepository implements usecase.FlowRepository.
type FlowRepository struct {
	pool *pgxpool.Pool
}

// NewFlowRepository creates a new FlowRepository.
func NewFlowRepository(pool *pgxpool.Pool) *FlowRepository {
	return &FlowRepository{pool: pool}
}

const flowColumns = `id, user_id, direction, classification, amount, payment_method,
	movement_date, description, edited, created_at, updated_at`

// Create inserts a new flow inside the transaction.
func (r *FlowRepository) Create(ctx context.Context, tx usecase.Transaction, flow *domain.Flow) error {
	query := `
		INSERT INTO flows (id, user_id, direction, classification, amount, payment_method,
			movement_date, description, edited, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		flow.ID,
		flow.UserID,
		flow.Direction,
		flow.Classification,
		decimalToNumeric(flow.Amount),
		flow.PaymentMethod,
		timeToPgTimestamptz(flow.MovementDate),
		flow.Description,
		flow.Edited,
		timeToPgTimestamptz(flow.CreatedAt),
		timeToPgTimestamptz(flow.UpdatedAt),
	)

	return err
}

// GetByID retrieves a flow by ID.
func (r *FlowRepository) GetByID(ctx context.Context, id string) (*domain.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM flows WHERE id = $1`

	return scanFlow(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a flow by ID with a FOR UPDATE lock.
func (r *FlowRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM flows WHERE id = $1 FOR UPDATE`

	return scanFlow(tx.(*Tx).PgxTx().QueryRow(ctx, query, id))
}

// Update rewrites a flow inside the transaction.
func (r *FlowRepository) Update(ctx context.Context, tx usecase.Transaction, flow *domain.Flow) error {
	query := `
		UPDATE flows
		SET direction = $2, classification = $3, amount = $4, payment_method = $5,
			movement_date = $6, description = $7, edited = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		flow.ID,
		flow.Direction,
		flow.Classification,
		decimalToNumeric(flow.Amount),
		flow.PaymentMethod,
		timeToPgTimestamptz(flow.MovementDate),
		flow.Description,
		flow.Edited,
		timeToPgTimestamptz(flow.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlowNotFound
	}

	return nil
}

// Delete removes a flow inside the transaction.
func (r *FlowRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	query := `DELETE FROM flows WHERE id = $1`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlowNotFound
	}

	return nil
}

// List retrieves flows ordered by movement date, newest first.
func (r *FlowRepository) List(ctx context.Context, limit, offset int) ([]*domain.Flow, error) {
	query := `
		SELECT ` + flowColumns + `
		FROM flows
		ORDER BY movement_date DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlows(rows)
}

// ListByUser retrieves flows attributed to one user.
func (r *FlowRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Flow, error) {
	query := `
		SELECT ` + flowColumns + `
		FROM flows
		WHERE user_id = $1
		ORDER BY movement_date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlows(rows)
}

// ListByDateRange retrieves flows with movement date in [from, to).
func (r *FlowRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Flow, error) {
	query := `
		SELECT ` + flowColumns + `
		FROM flows
		WHERE movement_date >= $1 AND movement_date < $2
		ORDER BY movement_date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, timeToPgTimestamptz(from), timeToPgTimestamptz(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlows(rows)
}

func scanFlow(row pgx.Row) (*domain.Flow, error) {
	var (
		flow         domain.Flow
		amount       pgtype.Numeric
		movementDate pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&flow.ID,
		&flow.UserID,
		&flow.Direction,
		&flow.Classification,
		&amount,
		&flow.PaymentMethod,
		&movementDate,
		&flow.Description,
		&flow.Edited,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFlowNotFound
	}
	if err != nil {
		return nil, err
	}

	flow.Amount = numericToDecimal(amount)
	flow.MovementDate = movementDate.Time
	flow.CreatedAt = createdAt.Time
	flow.UpdatedAt = updatedAt.Time

	return &flow, nil
}

func scanFlows(rows pgx.Rows) ([]*domain.Flow, error) {
	flows := make([]*domain.Flow, 0)
	for rows.Next() {
		flow, err := scanFlow(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}

	return flows, rows.Err()
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	// n.Int is nil for NUMERIC NaN values, which this schema never writes.
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
