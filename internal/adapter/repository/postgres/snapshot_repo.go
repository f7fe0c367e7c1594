package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
)

// SnapshotRepository implements usecase.SnapshotRepository over the
// append-only balance_snapshots table.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

const snapshotColumns = `id, account_balance, cash_balance, recorded_at`

// GetLatest retrieves the most recent snapshot, or nil when none exists.
func (r *SnapshotRepository) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM balance_snapshots
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`

	return scanSnapshotOrNil(r.pool.QueryRow(ctx, query))
}

// balanceLockKey identifies the advisory lock serializing balance
// recalculations. The value spells "cashflow" in ASCII.
const balanceLockKey = int64(0x63617368666c6f77)

// GetLatestLocked takes the balance recalculation lock, then retrieves the
// most recent snapshot. The advisory lock is transaction scoped and must be
// acquired in its own statement: the read that follows then sees the row the
// previous holder committed. A FOR UPDATE on the latest row cannot serialize
// appends here. An empty table has no row to lock, and under read committed
// a waiter's statement snapshot predates the holder's insert.
func (r *SnapshotRepository) GetLatestLocked(ctx context.Context, tx usecase.Transaction) (*domain.Snapshot, error) {
	pgxTx := tx.(*Tx).PgxTx()

	if _, err := pgxTx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, balanceLockKey); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + snapshotColumns + `
		FROM balance_snapshots
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`

	return scanSnapshotOrNil(pgxTx.QueryRow(ctx, query))
}

// Append inserts a new snapshot inside the transaction.
func (r *SnapshotRepository) Append(ctx context.Context, tx usecase.Transaction, snapshot *domain.Snapshot) error {
	query := `
		INSERT INTO balance_snapshots (id, account_balance, cash_balance, recorded_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		snapshot.ID,
		decimalToNumeric(snapshot.AccountBalance),
		decimalToNumeric(snapshot.CashBalance),
		timeToPgTimestamptz(snapshot.RecordedAt),
	)

	return err
}

// List retrieves the snapshot history, newest first.
func (r *SnapshotRepository) List(ctx context.Context, limit, offset int) ([]*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM balance_snapshots
		ORDER BY recorded_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]*domain.Snapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

func scanSnapshot(row pgx.Row) (*domain.Snapshot, error) {
	var (
		snapshot       domain.Snapshot
		accountBalance pgtype.Numeric
		cashBalance    pgtype.Numeric
		recordedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&snapshot.ID,
		&accountBalance,
		&cashBalance,
		&recordedAt,
	)
	if err != nil {
		return nil, err
	}

	snapshot.AccountBalance = numericToDecimal(accountBalance)
	snapshot.CashBalance = numericToDecimal(cashBalance)
	snapshot.RecordedAt = recordedAt.Time

	return &snapshot, nil
}

func scanSnapshotOrNil(row pgx.Row) (*domain.Snapshot, error) {
	snapshot, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return snapshot, err
}
