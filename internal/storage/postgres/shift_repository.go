package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tillfolk/pos-api/internal/domain"
)

type ShiftRepository struct {
	pool *pgxpool.Pool
}

func NewShiftRepository(pool *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

const shiftColumns = `id, store_id, status, opened_by, opened_at, starting_cash,
opening_denominations, closed_by, closed_at, expected_cash, actual_cash,
difference, closing_denominations, close_note`

func (r *ShiftRepository) ActiveShift(ctx context.Context, storeID string) (*domain.RegisterShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM register_shifts WHERE store_id = $1 AND status = 'open'`

	shift, err := scanShift(r.queryRow(ctx, query, storeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get active shift: %w", err)
	}
	return &shift, nil
}

// OpenShift relies on the partial unique index on open shifts per store:
// a concurrent open loses the race and maps to ErrShiftAlreadyOpen.
func (r *ShiftRepository) OpenShift(ctx context.Context, shift domain.RegisterShift) error {
	const stmt = `
INSERT INTO register_shifts (id, store_id, status, opened_by, opened_at,
	starting_cash, opening_denominations)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	opening, err := json.Marshal(shift.OpeningDenominations)
	if err != nil {
		return fmt.Errorf("marshal denominations: %w", err)
	}

	_, err = r.exec(ctx, stmt,
		shift.ID,
		shift.StoreID,
		shift.Status,
		shift.OpenedBy,
		shift.OpenedAt,
		shift.StartingCash,
		opening,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrShiftAlreadyOpen
		}
		return fmt.Errorf("open shift: %w", err)
	}
	return nil
}

// CloseShift only touches the still-open row; a stale or already closed
// shift maps to ErrNoOpenShift.
func (r *ShiftRepository) CloseShift(ctx context.Context, shift domain.RegisterShift) error {
	const stmt = `
UPDATE register_shifts
SET status = 'closed', closed_by = $3, closed_at = $4, expected_cash = $5,
	actual_cash = $6, difference = $7, closing_denominations = $8, close_note = $9
WHERE store_id = $1 AND id = $2 AND status = 'open'`

	closing, err := json.Marshal(shift.ClosingDenominations)
	if err != nil {
		return fmt.Errorf("marshal denominations: %w", err)
	}

	tag, err := r.exec(ctx, stmt,
		shift.StoreID,
		shift.ID,
		shift.ClosedBy,
		shift.ClosedAt,
		shift.ExpectedCash,
		shift.ActualCash,
		shift.Difference,
		closing,
		nullable(shift.CloseNote),
	)
	if err != nil {
		return fmt.Errorf("close shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoOpenShift
	}
	return nil
}

func (r *ShiftRepository) CashMovement(ctx context.Context, shiftID string) (float64, error) {
	const query = `
SELECT COALESCE(SUM(CASE t.type WHEN 'payment' THEN t.amount WHEN 'refund' THEN -t.amount ELSE 0 END), 0)
FROM order_transactions t
JOIN orders o ON o.id = t.order_id
WHERE o.shift_id = $1 AND t.method = 'cash'`

	var total float64
	if err := r.queryRow(ctx, query, shiftID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum cash movement: %w", err)
	}
	return total, nil
}

func scanShift(row pgx.Row) (domain.RegisterShift, error) {
	var s domain.RegisterShift
	var opening, closing []byte
	var closedBy, closeNote *string

	err := row.Scan(&s.ID, &s.StoreID, &s.Status, &s.OpenedBy, &s.OpenedAt, &s.StartingCash,
		&opening, &closedBy, &s.ClosedAt, &s.ExpectedCash, &s.ActualCash,
		&s.Difference, &closing, &closeNote)
	if err != nil {
		return domain.RegisterShift{}, err
	}

	if len(opening) > 0 {
		if err := json.Unmarshal(opening, &s.OpeningDenominations); err != nil {
			return domain.RegisterShift{}, fmt.Errorf("unmarshal denominations: %w", err)
		}
	}
	if len(closing) > 0 {
		if err := json.Unmarshal(closing, &s.ClosingDenominations); err != nil {
			return domain.RegisterShift{}, fmt.Errorf("unmarshal denominations: %w", err)
		}
	}
	s.ClosedBy = deref(closedBy)
	s.CloseNote = deref(closeNote)
	return s, nil
}

func (r *ShiftRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ShiftRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
