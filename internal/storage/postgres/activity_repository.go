package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tillfolk/pos-api/internal/domain"
)

// ActivityRepository appends to the audit log. Rows are never updated or
// deleted.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Log(ctx context.Context, entry domain.ActivityEntry) error {
	const stmt = `
INSERT INTO activity_log (store_id, action, entity_type, entity_id, actor, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt,
		entry.StoreID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Actor,
		nullable(entry.Details),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}
