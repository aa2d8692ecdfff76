package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tillfolk/pos-api/internal/domain"
)

type StoreRepository struct {
	pool *pgxpool.Pool
}

func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

var ErrStoreNotFound = fmt.Errorf("store not found")

// StoreConfig resolves the per-store settings. The legacy kot_enabled
// column holds free-form text; it is interpreted here, once, into a bool.
func (r *StoreRepository) StoreConfig(ctx context.Context, storeID string) (domain.StoreConfig, error) {
	const query = `
SELECT id, name, tax_rate, service_charge_rate, kot_enabled, currency
FROM stores WHERE id = $1`

	var cfg domain.StoreConfig
	var kot *string
	err := r.queryRow(ctx, query, storeID).
		Scan(&cfg.StoreID, &cfg.Name, &cfg.TaxRate, &cfg.ServiceChargeRate, &kot, &cfg.Currency)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.StoreConfig{}, ErrStoreNotFound
		}
		return domain.StoreConfig{}, fmt.Errorf("get store config: %w", err)
	}
	cfg.KOTEnabled = parseFlag(kot)
	return cfg, nil
}

func parseFlag(raw *string) bool {
	if raw == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(*raw)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func (r *StoreRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
