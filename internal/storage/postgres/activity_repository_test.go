package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/tillfolk/pos-api/internal/domain"
	"github.com/tillfolk/pos-api/internal/testutil"
)

func TestActivityRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewActivityRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	entry := domain.ActivityEntry{
		StoreID:    "store-1",
		Action:     "order_settled",
		EntityType: "order",
		EntityID:   "ORD-000001",
		Actor:      "alice",
		Details:    "total=25.99",
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.Log(ctx, entry); err != nil {
		t.Fatalf("log activity: %v", err)
	}

	var action, actor string
	var details *string
	err := pool.QueryRow(ctx,
		`SELECT action, actor, details FROM activity_log WHERE store_id = $1`, "store-1",
	).Scan(&action, &actor, &details)
	if err != nil {
		t.Fatalf("query activity: %v", err)
	}
	if action != "order_settled" || actor != "alice" {
		t.Fatalf("unexpected row %s %s", action, actor)
	}
	if details == nil || *details != "total=25.99" {
		t.Fatalf("unexpected details %v", details)
	}
}
