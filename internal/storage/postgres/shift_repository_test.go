package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tillfolk/pos-api/internal/domain"
	"github.com/tillfolk/pos-api/internal/testutil"
)

func TestShiftRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewShiftRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	openShift := func(storeID string) domain.RegisterShift {
		return domain.RegisterShift{
			ID:                   uuid.NewString(),
			StoreID:              storeID,
			Status:               domain.ShiftStatusOpen,
			OpenedBy:             "alice",
			OpenedAt:             now,
			StartingCash:         250,
			OpeningDenominations: domain.Denominations{100: 2, 50: 1},
		}
	}

	t.Run("open and read back", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertStore(t, ctx, pool, "store-1", domain.StoreConfig{})

		shift := openShift("store-1")
		if err := repo.OpenShift(ctx, shift); err != nil {
			t.Fatalf("open shift: %v", err)
		}

		got, err := repo.ActiveShift(ctx, "store-1")
		if err != nil {
			t.Fatalf("active shift: %v", err)
		}
		if got == nil || got.ID != shift.ID {
			t.Fatalf("unexpected active shift %+v", got)
		}
		if got.StartingCash != 250 || got.OpeningDenominations[100] != 2 {
			t.Fatalf("unexpected drawer %+v", got)
		}
	})

	t.Run("no active shift", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertStore(t, ctx, pool, "store-1", domain.StoreConfig{})

		got, err := repo.ActiveShift(ctx, "store-1")
		if err != nil {
			t.Fatalf("active shift: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("second open shift per store is rejected", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertStore(t, ctx, pool, "store-1", domain.StoreConfig{})
		testutil.InsertStore(t, ctx, pool, "store-2", domain.StoreConfig{})

		if err := repo.OpenShift(ctx, openShift("store-1")); err != nil {
			t.Fatalf("open first shift: %v", err)
		}
		if err := repo.OpenShift(ctx, openShift("store-1")); !errors.Is(err, domain.ErrShiftAlreadyOpen) {
			t.Fatalf("expected ErrShiftAlreadyOpen, got %v", err)
		}
		// other stores are unaffected
		if err := repo.OpenShift(ctx, openShift("store-2")); err != nil {
			t.Fatalf("open shift for second store: %v", err)
		}
	})

	t.Run("close shift", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertStore(t, ctx, pool, "store-1", domain.StoreConfig{})

		shift := openShift("store-1")
		if err := repo.OpenShift(ctx, shift); err != nil {
			t.Fatalf("open shift: %v", err)
		}

		closedAt := now.Add(12 * time.Hour)
		expected, actual, diff := 250.0, 300.0, 50.0
		shift.Status = domain.ShiftStatusClosed
		shift.ClosedBy = "bob"
		shift.ClosedAt = &closedAt
		shift.ExpectedCash = &expected
		shift.ActualCash = &actual
		shift.Difference = &diff
		shift.ClosingDenominations = domain.Denominations{100: 3}
		shift.CloseNote = "end of day"

		if err := repo.CloseShift(ctx, shift); err != nil {
			t.Fatalf("close shift: %v", err)
		}

		got, err := repo.ActiveShift(ctx, "store-1")
		if err != nil {
			t.Fatalf("active shift: %v", err)
		}
		if got != nil {
			t.Fatalf("expected no active shift after close, got %+v", got)
		}

		// closing twice hits no open row
		if err := repo.CloseShift(ctx, shift); !errors.Is(err, domain.ErrNoOpenShift) {
			t.Fatalf("expected ErrNoOpenShift, got %v", err)
		}
	})

	t.Run("cash movement nets payments against refunds", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		storeID := testutil.InsertStore(t, ctx, pool, "store-1", domain.StoreConfig{})
		shiftID := testutil.InsertOpenShift(t, ctx, pool, uuid.NewString(), storeID, 200)

		orders := NewOrderRepository(pool)
		order := testOrder(storeID, now)
		order.Status = domain.OrderStatusCompleted
		order.ShiftID = shiftID
		if err := orders.CreateOrder(ctx, &order); err != nil {
			t.Fatalf("create order: %v", err)
		}

		err := orders.AppendTransactions(ctx, order.ID, []domain.Transaction{
			{ID: uuid.NewString(), Type: domain.TransactionPayment, Method: domain.MethodCash,
				Amount: 60, PerformedBy: "alice", CreatedAt: now},
			{ID: uuid.NewString(), Type: domain.TransactionPayment, Method: domain.MethodCard,
				Amount: 40, ReferenceNumber: "C1", PerformedBy: "alice", CreatedAt: now},
			{ID: uuid.NewString(), Type: domain.TransactionRefund, Method: domain.MethodCash,
				Amount: 25, PerformedBy: "bob", CreatedAt: now.Add(time.Hour)},
		})
		if err != nil {
			t.Fatalf("append transactions: %v", err)
		}

		movement, err := repo.CashMovement(ctx, shiftID)
		if err != nil {
			t.Fatalf("cash movement: %v", err)
		}
		if movement != 35 {
			t.Fatalf("expected cash movement 35, got %v", movement)
		}
	})
}
