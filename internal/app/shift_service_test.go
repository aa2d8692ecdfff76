package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tillfolk/pos-api/internal/clock"
	"github.com/tillfolk/pos-api/internal/domain"
)

func TestShiftService_Open(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("counts the drawer into starting cash", func(t *testing.T) {
		repo := newFakeShiftRepo(nil)
		notifier := &recordingNotifier{}
		svc := NewShiftService(repo, clock.NewFixed(now), WithShiftNotifier(notifier))

		shift, err := svc.Open(context.Background(), OpenShiftInput{
			StoreID:       "store-1",
			OpenedBy:      "alice",
			Denominations: domain.Denominations{100: 2, 50: 1},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if shift.ID == "" {
			t.Fatalf("expected shift ID to be set")
		}
		if shift.Status != domain.ShiftStatusOpen {
			t.Fatalf("expected open, got %s", shift.Status)
		}
		if shift.StartingCash != 250 {
			t.Fatalf("expected starting cash 250, got %v", shift.StartingCash)
		}
		if !shift.OpenedAt.Equal(now) || shift.OpenedBy != "alice" {
			t.Fatalf("unexpected opening identity %+v", shift)
		}
		if len(notifier.shifts) != 1 {
			t.Fatalf("expected shift change notification")
		}
	})

	t.Run("second open shift for the store fails", func(t *testing.T) {
		repo := newFakeShiftRepo(&domain.RegisterShift{
			ID: "shift-1", StoreID: "store-1", Status: domain.ShiftStatusOpen,
		})
		svc := NewShiftService(repo, clock.NewFixed(now))

		_, err := svc.Open(context.Background(), OpenShiftInput{
			StoreID:       "store-1",
			OpenedBy:      "bob",
			Denominations: domain.Denominations{100: 1},
		})
		if !errors.Is(err, domain.ErrShiftAlreadyOpen) {
			t.Fatalf("expected ErrShiftAlreadyOpen, got %v", err)
		}
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		svc := NewShiftService(newFakeShiftRepo(nil), clock.NewFixed(now))
		_, err := svc.Open(context.Background(), OpenShiftInput{
			StoreID:       "store-1",
			Denominations: domain.Denominations{100: -1},
		})
		if !errors.Is(err, domain.ErrInvalidDenomination) {
			t.Fatalf("expected ErrInvalidDenomination, got %v", err)
		}
	})
}

func TestShiftService_Close(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	open := &domain.RegisterShift{
		ID:           "shift-1",
		StoreID:      "store-1",
		Status:       domain.ShiftStatusOpen,
		StartingCash: 200,
	}

	t.Run("reconciles against cash movement", func(t *testing.T) {
		repo := newFakeShiftRepo(open)
		repo.movement = 50
		audit := &recordingAudit{}
		svc := NewShiftService(repo, clock.NewFixed(now), WithShiftActivityLog(audit))

		shift, err := svc.Close(context.Background(), CloseShiftInput{
			StoreID:       "store-1",
			ClosedBy:      "alice",
			Denominations: domain.Denominations{100: 3},
			Note:          "end of day",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if shift.Status != domain.ShiftStatusClosed {
			t.Fatalf("expected closed, got %s", shift.Status)
		}
		if shift.ExpectedCash == nil || *shift.ExpectedCash != 250 {
			t.Fatalf("expected expected cash 250, got %v", shift.ExpectedCash)
		}
		if shift.ActualCash == nil || *shift.ActualCash != 300 {
			t.Fatalf("expected actual cash 300, got %v", shift.ActualCash)
		}
		if shift.Difference == nil || *shift.Difference != 50 {
			t.Fatalf("expected difference 50, got %v", shift.Difference)
		}
		if shift.ClosedAt == nil || !shift.ClosedAt.Equal(now) {
			t.Fatalf("expected close time stamped")
		}
		if shift.CloseNote != "end of day" {
			t.Fatalf("expected note kept, got %q", shift.CloseNote)
		}
		if len(audit.entries) != 1 || audit.entries[0].Action != "shift_closed" {
			t.Fatalf("unexpected audit entries %+v", audit.entries)
		}
	})

	t.Run("shortage never blocks closing", func(t *testing.T) {
		repo := newFakeShiftRepo(open)
		repo.movement = 100
		svc := NewShiftService(repo, clock.NewFixed(now))

		shift, err := svc.Close(context.Background(), CloseShiftInput{
			StoreID:       "store-1",
			ClosedBy:      "alice",
			Denominations: domain.Denominations{100: 2},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if *shift.Difference != -100 {
			t.Fatalf("expected difference -100, got %v", *shift.Difference)
		}
	})

	t.Run("no open shift", func(t *testing.T) {
		svc := NewShiftService(newFakeShiftRepo(nil), clock.NewFixed(now))
		_, err := svc.Close(context.Background(), CloseShiftInput{
			StoreID:       "store-1",
			Denominations: domain.Denominations{},
		})
		if !errors.Is(err, domain.ErrNoOpenShift) {
			t.Fatalf("expected ErrNoOpenShift, got %v", err)
		}
	})

	t.Run("rejects invalid denominations", func(t *testing.T) {
		svc := NewShiftService(newFakeShiftRepo(open), clock.NewFixed(now))
		_, err := svc.Close(context.Background(), CloseShiftInput{
			StoreID:       "store-1",
			Denominations: domain.Denominations{0: 3},
		})
		if !errors.Is(err, domain.ErrInvalidDenomination) {
			t.Fatalf("expected ErrInvalidDenomination, got %v", err)
		}
	})
}

type fakeShiftRepo struct {
	active   *domain.RegisterShift
	closed   []domain.RegisterShift
	movement float64
}

func newFakeShiftRepo(active *domain.RegisterShift) *fakeShiftRepo {
	return &fakeShiftRepo{active: active}
}

func (f *fakeShiftRepo) ActiveShift(_ context.Context, storeID string) (*domain.RegisterShift, error) {
	if f.active == nil || f.active.StoreID != storeID {
		return nil, nil
	}
	shift := *f.active
	return &shift, nil
}

func (f *fakeShiftRepo) OpenShift(_ context.Context, shift domain.RegisterShift) error {
	if f.active != nil && f.active.StoreID == shift.StoreID {
		return domain.ErrShiftAlreadyOpen
	}
	f.active = &shift
	return nil
}

func (f *fakeShiftRepo) CloseShift(_ context.Context, shift domain.RegisterShift) error {
	if f.active == nil || f.active.ID != shift.ID {
		return domain.ErrNoOpenShift
	}
	f.active = nil
	f.closed = append(f.closed, shift)
	return nil
}

func (f *fakeShiftRepo) CashMovement(context.Context, string) (float64, error) {
	return f.movement, nil
}
