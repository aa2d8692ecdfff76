package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tillfolk/pos-api/internal/clock"
	"github.com/tillfolk/pos-api/internal/domain"
)

type ShiftRepository interface {
	ActiveShift(ctx context.Context, storeID string) (*domain.RegisterShift, error)
	OpenShift(ctx context.Context, shift domain.RegisterShift) error
	CloseShift(ctx context.Context, shift domain.RegisterShift) error
	// CashMovement is the net cash taken minus refunded across completed
	// orders bound to the shift.
	CashMovement(ctx context.Context, shiftID string) (float64, error)
}

type ShiftService struct {
	repo     ShiftRepository
	notifier Notifier
	audit    ActivityLogger
	clock    clock.Clock
	log      logrus.FieldLogger
}

func NewShiftService(repo ShiftRepository, clk clock.Clock, opts ...ShiftServiceOption) *ShiftService {
	svc := &ShiftService{
		repo:     repo,
		notifier: NoopNotifier{},
		clock:    clk,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ShiftServiceOption func(*ShiftService)

func WithShiftNotifier(n Notifier) ShiftServiceOption {
	return func(s *ShiftService) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithShiftActivityLog(a ActivityLogger) ShiftServiceOption {
	return func(s *ShiftService) { s.audit = a }
}

func WithShiftLogger(log logrus.FieldLogger) ShiftServiceOption {
	return func(s *ShiftService) {
		if log != nil {
			s.log = log
		}
	}
}

type OpenShiftInput struct {
	StoreID       string
	OpenedBy      string
	Denominations domain.Denominations
}

// Open starts a register session with the counted drawer. The storage
// layer rejects a second open shift for the store atomically.
func (s *ShiftService) Open(ctx context.Context, in OpenShiftInput) (domain.RegisterShift, error) {
	if !in.Denominations.Valid() {
		return domain.RegisterShift{}, domain.ErrInvalidDenomination
	}

	shift := domain.RegisterShift{
		ID:                   uuid.NewString(),
		StoreID:              in.StoreID,
		Status:               domain.ShiftStatusOpen,
		OpenedBy:             in.OpenedBy,
		OpenedAt:             s.clock.Now(),
		StartingCash:         in.Denominations.Total(),
		OpeningDenominations: in.Denominations,
	}

	if err := s.repo.OpenShift(ctx, shift); err != nil {
		return domain.RegisterShift{}, err
	}

	s.afterShiftWrite(ctx, shift, in.OpenedBy, "shift_opened",
		fmt.Sprintf("starting_cash=%.2f", shift.StartingCash))
	return shift, nil
}

type CloseShiftInput struct {
	StoreID       string
	ClosedBy      string
	Denominations domain.Denominations
	Note          string
}

// Close reconciles and ends the open register session. Expected cash is
// starting cash plus the net cash movement of completed orders bound to
// the shift; the difference is informational and never blocks closure.
func (s *ShiftService) Close(ctx context.Context, in CloseShiftInput) (domain.RegisterShift, error) {
	if !in.Denominations.Valid() {
		return domain.RegisterShift{}, domain.ErrInvalidDenomination
	}

	active, err := s.repo.ActiveShift(ctx, in.StoreID)
	if err != nil {
		return domain.RegisterShift{}, err
	}
	if active == nil {
		return domain.RegisterShift{}, domain.ErrNoOpenShift
	}

	movement, err := s.repo.CashMovement(ctx, active.ID)
	if err != nil {
		return domain.RegisterShift{}, err
	}

	now := s.clock.Now()
	expected := active.StartingCash + movement
	actual := in.Denominations.Total()
	difference := actual - expected

	shift := *active
	shift.Status = domain.ShiftStatusClosed
	shift.ClosedBy = in.ClosedBy
	shift.ClosedAt = &now
	shift.ExpectedCash = &expected
	shift.ActualCash = &actual
	shift.Difference = &difference
	shift.ClosingDenominations = in.Denominations
	shift.CloseNote = in.Note

	if err := s.repo.CloseShift(ctx, shift); err != nil {
		return domain.RegisterShift{}, err
	}

	s.afterShiftWrite(ctx, shift, in.ClosedBy, "shift_closed",
		fmt.Sprintf("expected=%.2f actual=%.2f difference=%.2f", expected, actual, difference))
	return shift, nil
}

// Active returns the store's open shift, or nil when the register is closed.
func (s *ShiftService) Active(ctx context.Context, storeID string) (*domain.RegisterShift, error) {
	return s.repo.ActiveShift(ctx, storeID)
}

func (s *ShiftService) afterShiftWrite(ctx context.Context, shift domain.RegisterShift, actor, action, details string) {
	if s.audit != nil {
		entry := domain.ActivityEntry{
			StoreID:    shift.StoreID,
			Action:     action,
			EntityType: "shift",
			EntityID:   shift.ID,
			Actor:      actor,
			Details:    details,
			CreatedAt:  s.clock.Now(),
		}
		if err := s.audit.Log(ctx, entry); err != nil {
			s.log.WithError(err).WithField("action", action).Warn("activity log")
		}
	}
	if err := s.notifier.ShiftChanged(ctx, shift); err != nil {
		s.log.WithError(err).WithField("shift", shift.ID).Warn("notify shift change")
	}
}
