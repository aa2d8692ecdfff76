package app

import (
	"context"

	"github.com/tillfolk/pos-api/internal/domain"
)

// DraftStore persists the in-progress draft so a terminal restart does not
// lose the operator's cart. Implementations may expire entries.
type DraftStore interface {
	Save(ctx context.Context, terminalID string, draft domain.Draft) error
	Load(ctx context.Context, terminalID string) (*domain.Draft, error)
	Clear(ctx context.Context, terminalID string) error
}

// Notifier broadcasts persistence-boundary changes to interested consumers
// (kitchen displays, other terminals). Best effort; callers log failures
// and move on.
type Notifier interface {
	OrderChanged(ctx context.Context, order domain.Order) error
	ShiftChanged(ctx context.Context, shift domain.RegisterShift) error
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

func (NoopNotifier) OrderChanged(context.Context, domain.Order) error         { return nil }
func (NoopNotifier) ShiftChanged(context.Context, domain.RegisterShift) error { return nil }

// ActivityLogger is the fire-and-forget audit sink.
type ActivityLogger interface {
	Log(ctx context.Context, entry domain.ActivityEntry) error
}

// StoreConfigProvider resolves the per-store pricing and routing settings.
type StoreConfigProvider interface {
	StoreConfig(ctx context.Context, storeID string) (domain.StoreConfig, error)
}
