package domain

import "time"

// ActivityEntry is one row in the append-only audit log.
type ActivityEntry struct {
	StoreID    string
	Action     string
	EntityType string
	EntityID   string
	Actor      string
	Details    string
	CreatedAt  time.Time
}
