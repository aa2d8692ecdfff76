package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusOpen   ShiftStatus = "open"
	ShiftStatusClosed ShiftStatus = "closed"
)

// Denominations maps a note/coin face value to its counted quantity.
type Denominations map[int]int

// Total is the cash value of the counted drawer.
func (d Denominations) Total() float64 {
	var total float64
	for value, count := range d {
		total += float64(value * count)
	}
	return total
}

// Valid rejects negative face values or counts.
func (d Denominations) Valid() bool {
	for value, count := range d {
		if value <= 0 || count < 0 {
			return false
		}
	}
	return true
}

// RegisterShift is one open/close cycle of a store's cash drawer. At most
// one shift per store may be open at a time; the storage layer enforces it.
type RegisterShift struct {
	ID      string
	StoreID string
	Status  ShiftStatus

	OpenedBy             string
	OpenedAt             time.Time
	StartingCash         float64
	OpeningDenominations Denominations

	ClosedBy             string
	ClosedAt             *time.Time
	ExpectedCash         *float64
	ActualCash           *float64
	Difference           *float64
	ClosingDenominations Denominations
	CloseNote            string
}
