package domain

import "time"

// CartLine is one mutable entry of an in-progress cart.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Draft is an order under construction by an operator. ID and OrderNumber
// are zero for a fresh draft; a draft seeded by resuming a held order
// carries the original number, creator and creation time forward.
type Draft struct {
	ID          int64      `json:"id"`
	StoreID     string     `json:"store_id"`
	OrderNumber string     `json:"order_number,omitempty"`
	Lines       []CartLine `json:"lines"`

	DiscountPercent float64   `json:"discount_percent"`
	OrderType       OrderType `json:"order_type"`

	CustomerID   string `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	TableNumber  string `json:"table_number,omitempty"`
	Note         string `json:"note,omitempty"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// PruneLines drops entries with non-positive quantity.
func (d *Draft) PruneLines() {
	kept := d.Lines[:0]
	for _, line := range d.Lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	d.Lines = kept
}

// StoreConfig is the per-store pricing and routing configuration the engine
// consumes. KOTEnabled is resolved to a plain bool at the storage boundary.
type StoreConfig struct {
	StoreID           string
	Name              string
	TaxRate           float64
	ServiceChargeRate float64
	KOTEnabled        bool
	Currency          string
}
