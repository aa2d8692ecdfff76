package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tillfolk/pos-api/internal/domain"
)

const (
	orderSubjectPrefix = "pos.orders."
	shiftSubjectPrefix = "pos.shifts."
)

// Publisher broadcasts order and shift changes over NATS so kitchen
// displays and sibling terminals can react without polling.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// NewPublisherWithConn wraps an existing connection; the caller owns it.
func NewPublisherWithConn(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

type orderEvent struct {
	OrderID       int64     `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	KitchenStatus string    `json:"kitchen_status"`
	OrderType     string    `json:"order_type"`
	Total         float64   `json:"total"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (p *Publisher) OrderChanged(_ context.Context, order domain.Order) error {
	payload, err := json.Marshal(orderEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        string(order.Status),
		KitchenStatus: string(order.KitchenStatus),
		OrderType:     string(order.OrderType),
		Total:         order.Total,
		OccurredAt:    order.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	return p.conn.Publish(orderSubjectPrefix+order.StoreID, payload)
}

type shiftEvent struct {
	ShiftID    string     `json:"shift_id"`
	Status     string     `json:"status"`
	OpenedAt   time.Time  `json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	Difference *float64   `json:"difference,omitempty"`
}

func (p *Publisher) ShiftChanged(_ context.Context, shift domain.RegisterShift) error {
	payload, err := json.Marshal(shiftEvent{
		ShiftID:    shift.ID,
		Status:     string(shift.Status),
		OpenedAt:   shift.OpenedAt,
		ClosedAt:   shift.ClosedAt,
		Difference: shift.Difference,
	})
	if err != nil {
		return fmt.Errorf("marshal shift event: %w", err)
	}
	return p.conn.Publish(shiftSubjectPrefix+shift.StoreID, payload)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
