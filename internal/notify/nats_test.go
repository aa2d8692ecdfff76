package notify

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tillfolk/pos-api/internal/domain"
)

func newTestConn(t *testing.T) *nats.Conn {
	t.Helper()
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url, nats.Timeout(2*time.Second))
	if err != nil {
		t.Skipf("NATS not available: %v", err)
	}
	t.Cleanup(conn.Close)
	return conn
}

func TestPublisher_OrderChanged(t *testing.T) {
	conn := newTestConn(t)
	pub := NewPublisherWithConn(conn)

	sub, err := conn.SubscribeSync("pos.orders.store-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	order := domain.Order{
		ID:            12,
		StoreID:       "store-1",
		OrderNumber:   "ORD-000012",
		Status:        domain.OrderStatusCompleted,
		KitchenStatus: domain.KitchenStatusServed,
		OrderType:     domain.OrderTypeTakeaway,
		Total:         42.5,
		UpdatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := pub.OrderChanged(context.Background(), order); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("next msg: %v", err)
	}
	var event struct {
		OrderID     int64   `json:"order_id"`
		OrderNumber string  `json:"order_number"`
		Status      string  `json:"status"`
		Total       float64 `json:"total"`
	}
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.OrderID != 12 || event.OrderNumber != "ORD-000012" {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.Status != "completed" || event.Total != 42.5 {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestPublisher_ShiftChanged(t *testing.T) {
	conn := newTestConn(t)
	pub := NewPublisherWithConn(conn)

	sub, err := conn.SubscribeSync("pos.shifts.store-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	diff := -12.5
	closedAt := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	shift := domain.RegisterShift{
		ID:         "shift-1",
		StoreID:    "store-1",
		Status:     domain.ShiftStatusClosed,
		ClosedAt:   &closedAt,
		Difference: &diff,
	}
	if err := pub.ShiftChanged(context.Background(), shift); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("next msg: %v", err)
	}
	var event struct {
		ShiftID    string   `json:"shift_id"`
		Status     string   `json:"status"`
		Difference *float64 `json:"difference"`
	}
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.ShiftID != "shift-1" || event.Status != "closed" {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.Difference == nil || *event.Difference != -12.5 {
		t.Fatalf("unexpected difference %v", event.Difference)
	}
}
