package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusOnHold    OrderStatus = "on_hold"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusReturned  OrderStatus = "returned"
)

// Final reports whether the status permits no further transitions.
// A completed order may still move to returned; cancelled and returned
// are fully terminal.
func (s OrderStatus) Final() bool {
	return s == OrderStatusCancelled || s == OrderStatusReturned
}

// Active reports whether the order is still in the kitchen/service flow.
func (s OrderStatus) Active() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady:
		return true
	}
	return false
}

// CanTransitionTo encodes the legal order status transitions.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case OrderStatusPending:
		switch next {
		case OrderStatusPreparing, OrderStatusReady, OrderStatusOnHold,
			OrderStatusCompleted, OrderStatusCancelled:
			return true
		}
	case OrderStatusPreparing:
		switch next {
		case OrderStatusReady, OrderStatusOnHold, OrderStatusCompleted, OrderStatusCancelled:
			return true
		}
	case OrderStatusReady:
		switch next {
		case OrderStatusOnHold, OrderStatusCompleted, OrderStatusCancelled:
			return true
		}
	case OrderStatusOnHold:
		switch next {
		case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
			return true
		}
	case OrderStatusCompleted:
		return next == OrderStatusReturned
	}
	return false
}

type KitchenStatus string

const (
	KitchenStatusPending   KitchenStatus = "pending"
	KitchenStatusPreparing KitchenStatus = "preparing"
	KitchenStatusReady     KitchenStatus = "ready"
	KitchenStatusServed    KitchenStatus = "served"
)

// Next reports whether n is a forward step in the kitchen flow.
func (s KitchenStatus) Next(n KitchenStatus) bool {
	order := map[KitchenStatus]int{
		KitchenStatusPending:   0,
		KitchenStatusPreparing: 1,
		KitchenStatusReady:     2,
		KitchenStatusServed:    3,
	}
	cur, ok := order[s]
	if !ok {
		return false
	}
	nxt, ok := order[n]
	if !ok {
		return false
	}
	return nxt > cur
}

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

// OrderLine is one frozen line of an order's item snapshot.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Order is the central entity. ID 0 means an unpersisted draft; once the
// status is completed the items snapshot and total are immutable and only
// transactions may be appended.
type Order struct {
	ID          int64
	StoreID     string
	OrderNumber string

	Status        OrderStatus
	KitchenStatus KitchenStatus
	OrderType     OrderType

	Items           []OrderLine
	Subtotal        float64
	DiscountPercent float64
	DiscountAmount  float64
	ServiceCharge   float64
	Tax             float64
	Total           float64

	CustomerID   string
	CustomerName string
	TableNumber  string
	Note         string

	Transactions []Transaction
	ShiftID      string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaidAmount is the net settled amount: payments minus refunds.
func (o *Order) PaidAmount() float64 {
	var net float64
	for _, tx := range o.Transactions {
		switch tx.Type {
		case TransactionPayment:
			net += tx.Amount
		case TransactionRefund:
			net -= tx.Amount
		}
	}
	return net
}

// CashMovement is the net cash-method movement of this order, the quantity
// a register shift accounts for.
func (o *Order) CashMovement() float64 {
	var net float64
	for _, tx := range o.Transactions {
		if tx.Method != MethodCash {
			continue
		}
		switch tx.Type {
		case TransactionPayment:
			net += tx.Amount
		case TransactionRefund:
			net -= tx.Amount
		}
	}
	return net
}
