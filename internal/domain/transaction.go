package domain

import "time"

type TransactionType string

const (
	TransactionPayment      TransactionType = "payment"
	TransactionRefund       TransactionType = "refund"
	TransactionReversal     TransactionType = "reversal"
	TransactionCancellation TransactionType = "cancellation"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

// Transaction is one payment or refund record on an order. Immutable once
// appended.
type Transaction struct {
	ID              string
	OrderID         int64
	Type            TransactionType
	Method          PaymentMethod
	Amount          float64
	ReferenceNumber string
	TenderedAmount  float64
	ChangeAmount    float64
	PerformedBy     string
	CreatedAt       time.Time
}
