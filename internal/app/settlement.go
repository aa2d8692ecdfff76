package app

import (
	"time"

	"github.com/google/uuid"
	"github.com/tillfolk/pos-api/internal/domain"
)

// PaymentInstrument is one leg of a payment plan. TenderedAmount is only
// meaningful for cash; Amount is only meaningful in a split plan.
type PaymentInstrument struct {
	Method          domain.PaymentMethod
	Amount          float64
	ReferenceNumber string
	TenderedAmount  float64
}

// PaymentPlan settles an order with a single instrument or an exact
// two-way split.
type PaymentPlan struct {
	Instruments []PaymentInstrument
}

func newTransactionID() string {
	return uuid.NewString()
}

// buildTransactions validates the plan against the order total and returns
// the payment transactions to append, one per instrument. All validation
// happens before any transaction is built; nothing is mutated on error.
func buildTransactions(plan PaymentPlan, total float64, performedBy string, now time.Time) ([]domain.Transaction, error) {
	switch len(plan.Instruments) {
	case 1:
		return singleTransaction(plan.Instruments[0], total, performedBy, now)
	case 2:
		return splitTransactions(plan.Instruments, total, performedBy, now)
	default:
		if len(plan.Instruments) == 0 {
			return nil, domain.ErrInvalidInstrument
		}
		return nil, domain.ErrInvalidSplitCount
	}
}

func singleTransaction(in PaymentInstrument, total float64, performedBy string, now time.Time) ([]domain.Transaction, error) {
	if !in.Method.Valid() {
		return nil, domain.ErrInvalidInstrument
	}

	tx := domain.Transaction{
		ID:          newTransactionID(),
		Type:        domain.TransactionPayment,
		Method:      in.Method,
		Amount:      total,
		PerformedBy: performedBy,
		CreatedAt:   now,
	}

	if in.Method == domain.MethodCash {
		tendered := in.TenderedAmount
		if tendered == 0 {
			tendered = total
		}
		if domain.MoneyLess(tendered, total) {
			return nil, &domain.InsufficientFundsError{Tendered: tendered, Total: total}
		}
		change := tendered - total
		if change < 0 {
			change = 0
		}
		tx.TenderedAmount = tendered
		tx.ChangeAmount = change
		return []domain.Transaction{tx}, nil
	}

	if in.ReferenceNumber == "" {
		return nil, domain.ErrMissingReference
	}
	tx.ReferenceNumber = in.ReferenceNumber
	return []domain.Transaction{tx}, nil
}

func splitTransactions(ins []PaymentInstrument, total float64, performedBy string, now time.Time) ([]domain.Transaction, error) {
	var paid float64
	for _, in := range ins {
		if !in.Method.Valid() || in.Amount <= 0 {
			return nil, domain.ErrInvalidInstrument
		}
		if in.Method != domain.MethodCash && in.ReferenceNumber == "" {
			return nil, domain.ErrMissingReference
		}
		paid += in.Amount
	}
	if !domain.MoneySameCents(paid, total) {
		return nil, &domain.SplitMismatchError{Paid: paid, Required: total}
	}

	txs := make([]domain.Transaction, 0, len(ins))
	for _, in := range ins {
		tx := domain.Transaction{
			ID:              newTransactionID(),
			Type:            domain.TransactionPayment,
			Method:          in.Method,
			Amount:          in.Amount,
			ReferenceNumber: in.ReferenceNumber,
			PerformedBy:     performedBy,
			CreatedAt:       now,
		}
		if in.Method == domain.MethodCash {
			tx.TenderedAmount = in.Amount
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
