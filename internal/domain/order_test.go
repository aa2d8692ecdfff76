package domain

import "testing"

func TestOrderStatusCanTransitionTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusPreparing, true},
		{OrderStatusPending, OrderStatusOnHold, true},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusReturned, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusPreparing, OrderStatusPending, false},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusReady, OrderStatusPreparing, false},
		{OrderStatusOnHold, OrderStatusPending, true},
		{OrderStatusOnHold, OrderStatusCompleted, true},
		{OrderStatusOnHold, OrderStatusPreparing, false},
		{OrderStatusCompleted, OrderStatusReturned, true},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusReturned, OrderStatusCompleted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOrderStatusFinal(t *testing.T) {
	t.Parallel()

	if OrderStatusCompleted.Final() {
		t.Errorf("completed must not be final, it can still be returned")
	}
	if !OrderStatusCancelled.Final() || !OrderStatusReturned.Final() {
		t.Errorf("cancelled and returned must be final")
	}
}

func TestKitchenStatusNext(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to KitchenStatus
		want     bool
	}{
		{KitchenStatusPending, KitchenStatusPreparing, true},
		{KitchenStatusPending, KitchenStatusServed, true},
		{KitchenStatusPreparing, KitchenStatusReady, true},
		{KitchenStatusReady, KitchenStatusServed, true},
		{KitchenStatusReady, KitchenStatusPreparing, false},
		{KitchenStatusServed, KitchenStatusReady, false},
		{KitchenStatusPending, KitchenStatusPending, false},
		{KitchenStatusPending, "burnt", false},
	}

	for _, tc := range cases {
		if got := tc.from.Next(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOrderPaidAmount(t *testing.T) {
	t.Parallel()

	order := Order{Transactions: []Transaction{
		{Type: TransactionPayment, Method: MethodCash, Amount: 60},
		{Type: TransactionPayment, Method: MethodCard, Amount: 40},
		{Type: TransactionRefund, Method: MethodCash, Amount: 25},
	}}

	if got := order.PaidAmount(); got != 75 {
		t.Errorf("PaidAmount: got %v, want 75", got)
	}
	if got := order.CashMovement(); got != 35 {
		t.Errorf("CashMovement: got %v, want 35", got)
	}
}
