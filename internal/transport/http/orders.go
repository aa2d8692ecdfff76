package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tillfolk/pos-api/internal/app"
	"github.com/tillfolk/pos-api/internal/domain"
)

// OrderDrafter is the minimal interface for persisting drafts.
type OrderDrafter interface {
	Hold(ctx context.Context, in app.DraftInput) (domain.Order, error)
	Submit(ctx context.Context, in app.DraftInput) (domain.Order, error)
}

// OrderSettler is the minimal interface for checkout.
type OrderSettler interface {
	Checkout(ctx context.Context, in app.CheckoutInput) (domain.Order, error)
}

// HandleHoldOrder persists the draft as an on-hold order.
func HandleHoldOrder(svc OrderDrafter) http.HandlerFunc {
	return draftHandler(func(ctx context.Context, in app.DraftInput) (domain.Order, error) {
		return svc.Hold(ctx, in)
	})
}

// HandleSubmitOrder sends the draft to the kitchen as a pending order.
func HandleSubmitOrder(svc OrderDrafter) http.HandlerFunc {
	return draftHandler(func(ctx context.Context, in app.DraftInput) (domain.Order, error) {
		return svc.Submit(ctx, in)
	})
}

func draftHandler(op func(ctx context.Context, in app.DraftInput) (domain.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req draftRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := op(r.Context(), req.toInput())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toOrderResponse(order))
	}
}

// HandleCheckout settles the draft against a payment plan and returns the
// finalized order for receipt rendering.
func HandleCheckout(svc OrderSettler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req checkoutRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		instruments := make([]app.PaymentInstrument, 0, len(req.Payments))
		for _, p := range req.Payments {
			instruments = append(instruments, app.PaymentInstrument{
				Method:          domain.PaymentMethod(p.Method),
				Amount:          p.Amount,
				ReferenceNumber: p.ReferenceNumber,
				TenderedAmount:  p.TenderedAmount,
			})
		}

		order, err := svc.Checkout(r.Context(), app.CheckoutInput{
			DraftInput: req.draftRequest.toInput(),
			Plan:       app.PaymentPlan{Instruments: instruments},
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toOrderResponse(order))
	}
}

type cartLineRequest struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type draftRequest struct {
	ID              int64             `json:"id"`
	StoreID         string            `json:"store_id"`
	OrderNumber     string            `json:"order_number"`
	Lines           []cartLineRequest `json:"lines"`
	DiscountPercent float64           `json:"discount_percent"`
	OrderType       string            `json:"order_type"`
	CustomerID      string            `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	TableNumber     string            `json:"table_number"`
	Note            string            `json:"note"`
	CreatedBy       string            `json:"created_by"`
	CreatedAt       *time.Time        `json:"created_at"`
	TerminalID      string            `json:"terminal_id"`
	PerformedBy     string            `json:"performed_by"`
}

func (r draftRequest) toInput() app.DraftInput {
	lines := make([]domain.CartLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, domain.CartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	draft := domain.Draft{
		ID:              r.ID,
		StoreID:         r.StoreID,
		OrderNumber:     r.OrderNumber,
		Lines:           lines,
		DiscountPercent: r.DiscountPercent,
		OrderType:       domain.OrderType(r.OrderType),
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		TableNumber:     r.TableNumber,
		Note:            r.Note,
		CreatedBy:       r.CreatedBy,
	}
	if r.CreatedAt != nil {
		draft.CreatedAt = *r.CreatedAt
	}
	return app.DraftInput{
		Draft:       draft,
		TerminalID:  r.TerminalID,
		PerformedBy: r.PerformedBy,
	}
}

type paymentRequest struct {
	Method          string  `json:"method"`
	Amount          float64 `json:"amount"`
	ReferenceNumber string  `json:"reference_number"`
	TenderedAmount  float64 `json:"tendered_amount"`
}

type checkoutRequest struct {
	draftRequest
	Payments []paymentRequest `json:"payments"`
}

type transactionResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Method          string    `json:"method"`
	Amount          float64   `json:"amount"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	TenderedAmount  float64   `json:"tendered_amount,omitempty"`
	ChangeAmount    float64   `json:"change_amount,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type orderResponse struct {
	ID              int64                 `json:"id"`
	OrderNumber     string                `json:"order_number"`
	Status          string                `json:"status"`
	KitchenStatus   string                `json:"kitchen_status"`
	OrderType       string                `json:"order_type"`
	Subtotal        float64               `json:"subtotal"`
	DiscountPercent float64               `json:"discount_percent"`
	DiscountAmount  float64               `json:"discount_amount"`
	ServiceCharge   float64               `json:"service_charge"`
	Tax             float64               `json:"tax"`
	Total           float64               `json:"total"`
	ShiftID         string                `json:"shift_id,omitempty"`
	Transactions    []transactionResponse `json:"transactions,omitempty"`
	CreatedBy       string                `json:"created_by"`
	CreatedAt       time.Time             `json:"created_at"`
}

func toOrderResponse(order domain.Order) orderResponse {
	txs := make([]transactionResponse, 0, len(order.Transactions))
	for _, tx := range order.Transactions {
		txs = append(txs, transactionResponse{
			ID:              tx.ID,
			Type:            string(tx.Type),
			Method:          string(tx.Method),
			Amount:          tx.Amount,
			ReferenceNumber: tx.ReferenceNumber,
			TenderedAmount:  tx.TenderedAmount,
			ChangeAmount:    tx.ChangeAmount,
			CreatedAt:       tx.CreatedAt,
		})
	}
	return orderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          string(order.Status),
		KitchenStatus:   string(order.KitchenStatus),
		OrderType:       string(order.OrderType),
		Subtotal:        order.Subtotal,
		DiscountPercent: order.DiscountPercent,
		DiscountAmount:  order.DiscountAmount,
		ServiceCharge:   order.ServiceCharge,
		Tax:             order.Tax,
		Total:           order.Total,
		ShiftID:         order.ShiftID,
		Transactions:    txs,
		CreatedBy:       order.CreatedBy,
		CreatedAt:       order.CreatedAt,
	}
}
