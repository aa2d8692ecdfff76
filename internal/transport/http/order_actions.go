package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tillfolk/pos-api/internal/app"
	"github.com/tillfolk/pos-api/internal/domain"
)

// OrderActionService covers the per-order operations routed under
// /orders/{id}/{action}.
type OrderActionService interface {
	Resume(ctx context.Context, in app.ResumeInput) (domain.Draft, error)
	Activate(ctx context.Context, in app.TransitionInput) (domain.Order, error)
	HoldOrder(ctx context.Context, in app.TransitionInput) (domain.Order, error)
	Cancel(ctx context.Context, in app.TransitionInput) (domain.Order, error)
	Return(ctx context.Context, in app.ReturnInput) (domain.Order, error)
	SetKitchenStatus(ctx context.Context, in app.KitchenInput) (domain.Order, error)
}

// HandleOrderActions routes POST /orders/{id}/{action}.
func HandleOrderActions(svc OrderActionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orderID, action, ok := parseOrderActionPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req orderActionRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		ctx := r.Context()
		transition := app.TransitionInput{
			StoreID:     req.StoreID,
			OrderID:     orderID,
			PerformedBy: req.PerformedBy,
		}

		var (
			order domain.Order
			err   error
		)
		switch action {
		case "resume":
			draft, rerr := svc.Resume(ctx, app.ResumeInput{
				StoreID:     req.StoreID,
				OrderID:     orderID,
				TerminalID:  req.TerminalID,
				PerformedBy: req.PerformedBy,
			})
			if rerr != nil {
				writeDomainError(w, rerr)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toDraftResponse(draft))
			return
		case "activate":
			order, err = svc.Activate(ctx, transition)
		case "hold":
			order, err = svc.HoldOrder(ctx, transition)
		case "cancel":
			order, err = svc.Cancel(ctx, transition)
		case "return":
			order, err = svc.Return(ctx, app.ReturnInput{
				StoreID:     req.StoreID,
				OrderID:     orderID,
				Method:      domain.PaymentMethod(req.Method),
				Reference:   req.ReferenceNumber,
				PerformedBy: req.PerformedBy,
			})
		case "kitchen":
			order, err = svc.SetKitchenStatus(ctx, app.KitchenInput{
				StoreID:     req.StoreID,
				OrderID:     orderID,
				Status:      domain.KitchenStatus(req.KitchenStatus),
				PerformedBy: req.PerformedBy,
			})
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toOrderResponse(order))
	}
}

func parseOrderActionPath(path string) (int64, string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "orders" {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return id, parts[2], true
}

type orderActionRequest struct {
	StoreID         string `json:"store_id"`
	TerminalID      string `json:"terminal_id"`
	PerformedBy     string `json:"performed_by"`
	Method          string `json:"method"`
	ReferenceNumber string `json:"reference_number"`
	KitchenStatus   string `json:"kitchen_status"`
}

type draftResponse struct {
	StoreID         string            `json:"store_id"`
	OrderNumber     string            `json:"order_number"`
	Lines           []cartLineRequest `json:"lines"`
	DiscountPercent float64           `json:"discount_percent"`
	OrderType       string            `json:"order_type"`
	CustomerID      string            `json:"customer_id,omitempty"`
	CustomerName    string            `json:"customer_name,omitempty"`
	TableNumber     string            `json:"table_number,omitempty"`
	Note            string            `json:"note,omitempty"`
	CreatedBy       string            `json:"created_by"`
	CreatedAt       time.Time         `json:"created_at"`
}

func toDraftResponse(draft domain.Draft) draftResponse {
	lines := make([]cartLineRequest, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		lines = append(lines, cartLineRequest{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	return draftResponse{
		StoreID:         draft.StoreID,
		OrderNumber:     draft.OrderNumber,
		Lines:           lines,
		DiscountPercent: draft.DiscountPercent,
		OrderType:       string(draft.OrderType),
		CustomerID:      draft.CustomerID,
		CustomerName:    draft.CustomerName,
		TableNumber:     draft.TableNumber,
		Note:            draft.Note,
		CreatedBy:       draft.CreatedBy,
		CreatedAt:       draft.CreatedAt,
	}
}
