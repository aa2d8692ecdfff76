package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tillfolk/pos-api/internal/app"
	"github.com/tillfolk/pos-api/internal/domain"
)

// ShiftManager is the minimal interface for register session endpoints.
type ShiftManager interface {
	Open(ctx context.Context, in app.OpenShiftInput) (domain.RegisterShift, error)
	Close(ctx context.Context, in app.CloseShiftInput) (domain.RegisterShift, error)
	Active(ctx context.Context, storeID string) (*domain.RegisterShift, error)
}

// HandleOpenShift opens a register session from a counted drawer.
func HandleOpenShift(svc ShiftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req openShiftRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		denominations, err := req.Denominations.toDomain()
		if err != nil {
			writeDomainError(w, err)
			return
		}

		shift, err := svc.Open(r.Context(), app.OpenShiftInput{
			StoreID:       req.StoreID,
			OpenedBy:      req.OpenedBy,
			Denominations: denominations,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toShiftResponse(shift))
	}
}

// HandleCloseShift reconciles and closes the open register session.
func HandleCloseShift(svc ShiftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req closeShiftRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		denominations, err := req.Denominations.toDomain()
		if err != nil {
			writeDomainError(w, err)
			return
		}

		shift, err := svc.Close(r.Context(), app.CloseShiftInput{
			StoreID:       req.StoreID,
			ClosedBy:      req.ClosedBy,
			Denominations: denominations,
			Note:          req.Note,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toShiftResponse(shift))
	}
}

// HandleActiveShift reports the store's open shift, or 404 when closed.
func HandleActiveShift(svc ShiftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		storeID := r.URL.Query().Get("store_id")
		if storeID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "store_id is required")
			return
		}

		shift, err := svc.Active(r.Context(), storeID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if shift == nil {
			writeError(w, http.StatusNotFound, codeNoOpenShift, domain.ErrNoOpenShift.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toShiftResponse(*shift))
	}
}

// denominationsRequest arrives as a JSON object keyed by face value.
type denominationsRequest map[string]int

func (d denominationsRequest) toDomain() (domain.Denominations, error) {
	out := make(domain.Denominations, len(d))
	for raw, count := range d {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, domain.ErrInvalidDenomination
		}
		out[value] = count
	}
	return out, nil
}

type openShiftRequest struct {
	StoreID       string               `json:"store_id"`
	OpenedBy      string               `json:"opened_by"`
	Denominations denominationsRequest `json:"denominations"`
}

type closeShiftRequest struct {
	StoreID       string               `json:"store_id"`
	ClosedBy      string               `json:"closed_by"`
	Denominations denominationsRequest `json:"denominations"`
	Note          string               `json:"note"`
}

type shiftResponse struct {
	ID           string     `json:"id"`
	StoreID      string     `json:"store_id"`
	Status       string     `json:"status"`
	OpenedBy     string     `json:"opened_by"`
	OpenedAt     time.Time  `json:"opened_at"`
	StartingCash float64    `json:"starting_cash"`
	ClosedBy     string     `json:"closed_by,omitempty"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	ExpectedCash *float64   `json:"expected_cash,omitempty"`
	ActualCash   *float64   `json:"actual_cash,omitempty"`
	Difference   *float64   `json:"difference,omitempty"`
	CloseNote    string     `json:"close_note,omitempty"`
}

func toShiftResponse(shift domain.RegisterShift) shiftResponse {
	return shiftResponse{
		ID:           shift.ID,
		StoreID:      shift.StoreID,
		Status:       string(shift.Status),
		OpenedBy:     shift.OpenedBy,
		OpenedAt:     shift.OpenedAt,
		StartingCash: shift.StartingCash,
		ClosedBy:     shift.ClosedBy,
		ClosedAt:     shift.ClosedAt,
		ExpectedCash: shift.ExpectedCash,
		ActualCash:   shift.ActualCash,
		Difference:   shift.Difference,
		CloseNote:    shift.CloseNote,
	}
}
