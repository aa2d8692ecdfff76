package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tillfolk/pos-api/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeRegisterClosed       = "register_closed"
	codeMissingRequiredField = "missing_required_field"
	codeMissingReference     = "missing_reference"
	codeInsufficientFunds    = "insufficient_funds"
	codeSplitMismatch        = "split_mismatch"
	codeShiftAlreadyOpen     = "shift_already_open"
	codeNoOpenShift          = "no_open_shift"
	codeOrderNotFound        = "order_not_found"
	codeOrderFinal           = "order_final"
	codeInvalidTransition    = "invalid_transition"
	codeEmptyCart            = "empty_cart"
	codeInvalidOrderType     = "invalid_order_type"
	codeInvalidInstrument    = "invalid_payment_instrument"
	codeInvalidSplitCount    = "invalid_split_count"
	codeInvalidDenomination  = "invalid_denomination"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the engine's error taxonomy onto HTTP responses,
// keeping the message so the operator sees which field or amount failed.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRegisterClosed):
		writeError(w, http.StatusConflict, codeRegisterClosed, err.Error())
	case errors.Is(err, domain.ErrMissingField):
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, err.Error())
	case errors.Is(err, domain.ErrMissingReference):
		writeError(w, http.StatusBadRequest, codeMissingReference, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, codeInsufficientFunds, err.Error())
	case errors.Is(err, domain.ErrSplitMismatch):
		writeError(w, http.StatusBadRequest, codeSplitMismatch, err.Error())
	case errors.Is(err, domain.ErrShiftAlreadyOpen):
		writeError(w, http.StatusConflict, codeShiftAlreadyOpen, err.Error())
	case errors.Is(err, domain.ErrNoOpenShift):
		writeError(w, http.StatusConflict, codeNoOpenShift, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderFinal):
		writeError(w, http.StatusConflict, codeOrderFinal, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, codeEmptyCart, err.Error())
	case errors.Is(err, domain.ErrInvalidOrderType):
		writeError(w, http.StatusBadRequest, codeInvalidOrderType, err.Error())
	case errors.Is(err, domain.ErrInvalidInstrument):
		writeError(w, http.StatusBadRequest, codeInvalidInstrument, err.Error())
	case errors.Is(err, domain.ErrInvalidSplitCount):
		writeError(w, http.StatusBadRequest, codeInvalidSplitCount, err.Error())
	case errors.Is(err, domain.ErrInvalidDenomination):
		writeError(w, http.StatusBadRequest, codeInvalidDenomination, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
