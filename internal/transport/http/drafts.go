package http

import (
	"encoding/json"
	"net/http"

	"github.com/tillfolk/pos-api/internal/app"
	"github.com/tillfolk/pos-api/internal/domain"
)

// HandleDraft exposes the per-terminal draft snapshot so a reloaded
// terminal can restore its cart.
func HandleDraft(store app.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID := r.URL.Query().Get("terminal_id")
		if terminalID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "terminal_id is required")
			return
		}

		switch r.Method {
		case http.MethodGet:
			draft, err := store.Load(r.Context(), terminalID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			if draft == nil {
				writeError(w, http.StatusNotFound, codeNotFound, "no draft")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(draft)
		case http.MethodPut:
			var draft domain.Draft
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&draft); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if err := store.Save(r.Context(), terminalID, draft); err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			if err := store.Clear(r.Context(), terminalID); err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}
