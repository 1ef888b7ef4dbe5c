package handlers

import (
	"fmt"
	"net/http"

	"contractors/internal/engine"
	"contractors/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListOffersHandler(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Svc.Offers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"offers": offers})
}

type respondRequest struct {
	Action string `json:"action"`
}

// RespondOfferHandler фиксирует ответ подрядчика: accept, decline или no_response
func (h *Handler) RespondOfferHandler(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	action, ok := models.ParseOfferAction(req.Action)
	if !ok {
		h.fail(w, r, fmt.Errorf("%q: %w", req.Action, engine.ErrInvalidAction))
		return
	}

	offer, err := h.Svc.RespondToOffer(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"offer": offer})
}
