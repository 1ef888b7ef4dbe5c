package handlers

import (
	"net/http"

	"contractors/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListPackagesHandler(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Svc.Packages(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"packages": ps})
}

func (h *Handler) CreatePackageHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PackageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	pkg, err := h.Svc.CreatePackage(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"package": pkg})
}

func (h *Handler) RankPackageHandler(w http.ResponseWriter, r *http.Request) {
	pkg, ranked, err := h.Svc.RankPackage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"package": pkg, "ranked": ranked})
}

type sendOffersRequest struct {
	Mode string `json:"mode"`
}

// SendOffersHandler рассылает предложения по пакету (mode: top3 | auto)
func (h *Handler) SendOffersHandler(w http.ResponseWriter, r *http.Request) {
	var req sendOffersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	pkg, offers, err := h.Svc.SendOffers(r.Context(), chi.URLParam(r, "id"), req.Mode)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"package": pkg, "offers": offers})
}
