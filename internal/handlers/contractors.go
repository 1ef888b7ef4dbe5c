package handlers

import (
	"net/http"

	"contractors/internal/intake"
	"contractors/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	m, err := h.Svc.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"metrics": m})
}

func (h *Handler) ApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Svc.Applications(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"applications": apps})
}

// CreateContractorHandler оценивает заявку из журнала и создаёт подрядчика
func (h *Handler) CreateContractorHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	app, err := intake.ParseApplication(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := h.Svc.CreateContractor(r.Context(), app)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"contractor": c})
}

func (h *Handler) ListContractorsHandler(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Svc.Contractors(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"contractors": cs})
}

// GetContractorHandler возвращает карточку подрядчика с предупреждениями и проектами
func (h *Handler) GetContractorHandler(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Contractor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{
		"contractor": d.Contractor,
		"alerts":     d.Alerts,
		"projects":   d.Projects,
	})
}

type noteRequest struct {
	Text string `json:"text"`
}

func (h *Handler) AddNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.Svc.AddNote(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"contractor": c})
}

func (h *Handler) PatchContractorHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.ContractorPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.Svc.PatchContractor(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"contractor": c})
}

func (h *Handler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Svc.Projects(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"projects": ps})
}

// CompleteProjectHandler фиксирует завершение проекта с оценками по категориям
func (h *Handler) CompleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	in, err := intake.ParseProjectCompletion(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	c, rating, err := h.Svc.CompleteProject(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"contractor": c, "rating": rating})
}
