package handlers

import "net/http"

func (h *Handler) AlertsHandler(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Svc.Alerts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"alerts": alerts})
}

func (h *Handler) ComplianceReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.Svc.ComplianceReport(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"report": report})
}

func (h *Handler) CoverageReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.Svc.CoverageReport(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"report": report})
}
