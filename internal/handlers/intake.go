package handlers

import (
	"net"
	"net/http"

	"contractors/internal/intake"
)

// SubmitApplicationHandler принимает публичную заявку подрядчика
func (h *Handler) SubmitApplicationHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	rec, err := intake.ParseIntake(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	saved, err := h.Svc.SubmitApplication(r.Context(), rec, clientIP(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, map[string]any{"applicationId": saved.ApplicationID})
}

// clientIP берёт адрес из RemoteAddr (его выставляет middleware.RealIP)
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
