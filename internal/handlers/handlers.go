package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"contractors/internal/engine"
	"contractors/internal/intake"

	"go.uber.org/zap"
)

const maxBodyBytes = 1048576

var errBadJSON = errors.New("invalid JSON format")

// Handler оборачивает Service для HTTP-доступа
type Handler struct {
	Svc Service
	Log *zap.Logger
}

// NewHandler создает новый Handler
func NewHandler(svc Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Svc: svc, Log: log}
}

// PingHandler отвечает {"ok":true} для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	writeOK(w, nil)
}

// readBody читает тело запроса с ограничением размера, чтобы избежать DoS
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// decodeJSON разбирает тело в dst; пустое тело оставляет dst без изменений.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := readBody(w, r)
	if err != nil {
		return errBadJSON
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errBadJSON
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeOK отправляет конверт {"ok": true, ...fields}
func writeOK(w http.ResponseWriter, fields map[string]any) {
	resp := map[string]any{"ok": true}
	for k, v := range fields {
		resp[k] = v
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// fail переводит ошибку сервиса в HTTP-ответ
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *intake.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"ok":     false,
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, errBadJSON):
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
	case errors.Is(err, engine.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, engine.ErrOfferNotPending):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrInvalidAction),
		errors.Is(err, engine.ErrInvalidPatch),
		errors.Is(err, engine.ErrInvalidPackage),
		errors.Is(err, engine.ErrInvalidProject),
		errors.Is(err, engine.ErrInvalidNote),
		errors.Is(err, engine.ErrInvalidMode):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
