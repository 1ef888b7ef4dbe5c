package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	AdminTokenHeader = "X-Admin-Token"
	AdminTokenCookie = "adminToken"
	adminCookieTTL   = 2 * time.Hour
)

func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RequireAdmin пропускает запрос, если токен из заголовка, параметра t или cookie
// совпадает с настроенным. Без настроенного токена доступ закрыт (403).
func RequireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, http.StatusForbidden, "Admin access disabled")
				return
			}

			query := r.URL.Query().Get("t")
			provided := r.Header.Get(AdminTokenHeader)
			if provided == "" {
				provided = query
			}
			if provided == "" {
				if c, err := r.Cookie(AdminTokenCookie); err == nil {
					provided = c.Value
				}
			}
			if !tokensEqual(provided, token) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if query != "" && tokensEqual(query, token) {
				http.SetCookie(w, &http.Cookie{
					Name:     AdminTokenCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(adminCookieTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestObserver получает длительность каждого запроса
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// RequestLogger пишет метод, маршрут, статус и длительность запроса в zap и метрики
func RequestLogger(log *zap.Logger, obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			elapsed := time.Since(start)

			if obs != nil {
				obs.ObserveRequest(r.Method, route, status, elapsed)
			}
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", elapsed),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
