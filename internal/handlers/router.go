package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	AdminToken string
	Observer   RequestObserver
	Metrics    http.Handler
}

// NewRouter собирает маршруты: публичную форму, административный API, healthz и metrics
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.Log, cfg.Observer))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.PingHandler)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/contractor-application", h.SubmitApplicationHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin(cfg.AdminToken))

			r.Get("/summary", h.SummaryHandler)
			r.Get("/applications", h.ApplicationsHandler)
			// подрядчики
			r.Post("/contractors/from-application", h.CreateContractorHandler)
			r.Get("/contractors", h.ListContractorsHandler)
			r.Get("/contractors/{id}", h.GetContractorHandler)
			r.Patch("/contractors/{id}", h.PatchContractorHandler)
			r.Post("/contractors/{id}/notes", h.AddNoteHandler)
			// проекты
			r.Get("/projects", h.ListProjectsHandler)
			r.Post("/projects/complete", h.CompleteProjectHandler)
			// пакеты и предложения
			r.Get("/packages", h.ListPackagesHandler)
			r.Post("/packages", h.CreatePackageHandler)
			r.Get("/packages/{id}/rank", h.RankPackageHandler)
			r.Post("/packages/{id}/send-offers", h.SendOffersHandler)
			r.Get("/offers", h.ListOffersHandler)
			r.Post("/offers/{id}/respond", h.RespondOfferHandler)
			// отчёты
			r.Get("/alerts", h.AlertsHandler)
			r.Get("/reports/compliance-expiration", h.ComplianceReportHandler)
			r.Get("/reports/regional-coverage", h.CoverageReportHandler)
		})
	})
	return r
}
