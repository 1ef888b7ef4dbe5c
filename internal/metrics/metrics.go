package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics: счётчики бизнес-событий и HTTP. Методы безопасны для nil.
type Metrics struct {
	registry *prometheus.Registry

	ContractorsCreated *prometheus.CounterVec
	ProjectsCompleted  prometheus.Counter
	OffersSent         *prometheus.CounterVec
	OfferResponses     *prometheus.CounterVec
	OffersExpired      prometheus.Counter
	ProbationTriggers  *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New регистрирует метрики в собственном реестре.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ContractorsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contractors_created_total",
				Help: "Contractors created from applications, by approval decision",
			},
			[]string{"decision"},
		),
		ProjectsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "projects_completed_total",
			Help: "Completed projects recorded",
		}),
		OffersSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offers_sent_total",
				Help: "Offers sent, by package allocation type",
			},
			[]string{"allocation_type"},
		),
		OfferResponses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offer_responses_total",
				Help: "Offer responses recorded, by action",
			},
			[]string{"action"},
		),
		OffersExpired: f.NewCounter(prometheus.CounterOpts{
			Name: "offers_expired_total",
			Help: "Offers moved to No Response by the expiry sweep",
		}),
		ProbationTriggers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "probation_triggers_total",
				Help: "Contractors placed on probation, by trigger",
			},
			[]string{"trigger"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ContractorCreated(decision string) {
	if m != nil {
		m.ContractorsCreated.WithLabelValues(decision).Inc()
	}
}

func (m *Metrics) ProjectCompleted() {
	if m != nil {
		m.ProjectsCompleted.Inc()
	}
}

func (m *Metrics) OfferSent(allocationType string, n int) {
	if m != nil && n > 0 {
		m.OffersSent.WithLabelValues(allocationType).Add(float64(n))
	}
}

func (m *Metrics) OfferResponded(action string) {
	if m != nil {
		m.OfferResponses.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) OfferExpired(n int) {
	if m != nil && n > 0 {
		m.OffersExpired.Add(float64(n))
	}
}

func (m *Metrics) ProbationTriggered(trigger string) {
	if m != nil {
		m.ProbationTriggers.WithLabelValues(trigger).Inc()
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
