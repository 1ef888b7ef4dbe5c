package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"contractors/internal/metrics"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCounters(t *testing.T) {
	m := metrics.New()

	m.ContractorCreated("Approved")
	m.ContractorCreated("Approved")
	m.ProjectCompleted()
	m.OfferSent("Competitive Bid", 3)
	m.OfferSent("Competitive Bid", 0)
	m.OfferExpired(2)
	m.ProbationTriggered("safety_violation")

	body := scrape(t, m)
	require.Contains(t, body, `contractors_created_total{decision="Approved"} 2`)
	require.Contains(t, body, `projects_completed_total 1`)
	require.Contains(t, body, `offers_sent_total{allocation_type="Competitive Bid"} 3`)
	require.Contains(t, body, `offers_expired_total 2`)
	require.Contains(t, body, `probation_triggers_total{trigger="safety_violation"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics

	require.NotPanics(t, func() {
		m.ContractorCreated("Rejected")
		m.ProjectCompleted()
		m.OfferResponded("accept")
		m.ObserveRequest("GET", "/healthz", 200, time.Millisecond)
	})
}
