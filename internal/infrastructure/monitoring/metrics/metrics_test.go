package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
)

func TestObserveRecalculation(t *testing.T) {
	m := New()
	m.ObserveRecalculation(250*time.Millisecond, 3, 5)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.recalcCertificates.WithLabelValues("updated")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.recalcCertificates.WithLabelValues("unchanged")))
}

func TestCountCertificateOutcome(t *testing.T) {
	m := New()
	m.CountCertificateOutcome(domainsurvey.FailureMissingValidDate)
	m.CountCertificateOutcome(domainsurvey.FailureMissingValidDate)
	m.CountCertificateOutcome(domainsurvey.FailureUnresolvedCycle)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.certificateOutcomes.WithLabelValues(string(domainsurvey.FailureMissingValidDate))))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.certificateOutcomes.WithLabelValues(string(domainsurvey.FailureUnresolvedCycle))))
}

func TestHTTPMetricsAndHandler(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest("GET", "/api/v1/ships", "200", 10*time.Millisecond)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/ships", "200")))
	require.NotNil(t, m.Handler())

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
