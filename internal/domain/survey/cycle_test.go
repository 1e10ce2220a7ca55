package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
)

func TestCycleFromValidDate(t *testing.T) {
	cycle := CycleFromValidDate(date(2026, time.March, 10), CycleTypeClassification)

	assert.Equal(t, date(2021, time.March, 10), cycle.FromDate)
	assert.Equal(t, date(2026, time.March, 10), cycle.ToDate)
	assert.Equal(t, CycleTypeClassification, cycle.CycleType)
	assert.True(t, cycle.IntermediateRequired)
}

func TestCycleFromValidDateLeapEnd(t *testing.T) {
	cycle := CycleFromValidDate(date(2024, time.February, 29), CycleTypeClassification)

	// 2019 is not a leap year, so the start clamps to Feb 28.
	assert.Equal(t, date(2019, time.February, 28), cycle.FromDate)
	assert.Equal(t, date(2024, time.February, 29), cycle.ToDate)
}

func TestResolveCyclePrefersClassificationCertificate(t *testing.T) {
	certs := []*certificate.Certificate{
		fullTermCert("Safety Management Certificate", date(2025, time.June, 1)),
		fullTermCert("Classification Certificate", date(2026, time.March, 10)),
	}

	cycle, fail := ResolveCycle(certs)
	require.Nil(t, fail)
	assert.Equal(t, CycleTypeClassification, cycle.CycleType)
	assert.Equal(t, date(2026, time.March, 10), cycle.ToDate)
}

func TestResolveCycleHullKeyword(t *testing.T) {
	certs := []*certificate.Certificate{
		fullTermCert("Certificate of Hull Construction", date(2027, time.May, 5)),
	}

	cycle, fail := ResolveCycle(certs)
	require.Nil(t, fail)
	assert.Equal(t, CycleTypeClassification, cycle.CycleType)
}

func TestResolveCycleRepresentativeFallback(t *testing.T) {
	certs := []*certificate.Certificate{
		fullTermCert("Safety Management Certificate", date(2025, time.June, 1)),
	}

	cycle, fail := ResolveCycle(certs)
	require.Nil(t, fail)
	assert.Equal(t, CycleTypeCertificate, cycle.CycleType)
	assert.Equal(t, date(2025, time.June, 1), cycle.ToDate)
	assert.Equal(t, date(2020, time.June, 1), cycle.FromDate)
}

func TestResolveCycleNoCandidates(t *testing.T) {
	interim := fullTermCert("Classification Certificate", date(2026, time.March, 10))
	interim.CertType = certificate.CertTypeInterim

	cycle, fail := ResolveCycle([]*certificate.Certificate{interim})
	assert.Nil(t, cycle)
	require.NotNil(t, fail)
	assert.Equal(t, FailureUnresolvedCycle, fail.Code)
}
