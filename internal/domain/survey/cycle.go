package survey

import (
	"strings"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
)

// Cycle type labels recorded on the ship aggregate.
const (
	CycleTypeClassification = "Classification Survey Cycle"
	CycleTypeCertificate    = "Certificate Validity Cycle"
)

// cycleYears is the length of a special survey cycle.
const cycleYears = 5

// classificationKeywords identify classification-society certificates by
// title, in preference order.
var classificationKeywords = []string{
	"CLASSIFICATION",
	"CLASS CERTIFICATE",
	"HULL",
	"MACHINERY",
}

// CycleFromValidDate builds a 5-year special survey window ending at the
// given expiry.  The start is the expiry shifted back five calendar years
// with Feb-29 clamping, so FromDate and ToDate always share the day/month
// anchor.
func CycleFromValidDate(validDate time.Time, cycleType string) *ship.SpecialSurveyCycle {
	to := dateOnly(validDate)
	return &ship.SpecialSurveyCycle{
		FromDate:             AddYearsClamped(to, -cycleYears),
		ToDate:               to,
		CycleType:            cycleType,
		IntermediateRequired: true,
	}
}

// ResolveCycle derives the ship's special survey cycle from its certificate
// set.  A Full Term classification certificate's expiry defines the cycle
// end; when none exists, the first Full Term certificate with a usable
// expiry stands in as a representative, labelled as a certificate validity
// cycle so operators can tell the provenance apart.
func ResolveCycle(certs []*certificate.Certificate) (*ship.SpecialSurveyCycle, *Unresolved) {
	type candidate struct {
		cert  *certificate.Certificate
		valid time.Time
	}
	var candidates []candidate
	for _, c := range certs {
		if c == nil || !c.IsFullTerm() {
			continue
		}
		valid, ok := ParseDate(c.ValidDate)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{cert: c, valid: valid})
	}
	if len(candidates) == 0 {
		return nil, unresolved(FailureUnresolvedCycle,
			"no Full Term certificate with a valid expiry date")
	}

	for _, keyword := range classificationKeywords {
		for _, cand := range candidates {
			if strings.Contains(strings.ToUpper(cand.cert.CertName), keyword) {
				return CycleFromValidDate(cand.valid, CycleTypeClassification), nil
			}
		}
	}
	return CycleFromValidDate(candidates[0].valid, CycleTypeCertificate), nil
}
