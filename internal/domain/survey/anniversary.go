package survey

import (
	"strings"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
)

// anniversaryRule matches one certificate family by a keyword in its title.
// The table is ordered by regulatory precedence: statutory SOLAS
// certificates anchor the anniversary before class and load line papers.
type anniversaryRule struct {
	keyword string
	label   string
}

var anniversaryRules = []anniversaryRule{
	{"SAFETY MANAGEMENT", "Safety Management"},
	{"SAFETY CONSTRUCTION", "Safety Construction"},
	{"SAFETY EQUIPMENT", "Safety Equipment"},
	{"SAFETY RADIO", "Safety Radio"},
	{"CARGO SHIP SAFETY", "Cargo Ship Safety"},
	{"CLASSIFICATION", "Classification"},
	{"LOAD LINE", "Load Line"},
}

// ResolveAnniversary derives a ship's anniversary date from its certificate
// set.  Only Full Term certificates with a usable expiry are candidates; the
// rule table picks the highest-precedence family present, and the day/month
// of that certificate's expiry becomes the anchor.  When no rule matches,
// the first candidate in input order is used so that a fleet imported with
// nonstandard certificate titles still gets an anchor.
func ResolveAnniversary(certs []*certificate.Certificate) (*ship.AnniversaryDate, *Unresolved) {
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
		return nil, unresolved(FailureUnresolvedAnniversary,
			"no Full Term certificate with a valid expiry date")
	}

	for _, rule := range anniversaryRules {
		for _, cand := range candidates {
			if strings.Contains(strings.ToUpper(cand.cert.CertName), rule.keyword) {
				return &ship.AnniversaryDate{
					Day:                   cand.valid.Day(),
					Month:                 int(cand.valid.Month()),
					SourceCertificateType: rule.label,
				}, nil
			}
		}
	}

	first := candidates[0]
	return &ship.AnniversaryDate{
		Day:                   first.valid.Day(),
		Month:                 int(first.valid.Month()),
		SourceCertificateType: first.cert.CertName,
	}, nil
}
