package survey

import (
	"fmt"
	"strings"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
)

// Survey type labels as they appear on certificates and in reports.
const (
	TypeFirstAnnual  = "1st Annual Survey"
	TypeSecondAnnual = "2nd Annual Survey"
	TypeThirdAnnual  = "3rd Annual Survey"
	TypeSpecial      = "Special Survey"

	// TypeSecondAnnualIntermediate is the 2nd Annual relabelled: the
	// intermediate survey is always creditable at that checkpoint.
	TypeSecondAnnualIntermediate = "2nd Annual Survey/Intermediate Survey"

	// TypeIntermediate is the intermediate survey, nominally held at the
	// year-three anniversary and carried forward while outstanding.
	TypeIntermediate = "Intermediate Survey"

	// TypeConditionExpiry marks a condition certificate's own expiry.
	TypeConditionExpiry = "Condition Certificate Expiry"
)

// Checkpoint is one entry of a cycle's survey grid.
type Checkpoint struct {
	// Ordinal is the 1-based position in the grid; 5 is the Special Survey.
	Ordinal int
	Label   string
	Date    time.Time
}

// CycleCheckpoints expands a special survey cycle into its five checkpoints
// at one-year steps from the cycle start: 1st and 2nd Annual, the nominal
// Intermediate Survey in year three, the 3rd Annual in year four, and the
// Special Survey at the cycle end.  The intermediate displaces one annual,
// so no cycle carries a 4th Annual.  Dates are strictly increasing.
func CycleCheckpoints(cycle ship.SpecialSurveyCycle) []Checkpoint {
	labels := []string{TypeFirstAnnual, TypeSecondAnnual, TypeIntermediate, TypeThirdAnnual}
	checkpoints := make([]Checkpoint, 0, 5)
	for i, label := range labels {
		checkpoints = append(checkpoints, Checkpoint{
			Ordinal: i + 1,
			Label:   label,
			Date:    AddYearsClamped(dateOnly(cycle.FromDate), i+1),
		})
	}
	checkpoints = append(checkpoints, Checkpoint{
		Ordinal: 5,
		Label:   TypeSpecial,
		Date:    dateOnly(cycle.ToDate),
	})
	return checkpoints
}

// ScheduleResult is the outcome of the next-survey algorithm for one
// certificate.  Either RawDate is set (scheduled) or Failure names why no
// date could be derived; Reasoning traces the decisions taken either way.
type ScheduleResult struct {
	// NextSurvey is the display value, e.g. "10/03/2025 (±3M)".
	NextSurvey     string
	NextSurveyType string

	RawDate *time.Time
	Window  Window

	Reasoning string
	Failure   FailureCode
}

// Scheduled reports whether the algorithm produced a concrete date.
func (r *ScheduleResult) Scheduled() bool {
	return r != nil && r.Failure == "" && r.RawDate != nil
}

// NextSurveyForCertificate runs the scheduling algorithm for one certificate
// in the context of its ship.  shp may be nil for standalone previews; the
// anchor and cycle are then derived from the certificate alone.  now is the
// reference instant for the "strictly after" checkpoint selection.
func NextSurveyForCertificate(cert *certificate.Certificate, shp *ship.Ship, now time.Time) *ScheduleResult {
	now = dateOnly(now)
	var trace []string

	validDate, hasValid := ParseDate(cert.ValidDate)
	if !hasValid {
		return &ScheduleResult{
			Failure:   FailureMissingValidDate,
			Reasoning: "certificate has no usable valid date",
		}
	}

	// Condition certificates sit outside the annual grid: their own expiry
	// is the next event and it carries no window.
	if cert.IsCondition() {
		trace = append(trace, "condition certificate: next event is its own expiry")
		return scheduled(validDate, TypeConditionExpiry, WindowNone, trace)
	}

	anchor, anchorTrace, fail := resolveAnchor(cert, shp, validDate)
	if fail != nil {
		return &ScheduleResult{Failure: fail.Code, Reasoning: fail.Reason}
	}
	trace = append(trace, anchorTrace)

	cycle, cycleTrace := resolveScheduleCycle(shp, validDate, anchor, now)
	trace = append(trace, cycleTrace)

	checkpoints := CycleCheckpoints(*cycle)
	next, found := firstAfter(checkpoints, now)
	if !found {
		// The whole grid is in the past: roll over into the next cycle's
		// first annual, one year past the current cycle end.
		next = Checkpoint{
			Ordinal: 1,
			Label:   TypeFirstAnnual,
			Date:    AddYearsClamped(dateOnly(cycle.ToDate), 1),
		}
		trace = append(trace, fmt.Sprintf("cycle exhausted, rolled over to %s of the next cycle", TypeFirstAnnual))
	} else {
		trace = append(trace, fmt.Sprintf("selected %s at %s", next.Label, FormatDMY(next.Date)))
	}

	label := substituteIntermediate(next, shp, &trace)

	window := WindowAnnual
	if label == TypeSpecial {
		window = WindowSpecial
	}

	return scheduled(next.Date, label, window, trace)
}

func scheduled(date time.Time, label string, window Window, trace []string) *ScheduleResult {
	d := dateOnly(date)
	return &ScheduleResult{
		NextSurvey:     FormatSurvey(d, window),
		NextSurveyType: label,
		RawDate:        &d,
		Window:         window,
		Reasoning:      strings.Join(trace, "; "),
	}
}

// resolveAnchor picks the day/month anchor: the ship's stored anniversary
// date when present, otherwise the certificate's own expiry.
func resolveAnchor(cert *certificate.Certificate, shp *ship.Ship, validDate time.Time) (ship.AnniversaryDate, string, *Unresolved) {
	if shp != nil && shp.AnniversaryDate != nil {
		a := *shp.AnniversaryDate
		if err := a.Validate(); err == nil {
			return a, fmt.Sprintf("anniversary %02d/%02d from ship record (%s)",
				a.Day, a.Month, a.SourceCertificateType), nil
		}
	}
	if validDate.IsZero() {
		return ship.AnniversaryDate{}, "", unresolved(FailureUnresolvedAnniversary,
			"no anniversary anchor on the ship and no certificate valid date to derive one")
	}
	a := ship.AnniversaryDate{
		Day:                   validDate.Day(),
		Month:                 int(validDate.Month()),
		SourceCertificateType: cert.CertName,
	}
	return a, fmt.Sprintf("anniversary %02d/%02d derived from certificate valid date", a.Day, a.Month), nil
}

// resolveScheduleCycle returns the ship's stored cycle when present,
// otherwise synthesizes a 5-year window from the certificate's expiry and
// the anchor.
func resolveScheduleCycle(shp *ship.Ship, validDate time.Time, anchor ship.AnniversaryDate, now time.Time) (*ship.SpecialSurveyCycle, string) {
	if shp != nil && shp.SpecialSurveyCycle != nil {
		c := *shp.SpecialSurveyCycle
		return &c, fmt.Sprintf("cycle %s..%s from ship record",
			FormatDMY(c.FromDate), FormatDMY(c.ToDate))
	}
	c := synthesizeCycle(validDate, anchor, now)
	return c, fmt.Sprintf("synthesized cycle %s..%s from certificate valid date",
		FormatDMY(c.FromDate), FormatDMY(c.ToDate))
}

// synthesizeCycle builds a stand-in cycle when the ship carries none.  For
// an expiry still in the future the cycle is anchored at the anniversary in
// the current year; for a past expiry the cycle ends at the anniversary on
// or after the expiry, keeping the stale certificate inside its historical
// window so the rollover path fires.
func synthesizeCycle(validDate time.Time, anchor ship.AnniversaryDate, now time.Time) *ship.SpecialSurveyCycle {
	month := time.Month(anchor.Month)
	if validDate.After(now) {
		start := AnchorInYear(now.Year(), month, anchor.Day)
		return &ship.SpecialSurveyCycle{
			FromDate:             start,
			ToDate:               AddYearsClamped(start, cycleYears),
			CycleType:            CycleTypeCertificate,
			IntermediateRequired: true,
		}
	}
	end := AnchorInYear(validDate.Year(), month, anchor.Day)
	if end.Before(validDate) {
		end = AddYearsClamped(end, 1)
	}
	return &ship.SpecialSurveyCycle{
		FromDate:             AddYearsClamped(end, -cycleYears),
		ToDate:               end,
		CycleType:            CycleTypeCertificate,
		IntermediateRequired: true,
	}
}

// firstAfter returns the earliest checkpoint strictly after now.
func firstAfter(checkpoints []Checkpoint, now time.Time) (Checkpoint, bool) {
	for _, cp := range checkpoints {
		if cp.Date.After(now) {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

// substituteIntermediate applies the intermediate-survey relabelling rules.
// The 2nd Annual always doubles as the intermediate window.  The year-three
// and year-four checkpoints depend on the ship's record: with an
// intermediate survey completed before the checkpoint the 3rd Annual is due,
// otherwise the outstanding intermediate takes the slot.
func substituteIntermediate(cp Checkpoint, shp *ship.Ship, trace *[]string) string {
	switch cp.Ordinal {
	case 2:
		*trace = append(*trace, "2nd annual doubles as intermediate window")
		return TypeSecondAnnualIntermediate
	case 3, 4:
		if shp != nil && shp.LastIntermediateSurvey != nil {
			if done, ok := ParseDate(shp.LastIntermediateSurvey); ok && done.Before(cp.Date) {
				*trace = append(*trace, fmt.Sprintf("intermediate survey completed %s", FormatDMY(done)))
				return TypeThirdAnnual
			}
		}
		*trace = append(*trace, "intermediate survey outstanding")
		return TypeIntermediate
	default:
		return cp.Label
	}
}
