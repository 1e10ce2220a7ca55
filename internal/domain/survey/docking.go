package survey

import (
	"strings"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/ship"
)

// defaultDockingIntervalMonths is the maximum interval between dry-dockings
// when no class-society-specific rule applies.
const defaultDockingIntervalMonths = 36

// DockingPolicy decides the maximum months between dry-dockings for a ship.
type DockingPolicy interface {
	IntervalMonths(classSociety string, ageYears int) int
}

// StandardDockingPolicy applies a 36-month interval with optional
// per-class-society overrides (keys upper-cased).  DefaultMonths, when
// positive, replaces the built-in default.
type StandardDockingPolicy struct {
	DefaultMonths int
	Overrides     map[string]int
}

func (p StandardDockingPolicy) IntervalMonths(classSociety string, ageYears int) int {
	if months, ok := p.Overrides[strings.ToUpper(classSociety)]; ok && months > 0 {
		return months
	}
	if p.DefaultMonths > 0 {
		return p.DefaultMonths
	}
	return defaultDockingIntervalMonths
}

// NextDocking projects the next dry-docking from the last one.  The result
// is capped at the cycle end: a docking may never be deferred past the
// Special Survey, which requires the ship out of water.
func NextDocking(s *ship.Ship, policy DockingPolicy) (*time.Time, *Unresolved) {
	if policy == nil {
		policy = StandardDockingPolicy{}
	}
	last, ok := ParseDate(s.LastDocking)
	if !ok {
		return nil, unresolved(FailureMissingLastDocking,
			"no last docking date on record")
	}
	months := policy.IntervalMonths(s.ClassSociety, s.Age(last))
	next := last.AddDate(0, months, 0)
	if s.SpecialSurveyCycle != nil && s.SpecialSurveyCycle.ToDate.Before(next) {
		capped := dateOnly(s.SpecialSurveyCycle.ToDate)
		return &capped, nil
	}
	return &next, nil
}
