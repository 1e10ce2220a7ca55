// Package survey implements the survey and certificate lifecycle scheduling
// engine: anniversary-date resolution, special-survey-cycle derivation,
// next-docking computation, and the per-certificate next-survey algorithm.
//
// The engine is pure compute over immutable inputs.  It performs no I/O and
// no internal synchronization; the current time is always passed in
// explicitly (see Clock) so that cycle rollover behaviour is deterministic
// under test.  Calculators never signal expected data absence through Go
// errors — they return a tagged Unresolved outcome carrying a human-readable
// reason, which callers surface verbatim to operators.
package survey

import "fmt"

// FailureCode tags the expected no-result outcomes of the engine.
type FailureCode string

const (
	// FailureMissingValidDate: the certificate has no usable expiry.
	FailureMissingValidDate FailureCode = "missing_valid_date"

	// FailureUnresolvedAnniversary: neither ship nor certificate supplies a
	// day/month anchor.
	FailureUnresolvedAnniversary FailureCode = "unresolved_anniversary"

	// FailureUnresolvedCycle: no Full Term classification certificate and no
	// derivable 5-year window.
	FailureUnresolvedCycle FailureCode = "unresolved_cycle"

	// FailureMissingLastDocking: the next-docking calculator has no last
	// docking date to project from.
	FailureMissingLastDocking FailureCode = "missing_last_docking"
)

// Unresolved describes why a calculator could not produce a result.  It is a
// data-driven outcome, not an error: bulk recalculation records it per
// certificate and continues.
type Unresolved struct {
	Code   FailureCode
	Reason string
}

func (u *Unresolved) String() string {
	if u == nil {
		return ""
	}
	return u.Reason
}

func unresolved(code FailureCode, format string, args ...interface{}) *Unresolved {
	return &Unresolved{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Window is the tolerance period around a computed survey date within which
// the survey may actually be performed.
type Window struct {
	// Months is the window size; zero means the date is a hard expiry.
	Months int

	// EarlyOnly marks windows that extend only before the date.  Special
	// Surveys must not be deferred past the cycle end, so their window is
	// "-3M" rather than "±3M".
	EarlyOnly bool
}

// String renders the window in the notation used by survey reports:
// "±3M", "-3M", or "no window".
func (w Window) String() string {
	if w.Months == 0 {
		return "no window"
	}
	if w.EarlyOnly {
		return fmt.Sprintf("-%dM", w.Months)
	}
	return fmt.Sprintf("±%dM", w.Months)
}

// Standard windows.  All survey types except the Special Survey may be held
// up to three months early or late; the Special Survey may only be brought
// forward.
var (
	WindowNone    = Window{}
	WindowAnnual  = Window{Months: 3}
	WindowSpecial = Window{Months: 3, EarlyOnly: true}
)
