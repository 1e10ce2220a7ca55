// Package ship defines the Ship aggregate and its derived survey-scheduling
// fields.  The scheduling fields (anniversary date, special survey cycle,
// next docking) are written only by the survey engine; everything else is
// maintained by the fleet registry CRUD surfaces.
package ship

import (
	"time"

	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// AnniversaryDate is the recurring day/month anchor that a ship's annual
// class surveys fall on, together with the certificate type it was derived
// from.  Day 29 of February is a legal anchor; projection into non-leap years
// clamps it to day 28.
type AnniversaryDate struct {
	Day                   int    `json:"day"`
	Month                 int    `json:"month"`
	SourceCertificateType string `json:"source_certificate_type"`
}

// Validate checks the anchor is a plausible day/month pair.
func (a AnniversaryDate) Validate() error {
	if a.Month < 1 || a.Month > 12 {
		return errors.Validation("anniversary month must be 1..12, got %d", a.Month)
	}
	if a.Day < 1 || a.Day > 31 {
		return errors.Validation("anniversary day must be 1..31, got %d", a.Day)
	}
	return nil
}

// SpecialSurveyCycle is the ship's current 5-year classification renewal
// window.  ToDate always equals FromDate shifted forward five calendar years
// (Feb-29 anchors clamp to Feb-28 in non-leap target years).
type SpecialSurveyCycle struct {
	FromDate             time.Time `json:"from_date"`
	ToDate               time.Time `json:"to_date"`
	CycleType            string    `json:"cycle_type"`
	IntermediateRequired bool      `json:"intermediate_required"`
}

// Contains reports whether t falls inside the cycle window (inclusive).
func (c SpecialSurveyCycle) Contains(t time.Time) bool {
	return !t.Before(c.FromDate) && !t.After(c.ToDate)
}

// Ship is the aggregate root for one vessel under survey tracking.
type Ship struct {
	ID           common.ID `json:"id"`
	Name         string    `json:"name"`
	IMONumber    string    `json:"imo_number"`
	ClassSociety string    `json:"class_society"`
	Flag         string    `json:"flag"`
	BuiltYear    *int      `json:"built_year,omitempty"`

	// Derived scheduling fields, written only by the survey engine.
	AnniversaryDate    *AnniversaryDate    `json:"anniversary_date,omitempty"`
	SpecialSurveyCycle *SpecialSurveyCycle `json:"special_survey_cycle,omitempty"`
	NextDocking        *time.Time          `json:"next_docking,omitempty"`

	// Survey history inputs maintained by the fleet registry.
	LastDocking            *time.Time `json:"last_docking,omitempty"`
	LastIntermediateSurvey *time.Time `json:"last_intermediate_survey,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewShip creates a Ship with validation.
func NewShip(name, imoNumber, classSociety string) (*Ship, error) {
	if name == "" {
		return nil, errors.Validation("ship name must not be empty")
	}
	now := time.Now().UTC()
	return &Ship{
		ID:           common.NewID(),
		Name:         name,
		IMONumber:    imoNumber,
		ClassSociety: classSociety,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Age returns the ship's age in whole years at the given time, or -1 when
// the built year is unknown.
func (s *Ship) Age(at time.Time) int {
	if s.BuiltYear == nil {
		return -1
	}
	age := at.Year() - *s.BuiltYear
	if age < 0 {
		return 0
	}
	return age
}

// SchedulePatch carries the engine-derived fields written back onto a Ship
// by a recalculation.  Nil pointers mean "leave unchanged"; the Set* flags
// distinguish "clear the field" from "leave unchanged" for the optional
// values.
type SchedulePatch struct {
	AnniversaryDate    *AnniversaryDate
	SpecialSurveyCycle *SpecialSurveyCycle
	NextDocking        *time.Time

	SetAnniversaryDate    bool
	SetSpecialSurveyCycle bool
	SetNextDocking        bool
}

// Empty reports whether the patch carries no changes.
func (p SchedulePatch) Empty() bool {
	return !p.SetAnniversaryDate && !p.SetSpecialSurveyCycle && !p.SetNextDocking
}
