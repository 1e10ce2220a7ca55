package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborwise/fleetsurvey/internal/domain/ship"
)

func shipWithDocking(last time.Time, cycle *ship.SpecialSurveyCycle) *ship.Ship {
	l := last
	return &ship.Ship{
		Name:               "MV Test",
		ClassSociety:       "DNV",
		LastDocking:        &l,
		SpecialSurveyCycle: cycle,
	}
}

func TestNextDockingStandardInterval(t *testing.T) {
	// 36 months from 15/01/2023 is 15/01/2026, before the cycle end, so the
	// projection stands.
	cycle := &ship.SpecialSurveyCycle{
		FromDate: date(2021, time.March, 10),
		ToDate:   date(2026, time.March, 10),
	}
	s := shipWithDocking(date(2023, time.January, 15), cycle)

	next, fail := NextDocking(s, nil)
	require.Nil(t, fail)
	assert.Equal(t, date(2026, time.January, 15), *next)
}

func TestNextDockingCappedAtCycleEnd(t *testing.T) {
	cycle := &ship.SpecialSurveyCycle{
		FromDate: date(2020, time.June, 1),
		ToDate:   date(2025, time.June, 1),
	}
	s := shipWithDocking(date(2023, time.January, 15), cycle)

	next, fail := NextDocking(s, nil)
	require.Nil(t, fail)
	assert.Equal(t, date(2025, time.June, 1), *next)
}

func TestNextDockingWithoutCycle(t *testing.T) {
	s := shipWithDocking(date(2023, time.January, 15), nil)

	next, fail := NextDocking(s, nil)
	require.Nil(t, fail)
	assert.Equal(t, date(2026, time.January, 15), *next)
}

func TestNextDockingMissingLastDocking(t *testing.T) {
	s := &ship.Ship{Name: "MV Test"}

	next, fail := NextDocking(s, nil)
	assert.Nil(t, next)
	require.NotNil(t, fail)
	assert.Equal(t, FailureMissingLastDocking, fail.Code)
}

func TestNextDockingPolicyOverride(t *testing.T) {
	policy := StandardDockingPolicy{Overrides: map[string]int{"DNV": 30}}
	s := shipWithDocking(date(2023, time.January, 15), nil)

	next, fail := NextDocking(s, policy)
	require.Nil(t, fail)
	assert.Equal(t, date(2025, time.July, 15), *next)
}
