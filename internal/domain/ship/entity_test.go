package ship

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShip(t *testing.T) {
	shp, err := NewShip("MV Northern Light", "9074729", "DNV")
	require.NoError(t, err)
	assert.NotEmpty(t, shp.ID)
	assert.Equal(t, "MV Northern Light", shp.Name)
	assert.Nil(t, shp.AnniversaryDate)
	assert.Nil(t, shp.SpecialSurveyCycle)
}

func TestNewShipRequiresName(t *testing.T) {
	_, err := NewShip("", "9074729", "DNV")
	assert.Error(t, err)
}

func TestAnniversaryDateValidate(t *testing.T) {
	tests := []struct {
		name    string
		anchor  AnniversaryDate
		wantErr bool
	}{
		{"valid", AnniversaryDate{Day: 10, Month: 3}, false},
		{"leap day", AnniversaryDate{Day: 29, Month: 2}, false},
		{"month zero", AnniversaryDate{Day: 10, Month: 0}, true},
		{"month thirteen", AnniversaryDate{Day: 10, Month: 13}, true},
		{"day zero", AnniversaryDate{Day: 0, Month: 3}, true},
		{"day thirty-two", AnniversaryDate{Day: 32, Month: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.anchor.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSpecialSurveyCycleContains(t *testing.T) {
	cycle := SpecialSurveyCycle{
		FromDate: time.Date(2021, time.March, 10, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, cycle.Contains(cycle.FromDate))
	assert.True(t, cycle.Contains(cycle.ToDate))
	assert.True(t, cycle.Contains(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cycle.Contains(cycle.FromDate.AddDate(0, 0, -1)))
	assert.False(t, cycle.Contains(cycle.ToDate.AddDate(0, 0, 1)))
}

func TestShipAge(t *testing.T) {
	at := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	shp := &Ship{}
	assert.Equal(t, -1, shp.Age(at))

	built := 2010
	shp.BuiltYear = &built
	assert.Equal(t, 16, shp.Age(at))

	future := 2030
	shp.BuiltYear = &future
	assert.Equal(t, 0, shp.Age(at))
}

func TestSchedulePatchEmpty(t *testing.T) {
	assert.True(t, SchedulePatch{}.Empty())
	assert.False(t, SchedulePatch{SetAnniversaryDate: true}.Empty())
	assert.False(t, SchedulePatch{SetSpecialSurveyCycle: true}.Empty())
	assert.False(t, SchedulePatch{SetNextDocking: true}.Empty())
}
