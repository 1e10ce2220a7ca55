package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", placeholder(1))
	assert.Equal(t, "$12", placeholder(12))
}

func TestNullTime(t *testing.T) {
	assert.False(t, nullTime(nil).Valid)

	zero := time.Time{}
	assert.False(t, nullTime(&zero).Valid)

	v := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	nt := nullTime(&v)
	assert.True(t, nt.Valid)
	assert.Equal(t, v, nt.Time)
}

func TestNullInt(t *testing.T) {
	assert.False(t, nullInt(nil).Valid)

	v := 2008
	ni := nullInt(&v)
	assert.True(t, ni.Valid)
	assert.Equal(t, int32(2008), ni.Int32)
}

func TestNullString(t *testing.T) {
	assert.False(t, nullString("").Valid)
	assert.True(t, nullString("x").Valid)
}

func TestTimePtrRoundsToUTC(t *testing.T) {
	assert.Nil(t, timePtr(nullTime(nil)))

	loc := time.FixedZone("CET", 3600)
	v := time.Date(2026, time.March, 10, 1, 0, 0, 0, loc)
	got := timePtr(nullTime(&v))
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, v.Equal(*got))
}
