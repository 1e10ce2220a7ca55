package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_IsValidUUID(t *testing.T) {
	id := NewID()
	assert.NoError(t, id.Validate())
}

func TestID_Validate_Rejects(t *testing.T) {
	assert.Error(t, ID("").Validate())
	assert.Error(t, ID("not-a-uuid").Validate())
}

func TestTimestamp_JSONRoundTrip(t *testing.T) {
	orig := Timestamp(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, time.Time(orig).Equal(time.Time(decoded)))
}

func TestPagination_Validate(t *testing.T) {
	assert.NoError(t, Pagination{Page: 1, PageSize: 20}.Validate())
	assert.Error(t, Pagination{Page: 0, PageSize: 20}.Validate())
	assert.Error(t, Pagination{Page: 1, PageSize: 0}.Validate())
	assert.Error(t, Pagination{Page: 1, PageSize: 501}.Validate())
}

func TestPagination_Offset(t *testing.T) {
	assert.Equal(t, 40, Pagination{Page: 3, PageSize: 20}.Offset())
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("SHIP_001", "ship not found")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SHIP_001", resp.Error.Code)
}
