package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

func TestNewCertificate(t *testing.T) {
	shipID := common.NewID()
	cert, err := NewCertificate(shipID, "Load Line Certificate", CertTypeFullTerm)
	require.NoError(t, err)
	assert.Equal(t, shipID, cert.ShipID)
	assert.Equal(t, "Load Line Certificate", cert.CertName)
	assert.True(t, cert.IsFullTerm())
}

func TestNewCertificateValidation(t *testing.T) {
	_, err := NewCertificate("", "Load Line Certificate", CertTypeFullTerm)
	assert.Error(t, err)

	_, err = NewCertificate(common.NewID(), "", CertTypeFullTerm)
	assert.Error(t, err)
}

func TestParseCertType(t *testing.T) {
	tests := []struct {
		in   string
		want CertType
	}{
		{"Full Term", CertTypeFullTerm},
		{"full term", CertTypeFullTerm},
		{"  FULL TERM  ", CertTypeFullTerm},
		{"Interim", CertTypeInterim},
		{"Provisional", CertTypeProvisional},
		{"Short term", CertTypeShortTerm},
		{"Conditional", CertTypeConditional},
		{"something else", CertTypeOther},
		{"", CertTypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCertType(tt.in), "input %q", tt.in)
	}
}

func TestIsCondition(t *testing.T) {
	assert.True(t, (&Certificate{CertType: CertTypeConditional}).IsCondition())
	assert.True(t, (&Certificate{CertName: "Condition of Class"}).IsCondition())
	assert.False(t, (&Certificate{CertType: CertTypeFullTerm, CertName: "Load Line Certificate"}).IsCondition())
}

func TestHasValidDate(t *testing.T) {
	cert := &Certificate{}
	assert.False(t, cert.HasValidDate())

	zero := time.Time{}
	cert.ValidDate = &zero
	assert.False(t, cert.HasValidDate())

	valid := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	cert.ValidDate = &valid
	assert.True(t, cert.HasValidDate())
}
