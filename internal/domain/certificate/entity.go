// Package certificate defines the statutory certificate entity carried by
// each ship and its persistence contracts.
package certificate

import (
	"strings"
	"time"

	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// CertType classifies the term of a statutory certificate.
type CertType string

const (
	CertTypeFullTerm    CertType = "Full Term"
	CertTypeInterim     CertType = "Interim"
	CertTypeProvisional CertType = "Provisional"
	CertTypeShortTerm   CertType = "Short term"
	CertTypeConditional CertType = "Conditional"
	CertTypeOther       CertType = "Other"
)

// KnownCertTypes lists every accepted CertType value.
var KnownCertTypes = []CertType{
	CertTypeFullTerm,
	CertTypeInterim,
	CertTypeProvisional,
	CertTypeShortTerm,
	CertTypeConditional,
	CertTypeOther,
}

// ParseCertType normalizes free text to a CertType, defaulting to Other.
func ParseCertType(s string) CertType {
	trimmed := strings.TrimSpace(s)
	for _, t := range KnownCertTypes {
		if strings.EqualFold(trimmed, string(t)) {
			return t
		}
	}
	return CertTypeOther
}

// Certificate is one statutory certificate held by a ship.
//
// NextSurvey and NextSurveyType are derived display values written only by
// the survey engine; they carry no lifecycle beyond "last computed value".
type Certificate struct {
	ID       common.ID `json:"id"`
	ShipID   common.ID `json:"ship_id"`
	CertName string    `json:"cert_name"`
	CertType CertType  `json:"cert_type"`
	Issuer   string    `json:"issuer"`

	IssueDate *time.Time `json:"issue_date,omitempty"`
	ValidDate *time.Time `json:"valid_date,omitempty"`

	NextSurvey     string `json:"next_survey,omitempty"`
	NextSurveyType string `json:"next_survey_type,omitempty"`

	// DocumentKey points at the original certificate scan in object storage.
	DocumentKey string `json:"document_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCertificate creates a Certificate with validation.
func NewCertificate(shipID common.ID, certName string, certType CertType) (*Certificate, error) {
	if shipID == "" {
		return nil, errors.Validation("ship_id must not be empty")
	}
	if certName == "" {
		return nil, errors.Validation("cert_name must not be empty")
	}
	now := time.Now().UTC()
	return &Certificate{
		ID:        common.NewID(),
		ShipID:    shipID,
		CertName:  certName,
		CertType:  certType,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsFullTerm reports whether the certificate is a Full Term certificate,
// the only kind that anchors anniversary dates and survey cycles.
func (c *Certificate) IsFullTerm() bool {
	return c.CertType == CertTypeFullTerm
}

// IsCondition reports whether this is a condition certificate.  Condition
// certificates are not subject to the annual-survey grid; their own expiry
// is the next event.  The marker may appear in the type or, on older
// records, in the certificate title.
func (c *Certificate) IsCondition() bool {
	return strings.Contains(strings.ToUpper(string(c.CertType)), "CONDITION") ||
		strings.Contains(strings.ToUpper(c.CertName), "CONDITION")
}

// HasValidDate reports whether a usable expiry date is present.
func (c *Certificate) HasValidDate() bool {
	return c.ValidDate != nil && !c.ValidDate.IsZero()
}
