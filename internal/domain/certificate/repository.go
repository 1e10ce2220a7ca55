package certificate

import (
	"context"
	"io"
	"time"

	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// SchedulePatch carries the engine-derived survey fields written back onto a
// certificate by a recalculation.
type SchedulePatch struct {
	NextSurvey     string
	NextSurveyType string
}

// Repository defines the persistence contract for certificates.
// Implementations must return errors.ErrCodeCertificateNotFound (via
// pkg/errors) when a certificate id does not exist.
type Repository interface {
	Create(ctx context.Context, c *Certificate) error
	GetByID(ctx context.Context, id common.ID) (*Certificate, error)

	// FindByShip returns every certificate belonging to one ship, ordered
	// by certificate name for stable reporting.
	FindByShip(ctx context.Context, shipID common.ID) ([]*Certificate, error)

	// UpdateSchedule writes only the derived survey fields.
	UpdateSchedule(ctx context.Context, id common.ID, patch SchedulePatch) error

	// SetDocumentKey records the object-storage key of the uploaded scan.
	SetDocumentKey(ctx context.Context, id common.ID, key string) error
}

// DocumentStore archives original certificate scans in object storage.
// Implementations live in the infrastructure layer (MinIO).
type DocumentStore interface {
	// Put stores the document under a key derived from the certificate id
	// and returns that key.
	Put(ctx context.Context, certID common.ID, filename, contentType string, size int64, body io.Reader) (string, error)

	// PresignedGet returns a time-limited download URL for the stored key.
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Remove deletes the stored document.
	Remove(ctx context.Context, key string) error
}
