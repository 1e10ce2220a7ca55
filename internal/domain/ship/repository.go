package ship

import (
	"context"

	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// ListOptions defines filtering and pagination for ship queries.
type ListOptions struct {
	ClassSociety string
	Limit        int
	Offset       int
}

// ListOption is a functional option for ship list queries.
type ListOption func(*ListOptions)

// WithClassSociety filters the listing to one classification society.
func WithClassSociety(society string) ListOption {
	return func(o *ListOptions) { o.ClassSociety = society }
}

// WithLimit caps the number of ships returned.
func WithLimit(limit int) ListOption {
	return func(o *ListOptions) { o.Limit = limit }
}

// WithOffset skips the first offset ships.
func WithOffset(offset int) ListOption {
	return func(o *ListOptions) { o.Offset = offset }
}

// ApplyListOptions applies the given options and clamps them to sane bounds.
func ApplyListOptions(opts ...ListOption) ListOptions {
	options := ListOptions{Limit: 50}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Limit <= 0 || options.Limit > 200 {
		options.Limit = 50
	}
	if options.Offset < 0 {
		options.Offset = 0
	}
	return options
}

// Repository defines the persistence contract for the Ship aggregate.
// Implementations must return errors.ErrCodeShipNotFound (via pkg/errors)
// when a ship id does not exist.
type Repository interface {
	Create(ctx context.Context, s *Ship) error
	GetByID(ctx context.Context, id common.ID) (*Ship, error)
	List(ctx context.Context, opts ...ListOption) ([]*Ship, int64, error)

	// UpdateSchedule writes only the engine-derived fields carried by the
	// patch.  Implementations must not touch any other column.
	UpdateSchedule(ctx context.Context, id common.ID, patch SchedulePatch) error
}
