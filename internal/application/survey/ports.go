// Package survey contains the application services that orchestrate the
// scheduling engine against persistence, locking, caching, and messaging.
package survey

import (
	"context"
	"time"

	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// ShipLocker serializes recalculations per ship.  Concurrent recalculations
// for different ships may proceed in parallel; two for the same ship must
// not interleave their read-compute-write sequences.  The Redis
// implementation lives in the infrastructure layer.
type ShipLocker interface {
	// WithShipLock runs fn while holding the per-ship lock.  It returns the
	// lock error when acquisition fails, otherwise fn's error.
	WithShipLock(ctx context.Context, shipID common.ID, fn func(ctx context.Context) error) error
}

// RecalculatedEvent is published after a ship's schedule has been
// recalculated and persisted.
type RecalculatedEvent struct {
	ShipID            common.ID `json:"ship_id"`
	UpdatedCount      int       `json:"updated_count"`
	TotalCertificates int       `json:"total_certificates"`
	CompletedAt       time.Time `json:"completed_at"`
}

// EventPublisher emits schedule lifecycle events to the message bus.
type EventPublisher interface {
	PublishRecalculated(ctx context.Context, event RecalculatedEvent) error
}

// Metrics records recalculation telemetry.  The Prometheus implementation
// lives in the infrastructure layer; tests use a no-op.
type Metrics interface {
	ObserveRecalculation(duration time.Duration, updated, total int)
	CountCertificateOutcome(failure domainsurvey.FailureCode)
}

// ScheduleCache caches rendered schedule views per ship.  Implementations
// must tolerate cache unavailability: a read miss or write failure degrades
// to recomputation, never to a request failure.
type ScheduleCache interface {
	Get(ctx context.Context, shipID common.ID) (*ScheduleView, bool)
	Set(ctx context.Context, shipID common.ID, view *ScheduleView, ttl time.Duration)
	Invalidate(ctx context.Context, shipID common.ID)
}

// NopMetrics discards all telemetry.
type NopMetrics struct{}

func (NopMetrics) ObserveRecalculation(time.Duration, int, int)     {}
func (NopMetrics) CountCertificateOutcome(domainsurvey.FailureCode) {}

// NopLocker runs fn without any locking.  Used by the offline CLI where no
// concurrent writers exist.
type NopLocker struct{}

func (NopLocker) WithShipLock(ctx context.Context, _ common.ID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NopPublisher drops all events.
type NopPublisher struct{}

func (NopPublisher) PublishRecalculated(context.Context, RecalculatedEvent) error { return nil }
