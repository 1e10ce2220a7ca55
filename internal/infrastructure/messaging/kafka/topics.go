// Package kafka carries the survey lifecycle events over Kafka: requests to
// recalculate a ship and notifications that a recalculation completed.
package kafka

import (
	"time"

	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// Default topic names; deployments override them via configuration.
const (
	TopicRecalcRequested = "survey.recalc-requested"
	TopicRecalculated    = "survey.recalculated"
)

// RecalcRequestedEvent asks the worker to recalculate one ship's schedule.
type RecalcRequestedEvent struct {
	ShipID      common.ID `json:"ship_id"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}
