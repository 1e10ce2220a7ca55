package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	appsurvey "github.com/harborwise/fleetsurvey/internal/application/survey"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// ScheduleCache stores rendered schedule views as JSON.  All failures
// degrade to a miss; the cache must never turn into a request error.
type ScheduleCache struct {
	client *Client
	ttl    time.Duration
	logger logging.Logger
}

// NewScheduleCache builds the cache with a default TTL used when callers
// pass a non-positive one.
func NewScheduleCache(client *Client, ttl time.Duration, log logging.Logger) *ScheduleCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ScheduleCache{client: client, ttl: ttl, logger: log.Named("schedule_cache")}
}

func scheduleKey(shipID common.ID) string {
	return "fleetsurvey:schedule:" + shipID.String()
}

func (c *ScheduleCache) Get(ctx context.Context, shipID common.ID) (*appsurvey.ScheduleView, bool) {
	data, err := c.client.Underlying().Get(ctx, scheduleKey(shipID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("schedule cache read failed",
				logging.String("ship_id", shipID.String()), logging.Err(err))
		}
		return nil, false
	}
	var view appsurvey.ScheduleView
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.Warn("schedule cache entry corrupt",
			logging.String("ship_id", shipID.String()), logging.Err(err))
		return nil, false
	}
	return &view, true
}

func (c *ScheduleCache) Set(ctx context.Context, shipID common.ID, view *appsurvey.ScheduleView, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("schedule view not serializable", logging.Err(err))
		return
	}
	if err := c.client.Underlying().Set(ctx, scheduleKey(shipID), data, ttl).Err(); err != nil {
		c.logger.Warn("schedule cache write failed",
			logging.String("ship_id", shipID.String()), logging.Err(err))
	}
}

func (c *ScheduleCache) Invalidate(ctx context.Context, shipID common.ID) {
	if err := c.client.Underlying().Del(ctx, scheduleKey(shipID)).Err(); err != nil {
		c.logger.Warn("schedule cache invalidation failed",
			logging.String("ship_id", shipID.String()), logging.Err(err))
	}
}
