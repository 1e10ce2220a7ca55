package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// ErrLockNotAcquired is returned when the per-ship lock could not be taken
// within the retry budget.
var ErrLockNotAcquired = errors.New(errors.ErrCodeShipLocked, "ship is locked by another recalculation")

// unlockScript releases the lock only when still held by this owner.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// ShipLocker serializes recalculations per ship with a Redis SetNX mutex.
// Locks auto-expire after the TTL so a crashed holder cannot wedge a ship
// forever.
type ShipLocker struct {
	client     *Client
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
	logger     logging.Logger
}

// NewShipLocker builds the locker.  ttl bounds how long one recalculation
// may hold a ship.
func NewShipLocker(client *Client, ttl time.Duration, log logging.Logger) *ShipLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ShipLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: 100 * time.Millisecond,
		retryCount: 50,
		logger:     log.Named("ship_lock"),
	}
}

func lockKey(shipID common.ID) string {
	return "fleetsurvey:lock:ship:" + shipID.String()
}

// WithShipLock acquires the per-ship lock, runs fn, and releases the lock.
func (l *ShipLocker) WithShipLock(ctx context.Context, shipID common.ID, fn func(ctx context.Context) error) error {
	key := lockKey(shipID)
	value := uuid.New().String()

	if err := l.acquire(ctx, key, value); err != nil {
		return err
	}
	defer l.release(key, value)

	return fn(ctx)
}

func (l *ShipLocker) acquire(ctx context.Context, key, value string) error {
	for i := 0; i < l.retryCount; i++ {
		ok, err := l.client.Underlying().SetNX(ctx, key, value, l.ttl).Result()
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeCacheError, "acquiring ship lock")
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
	return ErrLockNotAcquired
}

func (l *ShipLocker) release(key, value string) {
	// Release on a fresh context so a canceled request still unlocks.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := unlockScript.Run(ctx, l.client.Underlying(), []string{key}, value).Result()
	if err != nil {
		l.logger.Warn("ship lock release failed", logging.String("key", key), logging.Err(err))
		return
	}
	if n, ok := res.(int64); ok && n == 0 {
		// The TTL expired before release; the run exceeded its budget.
		l.logger.Warn("ship lock expired before release", logging.String("key", key))
	}
}
