package survey

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

type mockShipRepo struct {
	mock.Mock
}

func (m *mockShipRepo) Create(ctx context.Context, s *ship.Ship) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockShipRepo) GetByID(ctx context.Context, id common.ID) (*ship.Ship, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*ship.Ship); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockShipRepo) List(ctx context.Context, opts ...ship.ListOption) ([]*ship.Ship, int64, error) {
	args := m.Called(ctx, opts)
	ships, _ := args.Get(0).([]*ship.Ship)
	return ships, args.Get(1).(int64), args.Error(2)
}

func (m *mockShipRepo) UpdateSchedule(ctx context.Context, id common.ID, patch ship.SchedulePatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

type mockCertRepo struct {
	mock.Mock
}

func (m *mockCertRepo) Create(ctx context.Context, c *certificate.Certificate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCertRepo) GetByID(ctx context.Context, id common.ID) (*certificate.Certificate, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*certificate.Certificate); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCertRepo) FindByShip(ctx context.Context, shipID common.ID) ([]*certificate.Certificate, error) {
	args := m.Called(ctx, shipID)
	certs, _ := args.Get(0).([]*certificate.Certificate)
	return certs, args.Error(1)
}

func (m *mockCertRepo) UpdateSchedule(ctx context.Context, id common.ID, patch certificate.SchedulePatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *mockCertRepo) SetDocumentKey(ctx context.Context, id common.ID, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishRecalculated(ctx context.Context, event RecalculatedEvent) error {
	return m.Called(ctx, event).Error(0)
}

// recordingLocker counts lock acquisitions while running fn inline.
type recordingLocker struct {
	acquired []common.ID
}

func (l *recordingLocker) WithShipLock(ctx context.Context, shipID common.ID, fn func(ctx context.Context) error) error {
	l.acquired = append(l.acquired, shipID)
	return fn(ctx)
}

// memoryCache is an in-process ScheduleCache for tests.
type memoryCache struct {
	views       map[common.ID]*ScheduleView
	invalidated []common.ID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{views: make(map[common.ID]*ScheduleView)}
}

func (c *memoryCache) Get(_ context.Context, shipID common.ID) (*ScheduleView, bool) {
	v, ok := c.views[shipID]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, shipID common.ID, view *ScheduleView, _ time.Duration) {
	c.views[shipID] = view
}

func (c *memoryCache) Invalidate(_ context.Context, shipID common.ID) {
	c.invalidated = append(c.invalidated, shipID)
	delete(c.views, shipID)
}

// countingMetrics records telemetry calls.
type countingMetrics struct {
	recalcs  int
	outcomes map[domainsurvey.FailureCode]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{outcomes: make(map[domainsurvey.FailureCode]int)}
}

func (m *countingMetrics) ObserveRecalculation(_ time.Duration, _, _ int) { m.recalcs++ }

func (m *countingMetrics) CountCertificateOutcome(code domainsurvey.FailureCode) {
	m.outcomes[code]++
}
