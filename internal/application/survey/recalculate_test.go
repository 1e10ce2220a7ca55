package survey

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testShip() *ship.Ship {
	lastDocking := date(2023, time.January, 15)
	intermediate := date(2023, time.April, 1)
	return &ship.Ship{
		ID:                     common.NewID(),
		Name:                   "MV Northern Light",
		IMONumber:              "9312345",
		ClassSociety:           "DNV",
		LastDocking:            &lastDocking,
		LastIntermediateSurvey: &intermediate,
	}
}

func testCert(shipID common.ID, name string, valid time.Time) *certificate.Certificate {
	v := valid
	return &certificate.Certificate{
		ID:        common.NewID(),
		ShipID:    shipID,
		CertName:  name,
		CertType:  certificate.CertTypeFullTerm,
		ValidDate: &v,
	}
}

func newTestService(ships *mockShipRepo, certs *mockCertRepo, locker ShipLocker, pub EventPublisher, metrics Metrics, cache ScheduleCache, now time.Time) RecalculationService {
	return NewRecalculationService(
		ships, certs, locker, pub, metrics, cache,
		domainsurvey.NewFixedClock(now), nil, nil,
	)
}

func TestRecalculateShipFullPipeline(t *testing.T) {
	shp := testShip()
	certs := []*certificate.Certificate{
		testCert(shp.ID, "Classification Certificate", date(2026, time.March, 10)),
		testCert(shp.ID, "Safety Management Certificate", date(2026, time.March, 10)),
	}

	shipRepo := new(mockShipRepo)
	certRepo := new(mockCertRepo)
	locker := &recordingLocker{}
	pub := new(mockPublisher)
	metrics := newCountingMetrics()
	cache := newMemoryCache()
	cache.views[shp.ID] = &ScheduleView{ShipID: shp.ID}

	shipRepo.On("GetByID", mock.Anything, shp.ID).Return(shp, nil)
	certRepo.On("FindByShip", mock.Anything, shp.ID).Return(certs, nil)
	shipRepo.On("UpdateSchedule", mock.Anything, shp.ID, mock.Anything).Return(nil)
	certRepo.On("UpdateSchedule", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	pub.On("PublishRecalculated", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(shipRepo, certRepo, locker, pub, metrics, cache, date(2024, time.June, 1))
	report, err := svc.RecalculateShip(context.Background(), shp.ID)
	require.NoError(t, err)

	// Ship-level derivations.
	require.NotNil(t, report.AnniversaryDate)
	assert.Equal(t, 10, report.AnniversaryDate.Day)
	assert.Equal(t, 3, report.AnniversaryDate.Month)
	assert.Equal(t, "Safety Management", report.AnniversaryDate.SourceCertificateType)

	require.NotNil(t, report.SpecialSurveyCycle)
	assert.Equal(t, date(2021, time.March, 10), report.SpecialSurveyCycle.FromDate)
	assert.Equal(t, date(2026, time.March, 10), report.SpecialSurveyCycle.ToDate)

	require.NotNil(t, report.NextDocking)
	assert.Equal(t, date(2026, time.January, 15), *report.NextDocking)

	// Both certificates land on the 3rd annual with the intermediate done.
	require.Len(t, report.Results, 2)
	for _, res := range report.Results {
		assert.Equal(t, "10/03/2025 (±3M)", res.NextSurvey)
		assert.Equal(t, domainsurvey.TypeThirdAnnual, res.NextSurveyType)
		assert.True(t, res.Updated)
	}
	assert.Equal(t, 2, report.UpdatedCount)
	assert.Equal(t, 2, report.TotalCertificates)

	assert.Equal(t, []common.ID{shp.ID}, locker.acquired)
	assert.Contains(t, cache.invalidated, shp.ID)
	assert.Equal(t, 1, metrics.recalcs)
	pub.AssertCalled(t, "PublishRecalculated", mock.Anything, mock.MatchedBy(func(e RecalculatedEvent) bool {
		return e.ShipID == shp.ID && e.UpdatedCount == 2
	}))
	shipRepo.AssertExpectations(t)
	certRepo.AssertExpectations(t)
}

// A certificate without a valid date is reported as a failure without
// aborting the rest of the run.
func TestRecalculateShipIsolatesCertificateFailures(t *testing.T) {
	shp := testShip()
	broken := testCert(shp.ID, "Interim Tonnage Certificate", time.Time{})
	broken.ValidDate = nil
	good := testCert(shp.ID, "Classification Certificate", date(2026, time.March, 10))
	certs := []*certificate.Certificate{broken, good}

	shipRepo := new(mockShipRepo)
	certRepo := new(mockCertRepo)
	metrics := newCountingMetrics()

	shipRepo.On("GetByID", mock.Anything, shp.ID).Return(shp, nil)
	certRepo.On("FindByShip", mock.Anything, shp.ID).Return(certs, nil)
	shipRepo.On("UpdateSchedule", mock.Anything, shp.ID, mock.Anything).Return(nil)
	certRepo.On("UpdateSchedule", mock.Anything, good.ID, mock.Anything).Return(nil)

	svc := newTestService(shipRepo, certRepo, nil, nil, metrics, nil, date(2024, time.June, 1))
	report, err := svc.RecalculateShip(context.Background(), shp.ID)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, domainsurvey.FailureMissingValidDate, report.Results[0].Failure)
	assert.False(t, report.Results[0].Updated)
	assert.True(t, report.Results[1].Updated)
	assert.Equal(t, 1, report.UpdatedCount)
	assert.Equal(t, 1, metrics.outcomes[domainsurvey.FailureMissingValidDate])
}

// Rerunning with unchanged inputs persists nothing the second time.
func TestRecalculateShipIdempotent(t *testing.T) {
	shp := testShip()
	cert := testCert(shp.ID, "Classification Certificate", date(2026, time.March, 10))

	shipRepo := new(mockShipRepo)
	certRepo := new(mockCertRepo)

	shipRepo.On("GetByID", mock.Anything, shp.ID).Return(shp, nil)
	certRepo.On("FindByShip", mock.Anything, shp.ID).Return([]*certificate.Certificate{cert}, nil)
	shipRepo.On("UpdateSchedule", mock.Anything, shp.ID, mock.Anything).Return(nil).Once()
	certRepo.On("UpdateSchedule", mock.Anything, cert.ID, mock.Anything).Return(nil).Once()

	svc := newTestService(shipRepo, certRepo, nil, nil, nil, nil, date(2024, time.June, 1))

	first, err := svc.RecalculateShip(context.Background(), shp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.UpdatedCount)

	// The mutated ship and certificate now carry the derived values; a
	// second run must not call UpdateSchedule again.
	second, err := svc.RecalculateShip(context.Background(), shp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.UpdatedCount)
	assert.Equal(t, first.Results[0].NextSurvey, second.Results[0].NextSurvey)

	shipRepo.AssertExpectations(t)
	certRepo.AssertExpectations(t)
}

func TestRecalculateShipRecordsDerivationNotes(t *testing.T) {
	shp := testShip()
	shp.LastDocking = nil
	cond := testCert(shp.ID, "Condition of Class", date(2025, time.January, 1))
	cond.CertType = certificate.CertTypeConditional

	shipRepo := new(mockShipRepo)
	certRepo := new(mockCertRepo)

	shipRepo.On("GetByID", mock.Anything, shp.ID).Return(shp, nil)
	certRepo.On("FindByShip", mock.Anything, shp.ID).Return([]*certificate.Certificate{cond}, nil)
	certRepo.On("UpdateSchedule", mock.Anything, cond.ID, mock.Anything).Return(nil)

	svc := newTestService(shipRepo, certRepo, nil, nil, nil, nil, date(2024, time.June, 1))
	report, err := svc.RecalculateShip(context.Background(), shp.ID)
	require.NoError(t, err)

	// Only the condition certificate exists: no Full Term anchors, no
	// docking history.  All three derivations leave notes.
	assert.Len(t, report.Notes, 3)
	assert.Nil(t, report.AnniversaryDate)
	assert.Nil(t, report.NextDocking)

	// The condition certificate still schedules against its own expiry.
	require.Len(t, report.Results, 1)
	assert.Equal(t, "01/01/2025 (no window)", report.Results[0].NextSurvey)
}

func TestRecalculateShipNotFound(t *testing.T) {
	shipRepo := new(mockShipRepo)
	certRepo := new(mockCertRepo)
	id := common.NewID()
	shipRepo.On("GetByID", mock.Anything, id).Return(nil, errors.New(errors.ErrCodeShipNotFound, "ship not found"))

	svc := newTestService(shipRepo, certRepo, nil, nil, nil, nil, date(2024, time.June, 1))
	report, err := svc.RecalculateShip(context.Background(), id)
	assert.Nil(t, report)
	assert.True(t, errors.IsCode(err, errors.ErrCodeShipNotFound))
}

func TestRecalculateShipInvalidID(t *testing.T) {
	svc := newTestService(new(mockShipRepo), new(mockCertRepo), nil, nil, nil, nil, date(2024, time.June, 1))
	_, err := svc.RecalculateShip(context.Background(), "not-a-uuid")
	assert.Error(t, err)
}

func TestPreviewCertificateDoesNotPersist(t *testing.T) {
	shp := testShip()
	cert := testCert(shp.ID, "Classification Certificate", date(2026, time.March, 10))

	shipRepo := new(mockShipRepo)
	certRepo := new(mockCertRepo)
	certRepo.On("GetByID", mock.Anything, cert.ID).Return(cert, nil)
	shipRepo.On("GetByID", mock.Anything, shp.ID).Return(shp, nil)

	svc := newTestService(shipRepo, certRepo, nil, nil, nil, nil, date(2024, time.June, 1))
	res, err := svc.PreviewCertificate(context.Background(), cert.ID)
	require.NoError(t, err)
	require.True(t, res.Scheduled())

	certRepo.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything, mock.Anything)
	shipRepo.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything, mock.Anything)
}
