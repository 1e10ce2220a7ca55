package survey

import (
	"context"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// CertificateResult is the per-certificate outcome of a bulk recalculation.
type CertificateResult struct {
	CertificateID  common.ID                `json:"certificate_id"`
	CertName       string                   `json:"cert_name"`
	NextSurvey     string                   `json:"next_survey,omitempty"`
	NextSurveyType string                   `json:"next_survey_type,omitempty"`
	Failure        domainsurvey.FailureCode `json:"failure,omitempty"`
	Reason         string                   `json:"reason,omitempty"`
	Updated        bool                     `json:"updated"`
}

// RecalculationReport summarizes one ship-level recalculation run.
type RecalculationReport struct {
	ShipID common.ID `json:"ship_id"`

	AnniversaryDate    *ship.AnniversaryDate    `json:"anniversary_date,omitempty"`
	SpecialSurveyCycle *ship.SpecialSurveyCycle `json:"special_survey_cycle,omitempty"`
	NextDocking        *time.Time               `json:"next_docking,omitempty"`

	// Notes records ship-level derivations that produced no result, with
	// the calculator's reason.
	Notes []string `json:"notes,omitempty"`

	TotalCertificates int                 `json:"total_certificates"`
	UpdatedCount      int                 `json:"updated_count"`
	Results           []CertificateResult `json:"results"`

	CompletedAt time.Time `json:"completed_at"`
}

// RecalculationService recomputes a ship's derived schedule fields and every
// certificate's next survey, persisting only what changed.
type RecalculationService interface {
	// RecalculateShip runs the full pipeline for one ship under the
	// per-ship lock.  Per-certificate failures are recorded in the report
	// and never abort the run.
	RecalculateShip(ctx context.Context, shipID common.ID) (*RecalculationReport, error)

	// PreviewCertificate computes the next survey for one certificate
	// without persisting anything.
	PreviewCertificate(ctx context.Context, certID common.ID) (*domainsurvey.ScheduleResult, error)
}

type recalculationServiceImpl struct {
	ships     ship.Repository
	certs     certificate.Repository
	locker    ShipLocker
	publisher EventPublisher
	metrics   Metrics
	cache     ScheduleCache
	clock     domainsurvey.Clock
	docking   domainsurvey.DockingPolicy
	logger    logging.Logger
}

// NewRecalculationService wires the recalculation pipeline.  locker,
// publisher, metrics, and cache may be nil; no-op implementations are
// substituted.
func NewRecalculationService(
	ships ship.Repository,
	certs certificate.Repository,
	locker ShipLocker,
	publisher EventPublisher,
	metrics Metrics,
	cache ScheduleCache,
	clock domainsurvey.Clock,
	docking domainsurvey.DockingPolicy,
	logger logging.Logger,
) RecalculationService {
	if locker == nil {
		locker = NopLocker{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if clock == nil {
		clock = domainsurvey.NewSystemClock()
	}
	if docking == nil {
		docking = domainsurvey.StandardDockingPolicy{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &recalculationServiceImpl{
		ships:     ships,
		certs:     certs,
		locker:    locker,
		publisher: publisher,
		metrics:   metrics,
		cache:     cache,
		clock:     clock,
		docking:   docking,
		logger:    logger.Named("recalc"),
	}
}

func (s *recalculationServiceImpl) RecalculateShip(ctx context.Context, shipID common.ID) (*RecalculationReport, error) {
	if err := shipID.Validate(); err != nil {
		return nil, err
	}
	var report *RecalculationReport
	err := s.locker.WithShipLock(ctx, shipID, func(ctx context.Context) error {
		var runErr error
		report, runErr = s.recalculateLocked(ctx, shipID)
		return runErr
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *recalculationServiceImpl) recalculateLocked(ctx context.Context, shipID common.ID) (*RecalculationReport, error) {
	started := s.clock.Now()

	shp, err := s.ships.GetByID(ctx, shipID)
	if err != nil {
		return nil, err
	}
	certs, err := s.certs.FindByShip(ctx, shipID)
	if err != nil {
		return nil, err
	}

	report := &RecalculationReport{ShipID: shipID}

	patch := s.deriveShipSchedule(shp, certs, report)
	if !patch.Empty() {
		if err := s.ships.UpdateSchedule(ctx, shipID, patch); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeShipUpdateFailed, "persisting derived schedule")
		}
	}

	now := s.clock.Now()
	for _, cert := range certs {
		result := s.recalculateCertificate(ctx, cert, shp, now)
		if result.Updated {
			report.UpdatedCount++
		}
		if result.Failure != "" {
			s.metrics.CountCertificateOutcome(result.Failure)
		}
		report.Results = append(report.Results, result)
	}
	report.TotalCertificates = len(certs)
	report.CompletedAt = s.clock.Now()

	if s.cache != nil {
		s.cache.Invalidate(ctx, shipID)
	}
	s.metrics.ObserveRecalculation(report.CompletedAt.Sub(started), report.UpdatedCount, report.TotalCertificates)

	event := RecalculatedEvent{
		ShipID:            shipID,
		UpdatedCount:      report.UpdatedCount,
		TotalCertificates: report.TotalCertificates,
		CompletedAt:       report.CompletedAt,
	}
	if err := s.publisher.PublishRecalculated(ctx, event); err != nil {
		// Event delivery is best effort; the recalculation itself is
		// already durable.
		s.logger.Warn("recalculated event not published",
			logging.String("ship_id", shipID.String()), logging.Err(err))
	}

	s.logger.Info("ship schedule recalculated",
		logging.String("ship_id", shipID.String()),
		logging.Int("certificates", report.TotalCertificates),
		logging.Int("updated", report.UpdatedCount))
	return report, nil
}

// deriveShipSchedule resolves the anniversary date, special survey cycle,
// and next docking, mutating shp in place so certificate scheduling sees the
// refreshed values.  Derivation failures become report notes.
func (s *recalculationServiceImpl) deriveShipSchedule(shp *ship.Ship, certs []*certificate.Certificate, report *RecalculationReport) ship.SchedulePatch {
	var patch ship.SchedulePatch

	if anchor, fail := domainsurvey.ResolveAnniversary(certs); fail != nil {
		report.Notes = append(report.Notes, "anniversary date: "+fail.Reason)
	} else if shp.AnniversaryDate == nil || *shp.AnniversaryDate != *anchor {
		shp.AnniversaryDate = anchor
		patch.AnniversaryDate = anchor
		patch.SetAnniversaryDate = true
	}
	report.AnniversaryDate = shp.AnniversaryDate

	if cycle, fail := domainsurvey.ResolveCycle(certs); fail != nil {
		report.Notes = append(report.Notes, "special survey cycle: "+fail.Reason)
	} else if shp.SpecialSurveyCycle == nil || *shp.SpecialSurveyCycle != *cycle {
		shp.SpecialSurveyCycle = cycle
		patch.SpecialSurveyCycle = cycle
		patch.SetSpecialSurveyCycle = true
	}
	report.SpecialSurveyCycle = shp.SpecialSurveyCycle

	if next, fail := domainsurvey.NextDocking(shp, s.docking); fail != nil {
		report.Notes = append(report.Notes, "next docking: "+fail.Reason)
	} else if shp.NextDocking == nil || !shp.NextDocking.Equal(*next) {
		shp.NextDocking = next
		patch.NextDocking = next
		patch.SetNextDocking = true
	}
	report.NextDocking = shp.NextDocking

	return patch
}

// recalculateCertificate computes and, when changed, persists one
// certificate's next survey.  Persistence errors degrade to a recorded
// failure so one bad row cannot abort the whole run.
func (s *recalculationServiceImpl) recalculateCertificate(ctx context.Context, cert *certificate.Certificate, shp *ship.Ship, now time.Time) CertificateResult {
	result := CertificateResult{
		CertificateID: cert.ID,
		CertName:      cert.CertName,
	}

	sched := domainsurvey.NextSurveyForCertificate(cert, shp, now)
	if !sched.Scheduled() {
		result.Failure = sched.Failure
		result.Reason = sched.Reasoning
		return result
	}

	result.NextSurvey = sched.NextSurvey
	result.NextSurveyType = sched.NextSurveyType
	if cert.NextSurvey == sched.NextSurvey && cert.NextSurveyType == sched.NextSurveyType {
		return result
	}

	patch := certificate.SchedulePatch{
		NextSurvey:     sched.NextSurvey,
		NextSurveyType: sched.NextSurveyType,
	}
	if err := s.certs.UpdateSchedule(ctx, cert.ID, patch); err != nil {
		s.logger.Error("certificate schedule not persisted",
			logging.String("certificate_id", cert.ID.String()), logging.Err(err))
		result.Failure = "persist_failed"
		result.Reason = err.Error()
		return result
	}
	cert.NextSurvey = sched.NextSurvey
	cert.NextSurveyType = sched.NextSurveyType
	result.Updated = true
	return result
}

func (s *recalculationServiceImpl) PreviewCertificate(ctx context.Context, certID common.ID) (*domainsurvey.ScheduleResult, error) {
	if err := certID.Validate(); err != nil {
		return nil, err
	}
	cert, err := s.certs.GetByID(ctx, certID)
	if err != nil {
		return nil, err
	}
	shp, err := s.ships.GetByID(ctx, cert.ShipID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	return domainsurvey.NextSurveyForCertificate(cert, shp, s.clock.Now()), nil
}
