package survey

import (
	"context"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// defaultScheduleTTL bounds staleness of cached schedule views between
// recalculations.
const defaultScheduleTTL = 10 * time.Minute

// CheckpointView is one survey-grid entry rendered for display.
type CheckpointView struct {
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
	Date    string `json:"date"`
	Passed  bool   `json:"passed"`
}

// CertificateScheduleView is one certificate's computed next survey.
type CertificateScheduleView struct {
	CertificateID  common.ID                `json:"certificate_id"`
	CertName       string                   `json:"cert_name"`
	CertType       certificate.CertType     `json:"cert_type"`
	ValidDate      string                   `json:"valid_date,omitempty"`
	NextSurvey     string                   `json:"next_survey,omitempty"`
	NextSurveyType string                   `json:"next_survey_type,omitempty"`
	Failure        domainsurvey.FailureCode `json:"failure,omitempty"`
	Reason         string                   `json:"reason,omitempty"`
}

// ScheduleView is the full survey schedule for one ship.
type ScheduleView struct {
	ShipID   common.ID `json:"ship_id"`
	ShipName string    `json:"ship_name"`

	AnniversaryDate    *ship.AnniversaryDate    `json:"anniversary_date,omitempty"`
	SpecialSurveyCycle *ship.SpecialSurveyCycle `json:"special_survey_cycle,omitempty"`
	NextDocking        string                   `json:"next_docking,omitempty"`

	Checkpoints  []CheckpointView          `json:"checkpoints,omitempty"`
	Certificates []CertificateScheduleView `json:"certificates"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ScheduleService assembles read-only schedule views.
type ScheduleService interface {
	GetSchedule(ctx context.Context, shipID common.ID) (*ScheduleView, error)
}

type scheduleServiceImpl struct {
	ships  ship.Repository
	certs  certificate.Repository
	cache  ScheduleCache
	clock  domainsurvey.Clock
	logger logging.Logger
}

// NewScheduleService wires the schedule read model.  cache may be nil.
func NewScheduleService(
	ships ship.Repository,
	certs certificate.Repository,
	cache ScheduleCache,
	clock domainsurvey.Clock,
	logger logging.Logger,
) ScheduleService {
	if clock == nil {
		clock = domainsurvey.NewSystemClock()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &scheduleServiceImpl{
		ships:  ships,
		certs:  certs,
		cache:  cache,
		clock:  clock,
		logger: logger.Named("schedule"),
	}
}

func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, shipID common.ID) (*ScheduleView, error) {
	if err := shipID.Validate(); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, shipID); ok {
			return view, nil
		}
	}

	shp, err := s.ships.GetByID(ctx, shipID)
	if err != nil {
		return nil, err
	}
	certs, err := s.certs.FindByShip(ctx, shipID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	view := &ScheduleView{
		ShipID:             shp.ID,
		ShipName:           shp.Name,
		AnniversaryDate:    shp.AnniversaryDate,
		SpecialSurveyCycle: shp.SpecialSurveyCycle,
		GeneratedAt:        now,
	}
	if shp.NextDocking != nil {
		view.NextDocking = domainsurvey.FormatDMY(*shp.NextDocking)
	}
	if shp.SpecialSurveyCycle != nil {
		for _, cp := range domainsurvey.CycleCheckpoints(*shp.SpecialSurveyCycle) {
			view.Checkpoints = append(view.Checkpoints, CheckpointView{
				Ordinal: cp.Ordinal,
				Label:   cp.Label,
				Date:    domainsurvey.FormatDMY(cp.Date),
				Passed:  !cp.Date.After(now),
			})
		}
	}

	for _, cert := range certs {
		cv := CertificateScheduleView{
			CertificateID: cert.ID,
			CertName:      cert.CertName,
			CertType:      cert.CertType,
		}
		if cert.ValidDate != nil {
			cv.ValidDate = domainsurvey.FormatDMY(*cert.ValidDate)
		}
		res := domainsurvey.NextSurveyForCertificate(cert, shp, now)
		if res.Scheduled() {
			cv.NextSurvey = res.NextSurvey
			cv.NextSurveyType = res.NextSurveyType
		} else {
			cv.Failure = res.Failure
			cv.Reason = res.Reasoning
		}
		view.Certificates = append(view.Certificates, cv)
	}

	if s.cache != nil {
		s.cache.Set(ctx, shipID, view, defaultScheduleTTL)
	}
	return view, nil
}
