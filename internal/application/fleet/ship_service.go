// Package fleet contains the registry application services: ship and
// certificate CRUD plus the certificate document archive.  The survey
// engine reads what these services maintain; it never writes through them.
package fleet

import (
	"context"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// CreateShipRequest carries the registry fields for a new ship.
type CreateShipRequest struct {
	Name         string `json:"name" binding:"required"`
	IMONumber    string `json:"imo_number"`
	ClassSociety string `json:"class_society"`
	Flag         string `json:"flag"`
	BuiltYear    *int   `json:"built_year,omitempty"`

	LastDocking            *time.Time `json:"last_docking,omitempty"`
	LastIntermediateSurvey *time.Time `json:"last_intermediate_survey,omitempty"`
}

// ShipListResult is a paginated ship listing.
type ShipListResult struct {
	Ships []*ship.Ship `json:"ships"`
	Total int64        `json:"total"`
}

// ShipService manages the ship registry.
type ShipService interface {
	CreateShip(ctx context.Context, req CreateShipRequest) (*ship.Ship, error)
	GetShip(ctx context.Context, id common.ID) (*ship.Ship, error)
	ListShips(ctx context.Context, opts ...ship.ListOption) (*ShipListResult, error)
}

type shipServiceImpl struct {
	ships  ship.Repository
	logger logging.Logger
}

// NewShipService wires the ship registry service.
func NewShipService(ships ship.Repository, logger logging.Logger) ShipService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &shipServiceImpl{ships: ships, logger: logger.Named("fleet.ship")}
}

func (s *shipServiceImpl) CreateShip(ctx context.Context, req CreateShipRequest) (*ship.Ship, error) {
	shp, err := ship.NewShip(req.Name, req.IMONumber, req.ClassSociety)
	if err != nil {
		return nil, err
	}
	shp.Flag = req.Flag
	shp.BuiltYear = req.BuiltYear
	shp.LastDocking = req.LastDocking
	shp.LastIntermediateSurvey = req.LastIntermediateSurvey

	if err := s.ships.Create(ctx, shp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "creating ship")
	}
	s.logger.Info("ship registered",
		logging.String("ship_id", shp.ID.String()),
		logging.String("name", shp.Name))
	return shp, nil
}

func (s *shipServiceImpl) GetShip(ctx context.Context, id common.ID) (*ship.Ship, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return s.ships.GetByID(ctx, id)
}

func (s *shipServiceImpl) ListShips(ctx context.Context, opts ...ship.ListOption) (*ShipListResult, error) {
	ships, total, err := s.ships.List(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &ShipListResult{Ships: ships, Total: total}, nil
}
