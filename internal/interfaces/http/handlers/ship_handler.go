package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harborwise/fleetsurvey/internal/application/fleet"
	appsurvey "github.com/harborwise/fleetsurvey/internal/application/survey"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	"github.com/harborwise/fleetsurvey/pkg/errors"
)

// ShipHandler serves the ship registry and schedule endpoints.
type ShipHandler struct {
	ships    fleet.ShipService
	schedule appsurvey.ScheduleService
	recalc   appsurvey.RecalculationService
}

// NewShipHandler builds the handler.
func NewShipHandler(ships fleet.ShipService, schedule appsurvey.ScheduleService, recalc appsurvey.RecalculationService) *ShipHandler {
	return &ShipHandler{ships: ships, schedule: schedule, recalc: recalc}
}

// Create handles POST /api/v1/ships.
func (h *ShipHandler) Create(c *gin.Context) {
	var req fleet.CreateShipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid request body: %v", err))
		return
	}
	shp, err := h.ships.CreateShip(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, shp)
}

// Get handles GET /api/v1/ships/:id.
func (h *ShipHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	shp, err := h.ships.GetShip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, shp)
}

// List handles GET /api/v1/ships.
func (h *ShipHandler) List(c *gin.Context) {
	var opts []ship.ListOption
	if society := c.Query("class_society"); society != "" {
		opts = append(opts, ship.WithClassSociety(society))
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			opts = append(opts, ship.WithLimit(limit))
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			opts = append(opts, ship.WithOffset(offset))
		}
	}
	result, err := h.ships.ListShips(c.Request.Context(), opts...)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Schedule handles GET /api/v1/ships/:id/schedule.
func (h *ShipHandler) Schedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.schedule.GetSchedule(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

// Recalculate handles POST /api/v1/ships/:id/recalculate.
func (h *ShipHandler) Recalculate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.recalc.RecalculateShip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, report)
}
