package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyharbor/fleetops-api/internal/service"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
	"github.com/skyharbor/fleetops-api/pkg/response"
)

// SchedulerHandler serves the scheduler's timetable, roster, and export
// endpoints. Flight instances are addressed by number plus a date query
// parameter.
type SchedulerHandler struct {
	timetable  *service.TimetableService
	roster     *service.RosterService
	fleet      *service.FleetService
	catalog    *service.CatalogService
	accounts   *service.AccountService
	dashboards *service.DashboardService
	exports    *service.ExportService
}

// NewSchedulerHandler creates a new handler.
func NewSchedulerHandler(
	timetable *service.TimetableService,
	roster *service.RosterService,
	fleet *service.FleetService,
	catalog *service.CatalogService,
	accounts *service.AccountService,
	dashboards *service.DashboardService,
	exports *service.ExportService,
) *SchedulerHandler {
	return &SchedulerHandler{
		timetable:  timetable,
		roster:     roster,
		fleet:      fleet,
		catalog:    catalog,
		accounts:   accounts,
		dashboards: dashboards,
		exports:    exports,
	}
}

func dateQuery(c *gin.Context) (string, error) {
	date := c.Query("date")
	if date == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "date query parameter is required")
	}
	return date, nil
}

// ListFlights godoc
// @Summary List flights
// @Description List the timetable, optionally filtered to one day
// @Tags Scheduler
// @Produce json
// @Param date query string false "Filter date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /scheduler/flights [get]
func (h *SchedulerHandler) ListFlights(c *gin.Context) {
	var date *string
	if value := c.Query("date"); value != "" {
		date = &value
	}
	flights, err := h.timetable.List(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, flights, nil)
}

// CreateFlight godoc
// @Summary Schedule a flight
// @Description Create a new flight instance after conflict validation
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body service.CreateFlightRequest true "Flight payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scheduler/flights [post]
func (h *SchedulerHandler) CreateFlight(c *gin.Context) {
	var req service.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid flight payload"))
		return
	}
	flight, err := h.timetable.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.Created(c, flight)
}

// GetFlight godoc
// @Summary Get a flight
// @Description Load one flight instance with its roster
// @Tags Scheduler
// @Produce json
// @Param number path string true "Flight number"
// @Param date query string true "Flight date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scheduler/flights/{number} [get]
func (h *SchedulerHandler) GetFlight(c *gin.Context) {
	date, err := dateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	flight, crew, err := h.timetable.Get(c.Request.Context(), c.Param("number"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"flight": flight, "crew": crew}, nil)
}

// UpdateFlight godoc
// @Summary Update a flight
// @Description Rewrite one flight instance, possibly changing its key
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param number path string true "Flight number"
// @Param date query string true "Flight date (YYYY-MM-DD)"
// @Param payload body service.UpdateFlightRequest true "Flight payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scheduler/flights/{number} [put]
func (h *SchedulerHandler) UpdateFlight(c *gin.Context) {
	date, err := dateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid flight payload"))
		return
	}
	flight, err := h.timetable.Update(c.Request.Context(), c.Param("number"), date, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.JSON(c, http.StatusOK, flight, nil)
}

// DeleteFlight godoc
// @Summary Delete a flight
// @Description Remove one flight instance and its roster
// @Tags Scheduler
// @Produce json
// @Param number path string true "Flight number"
// @Param date query string true "Flight date (YYYY-MM-DD)"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scheduler/flights/{number} [delete]
func (h *SchedulerHandler) DeleteFlight(c *gin.Context) {
	date, err := dateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.timetable.Delete(c.Request.Context(), c.Param("number"), date); err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.NoContent(c)
}

// AssignCrew godoc
// @Summary Assign flight crew
// @Description Replace the flight's roster wholesale
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param number path string true "Flight number"
// @Param date query string true "Flight date (YYYY-MM-DD)"
// @Param payload body service.AssignCrewRequest true "Crew emails"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scheduler/flights/{number}/crew [post]
func (h *SchedulerHandler) AssignCrew(c *gin.Context) {
	date, err := dateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.AssignCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster payload"))
		return
	}
	roster, err := h.roster.AssignCrew(c.Request.Context(), c.Param("number"), date, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// FlightCrew godoc
// @Summary List flight crew
// @Description List the flight's assigned crew ordered by name
// @Tags Scheduler
// @Produce json
// @Param number path string true "Flight number"
// @Param date query string true "Flight date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /scheduler/flights/{number}/crew [get]
func (h *SchedulerHandler) FlightCrew(c *gin.Context) {
	date, err := dateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	crew, err := h.roster.ListCrew(c.Request.Context(), c.Param("number"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, crew, nil)
}

// ListRoutes godoc
// @Summary List routes
// @Tags Scheduler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scheduler/routes [get]
func (h *SchedulerHandler) ListRoutes(c *gin.Context) {
	routes, err := h.catalog.ListRoutes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, routes, nil)
}

// ListAircraft godoc
// @Summary List aircraft
// @Tags Scheduler
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /scheduler/aircraft [get]
func (h *SchedulerHandler) ListAircraft(c *gin.Context) {
	fleet, err := h.fleet.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fleet, nil)
}

// AircraftFlights godoc
// @Summary List an aircraft's flights
// @Tags Scheduler
// @Produce json
// @Param registration path string true "Aircraft registration"
// @Success 200 {object} response.Envelope
// @Router /scheduler/aircraft/{registration}/flights [get]
func (h *SchedulerHandler) AircraftFlights(c *gin.Context) {
	flights, err := h.timetable.ListByAircraft(c.Request.Context(), c.Param("registration"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, flights, nil)
}

// ListCrew godoc
// @Summary List crew members
// @Tags Scheduler
// @Produce json
// @Param is_pilot query bool false "Pilot filter"
// @Success 200 {object} response.Envelope
// @Router /scheduler/crew [get]
func (h *SchedulerHandler) ListCrew(c *gin.Context) {
	var isPilot *bool
	switch c.Query("is_pilot") {
	case "true":
		value := true
		isPilot = &value
	case "false":
		value := false
		isPilot = &value
	}
	crew, err := h.accounts.ListCrew(c.Request.Context(), isPilot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, crew, nil)
}

// Dashboard godoc
// @Summary Scheduler dashboard
// @Tags Scheduler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scheduler/dashboard [get]
func (h *SchedulerHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboards.SchedulerDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// ExportTimetable godoc
// @Summary Export the timetable as CSV
// @Tags Scheduler
// @Produce text/csv
// @Param date query string false "Filter date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /scheduler/flights/export [get]
func (h *SchedulerHandler) ExportTimetable(c *gin.Context) {
	var date *string
	if value := c.Query("date"); value != "" {
		date = &value
	}
	result, err := h.exports.TimetableCSV(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Blob(c, result.ContentType, result.Filename, result.Payload)
}

// ExportManifest godoc
// @Summary Export a flight manifest as CSV
// @Tags Scheduler
// @Produce text/csv
// @Param number path string true "Flight number"
// @Param date query string true "Flight date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /scheduler/flights/{number}/manifest [get]
func (h *SchedulerHandler) ExportManifest(c *gin.Context) {
	date, err := dateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.FlightManifestCSV(c.Request.Context(), c.Param("number"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Blob(c, result.ContentType, result.Filename, result.Payload)
}
