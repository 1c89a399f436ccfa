package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyharbor/fleetops-api/internal/service"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
	"github.com/skyharbor/fleetops-api/pkg/response"
)

// CrewHandler serves a crew member's own schedule. Every endpoint is scoped
// to the email carried in the JWT claims.
type CrewHandler struct {
	roster *service.RosterService
}

// NewCrewHandler creates a new handler.
func NewCrewHandler(roster *service.RosterService) *CrewHandler {
	return &CrewHandler{roster: roster}
}

// Dashboard godoc
// @Summary Crew dashboard
// @Description Weekly duty hours and the next scheduled departure
// @Tags Crew
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /crew/dashboard [get]
func (h *CrewHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	dashboard, err := h.roster.Dashboard(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// MyFlights godoc
// @Summary List my flights
// @Description List the caller's assigned flights, optionally upcoming only
// @Tags Crew
// @Produce json
// @Param upcoming query bool false "Only flights departing from now on"
// @Success 200 {object} response.Envelope
// @Router /crew/my-flights [get]
func (h *CrewHandler) MyFlights(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	upcoming := c.Query("upcoming") == "true"
	flights, err := h.roster.MyFlights(c.Request.Context(), claims.Email, upcoming)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, flights, nil)
}

// MyFlightDetail godoc
// @Summary My flight detail
// @Description Latest instance of one of the caller's flights, with full crew
// @Tags Crew
// @Produce json
// @Param number path string true "Flight number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /crew/my-flights/{number} [get]
func (h *CrewHandler) MyFlightDetail(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	detail, err := h.roster.MyFlightDetail(c.Request.Context(), claims.Email, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// MyAircrafts godoc
// @Summary List my aircraft
// @Description Distinct aircraft the caller is rostered to fly
// @Tags Crew
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /crew/my-aircraft [get]
func (h *CrewHandler) MyAircrafts(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	fleet, err := h.roster.MyAircrafts(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fleet, nil)
}
