package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skyharbor/fleetops-api/internal/service"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
	"github.com/skyharbor/fleetops-api/pkg/response"
)

// AdminHandler serves fleet and catalog administration plus user
// provisioning.
type AdminHandler struct {
	fleet      *service.FleetService
	catalog    *service.CatalogService
	accounts   *service.AccountService
	dashboards *service.DashboardService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(
	fleet *service.FleetService,
	catalog *service.CatalogService,
	accounts *service.AccountService,
	dashboards *service.DashboardService,
) *AdminHandler {
	return &AdminHandler{
		fleet:      fleet,
		catalog:    catalog,
		accounts:   accounts,
		dashboards: dashboards,
	}
}

func routeIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid route id")
	}
	return id, nil
}

// ListAircraft godoc
// @Summary List aircraft
// @Tags Admin
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /admin/aircraft [get]
func (h *AdminHandler) ListAircraft(c *gin.Context) {
	fleet, err := h.fleet.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fleet, nil)
}

// GetAircraft godoc
// @Summary Get an aircraft
// @Tags Admin
// @Produce json
// @Param registration path string true "Aircraft registration"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/aircraft/{registration} [get]
func (h *AdminHandler) GetAircraft(c *gin.Context) {
	aircraft, err := h.fleet.Get(c.Request.Context(), c.Param("registration"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aircraft, nil)
}

// CreateAircraft godoc
// @Summary Register an aircraft
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateAircraftRequest true "Aircraft payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/aircraft [post]
func (h *AdminHandler) CreateAircraft(c *gin.Context) {
	var req service.CreateAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid aircraft payload"))
		return
	}
	aircraft, err := h.fleet.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.Created(c, aircraft)
}

// UpdateAircraft godoc
// @Summary Update an aircraft
// @Tags Admin
// @Accept json
// @Produce json
// @Param registration path string true "Aircraft registration"
// @Param payload body service.UpdateAircraftRequest true "Aircraft payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/aircraft/{registration} [put]
func (h *AdminHandler) UpdateAircraft(c *gin.Context) {
	var req service.UpdateAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid aircraft payload"))
		return
	}
	aircraft, err := h.fleet.Update(c.Request.Context(), c.Param("registration"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.JSON(c, http.StatusOK, aircraft, nil)
}

// RetireAircraft godoc
// @Summary Retire an aircraft
// @Description Retire an aircraft with no future flights and no open job
// @Tags Admin
// @Produce json
// @Param registration path string true "Aircraft registration"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/aircraft/{registration}/retire [post]
func (h *AdminHandler) RetireAircraft(c *gin.Context) {
	aircraft, err := h.fleet.Retire(c.Request.Context(), c.Param("registration"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.JSON(c, http.StatusOK, aircraft, nil)
}

// DeleteAircraft godoc
// @Summary Delete an aircraft
// @Tags Admin
// @Produce json
// @Param registration path string true "Aircraft registration"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/aircraft/{registration} [delete]
func (h *AdminHandler) DeleteAircraft(c *gin.Context) {
	if err := h.fleet.Delete(c.Request.Context(), c.Param("registration")); err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.NoContent(c)
}

// ListAirports godoc
// @Summary List airports
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/airports [get]
func (h *AdminHandler) ListAirports(c *gin.Context) {
	airports, err := h.catalog.ListAirports(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, airports, nil)
}

// GetAirport godoc
// @Summary Get an airport
// @Tags Admin
// @Produce json
// @Param code path string true "Airport code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/airports/{code} [get]
func (h *AdminHandler) GetAirport(c *gin.Context) {
	airport, err := h.catalog.GetAirport(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, airport, nil)
}

// ListRoutes godoc
// @Summary List routes
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/routes [get]
func (h *AdminHandler) ListRoutes(c *gin.Context) {
	routes, err := h.catalog.ListRoutes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, routes, nil)
}

// GetRoute godoc
// @Summary Get a route
// @Tags Admin
// @Produce json
// @Param id path int true "Route ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/routes/{id} [get]
func (h *AdminHandler) GetRoute(c *gin.Context) {
	id, err := routeIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	route, err := h.catalog.GetRoute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, route, nil)
}

// CreateRoute godoc
// @Summary Create a route
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateRouteRequest true "Route payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/routes [post]
func (h *AdminHandler) CreateRoute(c *gin.Context) {
	var req service.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid route payload"))
		return
	}
	route, err := h.catalog.CreateRoute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, route)
}

// UpdateRoute godoc
// @Summary Update a route
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Route ID"
// @Param payload body service.UpdateRouteRequest true "Route payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/routes/{id} [put]
func (h *AdminHandler) UpdateRoute(c *gin.Context) {
	id, err := routeIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid route payload"))
		return
	}
	route, err := h.catalog.UpdateRoute(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, route, nil)
}

// DeleteRoute godoc
// @Summary Delete a route
// @Tags Admin
// @Produce json
// @Param id path int true "Route ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/routes/{id} [delete]
func (h *AdminHandler) DeleteRoute(c *gin.Context) {
	id, err := routeIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.catalog.DeleteRoute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateUser godoc
// @Summary Provision a user account
// @Description Create an account in the table matching its role
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateAccountRequest true "Account payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req service.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid account payload"))
		return
	}
	account, err := h.accounts.CreateAccount(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// SetCrewRole godoc
// @Summary Set a crew member's pilot flag
// @Tags Admin
// @Accept json
// @Produce json
// @Param email path string true "Crew email"
// @Param payload body service.SetCrewRoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/crew/{email}/role [patch]
func (h *AdminHandler) SetCrewRole(c *gin.Context) {
	var req service.SetCrewRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid role payload"))
		return
	}
	member, err := h.accounts.SetCrewRole(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Dashboard godoc
// @Summary Admin dashboard
// @Description Entity counts and the most scheduled route
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboards.AdminDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
