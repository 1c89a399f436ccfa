package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skyharbor/fleetops-api/internal/service"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
	"github.com/skyharbor/fleetops-api/pkg/response"
)

// EngineerHandler serves the maintenance workflow: jobs, parts, the fleet
// view, and the maintenance-log PDF download.
type EngineerHandler struct {
	maintenance *service.MaintenanceService
	fleet       *service.FleetService
	dashboards  *service.DashboardService
	exports     *service.ExportService
}

// NewEngineerHandler creates a new handler.
func NewEngineerHandler(
	maintenance *service.MaintenanceService,
	fleet *service.FleetService,
	dashboards *service.DashboardService,
	exports *service.ExportService,
) *EngineerHandler {
	return &EngineerHandler{
		maintenance: maintenance,
		fleet:       fleet,
		dashboards:  dashboards,
		exports:     exports,
	}
}

func jobIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid job id")
	}
	return id, nil
}

// Dashboard godoc
// @Summary Engineer dashboard
// @Description Open job count, monthly completions, and aircraft in shop
// @Tags Engineer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /engineer/dashboard [get]
func (h *EngineerHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	dashboard, err := h.maintenance.Dashboard(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// MyJobs godoc
// @Summary List my jobs
// @Description Jobs the caller is assigned to, newest first
// @Tags Engineer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /engineer/jobs [get]
func (h *EngineerHandler) MyJobs(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	jobs, err := h.maintenance.MyJobs(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, jobs, nil)
}

// JobDetail godoc
// @Summary Job detail
// @Description One job with its aircraft and assigned engineers
// @Tags Engineer
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /engineer/jobs/{id} [get]
func (h *EngineerHandler) JobDetail(c *gin.Context) {
	id, err := jobIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.maintenance.JobDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// OpenJob godoc
// @Summary Open a maintenance job
// @Description Open a job, ground the aircraft, and make the caller its leader
// @Tags Engineer
// @Accept json
// @Produce json
// @Param payload body service.OpenJobRequest true "Job payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /engineer/jobs [post]
func (h *EngineerHandler) OpenJob(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	var req service.OpenJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid job payload"))
		return
	}
	job, err := h.maintenance.OpenJob(c.Request.Context(), claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.Created(c, job)
}

// AddEngineers godoc
// @Summary Assign engineers to a job
// @Description Add engineers to an open job, at most one leader per job
// @Tags Engineer
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param payload body service.AddEngineersRequest true "Engineer assignments"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /engineer/jobs/{id}/engineers [post]
func (h *EngineerHandler) AddEngineers(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	id, err := jobIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.AddEngineersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid engineers payload"))
		return
	}
	engineers, err := h.maintenance.AddEngineers(c.Request.Context(), id, claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, engineers, nil)
}

// CloseJob godoc
// @Summary Close a job
// @Description Complete the job and release the aircraft back to active
// @Tags Engineer
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param payload body service.CloseJobRequest true "Closing remarks"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /engineer/jobs/{id}/close [post]
func (h *EngineerHandler) CloseJob(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	id, err := jobIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.CloseJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid close payload"))
		return
	}
	job, err := h.maintenance.CloseJob(c.Request.Context(), id, claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.JSON(c, http.StatusOK, job, nil)
}

// CancelJob godoc
// @Summary Cancel a job
// @Description Abandon the job; the aircraft returns to active unless retired
// @Tags Engineer
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /engineer/jobs/{id}/cancel [post]
func (h *EngineerHandler) CancelJob(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	id, err := jobIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	job, err := h.maintenance.CancelJob(c.Request.Context(), id, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboards.InvalidateDashboards(c.Request.Context())
	response.JSON(c, http.StatusOK, job, nil)
}

// ListAircraft godoc
// @Summary List aircraft
// @Tags Engineer
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /engineer/aircraft [get]
func (h *EngineerHandler) ListAircraft(c *gin.Context) {
	fleet, err := h.fleet.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fleet, nil)
}

// AircraftDetail godoc
// @Summary Aircraft detail
// @Description One aircraft with its parts and maintenance history
// @Tags Engineer
// @Produce json
// @Param registration path string true "Aircraft registration"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /engineer/aircraft/{registration} [get]
func (h *EngineerHandler) AircraftDetail(c *gin.Context) {
	detail, err := h.maintenance.AircraftDetail(c.Request.Context(), c.Param("registration"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// AddPart godoc
// @Summary Register an aircraft part
// @Tags Engineer
// @Accept json
// @Produce json
// @Param registration path string true "Aircraft registration"
// @Param payload body service.AddPartRequest true "Part payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /engineer/aircraft/{registration}/parts [post]
func (h *EngineerHandler) AddPart(c *gin.Context) {
	var req service.AddPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid part payload"))
		return
	}
	part, err := h.maintenance.AddPart(c.Request.Context(), c.Param("registration"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, part)
}

// ListEngineers godoc
// @Summary List engineers
// @Tags Engineer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /engineer/engineers [get]
func (h *EngineerHandler) ListEngineers(c *gin.Context) {
	engineers, err := h.maintenance.ListEngineers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, engineers, nil)
}

// MaintenanceLog godoc
// @Summary Download the maintenance log as PDF
// @Tags Engineer
// @Produce application/pdf
// @Param registration path string true "Aircraft registration"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /engineer/aircraft/{registration}/maintenance-log [get]
func (h *EngineerHandler) MaintenanceLog(c *gin.Context) {
	result, err := h.exports.MaintenanceLogPDF(c.Request.Context(), c.Param("registration"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Blob(c, result.ContentType, result.Filename, result.Payload)
}
