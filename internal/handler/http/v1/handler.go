package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/communitysafe/incident-map/internal/config"
	"github.com/communitysafe/incident-map/internal/geo/cluster"
	"github.com/communitysafe/incident-map/internal/service"
)

type Handler struct {
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Submit a new incident report
// @Description Submit a new incident report. The duplicate guard rejects the submission with 409 when a recent active incident already exists nearby; the 409 body is an actionable notice, not an error.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body CreateIncidentRequest true "Incident submission request"
// @Success 201 {object} CreateIncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} LocationValidationResponse "Nearby recent report already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := RequestToIncidentModel(input)
	check, err := h.incidentService.CreateIncident(c.Request.Context(), model)
	if err != nil {
		log.WithError(err).Error("Failed to create incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if !check.IsValid {
		c.JSON(http.StatusConflict, ValidationToResponse(check))
		return
	}

	c.JSON(http.StatusCreated, CreateIncidentResponse{
		Incident:   ModelToIncidentResponse(model),
		Validation: ValidationToResponse(check),
	})
}

// @Summary Check a location against the duplicate guard
// @Description Check whether a new report at the given coordinates would be suppressed as a duplicate. Always returns 200; a store outage fails open.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param location body ValidateLocationRequest true "Location check request"
// @Success 200 {object} LocationValidationResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Router /incidents/validate [post]
func (h *Handler) validateLocation(c *gin.Context) {
	var input ValidateLocationRequest
	log := h.logger.WithField("method", "validateLocation")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	check := h.incidentService.ValidateLocation(c.Request.Context(), input.Latitude, input.Longitude)
	c.JSON(http.StatusOK, ValidationToResponse(check))
}

// @Summary Get a list of incidents
// @Description Get a paginated list of all incidents, newest first.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update incident status
// @Description Transition an incident to a new status. Incidents are never deleted. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param status body UpdateStatusRequest true "Status update request"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/status [patch]
func (h *Handler) updateIncidentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "updateIncidentStatus").WithField("id", id)

	var input UpdateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.incidentService.UpdateIncidentStatus(c.Request.Context(), id, input.Status); err != nil {
		log.WithError(err).Error("Failed to update incident status in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update incident status"})
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Get map clusters for a viewport
// @Description Aggregate visible incidents into map markers for the given viewport bounds and zoom. Missing bounds mean the map is not initialized yet and produce an empty list, not an error.
// @Tags Map
// @Accept json
// @Produce json
// @Param west query number false "Viewport west longitude"
// @Param south query number false "Viewport south latitude"
// @Param east query number false "Viewport east longitude"
// @Param north query number false "Viewport north latitude"
// @Param zoom query int false "Map zoom level" default(3)
// @Success 200 {array} ClusterNodeResponse
// @Failure 400 {object} map[string]string "Malformed bounds or zoom"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /map/clusters [get]
func (h *Handler) getMapClusters(c *gin.Context) {
	log := h.logger.WithField("method", "getMapClusters")

	bounds, err := parseBounds(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if bounds == nil {
		// Viewport not initialized yet: render nothing.
		c.JSON(http.StatusOK, []ClusterNodeResponse{})
		return
	}

	zoom, err := strconv.Atoi(c.DefaultQuery("zoom", "3"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zoom"})
		return
	}

	nodes, err := h.incidentService.MapClusters(c.Request.Context(), bounds, zoom)
	if err != nil {
		log.WithError(err).Error("Failed to cluster map incidents in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, NodesToClusterResponses(nodes))
}

// parseBounds reads the four viewport query parameters. All absent means the
// viewport is unknown (nil bounds, no error); a partial or malformed set is a
// client error.
func parseBounds(c *gin.Context) (*cluster.Bounds, error) {
	west, south := c.Query("west"), c.Query("south")
	east, north := c.Query("east"), c.Query("north")

	if west == "" && south == "" && east == "" && north == "" {
		return nil, nil
	}
	if west == "" || south == "" || east == "" || north == "" {
		return nil, errInvalidBounds
	}

	values := make([]float64, 4)
	for i, raw := range []string{west, south, east, north} {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errInvalidBounds
		}
		values[i] = v
	}

	return &cluster.Bounds{
		West:  values[0],
		South: values[1],
		East:  values[2],
		North: values[3],
	}, nil
}

var errInvalidBounds = &boundsError{}

type boundsError struct{}

func (e *boundsError) Error() string {
	return "bounds require all of west, south, east, north as numbers"
}

// @Summary Get client map configuration
// @Description Get the map initialization parameters: fallback center coordinates when client geolocation is unavailable, and the clustering limits.
// @Tags Map
// @Accept json
// @Produce json
// @Success 200 {object} MapConfigResponse
// @Router /map/config [get]
func (h *Handler) getMapConfig(c *gin.Context) {
	c.JSON(http.StatusOK, MapConfigResponse{
		DefaultLatitude:  h.cfg.DefaultCenterLat,
		DefaultLongitude: h.cfg.DefaultCenterLng,
		MaxZoom:          h.cfg.ClusterMaxZoom,
		ClusterRadiusPx:  h.cfg.ClusterRadiusPx,
	})
}

// @Summary Get incident statistics
// @Description Get incident counts by status within the configured window. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	counts, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Counts:        counts,
		WindowMinutes: h.cfg.StatsTimeWindowMinutes,
	})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
