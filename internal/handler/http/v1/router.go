package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all API v1 routes.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Public reporting and browsing routes
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.POST("/validate", h.validateLocation)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
	}

	// Map viewport snapshots and client map configuration
	api.GET("/map/clusters", h.getMapClusters)
	api.GET("/map/config", h.getMapConfig)

	// Administrative routes behind the API key
	admin := api.Group("", APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		admin.PATCH("/incidents/:id/status", h.updateIncidentStatus)
		admin.GET("/incidents/stats", h.getStats)
	}

	// Health-check route
	api.GET("/system/health", h.healthCheck)
}
