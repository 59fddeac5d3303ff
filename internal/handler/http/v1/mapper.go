package v1

import (
	"github.com/communitysafe/incident-map/internal/geo/cluster"
	"github.com/communitysafe/incident-map/internal/models"
)

// RequestToIncidentModel converts a submission DTO into the domain model.
func RequestToIncidentModel(req CreateIncidentRequest) *models.Incident {
	return &models.Incident{
		Type:        req.Type,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
	}
}

// ModelToIncidentResponse converts the domain model into the response DTO.
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:          model.ID,
		Type:        model.Type,
		Description: model.Description,
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		Address:     model.Address,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// ModelsToIncidentResponses converts a slice of models into response DTOs.
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ValidationToResponse converts a guard verdict into the response DTO.
func ValidationToResponse(v *models.LocationValidation) LocationValidationResponse {
	return LocationValidationResponse{
		Valid:           v.IsValid,
		Message:         v.Message,
		NearbyIncidents: v.NearbyIncidents,
	}
}

// NodesToClusterResponses converts clusterer output into response DTOs.
func NodesToClusterResponses(nodes []cluster.Node) []ClusterNodeResponse {
	responses := make([]ClusterNodeResponse, len(nodes))
	for i, n := range nodes {
		resp := ClusterNodeResponse{
			IsCluster:     n.IsCluster,
			ClusterID:     n.ClusterID,
			PointCount:    n.PointCount,
			Longitude:     n.Longitude,
			Latitude:      n.Latitude,
			ExpansionZoom: n.ExpansionZoom,
			Color:         n.Color,
		}
		if n.Point != nil {
			resp.Marker = &MarkerResponse{
				ID:        n.Point.ID,
				Type:      n.Point.Category,
				Status:    n.Point.Status,
				Address:   n.Point.Address,
				CreatedAt: n.Point.CreatedAt,
			}
		}
		responses[i] = resp
	}
	return responses
}
