package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateIncidentRequest is the payload for submitting a new incident report.
// @Description Incident submission request
type CreateIncidentRequest struct {
	Type        string  `json:"type" validate:"required,min=2,max=100"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	Address     string  `json:"address,omitempty"`
}

// ValidateLocationRequest asks the duplicate guard about a proposed location.
// @Description Duplicate guard check request
type ValidateLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// UpdateStatusRequest transitions an incident to a new status.
// @Description Incident status update request
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active investigating resolved closed"`
}

// IncidentResponse is the public representation of an incident.
// @Description Incident response
type IncidentResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationValidationResponse is the duplicate guard verdict. A rejected
// location is an actionable notice, not an error.
// @Description Duplicate guard verdict
type LocationValidationResponse struct {
	Valid           bool   `json:"valid"`
	Message         string `json:"message,omitempty"`
	NearbyIncidents int    `json:"nearby_incidents,omitempty"`
}

// CreateIncidentResponse wraps a created incident with its guard verdict.
// @Description Incident creation response
type CreateIncidentResponse struct {
	Incident   *IncidentResponse          `json:"incident"`
	Validation LocationValidationResponse `json:"validation"`
}

// MarkerResponse is the leaf payload of an expanded cluster node.
// @Description Individual map marker
type MarkerResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ClusterNodeResponse is one rendered map marker: an aggregated cluster or a
// single leaf point.
// @Description Map cluster node
type ClusterNodeResponse struct {
	IsCluster     bool            `json:"is_cluster"`
	ClusterID     uint32          `json:"cluster_id,omitempty"`
	PointCount    int             `json:"point_count"`
	Longitude     float64         `json:"longitude"`
	Latitude      float64         `json:"latitude"`
	ExpansionZoom int             `json:"expansion_zoom,omitempty"`
	Marker        *MarkerResponse `json:"marker,omitempty"`
	Color         string          `json:"color,omitempty"`
}

// MapConfigResponse tells the client how to initialize its map view: the
// fallback center when geolocation is unavailable, and the clustering limits.
// @Description Client map configuration
type MapConfigResponse struct {
	DefaultLatitude  float64 `json:"default_latitude"`
	DefaultLongitude float64 `json:"default_longitude"`
	MaxZoom          int     `json:"max_zoom"`
	ClusterRadiusPx  float64 `json:"cluster_radius_px"`
}

// StatsResponse reports incident counts by status within the stats window.
// @Description Incident statistics response
type StatsResponse struct {
	Counts        map[string]int `json:"counts"`
	WindowMinutes int            `json:"window_minutes"`
}
