package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/communitysafe/incident-map/internal/config"
	"github.com/communitysafe/incident-map/internal/geo"
	"github.com/communitysafe/incident-map/internal/geo/cluster"
	"github.com/communitysafe/incident-map/internal/models"
	"github.com/communitysafe/incident-map/internal/webhook"
)

// DuplicateMessage is shown to a reporter whose submission was suppressed.
// It is an actionable notice, not an error.
const DuplicateMessage = "A recent report already exists near this location. " +
	"Try again later or report from a different location."

// IncidentRepository defines the contract for the incident store.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ListForMap(ctx context.Context) ([]*models.Incident, error)
	FindRecentActive(ctx context.Context, since time.Time) ([]*models.Incident, error)
	CountByStatus(ctx context.Context, minutes int) (map[string]int, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// IncidentService defines the contract for the incident business logic.
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) (*models.LocationValidation, error)
	ValidateLocation(ctx context.Context, lat, lon float64) *models.LocationValidation
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateIncidentStatus(ctx context.Context, id uuid.UUID, status string) error
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	MapClusters(ctx context.Context, bounds *cluster.Bounds, zoom int) ([]cluster.Node, error)
	GetStats(ctx context.Context) (map[string]int, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	cfg       *config.Config
	publisher webhook.AlertPublisher
	clusterer cluster.Clusterer
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config, publisher webhook.AlertPublisher, clusterer cluster.Clusterer) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
		clusterer: clusterer,
	}
}

// ValidateLocation checks whether a recent active incident already exists near
// the proposed coordinates. The store query runs under a bounded timeout, and
// any store failure (including timeout) fails OPEN: an outage must never block
// incident reporting. Errors are logged, never returned.
func (s *incidentService) ValidateLocation(ctx context.Context, lat, lon float64) *models.LocationValidation {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ValidateLocation",
	})

	threshold := time.Now().Add(-time.Duration(s.cfg.DuplicateWindowMinutes) * time.Minute)

	qctx, cancel := context.WithTimeout(ctx, s.cfg.StoreQueryTimeout)
	defer cancel()

	recent, err := s.repo.FindRecentActive(qctx, threshold)
	if err != nil {
		log.WithError(err).Error("Recent incident query failed, allowing report (fail open)")
		return &models.LocationValidation{IsValid: true}
	}

	nearby := 0
	for _, inc := range recent {
		// Re-check the window in memory so a stale row can never widen it.
		if inc.CreatedAt.Before(threshold) {
			continue
		}
		// NaN distances compare false here and are simply not counted.
		if geo.DistanceKm(lat, lon, inc.Latitude, inc.Longitude) <= s.cfg.DuplicateRadiusKm {
			nearby++
		}
	}

	if nearby >= s.cfg.MaxIncidentsInArea {
		log.WithField("nearby_incidents", nearby).Info("Duplicate report suppressed")
		return &models.LocationValidation{
			IsValid:         false,
			Message:         DuplicateMessage,
			NearbyIncidents: nearby,
		}
	}

	return &models.LocationValidation{IsValid: true, NearbyIncidents: nearby}
}

// CreateIncident runs the duplicate guard and, if it passes, persists the
// incident. The check-then-insert sequence is best effort: two simultaneous
// submissions in the same area can both pass before either commits. This is an
// accepted approximation, not a guarantee.
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) (*models.LocationValidation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"type":    incident.Type,
	})
	log.Info("Attempting to create a new incident")

	check := s.ValidateLocation(ctx, incident.Latitude, incident.Longitude)
	if !check.IsValid {
		return check, nil
	}

	incident.Status = models.StatusActive
	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, incident.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	if err := s.publisher.Publish(ctx, webhook.IncidentEvent{
		Incident:  incident,
		Timestamp: time.Now(),
	}); err != nil {
		// Alert delivery is best effort and must not fail the submission.
		log.WithError(err).Warn("Failed to publish incident alert")
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return check, nil
}

// GetIncident fetches an incident, consulting the cache first.
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Incident cache lookup failed")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// UpdateIncidentStatus transitions an incident to a new status. Incidents are
// never deleted.
func (s *incidentService) UpdateIncidentStatus(ctx context.Context, id uuid.UUID, status string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncidentStatus",
		"incident_id": id,
		"status":      status,
	})

	if !models.ValidStatus(status) {
		return fmt.Errorf("service: unknown incident status %q", status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return fmt.Errorf("service: could not update incident status: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Incident status updated successfully")
	return nil
}

// ListIncidents returns a paginated incident list.
func (s *incidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      page,
		"page_size": pageSize,
	})

	incidents, err := s.repo.ListIncidents(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// MapClusters aggregates the visible incidents into map markers for the given
// viewport snapshot. A nil viewport renders nothing.
func (s *incidentService) MapClusters(ctx context.Context, bounds *cluster.Bounds, zoom int) ([]cluster.Node, error) {
	if bounds == nil {
		return nil, nil
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "MapClusters",
		"zoom":    zoom,
	})

	incidents, err := s.repo.ListForMap(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load incidents for map")
		return nil, fmt.Errorf("service: could not load map incidents: %w", err)
	}

	points := make([]cluster.Point, len(incidents))
	for i, inc := range incidents {
		points[i] = cluster.Point{
			ID:        inc.ID,
			Latitude:  inc.Latitude,
			Longitude: inc.Longitude,
			Category:  cluster.CategoryIncidents,
			Status:    inc.Status,
			Address:   inc.Address,
			CreatedAt: inc.CreatedAt,
		}
	}

	nodes := s.clusterer.Cluster(points, bounds, zoom)
	log.WithFields(logrus.Fields{"points": len(points), "nodes": len(nodes)}).Debug("Map snapshot clustered")
	return nodes, nil
}

// GetStats returns incident counts by status within the configured window.
func (s *incidentService) GetStats(ctx context.Context) (map[string]int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetStats",
	})

	counts, err := s.repo.CountByStatus(ctx, s.cfg.StatsTimeWindowMinutes)
	if err != nil {
		log.WithError(err).Error("Failed to get incident stats from repository")
		return nil, fmt.Errorf("service: could not get stats: %w", err)
	}
	return counts, nil
}
