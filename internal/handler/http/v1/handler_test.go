package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/communitysafe/incident-map/internal/config"
	"github.com/communitysafe/incident-map/internal/geo/cluster"
	"github.com/communitysafe/incident-map/internal/models"
	"github.com/communitysafe/incident-map/internal/service"
	"github.com/communitysafe/incident-map/internal/service/mocks"
)

const testAPIKey = "test-api-key"

func setupTestRouter(t *testing.T) (*gin.Engine, *mocks.MockIncidentService) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	serviceMock := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys:                []string{testAPIKey},
		StatsTimeWindowMinutes: 60,
		DefaultCenterLat:       37.7749,
		DefaultCenterLng:       -122.4194,
		ClusterRadiusPx:        75,
		ClusterMaxZoom:         20,
	}

	handler := NewHandler(serviceMock, logger, cfg)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, serviceMock
}

func performRequest(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateIncident_Created(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	serviceMock.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, inc *models.Incident) (*models.LocationValidation, error) {
			inc.ID = uuid.New()
			inc.Status = models.StatusActive
			inc.CreatedAt = time.Now()
			return &models.LocationValidation{IsValid: true}, nil
		}).Times(1)

	w := performRequest(router, http.MethodPost, "/api/v1/incidents", CreateIncidentRequest{
		Type:      "harassment",
		Latitude:  37.7749,
		Longitude: -122.4194,
		Address:   "Market St",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateIncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Incident)
	assert.Equal(t, "harassment", resp.Incident.Type)
	assert.Equal(t, models.StatusActive, resp.Incident.Status)
	assert.True(t, resp.Validation.Valid)
}

func TestCreateIncident_DuplicateConflict(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	serviceMock.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(&models.LocationValidation{
			IsValid:         false,
			Message:         service.DuplicateMessage,
			NearbyIncidents: 1,
		}, nil).Times(1)

	w := performRequest(router, http.MethodPost, "/api/v1/incidents", CreateIncidentRequest{
		Type:      "harassment",
		Latitude:  37.7749,
		Longitude: -122.4194,
	}, nil)

	// A vetoed submission is an actionable notice, not a server failure.
	require.Equal(t, http.StatusConflict, w.Code)

	var resp LocationValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, service.DuplicateMessage, resp.Message)
	assert.Equal(t, 1, resp.NearbyIncidents)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(`{"type":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIncident_ValidationError(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	// Latitude 91 is outside the valid range
	w := performRequest(router, http.MethodPost, "/api/v1/incidents", CreateIncidentRequest{
		Type:      "harassment",
		Latitude:  91.0,
		Longitude: -122.4194,
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIncident_ServiceError(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	serviceMock.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("db down")).
		Times(1)

	w := performRequest(router, http.MethodPost, "/api/v1/incidents", CreateIncidentRequest{
		Type:      "harassment",
		Latitude:  37.7749,
		Longitude: -122.4194,
	}, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestValidateLocation_OK(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	serviceMock.EXPECT().
		ValidateLocation(gomock.Any(), 37.7749, -122.4194).
		Return(&models.LocationValidation{IsValid: true}).
		Times(1)

	w := performRequest(router, http.MethodPost, "/api/v1/incidents/validate", ValidateLocationRequest{
		Latitude:  37.7749,
		Longitude: -122.4194,
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp LocationValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
}

func TestValidateLocation_RejectedStillOK(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	serviceMock.EXPECT().
		ValidateLocation(gomock.Any(), 37.7749, -122.4194).
		Return(&models.LocationValidation{
			IsValid:         false,
			Message:         service.DuplicateMessage,
			NearbyIncidents: 2,
		}).Times(1)

	w := performRequest(router, http.MethodPost, "/api/v1/incidents/validate", ValidateLocationRequest{
		Latitude:  37.7749,
		Longitude: -122.4194,
	}, nil)

	// The check endpoint reports the verdict; it never turns it into an error.
	require.Equal(t, http.StatusOK, w.Code)

	var resp LocationValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, 2, resp.NearbyIncidents)
}

func TestListIncidents_OK(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	incidents := []*models.Incident{
		{ID: uuid.New(), Type: "harassment", Status: models.StatusActive},
		{ID: uuid.New(), Type: "vandalism", Status: models.StatusResolved},
	}
	serviceMock.EXPECT().
		ListIncidents(gomock.Any(), 2, 10).
		Return(incidents, nil).
		Times(1)

	w := performRequest(router, http.MethodGet, "/api/v1/incidents?page=2&pageSize=10", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestGetIncident_OK(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	incidentID := uuid.New()

	serviceMock.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(&models.Incident{ID: incidentID, Type: "harassment", Status: models.StatusActive}, nil).
		Times(1)

	w := performRequest(router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
}

func TestGetIncident_BadID(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0)

	w := performRequest(router, http.MethodGet, "/api/v1/incidents/not-a-uuid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIncident_NotFound(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	incidentID := uuid.New()

	serviceMock.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("not found")).
		Times(1)

	w := performRequest(router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateIncidentStatus_OK(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	incidentID := uuid.New()

	serviceMock.EXPECT().
		UpdateIncidentStatus(gomock.Any(), incidentID, models.StatusResolved).
		Return(nil).
		Times(1)

	w := performRequest(router, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/status",
		UpdateStatusRequest{Status: models.StatusResolved},
		map[string]string{"X-API-Key": testAPIKey})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateIncidentStatus_MissingAPIKey(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().UpdateIncidentStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := performRequest(router, http.MethodPatch, "/api/v1/incidents/"+uuid.NewString()+"/status",
		UpdateStatusRequest{Status: models.StatusResolved}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateIncidentStatus_BadStatus(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().UpdateIncidentStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := performRequest(router, http.MethodPatch, "/api/v1/incidents/"+uuid.NewString()+"/status",
		UpdateStatusRequest{Status: "deleted"},
		map[string]string{"X-API-Key": testAPIKey})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMapClusters_OK(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	point := &cluster.Point{
		ID:        uuid.New(),
		Latitude:  37.7749,
		Longitude: -122.4194,
		Category:  "incidents",
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
	}
	nodes := []cluster.Node{
		{IsCluster: true, ClusterID: 1, PointCount: 5, Latitude: 37.776, Longitude: -122.42, ExpansionZoom: 15},
		{PointCount: 1, Latitude: point.Latitude, Longitude: point.Longitude, Point: point, Color: cluster.ColorActive},
	}

	serviceMock.EXPECT().
		MapClusters(gomock.Any(), &cluster.Bounds{West: -122.52, South: 37.70, East: -122.35, North: 37.83}, 12).
		Return(nodes, nil).
		Times(1)

	w := performRequest(router, http.MethodGet,
		"/api/v1/map/clusters?west=-122.52&south=37.70&east=-122.35&north=37.83&zoom=12", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []ClusterNodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	assert.True(t, resp[0].IsCluster)
	assert.Equal(t, 5, resp[0].PointCount)
	assert.Equal(t, 15, resp[0].ExpansionZoom)

	assert.False(t, resp[1].IsCluster)
	require.NotNil(t, resp[1].Marker)
	assert.Equal(t, point.ID, resp[1].Marker.ID)
	assert.Equal(t, cluster.ColorActive, resp[1].Color)
}

func TestGetMapClusters_NoBoundsIsEmptyList(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().MapClusters(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := performRequest(router, http.MethodGet, "/api/v1/map/clusters", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetMapClusters_PartialBounds(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().MapClusters(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := performRequest(router, http.MethodGet, "/api/v1/map/clusters?west=-122.52&south=37.70", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMapClusters_MalformedBounds(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().MapClusters(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := performRequest(router, http.MethodGet,
		"/api/v1/map/clusters?west=abc&south=37.70&east=-122.35&north=37.83", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMapClusters_BadZoom(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().MapClusters(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := performRequest(router, http.MethodGet,
		"/api/v1/map/clusters?west=-122.52&south=37.70&east=-122.35&north=37.83&zoom=high", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMapClusters_ServiceError(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	serviceMock.EXPECT().
		MapClusters(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("db down")).
		Times(1)

	w := performRequest(router, http.MethodGet,
		"/api/v1/map/clusters?west=-122.52&south=37.70&east=-122.35&north=37.83&zoom=12", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetMapConfig_OK(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, http.MethodGet, "/api/v1/map/config", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MapConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 37.7749, resp.DefaultLatitude)
	assert.Equal(t, -122.4194, resp.DefaultLongitude)
	assert.Equal(t, 20, resp.MaxZoom)
	assert.Equal(t, 75.0, resp.ClusterRadiusPx)
}

func TestGetStats_OK(t *testing.T) {
	router, serviceMock := setupTestRouter(t)

	serviceMock.EXPECT().
		GetStats(gomock.Any()).
		Return(map[string]int{"active": 3, "resolved": 1}, nil).
		Times(1)

	w := performRequest(router, http.MethodGet, "/api/v1/incidents/stats", nil,
		map[string]string{"Authorization": "Bearer " + testAPIKey})

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Counts["active"])
	assert.Equal(t, 60, resp.WindowMinutes)
}

func TestGetStats_InvalidAPIKey(t *testing.T) {
	router, serviceMock := setupTestRouter(t)
	serviceMock.EXPECT().GetStats(gomock.Any()).Times(0)

	w := performRequest(router, http.MethodGet, "/api/v1/incidents/stats", nil,
		map[string]string{"X-API-Key": "wrong-key"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, http.MethodGet, "/api/v1/system/health", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
