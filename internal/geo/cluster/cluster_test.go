package cluster

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBounds = &Bounds{West: -122.52, South: 37.70, East: -122.35, North: 37.83}

// denseTestPoints generates n points inside a roughly 100m wide blob in
// San Francisco.
func denseTestPoints(n int) []Point {
	rng := rand.New(rand.NewSource(42))
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			ID:        uuid.New(),
			Latitude:  37.7749 + rng.Float64()*0.0009,
			Longitude: -122.4194 + rng.Float64()*0.0009,
			Category:  CategoryIncidents,
			Status:    "active",
		}
	}
	return points
}

func countPoints(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += n.PointCount
	}
	return total
}

func maxClusterSize(nodes []Node) int {
	max := 0
	for _, n := range nodes {
		if n.PointCount > max {
			max = n.PointCount
		}
	}
	return max
}

func TestCluster_NilBoundsProducesNothing(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	nodes := c.Cluster(denseTestPoints(10), nil, 10)
	assert.Nil(t, nodes)
}

func TestCluster_NoPoints(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	nodes := c.Cluster(nil, testBounds, 10)
	assert.Nil(t, nodes)
}

func TestCluster_PointsOutsideBoundsExcluded(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	points := []Point{
		{ID: uuid.New(), Latitude: 37.7749, Longitude: -122.4194},
		{ID: uuid.New(), Latitude: 55.7558, Longitude: 37.6173}, // Moscow, not in viewport
	}

	nodes := c.Cluster(points, testBounds, 15)
	require.Len(t, nodes, 1)
	assert.Equal(t, points[0].ID, nodes[0].Point.ID)
}

func TestCluster_DenseBlobCollapsesAtLowZoom(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	points := denseTestPoints(500)

	nodes := c.Cluster(points, testBounds, 3)
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].IsCluster)
	assert.Equal(t, 500, nodes[0].PointCount)
	assert.NotZero(t, nodes[0].ClusterID)
	assert.Greater(t, nodes[0].ExpansionZoom, 3)
	assert.LessOrEqual(t, nodes[0].ExpansionZoom, DefaultMaxZoom)

	// Centroid stays inside the blob's bounding box.
	assert.InDelta(t, 37.7753, nodes[0].Latitude, 0.001)
	assert.InDelta(t, -122.4190, nodes[0].Longitude, 0.001)
}

func TestCluster_MaxZoomExpandsToLeaves(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	points := denseTestPoints(500)

	nodes := c.Cluster(points, testBounds, DefaultMaxZoom)
	assert.Len(t, nodes, 500)
	for _, n := range nodes {
		assert.False(t, n.IsCluster)
		require.NotNil(t, n.Point)
		assert.Equal(t, ColorActive, n.Color)
	}
}

func TestCluster_Idempotent(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	points := denseTestPoints(200)

	first := c.Cluster(points, testBounds, 12)
	second := c.Cluster(points, testBounds, 12)
	assert.Equal(t, first, second)
}

func TestCluster_CoversEveryPointExactlyOnce(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	points := denseTestPoints(300)

	for _, zoom := range []int{3, 10, 14, 17, 20} {
		nodes := c.Cluster(points, testBounds, zoom)
		assert.Equal(t, 300, countPoints(nodes), "zoom %d", zoom)

		// Leaf IDs must be unique.
		seen := make(map[uuid.UUID]bool)
		for _, n := range nodes {
			if n.Point == nil {
				continue
			}
			assert.False(t, seen[n.Point.ID])
			seen[n.Point.ID] = true
		}
	}
}

func TestCluster_ZoomMonotonicUnmerging(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	points := denseTestPoints(400)

	prev := 401
	for zoom := 3; zoom <= DefaultMaxZoom; zoom++ {
		nodes := c.Cluster(points, testBounds, zoom)
		size := maxClusterSize(nodes)
		assert.LessOrEqual(t, size, prev, "zoom %d", zoom)
		prev = size
	}
}

func TestCluster_ChainedPointsNeverRemergeWhenZoomingIn(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())

	// Four points on the equator form a chain: the two rightmost nearly
	// coincide, and the middle point is out of reach of the leftmost one but
	// close enough to the right pair's centroid at mid zooms. A flat per-zoom
	// merge would let the middle point skip its zoom-10 partner and absorb
	// the pair at zoom 11, growing a cluster while zooming in; the
	// hierarchical build keeps every cluster the union of deeper-zoom
	// clusters instead.
	lngs := []float64{
		-180,
		-179.90386962890625,
		-179.855804443359375,
		-179.85443115234375,
	}
	points := make([]Point, len(lngs))
	for i, lng := range lngs {
		points[i] = Point{
			ID:        uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1)),
			Longitude: lng,
		}
	}
	bounds := &Bounds{West: -180, South: -1, East: -179, North: 1}

	prev := len(points) + 1
	for zoom := 8; zoom <= DefaultMaxZoom; zoom++ {
		nodes := c.Cluster(points, bounds, zoom)
		assert.Equal(t, len(points), countPoints(nodes), "zoom %d", zoom)
		size := maxClusterSize(nodes)
		assert.LessOrEqual(t, size, prev, "zoom %d", zoom)
		prev = size
	}

	// The chain collapses into a 3-point cluster at zoom 11 and splits into
	// a leaf plus the near-coincident pair at zoom 12.
	assert.Equal(t, 3, maxClusterSize(c.Cluster(points, bounds, 11)))
	assert.Equal(t, 2, maxClusterSize(c.Cluster(points, bounds, 12)))
}

func TestCluster_ExpansionZoomBoundedForInseparablePoints(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	// Two reports at practically the same address never separate.
	points := []Point{
		{ID: uuid.New(), Latitude: 37.774900, Longitude: -122.419400},
		{ID: uuid.New(), Latitude: 37.774901, Longitude: -122.419401},
	}

	nodes := c.Cluster(points, testBounds, 10)
	require.Len(t, nodes, 1)
	assert.Equal(t, DefaultMaxZoom, nodes[0].ExpansionZoom)
}

func TestCluster_DistantPointsStayLeaves(t *testing.T) {
	c := NewGridClusterer(DefaultOptions())
	points := []Point{
		{ID: uuid.New(), Latitude: 37.7749, Longitude: -122.4194, Category: CategoryIncidents, Status: "resolved"},
		{ID: uuid.New(), Latitude: 37.8080, Longitude: -122.4100, Category: CategoryIncidents, Status: "investigating"},
	}

	nodes := c.Cluster(points, testBounds, 15)
	require.Len(t, nodes, 2)
	colors := []string{nodes[0].Color, nodes[1].Color}
	assert.ElementsMatch(t, []string{ColorResolved, ColorInvestigating}, colors)
}

func TestMarkerColor(t *testing.T) {
	tests := []struct {
		category string
		status   string
		want     string
	}{
		{CategoryIncidents, "active", ColorActive},
		{CategoryIncidents, "resolved", ColorResolved},
		{CategoryIncidents, "investigating", ColorInvestigating},
		{CategoryIncidents, "closed", ColorDefault},
		{CategoryIncidents, "", ColorDefault},
		{"events", "active", ColorActive},
		{"events", "resolved", ColorActive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MarkerColor(tt.category, tt.status), "%s/%s", tt.category, tt.status)
	}
}
