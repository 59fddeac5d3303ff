package cluster

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Bounds describes the visible map viewport as [west, south, east, north]
// in WGS-84 degrees. A nil Bounds means the viewport is not initialized yet.
type Bounds struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Contains reports whether a coordinate falls inside the viewport.
// NaN coordinates never match.
func (b *Bounds) Contains(lat, lon float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

// Point is a single map marker candidate before clustering.
type Point struct {
	ID        uuid.UUID
	Latitude  float64
	Longitude float64
	Category  string
	Status    string
	Address   string
	CreatedAt time.Time
}

// Node is one rendered map marker: either an aggregated cluster or a single
// leaf point. Every input point belongs to exactly one node per snapshot.
type Node struct {
	IsCluster  bool
	ClusterID  uint32
	PointCount int
	Longitude  float64
	Latitude   float64

	// ExpansionZoom is the minimum zoom level at which this cluster fully
	// splits into individual leaves, bounded by Options.MaxZoom. Set on
	// clusters only.
	ExpansionZoom int

	// Leaf fields.
	Point *Point
	Color string
}

// Options control how aggressively points are merged.
type Options struct {
	Radius    float64 // merge radius in screen pixels
	MinPoints int     // minimum group size to form a cluster
	MaxZoom   int     // zoom level at which merging stops entirely
	Extent    float64 // tile extent in pixels
}

// DefaultOptions returns the production clustering parameters.
func DefaultOptions() Options {
	return Options{
		Radius:    DefaultRadiusPx,
		MinPoints: 2,
		MaxZoom:   DefaultMaxZoom,
		Extent:    DefaultExtent,
	}
}

const (
	DefaultRadiusPx = 75
	DefaultMaxZoom  = 20
	DefaultExtent   = 256
)

// Clusterer abstracts the clustering implementation so the concrete algorithm
// can be swapped without touching call sites.
type Clusterer interface {
	Cluster(points []Point, bounds *Bounds, zoom int) []Node
}

// GridClusterer builds clusters hierarchically: points are clustered at the
// deepest zoom first, then each lower zoom merges the previous level's
// cluster centroids. Every cluster at zoom z is therefore a union of zoom
// z+1 clusters, so zooming in can only split clusters, never grow them.
// It holds no state between calls: every call is a pure recomputation, so
// identical inputs yield identical output.
type GridClusterer struct {
	opts Options
}

func NewGridClusterer(opts Options) *GridClusterer {
	if opts.Radius <= 0 {
		opts.Radius = DefaultRadiusPx
	}
	if opts.MinPoints < 2 {
		opts.MinPoints = 2
	}
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = DefaultMaxZoom
	}
	if opts.Extent <= 0 {
		opts.Extent = 256
	}
	return &GridClusterer{opts: opts}
}

var _ Clusterer = (*GridClusterer)(nil)

// item is one node of the cluster hierarchy while it is being built. Its
// position is the point-weighted centroid of its members in world space.
type item struct {
	x, y          float64
	members       []Point
	expansionZoom int
}

// Cluster aggregates the visible points for the given viewport and zoom.
// A nil viewport or an empty point set produces no output.
func (c *GridClusterer) Cluster(points []Point, bounds *Bounds, zoom int) []Node {
	if bounds == nil || len(points) == 0 {
		return nil
	}

	items := make([]item, 0, len(points))
	for _, p := range points {
		if !bounds.Contains(p.Latitude, p.Longitude) {
			continue
		}
		x, y := project(p.Longitude, p.Latitude)
		items = append(items, item{x: x, y: y, members: []Point{p}})
	}
	if len(items) == 0 {
		return nil
	}

	// Fixed processing order makes the greedy merge deterministic.
	sort.Slice(items, func(i, j int) bool {
		return items[i].members[0].ID.String() < items[j].members[0].ID.String()
	})

	// Bottom-up: merge level by level from just below MaxZoom down to the
	// requested zoom. At or beyond MaxZoom nothing is merged.
	for z := c.opts.MaxZoom - 1; z >= zoom; z-- {
		items = c.mergeLevel(items, z)
	}

	nodes := make([]Node, 0, len(items))
	var clusterID uint32
	for _, it := range items {
		if len(it.members) >= c.opts.MinPoints {
			clusterID++
			lon, lat := unproject(it.x, it.y)
			nodes = append(nodes, Node{
				IsCluster:     true,
				ClusterID:     clusterID,
				PointCount:    len(it.members),
				Longitude:     lon,
				Latitude:      lat,
				ExpansionZoom: it.expansionZoom,
			})
			continue
		}
		for _, m := range it.members {
			p := m
			nodes = append(nodes, Node{
				PointCount: 1,
				Longitude:  p.Longitude,
				Latitude:   p.Latitude,
				Point:      &p,
				Color:      MarkerColor(p.Category, p.Status),
			})
		}
	}
	return nodes
}

// mergeLevel greedily merges the previous level's items that fall within the
// pixel radius of each other at this zoom: each unclaimed item seeds a group
// and absorbs every remaining unclaimed item in range. Merged items take the
// point-weighted centroid of their children.
func (c *GridClusterer) mergeLevel(items []item, zoom int) []item {
	r := c.opts.Radius / (c.opts.Extent * math.Pow(2, float64(zoom)))
	r2 := r * r

	claimed := make([]bool, len(items))
	merged := make([]item, 0, len(items))

	for i := range items {
		if claimed[i] {
			continue
		}
		claimed[i] = true
		group := []int{i}
		for j := i + 1; j < len(items); j++ {
			if claimed[j] {
				continue
			}
			dx := items[j].x - items[i].x
			dy := items[j].y - items[i].y
			if dx*dx+dy*dy <= r2 {
				claimed[j] = true
				group = append(group, j)
			}
		}

		if len(group) == 1 {
			merged = append(merged, items[i])
			continue
		}

		// A cluster formed at this zoom splits one level deeper; a child that
		// is itself a cluster pushes the full split deeper still.
		next := item{expansionZoom: zoom + 1}
		var sumX, sumY float64
		for _, gi := range group {
			child := items[gi]
			w := float64(len(child.members))
			sumX += child.x * w
			sumY += child.y * w
			next.members = append(next.members, child.members...)
			if child.expansionZoom > next.expansionZoom {
				next.expansionZoom = child.expansionZoom
			}
		}
		n := float64(len(next.members))
		next.x = sumX / n
		next.y = sumY / n
		merged = append(merged, next)
	}
	return merged
}

// project converts lng/lat to web mercator world coordinates in [0, 1].
func project(lng, lat float64) (float64, float64) {
	sin := math.Sin(lat * math.Pi / 180)
	x := (lng + 180) / 360
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	return x, y
}

// unproject converts world coordinates back to lng/lat.
func unproject(x, y float64) (lng, lat float64) {
	lng = x*360 - 180
	lat = math.Atan(math.Sinh(math.Pi*(1-2*y))) * 180 / math.Pi
	return lng, lat
}
