// Package cloud bounds the raw 3-D feature stream produced while scanning.
//
// The tracker emits far more feature points than are worth keeping; a
// voxel-grid deduplicator retains at most one point per fixed-size cubic
// cell and caps the total retained count so memory and sidecar size stay
// bounded over arbitrarily long sessions.
package cloud

import (
	"math"

	"github.com/banshee-data/wayfinder/internal/geom"
)

// cellKey identifies a voxel cell: floor(coordinate / cellSize) per axis.
type cellKey struct {
	X, Y, Z int
}

// PointCloudCollector deduplicates an incoming point stream on a voxel grid.
type PointCloudCollector struct {
	cellSize  float64
	maxPoints int

	cells  map[cellKey]int // cell -> index into points
	points []geom.Vec
}

// New returns a collector with the given voxel edge length and retained
// point capacity. Non-positive arguments fall back to 0.1 and 50000.
func New(cellSize float64, maxPoints int) *PointCloudCollector {
	if cellSize <= 0 {
		cellSize = 0.1
	}
	if maxPoints <= 0 {
		maxPoints = 50000
	}
	return &PointCloudCollector{
		cellSize:  cellSize,
		maxPoints: maxPoints,
		cells:     make(map[cellKey]int),
	}
}

func (c *PointCloudCollector) keyFor(p geom.Vec) cellKey {
	return cellKey{
		X: int(math.Floor(p.X / c.cellSize)),
		Y: int(math.Floor(p.Y / c.cellSize)),
		Z: int(math.Floor(p.Z / c.cellSize)),
	}
}

// Ingest folds a batch of points into the grid.
//
// A point landing in an occupied cell overwrites that cell's retained point
// (last writer wins, keeping the cloud current as tracking refines). A point
// opening a new cell is inserted while the retained count is below capacity;
// at capacity the point is dropped and the rest of the batch continues.
func (c *PointCloudCollector) Ingest(points []geom.Vec) {
	for _, p := range points {
		key := c.keyFor(p)
		if idx, ok := c.cells[key]; ok {
			c.points[idx] = p
			continue
		}
		if len(c.points) >= c.maxPoints {
			continue
		}
		c.cells[key] = len(c.points)
		c.points = append(c.points, p)
	}
}

// Reset clears the grid and re-ingests the given points, used when loading
// a saved cloud before continuing a session.
func (c *PointCloudCollector) Reset(points []geom.Vec) {
	c.cells = make(map[cellKey]int)
	c.points = c.points[:0]
	c.Ingest(points)
}

// Points returns a copy of the retained points.
func (c *PointCloudCollector) Points() []geom.Vec {
	out := make([]geom.Vec, len(c.points))
	copy(out, c.points)
	return out
}

// Len returns the retained point count.
func (c *PointCloudCollector) Len() int { return len(c.points) }
