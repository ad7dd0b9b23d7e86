// Package recorder turns a stream of accepted floor positions into graph
// structure while a scanning session is active.
package recorder

import (
	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/banshee-data/wayfinder/internal/nav/graph"
)

// Config holds the distance thresholds that shape the recorded graph.
type Config struct {
	// SampleDistance is the minimum distance from the last accepted sample
	// before a new sample is considered. This is the primary densification
	// control: smaller values trade graph size for path fidelity.
	SampleDistance float64
	// MergeDistance is the radius within which a sample reuses an existing
	// node instead of creating a new one.
	MergeDistance float64
	// JunctionDistance is the radius within which an accepted node is
	// connected to every other node, creating implicit intersections and
	// loops when a walk revisits or passes near an earlier path.
	JunctionDistance float64
}

// DefaultConfig returns the recorder thresholds used in production.
func DefaultConfig() Config {
	return Config{
		SampleDistance:   1.0,
		MergeDistance:    1.0,
		JunctionDistance: 2.0,
	}
}

// GraphRecorder incrementally builds a SpatialGraph from floor-snapped
// positions. No operation returns an error: every input is accepted
// unconditionally, with the distance thresholds as the only filtering.
type GraphRecorder struct {
	cfg Config
	g   *graph.SpatialGraph

	lastNodeID string
	lastPos    geom.Vec
	hasLast    bool
}

// New returns a recorder writing into g.
func New(cfg Config, g *graph.SpatialGraph) *GraphRecorder {
	if g == nil {
		g = graph.New()
	}
	return &GraphRecorder{cfg: cfg, g: g}
}

// Graph returns the working graph.
func (r *GraphRecorder) Graph() *graph.SpatialGraph { return r.g }

// AddSample feeds one floor position into the recorder. It reports whether
// the graph mutated.
//
// A sample closer than SampleDistance to the last accepted sample is
// rejected outright. An accepted sample is merged into an existing node or
// added as a new one; the walked corridor is captured by an edge from the
// previous node, and every other node within JunctionDistance is connected
// to record implicit junctions without explicit topology detection.
func (r *GraphRecorder) AddSample(pos geom.Vec) bool {
	if r.hasLast && geom.Dist(pos, r.lastPos) < r.cfg.SampleDistance {
		return false
	}

	nodesBefore := r.g.NodeCount()
	edgesBefore := r.g.EdgeCount()

	id, effective := r.g.MergeOrAddNode(pos, r.cfg.MergeDistance)

	if r.lastNodeID != "" && r.lastNodeID != id {
		r.g.AddEdgeBetween(r.lastNodeID, id)
	}

	// Connect nearby nodes regardless of whether the node is new: a revisit
	// can still close a loop against structure recorded earlier.
	for _, n := range r.g.Nodes() {
		if n.ID == id {
			continue
		}
		if geom.Dist(n.Position, effective) <= r.cfg.JunctionDistance {
			r.g.AddEdgeBetween(id, n.ID)
		}
	}

	r.lastNodeID = id
	r.lastPos = pos
	r.hasLast = true

	return r.g.NodeCount() != nodesBefore || r.g.EdgeCount() != edgesBefore
}

// Reset replaces the working graph and clears the last-node and
// last-position state. Passing a freshly loaded graph resumes recording
// onto it (the extend-map flow); passing nil starts from scratch.
func (r *GraphRecorder) Reset(g *graph.SpatialGraph) {
	if g == nil {
		g = graph.New()
	}
	r.g = g
	r.lastNodeID = ""
	r.lastPos = geom.Vec{}
	r.hasLast = false
}
