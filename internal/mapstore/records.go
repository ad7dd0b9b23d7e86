// Package mapstore persists named map bundles as sidecar files: the
// recorded graph, the points of interest, the raw walked path, and the
// deduplicated point cloud.
//
// The files are plain structured text records. Field sets are exactly as
// declared here; nothing is silently dropped on round-trip. A corrupt or
// missing sidecar degrades to "nothing recorded yet" with a logged warning,
// never a fatal error.
package mapstore

import (
	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/banshee-data/wayfinder/internal/nav/graph"
)

// NodeRecord is one persisted graph node: id plus three floats.
type NodeRecord struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// EdgeRecord is one persisted graph edge: id, two node ids, and cost.
type EdgeRecord struct {
	ID   string  `json:"id"`
	A    string  `json:"node_a"`
	B    string  `json:"node_b"`
	Cost float64 `json:"cost"`
}

// GraphRecord is the graph sidecar payload.
type GraphRecord struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// POIRecord is one persisted point of interest.
type POIRecord struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// PointRecord is one bare position, used by the path and cloud sidecars.
type PointRecord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// EncodeGraph flattens a graph into its sidecar record.
func EncodeGraph(g *graph.SpatialGraph) GraphRecord {
	rec := GraphRecord{
		Nodes: make([]NodeRecord, 0, g.NodeCount()),
		Edges: make([]EdgeRecord, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		rec.Nodes = append(rec.Nodes, NodeRecord{
			ID: n.ID, X: n.Position.X, Y: n.Position.Y, Z: n.Position.Z,
		})
	}
	for _, e := range g.Edges() {
		rec.Edges = append(rec.Edges, EdgeRecord{ID: e.ID, A: e.A, B: e.B, Cost: e.Cost})
	}
	return rec
}

// DecodeGraph rebuilds a graph from its sidecar record. Records violating
// the topology invariants are dropped silently, matching the live rules.
func DecodeGraph(rec GraphRecord) *graph.SpatialGraph {
	g := graph.New()
	for _, n := range rec.Nodes {
		g.InsertNode(n.ID, geom.Vec{X: n.X, Y: n.Y, Z: n.Z})
	}
	for _, e := range rec.Edges {
		g.InsertEdge(e.ID, e.A, e.B, e.Cost)
	}
	return g
}

// EncodePoints flattens positions into point records.
func EncodePoints(points []geom.Vec) []PointRecord {
	out := make([]PointRecord, 0, len(points))
	for _, p := range points {
		out = append(out, PointRecord{X: p.X, Y: p.Y, Z: p.Z})
	}
	return out
}

// DecodePoints rebuilds positions from point records.
func DecodePoints(recs []PointRecord) []geom.Vec {
	out := make([]geom.Vec, 0, len(recs))
	for _, r := range recs {
		out = append(out, geom.Vec{X: r.X, Y: r.Y, Z: r.Z})
	}
	return out
}
