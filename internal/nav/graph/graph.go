// Package graph implements the topological map recorded while walking a
// space: uniquely identified nodes at 3-D positions joined by undirected,
// cost-weighted edges.
//
// A graph is monotonically additive during a recording session. Nodes and
// edges are never removed individually; loading a different map replaces
// the whole graph.
package graph

import (
	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/google/uuid"
)

// Node is a routable position in the map. Nodes are never mutated after
// creation; merging a nearby sample returns the existing node unchanged.
type Node struct {
	ID       string
	Position geom.Vec
}

// Edge joins two distinct nodes. Edges are undirected: (A,B) and (B,A)
// describe the same edge. Cost is the Euclidean distance between the node
// positions at creation time.
type Edge struct {
	ID   string
	A    string
	B    string
	Cost float64
}

// Neighbor pairs a node reachable by exactly one edge with that edge's cost.
type Neighbor struct {
	Node *Node
	Cost float64
}

// SpatialGraph holds the node and edge sets. Nodes keep insertion order so
// merge scans are deterministic for a given recording.
type SpatialGraph struct {
	nodes   []*Node
	byID    map[string]*Node
	edges   []*Edge
	edgeSet map[[2]string]struct{}
}

// New returns an empty graph.
func New() *SpatialGraph {
	return &SpatialGraph{
		byID:    make(map[string]*Node),
		edgeSet: make(map[[2]string]struct{}),
	}
}

// pairKey produces an order-independent map key for an undirected edge.
func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// MergeOrAddNode returns the first existing node whose distance to pos is
// strictly below mergeDistance, without creating anything. Any node within
// range is accepted; there is no closest-match tie-break. When no node is
// in range a new node is created at exactly pos.
//
// The returned position is the effective node position: the existing node's
// position on a merge, pos on a create. Cost is linear in the node count.
func (g *SpatialGraph) MergeOrAddNode(pos geom.Vec, mergeDistance float64) (string, geom.Vec) {
	for _, n := range g.nodes {
		if geom.Dist(n.Position, pos) < mergeDistance {
			return n.ID, n.Position
		}
	}
	n := &Node{ID: uuid.New().String(), Position: pos}
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	return n.ID, n.Position
}

// AddEdgeBetween appends an undirected edge between a and b with cost equal
// to the Euclidean distance between the current node positions.
//
// Self-edges, duplicate edges (in either direction), and references to
// absent node ids are all silently ignored: callers can only produce them
// through internal logic, so they are treated as defensive no-ops rather
// than reported errors.
func (g *SpatialGraph) AddEdgeBetween(a, b string) {
	if a == b {
		return
	}
	na, okA := g.byID[a]
	nb, okB := g.byID[b]
	if !okA || !okB {
		return
	}
	key := pairKey(a, b)
	if _, exists := g.edgeSet[key]; exists {
		return
	}
	e := &Edge{
		ID:   uuid.New().String(),
		A:    a,
		B:    b,
		Cost: geom.Dist(na.Position, nb.Position),
	}
	g.edges = append(g.edges, e)
	g.edgeSet[key] = struct{}{}
}

// NearestNode returns the Euclidean-closest node to the given position, or
// false when the graph is empty.
func (g *SpatialGraph) NearestNode(to geom.Vec) (*Node, bool) {
	var best *Node
	bestDist := 0.0
	for _, n := range g.nodes {
		d := geom.Dist(n.Position, to)
		if best == nil || d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best, best != nil
}

// Neighbors returns every node reachable from id by exactly one edge,
// paired with that edge's cost. An unknown id yields nil.
func (g *SpatialGraph) Neighbors(id string) []Neighbor {
	if _, ok := g.byID[id]; !ok {
		return nil
	}
	var out []Neighbor
	for _, e := range g.edges {
		switch id {
		case e.A:
			out = append(out, Neighbor{Node: g.byID[e.B], Cost: e.Cost})
		case e.B:
			out = append(out, Neighbor{Node: g.byID[e.A], Cost: e.Cost})
		}
	}
	return out
}

// NodeByID looks a node up by id.
func (g *SpatialGraph) NodeByID(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice is shared; callers
// must not mutate it.
func (g *SpatialGraph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order. The slice is shared; callers
// must not mutate it.
func (g *SpatialGraph) Edges() []*Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *SpatialGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *SpatialGraph) EdgeCount() int { return len(g.edges) }

// InsertNode restores a node with a known id, used when decoding a persisted
// graph. Duplicate ids are rejected.
func (g *SpatialGraph) InsertNode(id string, pos geom.Vec) bool {
	if id == "" {
		return false
	}
	if _, exists := g.byID[id]; exists {
		return false
	}
	n := &Node{ID: id, Position: pos}
	g.nodes = append(g.nodes, n)
	g.byID[id] = n
	return true
}

// InsertEdge restores an edge with a known id and cost, used when decoding a
// persisted graph. The same topology rules as AddEdgeBetween apply.
func (g *SpatialGraph) InsertEdge(id, a, b string, cost float64) bool {
	if id == "" || a == b || cost < 0 {
		return false
	}
	if _, ok := g.byID[a]; !ok {
		return false
	}
	if _, ok := g.byID[b]; !ok {
		return false
	}
	key := pairKey(a, b)
	if _, exists := g.edgeSet[key]; exists {
		return false
	}
	g.edges = append(g.edges, &Edge{ID: id, A: a, B: b, Cost: cost})
	g.edgeSet[key] = struct{}{}
	return true
}
