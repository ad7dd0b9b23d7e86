// Package planner finds shortest routes over a recorded SpatialGraph.
package planner

import (
	"container/heap"

	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/banshee-data/wayfinder/internal/nav/graph"
)

// Route is an ordered sequence of positions: the exact requested start, the
// graph node positions along the shortest path, and the exact requested
// goal. A route is immutable once planned; re-planning produces a new Route.
type Route []geom.Vec

// TotalLength returns the sum of consecutive waypoint distances.
func (r Route) TotalLength() float64 {
	return geom.PathLength(r)
}

// PlanRoute finds the shortest route between two arbitrary positions.
//
// The search snaps both positions to their nearest graph nodes and runs A*
// between them using edge cost as the step cost and straight-line distance
// to the goal node as the heuristic. Edge costs are Euclidean distances
// along possibly non-straight corridors, so the heuristic never
// overestimates. Equal f-scores resolve arbitrarily; any equal-cost path is
// optimal.
//
// The requested start and goal are always the literal first and last route
// elements so the caller's actual position is never snapped to a node. An
// empty graph or an exhausted open set yields ok == false, which callers
// must treat as "destination unreachable", not as a retryable error.
func PlanRoute(g *graph.SpatialGraph, start, goal geom.Vec) (Route, bool) {
	startNode, ok := g.NearestNode(start)
	if !ok {
		return nil, false
	}
	goalNode, _ := g.NearestNode(goal)

	nodePath, found := aStar(g, startNode, goalNode)
	if !found {
		return nil, false
	}

	route := make(Route, 0, len(nodePath)+2)
	route = append(route, start)
	for _, n := range nodePath {
		route = append(route, n.Position)
	}
	route = append(route, goal)
	return route, true
}

// openItem is an entry in the A* open set.
type openItem struct {
	id string
	f  float64
}

// openSet is a min-heap on f-score.
type openSet []openItem

func (h openSet) Len() int           { return len(h) }
func (h openSet) Less(i, j int) bool { return h[i].f < h[j].f }
func (h openSet) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openSet) Push(x any)        { *h = append(*h, x.(openItem)) }
func (h *openSet) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// aStar returns the optimal node sequence from start to goal, inclusive.
func aStar(g *graph.SpatialGraph, start, goal *graph.Node) ([]*graph.Node, bool) {
	gScore := map[string]float64{start.ID: 0}
	cameFrom := map[string]string{}
	closed := map[string]bool{}

	open := &openSet{{id: start.ID, f: geom.Dist(start.Position, goal.Position)}}
	heap.Init(open)

	for open.Len() > 0 {
		current := heap.Pop(open).(openItem)
		if closed[current.id] {
			// Stale entry superseded by a cheaper path.
			continue
		}
		if current.id == goal.ID {
			return reconstruct(g, cameFrom, goal.ID), true
		}
		closed[current.id] = true

		for _, nb := range g.Neighbors(current.id) {
			if closed[nb.Node.ID] {
				continue
			}
			tentative := gScore[current.id] + nb.Cost
			if prev, seen := gScore[nb.Node.ID]; seen && tentative >= prev {
				continue
			}
			gScore[nb.Node.ID] = tentative
			cameFrom[nb.Node.ID] = current.id
			heap.Push(open, openItem{
				id: nb.Node.ID,
				f:  tentative + geom.Dist(nb.Node.Position, goal.Position),
			})
		}
	}

	return nil, false
}

// reconstruct walks the cameFrom chain back from the goal.
func reconstruct(g *graph.SpatialGraph, cameFrom map[string]string, goalID string) []*graph.Node {
	var rev []string
	for id := goalID; ; {
		rev = append(rev, id)
		parent, ok := cameFrom[id]
		if !ok {
			break
		}
		id = parent
	}

	path := make([]*graph.Node, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		n, _ := g.NodeByID(rev[i])
		path = append(path, n)
	}
	return path
}
