// Command plan-route loads a saved map bundle and plans a route between two
// named POIs, printing the waypoints and total length. Useful for checking
// a recorded map off-device.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/wayfinder/internal/mapstore"
	"github.com/banshee-data/wayfinder/internal/nav/planner"
)

var (
	mapsDir = flag.String("maps", "maps", "Directory holding saved map bundles")
	mapName = flag.String("map", "", "Map name to load")
	from    = flag.String("from", "", "Start POI name")
	to      = flag.String("to", "", "Destination POI name")
)

func main() {
	flag.Parse()

	if *mapName == "" || *from == "" || *to == "" {
		flag.Usage()
		os.Exit(2)
	}

	bundle := mapstore.NewStore(*mapsDir).Load(*mapName)
	if bundle.Graph.NodeCount() == 0 {
		log.Fatalf("map %q has no recorded graph", *mapName)
	}

	src, ok := bundle.POIs.ByName(*from)
	if !ok {
		log.Fatalf("no POI named %q", *from)
	}
	dst, ok := bundle.POIs.ByName(*to)
	if !ok {
		log.Fatalf("no POI named %q", *to)
	}

	route, ok := planner.PlanRoute(bundle.Graph, src.Position, dst.Position)
	if !ok {
		log.Fatalf("no route from %q to %q", *from, *to)
	}

	fmt.Printf("route %q -> %q (%d waypoints, %.1f m):\n", *from, *to, len(route), route.TotalLength())
	for i, p := range route {
		fmt.Printf("  %2d  (%.2f, %.2f, %.2f)\n", i, p.X, p.Y, p.Z)
	}
}
