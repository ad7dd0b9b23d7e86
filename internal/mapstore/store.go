package mapstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/banshee-data/wayfinder/internal/monitoring"
	"github.com/banshee-data/wayfinder/internal/nav/graph"
)

// Sidecar file names within a map directory.
const (
	graphFile = "graph.json"
	poiFile   = "pois.json"
	pathFile  = "path.json"
	cloudFile = "cloud.json"
)

// Bundle is everything persisted for one named map.
type Bundle struct {
	Graph *graph.SpatialGraph
	POIs  *POISet
	Path  []geom.Vec
	Cloud []geom.Vec
}

// EmptyBundle returns a bundle with nothing recorded yet.
func EmptyBundle() *Bundle {
	return &Bundle{Graph: graph.New(), POIs: NewPOISet()}
}

// Store reads and writes map bundles under a root directory, one
// subdirectory per named map.
type Store struct {
	root string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

func (s *Store) mapDir(name string) string {
	return filepath.Join(s.root, name)
}

// Save writes all four sidecars for the named map. Each file is written via
// a temp file and rename so a crash never leaves a half-written sidecar.
func (s *Store) Save(name string, b *Bundle) error {
	dir := s.mapDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create map directory: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, graphFile), EncodeGraph(b.Graph)); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, poiFile), b.POIs.Records()); err != nil {
		return fmt.Errorf("failed to save POIs: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, pathFile), EncodePoints(b.Path)); err != nil {
		return fmt.Errorf("failed to save path: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, cloudFile), EncodePoints(b.Cloud)); err != nil {
		return fmt.Errorf("failed to save cloud: %w", err)
	}
	return nil
}

// Load reads the named map. A corrupt or missing sidecar yields the empty
// value for that file with a logged warning, so a damaged map degrades to
// "nothing recorded yet" rather than failing the load.
func (s *Store) Load(name string) *Bundle {
	dir := s.mapDir(name)
	b := EmptyBundle()

	var graphRec GraphRecord
	if readJSON(filepath.Join(dir, graphFile), &graphRec) {
		b.Graph = DecodeGraph(graphRec)
	}

	var poiRecs []POIRecord
	if readJSON(filepath.Join(dir, poiFile), &poiRecs) {
		b.POIs.Merge(poiRecs)
	}

	var pathRecs []PointRecord
	if readJSON(filepath.Join(dir, pathFile), &pathRecs) {
		b.Path = DecodePoints(pathRecs)
	}

	var cloudRecs []PointRecord
	if readJSON(filepath.Join(dir, cloudFile), &cloudRecs) {
		b.Cloud = DecodePoints(cloudRecs)
	}

	return b
}

// List returns the names of the maps under the store root.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// writeJSON marshals v and writes it atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sidecar-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readJSON unmarshals the file at path into v, reporting whether usable
// data was decoded. Missing files are silent; corrupt files warn.
func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			monitoring.Logf("mapstore: failed to read %s: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		monitoring.Logf("mapstore: corrupt sidecar %s, treating as empty: %v", path, err)
		return false
	}
	return true
}
