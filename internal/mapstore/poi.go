package mapstore

import (
	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/google/uuid"
)

// POI is a user-named point of interest: a navigation destination with a
// fixed position. The id is stable across a map's lifetime and is the merge
// key when two sessions' data must be reconciled; the name is mutable and
// non-unique.
type POI struct {
	ID       string
	Name     string
	Position geom.Vec
}

// POISet owns the points of interest for the active map.
type POISet struct {
	byID  map[string]*POI
	order []string
}

// NewPOISet returns an empty set.
func NewPOISet() *POISet {
	return &POISet{byID: make(map[string]*POI)}
}

// Add creates a POI at the given position and returns it.
func (s *POISet) Add(name string, pos geom.Vec) *POI {
	p := &POI{ID: uuid.New().String(), Name: name, Position: pos}
	s.byID[p.ID] = p
	s.order = append(s.order, p.ID)
	return p
}

// Rename changes a POI's name in place. Unknown ids report false.
func (s *POISet) Rename(id, name string) bool {
	p, ok := s.byID[id]
	if !ok {
		return false
	}
	p.Name = name
	return true
}

// Move repositions a POI in place. Unknown ids report false.
func (s *POISet) Move(id string, pos geom.Vec) bool {
	p, ok := s.byID[id]
	if !ok {
		return false
	}
	p.Position = pos
	return true
}

// Delete removes a POI. Unknown ids report false.
func (s *POISet) Delete(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get looks a POI up by id.
func (s *POISet) Get(id string) (*POI, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// ByName returns the first POI with the given name, in insertion order.
// Names are non-unique, so callers wanting a specific POI should use ids.
func (s *POISet) ByName(name string) (*POI, bool) {
	for _, id := range s.order {
		if s.byID[id].Name == name {
			return s.byID[id], true
		}
	}
	return nil, false
}

// List returns the POIs in insertion order.
func (s *POISet) List() []*POI {
	out := make([]*POI, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the POI count.
func (s *POISet) Len() int { return len(s.order) }

// Merge reconciles on-disk records into the set. Disk entries with unseen
// ids are added; for ids already present in memory, the in-memory edits win
// unconditionally.
func (s *POISet) Merge(disk []POIRecord) {
	for _, r := range disk {
		if _, exists := s.byID[r.ID]; exists {
			continue
		}
		p := &POI{ID: r.ID, Name: r.Name, Position: geom.Vec{X: r.X, Y: r.Y, Z: r.Z}}
		s.byID[p.ID] = p
		s.order = append(s.order, p.ID)
	}
}

// Records flattens the set for persistence.
func (s *POISet) Records() []POIRecord {
	out := make([]POIRecord, 0, len(s.order))
	for _, id := range s.order {
		p := s.byID[id]
		out = append(out, POIRecord{
			ID: p.ID, Name: p.Name, X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z,
		})
	}
	return out
}
