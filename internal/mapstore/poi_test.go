package mapstore

import (
	"testing"

	"github.com/banshee-data/wayfinder/internal/geom"
)

func TestPOILifecycle(t *testing.T) {
	s := NewPOISet()

	p := s.Add("kitchen", geom.Vec{X: 1, Y: 0, Z: 2})
	if p.ID == "" {
		t.Fatal("Add returned a POI without an id")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	if !s.Rename(p.ID, "galley") {
		t.Error("Rename of known id failed")
	}
	if got, _ := s.Get(p.ID); got.Name != "galley" {
		t.Errorf("name after rename = %q, want galley", got.Name)
	}

	if !s.Move(p.ID, geom.Vec{X: 5}) {
		t.Error("Move of known id failed")
	}
	if got, _ := s.Get(p.ID); got.Position != (geom.Vec{X: 5}) {
		t.Errorf("position after move = %v, want (5,0,0)", got.Position)
	}

	if !s.Delete(p.ID) {
		t.Error("Delete of known id failed")
	}
	if s.Len() != 0 {
		t.Errorf("Len after delete = %d, want 0", s.Len())
	}

	// Unknown ids report false everywhere.
	if s.Rename("x", "y") || s.Move("x", geom.Vec{}) || s.Delete("x") {
		t.Error("operation on unknown id reported success")
	}
	if _, ok := s.Get("x"); ok {
		t.Error("Get of unknown id reported success")
	}
}

func TestByNameReturnsFirstInInsertionOrder(t *testing.T) {
	s := NewPOISet()
	first := s.Add("door", geom.Vec{X: 1})
	s.Add("door", geom.Vec{X: 2})

	got, ok := s.ByName("door")
	if !ok {
		t.Fatal("ByName found nothing")
	}
	if got.ID != first.ID {
		t.Errorf("ByName returned %s, want the first-added %s", got.ID, first.ID)
	}

	if _, ok := s.ByName("window"); ok {
		t.Error("ByName found a POI that was never added")
	}
}

func TestMergeMemoryWins(t *testing.T) {
	s := NewPOISet()
	p := s.Add("kitchen", geom.Vec{X: 1})

	s.Merge([]POIRecord{
		{ID: p.ID, Name: "stale-name", X: 99},
		{ID: "disk-only", Name: "hall", X: 3},
	})

	if s.Len() != 2 {
		t.Fatalf("Len after merge = %d, want 2", s.Len())
	}
	got, _ := s.Get(p.ID)
	if got.Name != "kitchen" || got.Position.X != 1 {
		t.Errorf("in-memory POI overwritten by disk record: %+v", got)
	}
	if _, ok := s.Get("disk-only"); !ok {
		t.Error("disk-only record not merged in")
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	s := NewPOISet()
	s.Add("a", geom.Vec{X: 1, Y: 2, Z: 3})
	s.Add("b", geom.Vec{X: 4, Y: 5, Z: 6})

	restored := NewPOISet()
	restored.Merge(s.Records())

	if restored.Len() != 2 {
		t.Fatalf("restored %d POIs, want 2", restored.Len())
	}
	for i, p := range s.List() {
		r := restored.List()[i]
		if r.ID != p.ID || r.Name != p.Name || r.Position != p.Position {
			t.Errorf("POI %d mismatch: %+v vs %+v", i, p, r)
		}
	}
}
