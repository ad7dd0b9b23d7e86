// Package session coordinates the navigation core: it owns the recorder,
// point-cloud collector, POI set, and guidance engine, routes pose frames
// to whichever is active, and executes the map and navigation commands
// issued by the surrounding application.
//
// All derived processing runs on a single serial execution context (the
// Run goroutine). Producers only perform synchronous pose extraction plus a
// non-blocking send into the gate; a frame arriving while the previous one
// is still being handled is dropped, never queued.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/banshee-data/wayfinder/internal/config"
	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/banshee-data/wayfinder/internal/journal"
	"github.com/banshee-data/wayfinder/internal/mapstore"
	"github.com/banshee-data/wayfinder/internal/metrics"
	"github.com/banshee-data/wayfinder/internal/monitoring"
	"github.com/banshee-data/wayfinder/internal/nav/cloud"
	"github.com/banshee-data/wayfinder/internal/nav/graph"
	"github.com/banshee-data/wayfinder/internal/nav/guidance"
	"github.com/banshee-data/wayfinder/internal/nav/pose"
	"github.com/banshee-data/wayfinder/internal/nav/recorder"
	"github.com/banshee-data/wayfinder/internal/security"
)

// Mode is the session's top-level activity.
type Mode string

const (
	// ModeIdle means no map is active.
	ModeIdle Mode = "idle"
	// ModeScanning means pose samples extend the recorded graph, raw path,
	// and point cloud.
	ModeScanning Mode = "scanning"
	// ModeLocalizing means a map is loaded and navigation is available.
	ModeLocalizing Mode = "localizing"
)

// Deps are the collaborators a Manager needs. Journal may be nil.
type Deps struct {
	Tuning  *config.TuningConfig
	Store   *mapstore.Store
	Journal *journal.Journal
	Speaker guidance.Speaker
	Pointer guidance.Pointer
}

// Manager is the single owner of all mutable navigation state.
type Manager struct {
	mu sync.Mutex

	tuning  *config.TuningConfig
	store   *mapstore.Store
	journal *journal.Journal

	mode      Mode
	mapName   string
	sessionID string

	rec       *recorder.GraphRecorder
	collector *cloud.PointCloudCollector
	pois      *mapstore.POISet
	path      []geom.Vec
	engine    *guidance.Engine
	gate      *pose.Gate

	lastPose     pose.Sample
	haveLastPose bool
}

// NewManager wires a manager from its dependencies.
func NewManager(d Deps) *Manager {
	t := d.Tuning
	if t == nil {
		t = config.EmptyTuningConfig()
	}

	m := &Manager{
		tuning:  t,
		store:   d.Store,
		journal: d.Journal,
		mode:    ModeIdle,
		rec: recorder.New(recorder.Config{
			SampleDistance:   t.GetSampleDistance(),
			MergeDistance:    t.GetMergeDistance(),
			JunctionDistance: t.GetJunctionDistance(),
		}, nil),
		collector: cloud.New(t.GetVoxelSize(), t.GetMaxCloudPoints()),
		pois:      mapstore.NewPOISet(),
		gate:      pose.NewGate(),
	}

	m.engine = guidance.NewEngine(guidance.Config{
		WaypointProximity:             t.GetWaypointProximity(),
		OffRouteDistance:              t.GetOffRouteDistance(),
		OffRouteDwellSeconds:          t.GetOffRouteDwellSeconds(),
		Milestones:                    t.GetMilestonesMetres(),
		ActuatorIntervalSeconds:       t.GetActuatorIntervalSeconds(),
		ActuatorAngleThresholdDegrees: t.GetActuatorAngleThresholdDegrees(),
		TurnAroundDegrees:             t.GetTurnAroundDegrees(),
	}, d.Speaker, d.Pointer)
	m.engine.OnEvent = m.recordEvent

	return m
}

// recordEvent journals a guidance event. Journal writes are fire-and-forget
// relative to the guidance loop.
func (m *Manager) recordEvent(kind, detail string) {
	metrics.Announcements.WithLabelValues(kind).Inc()
	if m.journal == nil || m.sessionID == "" {
		return
	}
	id := m.sessionID
	go func() {
		if err := m.journal.RecordEvent(id, kind, detail); err != nil {
			monitoring.Logf("session: failed to journal %s event: %v", kind, err)
		}
	}()
}

// HandleFrame is the per-frame tracker callback. The caller extracts the
// pose and feature points from the raw tracking frame synchronously before
// calling, so nothing expensive is retained; this method never blocks.
func (m *Manager) HandleFrame(f pose.Frame) {
	if !m.gate.Offer(f) {
		metrics.FramesDropped.Inc()
	}
}

// Run consumes gated frames until the context is cancelled. It is the
// session's single serial execution context.
func (m *Manager) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-m.gate.Frames():
			m.processFrame(f)
			metrics.FramesProcessed.Inc()
		}
	}
}

// processFrame routes one frame according to the active mode.
func (m *Manager) processFrame(f pose.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f.Sample.Confidence.Usable() {
		m.lastPose = f.Sample
		m.haveLastPose = true
	}

	switch m.mode {
	case ModeScanning:
		if f.Sample.Confidence.Usable() {
			snapped := geom.Vec{X: f.Sample.Position.X, Y: m.tuning.GetFloorY(), Z: f.Sample.Position.Z}
			if m.rec.AddSample(snapped) {
				metrics.SamplesAccepted.Inc()
				m.path = append(m.path, snapped)
			}
		}
		if len(f.Features) > 0 {
			m.collector.Ingest(f.Features)
			metrics.CloudPoints.Set(float64(m.collector.Len()))
		}

	case ModeLocalizing:
		m.engine.AddPose(f.Sample)
	}
}

// Mode returns the current session mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// MapName returns the active map name, empty when idle.
func (m *Manager) MapName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapName
}

// StartScan begins recording a fresh map under the given name.
func (m *Manager) StartScan(mapName string) error {
	if err := security.ValidateMapName(mapName); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode != ModeIdle {
		return fmt.Errorf("cannot start scan while %s", m.mode)
	}

	m.rec.Reset(graph.New())
	m.collector.Reset(nil)
	m.pois = mapstore.NewPOISet()
	m.path = nil
	m.enterMode(ModeScanning, mapName)
	return nil
}

// ExtendScan loads a previously saved map and resumes recording onto it.
func (m *Manager) ExtendScan(mapName string) error {
	if err := security.ValidateMapName(mapName); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode != ModeIdle {
		return fmt.Errorf("cannot extend scan while %s", m.mode)
	}

	b := m.store.Load(mapName)
	m.rec.Reset(b.Graph)
	m.collector.Reset(b.Cloud)
	m.pois = b.POIs
	m.path = b.Path
	m.enterMode(ModeScanning, mapName)
	return nil
}

// StopScan persists the recorded map and returns to idle. Stopping when not
// scanning is a safe no-op.
func (m *Manager) StopScan() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode != ModeScanning {
		return nil
	}

	err := m.saveLocked()
	m.leaveMode()
	return err
}

// LoadMap loads a saved map for navigation.
func (m *Manager) LoadMap(mapName string) error {
	if err := security.ValidateMapName(mapName); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode != ModeIdle {
		return fmt.Errorf("cannot load map while %s", m.mode)
	}

	b := m.store.Load(mapName)
	m.rec.Reset(b.Graph)
	m.collector.Reset(b.Cloud)
	m.pois = b.POIs
	m.path = b.Path
	m.enterMode(ModeLocalizing, mapName)
	return nil
}

// CloseMap stops any navigation and returns to idle, persisting POI edits
// made while localizing. Closing when idle is a safe no-op.
func (m *Manager) CloseMap() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode != ModeLocalizing {
		return nil
	}

	m.engine.Stop()
	err := m.saveLocked()
	m.leaveMode()
	return err
}

// SaveMap persists the active bundle without changing mode.
func (m *Manager) SaveMap() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == ModeIdle {
		return fmt.Errorf("no active map to save")
	}
	return m.saveLocked()
}

// saveLocked writes the current bundle. Callers hold m.mu.
func (m *Manager) saveLocked() error {
	if m.store == nil {
		return nil
	}
	return m.store.Save(m.mapName, &mapstore.Bundle{
		Graph: m.rec.Graph(),
		POIs:  m.pois,
		Path:  m.path,
		Cloud: m.collector.Points(),
	})
}

// enterMode opens a journal session for the new mode. Callers hold m.mu.
func (m *Manager) enterMode(mode Mode, mapName string) {
	m.mode = mode
	m.mapName = mapName
	if m.journal != nil {
		id, err := m.journal.BeginSession(mapName, string(mode))
		if err != nil {
			monitoring.Logf("session: failed to journal session start: %v", err)
		} else {
			m.sessionID = id
		}
	}
	monitoring.Logf("session: %s %q", mode, mapName)
}

// leaveMode closes the journal session and returns to idle. Callers hold m.mu.
func (m *Manager) leaveMode() {
	if m.journal != nil && m.sessionID != "" {
		if err := m.journal.EndSession(m.sessionID); err != nil {
			monitoring.Logf("session: failed to journal session end: %v", err)
		}
	}
	m.sessionID = ""
	m.mode = ModeIdle
	m.mapName = ""
}

// StartNavigation plans a route from the current position to the named POI
// and begins guidance. It fails when no map is loaded, when the POI is
// unknown, or when no usable pose has been seen yet; a request while
// already navigating is rejected by the engine.
func (m *Manager) StartNavigation(poiName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode != ModeLocalizing {
		return fmt.Errorf("cannot navigate while %s", m.mode)
	}
	p, ok := m.pois.ByName(poiName)
	if !ok {
		return fmt.Errorf("no POI named %q", poiName)
	}
	if !m.haveLastPose {
		return fmt.Errorf("no usable pose yet")
	}

	if !m.engine.Start(m.lastPose.Position, p.Name, p.Position, m.rec.Graph()) {
		metrics.RoutesFailed.Inc()
		return fmt.Errorf("no route to %q", poiName)
	}
	metrics.RoutesPlanned.Inc()
	return nil
}

// StopNavigation cancels guidance. Idempotent when idle.
func (m *Manager) StopNavigation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.Stop()
}

// Navigating reports whether guidance is active.
func (m *Manager) Navigating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Navigating()
}

// AddPOI creates a POI at the current position.
func (m *Manager) AddPOI(name string) (*mapstore.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == ModeIdle {
		return nil, fmt.Errorf("no active map")
	}
	if !m.haveLastPose {
		return nil, fmt.Errorf("no usable pose yet")
	}
	return m.pois.Add(name, m.lastPose.Position), nil
}

// RenamePOI renames a POI in place.
func (m *Manager) RenamePOI(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.pois.Rename(id, name) {
		return fmt.Errorf("no POI with id %q", id)
	}
	return nil
}

// MovePOI repositions a POI to the current position.
func (m *Manager) MovePOI(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.haveLastPose {
		return fmt.Errorf("no usable pose yet")
	}
	if !m.pois.Move(id, m.lastPose.Position) {
		return fmt.Errorf("no POI with id %q", id)
	}
	return nil
}

// DeletePOI removes a POI.
func (m *Manager) DeletePOI(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.pois.Delete(id) {
		return fmt.Errorf("no POI with id %q", id)
	}
	return nil
}

// POIs lists the active map's POIs.
func (m *Manager) POIs() []*mapstore.POI {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pois.List()
}
