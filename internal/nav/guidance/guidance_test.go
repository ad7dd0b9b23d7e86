package guidance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/banshee-data/wayfinder/internal/nav/graph"
	"github.com/banshee-data/wayfinder/internal/nav/planner"
	"github.com/banshee-data/wayfinder/internal/nav/pose"
)

type fakeSpeaker struct {
	said []string
}

func (s *fakeSpeaker) Say(text string) { s.said = append(s.said, text) }

func (s *fakeSpeaker) count(text string) int {
	n := 0
	for _, u := range s.said {
		if u == text {
			n++
		}
	}
	return n
}

type fakePointer struct {
	angles  []int
	centres int
	err     error
}

func (p *fakePointer) Point(angle int) error {
	if p.err != nil {
		return p.err
	}
	p.angles = append(p.angles, angle)
	return nil
}

func (p *fakePointer) Centre() error {
	p.centres++
	return nil
}

// testConfig returns the production thresholds with milestones disabled so
// progress announcements stay out of unrelated assertions.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Milestones = nil
	return cfg
}

func highPose(ts, x, z, yaw float64) pose.Sample {
	return pose.Sample{
		Timestamp:  ts,
		Position:   geom.Vec{X: x, Z: z},
		Yaw:        yaw,
		Confidence: pose.ConfidenceHigh,
	}
}

func newTestEngine(cfg Config) (*Engine, *fakeSpeaker, *fakePointer) {
	sp := &fakeSpeaker{}
	pt := &fakePointer{}
	return NewEngine(cfg, sp, pt), sp, pt
}

func TestStartPlansAndAnnounces(t *testing.T) {
	g := graph.New()
	g.InsertNode("a", geom.Vec{X: 0, Y: 0, Z: 0})
	g.InsertNode("b", geom.Vec{X: 10, Y: 0, Z: 0})
	g.InsertEdge("ab", "a", "b", 10)

	e, sp, pt := newTestEngine(testConfig())
	ok := e.Start(geom.Vec{X: 0, Y: 0, Z: 0}, "kitchen", geom.Vec{X: 10, Y: 0, Z: 0}, g)
	require.True(t, ok)

	assert.Equal(t, StateNavigating, e.State())
	assert.Len(t, e.Route(), 4)
	require.Len(t, sp.said, 1)
	assert.Equal(t, "Navigating to kitchen. The route is 10 metres.", sp.said[0])
	assert.Equal(t, 1, pt.centres)
}

func TestStartRejectedWhileNavigating(t *testing.T) {
	g := graph.New()
	g.InsertNode("a", geom.Vec{X: 0, Y: 0, Z: 0})
	g.InsertNode("b", geom.Vec{X: 10, Y: 0, Z: 0})
	g.InsertEdge("ab", "a", "b", 10)

	e, sp, _ := newTestEngine(testConfig())
	require.True(t, e.Start(geom.Vec{}, "kitchen", geom.Vec{X: 10}, g))

	// The second request is rejected outright, not queued: no announcement,
	// no change to the active route.
	assert.False(t, e.Start(geom.Vec{}, "desk", geom.Vec{X: 10}, g))
	assert.Len(t, sp.said, 1)
	assert.Equal(t, StateNavigating, e.State())
}

func TestStartNoRoute(t *testing.T) {
	g := graph.New()
	g.InsertNode("a", geom.Vec{X: 0, Y: 0, Z: 0})
	g.InsertNode("b", geom.Vec{X: 50, Y: 0, Z: 0})

	e, sp, _ := newTestEngine(testConfig())
	ok := e.Start(geom.Vec{X: 0, Y: 0, Z: 0}, "kitchen", geom.Vec{X: 50, Y: 0, Z: 0}, g)

	assert.False(t, ok)
	assert.Equal(t, StateIdle, e.State())
	require.Len(t, sp.said, 1)
	assert.Equal(t, "No route to kitchen could be found.", sp.said[0])
}

func TestWaypointAdvanceAndArrival(t *testing.T) {
	e, sp, pt := newTestEngine(testConfig())
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}, "kitchen")

	// Within proximity of waypoint 0: advance to waypoint 1.
	e.AddPose(highPose(0, 0, 0.5, 0))
	assert.Equal(t, 1, e.WaypointIndex())
	assert.Equal(t, StateNavigating, e.State())

	// Within proximity of the final waypoint: arrival.
	e.AddPose(highPose(1, 9.5, 0, 0))
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, 1, sp.count("You have arrived at kitchen."))
	assert.Equal(t, 2, pt.centres)

	// Further poses are ignored once idle.
	e.AddPose(highPose(2, 9.5, 0, 0))
	assert.Equal(t, 1, sp.count("You have arrived at kitchen."))
}

func TestLowConfidencePosesIgnored(t *testing.T) {
	e, sp, _ := newTestEngine(testConfig())
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}, "kitchen")
	announced := len(sp.said)

	for _, c := range []pose.Confidence{pose.ConfidenceLow, pose.ConfidenceUnavailable} {
		e.AddPose(pose.Sample{Timestamp: 1, Position: geom.Vec{}, Confidence: c})
	}
	assert.Equal(t, 0, e.WaypointIndex())
	assert.Len(t, sp.said, announced)
}

func TestStopIsSilentAndIdempotent(t *testing.T) {
	e, sp, pt := newTestEngine(testConfig())
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}, "kitchen")
	announced := len(sp.said)

	e.Stop()
	assert.Equal(t, StateIdle, e.State())
	assert.Nil(t, e.Route())
	assert.Len(t, sp.said, announced, "stop must not announce")
	assert.Equal(t, 2, pt.centres)

	e.Stop()
	assert.Equal(t, 2, pt.centres, "stop while idle must be a no-op")
}

func TestOffRouteAnnouncement(t *testing.T) {
	e, sp, _ := newTestEngine(testConfig())
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 20, Y: 0, Z: 0}}, "kitchen")

	// Pass waypoint 0 so the active segment exists.
	e.AddPose(highPose(0, 0, 0, 0))
	require.Equal(t, 1, e.WaypointIndex())

	// 5 m off the segment: the dwell timer starts, nothing is said yet.
	e.AddPose(highPose(1, 10, 5, 0))
	e.AddPose(highPose(2, 10, 5, 0))
	assert.Equal(t, 0, sp.count("You are off route."))

	// Past the 3 s dwell: exactly one prompt, then the timer restarts.
	e.AddPose(highPose(4.5, 10, 5, 0))
	assert.Equal(t, 1, sp.count("You are off route."))
	e.AddPose(highPose(5, 10, 5, 0))
	assert.Equal(t, 1, sp.count("You are off route."))

	// A second continuous dwell prompts again.
	e.AddPose(highPose(8.6, 10, 5, 0))
	assert.Equal(t, 2, sp.count("You are off route."))

	// Returning to the segment resets the timer; a brief later excursion
	// does not prompt.
	e.AddPose(highPose(9, 10, 0, 0))
	e.AddPose(highPose(10, 10, 5, 0))
	e.AddPose(highPose(11, 10, 5, 0))
	assert.Equal(t, 2, sp.count("You are off route."))
}

func TestOffRouteBeforeFirstWaypoint(t *testing.T) {
	e, sp, _ := newTestEngine(testConfig())
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 20, Y: 0, Z: 0}}, "kitchen")

	// No previous waypoint yet: the off-route check cannot fire no matter
	// how far the user stands from the route.
	e.AddPose(highPose(0, 50, 50, 0))
	e.AddPose(highPose(10, 50, 50, 0))
	assert.Equal(t, 0, sp.count("You are off route."))
}

func TestMilestones(t *testing.T) {
	cfg := testConfig()
	cfg.Milestones = []float64{50, 20, 10, 5, 2}
	e, sp, _ := newTestEngine(cfg)
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 0}}, "kitchen")

	// Advance past waypoint 0; 100 m remaining crosses nothing.
	e.AddPose(highPose(0, 0, 0, 0))
	assert.Equal(t, 0, sp.count("50 metres remaining."))

	e.AddPose(highPose(1, 60, 0, 0))
	assert.Equal(t, 1, sp.count("50 metres remaining."))

	// A jump across two thresholds announces only the smallest crossed.
	e.AddPose(highPose(2, 92, 0, 0))
	assert.Equal(t, 0, sp.count("20 metres remaining."))
	assert.Equal(t, 1, sp.count("10 metres remaining."))

	// Crossed thresholds never repeat.
	e.AddPose(highPose(3, 92.5, 0, 0))
	assert.Equal(t, 1, sp.count("10 metres remaining."))
}

func TestTurnAroundOncePerWaypoint(t *testing.T) {
	e, sp, _ := newTestEngine(testConfig())
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 10}}, "kitchen")

	// Advance to waypoint 1, which is directly behind a user facing -Z.
	e.AddPose(highPose(0, 0, -0.5, 0))
	require.Equal(t, 1, e.WaypointIndex())
	assert.Equal(t, 1, sp.count("Turn around."))

	e.AddPose(highPose(2, 0, -0.5, 0))
	e.AddPose(highPose(4, 0, -0.5, 0))
	assert.Equal(t, 1, sp.count("Turn around."), "prompt must not repeat for the same waypoint")
}

func TestPointerThrottleAndChangeGate(t *testing.T) {
	e, _, pt := newTestEngine(testConfig())
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -100}}, "kitchen")

	// Target dead ahead: angle 90 matches the centred pointer within the
	// 30 degree gate, so nothing is sent.
	e.AddPose(highPose(0, 0, 0, 0))
	require.Equal(t, 1, e.WaypointIndex())
	assert.Empty(t, pt.angles)

	// Facing +X the target is 90 degrees to the left: hard-left command.
	e.AddPose(highPose(0.1, 0, 0, 90))
	assert.Equal(t, []int{180}, pt.angles)

	// Inside the 1 s throttle window: suppressed despite a large change.
	e.AddPose(highPose(0.5, 0, 0, 0))
	assert.Equal(t, []int{180}, pt.angles)

	// Window elapsed and the angle moved by 90: sent.
	e.AddPose(highPose(1.2, 0, 0, 0))
	assert.Equal(t, []int{180, 90}, pt.angles)

	// Window elapsed but only a 10 degree change: suppressed.
	e.AddPose(highPose(2.5, 0, 0, 10))
	assert.Equal(t, []int{180, 90}, pt.angles)
}

func TestPointerAngleMapping(t *testing.T) {
	cfg := testConfig()
	cfg.ActuatorIntervalSeconds = 0
	cfg.ActuatorAngleThresholdDegrees = 0
	cfg.TurnAroundDegrees = 180

	cases := []struct {
		name string
		yaw  float64
		want int
	}{
		{"ahead", 0, 90},
		{"target hard right", -90, 0},
		{"target hard left", 90, 180},
		{"target slightly right", -30, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, _, pt := newTestEngine(cfg)
			e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -100}}, "kitchen")
			e.AddPose(highPose(0, 0, 0, tc.yaw))
			require.Len(t, pt.angles, 1)
			assert.Equal(t, tc.want, pt.angles[0])
		})
	}
}

func TestPointerFailureDoesNotAdvanceGate(t *testing.T) {
	e, _, pt := newTestEngine(testConfig())
	e.begin(planner.Route{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -100}}, "kitchen")

	pt.err = errors.New("port gone")
	e.AddPose(highPose(0, 0, 0, 90))
	assert.Empty(t, pt.angles)

	// Once the link recovers the same update goes through immediately: the
	// failed send must not have armed the throttle.
	pt.err = nil
	e.AddPose(highPose(0.1, 0, 0, 90))
	assert.Equal(t, []int{180}, pt.angles)
}
