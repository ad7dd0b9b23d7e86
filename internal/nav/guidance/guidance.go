// Package guidance turns the live camera pose and an active route into
// actuator angles, progress announcements, and off-route recovery prompts.
package guidance

import (
	"fmt"
	"math"

	"github.com/banshee-data/wayfinder/internal/actuator"
	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/banshee-data/wayfinder/internal/monitoring"
	"github.com/banshee-data/wayfinder/internal/nav/graph"
	"github.com/banshee-data/wayfinder/internal/nav/planner"
	"github.com/banshee-data/wayfinder/internal/nav/pose"
)

// State is the engine lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateNavigating State = "navigating"
)

// Speaker accepts one utterance for serialized speech output.
// *voice.Queue satisfies it.
type Speaker interface {
	Say(text string)
}

// Pointer aims the directional actuator.
type Pointer interface {
	Point(angle int) error
	Centre() error
}

// Config holds the guidance thresholds. Defaults match production tuning;
// tests tighten them for determinism.
type Config struct {
	// WaypointProximity is the distance below which the next waypoint
	// counts as reached.
	WaypointProximity float64
	// OffRouteDistance is the perpendicular distance to the active route
	// segment above which the user is considered off route.
	OffRouteDistance float64
	// OffRouteDwellSeconds is how long the user must be continuously off
	// route, measured on pose timestamps, before the recovery prompt fires.
	OffRouteDwellSeconds float64
	// Milestones are the remaining-distance announcement thresholds, in
	// strictly descending order.
	Milestones []float64
	// ActuatorIntervalSeconds throttles pointer updates, measured on pose
	// timestamps.
	ActuatorIntervalSeconds float64
	// ActuatorAngleThresholdDegrees suppresses pointer updates that differ
	// from the last sent angle by less than this much, so noise-driven
	// micro-adjustments never flood the low-bandwidth link.
	ActuatorAngleThresholdDegrees float64
	// TurnAroundDegrees is the relative bearing magnitude above which the
	// target is materially behind the user.
	TurnAroundDegrees float64
}

// DefaultConfig returns the production guidance thresholds.
func DefaultConfig() Config {
	return Config{
		WaypointProximity:             1.5,
		OffRouteDistance:              3.0,
		OffRouteDwellSeconds:          3.0,
		Milestones:                    []float64{50, 20, 10, 5, 2},
		ActuatorIntervalSeconds:       1.0,
		ActuatorAngleThresholdDegrees: 30,
		TurnAroundDegrees:             120,
	}
}

// Engine is the navigation state machine. It is not internally synchronized:
// all calls must come from the session's single serial execution context.
type Engine struct {
	cfg     Config
	speaker Speaker
	pointer Pointer

	// OnEvent, when set, receives journal-worthy events: route_planned,
	// route_failed, arrival, off_route, milestone, turn_around.
	OnEvent func(kind, detail string)

	state State
	route planner.Route
	dest  string

	waypointIdx    int
	offRouteSince  *float64
	milestoneIdx   int
	turnAroundSaid bool

	lastAngle      int
	haveLastAngle  bool
	lastActuatorAt float64
	haveActuatorAt bool
}

// NewEngine returns an idle engine.
func NewEngine(cfg Config, speaker Speaker, pointer Pointer) *Engine {
	return &Engine{
		cfg:     cfg,
		speaker: speaker,
		pointer: pointer,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Navigating reports whether a route is active.
func (e *Engine) Navigating() bool { return e.state == StateNavigating }

// Route returns the active route, or nil when idle.
func (e *Engine) Route() planner.Route { return e.route }

// WaypointIndex returns the index of the waypoint currently being steered
// toward.
func (e *Engine) WaypointIndex() int { return e.waypointIdx }

// Start plans a route from the current position to a destination and begins
// guidance. A start request while already navigating is rejected, not
// queued. Planning failure is reported by voice and leaves the engine idle;
// it is a normal outcome, never retried.
func (e *Engine) Start(from geom.Vec, destName string, destPos geom.Vec, g *graph.SpatialGraph) bool {
	if e.state == StateNavigating {
		monitoring.Logf("guidance: start rejected, already navigating to %s", e.dest)
		return false
	}

	route, ok := planner.PlanRoute(g, from, destPos)
	if !ok {
		e.speaker.Say(fmt.Sprintf("No route to %s could be found.", destName))
		e.emit("route_failed", destName)
		return false
	}

	e.begin(route, destName)
	return true
}

// begin enters the navigating state for a freshly planned route.
func (e *Engine) begin(route planner.Route, destName string) {
	e.state = StateNavigating
	e.route = route
	e.dest = destName
	e.waypointIdx = 0
	e.offRouteSince = nil
	e.milestoneIdx = 0
	e.turnAroundSaid = false
	e.haveActuatorAt = false
	e.haveLastAngle = false

	e.centre()

	total := route.TotalLength()
	e.speaker.Say(fmt.Sprintf("Navigating to %s. The route is %.0f metres.", destName, total))
	e.emit("route_planned", fmt.Sprintf("%s total=%.1fm waypoints=%d", destName, total, len(route)))
}

// Stop cancels navigation. No announcement is made, distinguishing a user
// cancel from an arrival. Stopping while idle is a safe no-op.
func (e *Engine) Stop() {
	if e.state != StateNavigating {
		return
	}
	e.clear()
	e.centre()
}

// AddPose feeds one pose sample through the state machine. Samples are
// ignored entirely while idle and at low or unavailable tracking confidence.
func (e *Engine) AddPose(s pose.Sample) {
	if e.state != StateNavigating {
		return
	}
	if !s.Confidence.Usable() {
		return
	}

	target := e.route[e.waypointIdx]
	distToNext := geom.Dist(s.Position, target)

	// Waypoint advance.
	if distToNext < e.cfg.WaypointProximity {
		e.waypointIdx++
		e.turnAroundSaid = false
		if e.waypointIdx >= len(e.route) {
			e.arrive()
			return
		}
		target = e.route[e.waypointIdx]
		distToNext = geom.Dist(s.Position, target)
	}

	remaining := distToNext + geom.PathLength(e.route[e.waypointIdx:])

	e.checkOffRoute(s)
	e.checkMilestones(remaining)
	e.updatePointer(s, target)
}

// arrive transitions to idle with the arrival announcement.
func (e *Engine) arrive() {
	dest := e.dest
	e.clear()
	e.centre()
	e.speaker.Say(fmt.Sprintf("You have arrived at %s.", dest))
	e.emit("arrival", dest)
}

// clear drops all per-session state.
func (e *Engine) clear() {
	e.state = StateIdle
	e.route = nil
	e.dest = ""
	e.waypointIdx = 0
	e.offRouteSince = nil
	e.milestoneIdx = 0
	e.turnAroundSaid = false
	e.haveActuatorAt = false
	e.haveLastAngle = false
}

// checkOffRoute measures the perpendicular distance to the active route
// segment and, after a continuous dwell beyond the threshold, prompts once.
// The timer restarts after each prompt so a persistent excursion nags at
// dwell-length intervals rather than every frame, and resets immediately on
// returning within threshold.
func (e *Engine) checkOffRoute(s pose.Sample) {
	var dist float64
	if e.waypointIdx == 0 {
		// No previous waypoint: the segment degenerates to a point at the
		// current position.
		dist = 0
	} else {
		dist = geom.SegmentDistance(s.Position, e.route[e.waypointIdx-1], e.route[e.waypointIdx])
	}

	if dist <= e.cfg.OffRouteDistance {
		e.offRouteSince = nil
		return
	}

	if e.offRouteSince == nil {
		since := s.Timestamp
		e.offRouteSince = &since
		return
	}

	if s.Timestamp-*e.offRouteSince > e.cfg.OffRouteDwellSeconds {
		e.speaker.Say("You are off route.")
		e.emit("off_route", fmt.Sprintf("distance=%.1fm", dist))
		e.offRouteSince = nil
	}
}

// checkMilestones announces the first not-yet-announced threshold the
// remaining distance has dropped below. Thresholds are monotonic: crossing
// a smaller one implicitly consumes every larger one.
func (e *Engine) checkMilestones(remaining float64) {
	crossed := -1
	for e.milestoneIdx < len(e.cfg.Milestones) && remaining < e.cfg.Milestones[e.milestoneIdx] {
		crossed = e.milestoneIdx
		e.milestoneIdx++
	}
	if crossed >= 0 {
		m := e.cfg.Milestones[crossed]
		e.speaker.Say(fmt.Sprintf("%.0f metres remaining.", m))
		e.emit("milestone", fmt.Sprintf("%.0f", m))
	}
}

// updatePointer computes the bearing to the target waypoint relative to the
// user's facing direction and aims the actuator, throttled and change-gated
// to protect the low-bandwidth link.
func (e *Engine) updatePointer(s pose.Sample, target geom.Vec) {
	if e.haveActuatorAt && s.Timestamp-e.lastActuatorAt < e.cfg.ActuatorIntervalSeconds {
		return
	}

	bearing := geom.Bearing(s.Position, target)
	relative := geom.NormalizeDegrees(bearing - s.Yaw)

	if math.Abs(relative) > e.cfg.TurnAroundDegrees && !e.turnAroundSaid {
		e.speaker.Say("Turn around.")
		e.emit("turn_around", fmt.Sprintf("relative=%.0f", relative))
		e.turnAroundSaid = true
	}

	// The actuator only covers the front arc. Straight ahead maps to the
	// midpoint and the sign is inverted to match the physical mounting: a
	// target to the user's right maps to a smaller actuator value.
	clamped := geom.ClampDegrees(relative, 90)
	angle := int(math.Round(float64(actuator.CentreAngle) - clamped))

	if e.haveLastAngle && math.Abs(float64(angle-e.lastAngle)) < e.cfg.ActuatorAngleThresholdDegrees {
		return
	}

	if err := e.pointer.Point(angle); err != nil {
		monitoring.Logf("guidance: pointer update failed: %v", err)
		return
	}
	e.lastAngle = angle
	e.haveLastAngle = true
	e.lastActuatorAt = s.Timestamp
	e.haveActuatorAt = true
}

// centre aims the pointer straight ahead and seeds the change gate.
func (e *Engine) centre() {
	if err := e.pointer.Centre(); err != nil {
		monitoring.Logf("guidance: failed to centre pointer: %v", err)
	}
	e.lastAngle = actuator.CentreAngle
	e.haveLastAngle = true
}

func (e *Engine) emit(kind, detail string) {
	if e.OnEvent != nil {
		e.OnEvent(kind, detail)
	}
}
