// Package pose defines the camera pose samples consumed by the navigation
// core and the backpressure primitive that keeps the high-frequency tracker
// callback from re-entering pose processing.
package pose

import "github.com/banshee-data/wayfinder/internal/geom"

// Confidence is the tracker's discrete estimate of pose quality.
type Confidence int

const (
	ConfidenceUnavailable Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the confidence name.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "unavailable"
	}
}

// Usable reports whether guidance may steer on this confidence level.
// Low and unavailable poses are ignored entirely to avoid steering on noise.
func (c Confidence) Usable() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium
}

// Sample is one camera pose produced by the external tracker.
type Sample struct {
	// Timestamp is monotonic seconds, not wall clock. All guidance timing
	// (off-route dwell, actuator throttling) is measured against it.
	Timestamp  float64
	Position   geom.Vec
	Yaw        float64 // degrees, same convention as geom.Bearing
	Confidence Confidence
}

// Frame is the per-callback payload: the pose plus any raw feature points
// the tracker surfaced this frame. Extraction from the underlying tracking
// frame must happen synchronously on the producer callback; a Frame retains
// nothing expensive.
type Frame struct {
	Sample   Sample
	Features []geom.Vec
}

// Gate is a single-slot, drop-newest backpressure primitive: a bounded
// channel of capacity one with a non-blocking send. If a frame arrives
// while the previous one is still being processed, the new frame is dropped
// entirely, never queued, keeping latency bounded under load.
type Gate struct {
	ch chan Frame
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	return &Gate{ch: make(chan Frame, 1)}
}

// Offer submits a frame without blocking. It reports false when the slot is
// occupied and the frame was dropped.
func (g *Gate) Offer(f Frame) bool {
	select {
	case g.ch <- f:
		return true
	default:
		return false
	}
}

// Frames returns the consumer side of the gate.
func (g *Gate) Frames() <-chan Frame {
	return g.ch
}
