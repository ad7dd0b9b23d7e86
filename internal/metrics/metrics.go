// Package metrics exposes prometheus counters for the guidance loop.
// Registration uses promauto so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesProcessed counts pose frames that made it through the gate.
	FramesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wayfinder_frames_processed_total",
		Help: "Pose frames processed by the session loop",
	})

	// FramesDropped counts pose frames dropped by the single-slot gate
	// while a previous frame was still being handled.
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wayfinder_frames_dropped_total",
		Help: "Pose frames dropped by the backpressure gate",
	})

	// SamplesAccepted counts recorder samples that mutated the graph.
	SamplesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wayfinder_recorder_samples_accepted_total",
		Help: "Floor samples that mutated the recorded graph",
	})

	// RoutesPlanned counts successful route plans, RoutesFailed the
	// unreachable-destination outcomes.
	RoutesPlanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wayfinder_routes_planned_total",
		Help: "Successfully planned navigation routes",
	})
	RoutesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wayfinder_routes_failed_total",
		Help: "Route requests with no reachable path",
	})

	// Announcements counts spoken utterances by kind.
	Announcements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayfinder_announcements_total",
		Help: "Spoken guidance announcements",
	}, []string{"kind"})

	// ActuatorCommands counts angle commands written to the pointer link.
	ActuatorCommands = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wayfinder_actuator_commands_total",
		Help: "Angle commands sent to the directional actuator",
	})

	// CloudPoints tracks the retained point-cloud size.
	CloudPoints = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wayfinder_cloud_points",
		Help: "Points currently retained by the voxel deduplicator",
	})
)
