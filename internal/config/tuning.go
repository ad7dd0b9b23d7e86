// Package config loads the navigation tuning parameters.
//
// All thresholds that shape recording and guidance behaviour live here so
// tests can tighten them deterministically instead of relying on ambient
// constants.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig represents the root configuration for tuning parameters.
// Fields are pointers so a partial JSON file only overrides what it names;
// the Get* accessors supply defaults for everything else.
type TuningConfig struct {
	// Recorder params
	SampleDistance   *float64 `json:"sample_distance,omitempty"`
	MergeDistance    *float64 `json:"merge_distance,omitempty"`
	JunctionDistance *float64 `json:"junction_distance,omitempty"`

	// Point cloud params
	VoxelSize      *float64 `json:"voxel_size,omitempty"`
	MaxCloudPoints *int     `json:"max_cloud_points,omitempty"`

	// Guidance params
	WaypointProximity    *float64  `json:"waypoint_proximity,omitempty"`
	OffRouteDistance     *float64  `json:"off_route_distance,omitempty"`
	OffRouteDwellSeconds *float64  `json:"off_route_dwell_seconds,omitempty"`
	MilestonesMetres     []float64 `json:"milestones_metres,omitempty"`

	// Actuator params
	ActuatorIntervalSeconds      *float64 `json:"actuator_interval_seconds,omitempty"`
	ActuatorAngleThresholdDegree *float64 `json:"actuator_angle_threshold_degrees,omitempty"`
	TurnAroundDegrees            *float64 `json:"turn_around_degrees,omitempty"`

	// Session params
	FloorY *float64 `json:"floor_y,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset so every
// accessor falls back to its default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.SampleDistance != nil && *c.SampleDistance <= 0 {
		return fmt.Errorf("sample_distance must be positive, got %f", *c.SampleDistance)
	}
	if c.MergeDistance != nil && *c.MergeDistance <= 0 {
		return fmt.Errorf("merge_distance must be positive, got %f", *c.MergeDistance)
	}
	if c.JunctionDistance != nil && *c.JunctionDistance <= 0 {
		return fmt.Errorf("junction_distance must be positive, got %f", *c.JunctionDistance)
	}
	if c.VoxelSize != nil && *c.VoxelSize <= 0 {
		return fmt.Errorf("voxel_size must be positive, got %f", *c.VoxelSize)
	}
	if c.MaxCloudPoints != nil && *c.MaxCloudPoints <= 0 {
		return fmt.Errorf("max_cloud_points must be positive, got %d", *c.MaxCloudPoints)
	}
	if c.WaypointProximity != nil && *c.WaypointProximity <= 0 {
		return fmt.Errorf("waypoint_proximity must be positive, got %f", *c.WaypointProximity)
	}
	if c.OffRouteDistance != nil && *c.OffRouteDistance <= 0 {
		return fmt.Errorf("off_route_distance must be positive, got %f", *c.OffRouteDistance)
	}
	if c.OffRouteDwellSeconds != nil && *c.OffRouteDwellSeconds <= 0 {
		return fmt.Errorf("off_route_dwell_seconds must be positive, got %f", *c.OffRouteDwellSeconds)
	}
	for i := 1; i < len(c.MilestonesMetres); i++ {
		if c.MilestonesMetres[i] >= c.MilestonesMetres[i-1] {
			return fmt.Errorf("milestones_metres must be strictly descending")
		}
	}
	if c.ActuatorIntervalSeconds != nil && *c.ActuatorIntervalSeconds < 0 {
		return fmt.Errorf("actuator_interval_seconds must be non-negative, got %f", *c.ActuatorIntervalSeconds)
	}
	if c.ActuatorAngleThresholdDegree != nil && *c.ActuatorAngleThresholdDegree < 0 {
		return fmt.Errorf("actuator_angle_threshold_degrees must be non-negative, got %f", *c.ActuatorAngleThresholdDegree)
	}
	if c.TurnAroundDegrees != nil && (*c.TurnAroundDegrees <= 0 || *c.TurnAroundDegrees > 180) {
		return fmt.Errorf("turn_around_degrees must be in (0, 180], got %f", *c.TurnAroundDegrees)
	}
	return nil
}

// GetSampleDistance returns the sample_distance value or the default.
func (c *TuningConfig) GetSampleDistance() float64 {
	if c.SampleDistance == nil {
		return 1.0
	}
	return *c.SampleDistance
}

// GetMergeDistance returns the merge_distance value or the default, which
// matches the sample distance.
func (c *TuningConfig) GetMergeDistance() float64 {
	if c.MergeDistance == nil {
		return c.GetSampleDistance()
	}
	return *c.MergeDistance
}

// GetJunctionDistance returns the junction_distance value or the default.
func (c *TuningConfig) GetJunctionDistance() float64 {
	if c.JunctionDistance == nil {
		return 2.0
	}
	return *c.JunctionDistance
}

// GetVoxelSize returns the voxel_size value or the default.
func (c *TuningConfig) GetVoxelSize() float64 {
	if c.VoxelSize == nil {
		return 0.1
	}
	return *c.VoxelSize
}

// GetMaxCloudPoints returns the max_cloud_points value or the default.
func (c *TuningConfig) GetMaxCloudPoints() int {
	if c.MaxCloudPoints == nil {
		return 50000
	}
	return *c.MaxCloudPoints
}

// GetWaypointProximity returns the waypoint_proximity value or the default.
func (c *TuningConfig) GetWaypointProximity() float64 {
	if c.WaypointProximity == nil {
		return 1.5
	}
	return *c.WaypointProximity
}

// GetOffRouteDistance returns the off_route_distance value or the default.
func (c *TuningConfig) GetOffRouteDistance() float64 {
	if c.OffRouteDistance == nil {
		return 3.0
	}
	return *c.OffRouteDistance
}

// GetOffRouteDwellSeconds returns the off_route_dwell_seconds value or the default.
func (c *TuningConfig) GetOffRouteDwellSeconds() float64 {
	if c.OffRouteDwellSeconds == nil {
		return 3.0
	}
	return *c.OffRouteDwellSeconds
}

// GetMilestonesMetres returns the milestones_metres value or the default.
func (c *TuningConfig) GetMilestonesMetres() []float64 {
	if c.MilestonesMetres == nil {
		return []float64{50, 20, 10, 5, 2}
	}
	return c.MilestonesMetres
}

// GetActuatorIntervalSeconds returns the actuator_interval_seconds value or the default.
func (c *TuningConfig) GetActuatorIntervalSeconds() float64 {
	if c.ActuatorIntervalSeconds == nil {
		return 1.0
	}
	return *c.ActuatorIntervalSeconds
}

// GetActuatorAngleThresholdDegrees returns the actuator_angle_threshold_degrees value or the default.
func (c *TuningConfig) GetActuatorAngleThresholdDegrees() float64 {
	if c.ActuatorAngleThresholdDegree == nil {
		return 30.0
	}
	return *c.ActuatorAngleThresholdDegree
}

// GetTurnAroundDegrees returns the turn_around_degrees value or the default.
func (c *TuningConfig) GetTurnAroundDegrees() float64 {
	if c.TurnAroundDegrees == nil {
		return 120.0
	}
	return *c.TurnAroundDegrees
}

// GetFloorY returns the floor_y value or the default.
func (c *TuningConfig) GetFloorY() float64 {
	if c.FloorY == nil {
		return 0.0
	}
	return *c.FloorY
}
