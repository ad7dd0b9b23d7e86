package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/banshee-data/wayfinder/internal/geom"
	"github.com/banshee-data/wayfinder/internal/nav/pose"
)

// fixtureFrame is one JSON line in a pose fixture file.
type fixtureFrame struct {
	T          float64      `json:"t"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Z          float64      `json:"z"`
	Yaw        float64      `json:"yaw"`
	Confidence string       `json:"confidence"`
	Features   [][3]float64 `json:"features,omitempty"`
}

func parseConfidence(s string) pose.Confidence {
	switch s {
	case "high":
		return pose.ConfidenceHigh
	case "medium":
		return pose.ConfidenceMedium
	case "low":
		return pose.ConfidenceLow
	default:
		return pose.ConfidenceUnavailable
	}
}

// loadFixtures reads a JSON-lines pose fixture file.
func loadFixtures(path string) ([]pose.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures file: %w", err)
	}
	defer f.Close()

	var frames []pose.Frame
	scan := bufio.NewScanner(f)
	line := 0
	for scan.Scan() {
		line++
		text := scan.Text()
		if text == "" {
			continue
		}
		var ff fixtureFrame
		if err := json.Unmarshal([]byte(text), &ff); err != nil {
			return nil, fmt.Errorf("fixtures line %d: %w", line, err)
		}
		frame := pose.Frame{
			Sample: pose.Sample{
				Timestamp:  ff.T,
				Position:   geom.Vec{X: ff.X, Y: ff.Y, Z: ff.Z},
				Yaw:        ff.Yaw,
				Confidence: parseConfidence(ff.Confidence),
			},
		}
		for _, p := range ff.Features {
			frame.Features = append(frame.Features, geom.Vec{X: p[0], Y: p[1], Z: p[2]})
		}
		frames = append(frames, frame)
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}
