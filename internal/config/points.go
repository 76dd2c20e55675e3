package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tubegen/pkg/math"
	"github.com/Faultbox/tubegen/pkg/tube"
)

// PointsFile is the on-disk layout of an anchor list.
//
//	default_thickness: 0.4
//	points:
//	  - position: [0, 0, 0]
//	    thickness: 0.5
//	  - position: [0, 0, 1]
type PointsFile struct {
	DefaultThickness *float32     `yaml:"default_thickness,omitempty"`
	Points           []PointEntry `yaml:"points"`
}

// PointEntry is one anchor. A missing thickness falls back to the file default.
type PointEntry struct {
	Position  [3]float32 `yaml:"position,flow"`
	Thickness *float32   `yaml:"thickness,omitempty"`
}

// LoadPoints reads a points file into a polyline.
func LoadPoints(path string) (*tube.Polyline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePoints(data)
}

// ParsePoints decodes YAML point data into a polyline.
func ParsePoints(data []byte) (*tube.Polyline, error) {
	var f PointsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing points: %w", err)
	}

	def := tube.DefaultThickness
	if f.DefaultThickness != nil {
		def = *f.DefaultThickness
	}

	points := make([]tube.Point, len(f.Points))
	for i, e := range f.Points {
		thickness := def
		if e.Thickness != nil {
			thickness = *e.Thickness
		}
		if thickness < 0 {
			return nil, fmt.Errorf("point %d: negative thickness %v", i, thickness)
		}
		points[i] = tube.Point{
			Position:  math.Vec3{X: e.Position[0], Y: e.Position[1], Z: e.Position[2]},
			Thickness: thickness,
		}
	}
	return tube.NewPolyline(points...), nil
}
