package tube

import (
	"fmt"
	gomath "math"
	"strings"
)

// MinResolution is the smallest number of vertices per ring.
const MinResolution = 3

// TwistAxis selects how the twist corrector rotates a node's frame.
type TwistAxis int

const (
	// TwistAxisTangent rotates node i+1 about its own direction by the
	// negated signed angle between the projected right axes. This is an
	// approximation: the tangent and the segment diverge at sharp bends, so
	// the projected axes only agree exactly when they are parallel. It is not
	// idempotent on non-planar paths; a second pass over a helix still
	// rotates frames by a small residual angle.
	TwistAxisTangent TwistAxis = iota
	// TwistAxisExact rotates node i+1 about its own direction by the angle
	// that makes both projected right axes coincide. Running it again leaves
	// the frames unchanged.
	TwistAxisExact
)

// String returns the config name of the axis mode.
func (a TwistAxis) String() string {
	switch a {
	case TwistAxisTangent:
		return "tangent"
	case TwistAxisExact:
		return "exact"
	default:
		return fmt.Sprintf("TwistAxis(%d)", int(a))
	}
}

// ParseTwistAxis converts a config name into a TwistAxis.
func ParseTwistAxis(s string) (TwistAxis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tangent":
		return TwistAxisTangent, nil
	case "exact":
		return TwistAxisExact, nil
	default:
		return 0, fmt.Errorf("%w: unknown twist axis %q", ErrInvalidInput, s)
	}
}

// Options controls a generation pass.
type Options struct {
	// Resolution is the number of vertices per ring (>= 3).
	Resolution int
	// MinScale and MaxScale bound the curvature scale factor 1/|BendNormal|.
	MinScale float32
	MaxScale float32
	// ScaleCorrection widens rings along the bend normal at turns.
	ScaleCorrection bool
	// TwistCorrection aligns every frame to its predecessor.
	TwistCorrection bool
	TwistAxis       TwistAxis
	// Workers is the goroutine count for the parallel stages (0 = GOMAXPROCS).
	Workers int
	// Grain is the number of nodes per parallel work item (0 = default).
	Grain int
}

// DefaultOptions returns the settings used by the viewer and CLI.
func DefaultOptions() Options {
	return Options{
		Resolution:      8,
		MinScale:        0.5,
		MaxScale:        2,
		ScaleCorrection: true,
		TwistCorrection: true,
		TwistAxis:       TwistAxisTangent,
	}
}

// Validate checks the options before any buffer is allocated.
func (o Options) Validate() error {
	if o.Resolution < MinResolution {
		return fmt.Errorf("%w: resolution %d, need at least %d", ErrInvalidInput, o.Resolution, MinResolution)
	}
	if !(o.MinScale > 0) || !(o.MaxScale >= o.MinScale) || gomath.IsInf(float64(o.MaxScale), 0) {
		return fmt.Errorf("%w: scale bounds [%v, %v]", ErrInvalidInput, o.MinScale, o.MaxScale)
	}
	if o.TwistAxis != TwistAxisTangent && o.TwistAxis != TwistAxisExact {
		return fmt.Errorf("%w: %v", ErrInvalidInput, o.TwistAxis)
	}
	return nil
}

// validatePolyline rejects polylines the frame stages cannot handle.
func validatePolyline(p *Polyline) error {
	if p == nil || p.Len() < 2 {
		n := 0
		if p != nil {
			n = p.Len()
		}
		return fmt.Errorf("%w: %d nodes, need at least 2", ErrInvalidInput, n)
	}
	nodes := p.nodes
	for i := range nodes {
		if !nodes[i].Position.IsFinite() {
			return fmt.Errorf("%w: node %d position %v", ErrInvalidInput, i, nodes[i].Position)
		}
		t := float64(nodes[i].Thickness)
		if gomath.IsNaN(t) || gomath.IsInf(t, 0) {
			return fmt.Errorf("%w: node %d thickness %v", ErrInvalidInput, i, nodes[i].Thickness)
		}
		if i > 0 && nodes[i].Position.Sub(nodes[i-1].Position).Length() < coincidentEpsilon {
			return fmt.Errorf("%w: nodes %d and %d coincide", ErrInvalidInput, i-1, i)
		}
	}
	return nil
}
