package main

import (
	gomath "math"
	"strings"
	"testing"

	"github.com/Faultbox/tubegen/pkg/math"
	"github.com/Faultbox/tubegen/pkg/tube"
)

func generateHelix(t *testing.T, axis tube.TwistAxis) (*tube.Polyline, *tube.Mesh) {
	t.Helper()
	p := tube.NewPolyline()
	for i := 0; i < 40; i++ {
		a := float64(i) * 0.4
		p.AddPoint(math.Vec3{X: float32(2 * gomath.Cos(a)), Y: float32(2 * gomath.Sin(a)), Z: float32(i) * 0.25}, 0.3)
	}
	opts := tube.DefaultOptions()
	opts.TwistAxis = axis
	gen, err := tube.NewGenerator(opts)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	defer gen.Close()
	m, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return p, m
}

func TestCheckPassesGeneratedMesh(t *testing.T) {
	for _, axis := range []tube.TwistAxis{tube.TwistAxisTangent, tube.TwistAxisExact} {
		t.Run(axis.String(), func(t *testing.T) {
			p, m := generateHelix(t, axis)
			if issues := checkFrames(p.Nodes()); len(issues) != 0 {
				t.Errorf("frame issues: %v", issues)
			}
			if issues := checkMesh(m); len(issues) != 0 {
				t.Errorf("mesh issues: %v", issues)
			}
		})
	}
}

func TestCheckFramesReportsBadFrames(t *testing.T) {
	nodes := []tube.Node{
		{Direction: math.Forward, Right: math.Right, Up: math.Up.Negate()}, // left-handed
		{Direction: math.Forward, Right: math.Right.Scale(2), Up: math.Up},
		{Direction: math.Forward, Right: math.Forward, Up: math.Up},
	}
	issues := checkFrames(nodes)
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3: %v", len(issues), issues)
	}
	for i, want := range []string{"left-handed", "unit length", "orthogonal"} {
		if !strings.Contains(issues[i], want) {
			t.Errorf("issue %d = %q, want it to mention %q", i, issues[i], want)
		}
	}
}

func TestCheckMeshReportsFlippedWinding(t *testing.T) {
	_, m := generateHelix(t, tube.TwistAxisTangent)
	m.Indices[1], m.Indices[2] = m.Indices[2], m.Indices[1]

	issues := checkMesh(m)
	if len(issues) != 1 || !strings.Contains(issues[0], "triangle 0") {
		t.Errorf("issues = %v, want one for triangle 0", issues)
	}
}

func TestCheckMeshReportsBadIndex(t *testing.T) {
	_, m := generateHelix(t, tube.TwistAxisTangent)
	m.Indices[5] = uint32(len(m.Vertices))

	issues := checkMesh(m)
	if len(issues) == 0 || !strings.Contains(issues[len(issues)-1], "out of range") {
		t.Errorf("issues = %v, want an out of range report", issues)
	}
}

func TestMaxBend(t *testing.T) {
	straight := []tube.Node{{}, {}, {}}
	if node, _ := maxBend(straight); node != -1 {
		t.Errorf("straight polyline: node = %d, want -1", node)
	}

	// cos(45deg) = half of a 90 degree turn
	nodes := []tube.Node{{}, {BendNormal: math.Vec3{X: 0.70710677}}, {BendNormal: math.Vec3{X: 0.95}}, {}}
	node, turn := maxBend(nodes)
	if node != 1 {
		t.Errorf("node = %d, want 1", node)
	}
	if turn < 89.9 || turn > 90.1 {
		t.Errorf("turn = %v, want 90", turn)
	}
}
