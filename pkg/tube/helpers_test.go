package tube

import (
	gomath "math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/tubegen/pkg/math"
)

const tolerance = 1e-4

var approx = cmpopts.EquateApprox(0, tolerance)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) <= tolerance
}

func vecDiff(want, got math.Vec3) string {
	return cmp.Diff(want, got, approx)
}

// straightLine returns n collinear anchors along +Z.
func straightLine(n int, thickness float32) *Polyline {
	p := &Polyline{}
	for i := range n {
		p.AddPoint(math.Vec3{Z: float32(i)}, thickness)
	}
	return p
}

// helix returns anchors on a helix around +Y.
func helix(n int) *Polyline {
	p := &Polyline{}
	for i := range n {
		a := float64(i) * 0.35
		p.AddPoint(math.Vec3{
			X: float32(3 * gomath.Cos(a)),
			Y: float32(i) * 0.2,
			Z: float32(3 * gomath.Sin(a)),
		}, 0.3)
	}
	return p
}

// axisWalk steps along random axis directions without reversing, so every
// turn is 0 or 90 degrees and many directions are parallel to the reference
// axis.
func axisWalk(n int, seed int64) *Polyline {
	axes := []math.Vec3{
		math.Up, math.Right, math.Forward,
		math.Right.Negate(), math.Up.Negate(), math.Forward.Negate(),
	}
	rng := rand.New(rand.NewSource(seed))
	p := &Polyline{}
	pos := math.Vec3{}
	last := math.Forward
	for range n {
		dir := axes[rng.Intn(len(axes))]
		if last.Dot(dir) < 0 {
			dir = dir.Negate()
		}
		pos = pos.Add(dir)
		p.AddPoint(pos, 0.4)
		last = dir
	}
	return p
}

// computeFrames runs the frame and twist stages sequentially.
func computeFrames(p *Polyline, twist bool, axis TwistAxis) {
	nodes := p.Nodes()
	for i := 1; i < len(nodes)-1; i++ {
		interiorFrame(nodes, i)
	}
	edgeFrames(nodes)
	if twist {
		correctTwist(nodes, axis)
	}
}

func assertOrthonormal(t *testing.T, nodes []Node) {
	t.Helper()
	for i, n := range nodes {
		for name, v := range map[string]math.Vec3{"direction": n.Direction, "right": n.Right, "up": n.Up} {
			if !near(v.Length(), 1) {
				t.Fatalf("node %d %s length = %v, want 1", i, name, v.Length())
			}
		}
		if d := n.Right.Dot(n.Up); !near(d, 0) {
			t.Fatalf("node %d right·up = %v", i, d)
		}
		if d := n.Right.Dot(n.Direction); !near(d, 0) {
			t.Fatalf("node %d right·direction = %v", i, d)
		}
		if d := n.Up.Dot(n.Direction); !near(d, 0) {
			t.Fatalf("node %d up·direction = %v", i, d)
		}
	}
}

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	g, err := NewGenerator(opts)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

// distanceToLine returns the distance from p to the line through origin
// along unit direction d.
func distanceToLine(p, origin, d math.Vec3) float32 {
	return p.Sub(origin).ProjectOnPlane(d).Length()
}
