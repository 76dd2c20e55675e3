package scene

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/tubegen/pkg/math"
	"github.com/Faultbox/tubegen/pkg/tube"
)

func TestInterleave(t *testing.T) {
	m := &tube.Mesh{
		Vertices: []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
		Normals:  []math.Vec3{{X: 1}, {Y: 1}},
	}
	got := interleave(nil, m)
	want := []float32{1, 2, 3, 1, 0, 0, 4, 5, 6, 0, 1, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("interleave (-want +got):\n%s", diff)
	}

	// Reusing the buffer must not keep stale data.
	got = interleave(got[:0], &tube.Mesh{Vertices: m.Vertices[:1], Normals: m.Normals[:1]})
	if len(got) != tubeVertexStride {
		t.Errorf("len = %d, want %d", len(got), tubeVertexStride)
	}
}

func TestFrameLines(t *testing.T) {
	nodes := []tube.Node{
		{Position: math.Vec3{}, Direction: math.Forward, Right: math.Vec3{Y: 1}, Up: math.Vec3{X: -1}, Thickness: 1},
		{Position: math.Vec3{Z: 1}, Direction: math.Forward, Right: math.Vec3{Y: 1}, Up: math.Vec3{X: -1}, Thickness: 2},
	}
	got := frameLines(nil, nodes, 1)

	// 3 axes per node plus one centerline segment, 2 vertices each.
	if want := (3*2 + 1) * 2 * 6; len(got) != want {
		t.Fatalf("len = %d, want %d", len(got), want)
	}

	// Second node's right axis ends at position + right * thickness.
	// Layout: node0 axes (6 verts), centerline (2 verts), node1 right (2 verts).
	end := got[(6+2+1)*6 : (6+2+1)*6+3]
	if diff := cmp.Diff([]float32{0, 2, 1}, end); diff != "" {
		t.Errorf("right axis end (-want +got):\n%s", diff)
	}
}
