package tube

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/tubegen/pkg/math"
)

func TestGenerateBufferLengths(t *testing.T) {
	tests := []struct {
		name       string
		p          *Polyline
		resolution int
	}{
		{"two nodes", straightLine(2, 1), 3},
		{"helix", helix(100), 8},
		{"axis walk", axisWalk(512, 1), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Resolution = tt.resolution
			g := newTestGenerator(t, opts)

			mesh, err := g.Generate(tt.p)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			n := tt.p.Len()
			if got, want := len(mesh.Vertices), n*tt.resolution; got != want {
				t.Errorf("len(Vertices) = %d, want %d", got, want)
			}
			if got, want := len(mesh.Normals), n*tt.resolution; got != want {
				t.Errorf("len(Normals) = %d, want %d", got, want)
			}
			if got, want := len(mesh.Indices), (n-1)*tt.resolution*6; got != want {
				t.Errorf("len(Indices) = %d, want %d", got, want)
			}
			if mesh.RingCount() != n {
				t.Errorf("RingCount() = %d, want %d", mesh.RingCount(), n)
			}
			for k, idx := range mesh.Indices {
				if int(idx) >= len(mesh.Vertices) {
					t.Fatalf("index %d = %d out of range", k, idx)
				}
			}
			assertOrthonormal(t, tt.p.Nodes())
		})
	}
}

func TestGenerateWindingFacesOutward(t *testing.T) {
	for _, scale := range []bool{false, true} {
		opts := DefaultOptions()
		opts.Resolution = 12
		opts.ScaleCorrection = scale
		g := newTestGenerator(t, opts)

		mesh, err := g.Generate(helix(40))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		for q := 0; q < len(mesh.Indices)/6; q++ {
			first, second := mesh.FaceNormal(2*q), mesh.FaceNormal(2*q+1)
			if first.Dot(second) <= 0 {
				t.Fatalf("quad %d triangles wound differently: %v vs %v", q, first, second)
			}
			shading := mesh.Normals[mesh.Triangle(2*q)[0]]
			if first.Dot(shading) <= 0 {
				t.Fatalf("quad %d faces inward: face %v, shading %v", q, first, shading)
			}
		}
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	nan := float32(gomath.NaN())
	tests := []struct {
		name string
		p    *Polyline
	}{
		{"nil", nil},
		{"empty", NewPolyline()},
		{"single node", straightLine(1, 1)},
		{"coincident", NewPolyline(Point{Thickness: 1}, Point{Thickness: 1})},
		{"nan position", NewPolyline(Point{Thickness: 1}, Point{Position: math.Vec3{X: nan}, Thickness: 1})},
		{"nan thickness", NewPolyline(Point{Thickness: nan}, Point{Position: math.Forward, Thickness: 1})},
	}

	g := newTestGenerator(t, DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, err := g.Begin(tt.p)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Begin() error = %v, want ErrInvalidInput", err)
			}
			if pass != nil {
				t.Error("Begin() returned a pass for invalid input")
			}
		})
	}

	// The generator stays usable after rejected input.
	if _, err := g.Generate(straightLine(3, 1)); err != nil {
		t.Errorf("Generate after rejection: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"low resolution", func(o *Options) { o.Resolution = 2 }},
		{"zero min scale", func(o *Options) { o.MinScale = 0 }},
		{"inverted scale", func(o *Options) { o.MinScale, o.MaxScale = 3, 1 }},
		{"nan max scale", func(o *Options) { o.MaxScale = float32(gomath.NaN()) }},
		{"unknown twist axis", func(o *Options) { o.TwistAxis = TwistAxis(9) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if _, err := NewGenerator(opts); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("NewGenerator() error = %v, want ErrInvalidInput", err)
			}
		})
	}

	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("DefaultOptions().Validate() = %v", err)
	}
}

func TestParseTwistAxis(t *testing.T) {
	for _, axis := range []TwistAxis{TwistAxisTangent, TwistAxisExact} {
		got, err := ParseTwistAxis(axis.String())
		if err != nil || got != axis {
			t.Errorf("ParseTwistAxis(%q) = %v, %v", axis.String(), got, err)
		}
	}
	if _, err := ParseTwistAxis("segment"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseTwistAxis(segment) error = %v, want ErrInvalidInput", err)
	}
}

func TestGenerateParallelMatchesSequential(t *testing.T) {
	seqOpts := DefaultOptions()
	seqOpts.Workers = 1
	parOpts := DefaultOptions()
	parOpts.Workers = 8
	parOpts.Grain = 3

	seq := newTestGenerator(t, seqOpts)
	par := newTestGenerator(t, parOpts)

	a, err := seq.Generate(axisWalk(700, 11))
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	b, err := par.Generate(axisWalk(700, 11))
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("parallel mesh differs from sequential (-seq +par):\n%s", diff)
	}
}

func TestGenerateRegenerationOverwritesDerivedFields(t *testing.T) {
	g := newTestGenerator(t, DefaultOptions())
	p := straightLine(4, 1)
	if _, err := g.Generate(p); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if err := p.SetPoint(3, math.Vec3{X: 1, Z: 2}, 1); err != nil {
		t.Fatalf("SetPoint: %v", err)
	}
	mesh, err := g.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.Nodes()[2].BendNormal.Length() == 0 {
		t.Error("node 2 bend normal not recomputed after the path changed")
	}
	if mesh.RingCount() != 4 {
		t.Errorf("RingCount() = %d, want 4", mesh.RingCount())
	}
}

func TestBeginRejectsSecondPass(t *testing.T) {
	g := newTestGenerator(t, DefaultOptions())
	release := make(chan struct{})
	g.onStart = func() { <-release }

	first, err := g.Begin(helix(10))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := g.Begin(helix(10)); !errors.Is(err, ErrPassInFlight) {
		t.Errorf("second Begin error = %v, want ErrPassInFlight", err)
	}
	if err := g.SetOptions(DefaultOptions()); !errors.Is(err, ErrPassInFlight) {
		t.Errorf("SetOptions during pass error = %v, want ErrPassInFlight", err)
	}

	select {
	case <-first.Done():
		t.Fatal("pass finished while held")
	default:
	}

	close(release)
	if mesh := first.Wait(); mesh.RingCount() != 10 {
		t.Errorf("RingCount() = %d, want 10", mesh.RingCount())
	}

	g.onStart = nil
	if _, err := g.Generate(helix(10)); err != nil {
		t.Errorf("Generate after pass completed: %v", err)
	}
}

func TestPassComplete(t *testing.T) {
	g := newTestGenerator(t, DefaultOptions())

	var got *Mesh
	pass, err := g.Begin(helix(12))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	err = pass.Complete(AssemblerFunc(func(m *Mesh) error {
		got = m
		return nil
	}))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got == nil || got.VertexCount() != 12*8 {
		t.Fatalf("assembler received %v", got)
	}

	boom := errors.New("boom")
	pass, err = g.Begin(helix(12))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	err = pass.Complete(AssemblerFunc(func(*Mesh) error { return boom }))
	if !errors.Is(err, boom) {
		t.Errorf("Complete error = %v, want wrapped boom", err)
	}
}

func TestSetOptionsChangesResolution(t *testing.T) {
	g := newTestGenerator(t, DefaultOptions())
	opts := DefaultOptions()
	opts.Resolution = 5
	if err := g.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	mesh, err := g.Generate(straightLine(3, 1))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if mesh.Resolution != 5 || mesh.VertexCount() != 15 {
		t.Errorf("resolution %d with %d vertices, want 5 and 15", mesh.Resolution, mesh.VertexCount())
	}
	if g.Options().Resolution != 5 {
		t.Errorf("Options().Resolution = %d, want 5", g.Options().Resolution)
	}
}

func TestGeneratorClosed(t *testing.T) {
	g, err := NewGenerator(DefaultOptions())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	g.Close()
	g.Close()
	if _, err := g.Generate(straightLine(3, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Generate after Close error = %v, want ErrClosed", err)
	}
}

func TestGeneratorLogsPass(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	g, err := NewGenerator(DefaultOptions(), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, err := g.Generate(helix(5)); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	g.Close() // waits for the pass goroutine, including its log call

	entries := logs.FilterMessage("tube pass complete").All()
	if len(entries) != 1 {
		t.Fatalf("got %d pass log entries, want 1", len(entries))
	}
	if n := entries[0].ContextMap()["vertices"]; n != int64(5*8) {
		t.Errorf("logged vertices = %v, want %d", n, 5*8)
	}
}

func TestMeshBounds(t *testing.T) {
	g := newTestGenerator(t, DefaultOptions())
	mesh, err := g.Generate(straightLine(5, 1))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := Bounds{Min: math.Vec3{X: -1, Y: -1, Z: 0}, Max: math.Vec3{X: 1, Y: 1, Z: 4}}
	if diff := cmp.Diff(want, mesh.Bounds, approx); diff != "" {
		t.Errorf("Bounds (-want +got):\n%s", diff)
	}
	if diff := vecDiff(math.Vec3{Z: 2}, mesh.Bounds.Center()); diff != "" {
		t.Errorf("Center (-want +got):\n%s", diff)
	}
}

// Run with -race: once Wait returns, the polyline and mesh belong to the
// caller and the pass goroutine must not read them anymore.
func TestPassReleasesBuffersOnCompletion(t *testing.T) {
	core, _ := observer.New(zap.DebugLevel)
	g, err := NewGenerator(DefaultOptions(), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	defer g.Close()

	p := helix(32)
	for round := 0; round < 20; round++ {
		mesh, err := g.Generate(p)
		if err != nil {
			t.Fatalf("round %d: Generate: %v", round, err)
		}
		for i := 0; i < 10; i++ {
			p.AddPoint(math.Vec3{X: float32(round), Y: float32(100 + p.Len()), Z: float32(i)}, 0.3)
		}
		mesh.Vertices = mesh.Vertices[:0]
		mesh.Indices = nil
	}

	pass, err := g.Begin(p)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	err = pass.Complete(AssemblerFunc(func(m *Mesh) error {
		m.Vertices = nil
		m.Normals = nil
		m.Indices = nil
		return nil
	}))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	p.AddPoint(math.Vec3{Y: -1}, 0.3)
}

func TestBeginAcceptedOnceDone(t *testing.T) {
	g := newTestGenerator(t, DefaultOptions())
	p := helix(16)
	for i := 0; i < 50; i++ {
		pass, err := g.Begin(p)
		if err != nil {
			t.Fatalf("iteration %d: Begin: %v", i, err)
		}
		<-pass.Done()
	}
}
