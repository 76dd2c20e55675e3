package tube

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tubegen/internal/parallel"
	"github.com/Faultbox/tubegen/pkg/math"
)

// Generator runs generation passes. It owns a worker pool and caches the
// ring table for the current resolution. At most one pass is in flight at a
// time; starting another returns ErrPassInFlight.
type Generator struct {
	log  *zap.Logger
	pool *parallel.Pool

	passes sync.WaitGroup

	mu       sync.Mutex
	opts     Options
	table    RingTable
	inFlight bool
	closed   bool

	// onStart runs on the pass goroutine before the first stage. Tests use
	// it to hold a pass open.
	onStart func()
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger used for pass diagnostics.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGenerator validates opts and starts the worker pool.
func NewGenerator(opts Options, options ...GeneratorOption) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		log:   zap.NewNop(),
		opts:  opts,
		table: NewRingTable(opts.Resolution),
	}
	for _, o := range options {
		o(g)
	}
	g.pool = parallel.NewPool(opts.Workers)
	g.log.Debug("tube generator ready",
		zap.Int("resolution", opts.Resolution),
		zap.Int("workers", g.pool.Workers()))
	return g, nil
}

// Options returns the current options.
func (g *Generator) Options() Options {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opts
}

// SetOptions replaces the options used by subsequent passes. The worker
// count is fixed at construction and is ignored here.
func (g *Generator) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight {
		return ErrPassInFlight
	}
	if opts.Resolution != g.table.Resolution() {
		g.table = NewRingTable(opts.Resolution)
	}
	g.opts = opts
	return nil
}

// Generate runs a full pass and returns the mesh.
func (g *Generator) Generate(p *Polyline) (*Mesh, error) {
	pass, err := g.Begin(p)
	if err != nil {
		return nil, err
	}
	return pass.Wait(), nil
}

// Begin validates the input and starts a pass in the background. The
// polyline is borrowed until the pass completes: its derived fields are
// rewritten and it must not be mutated meanwhile.
func (g *Generator) Begin(p *Polyline) (*Pass, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, ErrClosed
	}
	if g.inFlight {
		return nil, ErrPassInFlight
	}
	if err := validatePolyline(p); err != nil {
		return nil, err
	}

	g.inFlight = true
	g.passes.Add(1)
	pass := &Pass{done: make(chan struct{})}
	opts, table := g.opts, g.table
	go func() {
		defer g.passes.Done()
		if g.onStart != nil {
			g.onStart()
		}
		start := time.Now()
		mesh := g.run(p.nodes, opts, table)

		// Nothing below may touch p or mesh once done is closed: both
		// belong to the caller from then on.
		g.log.Debug("tube pass complete",
			zap.Int("nodes", len(p.nodes)),
			zap.Int("vertices", mesh.VertexCount()),
			zap.Int("triangles", mesh.TriangleCount()),
			zap.Duration("elapsed", time.Since(start)))

		pass.mesh = mesh
		g.mu.Lock()
		g.inFlight = false
		g.mu.Unlock()
		close(pass.done)
	}()
	return pass, nil
}

// run executes the pipeline stages in order. Each stage finishes before the
// next one starts.
func (g *Generator) run(nodes []Node, opts Options, table RingTable) *Mesh {
	n := len(nodes)
	res := table.Resolution()

	// Frames for interior nodes depend only on neighbor positions.
	g.pool.For(n-2, opts.Grain, func(k int) {
		interiorFrame(nodes, k+1)
	})
	edgeFrames(nodes)

	if opts.TwistCorrection {
		correctTwist(nodes, opts.TwistAxis)
	}

	mesh := &Mesh{
		Vertices:   make([]math.Vec3, n*res),
		Normals:    make([]math.Vec3, n*res),
		Indices:    make([]uint32, (n-1)*res*6),
		Resolution: res,
	}
	g.pool.For(n, opts.Grain, func(i int) {
		extrudeRing(&nodes[i], i, table, opts, mesh.Vertices, mesh.Normals)
		if i < n-1 {
			stitchRing(i, res, mesh.Indices)
		}
	})
	mesh.Bounds = computeBounds(mesh.Vertices)
	return mesh
}

// Close waits for an in-flight pass, then stops the worker pool.
func (g *Generator) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	g.passes.Wait()
	g.pool.Close()
}

// Pass is a generation pass started by Begin.
type Pass struct {
	done chan struct{}
	mesh *Mesh
}

// Done is closed when the pass has finished.
func (p *Pass) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the pass finishes and returns its mesh.
func (p *Pass) Wait() *Mesh {
	<-p.done
	return p.mesh
}

// Complete waits for the pass and hands the mesh to asm.
func (p *Pass) Complete(asm Assembler) error {
	if err := asm.Assemble(p.Wait()); err != nil {
		return fmt.Errorf("assembling mesh: %w", err)
	}
	return nil
}
