// tubegen is a CLI utility for inspecting tube meshes built from point files.
package main

import (
	"fmt"
	gomath "math"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tubegen/internal/config"
	"github.com/Faultbox/tubegen/internal/logger"
	"github.com/Faultbox/tubegen/pkg/tube"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "info", "frames", "check":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	path := cfg.Data.PointsFile
	if len(args) > 1 {
		path = args[1]
	}

	run, err := generate(cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "info":
		cmdInfo(path, run)
	case "frames":
		cmdFrames(run)
	case "check":
		if !cmdCheck(run) {
			os.Exit(2)
		}
	}
}

func printUsage() {
	fmt.Println(`tubegen - tube mesh generator

Usage:
  tubegen [flags] <command> [points.yaml]

Commands:
  info   [points.yaml]   Show mesh statistics and bounds
  frames [points.yaml]   Print the frame computed at every node
  check  [points.yaml]   Verify frames and triangle winding

The points file defaults to data.points_file from the config.

Flags:
  -config <path>        Config file
  -resolution <n>       Vertices per ring
  -twist-axis <mode>    tangent or exact
  -no-twist             Disable twist correction
  -no-scale             Disable bend scale correction
  -workers <n>          Worker goroutines
  -debug                Debug logging

Examples:
  tubegen info spiral.yaml
  tubegen -resolution 16 -twist-axis exact check spiral.yaml`)
}

// result is one generation pass together with its input.
type result struct {
	polyline *tube.Polyline
	mesh     *tube.Mesh
	opts     tube.Options
	elapsed  time.Duration
}

func generate(cfg *config.Config, path string) (*result, error) {
	p, err := config.LoadPoints(path)
	if err != nil {
		return nil, fmt.Errorf("loading points: %w", err)
	}
	opts, err := cfg.TubeOptions()
	if err != nil {
		return nil, err
	}

	gen, err := tube.NewGenerator(opts, tube.WithLogger(logger.Named("tube")))
	if err != nil {
		return nil, err
	}
	defer gen.Close()

	start := time.Now()
	mesh, err := gen.Generate(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	elapsed := time.Since(start)

	logger.Debug("generated",
		zap.String("points", path),
		zap.Int("nodes", p.Len()),
		zap.Duration("elapsed", elapsed))

	return &result{polyline: p, mesh: mesh, opts: opts, elapsed: elapsed}, nil
}

func cmdInfo(path string, r *result) {
	m := r.mesh
	b := m.Bounds
	size := b.Size()

	fmt.Printf("Points:     %s\n", path)
	fmt.Printf("Nodes:      %d\n", r.polyline.Len())
	fmt.Printf("Resolution: %d\n", m.Resolution)
	fmt.Printf("Vertices:   %d\n", m.VertexCount())
	fmt.Printf("Triangles:  %d\n", m.TriangleCount())
	fmt.Printf("Bounds:     (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Printf("Size:       %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)

	if node, turn := maxBend(r.polyline.Nodes()); node >= 0 {
		fmt.Printf("Max bend:   %.1f deg at node %d\n", turn, node)
	} else {
		fmt.Println("Max bend:   none (straight)")
	}
	fmt.Printf("Twist:      %v (axis %s)\n", r.opts.TwistCorrection, r.opts.TwistAxis)
	fmt.Printf("Scale:      %v [%.2f, %.2f]\n", r.opts.ScaleCorrection, r.opts.MinScale, r.opts.MaxScale)
	fmt.Printf("Elapsed:    %s\n", r.elapsed)
}

// maxBend returns the node with the sharpest turn and its turn angle in
// degrees, or -1 if every node is straight. |BendNormal| is the cosine of
// half the turn.
func maxBend(nodes []tube.Node) (int, float64) {
	best, bestTurn := -1, 0.0
	for i := range nodes {
		k := float64(nodes[i].BendNormal.Length())
		if k == 0 {
			continue
		}
		turn := 2 * gomath.Acos(gomath.Min(k, 1)) * 180 / gomath.Pi
		if turn > bestTurn {
			best, bestTurn = i, turn
		}
	}
	return best, bestTurn
}

func cmdFrames(r *result) {
	fmt.Printf("%-5s %-26s %-26s %-26s %-26s %s\n", "node", "position", "direction", "right", "up", "|bend|")
	for i, n := range r.polyline.Nodes() {
		fmt.Printf("%-5d %-26s %-26s %-26s %-26s %.4f\n", i,
			fmtVec(n.Position), fmtVec(n.Direction), fmtVec(n.Right), fmtVec(n.Up),
			n.BendNormal.Length())
	}
}

func cmdCheck(r *result) bool {
	issues := checkFrames(r.polyline.Nodes())
	issues = append(issues, checkMesh(r.mesh)...)

	if len(issues) == 0 {
		fmt.Printf("OK: %d nodes, %d triangles\n", r.polyline.Len(), r.mesh.TriangleCount())
		return true
	}

	const maxShown = 20
	for i, issue := range issues {
		if i == maxShown {
			fmt.Printf("... and %d more\n", len(issues)-maxShown)
			break
		}
		fmt.Println(issue)
	}
	fmt.Printf("FAILED: %d issues\n", len(issues))
	return false
}
