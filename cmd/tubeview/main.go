// tubeview is an interactive viewer that regenerates a tube mesh as its
// options are toggled.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tubegen/internal/config"
	"github.com/Faultbox/tubegen/internal/engine/camera"
	"github.com/Faultbox/tubegen/internal/engine/input"
	"github.com/Faultbox/tubegen/internal/engine/lighting"
	"github.com/Faultbox/tubegen/internal/engine/renderer"
	"github.com/Faultbox/tubegen/internal/engine/scene"
	"github.com/Faultbox/tubegen/internal/engine/screenshot"
	"github.com/Faultbox/tubegen/internal/engine/window"
	"github.com/Faultbox/tubegen/internal/logger"
	"github.com/Faultbox/tubegen/pkg/tube"
)

const windowTitle = "TubeGen"

func main() {
	config.ParseFlags()

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

	if err := run(cfg); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	path := cfg.Data.PointsFile
	if args := config.Args(); len(args) > 0 {
		path = args[0]
	}
	polyline, err := config.LoadPoints(path)
	if err != nil {
		return fmt.Errorf("loading points: %w", err)
	}
	logger.Info("points loaded", zap.String("path", path), zap.Int("nodes", polyline.Len()))

	opts, err := cfg.TubeOptions()
	if err != nil {
		return err
	}
	gen, err := tube.NewGenerator(opts, tube.WithLogger(logger.Named("tube")))
	if err != nil {
		return err
	}
	defer gen.Close()

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	dw, dh := win.DrawableSize()
	rend, err := renderer.New(renderer.Config{Width: dw, Height: dh})
	if err != nil {
		return err
	}

	tubes, err := scene.NewTubeRenderer(logger.Named("scene"))
	if err != nil {
		return err
	}
	defer tubes.Close()
	tubes.Wireframe = cfg.Viewer.Wireframe
	tubes.LightDir = lighting.SunDirection(cfg.Viewer.LightAzimuth, cfg.Viewer.LightElevation)

	frames, err := scene.NewFrameRenderer()
	if err != nil {
		return err
	}
	defer frames.Close()

	v := &viewer{
		cfg:      cfg,
		gen:      gen,
		polyline: polyline,
		tubes:    tubes,
		frames:   frames,
		cam:      camera.NewOrbitCamera(),
		shots:    screenshot.New(cfg.Viewer.ScreenshotDir, "tube"),
		fitNext:  true,
	}
	if err := v.startPass(); err != nil {
		return err
	}

	logger.Info("controls: drag orbit, wheel zoom, T twist, X twist axis, S scale, +/- resolution, " +
		"U auto update, W wireframe, F frames, R reset camera, F5 save config, F12 screenshot, Esc quit")

	in := input.New()
	last := time.Now()
	frameCount := 0
	for {
		if in.Update() {
			break
		}
		if quit := v.handleInput(in, rend, win); quit {
			break
		}

		if err := v.poll(); err != nil {
			return err
		}

		rend.Begin()
		viewProj := v.cam.ViewProjection(rend.Aspect())
		tubes.Render(viewProj)
		frames.Render(viewProj)
		if v.captureNext {
			v.capture(rend)
		}
		win.SwapBuffers()

		frameCount++
		if elapsed := time.Since(last); elapsed >= time.Second {
			win.SetTitle(v.title(float64(frameCount) / elapsed.Seconds()))
			frameCount = 0
			last = time.Now()
		}
	}

	// Let an in-flight pass finish before the generator and GL state go away.
	if v.pass != nil {
		v.pass.Wait()
	}
	return nil
}

// viewer holds the state of the interactive loop. All methods run on the
// GL thread.
type viewer struct {
	cfg      *config.Config
	gen      *tube.Generator
	polyline *tube.Polyline
	tubes    *scene.TubeRenderer
	frames   *scene.FrameRenderer
	cam      *camera.OrbitCamera
	shots    *screenshot.Capturer

	pass    *tube.Pass
	dirty   bool // options changed since the last pass started
	fitNext bool // frame the camera on the next mesh
	mesh    *tube.Mesh

	captureNext bool
}

// Assemble uploads a finished mesh and the frames it was built from.
func (v *viewer) Assemble(m *tube.Mesh) error {
	if err := v.tubes.Assemble(m); err != nil {
		return err
	}
	v.frames.Update(v.polyline.Nodes())
	v.mesh = m
	if v.fitNext {
		v.cam.FitToBounds(m.Bounds)
		v.fitNext = false
	}
	return nil
}

// startPass applies pending option changes and begins a new pass.
func (v *viewer) startPass() error {
	opts, err := v.cfg.TubeOptions()
	if err != nil {
		return err
	}
	if err := v.gen.SetOptions(opts); err != nil {
		return err
	}
	pass, err := v.gen.Begin(v.polyline)
	if err != nil {
		return err
	}
	v.pass = pass
	v.dirty = false
	return nil
}

// poll completes a finished pass and starts the next one when needed. The
// previous mesh stays on screen while a pass is running.
func (v *viewer) poll() error {
	if v.pass != nil {
		select {
		case <-v.pass.Done():
		default:
			return nil
		}
		err := v.pass.Complete(v)
		v.pass = nil
		if err != nil {
			return err
		}
	}
	if v.dirty || v.cfg.Viewer.AutoUpdate {
		if err := v.startPass(); err != nil && !errors.Is(err, tube.ErrPassInFlight) {
			return err
		}
	}
	return nil
}

func (v *viewer) handleInput(in *input.Input, rend *renderer.Renderer, win *window.Window) bool {
	tc := &v.cfg.Tube
	for _, e := range in.Events() {
		switch e.Type {
		case input.EventWindowResize:
			rend.Resize(win.DrawableSize())
		case input.EventMouseDrag:
			v.cam.HandleDrag(e.DeltaX, e.DeltaY)
		case input.EventMouseWheel:
			v.cam.HandleZoom(e.DeltaY)
		}
	}

	switch {
	case in.IsKeyPressed(sdl.SCANCODE_ESCAPE):
		return true
	case in.IsKeyPressed(sdl.SCANCODE_T):
		tc.TwistCorrection = !tc.TwistCorrection
		v.changed("twist_correction", tc.TwistCorrection)
	case in.IsKeyPressed(sdl.SCANCODE_S):
		tc.ScaleCorrection = !tc.ScaleCorrection
		v.changed("scale_correction", tc.ScaleCorrection)
	case in.IsKeyPressed(sdl.SCANCODE_X):
		if tc.TwistAxis == tube.TwistAxisExact.String() {
			tc.TwistAxis = tube.TwistAxisTangent.String()
		} else {
			tc.TwistAxis = tube.TwistAxisExact.String()
		}
		v.changed("twist_axis", tc.TwistAxis)
	case in.IsKeyPressed(sdl.SCANCODE_EQUALS), in.IsKeyPressed(sdl.SCANCODE_KP_PLUS):
		tc.Resolution++
		v.changed("resolution", tc.Resolution)
	case in.IsKeyPressed(sdl.SCANCODE_MINUS), in.IsKeyPressed(sdl.SCANCODE_KP_MINUS):
		if tc.Resolution > tube.MinResolution {
			tc.Resolution--
			v.changed("resolution", tc.Resolution)
		}
	case in.IsKeyPressed(sdl.SCANCODE_U):
		v.cfg.Viewer.AutoUpdate = !v.cfg.Viewer.AutoUpdate
		logger.Info("auto update", zap.Bool("enabled", v.cfg.Viewer.AutoUpdate))
	case in.IsKeyPressed(sdl.SCANCODE_W):
		v.cfg.Viewer.Wireframe = !v.cfg.Viewer.Wireframe
		v.tubes.Wireframe = v.cfg.Viewer.Wireframe
	case in.IsKeyPressed(sdl.SCANCODE_F):
		v.frames.Visible = !v.frames.Visible
	case in.IsKeyPressed(sdl.SCANCODE_R):
		if v.mesh != nil {
			v.cam.FitToBounds(v.mesh.Bounds)
		}
	case in.IsKeyPressed(sdl.SCANCODE_F12):
		v.captureNext = true
	case in.IsKeyPressed(sdl.SCANCODE_F5):
		if err := v.cfg.Save(); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		}
	}
	return false
}

// capture saves the frame just rendered.
func (v *viewer) capture(rend *renderer.Renderer) {
	v.captureNext = false
	pixels, w, h := rend.ReadPixels()
	path, err := v.shots.SavePixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (v *viewer) changed(key string, value any) {
	v.dirty = true
	logger.Info("option changed", zap.String("key", key), zap.Any("value", value))
}

func (v *viewer) title(fps float64) string {
	tc := v.cfg.Tube
	tris := 0
	if v.mesh != nil {
		tris = v.mesh.TriangleCount()
	}
	return fmt.Sprintf("%s - %d nodes, %d tris, res %d, twist %v (%s), scale %v - %.0f fps",
		windowTitle, v.polyline.Len(), tris, tc.Resolution,
		tc.TwistCorrection, tc.TwistAxis, tc.ScaleCorrection, fps)
}
