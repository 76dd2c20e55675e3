package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagPoints     = flag.String("points", "", "Path to points file")
	flagResolution = flag.Int("resolution", 0, "Vertices per ring")
	flagTwistAxis  = flag.String("twist-axis", "", "Twist correction axis: tangent or exact")
	flagNoTwist    = flag.Bool("no-twist", false, "Disable twist correction")
	flagNoScale    = flag.Bool("no-scale", false, "Disable bend scale correction")
	flagWorkers    = flag.Int("workers", 0, "Worker goroutines (0 = GOMAXPROCS)")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPoints != "" {
		cfg.Data.PointsFile = *flagPoints
	}
	if *flagResolution > 0 {
		cfg.Tube.Resolution = *flagResolution
	}
	if *flagTwistAxis != "" {
		cfg.Tube.TwistAxis = *flagTwistAxis
	}
	if *flagNoTwist {
		cfg.Tube.TwistCorrection = false
	}
	if *flagNoScale {
		cfg.Tube.ScaleCorrection = false
	}
	if *flagWorkers > 0 {
		cfg.Tube.Workers = *flagWorkers
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
}
