// Package config handles tube generator configuration loading and management.
package config

import (
	"github.com/Faultbox/tubegen/pkg/tube"
)

// Config holds all settings.
type Config struct {
	Tube    TubeConfig    `yaml:"tube"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// TubeConfig holds mesh generation settings.
type TubeConfig struct {
	Resolution      int     `yaml:"resolution"`
	MinScale        float32 `yaml:"min_scale"`
	MaxScale        float32 `yaml:"max_scale"`
	ScaleCorrection bool    `yaml:"scale_correction"`
	TwistCorrection bool    `yaml:"twist_correction"`
	TwistAxis       string  `yaml:"twist_axis"` // "tangent" or "exact"
	Workers         int     `yaml:"workers"`    // 0 = GOMAXPROCS
	Grain           int     `yaml:"grain"`      // nodes per work item, 0 = default
}

// ViewerConfig holds display settings for tubeview.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	AutoUpdate bool `yaml:"auto_update"` // regenerate every frame
	Wireframe  bool `yaml:"wireframe"`

	LightAzimuth   float32 `yaml:"light_azimuth"`   // degrees around +Y
	LightElevation float32 `yaml:"light_elevation"` // degrees above the horizon
	ScreenshotDir  string  `yaml:"screenshot_dir"`
}

// DataConfig holds input file paths.
type DataConfig struct {
	PointsFile string `yaml:"points_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := tube.DefaultOptions()
	return &Config{
		Tube: TubeConfig{
			Resolution:      opts.Resolution,
			MinScale:        opts.MinScale,
			MaxScale:        opts.MaxScale,
			ScaleCorrection: opts.ScaleCorrection,
			TwistCorrection: opts.TwistCorrection,
			TwistAxis:       opts.TwistAxis.String(),
		},
		Viewer: ViewerConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,

			LightAzimuth:   35,
			LightElevation: 50,
			ScreenshotDir:  "screenshots",
		},
		Data: DataConfig{
			PointsFile: "points.yaml",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// TubeOptions converts the tube section into generator options.
func (c *Config) TubeOptions() (tube.Options, error) {
	axis, err := tube.ParseTwistAxis(c.Tube.TwistAxis)
	if err != nil {
		return tube.Options{}, err
	}
	opts := tube.Options{
		Resolution:      c.Tube.Resolution,
		MinScale:        c.Tube.MinScale,
		MaxScale:        c.Tube.MaxScale,
		ScaleCorrection: c.Tube.ScaleCorrection,
		TwistCorrection: c.Tube.TwistCorrection,
		TwistAxis:       axis,
		Workers:         c.Tube.Workers,
		Grain:           c.Tube.Grain,
	}
	return opts, opts.Validate()
}
