// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/tubegen/pkg/math"
)

// SunDirection converts azimuth and elevation angles in degrees to the unit
// direction light travels in. Azimuth turns around +Y starting at +Z,
// elevation is measured up from the horizon.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(azimuth) * gomath.Pi / 180
	el := float64(elevation) * gomath.Pi / 180

	toSun := math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
	return toSun.Negate()
}
