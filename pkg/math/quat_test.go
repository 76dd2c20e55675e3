package math

import (
	"math"
	"testing"
)

func TestQuatZeroAngle(t *testing.T) {
	q := QuatFromAxisAngle(Up, 0)
	v := Vec3{1, 2, 3}
	if got := q.Rotate(v); got != v {
		t.Errorf("zero angle Rotate(%v) = %v", v, got)
	}
}

func TestQuatRotate(t *testing.T) {
	tests := []struct {
		name  string
		axis  Vec3
		angle float32
		in    Vec3
		want  Vec3
	}{
		{"x to y about z", Forward, math.Pi / 2, Right, Up},
		{"y to z about x", Right, math.Pi / 2, Up, Forward},
		{"z to x about y", Up, math.Pi / 2, Forward, Right},
		{"half turn", Forward, math.Pi, Right, Vec3{-1, 0, 0}},
		{"axis unchanged", Up, 1.234, Up, Up},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatFromAxisAngle(tt.axis, tt.angle).Rotate(tt.in)
			if got.Distance(tt.want) > 1e-5 {
				t.Errorf("Rotate() = %v, want %v", got, tt.want)
			}
		})
	}
}
