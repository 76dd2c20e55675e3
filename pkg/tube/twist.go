package tube

import (
	gomath "math"

	"github.com/Faultbox/tubegen/pkg/math"
)

// correctTwist walks the nodes in order and rotates each frame so its right
// axis agrees with the predecessor's across the connecting segment. Node 0
// is the fixed reference. Every step reads the previous step's output, so
// this is a sequential fold and must never be split across workers.
func correctTwist(nodes []Node, axis TwistAxis) {
	for i := 0; i < len(nodes)-1; i++ {
		prev, cur := &nodes[i], &nodes[i+1]
		angle := twistAngle(prev, cur, axis)
		if angle == 0 {
			continue
		}
		cur.Right = cur.Right.RotateAround(cur.Direction, angle)
		cur.Up = cur.Up.RotateAround(cur.Direction, angle)
	}
}

// twistAngle returns the rotation about cur.Direction that removes the twist
// between prev and cur.
func twistAngle(prev, cur *Node, axis TwistAxis) float32 {
	segment := cur.Position.Sub(prev.Position).Normalize()
	prevRight := prev.Right.ProjectOnPlane(segment)
	curRight := cur.Right.ProjectOnPlane(segment)

	if axis == TwistAxisTangent {
		return -prevRight.SignedAngle(curRight, segment)
	}
	return alignAngle(cur, segment, prevRight)
}

// alignAngle solves for theta such that cur.Right rotated by theta about
// cur.Direction projects onto the segment plane parallel to target.
//
// Rotating about the direction sweeps right to right*cos + up*sin. Its
// projection is parallel to target exactly when it has no component along
// segment x target, which gives right·w*cos + up·w*sin = 0.
func alignAngle(cur *Node, segment, target math.Vec3) float32 {
	target = target.Normalize()
	if target == (math.Vec3{}) {
		return 0
	}
	w := segment.Cross(target)
	a := float64(cur.Right.Dot(w))
	b := float64(cur.Up.Dot(w))
	if a*a+b*b < 1e-12 {
		return 0
	}

	theta := gomath.Atan2(-a, b)
	sin, cos := gomath.Sincos(theta)
	swept := cur.Right.Scale(float32(cos)).Add(cur.Up.Scale(float32(sin)))
	if swept.Dot(target) < 0 {
		theta += gomath.Pi
	}
	if theta > gomath.Pi {
		theta -= 2 * gomath.Pi
	}
	return float32(theta)
}
