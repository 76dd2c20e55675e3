package tube

import "github.com/Faultbox/tubegen/pkg/math"

const (
	// degenerateAxis is the |cross| below which the reference axis is
	// considered parallel to the direction.
	degenerateAxis = 1e-4
	// coincidentEpsilon is the minimum distance between consecutive anchors.
	coincidentEpsilon = 1e-6
)

// frameAxes builds the cross-section axes for a unit direction. The global
// right axis is the reference; when the direction runs along it, the
// forward axis is used instead.
func frameAxes(direction math.Vec3) (right, up math.Vec3) {
	right = direction.Cross(math.Right)
	if right.Length() < degenerateAxis {
		right = direction.Cross(math.Forward)
	}
	right = right.Normalize()
	up = direction.Cross(right).Normalize()
	return right, up
}

// interiorFrame derives the frame of node i from its two neighbors.
// It writes only nodes[i] and may run concurrently for distinct i.
func interiorFrame(nodes []Node, i int) {
	n := &nodes[i]
	previous := n.Position.Sub(nodes[i-1].Position).Normalize()
	next := nodes[i+1].Position.Sub(n.Position).Normalize()

	direction := previous.Lerp(next, 0.5).Normalize()
	if direction == (math.Vec3{}) {
		// Path doubles back on itself: the average cancels out.
		direction = next
	}

	cosHalf := previous.Dot(direction)
	if cosHalf < 0 {
		cosHalf = -cosHalf
	}

	n.Direction = direction
	n.BendNormal = next.Sub(previous).Normalize().Scale(cosHalf)
	n.Right, n.Up = frameAxes(direction)
}

// edgeFrames resolves the two open ends, which have a single neighbor.
func edgeFrames(nodes []Node) {
	last := len(nodes) - 1

	first := &nodes[0]
	first.Direction = nodes[1].Position.Sub(first.Position).Normalize()
	first.BendNormal = math.Vec3{}
	first.Right, first.Up = frameAxes(first.Direction)

	end := &nodes[last]
	end.Direction = end.Position.Sub(nodes[last-1].Position).Normalize()
	end.BendNormal = math.Vec3{}
	end.Right, end.Up = frameAxes(end.Direction)
}
