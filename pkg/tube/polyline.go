// Package tube generates tessellated tube meshes from ordered 3D anchor points.
//
// A Polyline holds the anchors. A Generator derives a twist-free frame at
// every anchor, extrudes a ring of vertices around it and stitches
// consecutive rings into triangles. The resulting Mesh is handed to an
// Assembler, which turns the buffers into something renderable.
package tube

import (
	"fmt"

	"github.com/Faultbox/tubegen/pkg/math"
)

// DefaultThickness is the radius given to anchors created without one.
const DefaultThickness float32 = 0.4

// Node is one anchor point plus the frame derived from its neighbors.
//
// Position and Thickness are authored. Direction, BendNormal, Right and Up
// are overwritten by every generation pass.
type Node struct {
	Position  math.Vec3
	Thickness float32

	// Direction is the unit tangent at the node.
	Direction math.Vec3
	// BendNormal lies in the bend plane, perpendicular to Direction. Its
	// length is the cosine of half the turn angle, or 0 at open ends and
	// where the path runs straight.
	BendNormal math.Vec3
	// Right and Up span the cross-section plane.
	Right math.Vec3
	Up    math.Vec3
}

// Point is an authored anchor.
type Point struct {
	Position  math.Vec3
	Thickness float32
}

// Polyline is an ordered sequence of nodes owned by the caller.
//
// Polyline is not safe for concurrent use. It must not be mutated while a
// generation pass that borrowed it is in flight.
type Polyline struct {
	nodes []Node
}

// NewPolyline creates a polyline from the given points.
func NewPolyline(points ...Point) *Polyline {
	p := &Polyline{nodes: make([]Node, len(points))}
	for i, pt := range points {
		p.nodes[i] = Node{Position: pt.Position, Thickness: pt.Thickness}
	}
	return p
}

// Len returns the number of nodes.
func (p *Polyline) Len() int {
	return len(p.nodes)
}

// Node returns a copy of node i.
func (p *Polyline) Node(i int) (Node, error) {
	if err := p.checkIndex(i, len(p.nodes)); err != nil {
		return Node{}, err
	}
	return p.nodes[i], nil
}

// Nodes returns the backing slice. The caller may read derived fields after
// a pass has completed but must not resize it.
func (p *Polyline) Nodes() []Node {
	return p.nodes
}

// Points returns a copy of the authored positions and thicknesses.
func (p *Polyline) Points() []Point {
	out := make([]Point, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = Point{Position: n.Position, Thickness: n.Thickness}
	}
	return out
}

// SetPoints replaces every node with the given positions, all sharing thickness.
func (p *Polyline) SetPoints(positions []math.Vec3, thickness float32) {
	p.nodes = make([]Node, len(positions))
	for i, pos := range positions {
		p.nodes[i] = Node{Position: pos, Thickness: thickness}
	}
}

// SetPositions resizes the polyline to count nodes. Existing nodes up to
// count are kept; new nodes sit at the origin with DefaultThickness until
// SetPoint places them.
func (p *Polyline) SetPositions(count int) {
	if count < 0 {
		count = 0
	}
	if count <= len(p.nodes) {
		p.nodes = p.nodes[:count]
		return
	}
	for len(p.nodes) < count {
		p.nodes = append(p.nodes, Node{Thickness: DefaultThickness})
	}
}

// SetPoint moves node i and sets its thickness.
func (p *Polyline) SetPoint(i int, pos math.Vec3, thickness float32) error {
	if err := p.checkIndex(i, len(p.nodes)); err != nil {
		return err
	}
	p.nodes[i] = Node{Position: pos, Thickness: thickness}
	return nil
}

// AddPoint appends a node.
func (p *Polyline) AddPoint(pos math.Vec3, thickness float32) {
	p.nodes = append(p.nodes, Node{Position: pos, Thickness: thickness})
}

// InsertPoint inserts a node before index i. i == Len() appends.
func (p *Polyline) InsertPoint(i int, pos math.Vec3, thickness float32) error {
	if err := p.checkIndex(i, len(p.nodes)+1); err != nil {
		return err
	}
	p.nodes = append(p.nodes, Node{})
	copy(p.nodes[i+1:], p.nodes[i:])
	p.nodes[i] = Node{Position: pos, Thickness: thickness}
	return nil
}

// RemovePoint deletes node i.
func (p *Polyline) RemovePoint(i int) error {
	if err := p.checkIndex(i, len(p.nodes)); err != nil {
		return err
	}
	p.nodes = append(p.nodes[:i], p.nodes[i+1:]...)
	return nil
}

func (p *Polyline) checkIndex(i, limit int) error {
	if i < 0 || i >= limit {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(p.nodes))
	}
	return nil
}
