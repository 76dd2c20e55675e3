package tube

import (
	gomath "math"

	"github.com/Faultbox/tubegen/pkg/math"
)

// curvatureEpsilon is the bend-normal length below which a node is treated
// as straight and gets no scale correction.
const curvatureEpsilon = 1e-6

// RingTable holds the unit circle sampled at Resolution evenly spaced angles.
type RingTable struct {
	Sines   []float32
	Cosines []float32
}

// NewRingTable samples sin and cos of 2*pi*j/resolution.
func NewRingTable(resolution int) RingTable {
	t := RingTable{
		Sines:   make([]float32, resolution),
		Cosines: make([]float32, resolution),
	}
	for j := range resolution {
		a := 2 * gomath.Pi * float64(j) / float64(resolution)
		t.Sines[j] = float32(gomath.Sin(a))
		t.Cosines[j] = float32(gomath.Cos(a))
	}
	return t
}

// Resolution returns the number of samples.
func (t RingTable) Resolution() int {
	return len(t.Sines)
}

// scaleFactor returns the extra stretch applied along the bend normal,
// clamp(1/k, lo, hi) - 1 with k = |bendNormal|. Straight and open-end nodes
// return 0.
func scaleFactor(bendNormal math.Vec3, lo, hi float32) float32 {
	k := bendNormal.Length()
	if k < curvatureEpsilon {
		return 0
	}
	return math.Clamp(1/k, lo, hi) - 1
}

// extrudeRing writes the ring of node i into vertices and normals starting
// at i*resolution. It touches no other slots.
func extrudeRing(n *Node, i int, table RingTable, opts Options, vertices, normals []math.Vec3) {
	res := table.Resolution()
	base := i * res

	scaledRight := n.Right.Scale(n.Thickness)
	scaledUp := n.Up.Scale(n.Thickness)

	var bend math.Vec3
	var factor float32
	if opts.ScaleCorrection {
		factor = scaleFactor(n.BendNormal, opts.MinScale, opts.MaxScale)
		bend = n.BendNormal.Normalize()
	}

	for j := range res {
		offset := scaledRight.Scale(table.Cosines[j]).Add(scaledUp.Scale(table.Sines[j]))
		normals[base+j] = offset.Normalize()
		if factor != 0 {
			offset = offset.Add(bend.Scale(bend.Dot(offset) * factor))
		}
		vertices[base+j] = n.Position.Add(offset)
	}
}

// stitchRing writes the 6*resolution indices joining ring i to ring i+1.
// Quad j uses a=(i,j) b=(i,j+1) c=(i+1,j) d=(i+1,j+1) and is emitted as the
// triangles a-b-c and b-d-c, counter-clockwise seen from outside the tube.
func stitchRing(i, resolution int, indices []uint32) {
	base := i * resolution
	out := indices[base*6 : (base+resolution)*6]
	for j := range resolution {
		a := uint32(base + j)
		b := uint32(base + (j+1)%resolution)
		c := a + uint32(resolution)
		d := b + uint32(resolution)

		q := out[j*6 : j*6+6]
		q[0], q[1], q[2] = a, b, c
		q[3], q[4], q[5] = b, d, c
	}
}
