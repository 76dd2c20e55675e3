package tube

import "github.com/Faultbox/tubegen/pkg/math"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Size returns the box extents.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh holds the buffers of one generation pass.
//
// Vertex i*Resolution+j belongs to node i, angular slot j. Normals share that
// indexing. Indices holds 6 entries per quad between consecutive rings.
type Mesh struct {
	Vertices   []math.Vec3
	Normals    []math.Vec3
	Indices    []uint32
	Resolution int
	Bounds     Bounds
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// RingCount returns the number of rings (one per node).
func (m *Mesh) RingCount() int {
	if m.Resolution == 0 {
		return 0
	}
	return len(m.Vertices) / m.Resolution
}

// Ring returns the vertices of ring i. The slice aliases the vertex buffer.
func (m *Mesh) Ring(i int) []math.Vec3 {
	return m.Vertices[i*m.Resolution : (i+1)*m.Resolution]
}

// Triangle returns the vertex indices of triangle t.
func (m *Mesh) Triangle(t int) [3]uint32 {
	return [3]uint32{m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]}
}

// FaceNormal returns the unit geometric normal of triangle t from its winding.
func (m *Mesh) FaceNormal(t int) math.Vec3 {
	tri := m.Triangle(t)
	a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

func computeBounds(vertices []math.Vec3) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0], Max: vertices[0]}
	for _, v := range vertices[1:] {
		b.Min = b.Min.Min(v)
		b.Max = b.Max.Max(v)
	}
	return b
}

// Assembler consumes the buffers of a completed pass, typically by building
// a renderable surface from them. The Mesh must not be retained past the
// next pass unless the Assembler copies it.
type Assembler interface {
	Assemble(m *Mesh) error
}

// AssemblerFunc adapts a function to the Assembler interface.
type AssemblerFunc func(m *Mesh) error

// Assemble calls f(m).
func (f AssemblerFunc) Assemble(m *Mesh) error {
	return f(m)
}
