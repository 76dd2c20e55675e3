package main

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/tubegen/pkg/math"
	"github.com/Faultbox/tubegen/pkg/tube"
)

const checkTolerance = 1e-3

func fmtVec(v math.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

func offUnit(v math.Vec3) bool {
	return gomath.Abs(float64(v.Length()-1)) > checkTolerance
}

func notOrthogonal(a, b math.Vec3) bool {
	return gomath.Abs(float64(a.Dot(b))) > checkTolerance
}

// checkFrames reports nodes whose Direction, Right and Up are not a
// right-handed orthonormal basis.
func checkFrames(nodes []tube.Node) []string {
	var issues []string
	for i := range nodes {
		n := &nodes[i]
		switch {
		case offUnit(n.Direction), offUnit(n.Right), offUnit(n.Up):
			issues = append(issues, fmt.Sprintf("node %d: axis not unit length: D=%s R=%s U=%s",
				i, fmtVec(n.Direction), fmtVec(n.Right), fmtVec(n.Up)))
		case notOrthogonal(n.Direction, n.Right), notOrthogonal(n.Direction, n.Up), notOrthogonal(n.Right, n.Up):
			issues = append(issues, fmt.Sprintf("node %d: axes not orthogonal: D=%s R=%s U=%s",
				i, fmtVec(n.Direction), fmtVec(n.Right), fmtVec(n.Up)))
		case n.Direction.Cross(n.Right).Dot(n.Up) < 0:
			issues = append(issues, fmt.Sprintf("node %d: left-handed frame", i))
		}
	}
	return issues
}

// checkMesh reports out-of-range indices and triangles whose winding faces
// against the shading normals of their vertices.
func checkMesh(m *tube.Mesh) []string {
	var issues []string
	if want := (m.RingCount() - 1) * m.Resolution * 6; len(m.Indices) != want {
		issues = append(issues, fmt.Sprintf("index count %d, want %d", len(m.Indices), want))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return append(issues, fmt.Sprintf("index %d out of range (%d vertices)", idx, len(m.Vertices)))
		}
	}

	for t := 0; t < m.TriangleCount(); t++ {
		face := m.FaceNormal(t)
		if face == (math.Vec3{}) {
			continue // zero area
		}
		tri := m.Triangle(t)
		shading := m.Normals[tri[0]].Add(m.Normals[tri[1]]).Add(m.Normals[tri[2]])
		if shading.LengthSquared() < 1e-8 {
			continue
		}
		if face.Dot(shading) < 0 {
			issues = append(issues, fmt.Sprintf("triangle %d %v: faces inward", t, tri))
		}
	}
	return issues
}
