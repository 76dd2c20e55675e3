package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tubegen/internal/engine/scene/shaders"
	"github.com/Faultbox/tubegen/internal/engine/shader"
	"github.com/Faultbox/tubegen/pkg/math"
	"github.com/Faultbox/tubegen/pkg/tube"
)

var (
	centerlineColor = math.Vec3{X: 0.9, Y: 0.9, Z: 0.9}
	rightColor      = math.Vec3{X: 1, Y: 0.2, Z: 0.2}
	upColor         = math.Vec3{X: 0.2, Y: 1, Z: 0.2}
	directionColor  = math.Vec3{X: 0.3, Y: 0.5, Z: 1}
)

// FrameRenderer draws the polyline centerline and each node's frame axes.
type FrameRenderer struct {
	program  *shader.Program
	vao, vbo uint32

	vertexCount int32
	lines       []float32

	// AxisScale multiplies node thickness to get the drawn axis length.
	AxisScale float32
	Visible   bool
}

// NewFrameRenderer compiles the line shader and creates an empty buffer.
func NewFrameRenderer() (*FrameRenderer, error) {
	program, err := shader.New(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	r := &FrameRenderer{program: program, AxisScale: 1.5}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.BindVertexArray(0)
	return r, nil
}

// Update rebuilds the line buffer from nodes whose frames have been
// computed by a generation pass.
func (r *FrameRenderer) Update(nodes []tube.Node) {
	r.lines = frameLines(r.lines[:0], nodes, r.AxisScale)
	r.vertexCount = int32(len(r.lines) / 6)
	if r.vertexCount == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.lines)*4, unsafe.Pointer(&r.lines[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// frameLines appends GL_LINES vertices (position + color) for the
// centerline and the three axes of every node.
func frameLines(dst []float32, nodes []tube.Node, scale float32) []float32 {
	add := func(a, b, c math.Vec3) {
		dst = append(dst, a.X, a.Y, a.Z, c.X, c.Y, c.Z, b.X, b.Y, b.Z, c.X, c.Y, c.Z)
	}
	for i := range nodes {
		n := &nodes[i]
		if i > 0 {
			add(nodes[i-1].Position, n.Position, centerlineColor)
		}
		l := n.Thickness * scale
		add(n.Position, n.Position.Add(n.Right.Scale(l)), rightColor)
		add(n.Position, n.Position.Add(n.Up.Scale(l)), upColor)
		add(n.Position, n.Position.Add(n.Direction.Scale(l)), directionColor)
	}
	return dst
}

// Render draws the lines when visible.
func (r *FrameRenderer) Render(viewProj math.Mat4) {
	if !r.Visible || r.vertexCount == 0 {
		return
	}
	r.program.Use()
	r.program.SetMat4("uViewProj", (*[16]float32)(&viewProj))
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.LINES, 0, r.vertexCount)
	gl.BindVertexArray(0)
}

// Close frees GPU resources.
func (r *FrameRenderer) Close() {
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	r.program.Delete()
}
