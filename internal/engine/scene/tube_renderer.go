package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tubegen/internal/engine/scene/shaders"
	"github.com/Faultbox/tubegen/internal/engine/shader"
	"github.com/Faultbox/tubegen/pkg/math"
	"github.com/Faultbox/tubegen/pkg/tube"
)

// floats per interleaved vertex: position + normal
const tubeVertexStride = 6

// TubeRenderer uploads generated tube meshes to GPU buffers and draws them.
// It implements tube.Assembler. Assemble must run on the GL thread.
type TubeRenderer struct {
	log     *zap.Logger
	program *shader.Program

	vao, vbo, ebo uint32
	indexCount    int32

	// capacities of the current GPU buffers in bytes
	vboSize, eboSize int

	// reused between uploads
	interleaved []float32

	Color     [3]float32
	BackColor [3]float32
	LightDir  math.Vec3
	Ambient   float32
	Wireframe bool
}

var _ tube.Assembler = (*TubeRenderer)(nil)

// NewTubeRenderer compiles the tube shader and creates empty buffers.
func NewTubeRenderer(log *zap.Logger) (*TubeRenderer, error) {
	program, err := shader.New(shaders.TubeVertexShader, shaders.TubeFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("tube shader: %w", err)
	}

	r := &TubeRenderer{
		log:       log,
		program:   program,
		Color:     [3]float32{0.85, 0.55, 0.25},
		BackColor: [3]float32{0.9, 0.1, 0.6},
		LightDir:  math.Vec3{X: -0.4, Y: -1, Z: -0.6}.Normalize(),
		Ambient:   0.25,
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, tubeVertexStride*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, tubeVertexStride*4, 3*4)
	// The element buffer binding is VAO state.
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BindVertexArray(0)

	return r, nil
}

// Assemble interleaves the mesh and uploads it, growing the buffers only
// when the new mesh does not fit.
func (r *TubeRenderer) Assemble(m *tube.Mesh) error {
	if m == nil || len(m.Indices) == 0 {
		r.indexCount = 0
		return nil
	}
	if len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh has %d vertices but %d normals", len(m.Vertices), len(m.Normals))
	}

	r.interleaved = interleave(r.interleaved[:0], m)

	gl.BindVertexArray(r.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	vboBytes := len(r.interleaved) * 4
	if vboBytes > r.vboSize {
		gl.BufferData(gl.ARRAY_BUFFER, vboBytes, unsafe.Pointer(&r.interleaved[0]), gl.DYNAMIC_DRAW)
		r.vboSize = vboBytes
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, vboBytes, unsafe.Pointer(&r.interleaved[0]))
	}

	eboBytes := len(m.Indices) * 4
	if eboBytes > r.eboSize {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, eboBytes, unsafe.Pointer(&m.Indices[0]), gl.DYNAMIC_DRAW)
		r.eboSize = eboBytes
	} else {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, eboBytes, unsafe.Pointer(&m.Indices[0]))
	}

	gl.BindVertexArray(0)
	r.indexCount = int32(len(m.Indices))

	r.log.Debug("tube uploaded",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("indices", len(m.Indices)),
		zap.Int("vboBytes", r.vboSize),
		zap.Int("eboBytes", r.eboSize))
	return nil
}

// interleave writes position/normal pairs into dst.
func interleave(dst []float32, m *tube.Mesh) []float32 {
	for i, v := range m.Vertices {
		n := m.Normals[i]
		dst = append(dst, v.X, v.Y, v.Z, n.X, n.Y, n.Z)
	}
	return dst
}

// Render draws the last assembled mesh.
func (r *TubeRenderer) Render(viewProj math.Mat4) {
	if r.indexCount == 0 {
		return
	}

	r.program.Use()
	r.program.SetMat4("uViewProj", (*[16]float32)(&viewProj))
	r.program.SetVec3("uLightDir", r.LightDir.X, r.LightDir.Y, r.LightDir.Z)
	r.program.SetVec3("uColor", r.Color[0], r.Color[1], r.Color[2])
	r.program.SetVec3("uBackColor", r.BackColor[0], r.BackColor[1], r.BackColor[2])
	r.program.SetFloat("uAmbient", r.Ambient)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// IndexCount returns the number of indices currently on the GPU.
func (r *TubeRenderer) IndexCount() int {
	return int(r.indexCount)
}

// Close frees GPU resources.
func (r *TubeRenderer) Close() {
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	r.program.Delete()
}
