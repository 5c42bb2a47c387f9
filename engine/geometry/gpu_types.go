package geometry

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// Vertex is the GPU-aligned representation of a single tessellated vertex.
// Matches the VertexInput struct of the standard shader.
// Size: 32 bytes.
type Vertex struct {
	Position [3]float32 // offset  0: position in model space (12 bytes)
	Normal   [3]float32 // offset 12: unit surface normal (12 bytes)
	UV       [2]float32 // offset 24: texture coordinate (8 bytes)
}

// VertexStride is the byte size of one Vertex in a vertex buffer.
const VertexStride = 32

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the Vertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, VertexStride)
	floats := [8]float32{
		v.Position[0], v.Position[1], v.Position[2],
		v.Normal[0], v.Normal[1], v.Normal[2],
		v.UV[0], v.UV[1],
	}
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// MarshalVertices packs a vertex list into one contiguous little-endian buffer.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: len(vertices)*VertexStride bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*VertexStride)
	for i := range vertices {
		buf = append(buf, vertices[i].Marshal()...)
	}
	return buf
}

// VertexBufferLayout describes the Vertex layout to a render pipeline.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride and attributes at shader locations 0 (position), 1 (normal), 2 (uv)
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}
