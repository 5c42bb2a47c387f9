package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/engine/camera"
	"github.com/Carmen-Shannon/oxy-sword/engine/light"
)

// GPUFrameParams is the trailing block of the frame uniform.
// Matches the WGSL FrameParams struct in the standard shader.
// Size: 16 bytes.
type GPUFrameParams struct {
	EncodeSRGB uint32 // offset 0: 1 if the fragment shader must apply the sRGB transfer function
	_pad       [3]uint32
}

// Size returns the size of the GPUFrameParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUFrameParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// FrameUniformSize is the byte size of the group 0 uniform:
//
//	[GPUCameraUniform (80)] [light buffer (light.LightBufferSize)] [GPUFrameParams (16)]
const FrameUniformSize = 80 + light.LightBufferSize + 16

// MarshalFrameUniform packs the per-frame uniform shared by every draw.
//
// Parameters:
//   - cam: the camera snapshot
//   - lights: the scene lights in order
//   - physicallyCorrect: whether light intensities are used as given
//   - encodeSRGB: whether the shader encodes its output to sRGB
//
// Returns:
//   - []byte: FrameUniformSize bytes ready for GPU upload
func MarshalFrameUniform(cam camera.GPUCameraUniform, lights []light.Light, physicallyCorrect, encodeSRGB bool) []byte {
	buf := make([]byte, 0, FrameUniformSize)
	buf = append(buf, cam.Marshal()...)
	buf = append(buf, light.MarshalLightBuffer(lights, physicallyCorrect)...)

	params := make([]byte, 16)
	if encodeSRGB {
		binary.LittleEndian.PutUint32(params[0:4], 1)
	}
	return append(buf, params...)
}

// GPUObjectUniform is the per-mesh uniform (group 1).
// Matches the WGSL Object struct in the standard shader.
// Size: 112 bytes.
type GPUObjectUniform struct {
	Model  [16]float32 // offset  0: world matrix (mat4x4<f32>)
	Normal [12]float32 // offset 64: inverse-transpose of the upper 3x3 (mat3x3<f32>, 3 padded columns)
}

// NewGPUObjectUniform derives the object uniform from a world matrix.
//
// Parameters:
//   - world: the mesh world matrix (column-major)
//
// Returns:
//   - GPUObjectUniform: the uniform ready to marshal
func NewGPUObjectUniform(world [16]float32) GPUObjectUniform {
	u := GPUObjectUniform{Model: world}
	common.NormalMatrix(u.Normal[:], world[:])
	return u
}

// ObjectUniformSize is the byte size of a marshaled GPUObjectUniform.
const ObjectUniformSize = 112

// Size returns the size of the GPUObjectUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: ObjectUniformSize bytes ready for GPU upload
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, ObjectUniformSize)
	for i, f := range g.Model {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	for i, f := range g.Normal {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(f))
	}
	return buf
}
