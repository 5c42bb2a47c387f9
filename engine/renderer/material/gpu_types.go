package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sword/common"
)

// GPUMaterialUniform is the GPU-aligned uniform for the standard fragment shader.
// Matches the WGSL Material struct in the standard shader.
// Size: 32 bytes.
type GPUMaterialUniform struct {
	BaseColor   [4]float32 // offset  0: linear RGBA base color (16 bytes)
	Roughness   float32    // offset 16
	Metalness   float32    // offset 20
	TextureSRGB uint32     // offset 24: 1 if the bound texture view does not decode sRGB in hardware
	_pad        uint32     // offset 28
}

// NewGPUMaterialUniform builds the uniform for a material.
//
// Parameters:
//   - m: the material
//   - shaderDecodesSRGB: true when an sRGB texture is bound through a linear (non-sRGB) view
//     and the shader must decode it
//
// Returns:
//   - GPUMaterialUniform: the uniform ready to marshal
func NewGPUMaterialUniform(m Material, shaderDecodesSRGB bool) GPUMaterialUniform {
	u := GPUMaterialUniform{
		BaseColor: m.BaseColor(),
		Roughness: m.Roughness(),
		Metalness: m.Metalness(),
	}
	if shaderDecodesSRGB && m.Texture() != nil && m.Texture().ColorSpace() == common.ColorSpaceSRGB {
		u.TextureSRGB = 1
	}
	return u
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, 32)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.BaseColor[i]))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Roughness))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Metalness))
	binary.LittleEndian.PutUint32(buf[24:28], g.TextureSRGB)
	return buf
}
