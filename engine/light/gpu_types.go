package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the number of light slots in the frame uniform buffer.
// Enabled lights beyond this count are dropped.
const MaxGPULights = 4

// LegacyIntensityScale is applied to every intensity when physically-correct lighting is off,
// matching renderers that fold a factor of pi into their light units.
const LegacyIntensityScale = math.Pi

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct in the standard shader.
// Size: 64 bytes (WGSL uniform aligned).
type GPULight struct {
	Direction   [3]float32 // offset  0: normalized travel direction (directional)
	LightType   uint32     // offset 12: 0 = directional, 1 = hemisphere
	Color       [3]float32 // offset 16: linear RGB color, sky color for hemisphere
	Intensity   float32    // offset 28: scalar multiplier
	GroundColor [3]float32 // offset 32: hemisphere ground color
	_pad0       float32    // offset 44
	Position    [3]float32 // offset 48: world-space position
	_pad1       float32    // offset 60
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 64)
	putVec3(buf[0:12], g.Direction)
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	putVec3(buf[16:28], g.Color)
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	putVec3(buf[32:44], g.GroundColor)
	putVec3(buf[48:60], g.Position)
	return buf
}

// GPULightHeader precedes the light array in the uniform buffer.
// Size: 16 bytes.
type GPULightHeader struct {
	LightCount uint32 // offset 0: number of valid entries following the header
	_pad       [3]uint32
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// LightBufferSize is the fixed byte size of the buffer produced by MarshalLightBuffer.
const LightBufferSize = 16 + MaxGPULights*64

// ToGPULight converts a Light interface value into the GPU-aligned GPULight struct.
//
// Parameters:
//   - l: the Light to convert
//   - physicallyCorrect: when false the intensity is scaled by LegacyIntensityScale
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light, physicallyCorrect bool) GPULight {
	intensity := l.Intensity()
	if !physicallyCorrect {
		intensity *= LegacyIntensityScale
	}
	return GPULight{
		Direction:   l.Direction(),
		LightType:   uint32(l.Type()),
		Color:       l.Color(),
		Intensity:   intensity,
		GroundColor: l.GroundColor(),
		Position:    l.Position(),
	}
}

// MarshalLightBuffer marshals the enabled lights into a fixed-size uniform buffer:
//
//	[GPULightHeader (16 bytes)] [GPULight x MaxGPULights (64 bytes each)]
//
// Unused slots are zeroed.
//
// Parameters:
//   - lights: the lights to marshal, in scene order
//   - physicallyCorrect: whether intensities are used as given
//
// Returns:
//   - []byte: LightBufferSize bytes ready for GPU upload
func MarshalLightBuffer(lights []Light, physicallyCorrect bool) []byte {
	buf := make([]byte, LightBufferSize)

	offset := 16
	count := 0
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		if count >= MaxGPULights {
			break
		}
		gpu := ToGPULight(l, physicallyCorrect)
		copy(buf[offset:offset+64], gpu.Marshal())
		offset += 64
		count++
	}
	binary.LittleEndian.PutUint32(buf[0:4], uint32(count))

	return buf
}

func putVec3(dst []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(v[2]))
}
