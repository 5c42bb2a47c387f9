// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ImageLevel is one level of a texture's mip chain in tightly packed RGBA8 form.
type ImageLevel struct {
	// Pixels holds Width*Height*4 bytes, row-major.
	Pixels []byte
	Width  uint32
	Height uint32
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Levels[0] is the full-resolution image; following entries are successively halved mips.
type TextureStagingData struct {
	Levels []ImageLevel
}

// Width returns the width of the base level, or 0 if there are no levels.
func (t *TextureStagingData) Width() uint32 {
	if t == nil || len(t.Levels) == 0 {
		return 0
	}
	return t.Levels[0].Width
}

// Height returns the height of the base level, or 0 if there are no levels.
func (t *TextureStagingData) Height() uint32 {
	if t == nil || len(t.Levels) == 0 {
		return 0
	}
	return t.Levels[0].Height
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering, which can improve texture quality at oblique viewing angles.
	MaxAnisotropy uint16
}

// ColorSpace identifies how color values in a texture or render target are encoded.
type ColorSpace int

const (
	// ColorSpaceSRGB marks sRGB-encoded data (gamma-compressed).
	ColorSpaceSRGB ColorSpace = iota
	// ColorSpaceLinear marks linear data.
	ColorSpaceLinear
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceSRGB:
		return "srgb"
	case ColorSpaceLinear:
		return "linear"
	default:
		return "unknown"
	}
}
