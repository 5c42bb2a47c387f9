package material

import "github.com/Carmen-Shannon/oxy-sword/common"

// TextureBuilderOption is a function that configures a Texture during construction.
type TextureBuilderOption func(*texture)

// WithColorSpace sets the color space the texture's texels are encoded in.
//
// Parameters:
//   - cs: common.ColorSpaceSRGB for color maps, common.ColorSpaceLinear for data maps
//
// Returns:
//   - TextureBuilderOption: a function that applies the color space option
func WithColorSpace(cs common.ColorSpace) TextureBuilderOption {
	return func(t *texture) {
		t.colorSpace = cs
	}
}

// WithAnisotropy sets the maximum anisotropic filtering level. Values below 1 are raised to 1.
//
// Parameters:
//   - level: the anisotropy level, typically 1 to 16
//
// Returns:
//   - TextureBuilderOption: a function that applies the anisotropy option
func WithAnisotropy(level uint16) TextureBuilderOption {
	return func(t *texture) {
		t.anisotropy = max(level, 1)
	}
}
