package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
)

// DefaultImage returns the 1x1 opaque white image a texture exposes until its source loads.
//
// Returns:
//   - *common.TextureStagingData: a single-level white image
func DefaultImage() *common.TextureStagingData {
	return &common.TextureStagingData{
		Levels: []common.ImageLevel{{Pixels: []byte{0xFF, 0xFF, 0xFF, 0xFF}, Width: 1, Height: 1}},
	}
}

// texture is the implementation of the Texture interface.
type texture struct {
	mu *sync.RWMutex

	name       string
	colorSpace common.ColorSpace
	anisotropy uint16

	image   *common.TextureStagingData
	version uint64
	loaded  bool
}

// Texture is a named image reference used by a material.
//
// The image behind a texture can be swapped at any time (an asynchronous load
// completing, a hot reload) while frames are being drawn. Every swap bumps the
// version so the renderer knows to re-upload it. A texture that has not loaded
// yet exposes DefaultImage at version 0.
type Texture interface {
	// Name returns the source name of the texture, usually the file name it is loaded from.
	//
	// Returns:
	//   - string: the texture name
	Name() string

	// ColorSpace returns how the texel values are encoded.
	//
	// Returns:
	//   - common.ColorSpace: sRGB for color images, linear for data
	ColorSpace() common.ColorSpace

	// Anisotropy returns the maximum anisotropic filtering level to sample with.
	//
	// Returns:
	//   - uint16: the anisotropy level, 1 disables anisotropic filtering
	Anisotropy() uint16

	// Image returns the current image and the version it was published at.
	//
	// Returns:
	//   - *common.TextureStagingData: the current image (never nil)
	//   - uint64: the version counter
	Image() (*common.TextureStagingData, uint64)

	// Version returns the current version counter.
	//
	// Returns:
	//   - uint64: 0 until the first SetImage, then incremented on every swap
	Version() uint64

	// Loaded reports whether a real image has been published.
	//
	// Returns:
	//   - bool: true after the first successful SetImage
	Loaded() bool

	// SetImage publishes a new image and bumps the version. A nil or empty image is ignored.
	//
	// Parameters:
	//   - img: the decoded image, with its mip chain
	//
	// Returns:
	//   - uint64: the new version, or the unchanged version if img was rejected
	SetImage(img *common.TextureStagingData) uint64
}

var _ Texture = &texture{}

// NewTexture creates a Texture exposing DefaultImage until an image is published.
// Defaults: sRGB color space, anisotropy 1.
//
// Parameters:
//   - name: the source name, e.g. the file name the texture will be loaded from
//   - options: variadic list of TextureBuilderOption functions
//
// Returns:
//   - Texture: a new Texture instance
func NewTexture(name string, options ...TextureBuilderOption) Texture {
	t := &texture{
		mu:         &sync.RWMutex{},
		name:       name,
		colorSpace: common.ColorSpaceSRGB,
		anisotropy: 1,
		image:      DefaultImage(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *texture) Name() string {
	return t.name
}

func (t *texture) ColorSpace() common.ColorSpace {
	return t.colorSpace
}

func (t *texture) Anisotropy() uint16 {
	return t.anisotropy
}

func (t *texture) Image() (*common.TextureStagingData, uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.image, t.version
}

func (t *texture) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

func (t *texture) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

func (t *texture) SetImage(img *common.TextureStagingData) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		return t.version
	}
	t.image = img
	t.version++
	t.loaded = true
	return t.version
}
