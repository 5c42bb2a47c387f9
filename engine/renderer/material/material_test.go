package material

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redImage(w, h uint32) *common.TextureStagingData {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+3] = 0xFF, 0xFF
	}
	return &common.TextureStagingData{Levels: []common.ImageLevel{{Pixels: pix, Width: w, Height: h}}}
}

func TestNewTextureExposesDefaultImage(t *testing.T) {
	tex := NewTexture("blade.png", WithAnisotropy(16))

	img, version := tex.Image()
	require.NotNil(t, img)
	assert.Equal(t, uint64(0), version)
	assert.False(t, tex.Loaded())
	assert.Equal(t, uint32(1), img.Width())
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, img.Levels[0].Pixels)
	assert.Equal(t, common.ColorSpaceSRGB, tex.ColorSpace())
	assert.Equal(t, uint16(16), tex.Anisotropy())
	assert.Equal(t, "blade.png", tex.Name())
}

func TestSetImageBumpsVersion(t *testing.T) {
	tex := NewTexture("pommel.png")

	assert.Equal(t, uint64(1), tex.SetImage(redImage(2, 2)))
	assert.Equal(t, uint64(2), tex.SetImage(redImage(4, 4)))
	assert.True(t, tex.Loaded())

	img, version := tex.Image()
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, uint32(4), img.Width())
}

func TestSetImageRejectsEmpty(t *testing.T) {
	tex := NewTexture("guardhilt.png")
	assert.Equal(t, uint64(0), tex.SetImage(nil))
	assert.Equal(t, uint64(0), tex.SetImage(&common.TextureStagingData{}))
	assert.False(t, tex.Loaded())
}

func TestTextureConcurrentSwap(t *testing.T) {
	tex := NewTexture("blade.png")

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				tex.SetImage(redImage(1, 1))
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				img, _ := tex.Image()
				assert.NotNil(t, img)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(200), tex.Version())
}

func TestWithAnisotropyFloor(t *testing.T) {
	assert.Equal(t, uint16(1), NewTexture("x", WithAnisotropy(0)).Anisotropy())
}

func TestStandardMaterialDefaults(t *testing.T) {
	tex := NewTexture("blade.png")
	m := NewStandardMaterial(WithName("blade"), WithTexture(tex))

	assert.Equal(t, "blade", m.Name())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.BaseColor())
	assert.Equal(t, float32(1), m.Roughness())
	assert.Equal(t, float32(0), m.Metalness())
	assert.Same(t, tex, m.Texture())
}

func TestGPUMaterialUniform(t *testing.T) {
	srgb := NewStandardMaterial(WithTexture(NewTexture("a.png")), WithRoughness(0.4))
	linear := NewStandardMaterial(WithTexture(NewTexture("b.png", WithColorSpace(common.ColorSpaceLinear))))

	u := NewGPUMaterialUniform(srgb, true)
	assert.Equal(t, 32, u.Size())
	assert.Equal(t, uint32(1), u.TextureSRGB)
	assert.Equal(t, uint32(0), NewGPUMaterialUniform(srgb, false).TextureSRGB)
	assert.Equal(t, uint32(0), NewGPUMaterialUniform(linear, true).TextureSRGB)

	buf := u.Marshal()
	require.Len(t, buf, 32)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[24:28]))
}
