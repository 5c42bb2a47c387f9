package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/engine/camera"
	"github.com/Carmen-Shannon/oxy-sword/engine/geometry"
	"github.com/Carmen-Shannon/oxy-sword/engine/light"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sword/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu sync.Mutex

	srgbSurface bool
	failDraw    bool

	configured  [][2]int
	colorSpace  common.ColorSpace
	presentMode PresentMode
	calls       []string
	clearColors [][3]float32
	frames      [][]byte
	drawn       []string
	releases    int
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured = append(f.configured, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presentMode = mode
}

func (f *fakeBackend) SetOutputColorSpace(cs common.ColorSpace) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colorSpace = cs
}

func (f *fakeBackend) SurfaceSRGB() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.srgbSurface
}

func (f *fakeBackend) BeginFrame(clearColor [3]float32, frameUniform []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "begin")
	f.clearColors = append(f.clearColors, clearColor)
	f.frames = append(f.frames, frameUniform)
	return nil
}

func (f *fakeBackend) DrawMesh(m scene.Mesh, objectUniform, materialUniform []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDraw {
		return errors.New("boom")
	}
	f.calls = append(f.calls, "draw")
	f.drawn = append(f.drawn, m.Name())
	return nil
}

func (f *fakeBackend) EndFrame() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "end")
}

func (f *fakeBackend) Present() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "present")
}

func (f *fakeBackend) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
}

func testScene(t *testing.T) scene.Scene {
	t.Helper()
	s := scene.NewScene("sword", scene.WithBackground(0x8FBCD4))
	s.Add(
		light.NewLight(light.LightTypeHemisphere, light.WithColorHex(0xddeeff), light.WithGroundColorHex(0x202020), light.WithIntensity(5)),
		light.NewLight(light.LightTypeDirectional, light.WithPosition(10, 10, 10), light.WithIntensity(5)),
	)

	g := scene.NewGroup("sword")
	for _, name := range []string{"blade", "guard"} {
		m, err := scene.NewMesh(name, geometry.NewCylinder(), material.NewStandardMaterial(), scene.WithPosition(1, 1, 1))
		require.NoError(t, err)
		g.Add(m)
	}
	s.Add(g)
	return s
}

func testCamera() camera.Camera {
	return camera.NewCamera(camera.WithFovDegrees(50), camera.WithPosition(0, 0, 8))
}

func readFloat(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestRendererLifecycle(t *testing.T) {
	fb := &fakeBackend{srgbSurface: true}
	r := NewRenderer(BackendTypeWGPU, nil, WithBackend(fb))

	assert.Equal(t, StateUninitialized, r.State())
	assert.ErrorIs(t, r.Render(testScene(t), testCamera()), ErrNotRunning)

	r.SetSize(800, 0)
	assert.Equal(t, StateUninitialized, r.State())
	assert.Empty(t, fb.configured)

	r.SetSize(800, 600)
	assert.Equal(t, StateRunning, r.State())
	assert.Equal(t, [][2]int{{800, 600}}, fb.configured)

	r.Release()
	r.Release()
	assert.Equal(t, StateStopped, r.State())
	assert.Equal(t, 1, fb.releases)
	assert.ErrorIs(t, r.Render(testScene(t), testCamera()), ErrNotRunning)

	r.SetSize(1000, 500)
	assert.Len(t, fb.configured, 1)
}

func TestDrawingBufferSizeUsesPixelRatio(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRenderer(BackendTypeWGPU, nil, WithBackend(fb))

	r.SetPixelRatio(1.5)
	r.SetSize(333, 201)
	w, h := r.DrawingBufferSize()
	assert.Equal(t, 500, w)
	assert.Equal(t, 302, h)

	lw, lh := r.Size()
	assert.Equal(t, 333, lw)
	assert.Equal(t, 201, lh)

	r.SetPixelRatio(2)
	r.SetPixelRatio(-1)
	r.SetPixelRatio(float32(math.NaN()))
	assert.Equal(t, float32(2), r.PixelRatio())
	assert.Equal(t, [][2]int{{500, 302}, {666, 402}}, fb.configured)
}

func TestRenderIssuesOneFrame(t *testing.T) {
	fb := &fakeBackend{srgbSurface: true}
	r := NewRenderer(BackendTypeWGPU, nil, WithBackend(fb))
	r.SetSize(800, 600)

	s := testScene(t)
	require.NoError(t, r.Render(s, testCamera()))

	assert.Equal(t, []string{"begin", "draw", "draw", "end", "present"}, fb.calls)
	assert.Equal(t, []string{"blade", "guard"}, fb.drawn)
	assert.Equal(t, uint64(1), r.FrameCount())

	require.Len(t, fb.frames, 1)
	frame := fb.frames[0]
	require.Len(t, frame, FrameUniformSize)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(frame[80:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(frame[80+light.LightBufferSize:]))

	// sRGB surface: background cleared with its linear value
	assert.Equal(t, s.BackgroundLinear(), fb.clearColors[0])
}

func TestRenderEncodesInShaderWithoutSRGBSurface(t *testing.T) {
	fb := &fakeBackend{srgbSurface: false}
	r := NewRenderer(BackendTypeWGPU, nil, WithBackend(fb))
	r.SetSize(800, 600)

	s := testScene(t)
	require.NoError(t, r.Render(s, testCamera()))

	frame := fb.frames[0]
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(frame[80+light.LightBufferSize:]))
	assert.Equal(t, common.HexToRGB(0x8FBCD4), fb.clearColors[0])

	r.SetOutputColorSpace(common.ColorSpaceLinear)
	assert.Equal(t, common.ColorSpaceLinear, fb.colorSpace)
	require.NoError(t, r.Render(s, testCamera()))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(fb.frames[1][80+light.LightBufferSize:]))
}

func TestPhysicallyCorrectLightsScalesIntensity(t *testing.T) {
	fb := &fakeBackend{srgbSurface: true}
	r := NewRenderer(BackendTypeWGPU, nil, WithBackend(fb), WithPhysicallyCorrectLights(false))
	r.SetSize(100, 100)
	s := testScene(t)

	// intensity of the first light: camera (80) + header (16) + offset 28
	const intensityOffset = 80 + 16 + 28

	require.NoError(t, r.Render(s, testCamera()))
	assert.InDelta(t, 5*math.Pi, readFloat(fb.frames[0], intensityOffset), 1e-4)

	r.SetPhysicallyCorrectLights(true)
	require.NoError(t, r.Render(s, testCamera()))
	assert.InDelta(t, 5, readFloat(fb.frames[1], intensityOffset), 1e-6)
}

func TestRenderDrawErrorStillEndsFrame(t *testing.T) {
	fb := &fakeBackend{srgbSurface: true, failDraw: true}
	r := NewRenderer(BackendTypeWGPU, nil, WithBackend(fb))
	r.SetSize(100, 100)

	err := r.Render(testScene(t), testCamera())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blade")
	assert.Equal(t, []string{"begin", "end", "present"}, fb.calls)
	assert.Equal(t, uint64(1), r.FrameCount())
}

func TestGPUObjectUniform(t *testing.T) {
	var world [16]float32
	common.Translation(world[:], 1, 2, 3)
	u := NewGPUObjectUniform(world)

	assert.Equal(t, ObjectUniformSize, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, ObjectUniformSize)
	assert.Equal(t, float32(2), readFloat(buf, 13*4))
	// normal matrix of a pure translation is the identity
	assert.Equal(t, float32(1), readFloat(buf, 64))
	assert.Equal(t, float32(1), readFloat(buf, 64+5*4))
	assert.Equal(t, float32(1), readFloat(buf, 64+10*4))
}

func TestChooseSurfaceFormat(t *testing.T) {
	formats := []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb}

	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, chooseSurfaceFormat(formats, true))
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, chooseSurfaceFormat(formats, false))
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, chooseSurfaceFormat(formats[:1], true))
	assert.True(t, isSRGBFormat(wgpu.TextureFormatRGBA8UnormSrgb))
}

func TestStandardShaderLayout(t *testing.T) {
	refl, err := reflectStandardShader()
	require.NoError(t, err)

	assert.Equal(t, "vs_main", refl.VertexEntryPoint)
	assert.Equal(t, "fs_main", refl.FragmentEntryPoint)

	frame, ok := refl.Binding("frame")
	require.True(t, ok)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, frame.Entry.Visibility)

	entries := refl.GroupEntries(2)
	require.Len(t, entries, 3)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[1].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[2].Sampler.Type)
	assert.NotZero(t, entries[1].Visibility&wgpu.ShaderStageFragment)

	assert.Equal(t, geometry.VertexBufferLayout(), refl.VertexInputs[0])
}
