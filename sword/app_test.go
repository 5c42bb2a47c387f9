package sword

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/config"
	"github.com/Carmen-Shannon/oxy-sword/engine"
	"github.com/Carmen-Shannon/oxy-sword/engine/geometry"
	"github.com/Carmen-Shannon/oxy-sword/engine/loader"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sword/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContainer struct {
	mu sync.Mutex

	width, height int
	ratio         float32

	onResize      func(width, height int)
	onMouseButton func(button common.MouseButton, pressed bool, x, y float64)
	onMouseMove   func(x, y float64)
	onScroll      func(delta float32)
}

func (c *fakeContainer) ClientWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

func (c *fakeContainer) ClientHeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

func (c *fakeContainer) DevicePixelRatio() float32 {
	return c.ratio
}

func (c *fakeContainer) SetResizeCallback(cb func(width, height int)) {
	c.onResize = cb
}

func (c *fakeContainer) SetMouseButtonCallback(cb func(button common.MouseButton, pressed bool, x, y float64)) {
	c.onMouseButton = cb
}

func (c *fakeContainer) SetMouseMoveCallback(cb func(x, y float64)) {
	c.onMouseMove = cb
}

func (c *fakeContainer) SetScrollCallback(cb func(delta float32)) {
	c.onScroll = cb
}

// resize changes the client size and fires the resize callback like a window would.
func (c *fakeContainer) resize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
	if c.onResize != nil {
		c.onResize(width, height)
	}
}

func (c *fakeContainer) drag(button common.MouseButton, fromX, fromY, toX, toY float64) {
	c.onMouseButton(button, true, fromX, fromY)
	c.onMouseMove(toX, toY)
	c.onMouseButton(button, false, toX, toY)
}

type fakeBackend struct {
	mu sync.Mutex

	configured [][2]int
	frames     [][]byte
	drawn      []string
	releases   int
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured = append(f.configured, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(renderer.PresentMode)    {}
func (f *fakeBackend) SetOutputColorSpace(common.ColorSpace) {}
func (f *fakeBackend) SurfaceSRGB() bool                      { return true }
func (f *fakeBackend) EndFrame()                              {}
func (f *fakeBackend) Present()                               {}

func (f *fakeBackend) BeginFrame(_ [3]float32, frameUniform []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, append([]byte(nil), frameUniform...))
	return nil
}

func (f *fakeBackend) DrawMesh(m scene.Mesh, _, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drawn = append(f.drawn, m.Name())
	return nil
}

func (f *fakeBackend) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
}

func encodePNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type harness struct {
	app       *App
	container *fakeContainer
	backend   *fakeBackend
	scheduler *engine.ManualScheduler
	loader    loader.Loader
}

func newHarness(t *testing.T, cfg config.Scene) *harness {
	t.Helper()

	assets := fstest.MapFS{
		"blade.png":     {Data: encodePNG(t, color.NRGBA{200, 200, 220, 255})},
		"guardhilt.png": {Data: encodePNG(t, color.NRGBA{120, 80, 40, 255})},
		"pommel.png":    {Data: encodePNG(t, color.NRGBA{180, 150, 60, 255})},
	}

	h := &harness{
		container: &fakeContainer{width: 800, height: 600, ratio: 2},
		backend:   &fakeBackend{},
		scheduler: engine.NewManualScheduler(60),
		loader:    loader.NewLoader(loader.BackendTypeFS, loader.WithFS(assets), loader.WithWorkers(2)),
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, nil, renderer.WithBackend(h.backend))

	app, err := New(cfg, h.container, r, h.scheduler, h.loader)
	require.NoError(t, err)
	h.app = app
	t.Cleanup(func() { _ = app.Close() })
	return h
}

func TestNewAssemblesSword(t *testing.T) {
	h := newHarness(t, config.Default())
	s := h.app.Scene()

	children := s.Children()
	require.Len(t, children, 3)
	assert.Equal(t, "hemisphere", children[0].Name())
	assert.Equal(t, "directional", children[1].Name())

	groups := s.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, GroupName, groups[0].Name())

	meshes := groups[0].Meshes()
	require.Len(t, meshes, 4)
	names := make([]string, 0, len(meshes))
	for _, m := range meshes {
		names = append(names, m.Name())
		assert.NotNil(t, m.Geometry())
		assert.NotNil(t, m.Material())
		assert.Same(t, groups[0], m.Parent())
	}
	assert.Equal(t, []string{"blade", "guard", "hilt", "pommel"}, names)
}

func TestPartTexturesAndPositions(t *testing.T) {
	h := newHarness(t, config.Default())

	tests := []struct {
		part     string
		texture  string
		position [3]float32
	}{
		{"blade", "blade.png", [3]float32{1, 2, 1}},
		{"guard", "guardhilt.png", [3]float32{1, 1, 1}},
		{"hilt", "guardhilt.png", [3]float32{1, 0.7, 1}},
		{"pommel", "pommel.png", [3]float32{1, 0.5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			m, err := h.app.Part(tt.part)
			require.NoError(t, err)
			tex := m.Material().Texture()
			require.NotNil(t, tex)
			assert.Equal(t, tt.texture, tex.Name())
			assert.Equal(t, common.ColorSpaceSRGB, tex.ColorSpace())
			assert.Equal(t, uint16(16), tex.Anisotropy())
			assert.Equal(t, tt.position, m.Position())
		})
	}

	guard, _ := h.app.Part("guard")
	hilt, _ := h.app.Part("hilt")
	assert.Same(t, guard.Material().Texture(), hilt.Material().Texture())

	h.loader.Wait()
	for _, name := range []string{"blade.png", "guardhilt.png", "pommel.png"} {
		tex := h.loader.Get(name)
		require.NotNil(t, tex, name)
		assert.True(t, tex.Loaded(), name)
		img, _ := tex.Image()
		assert.Equal(t, uint32(4), img.Width(), name)
	}

	_, err := h.app.Part("scabbard")
	assert.ErrorIs(t, err, ErrMissingPart)
}

func TestCameraAndLights(t *testing.T) {
	h := newHarness(t, config.Default())
	c := h.app.Camera()

	assert.InDelta(t, float32(800.0/600.0), c.Aspect(), 1e-6)
	assert.InDelta(t, float32(0.1), c.Near(), 1e-6)
	assert.InDelta(t, float32(100), c.Far(), 1e-6)
	assert.InDelta(t, common.DegToRad(50), c.Fov(), 1e-6)

	x, y, z := h.app.Controls().Position()
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, 8, z, 1e-5)
	assert.Same(t, h.app.Controls(), c.Controller())

	lights := h.app.Lights()
	require.Len(t, lights, 2)
	assert.Equal(t, common.HexToLinearRGB(0xddeeff), lights[0].Color())
	assert.Equal(t, common.HexToLinearRGB(0x202020), lights[0].GroundColor())
	assert.Equal(t, float32(5), lights[1].Intensity())
	assert.Equal(t, [3]float32{10, 10, 10}, lights[1].Position())
}

func TestRendererConfiguredFromContainer(t *testing.T) {
	h := newHarness(t, config.Default())
	r := h.app.Renderer()

	assert.Equal(t, renderer.StateRunning, r.State())
	w, ht := r.Size()
	assert.Equal(t, [2]int{800, 600}, [2]int{w, ht})
	assert.Equal(t, float32(2), r.PixelRatio())
	assert.True(t, r.PhysicallyCorrectLights())
	assert.Equal(t, common.ColorSpaceSRGB, r.OutputColorSpace())

	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	require.NotEmpty(t, h.backend.configured)
	assert.Equal(t, [2]int{1600, 1200}, h.backend.configured[len(h.backend.configured)-1])
}

func TestPixelRatioOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Renderer.PixelRatio = 1
	cfg.Renderer.OutputColorSpace = config.ColorSpaceLinear
	h := newHarness(t, cfg)

	assert.Equal(t, float32(1), h.app.Renderer().PixelRatio())
	assert.Equal(t, common.ColorSpaceLinear, h.app.Renderer().OutputColorSpace())
	w, ht := h.app.Renderer().DrawingBufferSize()
	assert.Equal(t, [2]int{800, 600}, [2]int{w, ht})
}

func TestResize(t *testing.T) {
	h := newHarness(t, config.Default())

	h.container.resize(800, 600)
	assert.InDelta(t, float32(1.3333333), h.app.Camera().Aspect(), 1e-5)
	w, ht := h.app.Renderer().Size()
	assert.Equal(t, [2]int{800, 600}, [2]int{w, ht})

	h.container.resize(1000, 500)
	assert.InDelta(t, float32(2.0), h.app.Camera().Aspect(), 1e-6)
	w, ht = h.app.Renderer().Size()
	assert.Equal(t, [2]int{1000, 500}, [2]int{w, ht})

	// repeating the same size changes nothing
	h.app.OnResize()
	assert.InDelta(t, float32(2.0), h.app.Camera().Aspect(), 1e-6)

	// a collapsed container leaves the last good state in place
	h.container.resize(1000, 0)
	assert.InDelta(t, float32(2.0), h.app.Camera().Aspect(), 1e-6)
	w, ht = h.app.Renderer().Size()
	assert.Equal(t, [2]int{1000, 500}, [2]int{w, ht})
}

func TestFramesRenderCurrentSceneAndCamera(t *testing.T) {
	h := newHarness(t, config.Default())

	require.NoError(t, h.app.Run())
	assert.ErrorIs(t, h.app.Run(), engine.ErrSchedulerRunning)

	for i := 1; i <= 3; i++ {
		require.NoError(t, h.scheduler.Step())
		assert.Equal(t, uint64(i), h.app.FrameCount())
	}
	assert.Equal(t, uint64(3), h.app.Renderer().FrameCount())

	h.backend.mu.Lock()
	require.Len(t, h.backend.frames, 3)
	assert.Len(t, h.backend.drawn, 12)
	assert.Equal(t, []string{"blade", "guard", "hilt", "pommel"}, h.backend.drawn[:4])
	before := h.backend.frames[2][:64]
	h.backend.mu.Unlock()

	h.container.resize(1000, 500)
	require.NoError(t, h.scheduler.Step())
	assert.Equal(t, uint64(4), h.app.FrameCount())

	h.backend.mu.Lock()
	after := h.backend.frames[3][:64]
	h.backend.mu.Unlock()
	assert.NotEqual(t, before, after, "frame after resize must use the new projection")

	// a container with no area skips drawing
	h.container.resize(0, 0)
	require.NoError(t, h.scheduler.Step())
	assert.Equal(t, uint64(4), h.app.FrameCount())
}

func TestFrameCountsOnlyRenderedFrames(t *testing.T) {
	h := newHarness(t, config.Default())

	require.NoError(t, h.app.Frame(1.0/60))
	assert.Equal(t, uint64(1), h.app.FrameCount())

	h.app.Renderer().Release()
	err := h.app.Frame(1.0 / 60)
	assert.ErrorIs(t, err, renderer.ErrNotRunning)
	assert.Equal(t, uint64(1), h.app.FrameCount())

	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	assert.Len(t, h.backend.frames, 1)
}

func TestInputDrivesControls(t *testing.T) {
	h := newHarness(t, config.Default())
	ctl := h.app.Controls()

	azimuth := ctl.Azimuth()
	h.container.drag(common.MouseButtonLeft, 100, 100, 160, 100)
	assert.NotEqual(t, azimuth, ctl.Azimuth())

	radius := ctl.Radius()
	h.container.onScroll(1)
	assert.Less(t, ctl.Radius(), radius)

	tx, ty, tz := ctl.Target()
	h.container.drag(common.MouseButtonRight, 100, 100, 140, 130)
	nx, ny, nz := ctl.Target()
	assert.NotEqual(t, [3]float32{tx, ty, tz}, [3]float32{nx, ny, nz})

	// moves without a held button do nothing
	azimuth = ctl.Azimuth()
	h.container.onMouseMove(500, 500)
	assert.Equal(t, azimuth, ctl.Azimuth())
}

func TestCloseIsIdempotent(t *testing.T) {
	h := newHarness(t, config.Default())
	require.NoError(t, h.app.Run())

	require.NoError(t, h.app.Close())
	require.NoError(t, h.app.Close())

	assert.False(t, h.scheduler.Running())
	assert.Equal(t, renderer.StateStopped, h.app.Renderer().State())
	assert.ErrorIs(t, h.scheduler.Step(), engine.ErrSchedulerStopped)

	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	assert.Equal(t, 1, h.backend.releases)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Near = 0

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, nil, renderer.WithBackend(&fakeBackend{}))
	ld := loader.NewLoader(loader.BackendTypeFS, loader.WithFS(fstest.MapFS{}))
	defer ld.Close()

	_, err := New(cfg, &fakeContainer{width: 1, height: 1, ratio: 1}, r, engine.NewManualScheduler(0), ld)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = New(config.Default(), nil, r, engine.NewManualScheduler(0), ld)
	assert.Error(t, err)
}

func TestNewRejectsBadGeometry(t *testing.T) {
	cfg := config.Default()
	cfg.Parts.Blade.Height = -1

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, nil, renderer.WithBackend(&fakeBackend{}))
	ld := loader.NewLoader(loader.BackendTypeFS, loader.WithFS(fstest.MapFS{}))
	defer ld.Close()

	_, err := New(cfg, &fakeContainer{width: 1, height: 1, ratio: 1}, r, engine.NewManualScheduler(0), ld)
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}
