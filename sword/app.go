// Package sword assembles the sword scene (camera, orbit controls, lights and four
// textured meshes) and drives it with a renderer and a frame scheduler.
package sword

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/config"
	"github.com/Carmen-Shannon/oxy-sword/engine"
	"github.com/Carmen-Shannon/oxy-sword/engine/camera"
	"github.com/Carmen-Shannon/oxy-sword/engine/light"
	"github.com/Carmen-Shannon/oxy-sword/engine/loader"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sword/engine/scene"
)

// GroupName is the name of the group holding the sword parts.
const GroupName = "sword"

// ErrMissingPart is returned when a sword part cannot be found or was not assembled.
var ErrMissingPart = errors.New("missing sword part")

// App owns everything needed to display the sword: the host container, the scene graph,
// the camera and its orbit controls, the renderer, the frame scheduler and the texture loader.
type App struct {
	mu *sync.Mutex

	cfg       config.Scene
	container Container

	scene    scene.Scene
	camera   camera.Camera
	controls camera.CameraController
	lights   []light.Light
	sword    scene.Group

	renderer  renderer.Renderer
	scheduler engine.Scheduler
	loader    loader.Loader

	input *pointerState

	frames    uint64
	closeOnce *sync.Once
}

// New validates cfg and builds the application in a fixed order: scene, camera, controls,
// lights, meshes, then renderer configuration. Texture loads are started but not awaited.
// The resize handler is registered on the container last.
//
// Parameters:
//   - cfg: the scene configuration
//   - container: the host surface providing size, pixel ratio and input
//   - r: the renderer to draw with
//   - sched: the scheduler that will drive Frame once Run is called
//   - ld: the loader used for the part textures
//
// Returns:
//   - *App: the assembled application
//   - error: a configuration or assembly error
func New(cfg config.Scene, container Container, r renderer.Renderer, sched engine.Scheduler, ld loader.Loader) (*App, error) {
	if container == nil || r == nil || sched == nil || ld == nil {
		return nil, errors.New("sword: container, renderer, scheduler and loader are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		mu:        &sync.Mutex{},
		cfg:       cfg,
		container: container,
		renderer:  r,
		scheduler: sched,
		loader:    ld,
		input:     &pointerState{mu: &sync.Mutex{}},
		closeOnce: &sync.Once{},
	}

	a.buildScene()
	a.buildCamera()
	a.buildControls()
	a.buildLights()
	if err := a.buildMeshes(); err != nil {
		return nil, err
	}
	a.configureRenderer()

	container.SetResizeCallback(func(_, _ int) {
		a.OnResize()
	})

	return a, nil
}

func (a *App) buildScene() {
	a.scene = scene.NewScene("sword-scene", scene.WithBackground(a.cfg.Background))
}

func (a *App) buildCamera() {
	c := a.cfg.Camera
	a.camera = camera.NewCamera(
		camera.WithFovDegrees(c.FovDegrees),
		camera.WithAspect(a.containerAspect()),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
		camera.WithPosition(c.Position[0], c.Position[1], c.Position[2]),
		camera.WithLookAt(c.Target[0], c.Target[1], c.Target[2]),
	)
}

func (a *App) buildControls() {
	c, ctl := a.cfg.Camera, a.cfg.Controls
	a.controls = camera.NewOrbitController(
		camera.WithTarget(c.Target[0], c.Target[1], c.Target[2]),
		camera.WithFromPosition(c.Position[0], c.Position[1], c.Position[2]),
		camera.WithRadiusBounds(ctl.MinDistance, ctl.MaxDistance),
		camera.WithMouseSensitivity(ctl.RotateSpeed),
		camera.WithZoomSpeed(ctl.ZoomSpeed),
		camera.WithPanSpeed(ctl.PanSpeed),
	)
	a.camera.SetController(a.controls)
	a.bindInput()
}

func (a *App) buildLights() {
	h, d := a.cfg.Hemisphere, a.cfg.Directional
	a.lights = []light.Light{
		light.NewLight(light.LightTypeHemisphere,
			light.WithName("hemisphere"),
			light.WithColorHex(h.SkyColor),
			light.WithGroundColorHex(h.GroundColor),
			light.WithIntensity(h.Intensity),
		),
		light.NewLight(light.LightTypeDirectional,
			light.WithName("directional"),
			light.WithColorHex(d.Color),
			light.WithIntensity(d.Intensity),
			light.WithPosition(d.Position[0], d.Position[1], d.Position[2]),
		),
	}
	for _, l := range a.lights {
		a.scene.Add(l)
	}
}

func (a *App) buildMeshes() error {
	parts := a.cfg.Parts.Ordered()
	a.sword = scene.NewGroup(GroupName)
	for _, p := range parts {
		m, err := buildPart(p, a.loader, a.cfg.Anisotropy)
		if err != nil {
			return err
		}
		a.sword.Add(m)
	}
	if n := len(a.sword.Meshes()); n != len(parts) {
		return fmt.Errorf("assembled %d of %d parts: %w", n, len(parts), ErrMissingPart)
	}
	a.scene.Add(a.sword)
	return nil
}

func (a *App) configureRenderer() {
	rc := a.cfg.Renderer
	cs := common.ColorSpaceSRGB
	if rc.OutputColorSpace == config.ColorSpaceLinear {
		cs = common.ColorSpaceLinear
	}
	mode := renderer.PresentModeVSync
	if !rc.VSync {
		mode = renderer.PresentModeUncapped
	}

	a.renderer.SetPixelRatio(a.pixelRatio())
	a.renderer.SetSize(a.container.ClientWidth(), a.container.ClientHeight())
	a.renderer.SetOutputColorSpace(cs)
	a.renderer.SetPhysicallyCorrectLights(rc.PhysicallyCorrectLights)
	a.renderer.SetPresentMode(mode)
}

// Run starts the scheduler with Frame as the frame function. It returns immediately.
//
// Returns:
//   - error: the scheduler's start error, e.g. engine.ErrSchedulerRunning
func (a *App) Run() error {
	return a.scheduler.Start(a.Frame)
}

// Frame renders the scene once from the current camera. Only frames the renderer
// accepts are counted. Nothing is drawn while the container has no area.
//
// Parameters:
//   - deltaTime: seconds since the previous frame
//
// Returns:
//   - error: a wrapped render error
func (a *App) Frame(deltaTime float32) error {
	if a.container.ClientWidth() <= 0 || a.container.ClientHeight() <= 0 {
		return nil
	}

	a.camera.Update()
	err := a.renderer.Render(a.scene, a.camera)
	if err == nil {
		a.mu.Lock()
		a.frames++
		a.mu.Unlock()
	}

	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return nil
}

// OnResize matches the camera aspect and the renderer size to the container's client area.
// A container with no area leaves both unchanged. Calling it repeatedly with the same size
// has no further effect.
func (a *App) OnResize() {
	w, h := a.container.ClientWidth(), a.container.ClientHeight()
	if w <= 0 || h <= 0 {
		return
	}
	a.camera.SetAspect(float32(w) / float32(h))
	a.renderer.SetPixelRatio(a.pixelRatio())
	a.renderer.SetSize(w, h)
}

// Close stops the scheduler, waits for a frame in flight when the scheduler supports it,
// then stops texture loading and releases the renderer. Safe to call more than once.
//
// Returns:
//   - error: the loader's close error from the first call
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.scheduler.Stop()
		if w, ok := a.scheduler.(interface{ Wait() }); ok {
			w.Wait()
		}
		if err = a.loader.Close(); err != nil {
			log.Printf("[Sword] warning: closing loader: %v", err)
		}
		a.renderer.Release()
	})
	return err
}

// Part returns the assembled mesh for a part name (blade, guard, hilt or pommel).
//
// Parameters:
//   - name: the part name
//
// Returns:
//   - scene.Mesh: the part's mesh
//   - error: ErrMissingPart if no part has that name
func (a *App) Part(name string) (scene.Mesh, error) {
	m := a.sword.Mesh(name)
	if m == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrMissingPart)
	}
	return m, nil
}

// Scene returns the scene holding the sword and both lights.
//
// Returns:
//   - scene.Scene: the rendered scene
func (a *App) Scene() scene.Scene {
	return a.scene
}

// Camera returns the perspective camera.
//
// Returns:
//   - camera.Camera: the camera driven by Controls
func (a *App) Camera() camera.Camera {
	return a.camera
}

// Controls returns the orbit controller bound to pointer input.
//
// Returns:
//   - camera.CameraController: the navigation controls
func (a *App) Controls() camera.CameraController {
	return a.controls
}

// Lights returns the hemisphere and directional lights in that order.
//
// Returns:
//   - []light.Light: a copy of the light list
func (a *App) Lights() []light.Light {
	return append([]light.Light(nil), a.lights...)
}

// Sword returns the group holding the four part meshes.
//
// Returns:
//   - scene.Group: the sword group
func (a *App) Sword() scene.Group {
	return a.sword
}

// Renderer returns the renderer drawing each frame.
//
// Returns:
//   - renderer.Renderer: the renderer
func (a *App) Renderer() renderer.Renderer {
	return a.renderer
}

// Config returns the configuration the app was built from.
//
// Returns:
//   - config.Scene: the validated configuration
func (a *App) Config() config.Scene {
	return a.cfg
}

// FrameCount returns how many frames the renderer has accepted.
//
// Returns:
//   - uint64: the number of rendered frames
func (a *App) FrameCount() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}

// containerAspect returns the container's width over height, or 1 when it has no area.
func (a *App) containerAspect() float32 {
	w, h := a.container.ClientWidth(), a.container.ClientHeight()
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

// pixelRatio returns the configured override, falling back to the container's ratio.
func (a *App) pixelRatio() float32 {
	if r := a.cfg.Renderer.PixelRatio; r > 0 {
		return r
	}
	return a.container.DevicePixelRatio()
}
