package renderer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/engine/camera"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sword/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotRunning is returned by Render before the surface has a size or after Release.
var ErrNotRunning = errors.New("renderer is not running")

// State is the lifecycle state of a Renderer.
type State int

const (
	// StateUninitialized means no drawable surface size has been set yet.
	StateUninitialized State = iota
	// StateRunning means the surface is configured and Render draws frames.
	StateRunning
	// StateStopped means Release was called; the renderer cannot be restarted.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SurfaceProvider supplies the platform surface descriptor the WebGPU backend draws to.
// window.Window satisfies it.
type SurfaceProvider interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     Backend

	state      State
	width      int
	height     int
	pixelRatio float32
	frameCount uint64

	outputColorSpace        common.ColorSpace
	physicallyCorrectLights bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer owns the drawing surface and draws a Scene from a Camera once per call to Render.
//
// The surface size is given in logical (CSS-like) pixels; the drawing buffer is that size
// multiplied by the pixel ratio and rounded. A Renderer moves from StateUninitialized to
// StateRunning on the first SetSize with a non-empty drawing buffer, and to StateStopped on Release.
type Renderer interface {
	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: uninitialized, running or stopped
	State() State

	// SetSize sets the logical surface size and reconfigures the drawing buffer.
	// A size whose drawing buffer rounds to zero in either dimension is recorded but the
	// surface is left as is, so a minimized window does not tear down the swapchain.
	//
	// Parameters:
	//   - width: logical width in pixels
	//   - height: logical height in pixels
	SetSize(width, height int)

	// Size returns the logical surface size last passed to SetSize.
	//
	// Returns:
	//   - width, height: logical size in pixels
	Size() (width, height int)

	// SetPixelRatio sets the device pixel ratio used to size the drawing buffer.
	// Non-positive and non-finite ratios are ignored.
	//
	// Parameters:
	//   - ratio: physical pixels per logical pixel
	SetPixelRatio(ratio float32)

	// PixelRatio returns the current device pixel ratio.
	//
	// Returns:
	//   - float32: physical pixels per logical pixel
	PixelRatio() float32

	// DrawingBufferSize returns round(width*ratio) x round(height*ratio).
	//
	// Returns:
	//   - width, height: drawing buffer size in physical pixels
	DrawingBufferSize() (width, height int)

	// SetOutputColorSpace selects how the final color is encoded. With ColorSpaceSRGB the
	// surface is configured with an sRGB format when available, otherwise the shader encodes.
	//
	// Parameters:
	//   - cs: the output color space
	SetOutputColorSpace(cs common.ColorSpace)

	// OutputColorSpace returns the output color space.
	//
	// Returns:
	//   - common.ColorSpace: the output color space
	OutputColorSpace() common.ColorSpace

	// SetPhysicallyCorrectLights toggles physical light units. When false every light
	// intensity is scaled by light.LegacyIntensityScale.
	//
	// Parameters:
	//   - enabled: true for physical light units
	SetPhysicallyCorrectLights(enabled bool)

	// PhysicallyCorrectLights reports whether physical light units are in use.
	//
	// Returns:
	//   - bool: true for physical light units
	PhysicallyCorrectLights() bool

	// SetPresentMode sets the surface present mode and reconfigures a running surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Render draws one frame: one begin, one draw per visible mesh, one end and present.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - c: the camera to draw from
	//
	// Returns:
	//   - error: ErrNotRunning outside StateRunning, or a wrapped backend error
	Render(s scene.Scene, c camera.Camera) error

	// FrameCount returns the number of frames rendered so far.
	//
	// Returns:
	//   - uint64: the frame count
	FrameCount() uint64

	// Release frees GPU resources and moves the renderer to StateStopped. Idempotent.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type and surface.
// The surface is typically the engine window. When WithBackend is given the surface is unused
// and may be nil.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the provider of the platform surface descriptor
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer in StateUninitialized
func NewRenderer(backendType RendererBackendType, surface SurfaceProvider, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:                      &sync.Mutex{},
		backendType:             backendType,
		pixelRatio:              1,
		outputColorSpace:        common.ColorSpaceSRGB,
		physicallyCorrectLights: true,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
		}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.SetOutputColorSpace(r.outputColorSpace)
	return r
}

func (r *renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateStopped {
		return
	}
	r.width, r.height = width, height
	r.configure()
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPixelRatio(ratio float32) {
	if ratio <= 0 || math.IsNaN(float64(ratio)) || math.IsInf(float64(ratio), 0) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateStopped || r.pixelRatio == ratio {
		return
	}
	r.pixelRatio = ratio
	if r.state == StateRunning {
		r.configure()
	}
}

func (r *renderer) PixelRatio() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelRatio
}

func (r *renderer) DrawingBufferSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawingBufferSize()
}

func (r *renderer) SetOutputColorSpace(cs common.ColorSpace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateStopped || r.outputColorSpace == cs {
		return
	}
	r.outputColorSpace = cs
	r.backend.SetOutputColorSpace(cs)
	if r.state == StateRunning {
		r.configure()
	}
}

func (r *renderer) OutputColorSpace() common.ColorSpace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outputColorSpace
}

func (r *renderer) SetPhysicallyCorrectLights(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.physicallyCorrectLights = enabled
}

func (r *renderer) PhysicallyCorrectLights() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.physicallyCorrectLights
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateStopped {
		return
	}
	r.backend.SetPresentMode(mode)
	if r.state == StateRunning {
		r.configure()
	}
}

func (r *renderer) Render(s scene.Scene, c camera.Camera) error {
	if s == nil || c == nil {
		return errors.New("render requires a scene and a camera")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRunning {
		return ErrNotRunning
	}

	// Without an sRGB surface the shader encodes, and the clear color is written as is.
	encodeSRGB := r.outputColorSpace == common.ColorSpaceSRGB && !r.backend.SurfaceSRGB()
	clearColor := s.BackgroundLinear()
	if encodeSRGB {
		clearColor = common.HexToRGB(s.Background())
	}

	frame := MarshalFrameUniform(camera.NewGPUCameraUniform(c), s.Lights(), r.physicallyCorrectLights, encodeSRGB)
	if err := r.backend.BeginFrame(clearColor, frame); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	var drawErr error
	for _, m := range s.VisibleMeshes(c.ViewProjectionMatrix()) {
		object := NewGPUObjectUniform(m.WorldMatrix())
		mat := material.NewGPUMaterialUniform(m.Material(), true)
		if err := r.backend.DrawMesh(m, object.Marshal(), mat.Marshal()); err != nil {
			drawErr = fmt.Errorf("draw mesh %q: %w", m.Name(), err)
			break
		}
	}

	r.backend.EndFrame()
	r.backend.Present()
	r.frameCount++
	return drawErr
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateStopped {
		return
	}
	r.state = StateStopped
	r.backend.Release()
}

// configure pushes the current drawing buffer size to the backend. Caller holds r.mu.
func (r *renderer) configure() {
	w, h := r.drawingBufferSize()
	if w <= 0 || h <= 0 {
		return
	}
	r.backend.ConfigureSurface(w, h)
	r.state = StateRunning
}

func (r *renderer) drawingBufferSize() (int, int) {
	w := int(math.Round(float64(r.width) * float64(r.pixelRatio)))
	h := int(math.Round(float64(r.height) * float64(r.pixelRatio)))
	return w, h
}
