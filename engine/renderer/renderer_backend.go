package renderer

import (
	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/engine/scene"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// Backend is the GPU-facing half of the Renderer. The Renderer builds the uniform bytes for a
// frame and hands them to the backend together with the meshes to draw; the backend owns every
// GPU resource (surface, pipeline, per-mesh buffers, textures) and serializes its own calls.
type Backend interface {
	// ConfigureSurface (re)creates the swapchain and the attachments that depend on its size.
	//
	// Parameters:
	//   - width: drawing buffer width in physical pixels
	//   - height: drawing buffer height in physical pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode applied by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetOutputColorSpace selects the surface format family used by the next ConfigureSurface:
	// an sRGB format is preferred for ColorSpaceSRGB and a linear format for ColorSpaceLinear.
	//
	// Parameters:
	//   - cs: the desired output color space
	SetOutputColorSpace(cs common.ColorSpace)

	// SurfaceSRGB reports whether the configured surface format encodes sRGB on write.
	//
	// Returns:
	//   - bool: true if the hardware applies the sRGB transfer function
	SurfaceSRGB() bool

	// BeginFrame acquires the next surface texture, uploads the frame uniform and begins the
	// render pass cleared to the given color.
	//
	// Parameters:
	//   - clearColor: the clear color as written to the surface
	//   - frameUniform: FrameUniformSize bytes (camera, lights, output parameters)
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame(clearColor [3]float32, frameUniform []byte) error

	// DrawMesh encodes one indexed draw for a mesh. GPU resources for the mesh are created on
	// first use and its texture is re-uploaded whenever the texture version changes.
	//
	// Parameters:
	//   - m: the mesh to draw
	//   - objectUniform: ObjectUniformSize bytes (model and normal matrices)
	//   - materialUniform: the marshaled material uniform
	//
	// Returns:
	//   - error: an error if the mesh resources could not be created
	DrawMesh(m scene.Mesh, objectUniform, materialUniform []byte) error

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present presents the surface texture acquired by BeginFrame.
	Present()

	// Release frees every GPU resource held by the backend.
	Release()
}
