package renderer

import "github.com/Carmen-Shannon/oxy-sword/common"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend supplies a ready-made Backend instead of creating one for the backend type.
// Used for headless runs and tests.
//
// Parameters:
//   - b: the backend to draw with
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b Backend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithOutputColorSpace sets the initial output color space. Defaults to ColorSpaceSRGB.
//
// Parameters:
//   - cs: the output color space
//
// Returns:
//   - RendererBuilderOption: a function that applies the color space option to a renderer
func WithOutputColorSpace(cs common.ColorSpace) RendererBuilderOption {
	return func(r *renderer) {
		r.outputColorSpace = cs
	}
}

// WithPhysicallyCorrectLights sets the initial light unit mode. Defaults to true.
//
// Parameters:
//   - enabled: true for physical light units
//
// Returns:
//   - RendererBuilderOption: a function that applies the light mode option to a renderer
func WithPhysicallyCorrectLights(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.physicallyCorrectLights = enabled
	}
}
