package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
//
// Sizes are reported in logical (screen) units; DevicePixelRatio converts them to framebuffer pixels.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the client area or its pixel ratio changes.
	//
	// Parameters:
	//   - callback: function receiving the new client width and height in logical pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetMouseButtonCallback sets the callback for mouse button presses and releases.
	//
	// Parameters:
	//   - callback: function receiving the button, whether it was pressed, and the cursor position
	SetMouseButtonCallback(callback func(button common.MouseButton, pressed bool, x, y float64))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in logical pixels
	SetMouseMoveCallback(callback func(x, y float64))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// ClientWidth returns the current client area width in logical pixels.
	//
	// Returns:
	//   - int: width in logical pixels
	ClientWidth() int

	// ClientHeight returns the current client area height in logical pixels.
	//
	// Returns:
	//   - int: height in logical pixels
	ClientHeight() int

	// DevicePixelRatio returns framebuffer pixels per logical pixel (1 on standard displays).
	//
	// Returns:
	//   - float32: the pixel ratio
	DevicePixelRatio() float32
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu *sync.RWMutex

	// title is the window title displayed in the title bar.
	title string

	// Resize limits in logical pixels; zero means unbounded.
	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int

	// width and height are the client area in logical pixels.
	width  int
	height int

	// pixelRatio is framebuffer width over client width.
	pixelRatio float32

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onMouseButton func(button common.MouseButton, pressed bool, x, y float64)
	onMouseMove   func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		mu:         &sync.RWMutex{},
		title:      "Default Window Title",
		minWidth:   320,
		minHeight:  240,
		width:      1280,
		height:     720,
		pixelRatio: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	w.width, w.height = w.clampSize(w.width, w.height)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button common.MouseButton, pressed bool, x, y float64)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) ClientWidth() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.width
}

func (w *engineWindow) ClientHeight() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.height
}

func (w *engineWindow) DevicePixelRatio() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pixelRatio
}

// setMetrics records a new client size and framebuffer size.
func (w *engineWindow) setMetrics(width, height, fbWidth int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width = width
	w.height = height
	if width > 0 && fbWidth > 0 {
		w.pixelRatio = float32(fbWidth) / float32(width)
	}
}

// unbounded is the size limit passed to the platform for a dimension without a limit.
const unbounded = -1

// sizeLimits returns the resize limits in platform form, with unset limits as unbounded.
func (w *engineWindow) sizeLimits() (minWidth, minHeight, maxWidth, maxHeight int) {
	limit := func(v int) int {
		if v <= 0 {
			return unbounded
		}
		return v
	}
	return limit(w.minWidth), limit(w.minHeight), limit(w.maxWidth), limit(w.maxHeight)
}

// clampSize fits a client size into the resize limits.
func (w *engineWindow) clampSize(width, height int) (int, int) {
	clamp := func(v, lo, hi int) int {
		if lo > 0 && v < lo {
			v = lo
		}
		if hi > 0 && v > hi {
			v = hi
		}
		return v
	}
	return clamp(width, w.minWidth, w.maxWidth), clamp(height, w.minHeight, w.maxHeight)
}
