package sword

import "github.com/Carmen-Shannon/oxy-sword/common"

// Container is the host surface the sword is displayed in. It reports its client
// size and pixel ratio and delivers resize and pointer input. The engine window
// satisfies it.
type Container interface {
	// ClientWidth returns the client area width in logical pixels.
	//
	// Returns:
	//   - int: width in logical pixels
	ClientWidth() int

	// ClientHeight returns the client area height in logical pixels.
	//
	// Returns:
	//   - int: height in logical pixels
	ClientHeight() int

	// DevicePixelRatio returns physical pixels per logical pixel.
	//
	// Returns:
	//   - float32: the pixel ratio
	DevicePixelRatio() float32

	// SetResizeCallback registers the function called when the client area changes size.
	//
	// Parameters:
	//   - callback: function receiving the new client size
	SetResizeCallback(callback func(width, height int))

	// SetMouseButtonCallback registers the function called on mouse button presses and releases.
	//
	// Parameters:
	//   - callback: function receiving the button, pressed state and cursor position
	SetMouseButtonCallback(callback func(button common.MouseButton, pressed bool, x, y float64))

	// SetMouseMoveCallback registers the function called when the cursor moves.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetMouseMoveCallback(callback func(x, y float64))

	// SetScrollCallback registers the function called on scroll wheel input.
	//
	// Parameters:
	//   - callback: function receiving the scroll delta, positive away from the user
	SetScrollCallback(callback func(delta float32))
}
