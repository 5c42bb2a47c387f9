package sword

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragRotate
	dragPan
)

// pointerState tracks the active drag between mouse callbacks.
type pointerState struct {
	mu *sync.Mutex

	mode   dragMode
	button common.MouseButton
	lastX  float64
	lastY  float64
}

// bindInput routes container pointer input to the orbit controls: left drag rotates,
// right or middle drag pans, the scroll wheel zooms.
func (a *App) bindInput() {
	a.container.SetMouseButtonCallback(a.onMouseButton)
	a.container.SetMouseMoveCallback(a.onMouseMove)
	a.container.SetScrollCallback(func(delta float32) {
		a.controls.Zoom(delta)
	})
}

func (a *App) onMouseButton(button common.MouseButton, pressed bool, x, y float64) {
	p := a.input
	p.mu.Lock()
	defer p.mu.Unlock()

	if !pressed {
		if p.mode != dragNone && p.button == button {
			p.mode = dragNone
		}
		return
	}
	if p.mode != dragNone {
		return
	}

	switch button {
	case common.MouseButtonLeft:
		p.mode = dragRotate
	case common.MouseButtonRight, common.MouseButtonMiddle:
		p.mode = dragPan
	default:
		return
	}
	p.button = button
	p.lastX, p.lastY = x, y
}

func (a *App) onMouseMove(x, y float64) {
	p := a.input
	p.mu.Lock()
	mode := p.mode
	dx, dy := float32(x-p.lastX), float32(y-p.lastY)
	p.lastX, p.lastY = x, y
	p.mu.Unlock()

	switch mode {
	case dragRotate:
		a.controls.Rotate(dx, dy)
	case dragPan:
		a.controls.Pan(dx, dy)
	}
}
