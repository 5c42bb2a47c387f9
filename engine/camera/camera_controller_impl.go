package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/chewxy/math32"
)

// cameraControllerImpl is the single implementation of CameraController.
// Orbit methods modify spherical coordinates and recompute position; planar methods
// translate both position and target along local camera axes.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis, 0 = +Z
	elevation float32 // Vertical angle from horizontal plane

	// Set by WithFromPosition; resolved into spherical coords after all options run.
	from *[3]float32

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewOrbitController creates a new orbit camera controller with sensible defaults.
// Defaults: target at the origin, radius 8, azimuth 0, elevation 0.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius: 8.0,

		minRadius:    0.5,
		maxRadius:    100.0,
		minElevation: -math32.Pi/2 + 0.01,
		maxElevation: math32.Pi/2 - 0.01,

		mouseSensitivity: 0.005,
		zoomSpeed:        0.5,
		panSpeed:         0.002,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.from != nil {
		cc.setFromPosition(*cc.from)
		cc.from = nil
	}
	cc.clamp()
	cc.updatePosition()
	return cc
}

// --- internal helpers ---

// setFromPosition derives radius, azimuth, and elevation so that the orbit reproduces pos.
func (cc *cameraControllerImpl) setFromPosition(pos [3]float32) {
	dx := pos[0] - cc.target[0]
	dy := pos[1] - cc.target[1]
	dz := pos[2] - cc.target[2]

	r := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	if r < 1e-6 {
		return
	}
	cc.radius = r
	cc.azimuth = math32.Atan2(dx, dz)
	cc.elevation = math32.Asin(common.Clamp(dy/r, -1, 1))
}

// clamp keeps radius and elevation within their bounds.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp() {
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
}

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

// localAxes computes the camera's local right and up axes consistent with the LookAt matrix.
// If position and target coincide, all returned components are zero.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up [3]float32) {
	back := common.Normalize3(
		cc.position[0]-cc.target[0],
		cc.position[1]-cc.target[1],
		cc.position[2]-cc.target[2],
	)
	if back == ([3]float32{}) {
		return
	}

	// right = normalize(cross(worldUp, back)) where worldUp = (0, 1, 0)
	right = common.Normalize3(back[2], 0, -back[0])
	if right == ([3]float32{}) {
		return
	}

	// up = cross(back, right)
	up = [3]float32{
		back[1]*right[2] - back[2]*right[1],
		back[2]*right[0] - back[0]*right[2],
		back[0]*right[1] - back[1]*right[0],
	}
	return
}

// translate moves position and target together.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) translate(axis [3]float32, offset float32) {
	for i := range 3 {
		cc.target[i] += axis[i] * offset
		cc.position[i] += axis[i] * offset
	}
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = [3]float32{x, y, z}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius -= delta * cc.zoomSpeed
	cc.clamp()
	cc.updatePosition()
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= dx * cc.mouseSensitivity
	cc.elevation += dy * cc.mouseSensitivity
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	right, up := cc.localAxes()
	scale := cc.panSpeed * cc.radius
	// the scene follows the pointer, so the camera moves against it horizontally
	cc.translate(right, -dx*scale)
	cc.translate(up, dy*scale)
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, _ := cc.localAxes()
	cc.translate(right, delta)
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, up := cc.localAxes()
	cc.translate(up, delta)
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}
