package camera

import (
	"math"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swordCamera(aspect float32) Camera {
	return NewCamera(
		WithFovDegrees(50),
		WithAspect(aspect),
		WithNear(0.1),
		WithFar(100),
		WithPosition(0, 0, 8),
	)
}

func TestNewCameraDefaults(t *testing.T) {
	c := swordCamera(800.0 / 600.0)

	assert.InDelta(t, 50*math.Pi/180, c.Fov(), 1e-6)
	assert.InDelta(t, 4.0/3.0, c.Aspect(), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())

	x, y, z := c.Position()
	assert.Equal(t, [3]float32{0, 0, 8}, [3]float32{x, y, z})

	// origin projects to the center of clip space
	vp := c.ViewProjectionMatrix()
	p := common.TransformPoint(vp[:], [3]float32{})
	assert.InDelta(t, 0, p[0], 1e-6)
	assert.InDelta(t, 0, p[1], 1e-6)
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	c := swordCamera(1)
	before := c.ProjectionMatrix()

	require.True(t, c.SetAspect(2))
	after := c.ProjectionMatrix()

	assert.Equal(t, float32(2), c.Aspect())
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])
}

func TestSetAspectRejectsDegenerateValues(t *testing.T) {
	c := swordCamera(1.5)
	inf := float32(math.Inf(1))
	nan := float32(math.NaN())

	for _, bad := range []float32{0, -1, inf, nan} {
		assert.False(t, c.SetAspect(bad))
		assert.Equal(t, float32(1.5), c.Aspect())
	}
}

func TestOrbitControllerFromPosition(t *testing.T) {
	ctrl := NewOrbitController(WithFromPosition(0, 0, 8))

	assert.InDelta(t, 8, ctrl.Radius(), 1e-6)
	assert.InDelta(t, 0, ctrl.Azimuth(), 1e-6)
	assert.InDelta(t, 0, ctrl.Elevation(), 1e-6)

	x, y, z := ctrl.Position()
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	assert.InDelta(t, 8, z, 1e-6)
}

func TestCameraFollowsController(t *testing.T) {
	c := swordCamera(1)
	ctrl := NewOrbitController(WithFromPosition(c.Position()))
	c.SetController(ctrl)

	ctrl.Rotate(100, 0)
	c.Update()

	x, _, z := c.Position()
	assert.Less(t, x, float32(0), "dragging right swings the camera to the left")
	assert.InDelta(t, 8, math.Hypot(float64(x), float64(z)), 1e-4)
	assert.Same(t, ctrl, c.Controller())
}

func TestRotateClampsElevation(t *testing.T) {
	ctrl := NewOrbitController()
	ctrl.Rotate(0, 1e6)
	assert.InDelta(t, math.Pi/2-0.01, ctrl.Elevation(), 1e-5)

	ctrl.Rotate(0, -1e6)
	assert.InDelta(t, -math.Pi/2+0.01, ctrl.Elevation(), 1e-5)
}

func TestZoomClampsRadius(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(8), WithRadiusBounds(1, 20))

	ctrl.Zoom(2)
	assert.InDelta(t, 7, ctrl.Radius(), 1e-6)

	ctrl.Zoom(1000)
	assert.Equal(t, float32(1), ctrl.Radius())

	ctrl.Zoom(-1000)
	assert.Equal(t, float32(20), ctrl.Radius())
}

func TestPanMovesTargetAndPositionTogether(t *testing.T) {
	ctrl := NewOrbitController(WithFromPosition(0, 0, 8))

	ctrl.Pan(100, 0)
	tx, ty, tz := ctrl.Target()
	px, py, pz := ctrl.Position()

	assert.Less(t, tx, float32(0))
	assert.InDelta(t, 0, ty, 1e-6)
	assert.InDelta(t, 0, tz, 1e-6)
	assert.InDelta(t, tx, px, 1e-6)
	assert.InDelta(t, 0, py, 1e-6)
	assert.InDelta(t, 8, pz, 1e-6)
	assert.InDelta(t, 8, ctrl.Radius(), 1e-6)

	ctrl.PanUp(1)
	_, ty, _ = ctrl.Target()
	assert.InDelta(t, 1, ty, 1e-6)
}

func TestControllerIsSafeForConcurrentUse(t *testing.T) {
	c := swordCamera(1)
	ctrl := NewOrbitController(WithFromPosition(0, 0, 8))
	c.SetController(ctrl)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if i%2 == 0 {
					ctrl.Rotate(1, 1)
				} else {
					c.Update()
					c.SetAspect(1.5)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, float32(1.5), c.Aspect())
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := swordCamera(1)
	u := NewGPUCameraUniform(c)
	assert.Equal(t, 80, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 80)
	assert.Equal(t, [3]float32{0, 0, 8}, u.CameraPosition)
}
