package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], [3]float32{1, 2, 3}, [3]float32{0.3, 0.2, 0.1}, [3]float32{1, 2, 1})

	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)

	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var p [16]float32
	near, far := float32(0.1), float32(100)
	Perspective(p[:], DegToRad(50), 1.5, near, far)

	depth := func(z float32) float32 {
		clipZ := p[10]*z + p[14]
		clipW := p[11] * z
		return clipZ / clipW
	}

	assert.InDelta(t, 0.0, depth(-near), 1e-5)
	assert.InDelta(t, 1.0, depth(-far), 1e-4)
	assert.InDelta(t, p[5]/1.5, p[0], 1e-6)
}

func TestLookAtMovesTargetOntoNegativeZ(t *testing.T) {
	var v [16]float32
	LookAt(v[:], [3]float32{0, 0, 8}, [3]float32{}, [3]float32{0, 1, 0})

	got := TransformPoint(v[:], [3]float32{0, 0, 0})
	assert.InDelta(t, 0, got[0], 1e-6)
	assert.InDelta(t, 0, got[1], 1e-6)
	assert.InDelta(t, -8, got[2], 1e-6)
}

func TestInvert4(t *testing.T) {
	var m, inv, out, id [16]float32
	BuildModelMatrix(m[:], [3]float32{1, 0.7, 1}, [3]float32{0.5, 1, 0}, [3]float32{2, 2, 2})
	require.True(t, Invert4(inv[:], m[:]))

	Mul4(out[:], m[:], inv[:])
	Identity(id[:])
	for i := range out {
		assert.InDelta(t, id[i], out[i], 1e-5, "element %d", i)
	}

	var singular [16]float32
	assert.False(t, Invert4(inv[:], singular[:]))
}

func TestNormalMatrixOfTranslationIsIdentity(t *testing.T) {
	var m [16]float32
	var n [12]float32
	Translation(m[:], 1, 2, 1)
	NormalMatrix(n[:], m[:])

	assert.Equal(t, [12]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0}, n)
}

func TestHexToLinearRGB(t *testing.T) {
	white := HexToLinearRGB(0xffffff)
	assert.Equal(t, [3]float32{1, 1, 1}, white)

	black := HexToLinearRGB(0x000000)
	assert.Equal(t, [3]float32{0, 0, 0}, black)

	// 0x80 sits near the middle of the sRGB curve, about 0.2158 linear.
	mid := HexToLinearRGB(0x808080)
	assert.InDelta(t, 0.2158, mid[0], 1e-3)
}

func TestCoalesceAndClamp(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, float32(1), Clamp(5, 0, 1))
	assert.Equal(t, float32(0), Clamp(-5, 0, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, 0, 1))
}
