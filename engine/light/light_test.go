package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swordLights() []Light {
	return []Light{
		NewLight(LightTypeHemisphere, WithColorHex(0xddeeff), WithGroundColorHex(0x202020), WithIntensity(5)),
		NewLight(LightTypeDirectional, WithColorHex(0xffffff), WithIntensity(5), WithPosition(10, 10, 10)),
	}
}

func TestDirectionalPointsTowardTarget(t *testing.T) {
	l := swordLights()[1]
	d := l.Direction()

	inv := float32(1 / math.Sqrt(3))
	assert.InDelta(t, -inv, d[0], 1e-6)
	assert.InDelta(t, -inv, d[1], 1e-6)
	assert.InDelta(t, -inv, d[2], 1e-6)
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color())
	assert.Equal(t, "directional", l.Name())
}

func TestDirectionalWithTargetAtPositionFallsBackToDown(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(1, 1, 1), WithTarget(1, 1, 1))
	assert.Equal(t, [3]float32{0, -1, 0}, l.Direction())
}

func TestHemisphereColors(t *testing.T) {
	l := swordLights()[0]
	assert.Equal(t, LightTypeHemisphere, l.Type())
	assert.Equal(t, float32(5), l.Intensity())

	sky := l.Color()
	assert.Greater(t, sky[2], sky[0], "sky is blue-tinted")
	ground := l.GroundColor()
	assert.InDelta(t, ground[0], ground[1], 1e-6)
	assert.Less(t, ground[0], float32(0.02))
}

func TestMarshalLightBuffer(t *testing.T) {
	lights := append(swordLights(), NewLight(LightTypeDirectional, WithEnabled(false)))

	buf := MarshalLightBuffer(lights, true)
	require.Len(t, buf, LightBufferSize)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[0:4]))

	// second slot is the directional light
	slot := buf[16+64 : 16+128]
	assert.Equal(t, uint32(LightTypeDirectional), binary.LittleEndian.Uint32(slot[12:16]))
	assert.Equal(t, float32(5), math.Float32frombits(binary.LittleEndian.Uint32(slot[28:32])))

	// unused slots stay zero
	assert.Equal(t, make([]byte, 64*2), buf[16+128:])
}

func TestLegacyIntensityScale(t *testing.T) {
	l := swordLights()[1]
	assert.Equal(t, float32(5), ToGPULight(l, true).Intensity)
	assert.InDelta(t, 5*math.Pi, ToGPULight(l, false).Intensity, 1e-5)
}

func TestGPULightSize(t *testing.T) {
	assert.Equal(t, 64, (&GPULight{}).Size())
	assert.Equal(t, 16, (&GPULightHeader{}).Size())
}
