package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testViewProj() []float32 {
	var view, proj, vp [16]float32
	LookAt(view[:], [3]float32{0, 0, 8}, [3]float32{}, [3]float32{0, 1, 0})
	Perspective(proj[:], DegToRad(50), 1, 0.1, 100)
	Mul4(vp[:], proj[:], view[:])
	return vp[:]
}

func TestFrustumContainsSphere(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj())

	cases := []struct {
		name   string
		center [3]float32
		radius float32
		want   bool
	}{
		{"origin", [3]float32{0, 0, 0}, 0.1, true},
		{"behind camera", [3]float32{0, 0, 20}, 1, false},
		{"beyond far plane", [3]float32{0, 0, -200}, 1, false},
		{"far left", [3]float32{-100, 0, 0}, 1, false},
		{"straddles left plane", [3]float32{-4, 0, 0}, 2, true},
		{"just inside far plane", [3]float32{0, 0, -90}, 0.5, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.ContainsSphere(tc.center, tc.radius))
		})
	}
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj())
	for i, p := range f.Planes {
		l := p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2]
		assert.InDelta(t, 1.0, l, 1e-4, "plane %d", i)
	}
}
