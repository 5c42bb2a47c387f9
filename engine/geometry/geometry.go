package geometry

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidGeometry is returned by Validate when a shape's parameters cannot be tessellated.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Kind identifies the procedural shape a Geometry describes.
type Kind int

const (
	KindCylinder Kind = iota
	KindCone
	KindSphere
)

func (k Kind) String() string {
	switch k {
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindSphere:
		return "sphere"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Geometry is an immutable procedural shape descriptor. It is tessellated on demand
// into vertices and triangle indices; the same descriptor always yields the same output.
type Geometry interface {
	// Kind returns the shape family of the geometry.
	//
	// Returns:
	//   - Kind: cylinder, cone, or sphere
	Kind() Kind

	// Validate checks that the dimensional parameters describe a drawable shape.
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidGeometry, or nil
	Validate() error

	// Build tessellates the shape, centered on the origin with its axis along +Y.
	// Winding is counter-clockwise for front faces.
	//
	// Returns:
	//   - []Vertex: the vertex list (position, normal, uv)
	//   - []uint32: triangle list indices into the vertex list
	Build() ([]Vertex, []uint32)

	// BoundingRadius returns the radius of a sphere around the origin that encloses every vertex.
	//
	// Returns:
	//   - float32: the bounding radius in local units
	BoundingRadius() float32

	RadiusTop() float32
	RadiusBottom() float32
	Height() float32
	RadialSegments() int
	HeightSegments() int
	Radius() float32
	WidthSegments() int
}

type geometryImpl struct {
	kind Kind

	radiusTop      float32
	radiusBottom   float32
	height         float32
	radialSegments int
	heightSegments int
	openEnded      bool

	radius        float32
	widthSegments int
}

var _ Geometry = &geometryImpl{}

// NewCylinder creates a cylinder (or truncated cone) descriptor.
// Defaults: radiusTop 1, radiusBottom 1, height 1, 8 radial segments, 1 height segment, capped ends.
//
// Parameters:
//   - options: variadic list of GeometryBuilderOption functions
//
// Returns:
//   - Geometry: the cylinder descriptor
func NewCylinder(options ...GeometryBuilderOption) Geometry {
	g := &geometryImpl{
		kind:           KindCylinder,
		radiusTop:      1,
		radiusBottom:   1,
		height:         1,
		radialSegments: DefaultRadialSegments,
		heightSegments: 1,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// NewCone creates a cone descriptor: a cylinder whose top radius is zero.
// WithRadius sets the base radius. Defaults match NewCylinder.
//
// Parameters:
//   - options: variadic list of GeometryBuilderOption functions
//
// Returns:
//   - Geometry: the cone descriptor
func NewCone(options ...GeometryBuilderOption) Geometry {
	g := &geometryImpl{
		kind:           KindCone,
		radiusBottom:   1,
		height:         1,
		radialSegments: DefaultRadialSegments,
		heightSegments: 1,
	}
	for _, opt := range options {
		opt(g)
	}
	g.radiusTop = 0
	return g
}

// NewSphere creates a UV sphere descriptor.
// Defaults: radius 1, 32 width segments, 16 height segments.
//
// Parameters:
//   - options: variadic list of GeometryBuilderOption functions
//
// Returns:
//   - Geometry: the sphere descriptor
func NewSphere(options ...GeometryBuilderOption) Geometry {
	g := &geometryImpl{
		kind:           KindSphere,
		radius:         1,
		widthSegments:  32,
		heightSegments: 16,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *geometryImpl) Kind() Kind {
	return g.kind
}

func (g *geometryImpl) Validate() error {
	switch g.kind {
	case KindCylinder, KindCone:
		if g.height <= 0 {
			return fmt.Errorf("%s height %v: %w", g.kind, g.height, ErrInvalidGeometry)
		}
		if g.radiusTop < 0 || g.radiusBottom < 0 {
			return fmt.Errorf("%s radius (%v, %v): %w", g.kind, g.radiusTop, g.radiusBottom, ErrInvalidGeometry)
		}
		if g.radiusTop == 0 && g.radiusBottom == 0 {
			return fmt.Errorf("%s has zero radius at both ends: %w", g.kind, ErrInvalidGeometry)
		}
		if g.radialSegments < 3 {
			return fmt.Errorf("%s radial segments %d < 3: %w", g.kind, g.radialSegments, ErrInvalidGeometry)
		}
		if g.heightSegments < 1 {
			return fmt.Errorf("%s height segments %d < 1: %w", g.kind, g.heightSegments, ErrInvalidGeometry)
		}
	case KindSphere:
		if g.radius <= 0 {
			return fmt.Errorf("sphere radius %v: %w", g.radius, ErrInvalidGeometry)
		}
		if g.widthSegments < 3 {
			return fmt.Errorf("sphere width segments %d < 3: %w", g.widthSegments, ErrInvalidGeometry)
		}
		if g.heightSegments < 2 {
			return fmt.Errorf("sphere height segments %d < 2: %w", g.heightSegments, ErrInvalidGeometry)
		}
	default:
		return fmt.Errorf("unknown geometry %s: %w", g.kind, ErrInvalidGeometry)
	}
	return nil
}

func (g *geometryImpl) Build() ([]Vertex, []uint32) {
	if g.kind == KindSphere {
		return g.buildSphere()
	}
	return g.buildCylinder()
}

func (g *geometryImpl) BoundingRadius() float32 {
	if g.kind == KindSphere {
		return g.radius
	}
	r := max(g.radiusTop, g.radiusBottom)
	half := g.height / 2
	return math32.Sqrt(r*r + half*half)
}

func (g *geometryImpl) RadiusTop() float32 {
	return g.radiusTop
}

func (g *geometryImpl) RadiusBottom() float32 {
	return g.radiusBottom
}

func (g *geometryImpl) Height() float32 {
	return g.height
}

func (g *geometryImpl) RadialSegments() int {
	return g.radialSegments
}

func (g *geometryImpl) HeightSegments() int {
	return g.heightSegments
}

func (g *geometryImpl) Radius() float32 {
	if g.kind == KindSphere {
		return g.radius
	}
	return g.radiusBottom
}

func (g *geometryImpl) WidthSegments() int {
	return g.widthSegments
}

// buildCylinder emits the side wall as a (radial+1) x (height+1) grid, then one fan per non-degenerate cap.
func (g *geometryImpl) buildCylinder() ([]Vertex, []uint32) {
	var vertices []Vertex
	var indices []uint32

	halfHeight := g.height / 2
	slope := (g.radiusBottom - g.radiusTop) / g.height
	stride := g.radialSegments + 1

	for y := 0; y <= g.heightSegments; y++ {
		v := float32(y) / float32(g.heightSegments)
		radius := v*(g.radiusBottom-g.radiusTop) + g.radiusTop

		for x := 0; x <= g.radialSegments; x++ {
			u := float32(x) / float32(g.radialSegments)
			theta := u * 2 * math32.Pi
			sin, cos := math32.Sincos(theta)

			vertices = append(vertices, Vertex{
				Position: [3]float32{radius * sin, -v*g.height + halfHeight, radius * cos},
				Normal:   normalize(sin, slope, cos),
				UV:       [2]float32{u, 1 - v},
			})
		}
	}

	for x := 0; x < g.radialSegments; x++ {
		for y := 0; y < g.heightSegments; y++ {
			a := uint32(y*stride + x)
			b := uint32((y+1)*stride + x)
			c := uint32((y+1)*stride + x + 1)
			d := uint32(y*stride + x + 1)

			indices = append(indices, a, b, d)
			indices = append(indices, b, c, d)
		}
	}

	if !g.openEnded {
		if g.radiusTop > 0 {
			vertices, indices = g.appendCap(vertices, indices, true)
		}
		if g.radiusBottom > 0 {
			vertices, indices = g.appendCap(vertices, indices, false)
		}
	}

	return vertices, indices
}

func (g *geometryImpl) appendCap(vertices []Vertex, indices []uint32, top bool) ([]Vertex, []uint32) {
	radius := g.radiusBottom
	sign := float32(-1)
	if top {
		radius = g.radiusTop
		sign = 1
	}
	y := sign * g.height / 2

	centerStart := uint32(len(vertices))
	for x := 0; x < g.radialSegments; x++ {
		vertices = append(vertices, Vertex{
			Position: [3]float32{0, y, 0},
			Normal:   [3]float32{0, sign, 0},
			UV:       [2]float32{0.5, 0.5},
		})
	}

	ringStart := uint32(len(vertices))
	for x := 0; x <= g.radialSegments; x++ {
		u := float32(x) / float32(g.radialSegments)
		sin, cos := math32.Sincos(u * 2 * math32.Pi)

		vertices = append(vertices, Vertex{
			Position: [3]float32{radius * sin, y, radius * cos},
			Normal:   [3]float32{0, sign, 0},
			UV:       [2]float32{cos*0.5 + 0.5, sin*0.5*sign + 0.5},
		})
	}

	for x := uint32(0); x < uint32(g.radialSegments); x++ {
		c := centerStart + x
		i := ringStart + x
		if top {
			indices = append(indices, i, i+1, c)
		} else {
			indices = append(indices, i+1, i, c)
		}
	}

	return vertices, indices
}

// buildSphere emits a latitude/longitude grid from the north pole (v = 0) to the south pole.
// The pole rows produce a single triangle per quad.
func (g *geometryImpl) buildSphere() ([]Vertex, []uint32) {
	var vertices []Vertex
	var indices []uint32

	stride := g.widthSegments + 1

	for iy := 0; iy <= g.heightSegments; iy++ {
		v := float32(iy) / float32(g.heightSegments)
		sinPhi, cosPhi := math32.Sincos(v * math32.Pi)

		var uOffset float32
		switch iy {
		case 0:
			uOffset = 0.5 / float32(g.widthSegments)
		case g.heightSegments:
			uOffset = -0.5 / float32(g.widthSegments)
		}

		for ix := 0; ix <= g.widthSegments; ix++ {
			u := float32(ix) / float32(g.widthSegments)
			sinTheta, cosTheta := math32.Sincos(u * 2 * math32.Pi)

			nx := -cosTheta * sinPhi
			ny := cosPhi
			nz := sinTheta * sinPhi

			vertices = append(vertices, Vertex{
				Position: [3]float32{g.radius * nx, g.radius * ny, g.radius * nz},
				Normal:   normalize(nx, ny, nz),
				UV:       [2]float32{u + uOffset, 1 - v},
			})
		}
	}

	for iy := 0; iy < g.heightSegments; iy++ {
		for ix := 0; ix < g.widthSegments; ix++ {
			a := uint32(iy*stride + ix + 1)
			b := uint32(iy*stride + ix)
			c := uint32((iy+1)*stride + ix)
			d := uint32((iy+1)*stride + ix + 1)

			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != g.heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return vertices, indices
}

func normalize(x, y, z float32) [3]float32 {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		// pole normals collapse on a degenerate ring; point them along the axis
		return [3]float32{0, math32.Copysign(1, y), 0}
	}
	return [3]float32{x / l, y / l, z / l}
}
