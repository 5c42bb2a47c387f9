package geometry

// DefaultRadialSegments is the radial tessellation used by cylinders and cones when none is given.
const DefaultRadialSegments = 8

// GeometryBuilderOption is a functional option for configuring a Geometry.
type GeometryBuilderOption func(*geometryImpl)

// WithRadius sets the radius of a sphere, the base radius of a cone, or both radii of a cylinder.
//
// Parameters:
//   - r: the radius in local units
//
// Returns:
//   - GeometryBuilderOption: a function that applies the radius option
func WithRadius(r float32) GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.radius = r
		g.radiusTop = r
		g.radiusBottom = r
	}
}

// WithRadiusTop sets the radius at the +Y end of a cylinder. Ignored by cones and spheres.
func WithRadiusTop(r float32) GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.radiusTop = r
	}
}

// WithRadiusBottom sets the radius at the -Y end of a cylinder or cone.
func WithRadiusBottom(r float32) GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.radiusBottom = r
	}
}

// WithHeight sets the length along the Y axis of a cylinder or cone.
func WithHeight(h float32) GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.height = h
	}
}

// WithRadialSegments sets the number of faces around a cylinder or cone.
// A value of zero keeps DefaultRadialSegments.
func WithRadialSegments(n int) GeometryBuilderOption {
	return func(g *geometryImpl) {
		if n == 0 {
			n = DefaultRadialSegments
		}
		g.radialSegments = n
	}
}

// WithHeightSegments sets the rows of faces along the height of a cylinder or cone,
// or the latitude rows of a sphere.
func WithHeightSegments(n int) GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.heightSegments = n
	}
}

// WithWidthSegments sets the longitude segments of a sphere.
func WithWidthSegments(n int) GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.widthSegments = n
	}
}

// WithOpenEnded omits the end caps of a cylinder or cone.
func WithOpenEnded(open bool) GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.openEnded = open
	}
}
