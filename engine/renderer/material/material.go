package material

// material is the implementation of the Material interface.
type material struct {
	name      string
	baseColor [4]float32
	metalness float32
	roughness float32
	texture   Texture
}

// Material defines the interface for a standard physically-based surface material.
//
// Surface properties (name, base color, metalness, roughness, texture) are fixed at
// construction. The texture's image may still change over time; see Texture.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo RGBA color of the material, multiplied with the texture.
	//
	// Returns:
	//   - [4]float32: the base color as linear RGBA values
	BaseColor() [4]float32

	// Metalness retrieves the metalness factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metalness factor
	Metalness() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Texture retrieves the base color map, or nil if none is set.
	//
	// Returns:
	//   - Texture: the color map, or nil
	Texture() Texture
}

var _ Material = &material{}

// NewStandardMaterial creates a new standard Material configured with the provided options.
// Defaults: white base color, metalness 0, roughness 1, no texture.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewStandardMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: [4]float32{1, 1, 1, 1},
		metalness: 0.0,
		roughness: 1.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) Metalness() float32 {
	return m.metalness
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Texture() Texture {
	return m.texture
}
