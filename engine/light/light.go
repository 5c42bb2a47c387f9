package light

import (
	"github.com/Carmen-Shannon/oxy-sword/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no falloff, shining from its position toward its target.
	// Used for large distant sources like the sun. Affects all fragments uniformly.
	LightTypeDirectional LightType = iota

	// LightTypeHemisphere represents an ambient light that blends a sky color (surfaces facing +Y)
	// with a ground color (surfaces facing -Y) by the surface normal.
	LightTypeHemisphere
)

func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypeHemisphere:
		return "hemisphere"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	name        string
	lightType   LightType
	position    [3]float32
	target      [3]float32
	color       [3]float32
	groundColor [3]float32
	intensity   float32
	enabled     bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are immutable scene children: every property is fixed by the builder
// options passed to NewLight. They are marshaled into the frame uniform buffer
// each frame via the gpu_types helpers.
type Light interface {
	// Name returns the scene-node name of the light.
	//
	// Returns:
	//   - string: the name given with WithName, or the light type
	Name() string

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: directional or hemisphere
	Type() LightType

	// Position returns the world-space position of the light.
	// For directional lights this only defines the direction, together with Target.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Target returns the world-space point a directional light shines toward.
	//
	// Returns:
	//   - [3]float32: target as (x, y, z), the origin by default
	Target() [3]float32

	// Direction returns the normalized direction the light travels, from Position toward Target.
	// Hemisphere lights report straight down.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the linear RGB color of the light. For hemisphere lights this is the sky color.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// GroundColor returns the linear RGB color lighting downward-facing surfaces of a hemisphere light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b), zero for directional lights
	GroundColor() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU buffer marshaling.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional or hemisphere)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		position:  [3]float32{0, 1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		enabled:   true,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.name == "" {
		l.name = lightType.String()
	}

	return l
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Target() [3]float32 {
	return l.target
}

func (l *lightImpl) Direction() [3]float32 {
	if l.lightType == LightTypeHemisphere {
		return [3]float32{0, -1, 0}
	}
	d := common.Normalize3(
		l.target[0]-l.position[0],
		l.target[1]-l.position[1],
		l.target[2]-l.position[2],
	)
	if d == ([3]float32{}) {
		return [3]float32{0, -1, 0}
	}
	return d
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) GroundColor() [3]float32 {
	return l.groundColor
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}
