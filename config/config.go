// Package config holds the declarative description of the sword scene: every part
// transform, geometry dimension, texture name, light and camera parameter, plus the
// window and renderer settings used to display it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is wrapped by every error returned from Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnsupportedFormat is returned by Load for file extensions other than .toml, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// Shape names accepted in Part.Shape.
const (
	ShapeCone     = "cone"
	ShapeCylinder = "cylinder"
	ShapeSphere   = "sphere"
)

// Output color space names accepted in Renderer.OutputColorSpace.
const (
	ColorSpaceSRGB   = "srgb"
	ColorSpaceLinear = "linear"
)

// Part names in assembly order.
const (
	PartBlade  = "blade"
	PartGuard  = "guard"
	PartHilt   = "hilt"
	PartPommel = "pommel"
)

// Scene is the full application configuration.
type Scene struct {
	// Background is the clear color as 0xRRGGBB.
	Background uint32 `toml:"background" yaml:"background"`
	// AssetDir is the directory texture files are resolved against.
	AssetDir string `toml:"asset_dir" yaml:"asset_dir"`
	// Anisotropy is the sampler anisotropy requested for every texture.
	Anisotropy uint16 `toml:"anisotropy" yaml:"anisotropy"`
	// Watch enables texture hot reload.
	Watch bool `toml:"watch" yaml:"watch"`
	// Profiling enables periodic FPS and memory logging.
	Profiling bool `toml:"profiling" yaml:"profiling"`

	Window      Window           `toml:"window" yaml:"window"`
	Camera      Camera           `toml:"camera" yaml:"camera"`
	Controls    Controls         `toml:"controls" yaml:"controls"`
	Hemisphere  HemisphereLight  `toml:"hemisphere" yaml:"hemisphere"`
	Directional DirectionalLight `toml:"directional" yaml:"directional"`
	Parts       Parts            `toml:"parts" yaml:"parts"`
	Renderer    Renderer         `toml:"renderer" yaml:"renderer"`
}

// Window describes the native window. Min and max sizes bound user resizing;
// a zero max leaves that dimension unbounded.
type Window struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	MinWidth  int    `toml:"min_width" yaml:"min_width"`
	MinHeight int    `toml:"min_height" yaml:"min_height"`
	MaxWidth  int    `toml:"max_width" yaml:"max_width"`
	MaxHeight int    `toml:"max_height" yaml:"max_height"`
}

// Camera describes the perspective camera. Aspect is not configurable; it always
// follows the container size.
type Camera struct {
	// FovDegrees is the vertical field of view.
	FovDegrees float32    `toml:"fov" yaml:"fov"`
	Near       float32    `toml:"near" yaml:"near"`
	Far        float32    `toml:"far" yaml:"far"`
	Position   [3]float32 `toml:"position" yaml:"position"`
	Target     [3]float32 `toml:"target" yaml:"target"`
}

// Controls tunes the orbit controller.
type Controls struct {
	MinDistance float32 `toml:"min_distance" yaml:"min_distance"`
	MaxDistance float32 `toml:"max_distance" yaml:"max_distance"`
	RotateSpeed float32 `toml:"rotate_speed" yaml:"rotate_speed"`
	ZoomSpeed   float32 `toml:"zoom_speed" yaml:"zoom_speed"`
	PanSpeed    float32 `toml:"pan_speed" yaml:"pan_speed"`
}

type HemisphereLight struct {
	SkyColor    uint32  `toml:"sky_color" yaml:"sky_color"`
	GroundColor uint32  `toml:"ground_color" yaml:"ground_color"`
	Intensity   float32 `toml:"intensity" yaml:"intensity"`
}

type DirectionalLight struct {
	Color     uint32     `toml:"color" yaml:"color"`
	Intensity float32    `toml:"intensity" yaml:"intensity"`
	Position  [3]float32 `toml:"position" yaml:"position"`
}

// Part describes one sword mesh. Which dimensional fields apply depends on Shape:
// cones use Radius and Height, cylinders RadiusTop, RadiusBottom and Height,
// spheres Radius, WidthSegments and HeightSegments.
type Part struct {
	// Name is filled in from the part's key by Parts.Ordered.
	Name string `toml:"-" yaml:"-"`

	Shape          string     `toml:"shape" yaml:"shape"`
	Radius         float32    `toml:"radius" yaml:"radius"`
	RadiusTop      float32    `toml:"radius_top" yaml:"radius_top"`
	RadiusBottom   float32    `toml:"radius_bottom" yaml:"radius_bottom"`
	Height         float32    `toml:"height" yaml:"height"`
	RadialSegments int        `toml:"radial_segments" yaml:"radial_segments"`
	WidthSegments  int        `toml:"width_segments" yaml:"width_segments"`
	HeightSegments int        `toml:"height_segments" yaml:"height_segments"`
	Position       [3]float32 `toml:"position" yaml:"position"`
	Texture        string     `toml:"texture" yaml:"texture"`
}

// Parts holds the four sword parts. A struct rather than a list so a config file
// can override one field of one part and keep the defaults for everything else.
type Parts struct {
	Blade  Part `toml:"blade" yaml:"blade"`
	Guard  Part `toml:"guard" yaml:"guard"`
	Hilt   Part `toml:"hilt" yaml:"hilt"`
	Pommel Part `toml:"pommel" yaml:"pommel"`
}

// Ordered returns the parts in assembly order (blade, guard, hilt, pommel) with Name set.
func (p Parts) Ordered() []Part {
	parts := []Part{p.Blade, p.Guard, p.Hilt, p.Pommel}
	for i, name := range []string{PartBlade, PartGuard, PartHilt, PartPommel} {
		parts[i].Name = name
	}
	return parts
}

// Renderer holds the renderer flags.
type Renderer struct {
	// MSAA enables 4x multisampling.
	MSAA                    bool   `toml:"msaa" yaml:"msaa"`
	PhysicallyCorrectLights bool   `toml:"physically_correct_lights" yaml:"physically_correct_lights"`
	OutputColorSpace        string `toml:"output_color_space" yaml:"output_color_space"`
	// PixelRatio overrides the container's device pixel ratio when positive.
	PixelRatio float32 `toml:"pixel_ratio" yaml:"pixel_ratio"`
	VSync      bool    `toml:"vsync" yaml:"vsync"`
	// FrameLimit caps the frame rate when positive.
	FrameLimit int `toml:"frame_limit" yaml:"frame_limit"`
}

// Default returns the built-in sword scene.
//
// Returns:
//   - Scene: the default configuration, which passes Validate
func Default() Scene {
	return Scene{
		Background: 0x8FBCD4,
		AssetDir:   "assets",
		Anisotropy: 16,
		Window: Window{
			Title:     "Sword",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
		},
		Camera: Camera{
			FovDegrees: 50,
			Near:       0.1,
			Far:        100,
			Position:   [3]float32{0, 0, 8},
		},
		Controls: Controls{
			MinDistance: 0.5,
			MaxDistance: 50,
			RotateSpeed: 0.005,
			ZoomSpeed:   0.5,
			PanSpeed:    0.002,
		},
		Hemisphere: HemisphereLight{
			SkyColor:    0xddeeff,
			GroundColor: 0x202020,
			Intensity:   5,
		},
		Directional: DirectionalLight{
			Color:     0xffffff,
			Intensity: 5,
			Position:  [3]float32{10, 10, 10},
		},
		Parts: Parts{
			Blade: Part{
				Shape:    ShapeCone,
				Radius:   0.1,
				Height:   2,
				Position: [3]float32{1, 2, 1},
				Texture:  "blade.png",
			},
			Guard: Part{
				Shape:        ShapeCylinder,
				RadiusTop:    0.1,
				RadiusBottom: 0.3,
				Height:       0.1,
				Position:     [3]float32{1, 1, 1},
				Texture:      "guardhilt.png",
			},
			Hilt: Part{
				Shape:        ShapeCylinder,
				RadiusTop:    0.05,
				RadiusBottom: 0.05,
				Height:       0.5,
				Position:     [3]float32{1, 0.7, 1},
				Texture:      "guardhilt.png",
			},
			Pommel: Part{
				Shape:          ShapeSphere,
				Radius:         0.1,
				WidthSegments:  10,
				HeightSegments: 10,
				Position:       [3]float32{1, 0.5, 1},
				Texture:        "pommel.png",
			},
		},
		Renderer: Renderer{
			MSAA:                    true,
			PhysicallyCorrectLights: true,
			OutputColorSpace:        ColorSpaceSRGB,
			VSync:                   true,
		},
	}
}

// Load reads a TOML (.toml) or YAML (.yaml, .yml) file and decodes it over Default.
// Keys missing from the file keep their default values; unknown keys are an error.
// An empty path returns Default unchanged.
//
// Parameters:
//   - path: the config file path, or ""
//
// Returns:
//   - Scene: the merged and validated configuration
//   - error: a read, decode, or validation error
func Load(path string) (Scene, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode decodes data in the format named by ext into cfg, leaving absent keys untouched.
//
// Parameters:
//   - data: the encoded configuration
//   - ext: the file extension, with or without the leading dot
//   - cfg: the configuration to decode into
//
// Returns:
//   - error: ErrUnsupportedFormat or a decoder error
func Decode(data []byte, ext string, cfg *Scene) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF; treat it as "no overrides".
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
}

// Validate checks every field for values the engine cannot use. All problems are
// reported together.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalidConfig
func (s Scene) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.Background <= 0xFFFFFF, "background %#x exceeds 0xFFFFFF", s.Background)
	check(s.Anisotropy >= 1 && s.Anisotropy <= 16, "anisotropy %d outside [1, 16]", s.Anisotropy)
	w := s.Window
	check(w.Width > 0 && w.Height > 0, "window size %dx%d", w.Width, w.Height)
	check(w.MinWidth >= 0 && w.MinHeight >= 0 && w.MaxWidth >= 0 && w.MaxHeight >= 0,
		"window size limits must not be negative")
	check(w.MaxWidth == 0 || (w.MaxWidth >= w.MinWidth && w.Width <= w.MaxWidth),
		"window width %d outside limits [%d, %d]", w.Width, w.MinWidth, w.MaxWidth)
	check(w.MaxHeight == 0 || (w.MaxHeight >= w.MinHeight && w.Height <= w.MaxHeight),
		"window height %d outside limits [%d, %d]", w.Height, w.MinHeight, w.MaxHeight)
	check(w.Width >= w.MinWidth && w.Height >= w.MinHeight,
		"window size %dx%d below minimum %dx%d", w.Width, w.Height, w.MinWidth, w.MinHeight)

	c := s.Camera
	check(c.FovDegrees > 0 && c.FovDegrees < 180, "camera fov %v outside (0, 180)", c.FovDegrees)
	check(c.Near > 0, "camera near %v must be positive", c.Near)
	check(c.Far > c.Near, "camera far %v must exceed near %v", c.Far, c.Near)
	check(c.Position != c.Target, "camera position equals target")
	check(finite3(c.Position) && finite3(c.Target), "camera vectors must be finite")

	ctl := s.Controls
	check(ctl.MinDistance > 0 && ctl.MaxDistance >= ctl.MinDistance,
		"controls distance bounds [%v, %v]", ctl.MinDistance, ctl.MaxDistance)

	check(s.Hemisphere.SkyColor <= 0xFFFFFF && s.Hemisphere.GroundColor <= 0xFFFFFF, "hemisphere colors exceed 0xFFFFFF")
	check(s.Hemisphere.Intensity >= 0, "hemisphere intensity %v is negative", s.Hemisphere.Intensity)
	check(s.Directional.Color <= 0xFFFFFF, "directional color %#x exceeds 0xFFFFFF", s.Directional.Color)
	check(s.Directional.Intensity >= 0, "directional intensity %v is negative", s.Directional.Intensity)
	check(s.Directional.Position != [3]float32{}, "directional position must not be the origin")

	for _, p := range s.Parts.Ordered() {
		switch p.Shape {
		case ShapeCone, ShapeCylinder, ShapeSphere:
		default:
			check(false, "part %s: unknown shape %q", p.Name, p.Shape)
		}
		check(p.Texture != "", "part %s: texture is empty", p.Name)
		check(finite3(p.Position), "part %s: position must be finite", p.Name)
	}

	r := s.Renderer
	check(r.OutputColorSpace == ColorSpaceSRGB || r.OutputColorSpace == ColorSpaceLinear,
		"renderer output color space %q", r.OutputColorSpace)
	check(r.PixelRatio >= 0, "renderer pixel ratio %v is negative", r.PixelRatio)
	check(r.FrameLimit >= 0, "renderer frame limit %d is negative", r.FrameLimit)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func finite3(v [3]float32) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
