package sword

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/config"
	"github.com/Carmen-Shannon/oxy-sword/engine/geometry"
	"github.com/Carmen-Shannon/oxy-sword/engine/loader"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sword/engine/scene"
)

// partGeometry builds the shape descriptor for a configured part. Zero segment
// counts keep the shape's defaults.
func partGeometry(p config.Part) (geometry.Geometry, error) {
	var opts []geometry.GeometryBuilderOption
	if p.RadialSegments > 0 {
		opts = append(opts, geometry.WithRadialSegments(p.RadialSegments))
	}
	if p.HeightSegments > 0 {
		opts = append(opts, geometry.WithHeightSegments(p.HeightSegments))
	}

	switch p.Shape {
	case config.ShapeCone:
		opts = append(opts, geometry.WithRadius(p.Radius), geometry.WithHeight(p.Height))
		return geometry.NewCone(opts...), nil
	case config.ShapeCylinder:
		opts = append(opts,
			geometry.WithRadiusTop(p.RadiusTop),
			geometry.WithRadiusBottom(p.RadiusBottom),
			geometry.WithHeight(p.Height),
		)
		return geometry.NewCylinder(opts...), nil
	case config.ShapeSphere:
		opts = append(opts, geometry.WithRadius(p.Radius))
		if p.WidthSegments > 0 {
			opts = append(opts, geometry.WithWidthSegments(p.WidthSegments))
		}
		return geometry.NewSphere(opts...), nil
	default:
		return nil, fmt.Errorf("part %s: unknown shape %q", p.Name, p.Shape)
	}
}

// partMaterial requests the part's texture and wraps it in a standard material.
// Parts naming the same file share one texture.
func partMaterial(p config.Part, ld loader.Loader, anisotropy uint16) material.Material {
	tex := ld.LoadTexture(p.Texture,
		material.WithColorSpace(common.ColorSpaceSRGB),
		material.WithAnisotropy(anisotropy),
	)
	return material.NewStandardMaterial(
		material.WithName(p.Name),
		material.WithTexture(tex),
	)
}

// buildPart assembles one positioned mesh from its configuration.
func buildPart(p config.Part, ld loader.Loader, anisotropy uint16) (scene.Mesh, error) {
	geo, err := partGeometry(p)
	if err != nil {
		return nil, err
	}
	m, err := scene.NewMesh(p.Name, geo, partMaterial(p, ld, anisotropy),
		scene.WithPosition(p.Position[0], p.Position[1], p.Position[2]),
	)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", p.Name, err)
	}
	return m, nil
}
