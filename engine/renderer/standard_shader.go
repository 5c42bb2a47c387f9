package renderer

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sword/engine/geometry"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/shader"
)

//go:embed assets/standard.wgsl
var standardShaderSource string

// ErrShaderLayout is returned when the standard shader's interface disagrees with the
// uniform and vertex layouts marshaled on the CPU side.
var ErrShaderLayout = errors.New("standard shader layout mismatch")

// reflectStandardShader reflects the embedded shader and checks it against the Go-side
// layouts: three bind groups, uniform sizes matching the marshaled structs, and a vertex
// input matching geometry.Vertex.
func reflectStandardShader() (*shader.Reflection, error) {
	refl, err := shader.Reflect(standardShaderSource)
	if err != nil {
		return nil, fmt.Errorf("reflect standard shader: %w", err)
	}
	if n := refl.GroupCount(); n != 3 {
		return nil, fmt.Errorf("%d bind groups, want 3: %w", n, ErrShaderLayout)
	}

	var mat material.GPUMaterialUniform
	want := map[string]uint64{
		"frame":    FrameUniformSize,
		"object":   ObjectUniformSize,
		"material": uint64(mat.Size()),
	}
	for name, size := range want {
		b, ok := refl.Binding(name)
		if !ok {
			return nil, fmt.Errorf("binding %q not declared: %w", name, ErrShaderLayout)
		}
		if b.Size != size {
			return nil, fmt.Errorf("binding %q is %d bytes, marshaled %d: %w", name, b.Size, size, ErrShaderLayout)
		}
	}

	if len(refl.VertexInputs) != 1 || refl.VertexInputs[0].ArrayStride != geometry.VertexStride {
		return nil, fmt.Errorf("vertex input does not match geometry.Vertex: %w", ErrShaderLayout)
	}
	return refl, nil
}
