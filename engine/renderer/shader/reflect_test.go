package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
/* block /* nested */ comment */
struct Globals {
    view_proj: mat4x4<f32>,
    tint: vec3<f32>, // trailing comment
    time: f32,
};

struct Item {
    offset: vec3<f32>,
    scale: f32,
};

struct Params {
    globals: Globals,
    items: array<Item, 3>,
};

@group(0) @binding(0) var<uniform> params: Params;
@group(1) @binding(1) var tex: texture_2d<f32>;
@group(1) @binding(0) var<uniform> shade: vec4<f32>;
@group(1) @binding(2) var samp: sampler;

struct VertexIn {
    @location(0) pos: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

fn transform(p: vec3<f32>) -> vec4<f32> {
    return params.globals.view_proj * vec4<f32>(p, 1.0);
}

@vertex
fn vert(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.clip = transform(in.pos);
    out.uv = in.uv;
    return out;
}

@fragment
fn frag(in: VertexOut) -> @location(0) vec4<f32> {
    return textureSample(tex, samp, in.uv) * shade;
}
`

func TestReflect(t *testing.T) {
	r, err := Reflect(testSource)
	require.NoError(t, err)

	assert.Equal(t, "vert", r.VertexEntryPoint)
	assert.Equal(t, "frag", r.FragmentEntryPoint)
	assert.Equal(t, 2, r.GroupCount())

	size, ok := r.StructSize("Globals")
	require.True(t, ok)
	assert.Equal(t, uint64(80), size)
	size, _ = r.StructSize("Params")
	assert.Equal(t, uint64(80+3*16), size)

	require.Len(t, r.VertexInputs, 1)
	vin := r.VertexInputs[0]
	assert.Equal(t, uint64(20), vin.ArrayStride)
	require.Len(t, vin.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, vin.Attributes[1].Format)
	assert.Equal(t, uint64(12), vin.Attributes[1].Offset)
}

func TestReflectBindings(t *testing.T) {
	r, err := Reflect(testSource)
	require.NoError(t, err)

	params, ok := r.Binding("params")
	require.True(t, ok)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, params.Entry.Buffer.Type)
	assert.Equal(t, uint64(128), params.Entry.Buffer.MinBindingSize)
	// reached only through the helper called by the vertex entry point
	assert.Equal(t, wgpu.ShaderStageVertex, params.Entry.Visibility)

	entries := r.GroupEntries(1)
	require.Len(t, entries, 3)
	assert.Equal(t, []uint32{0, 1, 2}, []uint32{entries[0].Binding, entries[1].Binding, entries[2].Binding})
	assert.Equal(t, uint64(16), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[1].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[1].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[2].Sampler.Type)
	for _, e := range entries {
		assert.Equal(t, wgpu.ShaderStageFragment, e.Visibility)
	}
}

func TestReflectErrors(t *testing.T) {
	_, err := Reflect(`@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }`)
	assert.ErrorIs(t, err, ErrMissingEntryPoint)

	_, err = Reflect(`
struct In { @location(0) m: mat2x2<f32>, };
@vertex fn v(i: In) -> @builtin(position) vec4<f32> { return vec4<f32>(); }
@fragment fn f() -> @location(0) vec4<f32> { return vec4<f32>(); }
`)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Reflect(`
@group(0) @binding(0) var t: texture_multisampled_2d<f32>;
@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }
@fragment fn f() -> @location(0) vec4<f32> { return vec4<f32>(); }
`)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
