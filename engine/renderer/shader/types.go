package shader

import "github.com/cogentcore/webgpu/wgpu"

// typeLayout is the byte size and alignment of a WGSL type in the uniform address space.
type typeLayout struct {
	size  uint64
	align uint64
}

type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

// primitiveLayouts lists host-shareable scalar, vector and matrix layouts.
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]typeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"f16":  {2, 2},
	"bool": {4, 4},

	"vec2<f32>": {8, 8}, "vec2f": {8, 8},
	"vec3<f32>": {12, 16}, "vec3f": {12, 16},
	"vec4<f32>": {16, 16}, "vec4f": {16, 16},
	"vec2<u32>": {8, 8}, "vec2u": {8, 8},
	"vec3<u32>": {12, 16}, "vec3u": {12, 16},
	"vec4<u32>": {16, 16}, "vec4u": {16, 16},
	"vec2<i32>": {8, 8}, "vec2i": {8, 8},
	"vec3<i32>": {12, 16}, "vec3i": {12, 16},
	"vec4<i32>": {16, 16}, "vec4i": {16, 16},

	"mat2x2<f32>": {16, 8}, "mat2x2f": {16, 8},
	"mat3x3<f32>": {48, 16}, "mat3x3f": {48, 16},
	"mat4x4<f32>": {64, 16}, "mat4x4f": {64, 16},
	"mat4x3<f32>": {64, 16}, "mat4x3f": {64, 16},
	"mat3x4<f32>": {48, 16}, "mat3x4f": {48, 16},
}

// vertexFormats maps vertex input field types to attribute formats.
var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
	"vec4<i32>": {wgpu.VertexFormatSint32x4, 16},
}

var textureDimensions = map[string]wgpu.TextureViewDimension{
	"texture_1d":         wgpu.TextureViewDimension1D,
	"texture_2d":         wgpu.TextureViewDimension2D,
	"texture_2d_array":   wgpu.TextureViewDimension2DArray,
	"texture_3d":         wgpu.TextureViewDimension3D,
	"texture_cube":       wgpu.TextureViewDimensionCube,
	"texture_cube_array": wgpu.TextureViewDimensionCubeArray,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// field is one member of a parsed struct.
type field struct {
	name     string
	typeName string
	location int // -1 without @location
	builtin  bool
}

type structDecl struct {
	name   string
	fields []field
}

// function is a parsed fn declaration. stage is zero for helpers.
type function struct {
	name  string
	stage wgpu.ShaderStage
	body  string
}
