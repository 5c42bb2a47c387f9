package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithBackground sets the background color the frame is cleared to.
//
// Parameters:
//   - hex: packed 0xRRGGBB sRGB color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(hex uint32) SceneBuilderOption {
	return func(s *scene) {
		s.background = hex & 0xFFFFFF
	}
}

// WithCullingDisabled disables frustum culling for the scene. When set to true,
// VisibleMeshes returns every mesh. By default culling is enabled.
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// GroupBuilderOption is a functional option for configuring a Group.
type GroupBuilderOption func(g *group)

// WithGroupPosition sets the group's initial world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GroupBuilderOption: option function to apply
func WithGroupPosition(x, y, z float32) GroupBuilderOption {
	return func(g *group) {
		g.position = [3]float32{x, y, z}
	}
}

// MeshBuilderOption is a functional option for configuring a Mesh.
type MeshBuilderOption func(m *mesh)

// WithPosition sets the mesh's local position relative to its parent group.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithPosition(x, y, z float32) MeshBuilderOption {
	return func(m *mesh) {
		m.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the mesh's local Euler rotation in radians (Y * X * Z order).
//
// Parameters:
//   - x, y, z: rotation angles in radians
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithRotation(x, y, z float32) MeshBuilderOption {
	return func(m *mesh) {
		m.rotation = [3]float32{x, y, z}
	}
}
