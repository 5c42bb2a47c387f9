package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/engine/geometry"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/material"
)

// ErrIncompleteMesh is returned when a mesh is built without a geometry or a material.
var ErrIncompleteMesh = errors.New("mesh requires geometry and material")

type mesh struct {
	mu *sync.RWMutex

	name     string
	geometry geometry.Geometry
	material material.Material
	position [3]float32
	rotation [3]float32
	scale    [3]float32

	parent Group
}

// Mesh pairs exactly one Geometry with exactly one Material and a local transform.
// A mesh belongs to at most one Group; its world transform is the group's transform
// followed by its own.
type Mesh interface {
	// Name returns the mesh name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Geometry returns the shape the mesh draws. Never nil.
	//
	// Returns:
	//   - geometry.Geometry: the geometry
	Geometry() geometry.Geometry

	// Material returns the surface the mesh is shaded with. Never nil.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Position returns the local position relative to the parent group.
	//
	// Returns:
	//   - [3]float32: local position as (x, y, z)
	Position() [3]float32

	// SetPosition sets the local position relative to the parent group.
	//
	// Parameters:
	//   - x, y, z: local position components
	SetPosition(x, y, z float32)

	// Parent returns the group the mesh was added to, or nil.
	//
	// Returns:
	//   - Group: the parent group or nil
	Parent() Group

	// LocalMatrix returns the mesh's transform relative to its parent (column-major).
	//
	// Returns:
	//   - [16]float32: the local model matrix
	LocalMatrix() [16]float32

	// WorldMatrix returns the mesh's transform in world space (column-major).
	//
	// Returns:
	//   - [16]float32: the world model matrix
	WorldMatrix() [16]float32

	setParent(g Group)
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh from a geometry and a material.
// The geometry is validated before the mesh is returned.
//
// Parameters:
//   - name: the mesh name
//   - geo: the geometry to draw (must not be nil)
//   - mat: the material to shade with (must not be nil)
//   - options: functional options to further configure the mesh
//
// Returns:
//   - Mesh: the newly created mesh
//   - error: ErrIncompleteMesh if geo or mat is nil, or the geometry's validation error
func NewMesh(name string, geo geometry.Geometry, mat material.Material, options ...MeshBuilderOption) (Mesh, error) {
	if geo == nil || mat == nil {
		return nil, fmt.Errorf("mesh %q: %w", name, ErrIncompleteMesh)
	}
	if err := geo.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}

	m := &mesh{
		mu:       &sync.RWMutex{},
		name:     name,
		geometry: geo,
		material: mat,
		scale:    [3]float32{1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Geometry() geometry.Geometry {
	return m.geometry
}

func (m *mesh) Material() material.Material {
	return m.material
}

func (m *mesh) Position() [3]float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position
}

func (m *mesh) SetPosition(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = [3]float32{x, y, z}
}

func (m *mesh) Parent() Group {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parent
}

func (m *mesh) LocalMatrix() [16]float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out [16]float32
	common.BuildModelMatrix(out[:], m.position, m.rotation, m.scale)
	return out
}

func (m *mesh) WorldMatrix() [16]float32 {
	local := m.LocalMatrix()
	parent := m.Parent()
	if parent == nil {
		return local
	}
	pm := parent.Matrix()
	var out [16]float32
	common.Mul4(out[:], pm[:], local[:])
	return out
}

func (m *mesh) setParent(g Group) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parent = g
}
