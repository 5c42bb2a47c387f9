package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
)

type group struct {
	mu *sync.RWMutex

	name     string
	position [3]float32
	rotation [3]float32
	scale    [3]float32
	meshes   []Mesh
}

// Group is an ordered collection of meshes sharing a parent transform.
type Group interface {
	// Name returns the group name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Add appends meshes in order and makes this group their parent.
	//
	// Parameters:
	//   - meshes: the meshes to add
	Add(meshes ...Mesh)

	// Meshes returns a copy of the mesh list in insertion order.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// Mesh finds a child mesh by name.
	//
	// Parameters:
	//   - name: the mesh name
	//
	// Returns:
	//   - Mesh: the mesh, or nil if none has that name
	Mesh(name string) Mesh

	// Position returns the group's position in world space.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// SetPosition moves the group, and with it every child mesh.
	//
	// Parameters:
	//   - x, y, z: world-space position components
	SetPosition(x, y, z float32)

	// SetRotation sets the group's Euler rotation in radians (Y * X * Z order).
	//
	// Parameters:
	//   - x, y, z: rotation angles in radians
	SetRotation(x, y, z float32)

	// Matrix returns the group's world transform (column-major).
	//
	// Returns:
	//   - [16]float32: the group matrix
	Matrix() [16]float32
}

var _ Group = &group{}

// NewGroup creates an empty Group at the origin.
//
// Parameters:
//   - name: the group name
//   - options: functional options to further configure the group
//
// Returns:
//   - Group: the newly created group
func NewGroup(name string, options ...GroupBuilderOption) Group {
	g := &group{
		mu:    &sync.RWMutex{},
		name:  name,
		scale: [3]float32{1, 1, 1},
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *group) Name() string {
	return g.name
}

func (g *group) Add(meshes ...Mesh) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range meshes {
		if m == nil {
			continue
		}
		m.setParent(g)
		g.meshes = append(g.meshes, m)
	}
}

func (g *group) Meshes() []Mesh {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Mesh, len(g.meshes))
	copy(out, g.meshes)
	return out
}

func (g *group) Mesh(name string) Mesh {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, m := range g.meshes {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

func (g *group) Position() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *group) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = [3]float32{x, y, z}
}

func (g *group) SetRotation(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = [3]float32{x, y, z}
}

func (g *group) Matrix() [16]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out [16]float32
	common.BuildModelMatrix(out[:], g.position, g.rotation, g.scale)
	return out
}
