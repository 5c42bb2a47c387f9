package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/engine/light"
)

// Node is anything that can be a direct child of a Scene: lights and groups.
type Node interface {
	Name() string
}

type scene struct {
	mu *sync.RWMutex

	name            string
	background      uint32
	children        []Node
	cullingDisabled bool
}

// Scene is the root of the scene graph: a background color and an ordered list of
// child nodes (lights and groups). There is one Scene per application.
type Scene interface {
	// Name returns the scene name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Background returns the background color as a packed 0xRRGGBB sRGB value.
	//
	// Returns:
	//   - uint32: the background color
	Background() uint32

	// BackgroundLinear returns the background color converted to linear RGB.
	//
	// Returns:
	//   - [3]float32: linear (r, g, b)
	BackgroundLinear() [3]float32

	// Add appends child nodes in order. Nil nodes are ignored.
	//
	// Parameters:
	//   - nodes: lights and groups to add
	Add(nodes ...Node)

	// Children returns a copy of the child list in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// Lights returns the light children in insertion order.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// Groups returns the group children in insertion order.
	//
	// Returns:
	//   - []Group: the groups
	Groups() []Group

	// Group finds a group child by name.
	//
	// Parameters:
	//   - name: the group name
	//
	// Returns:
	//   - Group: the group, or nil if none has that name
	Group(name string) Group

	// Meshes walks every group and returns all meshes in draw order.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// VisibleMeshes returns the meshes whose bounding spheres intersect the view frustum.
	// All meshes are returned when culling is disabled.
	//
	// Parameters:
	//   - viewProj: the camera's combined view-projection matrix (column-major)
	//
	// Returns:
	//   - []Mesh: the meshes to draw this frame
	VisibleMeshes(viewProj [16]float32) []Mesh
}

var _ Scene = &scene{}

// NewScene creates an empty Scene with a black background.
//
// Parameters:
//   - name: the scene name
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:   &sync.RWMutex{},
		name: name,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Background() uint32 {
	return s.background
}

func (s *scene) BackgroundLinear() [3]float32 {
	return common.HexToLinearRGB(s.background)
}

func (s *scene) Add(nodes ...Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nodes {
		if n != nil {
			s.children = append(s.children, n)
		}
	}
}

func (s *scene) Children() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Node, len(s.children))
	copy(out, s.children)
	return out
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []light.Light
	for _, n := range s.children {
		if l, ok := n.(light.Light); ok {
			out = append(out, l)
		}
	}
	return out
}

func (s *scene) Groups() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Group
	for _, n := range s.children {
		if g, ok := n.(Group); ok {
			out = append(out, g)
		}
	}
	return out
}

func (s *scene) Group(name string) Group {
	for _, g := range s.Groups() {
		if g.Name() == name {
			return g
		}
	}
	return nil
}

func (s *scene) Meshes() []Mesh {
	var out []Mesh
	for _, g := range s.Groups() {
		out = append(out, g.Meshes()...)
	}
	return out
}

func (s *scene) VisibleMeshes(viewProj [16]float32) []Mesh {
	meshes := s.Meshes()
	if s.cullingDisabled {
		return meshes
	}

	frustum := common.ExtractFrustumFromMatrix(viewProj[:])
	visible := meshes[:0]
	for _, m := range meshes {
		world := m.WorldMatrix()
		center := common.TransformPoint(world[:], [3]float32{})
		if frustum.ContainsSphere(center, m.Geometry().BoundingRadius()) {
			visible = append(visible, m)
		}
	}
	return visible
}
