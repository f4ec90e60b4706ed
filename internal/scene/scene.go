package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// DuplicateNameError is returned by Add when a name already exists at
// that scene level.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("node %q already exists at this scene level", e.Name)
}

// Scene is one level of the node tree: an insertion-ordered, name-keyed
// collection of owned nodes. Each node's Children() is itself a Scene,
// forming a recursive ownership tree with no back-references, so the tree
// is acyclic by construction.
type Scene struct {
	names []string
	nodes map[string]Node
}

// NewScene returns an empty scene level.
func NewScene() *Scene {
	return &Scene{nodes: make(map[string]Node)}
}

// Add inserts a named node at this level. It returns DuplicateNameError
// if the name is taken and rejects names containing '/', which is
// reserved as the path separator for Get.
func (s *Scene) Add(name string, n Node) error {
	if strings.Contains(name, "/") {
		return fmt.Errorf("node name %q contains reserved separator '/'", name)
	}
	if _, exists := s.nodes[name]; exists {
		return &DuplicateNameError{Name: name}
	}
	s.names = append(s.names, name)
	s.nodes[name] = n
	return nil
}

// Remove deletes the named node from this level, reporting whether it
// was present.
func (s *Scene) Remove(name string) bool {
	if _, exists := s.nodes[name]; !exists {
		return false
	}
	delete(s.nodes, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of nodes at this level.
func (s *Scene) Len() int { return len(s.names) }

// Names returns the node names at this level in insertion order.
func (s *Scene) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// NodeAt resolves a '/'-separated path ("player/arm/hand") from this
// level and returns the node, or false if any segment is missing.
func (s *Scene) NodeAt(path string) (Node, bool) {
	parts := strings.Split(path, "/")
	current := s
	for i, part := range parts {
		n, ok := current.nodes[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return n, true
		}
		current = n.Children()
	}
	return nil, false
}

// Get resolves a '/'-separated path and asserts the node to T (a concrete
// pointer type or an interface). A missing name or a type mismatch is an
// absence, not an error.
func Get[T any](s *Scene, path string) (T, bool) {
	n, ok := s.NodeAt(path)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := n.(T)
	return typed, ok
}

// Collect gathers every node in the tree whose type matches T, in
// depth-first pre-order with children in insertion order. The order is
// stable across calls with no intervening mutation; shadow passes rely on
// it for light buffer and texture layer indices.
func Collect[T any](s *Scene) []T {
	var out []T
	s.each(func(n Node) {
		if typed, ok := n.(T); ok {
			out = append(out, typed)
		}
	})
	return out
}

// each visits every node pre-order, children in insertion order. It
// iterates a snapshot of the level's names so the visitor may add or
// remove siblings; nodes removed mid-walk are skipped, nodes added
// mid-walk wait for the next call.
func (s *Scene) each(fn func(Node)) {
	for _, name := range s.Names() {
		n, ok := s.nodes[name]
		if !ok {
			continue
		}
		fn(n)
		n.Children().each(fn)
	}
}

// Traverse visits every node pre-order, composing each node's world
// matrix from the parent chain as it descends. Mutation during the walk
// follows the same snapshot rules as each.
func (s *Scene) Traverse(parent mgl32.Mat4, fn func(n Node, world mgl32.Mat4)) {
	for _, name := range s.Names() {
		n, ok := s.nodes[name]
		if !ok {
			continue
		}
		world := WorldTransform(parent, n.Transform())
		fn(n, world)
		n.Children().Traverse(world, fn)
	}
}

// Emit triggers the event on every node pre-order, parent before
// children. For Update it first fires each node's one-time Ready, so a
// node added mid-run gets Ready immediately before its first Update.
// Each level is walked over a snapshot of its names: callbacks may
// Remove (including their own node) or Add at any level, removed nodes
// get no further dispatch this emit, and added ones start next emit.
func (s *Scene) Emit(event Event, ctx *GameContext) {
	for _, name := range s.Names() {
		n, ok := s.nodes[name]
		if !ok {
			continue
		}
		if event == EventUpdate {
			n.Events().fireReadyOnce(n, ctx)
		}
		n.Events().Trigger(event, n, ctx)
		n.Children().Emit(event, ctx)
	}
}

// Load merges another scene's top-level nodes into this one, preserving
// their insertion order. The first duplicate name aborts the merge with
// DuplicateNameError; already-merged nodes stay.
func (s *Scene) Load(other *Scene) error {
	for _, name := range other.names {
		if err := s.Add(name, other.nodes[name]); err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	}
	return nil
}

// Unload removes every top-level node of this scene whose name appears
// in other. Names absent from this level are ignored.
func (s *Scene) Unload(other *Scene) {
	for _, name := range other.names {
		s.Remove(name)
	}
}
