// Package scene implements the node tree the engine runs on: a
// hierarchical, insertion-ordered collection of heterogeneous nodes with
// typed lookup, per-node lifecycle events and a staged builder.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/gfx"
)

// Node is the capability every scene object implements. Anything exposing
// these three accessors gains tree membership, event dispatch and
// transform propagation; concrete types add their own payload (meshes,
// light parameters) on top.
type Node interface {
	Transform() *NodeTransform
	Children() *Scene
	Events() *EventReceiver
}

// Drawable is the capability a node implements to participate in render
// passes. Draw is invoked once per pass per frame against the pass's
// active shader, with the node's world matrix composed during traversal.
type Drawable interface {
	Node
	Draw(b gfx.Backend, shader gfx.Shader, world mgl32.Mat4)
}

// NodeBase supplies the three Node facets for embedding in concrete node
// types.
type NodeBase struct {
	transform *NodeTransform
	children  *Scene
	events    *EventReceiver
}

// NewNodeBase returns a base with default transform, empty children and
// no registered callbacks.
func NewNodeBase() NodeBase {
	return NodeBase{
		transform: NewNodeTransform(),
		children:  NewScene(),
		events:    NewEventReceiver(),
	}
}

func (b *NodeBase) Transform() *NodeTransform { return b.transform }
func (b *NodeBase) Children() *Scene          { return b.children }
func (b *NodeBase) Events() *EventReceiver    { return b.events }
