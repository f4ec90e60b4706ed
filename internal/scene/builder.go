package scene

import "github.com/go-gl/mathgl/mgl32"

// NodePrototype is the staging area a builder mutates before Build: the
// transform, children and event callbacks the built node will receive.
type NodePrototype struct {
	Transform *NodeTransform
	Children  *Scene
	Events    *EventReceiver
}

func newPrototype() *NodePrototype {
	return &NodePrototype{
		Transform: NewNodeTransform(),
		Children:  NewScene(),
		Events:    NewEventReceiver(),
	}
}

// NodeBuilder stages configuration for one node of concrete type T and
// produces it with Build. Build is one-shot: it consumes the staged
// prototype and resets the builder to defaults, so a second Build without
// re-staging yields a node with default transform, children and events.
type NodeBuilder[T Node] struct {
	construct func() T
	proto     *NodePrototype
}

// NewBuilder returns a builder that constructs nodes with the given
// factory. Node types expose this as their own Builder() function.
func NewBuilder[T Node](construct func() T) *NodeBuilder[T] {
	return &NodeBuilder[T]{
		construct: construct,
		proto:     newPrototype(),
	}
}

// Prototype exposes the staging prototype for direct mutation; the
// chained With* helpers are built on top of it.
func (b *NodeBuilder[T]) Prototype() *NodePrototype { return b.proto }

// WithPosition stages the node's local position.
func (b *NodeBuilder[T]) WithPosition(x, y, z float32) *NodeBuilder[T] {
	b.proto.Transform.SetPosition(x, y, z)
	return b
}

// WithRotation stages the node's local rotation.
func (b *NodeBuilder[T]) WithRotation(q mgl32.Quat) *NodeBuilder[T] {
	b.proto.Transform.SetRotation(q)
	return b
}

// WithRotationEuler stages an XYZ Euler rotation in degrees.
func (b *NodeBuilder[T]) WithRotationEuler(xDeg, yDeg, zDeg float32) *NodeBuilder[T] {
	b.proto.Transform.RotateEuler(xDeg, yDeg, zDeg)
	return b
}

// WithScale stages the node's local scale.
func (b *NodeBuilder[T]) WithScale(x, y, z float32) *NodeBuilder[T] {
	b.proto.Transform.SetScale(x, y, z)
	return b
}

// WithChild stages a named child. A duplicate name panics: builder chains
// run at scene-construction time where a duplicate is a programming
// error, not a runtime condition.
func (b *NodeBuilder[T]) WithChild(name string, child Node) *NodeBuilder[T] {
	if err := b.proto.Children.Add(name, child); err != nil {
		panic(err)
	}
	return b
}

// On stages an event callback bound to the built node's type.
func (b *NodeBuilder[T]) On(event Event, fn func(T, *GameContext)) *NodeBuilder[T] {
	On(b.proto.Events, event, fn)
	return b
}

// Build constructs the node, injects the staged transform, children and
// events into it, and resets the builder's prototype to defaults.
func (b *NodeBuilder[T]) Build() T {
	proto := b.proto
	b.proto = newPrototype()

	n := b.construct()
	*n.Transform() = *proto.Transform
	*n.Children() = *proto.Children
	*n.Events() = *proto.Events
	return n
}
