package nodes

import "arbor/internal/scene"

// Container carries an arbitrary user payload through the scene tree.
// Event callbacks registered for Container[T] get typed access to the
// payload without their own node type.
type Container[T any] struct {
	scene.NodeBase
	Payload T
}

// NewContainer wraps the payload in a node.
func NewContainer[T any](payload T) *Container[T] {
	return &Container[T]{
		NodeBase: scene.NewNodeBase(),
		Payload:  payload,
	}
}

// ContainerBuilder stages a Container node around the payload.
func ContainerBuilder[T any](payload T) *scene.NodeBuilder[*Container[T]] {
	return scene.NewBuilder(func() *Container[T] { return NewContainer(payload) })
}
