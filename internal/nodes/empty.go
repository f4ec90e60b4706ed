// Package nodes provides the engine's built-in node types: grouping
// nodes, cameras, models, lights and UI text. Each type embeds
// scene.NodeBase for tree membership and exposes a Builder for staged
// construction.
package nodes

import "arbor/internal/scene"

// Empty is a node with no payload, used for grouping and as an
// attachment point for transforms and event callbacks.
type Empty struct {
	scene.NodeBase
}

// NewEmpty returns an Empty with default facets.
func NewEmpty() *Empty {
	return &Empty{NodeBase: scene.NewNodeBase()}
}

// EmptyBuilder stages an Empty node.
func EmptyBuilder() *scene.NodeBuilder[*Empty] {
	return scene.NewBuilder(NewEmpty)
}
