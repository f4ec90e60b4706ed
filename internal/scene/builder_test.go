package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetBuilder() *NodeBuilder[*widget] {
	return NewBuilder(func() *widget { return newWidget("built") })
}

func TestBuildInjectsStagedPrototype(t *testing.T) {
	child := newWidget("child")

	w := widgetBuilder().
		WithPosition(1, 2, 3).
		WithScale(2, 2, 2).
		WithChild("child", child).
		Build()

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, w.Transform().Position())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, w.Transform().Scale())
	got, ok := Get[*widget](w.Children(), "child")
	require.True(t, ok)
	assert.Same(t, child, got)
}

func TestBuildIsOneShot(t *testing.T) {
	b := widgetBuilder().WithPosition(1, 2, 3).WithChild("c", newWidget("c"))

	first := b.Build()
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, first.Transform().Position())
	assert.Equal(t, 1, first.Children().Len())

	// A second Build without re-staging yields defaults.
	second := b.Build()
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, second.Transform().Position())
	assert.Equal(t, 0, second.Children().Len())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, second.Transform().Scale())
}

func TestBuildStagesEventCallbacks(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	updates := 0
	w := widgetBuilder().
		On(EventUpdate, func(n *widget, ctx *GameContext) { updates++ }).
		Build()
	require.NoError(t, root.Add("w", w))

	root.Emit(EventUpdate, ctx)
	assert.Equal(t, 1, updates)
}

func TestCallbackTypeMismatchIsSilentlySkipped(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	called := false
	g := newGadget()
	// Bind a widget-typed callback onto a gadget's receiver.
	On(g.Events(), EventUpdate, func(n *widget, ctx *GameContext) { called = true })
	require.NoError(t, root.Add("g", g))

	assert.NotPanics(t, func() { root.Emit(EventUpdate, ctx) })
	assert.False(t, called)
}
