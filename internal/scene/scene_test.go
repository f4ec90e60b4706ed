package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	NodeBase
	tag string
}

func newWidget(tag string) *widget {
	return &widget{NodeBase: NewNodeBase(), tag: tag}
}

type gadget struct {
	NodeBase
}

func newGadget() *gadget {
	return &gadget{NodeBase: NewNodeBase()}
}

func TestAddRejectsDuplicateNames(t *testing.T) {
	s := NewScene()

	require.NoError(t, s.Add("a", newWidget("first")))
	require.NoError(t, s.Add("b", newWidget("second")))

	err := s.Add("a", newWidget("third"))
	require.Error(t, err)
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Name)

	// The failed add must leave the scene unchanged.
	assert.Equal(t, []string{"a", "b"}, s.Names())
	got, ok := Get[*widget](s, "a")
	require.True(t, ok)
	assert.Equal(t, "first", got.tag)
}

func TestAddRejectsPathSeparator(t *testing.T) {
	s := NewScene()
	assert.Error(t, s.Add("a/b", newWidget("x")))
	assert.Equal(t, 0, s.Len())
}

func TestGetResolvesNestedPaths(t *testing.T) {
	hand := newWidget("hand")
	arm := newWidget("arm")
	player := newWidget("player")
	require.NoError(t, arm.Children().Add("hand", hand))
	require.NoError(t, player.Children().Add("arm", arm))

	s := NewScene()
	require.NoError(t, s.Add("player", player))

	got, ok := Get[*widget](s, "player/arm/hand")
	require.True(t, ok)
	assert.Same(t, hand, got)

	_, ok = Get[*widget](s, "player/leg/hand")
	assert.False(t, ok)

	// Type mismatch is an absence, not an error.
	_, ok = Get[*gadget](s, "player/arm/hand")
	assert.False(t, ok)
}

func TestCollectPreOrderStable(t *testing.T) {
	root := NewScene()

	a := newWidget("a")
	a1 := newWidget("a1")
	a2 := newWidget("a2")
	require.NoError(t, a.Children().Add("a1", a1))
	require.NoError(t, a.Children().Add("a2", a2))

	b := newWidget("b")
	require.NoError(t, root.Add("a", a))
	require.NoError(t, root.Add("g", newGadget()))
	require.NoError(t, root.Add("b", b))

	want := []string{"a", "a1", "a2", "b"}
	for range 3 {
		items := Collect[*widget](root)
		require.Len(t, items, len(want))
		for i, item := range items {
			assert.Equal(t, want[i], item.tag)
		}
	}

	gadgets := Collect[*gadget](root)
	assert.Len(t, gadgets, 1)

	// Interface-typed collection sees every node.
	all := Collect[Node](root)
	assert.Len(t, all, 5)
}

func TestCollectEmptyScene(t *testing.T) {
	assert.Empty(t, Collect[*widget](NewScene()))
}

func TestEmitPreOrderParentBeforeChildren(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	var order []string
	track := func(tag string) *widget {
		w := newWidget(tag)
		On(w.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
			order = append(order, n.tag)
		})
		return w
	}

	parent := track("parent")
	require.NoError(t, parent.Children().Add("child", track("child")))
	require.NoError(t, root.Add("parent", parent))
	require.NoError(t, root.Add("sibling", track("sibling")))

	root.Emit(EventUpdate, ctx)
	assert.Equal(t, []string{"parent", "child", "sibling"}, order)
}

func TestReadyFiresOncePerNodeBeforeFirstUpdate(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	var order []string
	w := newWidget("w")
	On(w.Events(), EventReady, func(n *widget, ctx *GameContext) {
		order = append(order, "ready")
	})
	On(w.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
		order = append(order, "update")
	})
	require.NoError(t, root.Add("w", w))

	root.Emit(EventUpdate, ctx)
	root.Emit(EventUpdate, ctx)
	assert.Equal(t, []string{"ready", "update", "update"}, order)

	// A node added mid-run gets Ready before its first Update.
	late := newWidget("late")
	On(late.Events(), EventReady, func(n *widget, ctx *GameContext) {
		order = append(order, "late-ready")
	})
	require.NoError(t, root.Add("late", late))
	root.Emit(EventUpdate, ctx)
	assert.Contains(t, order, "late-ready")
}

func TestReentrantTriggerIsSkipped(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	calls := 0
	w := newWidget("w")
	On(w.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
		calls++
		// Re-triggering the event we are handling must not recurse.
		n.Events().Trigger(EventUpdate, n, ctx)
	})
	require.NoError(t, root.Add("w", w))

	root.Emit(EventUpdate, ctx)
	assert.Equal(t, 1, calls)
}

func TestCustomEventsQueueAndDispatch(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	var got []string
	w := newWidget("w")
	On(w.Events(), EventCustom("damage"), func(n *widget, ctx *GameContext) {
		got = append(got, "damage")
	})
	On(w.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
		ctx.EmitCustom("damage")
	})
	require.NoError(t, root.Add("w", w))

	root.Emit(EventUpdate, ctx)
	assert.Empty(t, got, "custom events are queued, not dispatched inline")
	ctx.DispatchQueued()
	assert.Equal(t, []string{"damage"}, got)
}

func TestLoadAndUnload(t *testing.T) {
	root := NewScene()
	require.NoError(t, root.Add("keep", newWidget("keep")))

	chunk := NewScene()
	require.NoError(t, chunk.Add("a", newWidget("a")))
	require.NoError(t, chunk.Add("b", newWidget("b")))

	require.NoError(t, root.Load(chunk))
	assert.Equal(t, []string{"keep", "a", "b"}, root.Names())

	// Duplicate in a later load aborts but keeps earlier merges.
	clash := NewScene()
	require.NoError(t, clash.Add("c", newWidget("c")))
	require.NoError(t, clash.Add("keep", newWidget("other")))
	require.Error(t, root.Load(clash))
	assert.Equal(t, []string{"keep", "a", "b", "c"}, root.Names())

	root.Unload(chunk)
	assert.Equal(t, []string{"keep", "c"}, root.Names())
}

func TestEmitSurvivesSiblingRemoval(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	var order []string
	a := newWidget("a")
	On(a.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
		order = append(order, "a")
		root.Remove("c")
	})
	b := newWidget("b")
	On(b.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
		order = append(order, "b")
	})
	c := newWidget("c")
	On(c.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
		order = append(order, "c")
	})
	require.NoError(t, root.Add("a", a))
	require.NoError(t, root.Add("b", b))
	require.NoError(t, root.Add("c", c))

	require.NotPanics(t, func() { root.Emit(EventUpdate, ctx) })
	// A sibling removed mid-emit gets no dispatch this frame.
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, []string{"a", "b"}, root.Names())
}

func TestEmitSelfRemovalKeepsOneUpdatePerNode(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	counts := map[string]int{}
	add := func(tag string, removeSelf bool) {
		w := newWidget(tag)
		On(w.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
			counts[n.tag]++
			if removeSelf {
				root.Remove(n.tag)
			}
		})
		require.NoError(t, root.Add(tag, w))
	}
	add("a", true)
	add("b", false)
	add("c", false)

	root.Emit(EventUpdate, ctx)
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, counts)

	// The removed node stays gone; the survivors still get exactly one
	// update per emit.
	root.Emit(EventUpdate, ctx)
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 2}, counts)
}

func TestCollectInsideEmitSeesRemoval(t *testing.T) {
	root := NewScene()
	ctx := NewGameContext(root)

	var seen []string
	a := newWidget("a")
	On(a.Events(), EventUpdate, func(n *widget, ctx *GameContext) {
		root.Remove("b")
		for _, w := range Collect[*widget](root) {
			seen = append(seen, w.tag)
		}
	})
	require.NoError(t, root.Add("a", a))
	require.NoError(t, root.Add("b", newWidget("b")))
	require.NoError(t, root.Add("c", newWidget("c")))

	root.Emit(EventUpdate, ctx)
	assert.Equal(t, []string{"a", "c"}, seen)
}

func TestTraverseSurvivesRemovalDuringWalk(t *testing.T) {
	root := NewScene()
	require.NoError(t, root.Add("a", newWidget("a")))
	require.NoError(t, root.Add("b", newWidget("b")))

	var visited []string
	require.NotPanics(t, func() {
		root.Traverse(mgl32.Ident4(), func(n Node, world mgl32.Mat4) {
			visited = append(visited, n.(*widget).tag)
			root.Remove("b")
		})
	})
	assert.Equal(t, []string{"a"}, visited)
}

func TestTraverseComposesWorldMatrices(t *testing.T) {
	root := NewScene()

	parent := newWidget("parent")
	parent.Transform().SetPosition(10, 0, 0)
	child := newWidget("child")
	child.Transform().SetPosition(0, 5, 0)
	require.NoError(t, parent.Children().Add("child", child))
	require.NoError(t, root.Add("parent", parent))

	worlds := map[string]mgl32.Mat4{}
	root.Traverse(mgl32.Ident4(), func(n Node, world mgl32.Mat4) {
		worlds[n.(*widget).tag] = world
	})

	childPos := worlds["child"].Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 10.0, childPos.X(), 1e-5)
	assert.InDelta(t, 5.0, childPos.Y(), 1e-5)
}
