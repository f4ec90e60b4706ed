package scene

import (
	"arbor/internal/input"
)

// GameContext is the per-frame aggregate handed to every event callback:
// timing, input snapshot, the scene root and the active camera path. One
// instance lives for the whole run; the engine refreshes the frame fields
// before emitting events.
type GameContext struct {
	// Root is the top-level scene.
	Root *Scene

	// Input is the engine's input manager. Nil when running headless.
	Input *input.Manager

	// Elapsed is seconds since the engine started.
	Elapsed float64
	// Delta is seconds since the previous frame.
	Delta float32
	// FrameCount counts completed frames.
	FrameCount uint64

	// AspectRatio of the current framebuffer, for camera projections.
	AspectRatio float32

	activeCamera string
	customQueue  []Event
}

// NewGameContext wraps a scene root. AspectRatio starts at 16:9 until the
// engine reports the real framebuffer size.
func NewGameContext(root *Scene) *GameContext {
	return &GameContext{
		Root:        root,
		AspectRatio: 16.0 / 9.0,
	}
}

// SetActiveCamera records the path (from the root) of the camera the main
// pass renders from.
func (c *GameContext) SetActiveCamera(path string) {
	c.activeCamera = path
}

// ActiveCameraPath returns the recorded camera path, empty if none.
func (c *GameContext) ActiveCameraPath() string {
	return c.activeCamera
}

// EmitCustom queues a custom event for dispatch to the whole tree after
// the current Update emit finishes. Queuing instead of dispatching
// inline keeps traversal order intact when a callback emits mid-frame.
func (c *GameContext) EmitCustom(name string) {
	c.customQueue = append(c.customQueue, EventCustom(name))
}

// DispatchQueued drains the custom event queue, emitting each event over
// the full tree in the order queued. Events queued by these callbacks are
// dispatched in the same drain.
func (c *GameContext) DispatchQueued() {
	for len(c.customQueue) > 0 {
		event := c.customQueue[0]
		c.customQueue = c.customQueue[1:]
		c.Root.Emit(event, c)
	}
}
