package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor/internal/config"
	"arbor/internal/nodes"
	"arbor/internal/scene"
)

func TestHeadlessEngineRunsFrames(t *testing.T) {
	root := scene.NewScene()

	readies, updates := 0, 0
	cube := nodes.ModelBuilder().
		On(scene.EventReady, func(m *nodes.Model, ctx *scene.GameContext) { readies++ }).
		On(scene.EventUpdate, func(m *nodes.Model, ctx *scene.GameContext) { updates++ }).
		Build()
	cube.Mesh = nodes.CubeMesh(1)
	require.NoError(t, root.Add("cube", cube))
	require.NoError(t, root.Add("sun", nodes.NewDirectionalLight()))
	require.NoError(t, root.Add("camera", nodes.NewCamera3D()))

	e := New(root, Options{Headless: true})
	require.True(t, e.Headless())

	e.RunFrames(3)

	assert.Equal(t, 1, readies, "ready fires once, before the first update")
	assert.Equal(t, 3, updates)
	assert.Equal(t, uint64(3), e.Context().FrameCount)

	stats := e.Renderer().Stats()
	assert.Equal(t, 1, stats.Drawables)
	assert.Equal(t, 1, stats.DirectionalLights)
}

func TestEngineStopEndsRun(t *testing.T) {
	root := scene.NewScene()
	ticks := 0
	watcher := nodes.EmptyBuilder().
		On(scene.EventUpdate, func(n *nodes.Empty, ctx *scene.GameContext) {
			ticks++
		}).
		Build()
	require.NoError(t, root.Add("watcher", watcher))

	e := New(root, Options{Headless: true})
	stopper := nodes.EmptyBuilder().
		On(scene.EventUpdate, func(n *nodes.Empty, ctx *scene.GameContext) {
			if ctx.FrameCount >= 1 {
				e.Stop()
			}
		}).
		Build()
	require.NoError(t, root.Add("stopper", stopper))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.LessOrEqual(t, ticks, 3)
}

func TestVulkanBackendDegradesToHeadless(t *testing.T) {
	root := scene.NewScene()

	updates := 0
	cube := nodes.ModelBuilder().
		On(scene.EventUpdate, func(m *nodes.Model, ctx *scene.GameContext) { updates++ }).
		Build()
	cube.Mesh = nodes.CubeMesh(1)
	require.NoError(t, root.Add("cube", cube))

	// With no Vulkan loader the probe fails and the renderer falls back
	// to the no-op backend; with one present the probe backend itself is
	// presentation-free. Either way the frame loop must run windowless.
	var e *Engine
	require.NotPanics(t, func() { e = New(root, Options{Backend: BackendVulkan}) })
	require.True(t, e.Headless())

	e.RunFrames(2)
	assert.Equal(t, 2, updates)
	assert.Equal(t, uint64(2), e.Context().FrameCount)
	assert.NotEmpty(t, e.Renderer().Backend().Name())
}

func TestFPSLimiterUncappedReturnsImmediately(t *testing.T) {
	prev := config.GetFPSLimit()
	defer config.SetFPSLimit(prev)
	config.SetFPSLimit(0)

	l := NewFPSLimiter()
	start := time.Now()
	l.Wait()
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestFPSLimiterPacesFrames(t *testing.T) {
	prev := config.GetFPSLimit()
	defer config.SetFPSLimit(prev)
	config.SetFPSLimit(200)

	l := NewFPSLimiter()
	start := time.Now()
	for range 4 {
		l.Wait()
	}
	// 4 frames at 200 fps is at least ~20ms of pacing.
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestFPSManagerReportsOncePerSecond(t *testing.T) {
	m := NewFPSManager()
	reported := 0
	m.SetCallback(func(fps int) { reported = fps })

	m.last = time.Now().Add(-time.Second)
	m.frames = 59
	m.Frame()
	assert.Equal(t, 60, reported)
	assert.Equal(t, 60, m.FPS())
}
