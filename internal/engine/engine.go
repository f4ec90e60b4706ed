// Package engine owns the window, the frame loop and the wiring between
// input, scene updates and the renderer. GPU init failure degrades to a
// headless run instead of aborting: scene updates keep executing with a
// no-op backend.
package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"arbor/internal/gfx"
	"arbor/internal/input"
	"arbor/internal/profiling"
	"arbor/internal/render"
	"arbor/internal/scene"
)

// BackendKind selects which GPU API the engine brings up.
type BackendKind int

const (
	// BackendGL opens a GLFW window with an OpenGL 4.1 core context.
	BackendGL BackendKind = iota
	// BackendVulkan probes the Vulkan loader and runs the frame loop
	// against it without presentation; draws fall through to the no-op
	// path until the pipeline port lands. No loader means a headless
	// fallback, same as a failed GL bring-up.
	BackendVulkan
)

// Options configure engine startup.
type Options struct {
	Title   string
	Width   int
	Height  int
	Backend BackendKind
	// Headless skips window and GPU creation outright.
	Headless bool
}

// Engine runs the single-threaded frame loop: timing, input poll, scene
// Update emit, render passes, buffer swap, FPS limit.
type Engine struct {
	window   *glfw.Window
	renderer *render.Renderer
	input    *input.Manager
	ctx      *scene.GameContext

	limiter *FPSLimiter
	fps     *FPSManager

	title    string
	start    time.Time
	lastTime time.Time
	stopped  bool
}

// New builds an engine around the scene root. Window or GL context
// failure logs and degrades to headless rather than returning an error;
// the caller can check Headless.
func New(root *scene.Scene, opts Options) *Engine {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Title == "" {
		opts.Title = "arbor"
	}

	e := &Engine{
		ctx:     scene.NewGameContext(root),
		limiter: NewFPSLimiter(),
		fps:     NewFPSManager(),
		title:   opts.Title,
	}

	switch {
	case opts.Headless:
		e.renderer = render.New(gfx.NewHeadlessBackend())
	case opts.Backend == BackendVulkan:
		e.renderer = render.NewWithFallback(func() (gfx.Backend, error) {
			return gfx.NewVulkanBackend(opts.Title)
		})
	default:
		e.renderer = render.NewWithFallback(func() (gfx.Backend, error) {
			return e.openWindow(opts)
		})
	}
	render.RegisterDefaultPasses(e.renderer)

	if e.window != nil {
		e.input = input.NewManager()
		e.input.SetCallbacks(e.window)
		e.ctx.Input = e.input

		e.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
			e.renderer.SetViewportSize(int32(width), int32(height))
			if height > 0 {
				e.ctx.AspectRatio = float32(width) / float32(height)
			}
		})
		width, height := e.window.GetFramebufferSize()
		e.renderer.SetViewportSize(int32(width), int32(height))
		if height > 0 {
			e.ctx.AspectRatio = float32(width) / float32(height)
		}

		e.fps.SetCallback(func(fps int) {
			e.window.SetTitle(fmt.Sprintf("%s | %d fps | %s", e.title, fps, e.renderer.Backend().Name()))
		})
	}

	return e
}

// openWindow initializes GLFW, creates the window and the GL backend.
// Any failure is returned so the renderer can fall back to headless.
func (e *Engine) openWindow(opts Options) (gfx.Backend, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize GLFW: %v", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create window: %v", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	backend, err := gfx.NewGLBackend()
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	e.window = window
	return backend, nil
}

// Context returns the per-frame game context.
func (e *Engine) Context() *scene.GameContext { return e.ctx }

// Renderer returns the engine's renderer.
func (e *Engine) Renderer() *render.Renderer { return e.renderer }

// Headless reports whether the engine runs without a window.
func (e *Engine) Headless() bool { return e.window == nil }

// Stop makes Run return after the current frame.
func (e *Engine) Stop() { e.stopped = true }

// Run executes frames until the window closes or Stop is called, then
// tears down GPU resources.
func (e *Engine) Run() {
	e.start = time.Now()
	e.lastTime = e.start
	for !e.shouldClose() {
		e.tick()
	}
	e.teardown()
}

// RunFrames executes exactly n frames, for headless tools and tests.
func (e *Engine) RunFrames(n int) {
	e.start = time.Now()
	e.lastTime = e.start
	for i := 0; i < n && !e.shouldClose(); i++ {
		e.tick()
	}
	e.teardown()
}

func (e *Engine) shouldClose() bool {
	if e.stopped {
		return true
	}
	return e.window != nil && e.window.ShouldClose()
}

func (e *Engine) tick() {
	profiling.ResetFrame()
	startTick := time.Now()

	now := time.Now()
	e.ctx.Delta = float32(now.Sub(e.lastTime).Seconds())
	e.ctx.Elapsed = now.Sub(e.start).Seconds()
	e.lastTime = now

	if e.window != nil {
		glfw.PollEvents()
	}

	e.ctx.Root.Emit(scene.EventUpdate, e.ctx)
	e.ctx.DispatchQueued()

	e.renderer.RenderFrame(e.ctx)

	if e.window != nil {
		e.window.SwapBuffers()
	}

	// Check if frame took too long (> 16ms)
	if d := time.Since(startTick); d > 16*time.Millisecond {
		log.Printf("Slow frame: %v. Top tasks: %s", d, profiling.TopN(5))
	}

	if e.input != nil {
		e.input.PostUpdate()
	}

	e.ctx.FrameCount++
	e.fps.Frame()
	e.limiter.Wait()
}

func (e *Engine) teardown() {
	e.renderer.Teardown()
	if e.window != nil {
		e.window.Destroy()
		glfw.Terminate()
		e.window = nil
	}
}
