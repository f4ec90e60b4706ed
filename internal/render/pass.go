// Package render composes the per-frame GPU pipeline: shadow passes
// first, writing per-light depth layers and buffer records, then the
// main pass consuming them. Passes run in registration order against a
// gfx.Backend and never touch a graphics API directly.
package render

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/gfx"
	"arbor/internal/nodes"
	"arbor/internal/scene"
)

//go:embed shaders/main.vert
var mainVertSrc string

//go:embed shaders/main.frag
var mainFragSrc string

//go:embed shaders/shadow.vert
var shadowVertSrc string

//go:embed shaders/shadow.frag
var shadowFragSrc string

//go:embed shaders/cube.vert
var cubeVertSrc string

//go:embed shaders/cube.frag
var cubeFragSrc string

//go:embed shaders/ui.vert
var uiVertSrc string

//go:embed shaders/ui.frag
var uiFragSrc string

// RenderPassDescriptor declares what a pass needs compiled: a named
// shader program. Produced once by Setup at registration time.
type RenderPassDescriptor struct {
	Name           string
	VertexSource   string
	FragmentSource string
}

// RenderPassContext pairs a descriptor with its compiled shader. Built
// once per pass at registration and cached for the renderer's lifetime;
// pipeline compilation is never repeated per frame.
type RenderPassContext struct {
	Descriptor RenderPassDescriptor
	Shader     gfx.Shader
}

// RenderPass is one stage of the frame pipeline. Setup runs once at
// registration; Draw runs once per frame in registration order. A pass
// must not assume anything about other passes except through renderer
// state shared by name (framebuffers, light buffers).
type RenderPass interface {
	Setup(r *Renderer) (RenderPassDescriptor, error)
	Draw(r *Renderer, pctx *RenderPassContext, frame *FrameContext)
}

// PlacedDrawable pairs a drawable with the world matrix composed during
// scene traversal.
type PlacedDrawable struct {
	Drawable scene.Drawable
	World    mgl32.Mat4
}

type placedDirLight struct {
	light *nodes.DirectionalLight
	world mgl32.Mat4
}

type placedPointLight struct {
	light *nodes.PointLight
	world mgl32.Mat4
}

type placedCamera struct {
	camera *nodes.Camera3D
	world  mgl32.Mat4
	path   string
}

// FrameContext is the flattened scene snapshot every pass of one frame
// consumes: drawables, lights and the active camera, all in pre-order
// traversal order. Built once per frame before the first pass; light
// slice indices are the shadow map layer indices.
type FrameContext struct {
	Game *scene.GameContext

	Camera      *nodes.Camera3D
	CameraWorld mgl32.Mat4
	CameraPos   mgl32.Vec3
	ViewProj    mgl32.Mat4

	Drawables   []PlacedDrawable
	dirLights   []placedDirLight
	pointLights []placedPointLight
	uiTexts     []*nodes.UIText
}
