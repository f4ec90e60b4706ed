package render

import (
	"bytes"
	"encoding/binary"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/config"
	"arbor/internal/debug"
	"arbor/internal/gfx"
	"arbor/internal/nodes"
	"arbor/internal/profiling"
	"arbor/internal/scene"
)

// Light capacity per kind; the shader-side arrays are sized to match.
const (
	MaxDirectionalLights = 10
	MaxPointLights       = 10
)

// Uniform block binding slots shared between shadow and main passes.
const (
	dirLightBufferSlot   = 0
	pointLightBufferSlot = 1
)

// Texture units the main pass reads shadow maps from.
const (
	dirShadowMapUnit  = 1
	cubeShadowMapUnit = 2
)

// FrameStats counts work done in the most recent frame.
type FrameStats struct {
	Drawables         int
	DirectionalLights int
	PointLights       int
	Passes            int
}

type registeredPass struct {
	pass RenderPass
	pctx *RenderPassContext
}

// Renderer owns the GPU backend state shared across passes (shadow
// framebuffers, light buffers, compiled pass shaders) and runs the
// registered passes in order each frame.
type Renderer struct {
	backend  gfx.Backend
	headless bool

	passes []registeredPass

	shadowFBO gfx.Framebuffer
	shadowTex gfx.Texture
	cubeFBO   gfx.Framebuffer
	cubeTex   gfx.Texture

	dirLightBuffer   gfx.Buffer
	pointLightBuffer gfx.Buffer

	// Per-frame light records in shadow index order, inspectable after a
	// frame (the main pass uploads them verbatim).
	DirLightData   []nodes.DirectionalLightBufferData
	PointLightData []nodes.PointLightBufferData

	width  int32
	height int32

	stats FrameStats
}

// New creates a renderer on the given backend and allocates the shared
// shadow resources. Framebuffer allocation failure is fatal: there is no
// defined recovery once a context exists but depth targets cannot be
// built.
func New(backend gfx.Backend) *Renderer {
	r := &Renderer{
		backend: backend,
		width:   1280,
		height:  720,
	}
	if _, ok := backend.(*gfx.HeadlessBackend); ok {
		r.headless = true
	}

	shadowSize := int32(config.GetShadowMapSize())
	cubeSize := int32(config.GetCubeShadowMapSize())

	var err error
	r.shadowFBO, r.shadowTex, err = backend.CreateDepthMapArray(shadowSize, MaxDirectionalLights*nodes.MaxCascades)
	if err != nil {
		log.Panicf("renderer: %v", err)
	}
	r.cubeFBO, r.cubeTex, err = backend.CreateDepthCubeMapArray(cubeSize, MaxPointLights)
	if err != nil {
		log.Panicf("renderer: %v", err)
	}

	r.dirLightBuffer = backend.CreateStorageBuffer()
	r.pointLightBuffer = backend.CreateStorageBuffer()
	return r
}

// NewWithFallback tries the given backend constructor and degrades to
// the headless no-op backend if it fails, so the engine keeps running
// without a visible window.
func NewWithFallback(create func() (gfx.Backend, error)) *Renderer {
	backend, err := create()
	if err != nil {
		log.Printf("renderer: GPU backend init failed, running headless: %v", err)
		backend = gfx.NewHeadlessBackend()
	}
	return New(backend)
}

// Backend returns the active backend.
func (r *Renderer) Backend() gfx.Backend { return r.backend }

// Headless reports whether the renderer degraded to the no-op backend.
func (r *Renderer) Headless() bool { return r.headless }

// Stats returns the counters of the most recent frame.
func (r *Renderer) Stats() FrameStats { return r.stats }

// SetViewportSize records the window framebuffer size for the main pass.
func (r *Renderer) SetViewportSize(width, height int32) {
	if width > 0 && height > 0 {
		r.width = width
		r.height = height
	}
}

// AddPass runs the pass's one-time Setup, compiles its shader and caches
// the resulting context. Shader compilation failure is fatal.
func (r *Renderer) AddPass(p RenderPass) {
	desc, err := p.Setup(r)
	if err != nil {
		log.Panicf("renderer: pass setup failed: %v", err)
	}
	shader, err := r.backend.CompileShader(desc.Name, desc.VertexSource, desc.FragmentSource)
	if err != nil {
		log.Panicf("renderer: %v", err)
	}
	r.passes = append(r.passes, registeredPass{
		pass: p,
		pctx: &RenderPassContext{Descriptor: desc, Shader: shader},
	})
}

// RegisterDefaultPasses wires the standard pipeline: directional
// shadows, then point light shadows, then the main color pass.
func RegisterDefaultPasses(r *Renderer) {
	r.AddPass(NewShadowPass())
	r.AddPass(NewCubeShadowPass())
	r.AddPass(NewMainPass())
}

// RenderFrame flattens the scene once and runs every registered pass in
// order against the same snapshot.
func (r *Renderer) RenderFrame(ctx *scene.GameContext) {
	defer profiling.Track("render.RenderFrame")()

	frame := r.buildFrameContext(ctx)

	r.stats = FrameStats{
		Drawables:         len(frame.Drawables),
		DirectionalLights: len(frame.dirLights),
		PointLights:       len(frame.pointLights),
		Passes:            len(r.passes),
	}

	for _, reg := range r.passes {
		reg.pass.Draw(r, reg.pctx, frame)
	}
}

// Teardown releases backend resources.
func (r *Renderer) Teardown() {
	r.backend.Teardown()
}

// buildFrameContext traverses the scene pre-order, composing world
// matrices and bucketing nodes by capability. Slice order is traversal
// order; for lights that order fixes buffer and shadow layer indices for
// the whole frame.
func (r *Renderer) buildFrameContext(ctx *scene.GameContext) *FrameContext {
	frame := &FrameContext{Game: ctx}

	var cameras []placedCamera
	r.collectLevel(ctx.Root, "", mgl32.Ident4(), frame, &cameras)

	if len(frame.dirLights) > MaxDirectionalLights {
		debug.PrintOnce("renderer: directional light count exceeds capacity, extra lights ignored")
		frame.dirLights = frame.dirLights[:MaxDirectionalLights]
	}
	if len(frame.pointLights) > MaxPointLights {
		debug.PrintOnce("renderer: point light count exceeds capacity, extra lights ignored")
		frame.pointLights = frame.pointLights[:MaxPointLights]
	}

	// The first camera to enter the tree claims the active slot if the
	// context has none recorded.
	if ctx.ActiveCameraPath() == "" && len(cameras) > 0 {
		ctx.SetActiveCamera(cameras[0].path)
	}
	for _, pc := range cameras {
		if pc.path == ctx.ActiveCameraPath() {
			frame.Camera = pc.camera
			frame.CameraWorld = pc.world
			break
		}
	}

	if frame.Camera != nil {
		frame.Camera.Step(ctx.Delta)
		frame.CameraPos = frame.CameraWorld.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
		frame.ViewProj = frame.Camera.ViewProjection(frame.CameraWorld, ctx.AspectRatio)
	} else {
		debug.PrintOnce("renderer: no active camera, rendering with identity view")
		frame.ViewProj = mgl32.Ident4()
	}
	return frame
}

func (r *Renderer) collectLevel(s *scene.Scene, prefix string, parent mgl32.Mat4, frame *FrameContext, cameras *[]placedCamera) {
	for _, name := range s.Names() {
		n, ok := s.NodeAt(name)
		if !ok {
			continue
		}
		world := scene.WorldTransform(parent, n.Transform())
		path := name
		if prefix != "" {
			path = prefix + "/" + name
		}

		if d, ok := n.(scene.Drawable); ok {
			frame.Drawables = append(frame.Drawables, PlacedDrawable{Drawable: d, World: world})
		}
		switch v := n.(type) {
		case *nodes.DirectionalLight:
			frame.dirLights = append(frame.dirLights, placedDirLight{light: v, world: world})
		case *nodes.PointLight:
			frame.pointLights = append(frame.pointLights, placedPointLight{light: v, world: world})
		case *nodes.Camera3D:
			*cameras = append(*cameras, placedCamera{camera: v, world: world, path: path})
		case *nodes.UIText:
			frame.uiTexts = append(frame.uiTexts, v)
		}

		r.collectLevel(n.Children(), path, world, frame, cameras)
	}
}

// encodeLightBuffer lays out a std140 uniform block: an ivec4 header
// carrying the record count, then the fixed-layout records.
func encodeLightBuffer[T any](records []T) []byte {
	var buf bytes.Buffer
	header := [4]int32{int32(len(records)), 0, 0, 0}
	_ = binary.Write(&buf, binary.LittleEndian, header)
	for i := range records {
		_ = binary.Write(&buf, binary.LittleEndian, records[i])
	}
	return buf.Bytes()
}
