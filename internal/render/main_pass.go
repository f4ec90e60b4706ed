package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/config"
	"arbor/internal/gfx"
	"arbor/internal/profiling"
)

// MainPass draws the lit color frame. It assumes the shadow passes have
// already run this frame and reads their light buffers and depth arrays
// through the shared binding slots. A UI stage follows the 3D drawables,
// rendering screen-space text with depth testing off.
type MainPass struct {
	uiShader gfx.Shader
}

// NewMainPass returns the color stage.
func NewMainPass() *MainPass { return &MainPass{} }

// Setup declares the lighting shader and compiles the UI overlay shader
// alongside it.
func (p *MainPass) Setup(r *Renderer) (RenderPassDescriptor, error) {
	uiShader, err := r.backend.CompileShader("ui", uiVertSrc, uiFragSrc)
	if err != nil {
		return RenderPassDescriptor{}, err
	}
	p.uiShader = uiShader

	return RenderPassDescriptor{
		Name:           "main",
		VertexSource:   mainVertSrc,
		FragmentSource: mainFragSrc,
	}, nil
}

// Draw renders every drawable once in traversal order, then the UI
// overlay.
func (p *MainPass) Draw(r *Renderer, pctx *RenderPassContext, frame *FrameContext) {
	defer profiling.Track("render.MainPass")()

	b := r.backend
	b.UnbindFramebuffer()
	b.SetViewport(r.width, r.height)
	b.Clear(0.05, 0.07, 0.1, 1.0)

	b.UseShader(pctx.Shader)
	b.BindUniformBlock(pctx.Shader, "DirectionalLights", dirLightBufferSlot)
	b.BindUniformBlock(pctx.Shader, "PointLights", pointLightBufferSlot)
	b.BindStorageBuffer(r.dirLightBuffer, dirLightBufferSlot)
	b.BindStorageBuffer(r.pointLightBuffer, pointLightBufferSlot)
	b.SetUniformInt(pctx.Shader, "dirShadowMaps", dirShadowMapUnit)
	b.SetUniformInt(pctx.Shader, "cubeShadowMaps", cubeShadowMapUnit)
	b.BindTexture(r.shadowTex, dirShadowMapUnit)
	b.BindTexture(r.cubeTex, cubeShadowMapUnit)

	viewProj := frame.ViewProj
	b.SetUniformMat4(pctx.Shader, "viewProj", &viewProj[0])
	b.SetUniformVec3(pctx.Shader, "viewPos", frame.CameraPos.X(), frame.CameraPos.Y(), frame.CameraPos.Z())
	b.SetUniformFloat(pctx.Shader, "ambientLight", config.GetAmbientLight())
	biasFactor, biasOffset := config.GetShadowBias()
	b.SetUniformFloat(pctx.Shader, "shadowBiasFactor", biasFactor)
	b.SetUniformFloat(pctx.Shader, "shadowBiasOffset", biasOffset)

	for _, pd := range frame.Drawables {
		world := pd.World
		pd.Drawable.Draw(b, pctx.Shader, world)
	}

	p.drawUI(r, frame)
}

// drawUI renders screen-space text nodes with an orthographic projection
// and depth testing off.
func (p *MainPass) drawUI(r *Renderer, frame *FrameContext) {
	if len(frame.uiTexts) == 0 {
		return
	}
	b := r.backend

	b.SetDepthTest(false)
	b.UseShader(p.uiShader)
	projection := mgl32.Ortho(0, float32(r.width), float32(r.height), 0, -1, 1)
	b.SetUniformMat4(p.uiShader, "projection", &projection[0])

	for _, text := range frame.uiTexts {
		text.DrawUI(b, p.uiShader)
	}

	b.SetDepthTest(true)
}
