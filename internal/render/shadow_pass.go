package render

import (
	"arbor/internal/config"
	"arbor/internal/nodes"
	"arbor/internal/profiling"
)

// ShadowPass renders directional light shadow maps. Per frame it binds
// the shared depth array framebuffer, renders every cascade of every
// directional light into the layer block owned by that light's traversal
// index, accumulates the light's buffer record at the same index, then
// uploads the records and exposes the depth array to the main shader.
type ShadowPass struct{}

// NewShadowPass returns the directional shadow stage.
func NewShadowPass() *ShadowPass { return &ShadowPass{} }

// Setup declares the depth-only shadow shader.
func (p *ShadowPass) Setup(r *Renderer) (RenderPassDescriptor, error) {
	return RenderPassDescriptor{
		Name:           "shadow",
		VertexSource:   shadowVertSrc,
		FragmentSource: shadowFragSrc,
	}, nil
}

// Draw runs the two-stage shadow protocol for directional lights.
func (p *ShadowPass) Draw(r *Renderer, pctx *RenderPassContext, frame *FrameContext) {
	defer profiling.Track("render.ShadowPass")()

	b := r.backend
	r.DirLightData = r.DirLightData[:0]

	shadowSize := int32(config.GetShadowMapSize())

	b.BindFramebuffer(r.shadowFBO)
	b.SetViewport(shadowSize, shadowSize)
	b.UseShader(pctx.Shader)

	for index, pl := range frame.dirLights {
		light := pl.light
		if light.CastShadow {
			for cascade := 0; cascade < nodes.MaxCascades; cascade++ {
				layer := int32(index*nodes.MaxCascades + cascade)
				b.CommitLayer(r.shadowFBO, r.shadowTex, layer)
				if cascade >= light.Cascades {
					continue
				}

				lightSpace := light.LightSpaceMatrix(cascade, frame.CameraPos)
				b.SetUniformMat4(pctx.Shader, "lightSpace", &lightSpace[0])

				for _, pd := range frame.Drawables {
					if m, ok := pd.Drawable.(*nodes.Model); ok && !m.CastShadow {
						continue
					}
					world := pd.World
					pd.Drawable.Draw(b, pctx.Shader, world)
				}
			}
		}
		r.DirLightData = append(r.DirLightData, light.BufferData(index, frame.CameraPos))
	}

	b.UnbindFramebuffer()

	b.SetBufferData(r.dirLightBuffer, encodeLightBuffer(r.DirLightData))
	b.BindStorageBuffer(r.dirLightBuffer, dirLightBufferSlot)
	b.BindTexture(r.shadowTex, dirShadowMapUnit)
}
