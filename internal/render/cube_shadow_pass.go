package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/config"
	"arbor/internal/profiling"
)

// CubeShadowPass renders point light shadow cube maps. Each light owns
// six consecutive faces starting at traversalIndex*6 in the shared cube
// array; the buffer record lands at the same traversal index.
type CubeShadowPass struct{}

// NewCubeShadowPass returns the point light shadow stage.
func NewCubeShadowPass() *CubeShadowPass { return &CubeShadowPass{} }

// Setup declares the linear-depth cube shadow shader.
func (p *CubeShadowPass) Setup(r *Renderer) (RenderPassDescriptor, error) {
	return RenderPassDescriptor{
		Name:           "cube-shadow",
		VertexSource:   cubeVertSrc,
		FragmentSource: cubeFragSrc,
	}, nil
}

// Draw runs the two-stage shadow protocol for point lights.
func (p *CubeShadowPass) Draw(r *Renderer, pctx *RenderPassContext, frame *FrameContext) {
	defer profiling.Track("render.CubeShadowPass")()

	b := r.backend
	r.PointLightData = r.PointLightData[:0]

	cubeSize := int32(config.GetCubeShadowMapSize())

	b.BindFramebuffer(r.cubeFBO)
	b.SetViewport(cubeSize, cubeSize)
	b.UseShader(pctx.Shader)

	for index, pl := range frame.pointLights {
		light := pl.light
		worldPos := pl.world.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()

		if light.CastShadow {
			faceVPs := light.FaceViewProjections(worldPos)
			b.SetUniformVec3(pctx.Shader, "lightPos", worldPos.X(), worldPos.Y(), worldPos.Z())
			b.SetUniformFloat(pctx.Shader, "farPlane", light.FarPlane)

			for face := 0; face < 6; face++ {
				layer := int32(index*6 + face)
				b.CommitLayer(r.cubeFBO, r.cubeTex, layer)
				b.SetUniformMat4(pctx.Shader, "faceVP", &faceVPs[face][0])

				for _, pd := range frame.Drawables {
					world := pd.World
					pd.Drawable.Draw(b, pctx.Shader, world)
				}
			}
		}
		r.PointLightData = append(r.PointLightData, light.BufferData(index, worldPos))
	}

	b.UnbindFramebuffer()

	b.SetBufferData(r.pointLightBuffer, encodeLightBuffer(r.PointLightData))
	b.BindStorageBuffer(r.pointLightBuffer, pointLightBufferSlot)
	b.BindTexture(r.cubeTex, cubeShadowMapUnit)
}
