package nodes

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/color"
	"arbor/internal/scene"
)

// MaxCascades is the number of shadow cascades a directional light can
// carry; the GLSL struct is sized to match.
const MaxCascades = 4

// cascadeLambda blends the logarithmic and uniform split schemes.
const cascadeLambda = 0.7

// shadowNear is the near plane used for cascade splits.
const shadowNear = 0.1

// DirectionalLight is a sun-style light with optional cascaded shadow
// maps. Direction is in world space; the light has no position.
type DirectionalLight struct {
	scene.NodeBase

	Color      color.Color
	Intensity  float32
	Direction  mgl32.Vec3
	CastShadow bool

	// ShadowDistance is how far from the camera shadows reach; it is the
	// far plane of the last cascade.
	ShadowDistance float32
	// Cascades is the number of shadow map cascades, 1..MaxCascades.
	Cascades int
}

// NewDirectionalLight returns a white downward light with four cascades.
func NewDirectionalLight() *DirectionalLight {
	return &DirectionalLight{
		NodeBase:       scene.NewNodeBase(),
		Color:          color.White,
		Intensity:      1,
		Direction:      mgl32.Vec3{0, -1, 0},
		CastShadow:     true,
		ShadowDistance: 100,
		Cascades:       MaxCascades,
	}
}

// DirectionalLightBuilder stages a DirectionalLight node.
func DirectionalLightBuilder() *scene.NodeBuilder[*DirectionalLight] {
	return scene.NewBuilder(NewDirectionalLight)
}

// DirectionalLightBufferData mirrors the GLSL-side struct byte for byte
// (std140: vec4-sized fields only). Field order and padding must not
// change independently of the shader.
type DirectionalLightBufferData struct {
	Color              [4]float32
	Direction          [4]float32 // vec3 padded to vec4
	Intensity          float32
	ShadowIndex        int32
	CascadeCount       int32
	FarPlane           float32
	CascadeSplits      [4]float32
	LightSpaceMatrices [MaxCascades][16]float32
}

// CascadeSplits returns the far distance of each cascade, blending the
// logarithmic and uniform schemes with cascadeLambda.
func (l *DirectionalLight) CascadeSplits() [4]float32 {
	count := l.cascadeCount()
	var splits [4]float32
	near, far := float64(shadowNear), float64(l.ShadowDistance)
	for i := 1; i <= count; i++ {
		p := float64(i) / float64(count)
		logSplit := near * math.Pow(far/near, p)
		uniSplit := near + (far-near)*p
		splits[i-1] = float32(cascadeLambda*logSplit + (1-cascadeLambda)*uniSplit)
	}
	// Unused cascade slots repeat the far plane so shader-side cascade
	// selection never overruns.
	for i := count; i < MaxCascades; i++ {
		splits[i] = l.ShadowDistance
	}
	return splits
}

// LightSpaceMatrix returns the view-projection used to render the given
// cascade's shadow map, an ortho box centered on the camera position and
// sized to the cascade's far distance.
func (l *DirectionalLight) LightSpaceMatrix(cascade int, cameraPos mgl32.Vec3) mgl32.Mat4 {
	splits := l.CascadeSplits()
	radius := splits[cascade]

	dir := l.Direction
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()

	up := mgl32.Vec3{0, 1, 0}
	if absf(dir.Dot(up)) > 0.99 {
		up = mgl32.Vec3{1, 0, 0}
	}

	eye := cameraPos.Sub(dir.Mul(radius * 2))
	view := mgl32.LookAtV(eye, cameraPos, up)
	proj := mgl32.Ortho(-radius, radius, -radius, radius, shadowNear, radius*4)
	return proj.Mul4(view)
}

// BufferData assembles the GPU record for this light at the given shadow
// index (its traversal-order position among directional lights).
func (l *DirectionalLight) BufferData(shadowIndex int, cameraPos mgl32.Vec3) DirectionalLightBufferData {
	c := l.Color
	data := DirectionalLightBufferData{
		Color:        [4]float32{c.R, c.G, c.B, c.A},
		Direction:    [4]float32{l.Direction.X(), l.Direction.Y(), l.Direction.Z(), 0},
		Intensity:    l.Intensity,
		ShadowIndex:  int32(shadowIndex),
		CascadeCount: int32(l.cascadeCount()),
		FarPlane:     l.ShadowDistance,
	}
	if !l.CastShadow {
		data.ShadowIndex = -1
	}
	data.CascadeSplits = l.CascadeSplits()
	for i := 0; i < l.cascadeCount(); i++ {
		m := l.LightSpaceMatrix(i, cameraPos)
		copy(data.LightSpaceMatrices[i][:], m[:])
	}
	return data
}

func (l *DirectionalLight) cascadeCount() int {
	if l.Cascades < 1 {
		return 1
	}
	if l.Cascades > MaxCascades {
		return MaxCascades
	}
	return l.Cascades
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
