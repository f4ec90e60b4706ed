package nodes

import (
	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/color"
	"arbor/internal/scene"
)

// PointLight is an omnidirectional light with cube map shadows. Its
// world position comes from the node transform; the six face matrices
// are recomputed only when that position changes.
type PointLight struct {
	scene.NodeBase

	Color      color.Color
	Intensity  float32
	CastShadow bool

	// FarPlane bounds the light's reach and the shadow depth range.
	FarPlane float32

	lastPos mgl32.Vec3
	lastFar float32
	faceVPs [6]mgl32.Mat4
	hasVPs  bool
}

// NewPointLight returns a white point light with a 50 unit reach.
func NewPointLight() *PointLight {
	return &PointLight{
		NodeBase:   scene.NewNodeBase(),
		Color:      color.White,
		Intensity:  1,
		CastShadow: true,
		FarPlane:   50,
	}
}

// PointLightBuilder stages a PointLight node.
func PointLightBuilder() *scene.NodeBuilder[*PointLight] {
	return scene.NewBuilder(NewPointLight)
}

// PointLightBufferData mirrors the GLSL-side struct byte for byte
// (std140: vec4-sized fields only).
type PointLightBufferData struct {
	Color       [4]float32
	Position    [4]float32 // vec3 padded to vec4
	Intensity   float32
	ShadowIndex int32
	FarPlane    float32
	_           float32 // pad to 16 bytes
}

// cube face orientations in OpenGL cube map order: +X -X +Y -Y +Z -Z.
var cubeFaces = [6]struct {
	dir mgl32.Vec3
	up  mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// FaceViewProjections returns the six 90 degree view-projections for the
// light's world position, one per cube face. Cached until the position
// or the far plane changes.
func (l *PointLight) FaceViewProjections(worldPos mgl32.Vec3) [6]mgl32.Mat4 {
	if l.hasVPs && worldPos.ApproxEqual(l.lastPos) && l.FarPlane == l.lastFar {
		return l.faceVPs
	}

	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, l.FarPlane)
	for i, face := range cubeFaces {
		view := mgl32.LookAtV(worldPos, worldPos.Add(face.dir), face.up)
		l.faceVPs[i] = proj.Mul4(view)
	}
	l.lastPos = worldPos
	l.lastFar = l.FarPlane
	l.hasVPs = true
	return l.faceVPs
}

// BufferData assembles the GPU record for this light at the given shadow
// index (its traversal-order position among point lights). The cube
// shadow pass renders into layers shadowIndex*6 .. shadowIndex*6+5.
func (l *PointLight) BufferData(shadowIndex int, worldPos mgl32.Vec3) PointLightBufferData {
	c := l.Color
	data := PointLightBufferData{
		Color:       [4]float32{c.R, c.G, c.B, c.A},
		Position:    [4]float32{worldPos.X(), worldPos.Y(), worldPos.Z(), 1},
		Intensity:   l.Intensity,
		ShadowIndex: int32(shadowIndex),
		FarPlane:    l.FarPlane,
	}
	if !l.CastShadow {
		data.ShadowIndex = -1
	}
	return data
}
