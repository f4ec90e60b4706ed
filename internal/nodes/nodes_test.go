package nodes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor/internal/color"
	"arbor/internal/gfx"
	"arbor/internal/scene"
)

func TestBuilderProducesConfiguredModel(t *testing.T) {
	m := ModelBuilder().
		WithPosition(0, 3, 0).
		Build()
	m.Mesh = CubeMesh(1)
	m.Color = color.Red

	assert.Equal(t, mgl32.Vec3{0, 3, 0}, m.Transform().Position())
	assert.True(t, m.CastShadow)
}

func TestContainerCarriesPayload(t *testing.T) {
	type health struct{ HP int }

	c := ContainerBuilder(health{HP: 20}).Build()
	assert.Equal(t, 20, c.Payload.HP)

	root := scene.NewScene()
	require.NoError(t, root.Add("player", c))
	got, ok := scene.Get[*Container[health]](root, "player")
	require.True(t, ok)
	assert.Equal(t, 20, got.Payload.HP)
}

func TestCubeMeshShape(t *testing.T) {
	m := CubeMesh(2)
	assert.Len(t, m.Vertices, 24*gfx.VertexStride)
	assert.Len(t, m.Indices, 36)
}

func TestModelDrawIssuesOneCall(t *testing.T) {
	b := gfx.NewHeadlessBackend()
	m := NewModel()
	m.Mesh = CubeMesh(1)

	m.Draw(b, 1, mgl32.Ident4())
	m.Draw(b, 1, mgl32.Ident4())
	assert.Equal(t, 2, b.DrawCalls)
}

func TestModelWithoutMeshDrawsNothing(t *testing.T) {
	b := gfx.NewHeadlessBackend()
	m := NewModel()
	m.Draw(b, 1, mgl32.Ident4())
	assert.Equal(t, 0, b.DrawCalls)
}

func TestCascadeSplitsMonotonic(t *testing.T) {
	l := NewDirectionalLight()
	l.ShadowDistance = 100

	splits := l.CascadeSplits()
	prev := float32(0)
	for _, s := range splits {
		assert.Greater(t, s, prev)
		prev = s
	}
	assert.InDelta(t, 100.0, splits[MaxCascades-1], 1e-3)
}

func TestDirectionalLightBufferData(t *testing.T) {
	l := NewDirectionalLight()
	l.Color = color.Red
	l.Intensity = 1.5
	l.Direction = mgl32.Vec3{0, -1, -1}

	data := l.BufferData(2, mgl32.Vec3{})
	assert.Equal(t, [4]float32{1, 0, 0, 1}, data.Color)
	assert.Equal(t, int32(2), data.ShadowIndex)
	assert.Equal(t, int32(MaxCascades), data.CascadeCount)
	assert.Equal(t, float32(1.5), data.Intensity)

	l.CastShadow = false
	assert.Equal(t, int32(-1), l.BufferData(2, mgl32.Vec3{}).ShadowIndex)
}

func TestPointLightFaceMatricesCachedUntilMove(t *testing.T) {
	l := NewPointLight()

	pos := mgl32.Vec3{1, 2, 3}
	first := l.FaceViewProjections(pos)
	second := l.FaceViewProjections(pos)
	assert.Equal(t, first, second)

	moved := l.FaceViewProjections(mgl32.Vec3{4, 2, 3})
	assert.NotEqual(t, first[0], moved[0])
}

func TestPointLightFarPlaneChangeInvalidatesFaceMatrices(t *testing.T) {
	l := NewPointLight()

	pos := mgl32.Vec3{1, 2, 3}
	near := l.FaceViewProjections(pos)

	l.FarPlane = 200
	far := l.FaceViewProjections(pos)
	assert.NotEqual(t, near[0], far[0], "projections must follow the new far plane")

	// And the rebuilt set is cached again.
	assert.Equal(t, far, l.FaceViewProjections(pos))
}

func TestPointLightBufferDataUsesWorldPosition(t *testing.T) {
	l := NewPointLight()
	l.Intensity = 2

	data := l.BufferData(0, mgl32.Vec3{7, 8, 9})
	assert.Equal(t, [4]float32{7, 8, 9, 1}, data.Position)
	assert.Equal(t, int32(0), data.ShadowIndex)
	assert.Equal(t, float32(50), data.FarPlane)
}

func TestCameraFOVEasing(t *testing.T) {
	c := NewCamera3D()
	require.Equal(t, float32(70), c.FOV())

	c.EaseFOVTo(30, 1)
	c.Step(0.5)
	mid := c.FOV()
	assert.Less(t, mid, float32(70))
	assert.Greater(t, mid, float32(30))

	c.Step(1)
	assert.InDelta(t, 30.0, c.FOV(), 1e-3)
}

func TestCameraViewLooksAlongForward(t *testing.T) {
	c := NewCamera3D()
	world := mgl32.Translate3D(0, 0, 10)

	view := c.View(world)
	// A point in front of the camera lands on the -Z axis in view space.
	p := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -10.0, p.Z(), 1e-4)
	assert.InDelta(t, 0.0, p.X(), 1e-4)
}

func TestCollectGathersLightsInTraversalOrder(t *testing.T) {
	root := scene.NewScene()
	sun := NewDirectionalLight()
	lamp1 := NewPointLight()
	lamp2 := NewPointLight()

	holder := NewEmpty()
	require.NoError(t, holder.Children().Add("lamp1", lamp1))
	require.NoError(t, root.Add("holder", holder))
	require.NoError(t, root.Add("sun", sun))
	require.NoError(t, root.Add("lamp2", lamp2))

	points := scene.Collect[*PointLight](root)
	require.Len(t, points, 2)
	assert.Same(t, lamp1, points[0])
	assert.Same(t, lamp2, points[1])

	suns := scene.Collect[*DirectionalLight](root)
	require.Len(t, suns, 1)
	assert.Same(t, sun, suns[0])
}
