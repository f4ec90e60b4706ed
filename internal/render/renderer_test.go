package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor/internal/gfx"
	"arbor/internal/nodes"
	"arbor/internal/scene"
)

type drawRecord struct {
	shader gfx.Shader
	mesh   gfx.Mesh
}

// recordingBackend tracks which mesh was drawn under which shader, on
// top of the no-op backend.
type recordingBackend struct {
	*gfx.HeadlessBackend
	active gfx.Shader
	draws  []drawRecord
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{HeadlessBackend: gfx.NewHeadlessBackend()}
}

func (b *recordingBackend) UseShader(s gfx.Shader) {
	b.active = s
	b.HeadlessBackend.UseShader(s)
}

func (b *recordingBackend) DrawMesh(m gfx.Mesh) {
	b.draws = append(b.draws, drawRecord{shader: b.active, mesh: m})
	b.HeadlessBackend.DrawMesh(m)
}

func buildLitScene(t *testing.T) *scene.GameContext {
	t.Helper()
	root := scene.NewScene()
	ctx := scene.NewGameContext(root)

	cam := nodes.Camera3DBuilder().WithPosition(0, 2, 10).Build()
	require.NoError(t, root.Add("camera", cam))

	sun := nodes.NewDirectionalLight()
	require.NoError(t, root.Add("sun", sun))

	lamp := nodes.PointLightBuilder().WithPosition(3, 4, 0).Build()
	require.NoError(t, root.Add("lamp", lamp))

	cube := nodes.NewModel()
	cube.Mesh = nodes.CubeMesh(1)
	require.NoError(t, root.Add("cube", cube))

	floor := nodes.NewModel()
	floor.Mesh = nodes.PlaneMesh(10)
	require.NoError(t, root.Add("floor", floor))

	return ctx
}

func newTestRenderer(b gfx.Backend) *Renderer {
	r := New(b)
	RegisterDefaultPasses(r)
	return r
}

func TestShadowPassesProduceOneRecordPerLight(t *testing.T) {
	ctx := buildLitScene(t)
	r := newTestRenderer(gfx.NewHeadlessBackend())

	r.RenderFrame(ctx)

	require.Len(t, r.DirLightData, 1)
	assert.Equal(t, int32(0), r.DirLightData[0].ShadowIndex)
	require.Len(t, r.PointLightData, 1)
	assert.Equal(t, int32(0), r.PointLightData[0].ShadowIndex)

	stats := r.Stats()
	assert.Equal(t, 2, stats.Drawables)
	assert.Equal(t, 1, stats.DirectionalLights)
	assert.Equal(t, 1, stats.PointLights)
	assert.Equal(t, 3, stats.Passes)
}

func TestMainPassDrawsEachDrawableOnceInOrder(t *testing.T) {
	ctx := buildLitScene(t)
	b := newRecordingBackend()
	r := newTestRenderer(b)

	r.RenderFrame(ctx)

	// Group draws by shader: the shadow pass renders both drawables into
	// 4 cascades, the cube pass into 6 faces, the main pass exactly once.
	byShader := map[gfx.Shader][]gfx.Mesh{}
	for _, d := range b.draws {
		byShader[d.shader] = append(byShader[d.shader], d.mesh)
	}

	counts := map[int]int{}
	for _, meshes := range byShader {
		counts[len(meshes)]++
	}
	assert.Equal(t, 1, counts[2*4], "directional shadow pass draws")
	assert.Equal(t, 1, counts[2*6], "cube shadow pass draws")
	assert.Equal(t, 1, counts[2], "main pass draws")

	// Within the main pass the two drawables appear once each, in scene
	// traversal order (cube before floor).
	for _, meshes := range byShader {
		if len(meshes) != 2 {
			continue
		}
		assert.NotEqual(t, meshes[0], meshes[1])
		assert.Less(t, uint32(meshes[0]), uint32(meshes[1]))
	}
}

func TestLightIndicesFollowTraversalOrder(t *testing.T) {
	root := scene.NewScene()
	ctx := scene.NewGameContext(root)

	holder := nodes.NewEmpty()
	first := nodes.NewPointLight()
	require.NoError(t, holder.Children().Add("first", first))
	require.NoError(t, root.Add("holder", holder))

	second := nodes.NewPointLight()
	require.NoError(t, root.Add("second", second))

	r := newTestRenderer(gfx.NewHeadlessBackend())
	r.RenderFrame(ctx)

	require.Len(t, r.PointLightData, 2)
	assert.Equal(t, int32(0), r.PointLightData[0].ShadowIndex)
	assert.Equal(t, int32(1), r.PointLightData[1].ShadowIndex)

	// Stable across frames with no mutation.
	r.RenderFrame(ctx)
	require.Len(t, r.PointLightData, 2)
	assert.Equal(t, int32(0), r.PointLightData[0].ShadowIndex)
}

func TestHeadlessFallbackRunsFullFrame(t *testing.T) {
	r := NewWithFallback(func() (gfx.Backend, error) {
		return nil, errors.New("no GPU available")
	})
	require.True(t, r.Headless())
	RegisterDefaultPasses(r)

	ctx := buildLitScene(t)
	assert.NotPanics(t, func() {
		ctx.Root.Emit(scene.EventUpdate, ctx)
		ctx.DispatchQueued()
		r.RenderFrame(ctx)
	})
}

func TestHeadlessEmptySceneIssuesNoDraws(t *testing.T) {
	b := gfx.NewHeadlessBackend()
	r := newTestRenderer(b)

	ctx := scene.NewGameContext(scene.NewScene())
	r.RenderFrame(ctx)
	assert.Equal(t, 0, b.DrawCalls)
}

func TestActiveCameraDefaultsToFirstCamera(t *testing.T) {
	root := scene.NewScene()
	ctx := scene.NewGameContext(root)

	rig := nodes.NewEmpty()
	cam := nodes.NewCamera3D()
	require.NoError(t, rig.Children().Add("cam", cam))
	require.NoError(t, root.Add("rig", rig))

	r := newTestRenderer(gfx.NewHeadlessBackend())
	r.RenderFrame(ctx)
	assert.Equal(t, "rig/cam", ctx.ActiveCameraPath())
}

func TestLightBufferEncodingLayout(t *testing.T) {
	sun := nodes.NewDirectionalLight()
	data := encodeLightBuffer([]nodes.DirectionalLightBufferData{sun.BufferData(0, [3]float32{})})
	// ivec4 header + one 320-byte record.
	assert.Len(t, data, 16+320)
	assert.Equal(t, byte(1), data[0])

	lamp := nodes.NewPointLight()
	pdata := encodeLightBuffer([]nodes.PointLightBufferData{lamp.BufferData(0, [3]float32{})})
	assert.Len(t, pdata, 16+48)
}

func TestNonShadowCastingLightSkipsDepthRender(t *testing.T) {
	root := scene.NewScene()
	ctx := scene.NewGameContext(root)

	sun := nodes.NewDirectionalLight()
	sun.CastShadow = false
	require.NoError(t, root.Add("sun", sun))

	cube := nodes.NewModel()
	cube.Mesh = nodes.CubeMesh(1)
	require.NoError(t, root.Add("cube", cube))

	b := newRecordingBackend()
	r := newTestRenderer(b)
	r.RenderFrame(ctx)

	// Only the main pass draws the cube; the record still exists with a
	// disabled shadow index.
	assert.Len(t, b.draws, 1)
	require.Len(t, r.DirLightData, 1)
	assert.Equal(t, int32(-1), r.DirLightData[0].ShadowIndex)
}
