package nodes

import (
	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/color"
	"arbor/internal/gfx"
	"arbor/internal/scene"
)

// Mesh holds interleaved vertex data (position, normal, uv) and triangle
// indices, CPU-side until a backend uploads it.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// Model is a drawable node: a mesh with a flat color material.
type Model struct {
	scene.NodeBase

	Mesh       *Mesh
	Color      color.Color
	CastShadow bool

	handle   gfx.Mesh
	uploaded bool
}

// NewModel returns a model with no mesh and a white material.
func NewModel() *Model {
	return &Model{
		NodeBase:   scene.NewNodeBase(),
		Color:      color.White,
		CastShadow: true,
	}
}

// ModelBuilder stages a Model node.
func ModelBuilder() *scene.NodeBuilder[*Model] {
	return scene.NewBuilder(NewModel)
}

// EnsureUploaded uploads the mesh on first use. Re-entrant per backend
// lifetime; a model with no mesh stays un-uploaded.
func (m *Model) EnsureUploaded(b gfx.Backend) bool {
	if m.uploaded {
		return true
	}
	if m.Mesh == nil || len(m.Mesh.Indices) == 0 {
		return false
	}
	m.handle = b.UploadMesh(m.Mesh.Vertices, m.Mesh.Indices)
	m.uploaded = true
	return true
}

// Draw issues one indexed draw of the model against the active shader.
func (m *Model) Draw(b gfx.Backend, shader gfx.Shader, world mgl32.Mat4) {
	if !m.EnsureUploaded(b) {
		return
	}
	b.SetUniformMat4(shader, "model", &world[0])
	c := m.Color
	b.SetUniformVec4(shader, "objectColor", c.R, c.G, c.B, c.A)
	b.DrawMesh(m.handle)
}

// CubeMesh builds a unit cube scaled by size, centered at the origin.
func CubeMesh(size float32) *Mesh {
	h := size / 2
	type face struct {
		normal  [3]float32
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	mesh := &Mesh{}
	for _, f := range faces {
		base := uint32(len(mesh.Vertices) / gfx.VertexStride)
		for i, corner := range f.corners {
			mesh.Vertices = append(mesh.Vertices,
				corner[0], corner[1], corner[2],
				f.normal[0], f.normal[1], f.normal[2],
				uvs[i][0], uvs[i][1],
			)
		}
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	return mesh
}

// PlaneMesh builds a flat XZ plane of the given extent, facing +Y.
func PlaneMesh(size float32) *Mesh {
	h := size / 2
	return &Mesh{
		Vertices: []float32{
			-h, 0, h, 0, 1, 0, 0, 0,
			h, 0, h, 0, 1, 0, 1, 0,
			h, 0, -h, 0, 1, 0, 1, 1,
			-h, 0, -h, 0, 1, 0, 0, 1,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
