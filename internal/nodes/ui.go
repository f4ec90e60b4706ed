package nodes

import (
	"arbor/internal/color"
	"arbor/internal/gfx"
	"arbor/internal/scene"
)

// UIText is a screen-space text overlay node. It is drawn by the main
// pass's UI stage with depth testing off, after all 3D drawables.
type UIText struct {
	scene.NodeBase

	Atlas *gfx.FontAtlas
	Color color.Color
	Scale float32
	// X, Y position the text baseline in pixels, top-left origin.
	X, Y float32

	text     string
	dirty    bool
	handle   gfx.Mesh
	uploaded bool
}

// NewUIText returns an empty white text node at the origin.
func NewUIText() *UIText {
	return &UIText{
		NodeBase: scene.NewNodeBase(),
		Color:    color.White,
		Scale:    1,
	}
}

// UITextBuilder stages a UIText node.
func UITextBuilder() *scene.NodeBuilder[*UIText] {
	return scene.NewBuilder(NewUIText)
}

// Text returns the current string.
func (t *UIText) Text() string { return t.text }

// SetText replaces the string; the glyph mesh is rebuilt on next draw.
func (t *UIText) SetText(s string) {
	if s == t.text {
		return
	}
	t.text = s
	t.dirty = true
}

// DrawUI renders the text against the UI shader. The caller has already
// bound the shader, the ortho projection and disabled depth testing.
func (t *UIText) DrawUI(b gfx.Backend, shader gfx.Shader) {
	if t.Atlas == nil || t.text == "" {
		return
	}
	if t.dirty || !t.uploaded {
		if t.uploaded {
			b.DeleteMesh(t.handle)
		}
		vertices, indices := t.buildGlyphMesh()
		if len(indices) == 0 {
			t.uploaded = false
			t.dirty = false
			return
		}
		t.handle = b.UploadMesh(vertices, indices)
		t.uploaded = true
		t.dirty = false
	}

	c := t.Color
	b.SetUniformVec4(shader, "textColor", c.R, c.G, c.B, c.A)
	b.SetUniformInt(shader, "glyphAtlas", 0)
	b.BindTexture(t.Atlas.Texture, 0)
	b.DrawMesh(t.handle)
}

// buildGlyphMesh lays out one quad per glyph in pixel coordinates, using
// the shared vertex layout (normal channel unused).
func (t *UIText) buildGlyphMesh() ([]float32, []uint32) {
	var vertices []float32
	var indices []uint32

	penX := t.X
	for _, r := range t.text {
		g, ok := t.Atlas.Glyphs[r]
		if !ok {
			g = t.Atlas.Glyphs[' ']
		}
		if g.Width > 0 && g.Height > 0 {
			xPos := penX + g.BearingX*t.Scale
			yPos := t.Y - g.BearingY*t.Scale
			w := g.Width * t.Scale
			h := g.Height * t.Scale

			u0 := g.AtlasX / float32(t.Atlas.Width)
			v0 := g.AtlasY / float32(t.Atlas.Height)
			u1 := (g.AtlasX + g.Width) / float32(t.Atlas.Width)
			v1 := (g.AtlasY + g.Height) / float32(t.Atlas.Height)

			base := uint32(len(vertices) / gfx.VertexStride)
			vertices = append(vertices,
				xPos, yPos, 0, 0, 0, 0, u0, v0,
				xPos+w, yPos, 0, 0, 0, 0, u1, v0,
				xPos+w, yPos+h, 0, 0, 0, 0, u1, v1,
				xPos, yPos+h, 0, 0, 0, 0, u0, v1,
			)
			indices = append(indices,
				base, base+1, base+2,
				base, base+2, base+3,
			)
		}
		penX += float32(g.Advance) * t.Scale
	}
	return vertices, indices
}
