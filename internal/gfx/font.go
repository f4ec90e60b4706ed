package gfx

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph describes a single character's placement and metrics within the atlas.
type Glyph struct {
	// Pixel coordinates of the glyph in the atlas texture (top-left origin)
	AtlasX float32
	AtlasY float32
	// Glyph bitmap size in pixels
	Width  float32
	Height float32
	// Bearing (offset from baseline) in pixels
	BearingX float32
	BearingY float32
	// Advance in pixels (converted from 26.6 fixed point)
	Advance int
}

// FontAtlas holds the baked glyph texture and per-glyph metadata for the
// ASCII printable range.
type FontAtlas struct {
	Texture Texture
	Width   int
	Height  int
	Glyphs  map[rune]Glyph
}

// BuildFontAtlas parses a TrueType font and bakes the ASCII printable
// range into a texture atlas on the given backend.
func BuildFontAtlas(b Backend, fontBytes []byte, fontPixels int) (*FontAtlas, error) {
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(fontPixels),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	// Character set: ASCII printable range 32..126
	var runes []rune
	for r := rune(32); r <= rune(126); r++ {
		runes = append(runes, r)
	}

	const atlasW = 512
	const padding = 1

	// First pass: row-pack to find the required height
	maxH := 0
	for _, r := range runes {
		_, mask, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil {
			continue
		}
		if h := mask.Bounds().Dy(); h > maxH {
			maxH = h
		}
	}
	if maxH == 0 {
		maxH = fontPixels
	}
	rowH := maxH + padding
	offsetX, atlasH := 0, rowH
	for _, r := range runes {
		dr, mask, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil || dr.Dx() == 0 {
			continue
		}
		if offsetX+dr.Dx()+padding > atlasW {
			atlasH += rowH
			offsetX = 0
		}
		offsetX += dr.Dx() + padding
	}

	atlasImg := image.NewAlpha(image.Rect(0, 0, atlasW, atlasH))
	glyphs := make(map[rune]Glyph)

	// Second pass: render each glyph into the atlas and record metrics
	offsetX, offsetY, rowHeight := 0, 0, 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil {
			continue
		}
		gw, gh := dr.Dx(), dr.Dy()
		adv := int(math.Round(float64(advance) / 64.0))
		if gw == 0 || gh == 0 {
			// Space or non-drawable glyph; still record advance
			glyphs[r] = Glyph{Advance: adv}
			continue
		}

		if offsetX+gw > atlasW {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}

		dstRect := image.Rect(offsetX, offsetY, offsetX+gw, offsetY+gh)
		draw.Draw(atlasImg, dstRect, mask, maskp, draw.Src)

		glyphs[r] = Glyph{
			AtlasX:   float32(offsetX),
			AtlasY:   float32(offsetY),
			Width:    float32(gw),
			Height:   float32(gh),
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  adv,
		}

		offsetX += gw + padding
		if gh > rowHeight {
			rowHeight = gh
		}
	}

	// Expand the alpha mask to white RGBA so the backend only needs one
	// texture format.
	rgba := make([]byte, atlasW*atlasH*4)
	for i, a := range atlasImg.Pix {
		rgba[i*4+0] = 0xFF
		rgba[i*4+1] = 0xFF
		rgba[i*4+2] = 0xFF
		rgba[i*4+3] = a
	}

	return &FontAtlas{
		Texture: b.CreateTexture(int32(atlasW), int32(atlasH), rgba),
		Width:   atlasW,
		Height:  atlasH,
		Glyphs:  glyphs,
	}, nil
}

// Measure returns the approximate width and height in pixels the text
// will occupy at the given scale.
func (a *FontAtlas) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		g, ok := a.Glyphs[r]
		if !ok {
			g = a.Glyphs[' ']
		}
		width += float32(g.Advance) * scale
		if g.Height*scale > maxH {
			maxH = g.Height * scale
		}
	}
	return width, maxH
}
