// Package color provides linear RGBA colors for lights, materials and
// clear values. Channels are stored normalized in the 0.0-1.0 range;
// constructors exist for 8-bit and hex inputs.
package color

import "github.com/go-gl/mathgl/mgl32"

// Color is a linear color with normalized rgba channels.
type Color struct {
	R float32
	G float32
	B float32
	A float32
}

// Common colors.
var (
	Black   = Color{0, 0, 0, 1}
	Red     = Color{1, 0, 0, 1}
	Green   = Color{0, 1, 0, 1}
	Blue    = Color{0, 0, 1, 1}
	Yellow  = Color{1, 1, 0, 1}
	Cyan    = Color{0, 1, 1, 1}
	Magenta = Color{1, 0, 1, 1}
	White   = Color{1, 1, 1, 1}
)

// FromNormalized creates a color from channels already in the 0.0-1.0 range.
func FromNormalized(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// From8bitRGBA creates a color from 8-bit channels (0-255).
func From8bitRGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// From8bitRGB creates an opaque color from 8-bit channels (0-255).
func From8bitRGB(r, g, b uint8) Color {
	return From8bitRGBA(r, g, b, 255)
}

// FromHex creates a color from a packed hex value. Values that fit in 24
// bits are treated as 0xRRGGBB with alpha defaulting to 1.0; larger values
// are treated as 0xRRGGBBAA.
func FromHex(hex uint32) Color {
	if hex <= 0xFFFFFF {
		return From8bitRGBA(uint8(hex>>16), uint8(hex>>8), uint8(hex), 255)
	}
	return From8bitRGBA(uint8(hex>>24), uint8(hex>>16), uint8(hex>>8), uint8(hex))
}

// Vec4 returns the color as an rgba vector for uniform upload.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Vec3 returns the rgb channels, dropping alpha.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// Scaled returns the color with rgb multiplied by the given intensity.
// Alpha is left untouched.
func (c Color) Scaled(intensity float32) Color {
	return Color{c.R * intensity, c.G * intensity, c.B * intensity, c.A}
}
