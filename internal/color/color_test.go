package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom8bitRGBA(t *testing.T) {
	c := From8bitRGBA(255, 128, 64, 32)
	assert.Equal(t, float32(1.0), c.R)
	assert.InDelta(t, 128.0/255.0, c.G, 1e-6)
	assert.InDelta(t, 64.0/255.0, c.B, 1e-6)
	assert.InDelta(t, 32.0/255.0, c.A, 1e-6)
}

func TestFrom8bitRGBDefaultsOpaque(t *testing.T) {
	c := From8bitRGB(10, 20, 30)
	assert.Equal(t, float32(1.0), c.A)
}

func TestFromHexWithoutAlpha(t *testing.T) {
	c := FromHex(0xFF8040)
	assert.Equal(t, float32(1.0), c.R)
	assert.InDelta(t, 128.0/255.0, c.G, 1e-6)
	assert.InDelta(t, 64.0/255.0, c.B, 1e-6)
	assert.Equal(t, float32(1.0), c.A)
}

func TestFromHexWithAlpha(t *testing.T) {
	c := FromHex(0xFF8040A0)
	assert.Equal(t, float32(1.0), c.R)
	assert.InDelta(t, 128.0/255.0, c.G, 1e-6)
	assert.InDelta(t, 64.0/255.0, c.B, 1e-6)
	assert.InDelta(t, 160.0/255.0, c.A, 1e-6)
}

func TestFromHexWhiteEqualsNormalized(t *testing.T) {
	assert.Equal(t, FromNormalized(1, 1, 1, 1), FromHex(0xFFFFFF))
}

func TestVec4Conversion(t *testing.T) {
	c := Color{0.5, 0.25, 0.75, 1.0}
	v := c.Vec4()
	assert.Equal(t, float32(0.5), v.X())
	assert.Equal(t, float32(0.25), v.Y())
	assert.Equal(t, float32(0.75), v.Z())
	assert.Equal(t, float32(1.0), v.W())
}
