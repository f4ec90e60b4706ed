package nodes

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"arbor/internal/scene"
)

// Camera3D is a perspective camera node. The main pass renders from the
// camera recorded as active on the GameContext; the first camera to
// receive Ready claims the slot if none is set.
type Camera3D struct {
	scene.NodeBase

	fov  float32
	near float32
	far  float32

	fovTween *gween.Tween
}

// NewCamera3D returns a camera with a 70 degree field of view and a
// 0.1-1000 clip range.
func NewCamera3D() *Camera3D {
	return &Camera3D{
		NodeBase: scene.NewNodeBase(),
		fov:      70,
		near:     0.1,
		far:      1000,
	}
}

// Camera3DBuilder stages a Camera3D node.
func Camera3DBuilder() *scene.NodeBuilder[*Camera3D] {
	return scene.NewBuilder(NewCamera3D)
}

// FOV returns the current vertical field of view in degrees.
func (c *Camera3D) FOV() float32 { return c.fov }

// SetFOV sets the field of view immediately, cancelling any easing.
func (c *Camera3D) SetFOV(deg float32) {
	c.fov = deg
	c.fovTween = nil
}

// EaseFOVTo eases the field of view to the target over the given
// duration in seconds, for zoom effects.
func (c *Camera3D) EaseFOVTo(deg, duration float32) {
	c.fovTween = gween.New(c.fov, deg, duration, ease.OutQuad)
}

// SetClipRange sets the near and far clip planes.
func (c *Camera3D) SetClipRange(near, far float32) {
	c.near = near
	c.far = far
}

// Near returns the near clip plane.
func (c *Camera3D) Near() float32 { return c.near }

// Far returns the far clip plane.
func (c *Camera3D) Far() float32 { return c.far }

// Step advances the FOV easing by dt seconds. The renderer calls this
// once per frame.
func (c *Camera3D) Step(dt float32) {
	if c.fovTween == nil {
		return
	}
	value, done := c.fovTween.Update(dt)
	c.fov = value
	if done {
		c.fovTween = nil
	}
}

// Projection returns the perspective projection for the given aspect
// ratio.
func (c *Camera3D) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, c.near, c.far)
}

// View returns the view matrix for the camera's world transform.
func (c *Camera3D) View(world mgl32.Mat4) mgl32.Mat4 {
	pos := world.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	forward := world.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	up := world.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	return mgl32.LookAtV(pos, pos.Add(forward), up)
}

// ViewProjection composes projection and view for the camera's world
// transform and an aspect ratio.
func (c *Camera3D) ViewProjection(world mgl32.Mat4, aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View(world))
}
