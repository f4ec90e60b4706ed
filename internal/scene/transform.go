package scene

import "github.com/go-gl/mathgl/mgl32"

// NodeTransform holds a node's local translation, rotation and scale and
// caches the composed local matrix. The world matrix is the product of the
// ancestor chain's local matrices, composed top-down during traversal
// (see Scene.Traverse and WorldTransform).
type NodeTransform struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	matrix mgl32.Mat4
	dirty  bool
}

// NewNodeTransform returns an identity transform (zero position, identity
// rotation, unit scale).
func NewNodeTransform() *NodeTransform {
	return &NodeTransform{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		matrix:   mgl32.Ident4(),
	}
}

// Position returns the local translation.
func (t *NodeTransform) Position() mgl32.Vec3 { return t.position }

// Rotation returns the local rotation.
func (t *NodeTransform) Rotation() mgl32.Quat { return t.rotation }

// Scale returns the local scale.
func (t *NodeTransform) Scale() mgl32.Vec3 { return t.scale }

// SetPosition replaces the local translation.
func (t *NodeTransform) SetPosition(x, y, z float32) {
	t.position = mgl32.Vec3{x, y, z}
	t.dirty = true
}

// SetRotation replaces the local rotation.
func (t *NodeTransform) SetRotation(q mgl32.Quat) {
	t.rotation = q
	t.dirty = true
}

// SetScale replaces the local scale.
func (t *NodeTransform) SetScale(x, y, z float32) {
	t.scale = mgl32.Vec3{x, y, z}
	t.dirty = true
}

// Translate moves the node in world-space axes.
func (t *NodeTransform) Translate(delta mgl32.Vec3) {
	t.position = t.position.Add(delta)
	t.dirty = true
}

// TranslateLocal moves the node along its own rotated axes.
func (t *NodeTransform) TranslateLocal(delta mgl32.Vec3) {
	t.position = t.position.Add(t.rotation.Rotate(delta))
	t.dirty = true
}

// Rotate applies a rotation of angle degrees around the given axis, on top
// of the current rotation.
func (t *NodeTransform) Rotate(axis mgl32.Vec3, angleDeg float32) {
	q := mgl32.QuatRotate(mgl32.DegToRad(angleDeg), axis.Normalize())
	t.rotation = q.Mul(t.rotation).Normalize()
	t.dirty = true
}

// RotateEuler applies XYZ Euler rotations in degrees on top of the current
// rotation.
func (t *NodeTransform) RotateEuler(xDeg, yDeg, zDeg float32) {
	q := mgl32.AnglesToQuat(
		mgl32.DegToRad(xDeg),
		mgl32.DegToRad(yDeg),
		mgl32.DegToRad(zDeg),
		mgl32.XYZ,
	)
	t.rotation = q.Mul(t.rotation).Normalize()
	t.dirty = true
}

// Forward returns the -Z axis rotated by the node's rotation.
func (t *NodeTransform) Forward() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Right returns the +X axis rotated by the node's rotation.
func (t *NodeTransform) Right() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// Up returns the +Y axis rotated by the node's rotation.
func (t *NodeTransform) Up() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Matrix returns the local transform matrix, recomputing it only after a
// mutation.
func (t *NodeTransform) Matrix() mgl32.Mat4 {
	if t.dirty {
		translate := mgl32.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
		rotate := t.rotation.Mat4()
		scale := mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
		t.matrix = translate.Mul4(rotate).Mul4(scale)
		t.dirty = false
	}
	return t.matrix
}

// WorldTransform composes a parent world matrix with a local transform.
func WorldTransform(parent mgl32.Mat4, local *NodeTransform) mgl32.Mat4 {
	return parent.Mul4(local.Matrix())
}
