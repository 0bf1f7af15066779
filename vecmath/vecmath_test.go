package vecmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}

	assert.Equal(t, Vec2{4, 6}, AddVec2(a, b))
	assert.Equal(t, Vec2{-2, -2}, SubVec2(a, b))
	assert.Equal(t, Vec2{3, 8}, MulVec2(a, b))
	assert.Equal(t, Vec2{2, 4}, ScaleVec2(a, 2))
}

func TestVec2DivInverse(t *testing.T) {
	v := Vec2{2, 4}
	assert.Equal(t, Vec2{5, 2.5}, ScaleVec2Inv(10, v))
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	assert.Equal(t, Vec3{5, 7, 9}, AddVec3(a, b))
	assert.Equal(t, Vec3{4, 10, 18}, MulVec3(a, b))
}

func TestVec4Arithmetic(t *testing.T) {
	a := Vec4{1, 2, 3, 4}
	b := Vec4{1, 1, 1, 1}

	assert.Equal(t, Vec4{2, 3, 4, 5}, AddVec4(a, b))
	assert.Equal(t, Vec4{0.5, 1, 1.5, 2}, DivVec4(a, b.Mul(2)))
}

func TestQuatIdentityIsNoRotation(t *testing.T) {
	id := QuatIdentity()
	rotated := MulQuat(id, id)
	assert.True(t, EqualQuat(id, rotated))
}

func TestScaleQuatInvIsComponentwiseReciprocal(t *testing.T) {
	q := Quat{W: 2, V: Vec3{4, 8, 1}}
	got := ScaleQuatInv(8, q)

	assert.InDelta(t, 4, got.W, 1e-6)
	assert.InDelta(t, 2, got.V[0], 1e-6)
	assert.InDelta(t, 1, got.V[1], 1e-6)
	assert.InDelta(t, 8, got.V[2], 1e-6)
}

func TestQuatFromAxisAngleRotatesVectorByNinetyDegrees(t *testing.T) {
	// a 90 degree rotation about Z should send +X to +Y
	q := QuatFromAxisAngle(Vec3{0, 0, 1}, 90)
	rotated := q.Rotate(Vec3{1, 0, 0})

	assert.InDelta(t, 0, rotated[0], 1e-5)
	assert.InDelta(t, 1, rotated[1], 1e-5)
}
