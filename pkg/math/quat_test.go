package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	if math.Abs(float64(n.Norm()-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", n.Norm())
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotate(t *testing.T) {
	// 90 degrees around Z maps +X to +Y.
	q := QuatFromAxisAngle(Vec3{Z: 1}, float32(math.Pi/2))
	v := q.Rotate(Vec3{X: 1})

	if math.Abs(float64(v.X)) > 1e-6 || math.Abs(float64(v.Y-1)) > 1e-6 || math.Abs(float64(v.Z)) > 1e-6 {
		t.Errorf("Rotate: expected (0,1,0), got (%v,%v,%v)", v.X, v.Y, v.Z)
	}
}

func TestQuatMulConjugate(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 1}.Normalize(), 0.7)
	p := q.Mul(q.Conjugate())

	if math.Abs(float64(p.W-1)) > 1e-6 || math.Abs(float64(p.X)) > 1e-6 ||
		math.Abs(float64(p.Y)) > 1e-6 || math.Abs(float64(p.Z)) > 1e-6 {
		t.Errorf("q * q' should be identity, got (%v,%v,%v,%v)", p.X, p.Y, p.Z, p.W)
	}
}
