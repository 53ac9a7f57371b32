package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestForwardFromYaw(t *testing.T) {
	tests := []struct {
		yaw  float32
		want mgl32.Vec3
	}{
		{0, mgl32.Vec3{0, 0, 1}},
		{90, mgl32.Vec3{1, 0, 0}},
		{180, mgl32.Vec3{0, 0, -1}},
		{-90, mgl32.Vec3{-1, 0, 0}},
	}
	for _, tt := range tests {
		got := ForwardFromYaw(tt.yaw)
		if !approxVec(got, tt.want, 1e-5) {
			t.Errorf("ForwardFromYaw(%v) = %v, want %v", tt.yaw, got, tt.want)
		}
	}
}

func TestRightFromYawIsOrthogonal(t *testing.T) {
	for _, yaw := range []float32{0, 33, 90, 215} {
		fwd := ForwardFromYaw(yaw)
		right := RightFromYaw(yaw)
		dot := fwd.Dot(right)
		if dot < -1e-5 || dot > 1e-5 {
			t.Errorf("ForwardFromYaw(%v).Dot(RightFromYaw(%v)) = %v, want 0", yaw, yaw, dot)
		}
	}
}

func TestYawQuatMatchesForward(t *testing.T) {
	for _, yaw := range []float32{0, 45, 90, 270} {
		got := YawQuat(yaw).Rotate(mgl32.Vec3{0, 0, 1})
		want := ForwardFromYaw(yaw)
		if !approxVec(got, want, 1e-5) {
			t.Errorf("YawQuat(%v).Rotate(+Z) = %v, want %v", yaw, got, want)
		}
	}
}
