package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// YawQuat returns the rotation around world up by yaw degrees.
func YawQuat(yawDeg float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(yawDeg), Up())
}

// ForwardFromYaw returns the horizontal forward direction for a yaw angle.
// Yaw 0 faces +Z, yaw 90 faces +X.
func ForwardFromYaw(yawDeg float32) mgl32.Vec3 {
	rad := float64(mgl32.DegToRad(yawDeg))
	return mgl32.Vec3{float32(math.Sin(rad)), 0, float32(math.Cos(rad))}
}

// RightFromYaw returns the horizontal right direction for a yaw angle.
func RightFromYaw(yawDeg float32) mgl32.Vec3 {
	rad := float64(mgl32.DegToRad(yawDeg))
	return mgl32.Vec3{float32(math.Cos(rad)), 0, -float32(math.Sin(rad))}
}
