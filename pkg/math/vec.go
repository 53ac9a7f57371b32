// Package math provides movement math helpers on top of mgl32 vectors.
package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Up returns the world up axis. Bodies rotate around it only.
func Up() mgl32.Vec3 {
	return mgl32.Vec3{0, 1, 0}
}

// ExtractDot returns the component of v along dir.
func ExtractDot(v, dir mgl32.Vec3) mgl32.Vec3 {
	if dir.LenSqr() == 0 {
		return mgl32.Vec3{}
	}
	if dir.LenSqr() != 1 {
		dir = dir.Normalize()
	}
	return dir.Mul(v.Dot(dir))
}

// RemoveDot returns v with its component along dir removed.
func RemoveDot(v, dir mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(ExtractDot(v, dir))
}

// ProjectOnPlane projects v onto the plane with the given normal.
func ProjectOnPlane(v, normal mgl32.Vec3) mgl32.Vec3 {
	if normal.LenSqr() == 0 {
		return v
	}
	return RemoveDot(v, normal)
}

// Horizontal returns v with its vertical component zeroed.
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), 0, v.Z()}
}

// ClampMagnitude returns v shortened to at most max length.
func ClampMagnitude(v mgl32.Vec3, max float32) mgl32.Vec3 {
	if max <= 0 {
		return mgl32.Vec3{}
	}
	sq := v.LenSqr()
	if sq <= max*max {
		return v
	}
	return v.Mul(max / float32(math.Sqrt(float64(sq))))
}

// MoveTowards moves current toward target by at most maxDelta, never overshooting.
func MoveTowards(current, target mgl32.Vec3, maxDelta float32) mgl32.Vec3 {
	delta := target.Sub(current)
	dist := delta.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(delta.Mul(maxDelta / dist))
}

// Approach moves current toward target by at most maxDelta, never overshooting.
func Approach(current, target, maxDelta float32) float32 {
	if current < target {
		current += maxDelta
		if current > target {
			return target
		}
		return current
	}
	current -= maxDelta
	if current < target {
		return target
	}
	return current
}

// AngleDeg returns the unsigned angle between a and b in degrees.
func AngleDeg(a, b mgl32.Vec3) float32 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := mgl32.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return mgl32.RadToDeg(float32(math.Acos(float64(cos))))
}

// SlopeAngleDeg returns the angle of a surface normal from world up in degrees.
func SlopeAngleDeg(normal mgl32.Vec3) float32 {
	return AngleDeg(normal, Up())
}
