// Package sensor implements the single-probe cast a mover uses to find
// ground and ceilings. A sensor fires at most one physics query per Cast
// call and keeps the result until the next one.
package sensor

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/physics"
)

// CastDirection selects one of the six axis-aligned probe directions,
// relative to the body's orientation.
type CastDirection int

// Probe directions.
const (
	Down CastDirection = iota
	Up
	Forward
	Backward
	Left
	Right
)

// CastType selects the probe shape.
type CastType int

// Probe shapes. Ray is the cheap variant; Sphere picks up ledges and
// slopes the thin ray slips past.
const (
	Ray CastType = iota
	Sphere
)

// Sensor probes the world from a local-space origin on a body. Results are
// stale between casts; before the first cast the sensor reports no hit.
type Sensor struct {
	world physics.World

	origin    mgl32.Vec3 // local space, rotated with the body
	direction CastDirection
	length    float32
	castType  CastType
	radius    float32
	filter    physics.Filter

	hit physics.Hit
}

// New creates a downward ray sensor probing everything.
func New(world physics.World) *Sensor {
	return &Sensor{
		world:     world,
		direction: Down,
		filter:    physics.DefaultFilter(),
	}
}

// SetCastOrigin sets the probe origin in the body's local space.
func (s *Sensor) SetCastOrigin(local mgl32.Vec3) {
	s.origin = local
}

// SetCastDirection sets the probe direction.
func (s *Sensor) SetCastDirection(d CastDirection) {
	s.direction = d
}

// SetCastLength sets the probe reach.
func (s *Sensor) SetCastLength(length float32) {
	s.length = length
}

// CastLength returns the current probe reach.
func (s *Sensor) CastLength() float32 {
	return s.length
}

// UseRay switches the sensor to a ray probe.
func (s *Sensor) UseRay() {
	s.castType = Ray
	s.radius = 0
}

// UseSphere switches the sensor to a sphere probe with the given radius.
func (s *Sensor) UseSphere(radius float32) {
	s.castType = Sphere
	s.radius = radius
}

// SetFilter sets which colliders the probe may hit.
func (s *Sensor) SetFilter(f physics.Filter) {
	s.filter = f
}

// Cast fires the probe from the body's current pose. Exactly one world
// query runs per call; the result replaces the previous one.
func (s *Sensor) Cast(body physics.Body) {
	rot := body.Rotation()
	origin := body.Position().Add(rot.Rotate(s.origin))
	dir := rot.Rotate(localDirection(s.direction))

	switch s.castType {
	case Sphere:
		s.hit = s.world.Spherecast(origin, dir, s.radius, s.length, s.filter)
	default:
		s.hit = s.world.Raycast(origin, dir, s.length, s.filter)
	}
}

// HasHit reports whether the last cast found anything.
func (s *Sensor) HasHit() bool {
	return s.hit.OK
}

// Distance returns the hit distance along the cast direction.
func (s *Sensor) Distance() float32 {
	return s.hit.Distance
}

// Normal returns the surface normal of the last hit, zero when none.
func (s *Sensor) Normal() mgl32.Vec3 {
	return s.hit.Normal
}

// Point returns the world-space contact point of the last hit.
func (s *Sensor) Point() mgl32.Vec3 {
	return s.hit.Point
}

// Collider returns the collider the last cast hit, zero when none.
func (s *Sensor) Collider() physics.ColliderID {
	return s.hit.Collider
}

func localDirection(d CastDirection) mgl32.Vec3 {
	switch d {
	case Up:
		return mgl32.Vec3{0, 1, 0}
	case Forward:
		return mgl32.Vec3{0, 0, 1}
	case Backward:
		return mgl32.Vec3{0, 0, -1}
	case Left:
		return mgl32.Vec3{-1, 0, 0}
	case Right:
		return mgl32.Vec3{1, 0, 0}
	default:
		return mgl32.Vec3{0, -1, 0}
	}
}
