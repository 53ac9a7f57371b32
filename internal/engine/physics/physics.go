// Package physics defines the query surface the movement core needs from a
// host physics engine. The host injects implementations at setup; the core
// never reaches for a global world.
package physics

import "github.com/go-gl/mathgl/mgl32"

// ColliderID identifies a collider inside the host engine. Zero means none.
type ColliderID uint64

// LayerMask selects which collision layers a query may hit.
type LayerMask uint32

// AllLayers matches every collision layer.
const AllLayers = LayerMask(0xFFFFFFFF)

// Contains reports whether the mask includes the given layer.
func (m LayerMask) Contains(layer uint) bool {
	return m&(1<<layer) != 0
}

// Layer returns a mask holding a single layer.
func Layer(layer uint) LayerMask {
	return 1 << layer
}

// Filter narrows a query to the colliders it may hit.
type Filter struct {
	Mask           LayerMask  // layers the query may hit
	Ignore         ColliderID // collider excluded from results, usually the agent's own
	ExcludeDynamic bool       // skip moving bodies, for stand-up clearance checks
}

// DefaultFilter matches everything.
func DefaultFilter() Filter {
	return Filter{Mask: AllLayers}
}

// Hit is the result of a single geometric query. The zero value means the
// query found nothing; callers check OK before reading the rest.
type Hit struct {
	OK       bool
	Distance float32    // from the cast origin, measured along the cast direction
	Point    mgl32.Vec3 // world-space contact point
	Normal   mgl32.Vec3 // world-space surface normal at the contact
	Collider ColliderID
}

// Contact is a collision touch the host engine reports for the agent's body
// after its last step.
type Contact struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3 // points away from the touched surface
	Collider ColliderID
	Dynamic  bool // the touched collider belongs to a moving body, not static geometry
}

// World answers geometric queries against the host scene. Each call performs
// exactly one query; a failed or empty query returns the zero Hit.
type World interface {
	// Raycast traces a ray and returns the nearest hit within maxDist.
	Raycast(origin, dir mgl32.Vec3, maxDist float32, f Filter) Hit
	// Spherecast sweeps a sphere along dir. Distance is the center travel
	// plus the radius, so on surfaces square to the cast axis ray and
	// sphere results agree.
	Spherecast(origin, dir mgl32.Vec3, radius, maxDist float32, f Filter) Hit
	// Capsulecast sweeps a capsule given by its two sphere centers along dir.
	Capsulecast(p1, p2 mgl32.Vec3, radius float32, dir mgl32.Vec3, maxDist float32, f Filter) Hit
}

// Body is the agent's kinematic rigid body inside the host engine. The mover
// moves it exclusively through velocity; position writes are reserved for
// small penetration nudges.
type Body interface {
	// Position returns the body origin in world space.
	Position() mgl32.Vec3
	// SetPosition teleports the body origin.
	SetPosition(mgl32.Vec3)
	// Rotation returns the body orientation.
	Rotation() mgl32.Quat
	// SetRotation sets the body orientation.
	SetRotation(mgl32.Quat)
	// Velocity returns the velocity applied on the last step.
	Velocity() mgl32.Vec3
	// SetVelocity sets the velocity for the next step.
	SetVelocity(mgl32.Vec3)
	// AddImpulse applies an instantaneous velocity change on top of the
	// current velocity.
	AddImpulse(mgl32.Vec3)
}
