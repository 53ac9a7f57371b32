package staticworld

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/physics"
)

// contactSkin widens overlap tests so touching surfaces keep reporting.
const contactSkin = 0.02

// KinematicBody is a velocity-driven capsule. It carries no forces of its
// own; whoever owns it sets the velocity and calls Advance once per tick.
type KinematicBody struct {
	id    physics.ColliderID
	layer uint
	pos   mgl32.Vec3
	rot   mgl32.Quat
	vel   mgl32.Vec3

	radius float32
	height float32
}

// NewBody registers a capsule body in the world. The position is the foot
// point; radius and height bound the capsule for queries against it.
func (w *World) NewBody(pos mgl32.Vec3, radius, height float32, layer uint) *KinematicBody {
	b := &KinematicBody{
		id:     w.allocID(),
		layer:  layer,
		pos:    pos,
		rot:    mgl32.QuatIdent(),
		radius: radius,
		height: height,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// ID returns the body's collider id, used to exclude it from its own
// queries.
func (b *KinematicBody) ID() physics.ColliderID {
	return b.id
}

func (b *KinematicBody) Position() mgl32.Vec3     { return b.pos }
func (b *KinematicBody) SetPosition(p mgl32.Vec3) { b.pos = p }
func (b *KinematicBody) Rotation() mgl32.Quat     { return b.rot }
func (b *KinematicBody) SetRotation(q mgl32.Quat) { b.rot = q }
func (b *KinematicBody) Velocity() mgl32.Vec3     { return b.vel }
func (b *KinematicBody) SetVelocity(v mgl32.Vec3) { b.vel = v }

// AddImpulse folds a velocity change into the current velocity.
func (b *KinematicBody) AddImpulse(v mgl32.Vec3) {
	b.vel = b.vel.Add(v)
}

// SetDimensions resizes the capsule, e.g. after a crouch.
func (b *KinematicBody) SetDimensions(radius, height float32) {
	b.radius = radius
	b.height = height
}

// Advance integrates the velocity over one tick.
func (b *KinematicBody) Advance(dt float32) {
	b.pos = b.pos.Add(b.vel.Mul(dt))
}

func (b *KinematicBody) aabb() (mgl32.Vec3, mgl32.Vec3) {
	min := mgl32.Vec3{b.pos.X() - b.radius, b.pos.Y(), b.pos.Z() - b.radius}
	max := mgl32.Vec3{b.pos.X() + b.radius, b.pos.Y() + b.height, b.pos.Z() + b.radius}
	return min, max
}

// samplePoints are sphere centers along the capsule axis used for overlap
// tests: above the step zone, at the waist and at the head.
func (b *KinematicBody) samplePoints() [3]mgl32.Vec3 {
	low := b.radius + (b.height-2*b.radius)*0.25
	mid := b.height / 2
	top := b.height - b.radius
	return [3]mgl32.Vec3{
		b.pos.Add(mgl32.Vec3{0, low, 0}),
		b.pos.Add(mgl32.Vec3{0, mid, 0}),
		b.pos.Add(mgl32.Vec3{0, top, 0}),
	}
}

// ContactsFor reports current overlaps of a body against the static boxes
// and the other bodies, deepest contact per collider. Terrain is handled
// by the ground sensor and never reported here.
func (w *World) ContactsFor(body *KinematicBody) []physics.Contact {
	var out []physics.Contact
	samples := body.samplePoints()

	for i := range w.boxes {
		bx := &w.boxes[i]
		best := physics.Contact{}
		bestDepth := float32(0)
		for _, p := range samples {
			closest := clampPoint(p, bx.min, bx.max)
			delta := p.Sub(closest)
			d := delta.Len()
			if d == 0 || d >= body.radius+contactSkin {
				continue
			}
			if depth := body.radius + contactSkin - d; depth > bestDepth {
				bestDepth = depth
				best = physics.Contact{
					Point:    closest,
					Normal:   delta.Mul(1 / d),
					Collider: bx.id,
				}
			}
		}
		if bestDepth > 0 {
			out = append(out, best)
		}
	}

	for _, other := range w.bodies {
		if other == body {
			continue
		}
		if body.pos.Y() > other.pos.Y()+other.height || other.pos.Y() > body.pos.Y()+body.height {
			continue
		}
		delta := mgl32.Vec3{body.pos.X() - other.pos.X(), 0, body.pos.Z() - other.pos.Z()}
		d := delta.Len()
		reach := body.radius + other.radius + contactSkin
		if d == 0 || d >= reach {
			continue
		}
		out = append(out, physics.Contact{
			Point:    other.pos.Add(delta.Mul(0.5)),
			Normal:   delta.Mul(1 / d),
			Collider: other.id,
			Dynamic:  true,
		})
	}

	return out
}

func clampPoint(p, min, max mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(p.X(), min.X(), max.X()),
		mgl32.Clamp(p.Y(), min.Y(), max.Y()),
		mgl32.Clamp(p.Z(), min.Z(), max.Z()),
	}
}
