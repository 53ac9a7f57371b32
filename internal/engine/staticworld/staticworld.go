// Package staticworld is a reference collision world for driving movement
// without a full physics engine: axis-aligned boxes, an optional
// heightfield terrain and kinematic capsule bodies. Casts and contact
// queries implement the physics interfaces the sensor and mover consume.
package staticworld

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/physics"
)

// box is a static axis-aligned collider on one collision layer.
type box struct {
	id    physics.ColliderID
	layer uint
	min   mgl32.Vec3
	max   mgl32.Vec3
}

// World holds the static scene and the kinematic bodies moving through
// it. It is driven from a single simulation goroutine.
type World struct {
	nextID physics.ColliderID
	boxes  []box

	field      *Heightfield
	fieldID    physics.ColliderID
	fieldLayer uint

	bodies []*KinematicBody
}

// New returns an empty world.
func New() *World {
	return &World{nextID: 1}
}

func (w *World) allocID() physics.ColliderID {
	id := w.nextID
	w.nextID++
	return id
}

// AddBox adds a static box collider. Swapped corners are reordered.
func (w *World) AddBox(min, max mgl32.Vec3, layer uint) physics.ColliderID {
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	id := w.allocID()
	w.boxes = append(w.boxes, box{id: id, layer: layer, min: min, max: max})
	return id
}

// SetTerrain installs the heightfield terrain, replacing any previous one.
func (w *World) SetTerrain(f *Heightfield, layer uint) physics.ColliderID {
	w.field = f
	w.fieldLayer = layer
	if w.fieldID == 0 {
		w.fieldID = w.allocID()
	}
	return w.fieldID
}

// Terrain returns the installed heightfield, nil without one.
func (w *World) Terrain() *Heightfield {
	return w.field
}

// Raycast finds the nearest surface along the ray within maxDist.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDist float32, f physics.Filter) physics.Hit {
	return w.cast(origin, dir, 0, maxDist, f)
}

// Spherecast sweeps a sphere along the direction. The reported distance is
// the center travel plus the radius, matching the ray result on surfaces
// square to the cast. Boxes are expanded by the radius, so corners are
// treated as square rather than rounded.
func (w *World) Spherecast(origin, dir mgl32.Vec3, radius, maxDist float32, f physics.Filter) physics.Hit {
	return w.cast(origin, dir, radius, maxDist, f)
}

// Capsulecast sweeps a capsule given by its two sphere centers. It is
// approximated by sphere casts from both ends, keeping the nearest hit.
func (w *World) Capsulecast(p1, p2 mgl32.Vec3, radius float32, dir mgl32.Vec3, maxDist float32, f physics.Filter) physics.Hit {
	best := w.cast(p1, dir, radius, maxDist, f)
	if other := w.cast(p2, dir, radius, maxDist, f); other.OK && (!best.OK || other.Distance < best.Distance) {
		best = other
	}
	return best
}

// cast is the shared sweep: radius 0 is a plain ray.
func (w *World) cast(origin, dir mgl32.Vec3, radius, maxDist float32, f physics.Filter) physics.Hit {
	if dir.LenSqr() == 0 || maxDist <= 0 {
		return physics.Hit{}
	}
	dir = dir.Normalize()

	// A swept sphere may travel its center at most maxDist-radius before
	// the reported distance would pass maxDist.
	travel := maxDist - radius
	if travel <= 0 {
		return physics.Hit{}
	}

	best := physics.Hit{}
	better := func(h physics.Hit) {
		if h.OK && (!best.OK || h.Distance < best.Distance) {
			best = h
		}
	}

	for i := range w.boxes {
		b := &w.boxes[i]
		if !f.Mask.Contains(b.layer) || b.id == f.Ignore {
			continue
		}
		min, max := b.min, b.max
		if radius > 0 {
			min = min.Sub(mgl32.Vec3{radius, radius, radius})
			max = max.Add(mgl32.Vec3{radius, radius, radius})
		}
		if t, normal, ok := intersectBox(origin, dir, min, max); ok && t <= travel {
			better(physics.Hit{
				OK:       true,
				Distance: t + radius,
				Point:    origin.Add(dir.Mul(t)),
				Normal:   normal,
				Collider: b.id,
			})
		}
	}

	if w.field != nil && f.Mask.Contains(w.fieldLayer) && w.fieldID != f.Ignore {
		// The terrain is treated as locally flat under the sphere, so the
		// plain ray distance already follows the distance convention.
		better(w.field.hit(origin, dir, maxDist, w.fieldID))
	}

	if !f.ExcludeDynamic {
		for _, b := range w.bodies {
			if !f.Mask.Contains(b.layer) || b.id == f.Ignore {
				continue
			}
			min, max := b.aabb()
			if radius > 0 {
				min = min.Sub(mgl32.Vec3{radius, radius, radius})
				max = max.Add(mgl32.Vec3{radius, radius, radius})
			}
			if t, normal, ok := intersectBox(origin, dir, min, max); ok && t <= travel {
				better(physics.Hit{
					OK:       true,
					Distance: t + radius,
					Point:    origin.Add(dir.Mul(t)),
					Normal:   normal,
					Collider: b.id,
				})
			}
		}
	}

	return best
}

// intersectBox is a slab test returning the entry distance and face
// normal. A ray starting inside reports the exit face instead.
func intersectBox(origin, dir mgl32.Vec3, min, max mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	axisIn, axisOut := -1, -1

	for i := 0; i < 3; i++ {
		if dir[i] != 0 {
			t1 := (min[i] - origin[i]) / dir[i]
			t2 := (max[i] - origin[i]) / dir[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
				axisIn = i
			}
			if t2 < tmax {
				tmax = t2
				axisOut = i
			}
		} else if origin[i] < min[i] || origin[i] > max[i] {
			return 0, mgl32.Vec3{}, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, mgl32.Vec3{}, false
	}

	if tmin < 0 {
		// Started inside: the exit face, outward.
		return tmax, axisNormal(axisOut, sign(dir[axisOut])), true
	}
	return tmin, axisNormal(axisIn, -sign(dir[axisIn])), true
}

func axisNormal(axis int, s float32) mgl32.Vec3 {
	var n mgl32.Vec3
	if axis >= 0 {
		n[axis] = s
	}
	return n
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
