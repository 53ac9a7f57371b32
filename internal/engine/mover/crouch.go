package mover

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/physics"
	"github.com/Faultbox/stride/pkg/math"
)

// Height interpolation stops once within this distance of the target.
const crouchSnapTolerance = 0.01

// crouchTransition interpolates the capsule height over a bounded duration.
// At most one transition runs at a time; a new toggle supersedes it.
type crouchTransition struct {
	active  bool
	from    float32
	to      float32
	elapsed float32
}

// ToggleCrouch flips between crouched and standing. Standing up is refused
// when there is no headroom, in which case nothing changes and false is
// returned. A successful toggle starts the height transition and reports
// true.
func (m *Mover) ToggleCrouch() bool {
	if m.crouching {
		if !m.canStandUp() {
			return false
		}
		m.crouching = false
		m.beginHeightTransition(m.s.Height)
		return true
	}

	m.crouching = true
	m.beginHeightTransition(m.s.Height * m.s.CrouchFraction)
	if m.s.CrouchImpulse > 0 {
		m.body.AddImpulse(math.Up().Mul(-m.s.CrouchImpulse))
	}
	return true
}

// IsCrouching reports the crouch state, which flips immediately on a
// successful toggle even while the height is still in transition.
func (m *Mover) IsCrouching() bool {
	return m.crouching
}

// InCrouchTransition reports whether the capsule height is still moving
// toward its target.
func (m *Mover) InCrouchTransition() bool {
	return m.crouch.active
}

// TickCrouch advances the height transition by one fixed tick. The height,
// capsule center and camera offset move together; once the height lands
// within tolerance of the target it snaps there and the transition ends.
func (m *Mover) TickCrouch(dt float32) {
	if !m.crouch.active {
		return
	}

	m.crouch.elapsed += dt
	t := float32(1)
	if m.s.CrouchTime > 0 {
		t = mgl32.Clamp(m.crouch.elapsed/m.s.CrouchTime, 0, 1)
	}
	h := m.crouch.from + (m.crouch.to-m.crouch.from)*t

	if t >= 1 || mgl32.Abs(h-m.crouch.to) <= crouchSnapTolerance {
		h = m.crouch.to
		m.crouch.active = false
	}
	m.height = h
	m.RecalculateDimensions()
}

func (m *Mover) beginHeightTransition(target float32) {
	if m.s.CrouchTime <= 0 {
		m.crouch = crouchTransition{}
		m.height = target
		m.RecalculateDimensions()
		return
	}
	m.crouch = crouchTransition{active: true, from: m.height, to: target}
}

// canStandUp casts the current capsule up to the standing top and reports
// whether the space is clear. The agent's own collider and moving bodies
// are ignored; the latter get pushed aside rather than pinning the agent
// down.
func (m *Mover) canStandUp() bool {
	standingRigid := m.s.Height * (1 - m.s.StepHeightRatio)
	standingCenter := m.s.Offset*m.s.Height + m.s.StepHeightRatio*standingRigid/2
	standingTop := standingCenter + standingRigid/2
	currentTop := m.centerY + m.rigidHeight/2

	delta := standingTop - currentTop
	if delta <= 0 {
		return true
	}

	p1, p2 := m.capsulePoints()
	hit := m.world.Capsulecast(p1, p2, m.radius, math.Up(), delta, physics.Filter{
		Mask:           m.s.Layers,
		Ignore:         m.s.Self,
		ExcludeDynamic: true,
	})
	return !hit.OK
}
