package walker

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/event"
	"github.com/Faultbox/stride/internal/engine/locomotion"
	"github.com/Faultbox/stride/pkg/math"
)

// Air control over the speed threshold runs at a quarter of the rate.
const overspeedAirControlFactor = 0.25

// handleMomentum integrates gravity, air control, friction and slope
// effects for one tick. It runs against the state decided last tick; this
// tick's transitions then react to the result.
func (c *Controller) handleMomentum(dt float32) {
	up := math.Up()
	m := c.worldMomentum()

	vertical := math.ExtractDot(m, up)
	horizontal := math.RemoveDot(m, up)

	// Gravity pulls on the vertical part. On walkable ground, downward
	// leftovers are dropped so they do not fight the ground snap.
	vertical = vertical.Sub(up.Mul(c.s.Gravity * dt))
	if c.machine.State() == locomotion.Grounded && vertical.Dot(up) <= 0 {
		vertical = mgl32.Vec3{}
	}

	// Airborne steering. Under the speed threshold the input accelerates
	// freely up to movement speed; over it, only the part that does not
	// feed the existing momentum direction applies, at a reduced rate.
	if !c.onGround() {
		moveVel := c.movementVelocity()
		if horizontal.Len() > c.s.MovementSpeed {
			dir := horizontal.Normalize()
			if moveVel.Dot(dir) > 0 {
				moveVel = math.RemoveDot(moveVel, dir)
			}
			horizontal = horizontal.Add(moveVel.Mul(dt * c.s.AirControlRate * overspeedAirControlFactor))
		} else {
			horizontal = horizontal.Add(moveVel.Mul(dt * c.s.AirControlRate))
			horizontal = math.ClampMagnitude(horizontal, c.s.MovementSpeed)
		}
	}

	// Sliding agents may steer across the fall line, never up it.
	if c.machine.State() == locomotion.Sliding {
		downhill := math.ProjectOnPlane(c.mover.GroundNormal(), up)
		if downhill.LenSqr() > 0 {
			steer := math.RemoveDot(c.movementVelocity(), downhill.Normalize())
			horizontal = horizontal.Add(steer.Mul(dt))
		}
	}

	// Friction decays horizontal momentum toward zero, never past it.
	friction := c.s.AirFriction
	if c.machine.State() == locomotion.Grounded {
		friction = c.s.GroundFriction
	}
	horizontal = math.MoveTowards(horizontal, mgl32.Vec3{}, friction*dt)

	m = horizontal.Add(vertical)

	// While sliding, momentum lives in the slope plane and slide gravity
	// pulls along it.
	if c.machine.State() == locomotion.Sliding {
		normal := c.mover.GroundNormal()
		m = math.ProjectOnPlane(m, normal)
		if m.Dot(up) > 0 {
			m = math.RemoveDot(m, up)
		}
		slideDir := math.ProjectOnPlane(up.Mul(-1), normal)
		if slideDir.LenSqr() > 0 {
			m = m.Add(slideDir.Normalize().Mul(c.s.SlideGravity * dt))
		}
	}

	if c.s.TerminalVelocity > 0 {
		down := -m.Dot(up)
		if down > c.s.TerminalVelocity {
			m = math.RemoveDot(m, up).Sub(up.Mul(c.s.TerminalVelocity))
		}
	}

	c.setWorldMomentum(m)
}

// onStateEnter runs the edge-triggered entry actions of the state table.
func (c *Controller) onStateEnter(_, to locomotion.State) {
	up := math.Up()
	switch to {
	case locomotion.Grounded:
		c.events.Publish(event.Event{Type: event.Landed, Momentum: c.worldMomentum()})
	case locomotion.Falling:
		c.setWorldMomentum(math.RemoveDot(c.worldMomentum(), up))
	case locomotion.Sliding, locomotion.Rising:
		c.keepMomentumOnContactLoss()
	case locomotion.Jumping:
		c.keepMomentumOnContactLoss()
		m := math.RemoveDot(c.worldMomentum(), up).Add(up.Mul(c.s.JumpSpeed))
		c.setWorldMomentum(m)
		c.jumpTimer = 0
		c.jumpLocked = true
		c.events.Publish(event.Event{Type: event.Jumped, Momentum: m})
	}
}

// keepMomentumOnContactLoss folds the current movement velocity into the
// momentum when ground contact ends, so input speed carries into the air.
// Whatever part the momentum already covers is not added twice.
func (c *Controller) keepMomentumOnContactLoss() {
	vel := c.movementVelocity()
	if vel.LenSqr() == 0 {
		return
	}
	m := c.worldMomentum()
	if m.LenSqr() > 0 {
		dir := vel.Normalize()
		proj := math.ExtractDot(m, dir)
		aligned := proj.Dot(dir) > 0
		switch {
		case aligned && proj.LenSqr() >= vel.LenSqr():
			vel = mgl32.Vec3{}
		case aligned && proj.LenSqr() > 0:
			vel = vel.Sub(proj)
		}
	}
	c.setWorldMomentum(m.Add(vel))
}
