// Package walker implements the momentum-based movement controller. A
// controller owns an agent's momentum and locomotion state and drives its
// mover once per fixed tick from the input snapshot the host published.
package walker

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/event"
	"github.com/Faultbox/stride/internal/engine/locomotion"
	"github.com/Faultbox/stride/internal/engine/mover"
	"github.com/Faultbox/stride/internal/engine/physics"
	"github.com/Faultbox/stride/pkg/math"
)

// Settings are the tuning parameters of a controller. Speeds are world
// units per second, angles degrees, times seconds.
type Settings struct {
	MovementSpeed         float32
	SprintMultiplier      float32
	CrouchSpeedMultiplier float32
	SpeedSmoothTime       float32 // seconds to swing between speed targets

	JumpSpeed    float32
	JumpDuration float32 // how long the jump state lasts before rising

	AirControlRate float32
	AirFriction    float32
	GroundFriction float32

	Gravity          float32 // positive magnitude
	SlideGravity     float32 // extra down-slope pull while sliding
	SlopeLimit       float32 // steeper ground than this starts a slide
	TerminalVelocity float32 // max fall speed, 0 leaves falls unclamped

	LocalMomentum bool // keep momentum in the agent's yaw frame
}

// DefaultSettings returns the walking tune.
func DefaultSettings() Settings {
	return Settings{
		MovementSpeed:         7,
		SprintMultiplier:      1.5,
		CrouchSpeedMultiplier: 0.5,
		SpeedSmoothTime:       0.2,
		JumpSpeed:             10,
		JumpDuration:          0.2,
		AirControlRate:        2,
		AirFriction:           0.5,
		GroundFriction:        100,
		Gravity:               30,
		SlideGravity:          5,
		SlopeLimit:            45,
	}
}

// Input is the read-only control snapshot consumed at the start of each
// fixed tick. The host publishes a fresh one whenever its own input state
// changes.
type Input struct {
	Move         mgl32.Vec2 // x strafe, y forward; clamped to length 1 before use
	Jump         bool       // jump held
	Sprint       bool       // sprint held
	CrouchToggle bool       // one-shot toggle edge, consumed by the next tick
	Yaw          float32    // camera yaw in degrees
	HasYaw       bool       // false skips the rotation step
}

// Controller turns inputs into velocity through momentum and the
// locomotion state machine.
type Controller struct {
	mover   *mover.Mover
	machine *locomotion.Machine
	events  *event.Hub
	s       Settings

	input     Input
	tickInput Input // snapshot in effect during the current fixed tick
	contacts  []physics.Contact

	// momentum is stored in world axes, or in the agent's yaw frame when
	// LocalMomentum is set. All mutation goes through worldMomentum and
	// setWorldMomentum.
	momentum mgl32.Vec3

	yaw          float32
	currentSpeed float32 // smoothed by the variable-rate update
	jumpTimer    float32
	jumpLocked   bool // blocks re-jumping until the key is released

	velocity mgl32.Vec3 // composed velocity of the last fixed tick
}

// New builds a controller around a mover. events may be nil when nobody
// listens.
func New(m *mover.Mover, events *event.Hub, s Settings) *Controller {
	c := &Controller{
		mover:        m,
		events:       events,
		s:            s,
		currentSpeed: s.MovementSpeed,
	}
	c.machine = locomotion.NewMachine(c.onStateEnter)
	return c
}

// SetInput publishes a new control snapshot. It takes effect on the next
// fixed tick.
func (c *Controller) SetInput(in Input) {
	c.input = in
}

// ProvideContacts hands over the collision contacts the host engine
// reported for the agent since the last tick. The slice is copied.
func (c *Controller) ProvideContacts(contacts []physics.Contact) {
	c.contacts = append(c.contacts[:0], contacts...)
}

// Update runs the variable-rate concerns: easing the movement speed toward
// its walk, sprint or crouch target.
func (c *Controller) Update(dt float32) {
	target := c.s.MovementSpeed
	switch {
	case c.mover.IsCrouching():
		target *= c.s.CrouchSpeedMultiplier
	case c.input.Sprint:
		target *= c.s.SprintMultiplier
	}
	if c.s.SpeedSmoothTime <= 0 {
		c.currentSpeed = target
		return
	}
	rate := c.s.MovementSpeed / c.s.SpeedSmoothTime
	c.currentSpeed = math.Approach(c.currentSpeed, target, rate*dt)
}

// FixedUpdate advances the agent by one physics tick: rotation, crouch,
// contacts, ground check, momentum, state transitions, velocity.
func (c *Controller) FixedUpdate(dt float32) {
	c.tickInput = c.input

	// Rotation first so every query below sees the tick's orientation.
	if c.tickInput.HasYaw {
		c.yaw = c.tickInput.Yaw
		c.mover.SetYaw(c.yaw)
	}

	c.mover.TickCrouch(dt)
	if c.tickInput.CrouchToggle {
		if c.mover.ToggleCrouch() {
			c.events.Publish(event.Event{Type: event.CrouchChanged, Crouching: c.mover.IsCrouching()})
		}
		c.input.CrouchToggle = false
		c.tickInput.CrouchToggle = false
	}

	c.mover.KeepWallDistance(c.contacts)
	c.mover.CheckCeiling(c.contacts)
	c.contacts = c.contacts[:0]

	// Step-tolerant ground probe while the agent was on the ground last
	// tick, short probe while airborne to avoid sticky takeoffs.
	c.mover.SetExtendedSensorRange(c.onGround())
	c.mover.CheckForGround(dt)

	c.handleMomentum(dt)

	if c.machine.State() == locomotion.Jumping {
		c.jumpTimer += dt
	}
	c.machine.Step(c.machineInputs())

	moveVel := mgl32.Vec3{}
	if c.machine.State() == locomotion.Grounded {
		moveVel = c.movementVelocity()
	}
	c.velocity = moveVel.Add(c.worldMomentum())
	c.mover.SetVelocity(c.velocity)

	if c.tickInput.Move.Len() > 0 {
		c.events.Publish(event.Event{Type: event.Moved, Move: c.tickInput.Move, Sprint: c.tickInput.Sprint})
	}

	c.mover.ResetCeilingFlag()
	if !c.tickInput.Jump {
		c.jumpLocked = false
	}
}

// Velocity returns the velocity composed on the last fixed tick.
func (c *Controller) Velocity() mgl32.Vec3 {
	return c.velocity
}

// Momentum returns the current momentum in world axes.
func (c *Controller) Momentum() mgl32.Vec3 {
	return c.worldMomentum()
}

// State returns the current locomotion state.
func (c *Controller) State() locomotion.State {
	return c.machine.State()
}

// IsGrounded reports whether the last ground check found walkable or
// slideable ground.
func (c *Controller) IsGrounded() bool {
	return c.mover.IsGrounded()
}

// Position returns the body origin, for telemetry.
func (c *Controller) Position() mgl32.Vec3 {
	return c.mover.Body().Position()
}

// Speed returns the smoothed movement speed target.
func (c *Controller) Speed() float32 {
	return c.currentSpeed
}

// Settings returns the active tuning.
func (c *Controller) Settings() Settings {
	return c.s
}

// SetSettings replaces the tuning in place. It takes effect on the next
// tick; the smoothed speed eases toward the new targets.
func (c *Controller) SetSettings(s Settings) {
	c.s = s
}

// onGround reports whether the machine considers the agent ground-borne.
func (c *Controller) onGround() bool {
	s := c.machine.State()
	return s == locomotion.Grounded || s == locomotion.Sliding
}

func (c *Controller) machineInputs() locomotion.Inputs {
	grounded := c.mover.IsGrounded()
	return locomotion.Inputs{
		Grounded:      grounded,
		TooSteep:      grounded && math.SlopeAngleDeg(c.mover.GroundNormal()) > c.s.SlopeLimit,
		VerticalSpeed: c.worldMomentum().Dot(math.Up()),
		CeilingHit:    c.mover.HitCeiling(),
		JumpRequested: c.tickInput.Jump && !c.jumpLocked,
		JumpTimerDone: c.jumpTimer >= c.s.JumpDuration,
	}
}

// movementVelocity is the direct, input-driven part of the velocity: the
// clamped move vector in the camera yaw frame, scaled by the smoothed
// speed.
func (c *Controller) movementVelocity() mgl32.Vec3 {
	move := c.tickInput.Move
	if move.Len() > 1 {
		move = move.Normalize()
	}
	if move == (mgl32.Vec2{}) {
		return mgl32.Vec3{}
	}
	dir := math.RightFromYaw(c.yaw).Mul(move.X()).Add(math.ForwardFromYaw(c.yaw).Mul(move.Y()))
	return dir.Mul(c.currentSpeed)
}

// worldMomentum returns the momentum in world axes regardless of the
// storage frame.
func (c *Controller) worldMomentum() mgl32.Vec3 {
	if !c.s.LocalMomentum {
		return c.momentum
	}
	return math.YawQuat(c.yaw).Rotate(c.momentum)
}

func (c *Controller) setWorldMomentum(m mgl32.Vec3) {
	if !c.s.LocalMomentum {
		c.momentum = m
		return
	}
	c.momentum = math.YawQuat(c.yaw).Inverse().Rotate(m)
}
