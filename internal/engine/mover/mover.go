// Package mover keeps a capsule-shaped body attached to the ground. It owns
// the capsule dimensions, the ground sensor and the crouch transition, and it
// is the only writer of the body's velocity.
package mover

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/physics"
	"github.com/Faultbox/stride/internal/engine/sensor"
	"github.com/Faultbox/stride/pkg/math"
)

// Contact normals this many degrees away from up count as walls.
const (
	wallAngleMin = 80
	wallAngleMax = 100
)

// Settings are the capsule and sensing parameters of a mover. All lengths
// are world units, angles degrees, times seconds.
type Settings struct {
	Height          float32 // standing capsule height
	Thickness       float32 // capsule diameter
	Offset          float32 // capsule center lift as a fraction of height
	StepHeightRatio float32 // bottom fraction of the capsule treated as step zone

	CrouchFraction float32 // crouched height as a fraction of standing height
	CrouchTime     float32 // full height transition duration
	CrouchImpulse  float32 // downward shove when a crouch starts
	CameraFraction float32 // camera offset as a fraction of current height

	GroundAdjustment  float32 // damping multiplier on the ground snap velocity
	WallNudge         float32 // pushback distance from near-vertical contacts
	CeilingAngleLimit float32 // degrees from straight down that count as ceiling
	SafetyFactor      float32 // margin added to the base sensor range

	SensorShape sensor.CastType
	Layers      physics.LayerMask
	Self        physics.ColliderID // the agent's own collider, excluded from queries
}

// DefaultSettings returns a human-sized capsule.
func DefaultSettings() Settings {
	return Settings{
		Height:            2,
		Thickness:         1,
		Offset:            0.5,
		StepHeightRatio:   0.25,
		CrouchFraction:    0.5,
		CrouchTime:        0.3,
		CrouchImpulse:     1,
		CameraFraction:    0.9,
		GroundAdjustment:  1,
		WallNudge:         0.05,
		CeilingAngleLimit: 30,
		SafetyFactor:      0.001,
		SensorShape:       sensor.Ray,
		Layers:            physics.AllLayers,
	}
}

// Mover attaches a capsule body to the ground.
type Mover struct {
	body   physics.Body
	world  physics.World
	sensor *sensor.Sensor
	s      Settings

	// derived capsule dimensions, tracking the current height
	height      float32 // current full height, changes while crouching
	rigidHeight float32 // capsule part above the step zone
	radius      float32
	centerY     float32 // capsule center above the body origin
	baseRange   float32 // sensor reach covering the step zone

	extendedRange bool
	grounded      bool
	groundNormal  mgl32.Vec3
	groundHit     physics.Hit
	adjustment    mgl32.Vec3 // ground snap velocity for the next SetVelocity

	ceilingHit bool

	crouching bool
	crouch    crouchTransition
}

// New builds a mover for the given body. Degenerate capsule dimensions are
// clamped, not rejected.
func New(body physics.Body, world physics.World, s Settings) *Mover {
	m := &Mover{
		body:         body,
		world:        world,
		sensor:       sensor.New(world),
		s:            s,
		height:       s.Height,
		groundNormal: math.Up(),
	}
	m.RecalculateDimensions()
	return m
}

// Body returns the underlying physics body.
func (m *Mover) Body() physics.Body {
	return m.body
}

// RecalculateDimensions rebuilds the capsule and recalibrates the sensor
// from the current height. Call after any sizing change.
func (m *Mover) RecalculateDimensions() {
	rigid := m.height * (1 - m.s.StepHeightRatio)
	radius := m.s.Thickness / 2
	if radius > rigid/2 {
		radius = rigid / 2
	}
	m.rigidHeight = rigid
	m.radius = radius
	m.centerY = m.s.Offset*m.height + m.s.StepHeightRatio*rigid/2

	reach := rigid/2 + m.height*m.s.StepHeightRatio
	m.baseRange = reach * (1 + m.s.SafetyFactor)

	m.sensor.SetCastOrigin(mgl32.Vec3{0, m.centerY, 0})
	m.sensor.SetCastDirection(sensor.Down)
	m.sensor.SetCastLength(m.baseRange)
	m.sensor.SetFilter(physics.Filter{Mask: m.s.Layers, Ignore: m.s.Self})
	if m.s.SensorShape == sensor.Sphere {
		m.sensor.UseSphere(m.radius)
	} else {
		m.sensor.UseRay()
	}
}

// SetExtendedSensorRange widens the ground probe by one step height. The
// controller enables it while the agent was grounded on the previous tick so
// steps and small drops do not break ground contact.
func (m *Mover) SetExtendedSensorRange(extended bool) {
	m.extendedRange = extended
}

// CheckForGround probes straight down once and refreshes the grounded state
// and the ground adjustment velocity. dt is the fixed tick duration.
func (m *Mover) CheckForGround(dt float32) {
	m.adjustment = mgl32.Vec3{}

	if m.extendedRange {
		m.sensor.SetCastLength(m.baseRange + m.height*m.s.StepHeightRatio)
	} else {
		m.sensor.SetCastLength(m.baseRange)
	}
	m.sensor.Cast(m.body)

	m.grounded = m.sensor.HasHit()
	if !m.grounded {
		m.groundNormal = math.Up()
		m.groundHit = physics.Hit{}
		return
	}

	m.groundNormal = m.sensor.Normal()
	m.groundHit = physics.Hit{
		OK:       true,
		Distance: m.sensor.Distance(),
		Point:    m.sensor.Point(),
		Normal:   m.sensor.Normal(),
		Collider: m.sensor.Collider(),
	}

	if dt <= 0 {
		return
	}
	rest := m.rigidHeight/2 + m.height*m.s.StepHeightRatio
	toGo := rest - m.sensor.Distance()
	m.adjustment = math.Up().Mul(toGo / dt * m.s.GroundAdjustment)
}

// IsGrounded reports whether the last ground check found ground.
func (m *Mover) IsGrounded() bool {
	return m.grounded
}

// GroundNormal returns the surface normal under the agent, world up when
// airborne.
func (m *Mover) GroundNormal() mgl32.Vec3 {
	return m.groundNormal
}

// GroundCollider returns the collider the agent stands on, zero when airborne.
func (m *Mover) GroundCollider() physics.ColliderID {
	return m.groundHit.Collider
}

// GroundPoint returns the contact point of the last ground hit.
func (m *Mover) GroundPoint() mgl32.Vec3 {
	return m.groundHit.Point
}

// GroundAdjustmentVelocity returns the snap velocity computed by the last
// ground check.
func (m *Mover) GroundAdjustmentVelocity() mgl32.Vec3 {
	return m.adjustment
}

// SetVelocity hands the body its velocity for this tick, with the ground
// adjustment folded in.
func (m *Mover) SetVelocity(v mgl32.Vec3) {
	m.body.SetVelocity(v.Add(m.adjustment))
}

// Velocity returns the velocity applied on the last step.
func (m *Mover) Velocity() mgl32.Vec3 {
	return m.body.Velocity()
}

// SetYaw rotates the body around world up, leaving the other axes alone.
func (m *Mover) SetYaw(yawDeg float32) {
	m.body.SetRotation(math.YawQuat(yawDeg))
}

// KeepWallDistance nudges the body away from near-vertical contacts so the
// capsule does not rest inside walls. This is a positional fudge, not a
// solver.
func (m *Mover) KeepWallDistance(contacts []physics.Contact) {
	if m.s.WallNudge <= 0 {
		return
	}
	for _, c := range contacts {
		angle := math.AngleDeg(c.Normal, math.Up())
		if angle < wallAngleMin || angle > wallAngleMax {
			continue
		}
		m.body.SetPosition(m.body.Position().Add(c.Normal.Mul(m.s.WallNudge)))
	}
}

// CheckCeiling latches the ceiling flag when a contact normal points down
// within the configured angle limit. The flag stays set until
// ResetCeilingFlag so the controller can consume it after its state step.
func (m *Mover) CheckCeiling(contacts []physics.Contact) {
	down := math.Up().Mul(-1)
	for _, c := range contacts {
		if math.AngleDeg(c.Normal, down) <= m.s.CeilingAngleLimit {
			m.ceilingHit = true
			return
		}
	}
}

// HitCeiling reports whether a ceiling contact was latched since the last
// reset.
func (m *Mover) HitCeiling() bool {
	return m.ceilingHit
}

// ResetCeilingFlag clears the ceiling latch at the end of a tick.
func (m *Mover) ResetCeilingFlag() {
	m.ceilingHit = false
}

// Height returns the current capsule height.
func (m *Mover) Height() float32 {
	return m.height
}

// Radius returns the current capsule radius.
func (m *Mover) Radius() float32 {
	return m.radius
}

// CameraOffset returns the smoothed camera anchor height above the body
// origin.
func (m *Mover) CameraOffset() float32 {
	return m.height * m.s.CameraFraction
}

// capsulePoints returns the world-space sphere centers of the current
// capsule.
func (m *Mover) capsulePoints() (mgl32.Vec3, mgl32.Vec3) {
	center := m.body.Position().Add(m.body.Rotation().Rotate(mgl32.Vec3{0, m.centerY, 0}))
	span := m.rigidHeight/2 - m.radius
	if span < 0 {
		span = 0
	}
	offset := math.Up().Mul(span)
	return center.Sub(offset), center.Add(offset)
}
