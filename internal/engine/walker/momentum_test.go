package walker

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/event"
	"github.com/Faultbox/stride/internal/engine/locomotion"
	"github.com/Faultbox/stride/internal/engine/physics"
)

func TestGravityAccumulates(t *testing.T) {
	r := newRig(DefaultSettings())
	r.world.gone = true

	prev := float32(0)
	for i := 0; i < 60; i++ {
		r.step(1)
		vy := r.c.Momentum().Y()
		if vy >= prev {
			t.Fatalf("tick %d: vertical momentum %v did not fall below %v", i, vy, prev)
		}
		prev = vy
	}
	// 30 units/s^2 over one second.
	if want := float32(-30); mgl32.Abs(prev-want) > 1e-3 {
		t.Errorf("vertical momentum after 1s = %v, want %v", prev, want)
	}
	if r.c.State() != locomotion.Falling {
		t.Errorf("state = %v, want %v", r.c.State(), locomotion.Falling)
	}
}

func TestTerminalVelocityCapsFall(t *testing.T) {
	s := DefaultSettings()
	s.TerminalVelocity = 10
	r := newRig(s)
	r.world.gone = true

	for i := 0; i < 60; i++ {
		r.step(1)
		if vy := r.c.Momentum().Y(); vy < -10-1e-3 {
			t.Fatalf("tick %d: vertical momentum %v exceeds the terminal velocity", i, vy)
		}
	}
	if vy := r.c.Momentum().Y(); mgl32.Abs(vy+10) > 1e-3 {
		t.Errorf("vertical momentum = %v, want capped at -10", vy)
	}
}

func TestJumpImpulse(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	r.c.SetInput(Input{Jump: true})
	r.step(1)

	if r.c.State() != locomotion.Jumping {
		t.Fatalf("state = %v, want %v", r.c.State(), locomotion.Jumping)
	}
	if vy := r.c.Momentum().Y(); vy != 10 {
		t.Errorf("vertical momentum = %v, want exactly the jump speed 10", vy)
	}
	jumped := r.rec.ofType(event.Jumped)
	if len(jumped) != 1 {
		t.Fatalf("got %d jumped events, want 1", len(jumped))
	}
	if vy := jumped[0].Momentum.Y(); vy != 10 {
		t.Errorf("jumped payload vertical momentum = %v, want 10", vy)
	}
}

func TestJumpCarriesRunningSpeed(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	r.c.SetInput(Input{Move: mgl32.Vec2{0, 1}, Jump: true})
	r.step(1)

	m := r.c.Momentum()
	if mgl32.Abs(m.Z()-7) > 1e-3 {
		t.Errorf("forward momentum = %v, want the movement speed 7 folded in", m.Z())
	}
	if m.Y() != 10 {
		t.Errorf("vertical momentum = %v, want 10", m.Y())
	}
}

func TestJumpFlightTime(t *testing.T) {
	s := DefaultSettings()
	s.JumpSpeed = 5
	s.Gravity = 30
	s.JumpDuration = 0.05
	r := newRig(s)
	r.settle(t)

	r.c.SetInput(Input{Jump: true})
	r.step(1)
	if r.c.State() != locomotion.Jumping {
		t.Fatalf("state = %v, want %v", r.c.State(), locomotion.Jumping)
	}

	var seen []locomotion.State
	flight := 1
	for ; flight < 300; flight++ {
		r.step(1)
		if n := len(seen); n == 0 || seen[n-1] != r.c.State() {
			seen = append(seen, r.c.State())
		}
		if r.c.State() == locomotion.Grounded {
			break
		}
	}

	want := []locomotion.State{locomotion.Jumping, locomotion.Rising, locomotion.Falling, locomotion.Grounded}
	if len(seen) != len(want) {
		t.Fatalf("state sequence = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("state sequence = %v, want %v", seen, want)
		}
	}

	// Projectile time of flight 2*jumpSpeed/gravity is 20 ticks at 60 Hz;
	// tick quantisation and the jump hold stretch it slightly.
	if flight < 17 || flight > 26 {
		t.Errorf("flight lasted %d ticks, want about 20", flight)
	}

	landed := r.rec.ofType(event.Landed)
	if len(landed) != 1 {
		t.Fatalf("got %d landed events, want 1", len(landed))
	}
	if vy := landed[0].Momentum.Y(); vy >= 0 {
		t.Errorf("landed payload vertical momentum = %v, want falling", vy)
	}
}

func TestHeldJumpKeyDoesNotRejump(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	r.c.SetInput(Input{Jump: true})
	r.step(1)
	for i := 0; i < 300 && r.c.State() != locomotion.Grounded; i++ {
		r.step(1)
	}
	if r.c.State() != locomotion.Grounded {
		t.Fatal("agent never landed")
	}

	r.step(10)
	if r.c.State() != locomotion.Grounded {
		t.Fatalf("state = %v with the jump key still held, want %v", r.c.State(), locomotion.Grounded)
	}
	if n := len(r.rec.ofType(event.Jumped)); n != 1 {
		t.Fatalf("got %d jumped events, want 1 while the key stays down", n)
	}

	r.c.SetInput(Input{})
	r.step(1)
	r.c.SetInput(Input{Jump: true})
	r.step(1)
	if r.c.State() != locomotion.Jumping {
		t.Errorf("state = %v after release and re-press, want %v", r.c.State(), locomotion.Jumping)
	}
}

func TestCeilingCancelsJump(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	r.c.SetInput(Input{Jump: true})
	r.step(1)

	r.c.ProvideContacts([]physics.Contact{{Normal: mgl32.Vec3{0, -1, 0}}})
	r.step(1)

	if r.c.State() != locomotion.Falling {
		t.Fatalf("state = %v after a head bump, want %v", r.c.State(), locomotion.Falling)
	}
	if vy := r.c.Momentum().Y(); vy != 0 {
		t.Errorf("vertical momentum = %v right after the cancel, want 0", vy)
	}

	r.step(1)
	if vy := r.c.Momentum().Y(); vy >= 0 {
		t.Errorf("vertical momentum = %v one tick later, want falling", vy)
	}
}

func TestAirControlBelowSpeedThreshold(t *testing.T) {
	r := newRig(DefaultSettings())
	r.world.gone = true

	r.c.SetInput(Input{Move: mgl32.Vec2{0, 1}})
	for i := 0; i < 120; i++ {
		r.step(1)
		hz := r.c.Momentum()
		hz = mgl32.Vec3{hz.X(), 0, hz.Z()}
		if hz.Len() > 7+1e-3 {
			t.Fatalf("tick %d: horizontal momentum %v exceeds movement speed", i, hz.Len())
		}
	}

	m := r.c.Momentum()
	if mgl32.Abs(m.Z()-7) > 0.05 {
		t.Errorf("forward momentum = %v, want close to movement speed 7", m.Z())
	}
	if mgl32.Abs(m.X()) > 1e-3 {
		t.Errorf("strafe momentum = %v, want 0", m.X())
	}
}

func TestAirControlOverSpeedThreshold(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	// Ease up to sprint speed, then jump with it.
	r.c.SetInput(Input{Sprint: true})
	for i := 0; i < 60; i++ {
		r.c.Update(tick)
	}
	if r.c.Speed() != 10.5 {
		t.Fatalf("Speed() = %v, want sprint speed 10.5", r.c.Speed())
	}
	r.c.SetInput(Input{Move: mgl32.Vec2{0, 1}, Jump: true, Sprint: true})
	r.step(1)

	// Pushing along the momentum direction adds nothing over the
	// threshold; only friction may touch the speed.
	for i := 0; i < 12; i++ {
		r.step(1)
		if z := r.c.Momentum().Z(); z > 10.5+1e-3 {
			t.Fatalf("tick %d: forward momentum %v grew past its seed", i, z)
		}
	}
	if z := r.c.Momentum().Z(); z < 10.3 {
		t.Errorf("forward momentum = %v, want only gentle air friction decay from 10.5", z)
	}

	// Steering across it still works, at the reduced rate.
	r.c.SetInput(Input{Move: mgl32.Vec2{1, 0}, Jump: true, Sprint: true})
	r.step(8)
	m := r.c.Momentum()
	if m.X() <= 0.3 {
		t.Errorf("strafe momentum = %v, want sideways drift from cross steering", m.X())
	}
	if m.Z() > 10.5+1e-3 {
		t.Errorf("forward momentum = %v, want no gain from cross steering", m.Z())
	}
}

func TestSteepGroundStartsSlide(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	r.world.normal = slopeNormal(45.1)
	r.step(1)
	if r.c.State() != locomotion.Sliding {
		t.Errorf("state on a 45.1 degree slope = %v, want %v", r.c.State(), locomotion.Sliding)
	}
}

func TestSlopeAtLimitStaysGrounded(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	r.world.normal = slopeNormal(44.9)
	r.step(10)
	if r.c.State() != locomotion.Grounded {
		t.Errorf("state on a 44.9 degree slope = %v, want %v", r.c.State(), locomotion.Grounded)
	}
}

func TestSlideMomentumFollowsSlope(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	normal := slopeNormal(60)
	r.world.normal = normal
	r.step(12)

	if r.c.State() != locomotion.Sliding {
		t.Fatalf("state = %v, want %v", r.c.State(), locomotion.Sliding)
	}
	m := r.c.Momentum()
	if m.X() <= 0.5 || m.Y() >= -0.5 {
		t.Errorf("momentum = %v, want a down-slope pull (+X, -Y)", m)
	}
	if d := mgl32.Abs(m.Dot(normal)); d > 1e-3 {
		t.Errorf("momentum leaves the slope plane by %v, want 0", d)
	}
}

func TestSlideRecoversWhenSlopeFlattens(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	r.world.normal = slopeNormal(60)
	r.step(8)
	r.world.normal = mgl32.Vec3{0, 1, 0}
	r.step(1)
	if r.c.State() != locomotion.Grounded {
		t.Errorf("state = %v after the slope flattened, want %v", r.c.State(), locomotion.Grounded)
	}
	if n := len(r.rec.ofType(event.Landed)); n != 1 {
		t.Errorf("got %d landed events for the slide recovery, want 1", n)
	}
}

func TestFallingEntryZeroesVerticalMomentum(t *testing.T) {
	r := newRig(DefaultSettings())
	r.settle(t)

	// Launch, then yank the ground so Rising decays into Falling.
	r.c.SetInput(Input{Jump: true})
	r.step(1)
	r.world.gone = true
	for i := 0; i < 300 && r.c.State() != locomotion.Falling; i++ {
		r.step(1)
	}
	if r.c.State() != locomotion.Falling {
		t.Fatal("agent never tipped into falling")
	}
	if vy := r.c.Momentum().Y(); vy != 0 {
		t.Errorf("vertical momentum on entering the fall = %v, want 0", vy)
	}
}

func TestContactLossFoldsOnlyUncoveredVelocity(t *testing.T) {
	cases := []struct {
		name     string
		momentum mgl32.Vec3
		want     mgl32.Vec3
	}{
		{"empty momentum", mgl32.Vec3{}, mgl32.Vec3{0, 0, 7}},
		{"partially covered", mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 7}},
		{"already faster", mgl32.Vec3{0, 0, 9}, mgl32.Vec3{0, 0, 9}},
		{"opposed", mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 2}},
		{"perpendicular", mgl32.Vec3{3, 0, 0}, mgl32.Vec3{3, 0, 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(DefaultSettings())
			r.c.tickInput = Input{Move: mgl32.Vec2{0, 1}}
			r.c.setWorldMomentum(tc.momentum)
			r.c.keepMomentumOnContactLoss()
			if got := r.c.worldMomentum(); !got.ApproxEqualThreshold(tc.want, 1e-4) {
				t.Errorf("momentum after contact loss = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLocalMomentumTurnsWithYaw(t *testing.T) {
	world := DefaultSettings()
	local := DefaultSettings()
	local.LocalMomentum = true

	launch := func(r *rig) {
		r.settle(t)
		r.c.SetInput(Input{Move: mgl32.Vec2{0, 1}, Jump: true})
		r.step(1)
		r.c.SetInput(Input{})
		r.step(4)
	}

	rw, rl := newRig(world), newRig(local)
	launch(rw)
	launch(rl)

	// Same history, constant yaw: the storage frame must not show.
	if !rw.c.Momentum().ApproxEqualThreshold(rl.c.Momentum(), 1e-3) {
		t.Fatalf("momentum differs by storage frame: world %v, local %v", rw.c.Momentum(), rl.c.Momentum())
	}

	turn := Input{Yaw: 90, HasYaw: true}
	rw.c.SetInput(turn)
	rl.c.SetInput(turn)
	rw.step(1)
	rl.step(1)

	mw, ml := rw.c.Momentum(), rl.c.Momentum()
	if mw.Z() < 6 || mgl32.Abs(mw.X()) > 0.1 {
		t.Errorf("world-frame momentum = %v, want to stay along +Z through the turn", mw)
	}
	if ml.X() < 6 || mgl32.Abs(ml.Z()) > 0.1 {
		t.Errorf("local-frame momentum = %v, want to turn onto +X with the agent", ml)
	}
}
