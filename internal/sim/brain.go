package sim

import (
	stdmath "math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/walker"
)

// keepRadius is how far an agent wanders before its next leg turns back
// toward the middle of the arena.
const keepRadius = 20

// brain steers an agent through scripted wander legs: pick a heading,
// walk it for a few seconds, sometimes sprinting or ducking, with the
// odd hop. Everything derives from the seed so a run replays exactly.
type brain struct {
	rng *rand.Rand

	heading float32 // yaw in degrees
	legLeft float32 // seconds remaining on the current leg

	sprint   bool
	duck     bool
	ducking  bool    // last toggle state actually emitted
	jumpLeft float32 // seconds the jump key stays held
}

func newBrain(seed int64) *brain {
	return &brain{rng: rand.New(rand.NewSource(seed))}
}

// think produces the control snapshot for the coming tick.
func (b *brain) think(pos mgl32.Vec3, dt float32) walker.Input {
	b.legLeft -= dt
	if b.legLeft <= 0 {
		b.nextLeg(pos)
	}
	if b.jumpLeft > 0 {
		b.jumpLeft -= dt
	}

	// Crouching is a toggle, so emit an edge only when the desire flips.
	toggle := b.duck != b.ducking
	if toggle {
		b.ducking = b.duck
	}

	return walker.Input{
		Move:         mgl32.Vec2{0, 1},
		Jump:         b.jumpLeft > 0,
		Sprint:       b.sprint,
		CrouchToggle: toggle,
		Yaw:          b.heading,
		HasYaw:       true,
	}
}

func (b *brain) nextLeg(pos mgl32.Vec3) {
	b.legLeft = 2 + 3*b.rng.Float32()

	// Far out, walk home; otherwise pick a fresh heading.
	out := mgl32.Vec2{pos.X(), pos.Z()}
	if out.Len() > keepRadius {
		b.heading = headingOf(mgl32.Vec2{-out.X(), -out.Y()})
	} else {
		b.heading = 360 * b.rng.Float32()
	}

	b.sprint = b.rng.Float32() < 0.25
	b.duck = b.rng.Float32() < 0.15
	if b.rng.Float32() < 0.3 {
		b.jumpLeft = 0.1
	}
}

// headingOf converts a world-space direction (x, z) into yaw degrees.
func headingOf(dir mgl32.Vec2) float32 {
	return float32(stdmath.Atan2(float64(dir.X()), float64(dir.Y())) * 180 / stdmath.Pi)
}
