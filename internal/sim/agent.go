package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/stride/internal/engine/event"
	"github.com/Faultbox/stride/internal/engine/locomotion"
	"github.com/Faultbox/stride/internal/engine/mover"
	"github.com/Faultbox/stride/internal/engine/staticworld"
	"github.com/Faultbox/stride/internal/engine/walker"
	"github.com/Faultbox/stride/internal/logger"
)

// Agent is one simulated character: a capsule body in the arena, the
// movement controller around it, and a scripted brain steering both.
type Agent struct {
	ID   uuid.UUID
	Name string

	body  *staticworld.KinematicBody
	mov   *mover.Mover
	ctrl  *walker.Controller
	brain *brain

	jumps    int
	landings int

	log *zap.Logger
}

func newAgent(name string, scene *Scene, spawn mgl32.Vec3, ms mover.Settings, ws walker.Settings, seed int64) *Agent {
	a := &Agent{
		ID:   uuid.New(),
		Name: name,
	}
	a.log = logger.Named("agent").With(
		zap.String("agent", name),
		zap.String("id", a.ID.String()[:8]),
	)

	a.body = scene.World.NewBody(spawn, ms.Thickness/2, ms.Height, LayerAgent)
	// The ground sensor runs from inside the capsule; without this it
	// would ground the agent on its own body.
	ms.Self = a.body.ID()
	a.mov = mover.New(a.body, scene.World, ms)

	hub := event.NewHub()
	hub.Subscribe(event.Jumped, func(e event.Event) {
		a.jumps++
		a.log.Debug("jumped", zap.Float32("vertical", e.Momentum.Y()))
	})
	hub.Subscribe(event.Landed, func(e event.Event) {
		a.landings++
		a.log.Debug("landed", zap.Float32("impact", e.Momentum.Y()))
	})
	hub.Subscribe(event.CrouchChanged, func(e event.Event) {
		a.log.Debug("crouch changed", zap.Bool("crouching", e.Crouching))
	})

	a.ctrl = walker.New(a.mov, hub, ws)
	a.brain = newBrain(seed)
	return a
}

// tick advances the agent one fixed step and moves its body.
func (a *Agent) tick(w *staticworld.World, dt float32) {
	a.ctrl.ProvideContacts(w.ContactsFor(a.body))
	a.ctrl.SetInput(a.brain.think(a.body.Position(), dt))
	a.ctrl.Update(dt)
	a.ctrl.FixedUpdate(dt)

	// Crouch transitions change the capsule; keep the scene's copy in step.
	a.body.SetDimensions(a.mov.Radius(), a.mov.Height())
	a.body.Advance(dt)
}

// Position returns the body origin.
func (a *Agent) Position() mgl32.Vec3 {
	return a.body.Position()
}

// State returns the agent's locomotion state.
func (a *Agent) State() locomotion.State {
	return a.ctrl.State()
}

// Landings returns how many times the agent has touched down.
func (a *Agent) Landings() int {
	return a.landings
}
