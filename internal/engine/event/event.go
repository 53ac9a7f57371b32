// Package event fans movement notifications out to subscribers. Dispatch is
// synchronous on the publishing tick; the movement core publishes without
// knowing who, if anyone, listens.
package event

import "github.com/go-gl/mathgl/mgl32"

// Type tags a movement notification.
type Type int

// Notification types.
const (
	Jumped Type = iota
	Landed
	Moved
	CrouchChanged
)

func (t Type) String() string {
	switch t {
	case Jumped:
		return "jumped"
	case Landed:
		return "landed"
	case Moved:
		return "moved"
	case CrouchChanged:
		return "crouch_changed"
	default:
		return "unknown"
	}
}

// Event is one notification. Only the fields matching its type are set.
type Event struct {
	Type      Type
	Momentum  mgl32.Vec3 // Jumped, Landed
	Move      mgl32.Vec2 // Moved
	Sprint    bool       // Moved
	Crouching bool       // CrouchChanged
}

// Handler consumes events inline on the publishing tick. Handlers must not
// mutate the agent mid-tick.
type Handler func(Event)

// Hub is a per-type subscriber registry. A nil *Hub drops everything, so
// agents work without one.
type Hub struct {
	handlers map[Type][]Handler
	all      []Handler
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[Type][]Handler)}
}

// Subscribe registers fn for events of type t. Subscription order is
// dispatch order.
func (h *Hub) Subscribe(t Type, fn Handler) {
	h.handlers[t] = append(h.handlers[t], fn)
}

// SubscribeAll registers fn for every event type. Type subscribers run
// first.
func (h *Hub) SubscribeAll(fn Handler) {
	h.all = append(h.all, fn)
}

// Publish delivers e to its subscribers.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	for _, fn := range h.handlers[e.Type] {
		fn(e)
	}
	for _, fn := range h.all {
		fn(e)
	}
}
