package glide

import "fmt"

// EventType identifies a lifecycle event.
type EventType uint8

const (
	EventStart EventType = iota
	EventPlay
	EventUpdate
	EventStepComplete
	EventComplete
	EventPause
	EventRewinded
	EventPluginOverwritten
)

var eventTypeNames = [...]string{
	"start", "play", "update", "step_complete", "complete", "pause", "rewinded", "plugin_overwritten",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// Callbacks holds the lifecycle hooks of a unit. Any field may be nil. Extra
// parameters are captured by the closure.
type Callbacks struct {
	OnStart             func()
	OnPlay              func()
	OnUpdate            func()
	OnStepComplete      func()
	OnComplete          func()
	OnPause             func()
	OnRewinded          func()
	OnPluginOverwritten func()
}

// Event is a lifecycle notification forwarded to an EventSink.
type Event struct {
	Type   EventType
	Handle Handle
	ID     string
	IntID  int
	Target any // nil for sequences
}

// EventSink is the interface for optional event forwarding. When set on an
// Engine, every lifecycle event that reaches its callback is also emitted
// here (see the ecs package for a Donburi adapter).
type EventSink interface {
	EmitEvent(event Event)
}

func (c *Callbacks) hook(t EventType) func() {
	switch t {
	case EventStart:
		return c.OnStart
	case EventPlay:
		return c.OnPlay
	case EventUpdate:
		return c.OnUpdate
	case EventStepComplete:
		return c.OnStepComplete
	case EventComplete:
		return c.OnComplete
	case EventPause:
		return c.OnPause
	case EventRewinded:
		return c.OnRewinded
	case EventPluginOverwritten:
		return c.OnPluginOverwritten
	}
	return nil
}
