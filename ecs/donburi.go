package ecs

import (
	"github.com/phanxgames/glide"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LifecycleEventType is the Donburi event type for glide lifecycle events.
// Subscribe to this in your ECS systems to react to starts, completions,
// overwrites and the rest.
var LifecycleEventType = events.NewEventType[glide.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to LifecycleEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) glide.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event glide.Event) {
	LifecycleEventType.Publish(s.world, event)
}

// Target is a tween target naming one entity of a world. It reports itself
// disposed once the entity is removed, so tweens on it kill themselves.
type Target struct {
	World  donburi.World
	Entity donburi.Entity
}

// IsDisposed reports whether the entity is gone.
func (t Target) IsDisposed() bool { return !t.World.Valid(t.Entity) }

func (t Target) entry() *donburi.Entry { return t.World.Entry(t.Entity) }

// ComponentProperty exposes one value of component c as a glide property.
// The property binds only to a Target whose entity has c.
func ComponentProperty[T, V any](name string, c *donburi.ComponentType[T], get func(*T) V, set func(*T, V)) glide.Property[V] {
	return glide.Property[V]{
		Name: name,
		Get:  func(t any) V { return get(c.Get(t.(Target).entry())) },
		Set:  func(t any, v V) { set(c.Get(t.(Target).entry()), v) },
		Accepts: func(t any) bool {
			tg, ok := t.(Target)
			return ok && !tg.IsDisposed() && tg.entry().HasComponent(c)
		},
	}
}
