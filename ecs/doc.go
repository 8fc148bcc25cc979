// Package ecs provides ECS adapters for glide.
//
// [NewDonburiSink] bridges glide lifecycle events (start, update, complete,
// plugin overwritten, ...) into a [Donburi] world as typed events. Subscribe
// to [LifecycleEventType] in your ECS systems to receive them.
//
// [ComponentProperty] and [Target] let tweens animate component data
// directly; removing the entity kills its tweens on their next update.
//
// Usage:
//
//	engine.SetEventSink(ecs.NewDonburiSink(world))
//
//	x := ecs.ComponentProperty("x", Position,
//		func(p *PositionData) float64 { return p.X },
//		func(p *PositionData, v float64) { p.X = v })
//	engine.To(ecs.Target{World: world, Entity: e}, 1, engine.Params(), glide.FloatTo(x, 100))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
