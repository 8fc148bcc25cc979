// Package glide is a tween engine for games and interactive programs.
//
// Glide drives time-based interpolation of target properties from a delta
// the host supplies each frame. Tweens loop, yoyo, reverse and chain into
// sequences; an overwrite manager settles conflicts when two tweens write the
// same property; and paths move a value along a poly-line or spline at
// constant speed. Easing functions come from [gween].
//
// # Quick start
//
// Create an [Engine], describe how to read and write a property, and start a
// tween:
//
//	engine := glide.New()
//
//	x := glide.Property[float64]{
//		Name: "x",
//		Get:  func(t any) float64 { return t.(*Sprite).X },
//		Set:  func(t any, v float64) { t.(*Sprite).X = v },
//	}
//
//	p := engine.Params()
//	p.Ease = "OutBack"
//	engine.To(hero, 0.5, p, glide.FloatTo(x, 200))
//
// Then advance it from your game loop, once per update bucket you use:
//
//	func (g *Game) Update() error {
//		g.engine.Update(glide.UpdateNormal, 1.0/60)
//		return nil
//	}
//
// # Units
//
// Tweens ([Tween]) and sequences ([Sequence]) share one state machine and
// implement [Animatable]: Play, Pause, Reverse, Rewind, Restart, Complete,
// Kill and GoTo work on both. Lifecycle hooks are plain closure fields:
//
//	tw.OnComplete = func() { fmt.Println("arrived") }
//
// Units are referenced by [Handle]; [Engine.Lookup] returns nil once a unit
// is killed. [Animatable.Done] returns a channel closed on completion, for
// hosts that prefer waiting to callbacks.
//
// # Sequences
//
// A sequence places tweens, nested sequences, gaps and callbacks on one
// clock:
//
//	seq := engine.NewSequence(engine.Params())
//	seq.Append(moveIn)
//	seq.AppendInterval(0.25)
//	seq.Insert(0.1, fadeIn)
//	seq.AppendCallback(func() { sfx.Play() })
//
// Adding a unit to a sequence takes it out of the engine's top-level
// registry; from then on only the sequence moves it.
//
// # Value plugins
//
// A [ValuePlugin] interpolates one property. [FloatTo], [Vec2To], [Vec3To]
// and [PathTo] cover the common cases; [NewPlugin] builds one for any type
// with an [Arithmetic]. Plugins support From and Relative modes.
//
// # Configuration
//
// [Settings] holds engine defaults. The config subpackage loads them from a
// file or GLIDE_ environment variables; the script subpackage builds
// sequences from YAML timelines; the ecs module forwards lifecycle events to
// a [Donburi] world.
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package glide
