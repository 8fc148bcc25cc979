package glide

import "github.com/tanema/gween/ease"

// Tween drives one or more value plugins against a single target. Create
// one with Engine.To; the engine advances it from Engine.Update until it
// completes (and is killed, unless auto-kill is off) or is added to a
// Sequence.
type Tween struct {
	unit
	target  any
	plugins []ValuePlugin
	ease    ease.TweenFunc

	speedBased       bool
	speed            float64
	durationResolved bool
	appliedLoops     int
}

// Target returns the animated object.
func (t *Tween) Target() any { return t.target }

// Plugins returns the plugins still attached. Overwritten plugins are gone.
func (t *Tween) Plugins() []ValuePlugin { return t.plugins }

// Ease returns the easing function.
func (t *Tween) Ease() ease.TweenFunc { return t.ease }

// IsSpeedBased reports whether the duration was given as a speed.
func (t *Tween) IsSpeedBased() bool { return t.speedBased }

func (t *Tween) subject() any { return t.target }

func (t *Tween) startup() {
	for _, p := range t.plugins {
		p.Startup()
		p.SetChangeValue()
	}
	t.resolveDuration()
	if t.engine != nil {
		t.engine.overwrite.Register(t)
	}
}

// resolveDuration converts the speed passed at creation into seconds. It runs
// at startup, or earlier when a sequence needs the span.
func (t *Tween) resolveDuration() {
	if !t.speedBased || t.durationResolved {
		return
	}
	t.durationResolved = true
	d := 0.0
	for _, p := range t.plugins {
		if pd := p.SpeedBasedDuration(t.speed); pd > d {
			d = pd
		}
	}
	t.setDuration(d)
}

func (t *Tween) advance(_ updateOpts, _ float64, _ bool) {
	if t.loopType == LoopIncremental {
		applied := t.completedLoops
		if t.loops != Infinite && applied > t.loops-1 {
			applied = t.loops - 1
		}
		if diff := applied - t.appliedLoops; diff != 0 {
			for _, p := range t.plugins {
				p.SetIncremental(diff)
			}
			t.appliedLoops = applied
		}
	}

	if t.duration == 0 {
		pos := 0.0
		if t.isComplete {
			pos = 1
		}
		for _, p := range t.plugins {
			p.Evaluate(pos, 1, t.ease, false)
		}
		return
	}

	pos := t.elapsed
	if t.isLoopingBack {
		pos = t.duration - t.elapsed
	}
	inverse := t.isLoopingBack && t.loopType == LoopYoyoInverse
	for _, p := range t.plugins {
		p.Evaluate(pos, t.duration, t.ease, inverse)
	}
}

func (t *Tween) release() {
	if t.engine != nil {
		t.engine.overwrite.Unregister(t)
	}
	t.plugins = nil
}

// removePlugin drops plugins[i]; used by the overwrite manager.
func (t *Tween) removePlugin(i int) {
	copy(t.plugins[i:], t.plugins[i+1:])
	t.plugins[len(t.plugins)-1] = nil
	t.plugins = t.plugins[:len(t.plugins)-1]
}

// pathPlugin returns the only plugin when it is a path plugin.
func (t *Tween) pathPlugin(op string) *PathPlugin {
	if len(t.plugins) != 1 {
		t.engine.warnf("%s: %s needs exactly one plugin, have %d", t.describe(), op, len(t.plugins))
		return nil
	}
	pp, ok := t.plugins[0].(*PathPlugin)
	if !ok {
		t.engine.warnf("%s: %s needs a path plugin", t.describe(), op)
		return nil
	}
	return pp
}

// UsePartialPath limits a single-path tween to the stretch between two
// waypoints. Misuse logs a warning and changes nothing.
func (t *Tween) UsePartialPath(from, to int) *Tween {
	pp := t.pathPlugin("UsePartialPath")
	if pp == nil {
		return t
	}
	if !pp.UsePartialPath(from, to) {
		t.engine.warnf("%s: invalid partial path %d..%d", t.describe(), from, to)
	}
	return t
}

// ResetPath restores full-path playback after UsePartialPath.
func (t *Tween) ResetPath() *Tween {
	if pp := t.pathPlugin("ResetPath"); pp != nil {
		pp.ResetPath()
	}
	return t
}
