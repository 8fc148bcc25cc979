package glide

import (
	"io"
	"os"
	"time"

	"github.com/tanema/gween/ease"
)

// Engine owns every tween and sequence: the arena their handles point into,
// the top-level registry updated by Update, and the overwrite manager.
// An Engine is not safe for concurrent use; drive it from one goroutine.
type Engine struct {
	// TimeScale multiplies the delta of every scaled update bucket.
	TimeScale float64

	settings    Settings
	initialized bool
	defaultEase ease.TweenFunc

	arena     arena
	registry  []Animatable
	pending   map[int]struct{}
	overwrite OverwriteManager

	inPass   bool
	deferred []*unit

	sink  EventSink
	out   io.Writer
	debug bool
}

// New creates an engine with DefaultSettings.
func New() *Engine {
	e := &Engine{out: os.Stderr, pending: make(map[int]struct{})}
	e.overwrite.engine = e
	e.apply(DefaultSettings())
	return e
}

// Init applies settings. It may be called once; later calls log a warning
// and change nothing.
func (e *Engine) Init(s Settings) {
	if e.initialized {
		e.warnf("engine already initialized, settings ignored")
		return
	}
	e.initialized = true
	e.apply(s)
}

func (e *Engine) apply(s Settings) {
	if s.TimeScale <= 0 {
		s.TimeScale = 1
	}
	if s.PathSubdivisions < 1 {
		s.PathSubdivisions = DefaultPathSubdivisions
	}
	if s.Capacity < 0 {
		s.Capacity = 0
	}
	e.settings = s
	e.TimeScale = s.TimeScale
	e.overwrite.Enabled = s.OverwriteManager
	e.overwrite.LogOverwrites = s.LogOverwrites
	e.debug = s.Debug
	fn, ok := EaseByName(s.DefaultEase)
	if !ok {
		if s.DefaultEase != "" {
			e.warnf("unknown default ease %q%s, using Linear", s.DefaultEase, suggestEase(s.DefaultEase))
		}
		fn = ease.Linear
	}
	e.defaultEase = fn
	if len(e.arena.slots) == 0 && cap(e.arena.slots) < s.Capacity {
		e.arena = newArena(s.Capacity)
		e.registry = make([]Animatable, 0, s.Capacity)
	}
}

// Settings returns the active settings.
func (e *Engine) Settings() Settings { return e.settings }

// Overwrite returns the overwrite manager.
func (e *Engine) Overwrite() *OverwriteManager { return &e.overwrite }

// SetEventSink forwards every lifecycle event to sink. Pass nil to stop.
func (e *Engine) SetEventSink(sink EventSink) { e.sink = sink }

// SetLogOutput redirects log lines (default os.Stderr). Pass nil to silence.
func (e *Engine) SetLogOutput(w io.Writer) { e.out = w }

// SetLogLevel changes the log verbosity.
func (e *Engine) SetLogLevel(l LogLevel) { e.settings.LogLevel = l }

// SetDebugMode enables per-pass stats and nesting checks.
func (e *Engine) SetDebugMode(on bool) { e.debug = on }

// Params returns unit parameters filled with the engine defaults.
func (e *Engine) Params() Params {
	return Params{
		Ease:       e.settings.DefaultEase,
		Loops:      1,
		LoopType:   e.settings.DefaultLoopType,
		TimeScale:  1,
		AutoKill:   e.settings.DefaultAutoKill,
		UpdateType: e.settings.DefaultUpdateType,
	}
}

// To creates a tween animating target over duration seconds (or at duration
// units per second with Params.SpeedBased) and registers it for Update.
// Plugins that reject the target are dropped with a warning; when none is
// left To logs a warning and returns nil.
func (e *Engine) To(target any, duration float64, p Params, plugins ...ValuePlugin) *Tween {
	valid := make([]ValuePlugin, 0, len(plugins))
	for _, pl := range plugins {
		if pl == nil {
			e.warnf("nil plugin ignored")
			continue
		}
		if !pl.Bind(target) {
			e.warnf("plugin %q rejected target %T", pl.Property(), target)
			continue
		}
		valid = append(valid, pl)
	}
	if len(valid) == 0 {
		e.warnf("no valid plugin for target %T, tween not created", target)
		return nil
	}

	t := &Tween{target: target, plugins: valid, ease: e.resolveEase(p)}
	t.init(e, t, p)
	if p.SpeedBased {
		t.speedBased = true
		t.speed = duration
	} else {
		t.setDuration(duration)
	}
	t.handle = e.arena.alloc(t)
	e.register(t)
	return t
}

// NewSequence creates an empty sequence registered for Update. Ease and
// SpeedBased are ignored.
func (e *Engine) NewSequence(p Params) *Sequence {
	s := &Sequence{}
	s.init(e, s, p)
	s.setDuration(0)
	s.handle = e.arena.alloc(s)
	e.register(s)
	return s
}

// NewPath creates a path using the engine's subdivision setting.
func (e *Engine) NewPath(kind PathType, waypoints []Vec3, closed bool) *Path {
	p := NewPath(kind, waypoints, closed)
	if p == nil {
		e.warnf("path needs at least one waypoint")
		return nil
	}
	p.SetSubdivisions(e.settings.PathSubdivisions)
	return p
}

func (e *Engine) resolveEase(p Params) ease.TweenFunc {
	if p.EaseFunc != nil {
		return p.EaseFunc
	}
	if p.Ease == "" {
		return e.defaultEase
	}
	fn, ok := EaseByName(p.Ease)
	if !ok {
		e.warnf("unknown ease %q%s, using default", p.Ease, suggestEase(p.Ease))
		return e.defaultEase
	}
	return fn
}

// Lookup resolves a handle. It returns nil once the unit is killed.
func (e *Engine) Lookup(h Handle) Animatable { return e.arena.get(h) }

func (e *Engine) register(a Animatable) {
	u := a.unitBase()
	if u.registered {
		return
	}
	u.registered = true
	u.regIndex = len(e.registry)
	e.registry = append(e.registry, a)
}

// deregister removes u from the top-level registry. During a pass removal is
// deferred to the end of the pass.
func (e *Engine) deregister(u *unit) {
	if !u.registered {
		return
	}
	u.registered = false
	if e.inPass {
		e.pending[u.regIndex] = struct{}{}
		return
	}
	i := u.regIndex
	copy(e.registry[i:], e.registry[i+1:])
	e.registry[len(e.registry)-1] = nil
	e.registry = e.registry[:len(e.registry)-1]
	for j := i; j < len(e.registry); j++ {
		e.registry[j].unitBase().regIndex = j
	}
}

// completed fires OnComplete now, or at the end of the current pass.
func (e *Engine) completed(u *unit) {
	if e.inPass {
		e.deferred = append(e.deferred, u)
		return
	}
	u.emit(EventComplete)
}

// Update advances every top-level unit of bucket ut by dt seconds. Scaled
// buckets multiply dt by TimeScale. Units created during the pass wait for
// the next one. Completed units with auto-kill are killed, then OnComplete
// callbacks raised during the pass are fired.
func (e *Engine) Update(ut UpdateType, dt float64) {
	if e.inPass {
		e.warnf("Update called from inside an update pass, ignored")
		return
	}
	if ut != UpdateTimeScaleIndependent {
		dt *= e.TimeScale
	}
	var stats debugStats
	var start time.Time
	if e.debug {
		start = time.Now()
	}

	e.inPass = true
	n := len(e.registry)
	for i := 0; i < n; i++ {
		if len(e.pending) > 0 {
			if _, gone := e.pending[i]; gone {
				continue
			}
		}
		a := e.registry[i]
		u := a.unitBase()
		if u.updateType != ut || u.isPaused || u.destroyed {
			continue
		}
		stats.updated++
		if u.update(dt, updateOpts{}) && u.autoKill && u.isComplete && !u.destroyed {
			stats.killed++
			u.Kill()
		}
	}
	e.inPass = false

	stats.purged = e.purge()
	stats.deferred = len(e.deferred)
	e.flushDeferred()

	if e.debug {
		stats.elapsed = time.Since(start)
		stats.registered = len(e.registry)
		e.debugLog(ut, stats)
		e.debugCheckRegistry()
	}
}

func (e *Engine) purge() int {
	if len(e.pending) == 0 {
		return 0
	}
	n := len(e.pending)
	j := 0
	for i, a := range e.registry {
		if _, gone := e.pending[i]; gone {
			continue
		}
		a.unitBase().regIndex = j
		e.registry[j] = a
		j++
	}
	for k := j; k < len(e.registry); k++ {
		e.registry[k] = nil
	}
	e.registry = e.registry[:j]
	clear(e.pending)
	return n
}

func (e *Engine) flushDeferred() {
	for i := 0; i < len(e.deferred); i++ {
		e.deferred[i].emit(EventComplete)
		e.deferred[i] = nil
	}
	e.deferred = e.deferred[:0]
}

// Units returns the top-level units matching f, in registry order.
func (e *Engine) Units(f Filter) []Animatable {
	var out []Animatable
	e.each(f, func(a Animatable) { out = append(out, a) })
	return out
}

// Count returns the number of top-level units matching f.
func (e *Engine) Count(f Filter) int {
	n := 0
	e.each(f, func(Animatable) { n++ })
	return n
}

// IsTweening reports whether any live, unpaused tween animates target,
// including tweens nested in sequences.
func (e *Engine) IsTweening(target any) bool {
	for _, a := range e.registry {
		if isTweening(a, target) {
			return true
		}
	}
	return false
}

func isTweening(a Animatable, target any) bool {
	u := a.unitBase()
	if u.destroyed || u.isPaused || u.isComplete {
		return false
	}
	switch v := a.(type) {
	case *Tween:
		return sameTarget(v.target, target)
	case *Sequence:
		for _, c := range v.Children() {
			if containsTarget(c, target) {
				return true
			}
		}
	}
	return false
}

// containsTarget checks nested members, whose own pause flag does not
// matter.
func containsTarget(a Animatable, target any) bool {
	switch v := a.(type) {
	case *Tween:
		return !v.destroyed && sameTarget(v.target, target)
	case *Sequence:
		for _, c := range v.Children() {
			if containsTarget(c, target) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) each(f Filter, fn func(Animatable)) {
	if f == nil {
		f = All()
	}
	for i, a := range e.registry {
		if len(e.pending) > 0 {
			if _, gone := e.pending[i]; gone {
				continue
			}
		}
		if a.unitBase().destroyed || !f(a) {
			continue
		}
		fn(a)
	}
}

// applyOp runs op on a snapshot of the matching units, since ops may kill or
// reorder units.
func (e *Engine) applyOp(f Filter, op func(Animatable)) int {
	units := e.Units(f)
	for _, a := range units {
		op(a)
	}
	return len(units)
}

// Pause pauses every matching top-level unit and returns how many matched.
func (e *Engine) Pause(f Filter) int { return e.applyOp(f, Animatable.Pause) }

// Play resumes every matching top-level unit.
func (e *Engine) Play(f Filter) int { return e.applyOp(f, Animatable.Play) }

// PlayForward resumes every matching top-level unit forwards.
func (e *Engine) PlayForward(f Filter) int { return e.applyOp(f, Animatable.PlayForward) }

// PlayBackwards resumes every matching top-level unit backwards.
func (e *Engine) PlayBackwards(f Filter) int { return e.applyOp(f, Animatable.PlayBackwards) }

// Rewind rewinds every matching top-level unit.
func (e *Engine) Rewind(f Filter) int { return e.applyOp(f, Animatable.Rewind) }

// Restart restarts every matching top-level unit.
func (e *Engine) Restart(f Filter) int { return e.applyOp(f, Animatable.Restart) }

// Reverse flips the direction of every matching top-level unit.
func (e *Engine) Reverse(f Filter) int { return e.applyOp(f, Animatable.Reverse) }

// Complete completes every matching top-level unit.
func (e *Engine) Complete(f Filter) int { return e.applyOp(f, Animatable.Complete) }

// Kill kills every matching top-level unit.
func (e *Engine) Kill(f Filter) int { return e.applyOp(f, Animatable.Kill) }

// GoTo moves every matching top-level unit to t.
func (e *Engine) GoTo(f Filter, t float64) int {
	return e.applyOp(f, func(a Animatable) { a.GoTo(t) })
}
