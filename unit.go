package glide

import "math"

// Animatable is implemented by *Tween and *Sequence. Every control method is
// promoted from the shared unit state machine.
type Animatable interface {
	Update(dt float64) bool
	GoTo(t float64) bool
	GoToAndPlay(t float64) bool
	GoToWith(t float64, opts GoToOptions) bool
	Complete()
	Kill()
	Pause()
	Play()
	PlayForward()
	PlayBackwards()
	Rewind()
	Restart()
	Reverse()

	Handle() Handle
	Done() <-chan struct{}
	IsPaused() bool
	IsComplete() bool
	IsReversed() bool
	IsLoopingBack() bool
	IsDestroyed() bool
	HasStarted() bool
	Elapsed() float64
	FullElapsed() float64
	Duration() float64
	FullDuration() float64
	CompletedLoops() int

	unitBase() *unit
}

// stepper is the part of the state machine that differs between tweens and
// sequences.
type stepper interface {
	// startup runs once, on the first update that gets past the delay.
	startup()
	// advance applies the new position to plugins or children.
	advance(o updateOpts, prevFull float64, prevComplete bool)
	subject() any
	// release detaches plugins or children when the unit is killed.
	release()
}

// GoToOptions tunes GoToWith.
type GoToOptions struct {
	Play            bool // resume playback after the jump
	Force           bool // update even if the position is unchanged
	IgnoreCallbacks bool // suppress lifecycle events for this jump
}

type updateOpts struct {
	force            bool
	startupIteration bool
	ignoreCallbacks  bool
	ignoreDelay      bool
	goTo             bool
	position         float64
	toStart          bool
}

var closedDone = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// unit is the state machine shared by tweens and sequences.
type unit struct {
	Callbacks
	ID    string
	IntID int

	engine *Engine
	self   stepper
	handle Handle
	owner  Handle // owning sequence, zero when top-level

	registered bool
	regIndex   int

	duration     float64
	fullDuration float64
	elapsed      float64
	fullElapsed  float64
	delay        float64
	delayCount   float64
	loops        int
	loopType     LoopType
	timeScale    float64
	updateType   UpdateType

	completedLoops int
	isReversed     bool
	isLoopingBack  bool
	isPaused       bool
	isComplete     bool
	hasStarted     bool
	startupDone    bool
	autoKill       bool
	enabled        bool
	destroyed      bool

	steadyIgnoreCallbacks bool
	ignoreCallbacks       bool

	keepEnabled  []Toggler
	keepDisabled []Toggler

	done       chan struct{}
	doneClosed bool
}

func (u *unit) unitBase() *unit { return u }

func (u *unit) init(e *Engine, self stepper, p Params) {
	u.engine = e
	u.self = self
	u.ID = p.ID
	u.IntID = p.IntID
	u.loops = p.Loops
	if u.loops == 0 || u.loops < Infinite {
		u.loops = 1
	}
	u.loopType = p.LoopType
	u.timeScale = p.TimeScale
	if u.timeScale <= 0 {
		u.timeScale = 1
	}
	u.delay = math.Max(p.Delay, 0)
	u.delayCount = u.delay
	u.autoKill = p.AutoKill
	u.updateType = p.UpdateType
	u.isPaused = p.Paused
	u.enabled = true
}

func (u *unit) setDuration(d float64) {
	u.duration = math.Max(d, 0)
	switch {
	case u.duration == 0:
		u.fullDuration = 0
	case u.loops == Infinite:
		u.fullDuration = math.Inf(1)
	default:
		u.fullDuration = u.duration * float64(u.loops)
	}
}

func (u *unit) ignoring() bool { return u.steadyIgnoreCallbacks || u.ignoreCallbacks }

func (u *unit) fire(t EventType) {
	if u.ignoring() {
		return
	}
	u.emit(t)
}

func (u *unit) emit(t EventType) {
	if fn := u.hook(t); fn != nil {
		fn()
	}
	if u.engine != nil && u.engine.sink != nil {
		u.engine.sink.EmitEvent(Event{Type: t, Handle: u.handle, ID: u.ID, IntID: u.IntID, Target: u.self.subject()})
	}
}

func (u *unit) owned() bool { return !u.owner.IsZero() }

func (u *unit) ownerSeq() *Sequence {
	if u.owner.IsZero() || u.engine == nil {
		return nil
	}
	if s, ok := u.engine.arena.get(u.owner).(*Sequence); ok {
		return s
	}
	return nil
}

// root returns the outermost sequence containing u, or nil for top-level
// units.
func (u *unit) root() *Sequence {
	var r *Sequence
	for s := u.ownerSeq(); s != nil; s = s.ownerSeq() {
		r = s
	}
	return r
}

// effectivelyPaused reports the pause state that governs u: its own for
// top-level units, the root sequence's for nested ones.
func (u *unit) effectivelyPaused() bool {
	if r := u.root(); r != nil {
		return r.isPaused
	}
	return u.isPaused
}

func (u *unit) update(dt float64, o updateOpts) bool {
	if u.destroyed {
		return true
	}
	if d, ok := u.self.subject().(Disposable); ok && d.IsDisposed() {
		u.engine.logf(LogVerbose, "%s: target disposed, killing", u.describe())
		u.Kill()
		return true
	}
	if !u.enabled {
		return false
	}
	if u.isComplete && !u.isReversed && !o.force {
		return true
	}
	if u.isPaused && !o.force {
		return false
	}

	u.ignoreCallbacks = o.startupIteration || o.ignoreCallbacks
	defer func() { u.ignoreCallbacks = false }()

	dt *= u.timeScale
	if !o.goTo && !o.ignoreDelay && u.delayCount > 0 {
		u.delayCount -= dt
		if u.delayCount > 0 {
			return false
		}
		dt = -u.delayCount
		u.delayCount = 0
	}

	if !u.startupDone {
		u.startupDone = true
		u.self.startup()
		if u.destroyed {
			return true
		}
	}

	prevFull := u.fullElapsed
	prevComplete := u.isComplete
	prevLoops := u.completedLoops

	switch {
	case o.goTo:
		u.fullElapsed = o.position
	case u.isReversed:
		u.fullElapsed -= dt
	default:
		u.fullElapsed += dt
	}
	if u.fullElapsed < 0 {
		u.fullElapsed = 0
	} else if u.fullElapsed > u.fullDuration {
		u.fullElapsed = u.fullDuration
	}

	if u.fullDuration == 0 {
		if o.goTo {
			u.isComplete = !o.toStart
		} else {
			u.isComplete = !u.isReversed
		}
	} else {
		// Finite units complete with their last loop; the playhead snaps to
		// the end.
		u.setLoops()
		u.isComplete = u.loops != Infinite && u.completedLoops >= u.loops
		if u.isComplete {
			u.fullElapsed = u.fullDuration
		}
	}

	if u.fullElapsed == prevFull && u.isComplete == prevComplete && !o.force {
		return u.isComplete
	}

	u.setLoops()
	u.setElapsed()
	u.setLoopingBack()

	if !u.hasStarted && !u.ignoring() {
		u.hasStarted = true
		u.fire(EventStart)
		u.firePlay()
	}

	u.self.advance(o, prevFull, prevComplete)
	if u.destroyed {
		return true
	}

	if u.fullElapsed != prevFull {
		u.fire(EventUpdate)
	}

	rewinded := (u.fullElapsed == 0 && prevFull > 0) ||
		(u.fullDuration == 0 && prevComplete && !u.isComplete)
	switch {
	case rewinded:
		if !u.isPaused {
			u.isPaused = true
			u.fire(EventPause)
		}
		u.fire(EventRewinded)
	case u.isComplete && !prevComplete:
		u.fire(EventStepComplete)
		if !u.isPaused {
			u.isPaused = true
			u.fire(EventPause)
		}
		if !u.ignoring() {
			u.engine.completed(u)
		}
		if !o.startupIteration && !u.steadyIgnoreCallbacks {
			u.closeDone()
		}
	case !u.isComplete && u.completedLoops > prevLoops && u.fullElapsed > prevFull:
		u.fire(EventStepComplete)
	}
	return u.isComplete
}

// setLoops derives completedLoops from fullElapsed. A position within 1e-7
// loops of a boundary counts as having reached it.
func (u *unit) setLoops() { u.completedLoops = u.loopsAt(u.fullElapsed) }

// loopsAt returns the number of loops completed at full elapsed time full.
func (u *unit) loopsAt(full float64) int {
	if u.duration <= 0 {
		return 1
	}
	n := full / u.duration
	c := math.Ceil(n)
	if c-n < loopEpsilon {
		return int(c)
	}
	return int(c) - 1
}

// loopIndex returns the loop the playhead is in at full; a complete unit
// sits at the end of its last loop.
func (u *unit) loopIndex(full float64, complete bool) int {
	if complete && u.loops != Infinite {
		return u.loops - 1
	}
	return u.loopsAt(full)
}

// setElapsed derives the position inside the current loop. A loop boundary
// reached through the epsilon counts as the start of the next loop.
func (u *unit) setElapsed() {
	switch {
	case u.duration <= 0 || (u.loops != Infinite && u.completedLoops >= u.loops):
		u.elapsed = u.duration
	default:
		u.elapsed = math.Min(math.Max(u.fullElapsed-float64(u.completedLoops)*u.duration, 0), u.duration)
	}
}

func (u *unit) setLoopingBack() {
	if u.loopType != LoopYoyo && u.loopType != LoopYoyoInverse {
		u.isLoopingBack = false
		return
	}
	odd := u.completedLoops%2 == 1
	if u.loops == Infinite || u.completedLoops < u.loops {
		u.isLoopingBack = odd
	} else {
		u.isLoopingBack = !odd
	}
}

// loopBackAt reports whether loop k (0-based) plays backwards.
func (u *unit) loopBackAt(k int) bool {
	if u.loopType != LoopYoyo && u.loopType != LoopYoyoInverse {
		return false
	}
	return k%2 == 1
}

func (u *unit) firePlay() {
	u.fire(EventPlay)
	for _, t := range u.keepEnabled {
		t.SetEnabled(true)
	}
	for _, t := range u.keepDisabled {
		t.SetEnabled(false)
	}
}

type goToArgs struct {
	toStart bool
	play    bool
	force   bool
	ignore  bool
	startup bool
}

func (u *unit) goTo(t float64, a goToArgs) bool {
	if u.destroyed {
		return true
	}
	if t < 0 {
		t = 0
	} else if t > u.fullDuration {
		t = u.fullDuration
	}
	unchanged := t == u.fullElapsed
	if u.fullDuration == 0 {
		unchanged = unchanged && u.isComplete == !a.toStart
	}
	if unchanged && !a.force {
		if a.play {
			u.play()
		}
		return u.isComplete
	}
	if t > 0 {
		u.delayCount = 0
	}
	u.update(0, updateOpts{
		force:            true,
		goTo:             true,
		position:         t,
		toStart:          a.toStart,
		ignoreCallbacks:  a.ignore,
		startupIteration: a.startup,
		ignoreDelay:      true,
	})
	if a.play && !u.destroyed {
		u.play()
	}
	return u.isComplete
}

// guard warns and reports false when a public control is used on a unit
// owned by a sequence.
func (u *unit) guard(op string) bool {
	if u.destroyed {
		return false
	}
	if u.owned() {
		u.engine.warnf("%s: %s ignored, unit is controlled by a sequence", u.describe(), op)
		return false
	}
	return true
}

// Update advances the unit by dt seconds (scaled by its time scale) and
// reports whether it is complete. Units registered with an Engine are updated
// by Engine.Update; call this only for manual stepping.
func (u *unit) Update(dt float64) bool {
	if u.owned() {
		u.engine.warnf("%s: Update ignored, unit is controlled by a sequence", u.describe())
		return u.isComplete
	}
	return u.update(dt, updateOpts{})
}

// GoTo jumps to t seconds of full elapsed time and reports completion. The
// pause state is unchanged.
func (u *unit) GoTo(t float64) bool {
	if !u.guard("GoTo") {
		return u.isComplete || u.destroyed
	}
	return u.goTo(t, goToArgs{})
}

// GoToAndPlay jumps to t and resumes playback.
func (u *unit) GoToAndPlay(t float64) bool {
	if !u.guard("GoToAndPlay") {
		return u.isComplete || u.destroyed
	}
	return u.goTo(t, goToArgs{play: true})
}

// GoToWith jumps to t with explicit options.
func (u *unit) GoToWith(t float64, opts GoToOptions) bool {
	if !u.guard("GoTo") {
		return u.isComplete || u.destroyed
	}
	return u.goTo(t, goToArgs{play: opts.Play, force: opts.Force, ignore: opts.IgnoreCallbacks})
}

// Complete jumps to the end. Units with infinite loops are left alone.
// Completing a unit with auto-kill set kills it.
func (u *unit) Complete() {
	if !u.guard("Complete") || u.loops == Infinite {
		return
	}
	u.goTo(u.fullDuration, goToArgs{force: true})
	if u.autoKill && u.isComplete {
		u.Kill()
	}
}

// Kill destroys the unit. It is detached from its sequence, removed from every
// registry and its handle stops resolving. Killing twice is a no-op.
func (u *unit) Kill() {
	if u.destroyed {
		return
	}
	u.destroyed = true
	u.isPaused = true
	u.self.release()
	if s := u.ownerSeq(); s != nil {
		u.owner = Handle{}
		s.removeMember(u, true)
	}
	u.owner = Handle{}
	if u.engine != nil {
		u.engine.deregister(u)
		u.engine.arena.release(u.handle)
	}
	u.closeDone()
}

// Pause stops playback.
func (u *unit) Pause() {
	if !u.guard("Pause") {
		return
	}
	if !u.isPaused {
		u.isPaused = true
		u.emit(EventPause)
	}
}

// Play resumes playback in the current direction.
func (u *unit) Play() {
	if !u.guard("Play") {
		return
	}
	u.play()
}

func (u *unit) play() {
	if !u.enabled || !u.isPaused {
		return
	}
	u.isPaused = false
	u.firePlay()
}

// PlayForward resumes playback forwards.
func (u *unit) PlayForward() {
	if !u.guard("PlayForward") {
		return
	}
	u.isReversed = false
	u.play()
}

// PlayBackwards resumes playback backwards.
func (u *unit) PlayBackwards() {
	if !u.guard("PlayBackwards") {
		return
	}
	u.isReversed = true
	u.play()
}

// Rewind jumps to the start, restores the delay and pauses.
func (u *unit) Rewind() {
	if !u.guard("Rewind") {
		return
	}
	u.rewind(false)
}

// Restart rewinds and plays.
func (u *unit) Restart() {
	if !u.guard("Restart") {
		return
	}
	u.rewind(true)
}

func (u *unit) rewind(play bool) {
	u.delayCount = u.delay
	u.isReversed = false
	u.goTo(0, goToArgs{toStart: true})
	if u.destroyed {
		return
	}
	if play {
		u.hasStarted = false
		u.play()
		return
	}
	if !u.isPaused {
		u.isPaused = true
		u.emit(EventPause)
	}
}

// Reverse flips the playback direction.
func (u *unit) Reverse() {
	if !u.guard("Reverse") {
		return
	}
	u.isReversed = !u.isReversed
}

// SetEnabled enables or disables the unit. A disabled unit ignores updates.
func (u *unit) SetEnabled(on bool) { u.enabled = on }

// SetTimeScale changes the unit's own time multiplier.
func (u *unit) SetTimeScale(s float64) {
	if s > 0 {
		u.timeScale = s
	}
}

// SetAutoKill changes whether the unit is killed when it completes. Units
// owned by a sequence never auto-kill.
func (u *unit) SetAutoKill(on bool) {
	if !u.owned() {
		u.autoKill = on
	}
}

// KeepEnabled registers objects switched on whenever the unit starts playing.
func (u *unit) KeepEnabled(objs ...Toggler) { u.keepEnabled = append(u.keepEnabled, objs...) }

// KeepDisabled registers objects switched off whenever the unit starts
// playing.
func (u *unit) KeepDisabled(objs ...Toggler) { u.keepDisabled = append(u.keepDisabled, objs...) }

// Done returns a channel closed the first time the unit completes, or when it
// is killed.
func (u *unit) Done() <-chan struct{} {
	if u.doneClosed {
		return closedDone
	}
	if u.done == nil {
		u.done = make(chan struct{})
	}
	return u.done
}

func (u *unit) closeDone() {
	if u.doneClosed {
		return
	}
	u.doneClosed = true
	if u.done != nil {
		close(u.done)
	}
}

func (u *unit) Handle() Handle         { return u.handle }
func (u *unit) IsPaused() bool         { return u.isPaused }
func (u *unit) IsComplete() bool       { return u.isComplete }
func (u *unit) IsReversed() bool       { return u.isReversed }
func (u *unit) IsLoopingBack() bool    { return u.isLoopingBack }
func (u *unit) IsDestroyed() bool      { return u.destroyed }
func (u *unit) IsEnabled() bool        { return u.enabled }
func (u *unit) HasStarted() bool       { return u.hasStarted }
func (u *unit) Elapsed() float64       { return u.elapsed }
func (u *unit) FullElapsed() float64   { return u.fullElapsed }
func (u *unit) Duration() float64      { return u.duration }
func (u *unit) FullDuration() float64  { return u.fullDuration }
func (u *unit) CompletedLoops() int    { return u.completedLoops }
func (u *unit) Loops() int             { return u.loops }
func (u *unit) LoopType() LoopType     { return u.loopType }
func (u *unit) Delay() float64         { return u.delay }
func (u *unit) TimeScale() float64     { return u.timeScale }
func (u *unit) UpdateType() UpdateType { return u.updateType }
func (u *unit) AutoKill() bool         { return u.autoKill }

func (u *unit) describe() string {
	kind := "tween"
	if _, ok := u.self.(*Sequence); ok {
		kind = "sequence"
	}
	if u.ID != "" {
		return kind + " " + u.ID
	}
	return kind
}
