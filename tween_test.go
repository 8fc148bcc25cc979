package glide

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

// sprite is the target used across the package tests.
type sprite struct {
	X, Y     float64
	Alpha    float64
	Pos      Vec3
	disposed bool
}

func (s *sprite) IsDisposed() bool { return s.disposed }

var (
	propX = Property[float64]{
		Name: "x",
		Get:  func(t any) float64 { return t.(*sprite).X },
		Set:  func(t any, v float64) { t.(*sprite).X = v },
	}
	propY = Property[float64]{
		Name: "y",
		Get:  func(t any) float64 { return t.(*sprite).Y },
		Set:  func(t any, v float64) { t.(*sprite).Y = v },
	}
	propAlpha = Property[float64]{
		Name: "alpha",
		Get:  func(t any) float64 { return t.(*sprite).Alpha },
		Set:  func(t any, v float64) { t.(*sprite).Alpha = v },
	}
	propPos = Property[Vec3]{
		Name: "pos",
		Get:  func(t any) Vec3 { return t.(*sprite).Pos },
		Set:  func(t any, v Vec3) { t.(*sprite).Pos = v },
	}
)

func newTestEngine() (*Engine, *bytes.Buffer) {
	e := New()
	var buf bytes.Buffer
	e.SetLogOutput(&buf)
	return e, &buf
}

func linear(e *Engine) Params {
	p := e.Params()
	p.Ease = "Linear"
	return p
}

func TestTweenReachesTargetInTwoHalves(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10))

	if tw.Update(0.5) {
		t.Fatal("should not be complete at halfway")
	}
	if math.Abs(s.X-5) > 1e-6 {
		t.Errorf("X = %f, want 5 at halfway", s.X)
	}
	if !tw.Update(0.5) {
		t.Fatal("expected complete after full duration")
	}
	if !tw.IsComplete() {
		t.Fatal("IsComplete should be true")
	}
	if s.X != 10 {
		t.Errorf("X = %f, want 10", s.X)
	}
}

func TestTweenElapsedStaysInBounds(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := linear(e)
	p.Loops = 3
	p.LoopType = LoopYoyo
	tw := e.To(s, 0.7, p, FloatTo(propX, 1))

	steps := []float64{0.1, 0.33, 0.05, 0.9, 0.0, 0.41, 0.2, 1.3}
	for i, dt := range steps {
		tw.Update(dt)
		if tw.Elapsed() < 0 || tw.Elapsed() > tw.Duration() {
			t.Fatalf("step %d: elapsed %f outside [0, %f]", i, tw.Elapsed(), tw.Duration())
		}
		if tw.FullElapsed() < 0 || tw.FullElapsed() > tw.FullDuration() {
			t.Fatalf("step %d: full elapsed %f outside [0, %f]", i, tw.FullElapsed(), tw.FullDuration())
		}
	}
	tw.PlayBackwards()
	for i := 0; i < 10; i++ {
		tw.Update(0.37)
		if tw.FullElapsed() < 0 || tw.FullElapsed() > tw.FullDuration() {
			t.Fatalf("backwards step %d: full elapsed %f", i, tw.FullElapsed())
		}
	}
	if tw.FullElapsed() != 0 {
		t.Errorf("FullElapsed = %f after playing back past 0", tw.FullElapsed())
	}
}

func TestTweenSingleLoopCompletesOnce(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 1))

	transitions := 0
	prev := tw.CompletedLoops()
	for i := 0; i < 6; i++ {
		tw.Update(0.25)
		if cur := tw.CompletedLoops(); cur != prev {
			transitions++
			if cur != 1 || !tw.IsComplete() {
				t.Fatalf("completed loops %d -> %d with complete=%v", prev, cur, tw.IsComplete())
			}
			prev = cur
		}
		if tw.CompletedLoops() == 0 && tw.IsComplete() {
			t.Fatal("complete with zero completed loops")
		}
	}
	if transitions != 1 {
		t.Errorf("completed loops changed %d times, want 1", transitions)
	}
}

func TestTweenRewindIsIdempotent(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10))

	rewinds := 0
	tw.OnRewinded = func() { rewinds++ }

	tw.Update(0.5)
	tw.Rewind()
	tw.Rewind()

	if tw.FullElapsed() != 0 {
		t.Errorf("FullElapsed = %f, want 0", tw.FullElapsed())
	}
	if rewinds != 1 {
		t.Errorf("OnRewinded fired %d times, want 1", rewinds)
	}
	if !tw.IsPaused() {
		t.Error("rewound tween should be paused")
	}
	if s.X != 0 {
		t.Errorf("X = %f, want 0 after rewind", s.X)
	}
}

func TestTweenGoToRoundTrip(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := linear(e)
	p.Loops = 2
	tw := e.To(s, 1.0, p, FloatTo(propX, 10))

	for _, want := range []float64{0.3, 1.7, 0, 2, 1.25} {
		tw.GoTo(want)
		if tw.FullElapsed() != want {
			t.Errorf("GoTo(%v): FullElapsed = %v", want, tw.FullElapsed())
		}
	}
	tw.GoTo(-3)
	if tw.FullElapsed() != 0 {
		t.Errorf("GoTo(-3): FullElapsed = %v, want 0", tw.FullElapsed())
	}
	if !tw.GoTo(99) {
		t.Error("GoTo past the end should report complete")
	}
	if tw.FullElapsed() != 2 {
		t.Errorf("GoTo(99): FullElapsed = %v, want 2", tw.FullElapsed())
	}
}

func TestTweenYoyoSymmetry(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := linear(e)
	p.Loops = 2
	p.LoopType = LoopYoyo
	tw := e.To(s, 1.0, p, FloatTo(propX, 10))

	for _, x := range []float64{0, 0.25, 0.5, 0.75, 1} {
		tw.GoTo(1 + x)
		after := s.X
		tw.GoTo(1 - x)
		before := s.X
		if math.Abs(after-before) > 1e-9 {
			t.Errorf("x=%v: value %f at duration+x, %f at duration-x", x, after, before)
		}
	}
}

func TestTweenYoyoInverseMirrorsEase(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := e.Params()
	p.Ease = "InQuad"
	p.Loops = 2
	p.LoopType = LoopYoyoInverse
	tw := e.To(s, 1.0, p, FloatTo(propX, 100))

	tw.GoTo(0.25)
	forward := s.X
	// Mirrored: going back the curve is OutQuad seen from the end.
	tw.GoTo(1.75)
	back := s.X
	if math.Abs(forward-6.25) > 1e-3 {
		t.Errorf("forward InQuad at 0.25 = %f, want 6.25", forward)
	}
	if math.Abs(back-43.75) > 1e-3 {
		t.Errorf("mirrored value at 1.75 = %f, want 43.75", back)
	}
}

func TestTweenIncrementalLoops(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := linear(e)
	p.Loops = 3
	p.LoopType = LoopIncremental
	tw := e.To(s, 1.0, p, FloatTo(propX, 10))

	tw.GoTo(3)
	if math.Abs(s.X-30) > 1e-9 {
		t.Errorf("X = %f at end, want 30", s.X)
	}
	tw.GoTo(1.5)
	if math.Abs(s.X-15) > 1e-9 {
		t.Errorf("X = %f at 1.5, want 15", s.X)
	}
	tw.GoTo(0)
	if math.Abs(s.X) > 1e-9 {
		t.Errorf("X = %f at 0, want 0", s.X)
	}
}

func TestTweenRestartLoopEvents(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := linear(e)
	p.Loops = 3
	tw := e.To(s, 1.0, p, FloatTo(propX, 1))

	var log []string
	tw.OnStart = func() { log = append(log, "start") }
	tw.OnPlay = func() { log = append(log, "play") }
	tw.OnStepComplete = func() { log = append(log, "step") }
	tw.OnPause = func() { log = append(log, "pause") }
	tw.OnComplete = func() { log = append(log, "complete") }

	for i := 0; i < 8; i++ {
		tw.Update(0.5)
	}
	want := "start play step step step pause complete"
	if got := strings.Join(log, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestTweenDelay(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := linear(e)
	p.Delay = 0.5
	tw := e.To(s, 1.0, p, FloatTo(propX, 10))

	started := false
	tw.OnStart = func() { started = true }

	if tw.Update(0.3) {
		t.Fatal("delayed tween reported complete")
	}
	if started || tw.HasStarted() || s.X != 0 {
		t.Fatal("tween advanced while delayed")
	}
	tw.Update(0.3)
	if !started {
		t.Fatal("expected OnStart once the delay ran out")
	}
	if math.Abs(tw.FullElapsed()-0.1) > 1e-9 {
		t.Errorf("FullElapsed = %f, want leftover 0.1", tw.FullElapsed())
	}
}

func TestTweenDisposedTargetKillsItself(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{X: 3}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10))

	tw.Update(0.1)
	s.disposed = true
	saved := s.X

	if !tw.Update(0.1) {
		t.Fatal("expected complete after target disposed")
	}
	if !tw.IsDestroyed() {
		t.Fatal("expected tween to kill itself")
	}
	if s.X != saved {
		t.Errorf("X changed to %f on disposed target", s.X)
	}
	if e.Lookup(tw.Handle()) != nil {
		t.Error("handle should not resolve after kill")
	}
}

func TestTweenKillIsIdempotent(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10))

	tw.Kill()
	tw.Kill()
	if !tw.IsDestroyed() {
		t.Fatal("expected destroyed")
	}
	if !tw.Update(0.5) {
		t.Error("Update on a killed tween should report complete")
	}
	if e.Count(All()) != 0 {
		t.Errorf("registry holds %d units after kill", e.Count(All()))
	}
	select {
	case <-tw.Done():
	default:
		t.Error("Done should be closed after Kill")
	}
}

func TestTweenDoneClosesOnComplete(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 0.5, linear(e), FloatTo(propX, 10))
	done := tw.Done()

	tw.Update(0.25)
	select {
	case <-done:
		t.Fatal("Done closed early")
	default:
	}
	tw.Update(0.25)
	select {
	case <-done:
	default:
		t.Fatal("Done should be closed after completion")
	}
}

func TestTweenCompleteHonorsAutoKill(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10))

	tw.Complete()
	if s.X != 10 {
		t.Errorf("X = %f after Complete, want 10", s.X)
	}
	if !tw.IsDestroyed() {
		t.Error("auto-kill tween should be killed by Complete")
	}

	p := linear(e)
	p.Loops = Infinite
	inf := e.To(s, 1.0, p, FloatTo(propY, 10))
	inf.Complete()
	if inf.IsComplete() || inf.IsDestroyed() {
		t.Error("Complete should leave infinite tweens alone")
	}
}

func TestTweenFromAndRelative(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{X: 5, Y: 5}
	e.To(s, 1.0, linear(e), FloatTo(propX, 20).From(), FloatTo(propY, 10).Relative())

	e.Update(UpdateNormal, 0.5)
	if math.Abs(s.X-12.5) > 1e-9 {
		t.Errorf("From: X = %f at halfway, want 12.5", s.X)
	}
	if math.Abs(s.Y-10) > 1e-9 {
		t.Errorf("Relative: Y = %f at halfway, want 10", s.Y)
	}
	e.Update(UpdateNormal, 0.5)
	if s.X != 5 || s.Y != 15 {
		t.Errorf("end values X=%f Y=%f, want 5 and 15", s.X, s.Y)
	}
}

func TestTweenSpeedBased(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := linear(e)
	p.SpeedBased = true
	tw := e.To(s, 4, p, FloatTo(propX, 10)) // 4 units per second

	tw.Update(0.5)
	if tw.Duration() != 2.5 {
		t.Fatalf("Duration = %f, want 2.5", tw.Duration())
	}
	if math.Abs(s.X-2) > 1e-5 {
		t.Errorf("X = %f after 0.5s, want 2", s.X)
	}
}

func TestTweenZeroDuration(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 0, linear(e), FloatTo(propX, 10))

	if !tw.Update(0) {
		t.Fatal("zero-duration tween should complete on its first update")
	}
	if s.X != 10 {
		t.Errorf("X = %f, want 10", s.X)
	}
	if tw.CompletedLoops() != 1 {
		t.Errorf("CompletedLoops = %d, want 1", tw.CompletedLoops())
	}
}

func TestTweenKeepEnabledToggles(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10))

	on, off := &toggle{}, &toggle{state: true}
	tw.KeepEnabled(on)
	tw.KeepDisabled(off)
	tw.Update(0.1)
	if !on.state || off.state {
		t.Errorf("after start: kept-enabled=%v kept-disabled=%v", on.state, off.state)
	}
}

type toggle struct{ state bool }

func (t *toggle) SetEnabled(on bool) { t.state = on }

func TestTweenPartialPathMisuseWarns(t *testing.T) {
	e, buf := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10), FloatTo(propY, 10))

	if got := tw.UsePartialPath(0, 1); got != tw {
		t.Fatal("UsePartialPath should return the receiver")
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("expected a warning, log = %q", buf.String())
	}
}

func TestTweenPartialPath(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	path := e.NewPath(PathLinear, []Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {2, 4, 0}}, false)
	tw := e.To(s, 1.0, linear(e), PathTo(propPos, path))

	tw.UsePartialPath(1, 2)
	tw.GoToWith(0, GoToOptions{Force: true})
	if s.Pos.Dist(Vec3{2, 0, 0}) > 1e-9 {
		t.Errorf("partial start = %+v, want (2,0,0)", s.Pos)
	}
	tw.GoTo(1)
	if s.Pos.Dist(Vec3{2, 2, 0}) > 1e-9 {
		t.Errorf("partial end = %+v, want (2,2,0)", s.Pos)
	}
	tw.ResetPath()
	tw.GoTo(0.5)
	tw.GoTo(1)
	if s.Pos.Dist(Vec3{2, 4, 0}) > 1e-9 {
		t.Errorf("full end = %+v, want (2,4,0)", s.Pos)
	}
}

func TestOwnedTweenIgnoresPublicControls(t *testing.T) {
	e, buf := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10))
	seq := e.NewSequence(e.Params())
	seq.Append(tw)

	tw.GoTo(0.5)
	tw.Pause()
	if tw.FullElapsed() != 0 {
		t.Errorf("owned tween moved to %f", tw.FullElapsed())
	}
	if !strings.Contains(buf.String(), "controlled by a sequence") {
		t.Errorf("expected ownership warning, log = %q", buf.String())
	}
}

// eventLog records the loop events of a unit as a space-separated string.
func eventLog(tw *Tween) *[]string {
	var log []string
	tw.OnStart = func() { log = append(log, "start") }
	tw.OnPlay = func() { log = append(log, "play") }
	tw.OnStepComplete = func() { log = append(log, "step") }
	tw.OnPause = func() { log = append(log, "pause") }
	tw.OnComplete = func() { log = append(log, "complete") }
	return &log
}

func TestTweenCompletesWithinLoopEpsilon(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 1.0, linear(e), FloatTo(propX, 10))
	log := eventLog(tw)

	tw.Update(1 - 2e-7)
	if tw.IsComplete() || tw.CompletedLoops() != 0 {
		t.Fatalf("2e-7 before the end: complete=%v loops=%d, want neither", tw.IsComplete(), tw.CompletedLoops())
	}
	tw.Update(1.5e-7)
	if !tw.IsComplete() || tw.CompletedLoops() != 1 {
		t.Fatalf("5e-8 before the end: complete=%v loops=%d, want complete with 1 loop", tw.IsComplete(), tw.CompletedLoops())
	}
	if tw.FullElapsed() != tw.FullDuration() {
		t.Errorf("FullElapsed = %v, want it snapped to %v", tw.FullElapsed(), tw.FullDuration())
	}
	if s.X != 10 {
		t.Errorf("X = %f, want 10", s.X)
	}
	tw.Update(1e-7)

	want := "start play step pause complete"
	if got := strings.Join(*log, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestTweenLoopBoundariesWithinEpsilon(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	p := linear(e)
	p.Loops = 3
	tw := e.To(s, 1.0, p, FloatTo(propX, 10))
	log := eventLog(tw)

	// Lands at 1-5e-8, 1+5e-8, 2-5e-8, 2+5e-8, 3-5e-8.
	steps := []float64{1 - 5e-8, 1e-7, 1 - 1e-7, 1e-7, 1 - 1e-7}
	wantLoops := []int{1, 1, 2, 2, 3}
	for i, dt := range steps {
		tw.Update(dt)
		if got := tw.CompletedLoops(); got != wantLoops[i] {
			t.Fatalf("step %d: CompletedLoops = %d, want %d", i, got, wantLoops[i])
		}
		if tw.Elapsed() < 0 || tw.Elapsed() > tw.Duration() {
			t.Fatalf("step %d: elapsed %v outside the loop", i, tw.Elapsed())
		}
	}
	if !tw.IsComplete() {
		t.Fatal("expected complete 5e-8 before the end of the last loop")
	}
	tw.Update(1)

	want := "start play step step step pause complete"
	if got := strings.Join(*log, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestTweenFrameStepsCompleteOnce(t *testing.T) {
	e, _ := newTestEngine()
	s := &sprite{}
	tw := e.To(s, 0.5, linear(e), FloatTo(propX, 10))
	steps, completes := 0, 0
	tw.OnStepComplete = func() { steps++ }
	tw.OnComplete = func() { completes++ }

	for i := 0; i < 40; i++ {
		e.Update(UpdateNormal, 1.0/60)
	}
	if steps != 1 || completes != 1 {
		t.Errorf("step complete fired %d times, complete %d times, want 1 each", steps, completes)
	}
	if s.X != 10 {
		t.Errorf("X = %f, want 10", s.X)
	}
}
