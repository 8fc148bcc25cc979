package glide

import "sort"

type itemKind uint8

const (
	itemInterval itemKind = iota
	itemMember
	itemCallback
)

type seqItem struct {
	kind     itemKind
	start    float64
	duration float64 // intervals only
	member   Handle
	callback func()
}

// Sequence plays tweens, nested sequences, intervals and callbacks on one
// shared clock. Items keep an absolute start time; the sequence duration is
// the furthest item end and never shrinks.
type Sequence struct {
	unit
	items       []seqItem
	scratch     []seqItem
	scratchBusy bool
}

func (s *Sequence) subject() any { return nil }

// Len returns the number of items.
func (s *Sequence) Len() int { return len(s.items) }

// Children returns the live members in start-time order.
func (s *Sequence) Children() []Animatable {
	var out []Animatable
	for _, it := range s.items {
		if it.kind != itemMember {
			continue
		}
		if c := s.engine.arena.get(it.member); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// StartTime returns the start time of child inside s.
func (s *Sequence) StartTime(child Animatable) (float64, bool) {
	h := child.Handle()
	for _, it := range s.items {
		if it.kind == itemMember && it.member == h {
			return it.start, true
		}
	}
	return 0, false
}

// Append adds child at the current end and returns the new duration.
func (s *Sequence) Append(child Animatable) float64 {
	return s.insertMember(s.duration, child, false)
}

// Prepend adds child at time zero, shifting every existing item right by the
// child's span, and returns the new duration.
func (s *Sequence) Prepend(child Animatable) float64 {
	return s.insertMember(0, child, true)
}

// Insert adds child at time at and returns the new duration. Items already
// starting at the same time keep their order ahead of it.
func (s *Sequence) Insert(at float64, child Animatable) float64 {
	if at < 0 {
		at = 0
	}
	return s.insertMember(at, child, false)
}

// AppendInterval adds an empty gap at the end.
func (s *Sequence) AppendInterval(d float64) float64 {
	if d <= 0 || s.destroyed {
		return s.duration
	}
	s.place(seqItem{kind: itemInterval, start: s.duration, duration: d})
	s.grow(s.duration + d)
	return s.duration
}

// PrependInterval adds an empty gap at the start, shifting every item.
func (s *Sequence) PrependInterval(d float64) float64 {
	if d <= 0 || s.destroyed {
		return s.duration
	}
	s.shift(d)
	s.place(seqItem{kind: itemInterval, start: 0, duration: d})
	s.grow(s.duration + d)
	return s.duration
}

// AppendCallback schedules fn at the current end.
func (s *Sequence) AppendCallback(fn func()) float64 {
	return s.InsertCallback(s.duration, fn)
}

// InsertCallback schedules fn at time at. The callback fires each time the
// playhead reaches at, in either direction.
func (s *Sequence) InsertCallback(at float64, fn func()) float64 {
	if fn == nil || s.destroyed {
		return s.duration
	}
	if at < 0 {
		at = 0
	}
	s.place(seqItem{kind: itemCallback, start: at, callback: fn})
	s.grow(at)
	return s.duration
}

// Remove detaches child. It goes back to the engine's top-level registry,
// paused. When s is left empty it is killed, which cascades upwards.
func (s *Sequence) Remove(child Animatable) bool {
	if child == nil || s.destroyed {
		return false
	}
	c := child.unitBase()
	if c.owner != s.handle {
		return false
	}
	c.owner = Handle{}
	c.autoKill = s.engine.settings.DefaultAutoKill
	if !c.isPaused {
		c.isPaused = true
	}
	s.engine.register(child)
	s.removeMember(c, true)
	return true
}

func (s *Sequence) insertMember(at float64, child Animatable, prepend bool) float64 {
	if s.destroyed {
		return s.duration
	}
	if child == nil {
		s.engine.warnf("%s: cannot add a nil unit", s.describe())
		return s.duration
	}
	c := child.unitBase()
	switch {
	case c.destroyed:
		s.engine.warnf("%s: cannot add a killed %s", s.describe(), c.describe())
		return s.duration
	case c == &s.unit || s.hasAncestor(c):
		s.engine.warnf("%s: cannot nest a sequence inside itself", s.describe())
		return s.duration
	case c.owner == s.handle:
		s.engine.warnf("%s: %s already belongs to this sequence", s.describe(), c.describe())
		return s.duration
	case c.loops == Infinite:
		s.engine.warnf("%s: cannot add %s with infinite loops", s.describe(), c.describe())
		return s.duration
	}

	if prev := c.ownerSeq(); prev != nil {
		c.owner = Handle{}
		prev.removeMember(c, false)
	}
	s.engine.deregister(c)
	c.owner = s.handle
	c.autoKill = false
	c.isPaused = false
	if tw, ok := child.(*Tween); ok {
		tw.resolveDuration()
	}

	// The child's delay becomes part of its place on the timeline.
	span := c.delay + c.fullDuration
	at += c.delay
	c.delay, c.delayCount = 0, 0

	if prepend {
		s.shift(span)
	}
	s.place(seqItem{kind: itemMember, start: at, member: c.handle})
	if prepend {
		s.grow(s.duration + span)
	} else {
		s.grow(at + c.fullDuration)
	}
	if s.engine.debug {
		s.engine.debugCheckNesting(s)
	}
	return s.duration
}

// hasAncestor reports whether c contains s.
func (s *Sequence) hasAncestor(c *unit) bool {
	for p := s.ownerSeq(); p != nil; p = p.ownerSeq() {
		if &p.unit == c {
			return true
		}
	}
	return false
}

// place inserts it after every item starting at or before it.start.
func (s *Sequence) place(it seqItem) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].start > it.start })
	s.items = append(s.items, seqItem{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = it
}

func (s *Sequence) shift(d float64) {
	for i := range s.items {
		s.items[i].start += d
	}
}

// grow extends the duration to d if it is longer, and lets the owner know.
func (s *Sequence) grow(d float64) {
	if d <= s.duration {
		return
	}
	s.setDuration(d)
	if s.fullElapsed > s.fullDuration {
		s.fullElapsed = s.fullDuration
	}
	if o := s.ownerSeq(); o != nil {
		o.childResized(s)
	}
}

func (s *Sequence) childResized(c *Sequence) {
	for _, it := range s.items {
		if it.kind == itemMember && it.member == c.handle {
			s.grow(it.start + c.fullDuration)
			return
		}
	}
}

// removeMember drops c's item. With cascade set an emptied sequence kills
// itself.
func (s *Sequence) removeMember(c *unit, cascade bool) {
	for i, it := range s.items {
		if it.kind == itemMember && it.member == c.handle {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if cascade && len(s.items) == 0 && !s.destroyed {
		s.Kill()
	}
}

func (s *Sequence) member(it *seqItem) *unit {
	if a := s.engine.arena.get(it.member); a != nil {
		return a.unitBase()
	}
	return nil
}

// startup walks every child to its end in timeline order and back again in
// reverse, so each tween captures its start values from the state left by
// the items before it.
func (s *Sequence) startup() {
	if s.loopType == LoopIncremental {
		s.engine.warnf("%s: incremental loops are not supported on sequences, using restart", s.describe())
		s.loopType = LoopRestart
	}
	s.steadyIgnoreCallbacks = true
	items := append([]seqItem(nil), s.items...)
	for i := range items {
		if items[i].kind != itemMember {
			continue
		}
		if c := s.member(&items[i]); c != nil {
			c.goTo(c.fullDuration, goToArgs{force: true, ignore: true, startup: true})
		}
	}
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].kind != itemMember {
			continue
		}
		if c := s.member(&items[i]); c != nil {
			c.goTo(0, goToArgs{toStart: true, force: true, ignore: true, startup: true})
		}
	}
	s.steadyIgnoreCallbacks = false
}

func (s *Sequence) advance(o updateOpts, prevFull float64, prevComplete bool) {
	args := goToArgs{ignore: s.ignoring(), startup: o.startupIteration}

	// Children finish the loop being left before the playhead enters another.
	if s.duration > 0 {
		from, to := s.loopIndex(prevFull, prevComplete), s.loopIndex(s.fullElapsed, s.isComplete)
		switch {
		case to > from:
			edge := s.duration
			if s.loopBackAt(from) {
				edge = 0
			}
			if !s.drive(edge, args) {
				return
			}
		case to < from:
			edge := 0.0
			if s.loopBackAt(from) {
				edge = s.duration
			}
			if !s.drive(edge, args) {
				return
			}
		}
	}

	local := s.elapsed
	if s.isLoopingBack {
		local = s.duration - s.elapsed
	}
	if s.duration == 0 && !s.isComplete {
		local = -1
	}
	if !s.drive(local, args) {
		return
	}

	if s.ignoring() {
		return
	}
	if s.duration == 0 {
		if s.isComplete != prevComplete {
			s.fireAll(s.isComplete)
		}
		return
	}
	s.fireCallbacks(prevFull, s.fullElapsed)
}

// drive puts every member at sequence-local time local: members starting
// after local are rewound in reverse order, the rest are moved in timeline
// order. It reports false when s was killed on the way.
func (s *Sequence) drive(local float64, args goToArgs) bool {
	items, shared := s.snapshot()
	if shared {
		defer s.releaseSnapshot()
	}
	for i := len(items) - 1; i >= 0; i-- {
		it := &items[i]
		if it.kind != itemMember || it.start <= local {
			continue
		}
		if c := s.member(it); c != nil && (c.fullElapsed > 0 || c.isComplete) {
			a := args
			a.toStart, a.force = true, true
			c.goTo(0, a)
		}
		if s.destroyed {
			return false
		}
	}
	for i := range items {
		it := &items[i]
		if it.kind != itemMember || it.start > local {
			continue
		}
		c := s.member(it)
		if c == nil {
			continue
		}
		if c.fullDuration == 0 {
			c.goTo(0, args)
		} else {
			c.goTo(local-it.start, args)
		}
		if s.destroyed {
			return false
		}
	}
	return true
}

// snapshot copies the items so members and callbacks may restructure s while
// it iterates. The shared buffer is handed out once at a time; a re-entrant
// caller gets its own copy.
func (s *Sequence) snapshot() (items []seqItem, shared bool) {
	if s.scratchBusy {
		return append([]seqItem(nil), s.items...), false
	}
	s.scratchBusy = true
	s.scratch = append(s.scratch[:0], s.items...)
	return s.scratch, true
}

func (s *Sequence) releaseSnapshot() { s.scratchBusy = false }

// fireAll fires every callback, in order when forward, reversed otherwise.
func (s *Sequence) fireAll(forward bool) {
	items, shared := s.snapshot()
	if shared {
		defer s.releaseSnapshot()
	}
	n := len(items)
	for i := range items {
		it := &items[i]
		if !forward {
			it = &items[n-1-i]
		}
		if it.kind == itemCallback {
			it.callback()
			if s.destroyed {
				return
			}
		}
	}
}

// fireCallbacks fires the callbacks the playhead reached while moving from
// prev to cur (full elapsed time), loop by loop. A callback fires on arrival
// at its time, never on departure; a playhead leaving exactly 0 for the
// first time counts as arriving there. On yoyo loops the entry point of a
// loop was already reached at the end of the previous one and is skipped.
func (s *Sequence) fireCallbacks(prev, cur float64) {
	if prev == cur {
		return
	}
	forward := cur > prev
	lo, hi := prev, cur
	if !forward {
		lo, hi = cur, prev
	}
	d := s.duration
	kLo, kHi := int(lo/d), int(hi/d)
	if s.loops != Infinite && kHi > s.loops-1 {
		kHi = s.loops - 1
	}
	items, shared := s.snapshot()
	if shared {
		defer s.releaseSnapshot()
	}
	yoyo := s.loopType == LoopYoyo || s.loopType == LoopYoyoInverse

	fireLoop := func(k int) bool {
		back := s.loopBackAt(k)
		ascending := forward != back
		n := len(items)
		for j := 0; j < n; j++ {
			it := &items[j]
			if !ascending {
				it = &items[n-1-j]
			}
			if it.kind != itemCallback {
				continue
			}
			if yoyo && k > 0 && ((!back && it.start == 0) || (back && it.start == d)) {
				continue
			}
			local := it.start
			if back {
				local = d - it.start
			}
			p := float64(k)*d + local
			var hit bool
			if forward {
				hit = (p > prev || (prev == 0 && p == 0)) && p <= cur
			} else {
				hit = p >= cur && p < prev
			}
			if hit {
				it.callback()
				if s.destroyed {
					return false
				}
			}
		}
		return true
	}

	if forward {
		for k := kLo; k <= kHi; k++ {
			if !fireLoop(k) {
				return
			}
		}
		return
	}
	for k := kHi; k >= kLo; k-- {
		if !fireLoop(k) {
			return
		}
	}
}

// release kills every child. Items are cleared first so the children's
// Kill does not come back into s.
func (s *Sequence) release() {
	items := s.items
	s.items = nil
	for i := range items {
		if items[i].kind != itemMember {
			continue
		}
		if a := s.engine.arena.get(items[i].member); a != nil {
			c := a.unitBase()
			c.owner = Handle{}
			c.Kill()
		}
	}
}
