package glide

// Handle is a stable reference to a unit owned by an Engine. A handle stays
// comparable after its unit is killed; Engine.Lookup then returns nil because
// the slot generation moved on. The zero Handle never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

type arenaSlot struct {
	gen  uint32
	unit Animatable
}

// arena stores every live unit of an engine. Sequences reference their
// children, and children their owner, through handles into this arena.
type arena struct {
	slots []arenaSlot
	free  []uint32
	live  int
}

func newArena(capacity int) arena {
	return arena{slots: make([]arenaSlot, 0, capacity)}
}

func (a *arena) alloc(u Animatable) Handle {
	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.unit = u
		return Handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, arenaSlot{gen: 1, unit: u})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena) get(h Handle) Animatable {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.unit
}

func (a *arena) release(h Handle) {
	if a.get(h) == nil {
		return
	}
	s := &a.slots[h.index]
	s.unit = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.live--
}
