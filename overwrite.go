package glide

import "reflect"

// OverwriteManager resolves write conflicts between active tweens. When a
// tween activates, any older running tween writing the same property of the
// same target loses that plugin; the most recently activated writer wins.
type OverwriteManager struct {
	// Enabled turns conflict resolution on. Registration is tracked either way.
	Enabled bool
	// LogOverwrites prints every removed plugin.
	LogOverwrites bool

	engine  *Engine
	running []*Tween
}

// Len returns the number of registered tweens.
func (m *OverwriteManager) Len() int { return len(m.running) }

// Register adds t to the running list, first removing conflicting plugins
// from older tweens. A tween is registered at most once.
func (m *OverwriteManager) Register(t *Tween) {
	for _, r := range m.running {
		if r == t {
			return
		}
	}
	if m.Enabled {
		m.resolve(t)
	}
	m.running = append(m.running, t)
}

// Unregister removes t from the running list.
func (m *OverwriteManager) Unregister(t *Tween) {
	for i, r := range m.running {
		if r == t {
			copy(m.running[i:], m.running[i+1:])
			m.running[len(m.running)-1] = nil
			m.running = m.running[:len(m.running)-1]
			return
		}
	}
}

func (m *OverwriteManager) resolve(t *Tween) {
	root := t.root()
scan:
	for i := len(m.running) - 1; i >= 0; i-- {
		o := m.running[i]
		if o.destroyed || !sameTarget(o.target, t.target) {
			continue
		}
		if root != nil && !root.isComplete && o.root() == root {
			continue
		}
		if o.effectivelyPaused() || (o.owned() && o.isComplete) {
			continue
		}
		if !m.strip(t, o) {
			continue
		}
		if len(o.plugins) == 0 {
			if m.LogOverwrites {
				m.engine.logf(LogWarnings, "%s: every plugin overwritten by %s, killing", o.describe(), t.describe())
			}
			o.Kill()
			// The kill shifted the running list.
			goto scan
		}
	}
}

// strip removes from o every plugin that conflicts with one of t's, firing
// o's OnPluginOverwritten for each. It reports whether anything was removed.
func (m *OverwriteManager) strip(t, o *Tween) bool {
	removed := false
	for _, tp := range t.plugins {
		for j := len(o.plugins) - 1; j >= 0; j-- {
			op := o.plugins[j]
			if op.Property() != tp.Property() || !kindsCompatible(op.Kind(), tp.Kind()) {
				continue
			}
			if m.LogOverwrites {
				m.engine.logf(LogWarnings, "%s: %q overwritten by %s", o.describe(), op.Property(), t.describe())
			}
			o.removePlugin(j)
			removed = true
			o.emit(EventPluginOverwritten)
		}
	}
	return removed
}

func kindsCompatible(a, b Kind) bool {
	return a == KindAny || b == KindAny || a == b
}

// sameTarget compares two targets. Values of uncomparable types are never
// equal.
func sameTarget(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
