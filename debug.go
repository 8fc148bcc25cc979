package glide

import (
	"fmt"
	"time"
)

// debugStats holds per-pass metrics. Only populated in debug mode.
type debugStats struct {
	elapsed    time.Duration
	updated    int
	killed     int
	purged     int
	deferred   int
	registered int
}

// logf prints one prefixed line when the engine's level is at least level.
func (e *Engine) logf(level LogLevel, format string, args ...any) {
	if e == nil || e.out == nil || e.settings.LogLevel < level || level == LogQuiet {
		return
	}
	prefix := "[glide] "
	if level == LogWarnings {
		prefix = "[glide] warning: "
	}
	_, _ = fmt.Fprintf(e.out, prefix+format+"\n", args...)
}

func (e *Engine) warnf(format string, args ...any) { e.logf(LogWarnings, format, args...) }

// debugLog prints pass stats.
func (e *Engine) debugLog(ut UpdateType, s debugStats) {
	if !e.debug || e.out == nil {
		return
	}
	_, _ = fmt.Fprintf(e.out,
		"[glide] %s pass: %v | updated: %d | killed: %d | purged: %d | completions: %d | registered: %d | arena: %d\n",
		ut, s.elapsed, s.updated, s.killed, s.purged, s.deferred, s.registered, e.arena.live)
}

// debugCheckNesting warns if sequences are nested deeper than the threshold.
const debugMaxNestingDepth = 16

func (e *Engine) debugCheckNesting(s *Sequence) {
	if e.out == nil {
		return
	}
	depth := 0
	for p := s; p != nil; p = p.ownerSeq() {
		depth++
	}
	if depth > debugMaxNestingDepth {
		_, _ = fmt.Fprintf(e.out, "[glide] warning: sequence nesting depth %d exceeds %d (%s)\n",
			depth, debugMaxNestingDepth, s.describe())
	}
}

// debugCheckRegistry warns if the registry holds more units than the
// threshold.
const debugMaxRegistered = 10000

func (e *Engine) debugCheckRegistry() {
	if e.out != nil && len(e.registry) > debugMaxRegistered {
		_, _ = fmt.Fprintf(e.out, "[glide] warning: %d registered units (threshold %d)\n",
			len(e.registry), debugMaxRegistered)
	}
}
