package glide

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/tanema/gween/ease"
)

// easeFuncs maps canonical ease names to gween implementations. Lookups go
// through normalizeName, so "outQuad", "out_quad" and "OutQuad" all resolve.
var easeFuncs = map[string]ease.TweenFunc{
	"Linear":       ease.Linear,
	"InQuad":       ease.InQuad,
	"OutQuad":      ease.OutQuad,
	"InOutQuad":    ease.InOutQuad,
	"InCubic":      ease.InCubic,
	"OutCubic":     ease.OutCubic,
	"InOutCubic":   ease.InOutCubic,
	"InQuart":      ease.InQuart,
	"OutQuart":     ease.OutQuart,
	"InOutQuart":   ease.InOutQuart,
	"InQuint":      ease.InQuint,
	"OutQuint":     ease.OutQuint,
	"InOutQuint":   ease.InOutQuint,
	"InSine":       ease.InSine,
	"OutSine":      ease.OutSine,
	"InOutSine":    ease.InOutSine,
	"InExpo":       ease.InExpo,
	"OutExpo":      ease.OutExpo,
	"InOutExpo":    ease.InOutExpo,
	"InCirc":       ease.InCirc,
	"OutCirc":      ease.OutCirc,
	"InOutCirc":    ease.InOutCirc,
	"InElastic":    ease.InElastic,
	"OutElastic":   ease.OutElastic,
	"InOutElastic": ease.InOutElastic,
	"InBack":       ease.InBack,
	"OutBack":      ease.OutBack,
	"InOutBack":    ease.InOutBack,
	"InBounce":     ease.InBounce,
	"OutBounce":    ease.OutBounce,
	"InOutBounce":  ease.InOutBounce,
}

var easeIndex = func() map[string]ease.TweenFunc {
	m := make(map[string]ease.TweenFunc, len(easeFuncs))
	for name, fn := range easeFuncs {
		m[normalizeName(name)] = fn
	}
	return m
}()

// EaseByName returns the gween ease function registered under name.
func EaseByName(name string) (ease.TweenFunc, bool) {
	fn, ok := easeIndex[normalizeName(name)]
	return fn, ok
}

// EaseNames returns the canonical ease names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(easeFuncs))
	for name := range easeFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// easeFraction returns the eased completion in [0, 1] (overshooting eases
// may leave the range) for a position inside one loop. With inverse set the
// curve is mirrored, f'(t) = 1 - f(1-t), so a YoyoInverse loop-back replays
// the forward motion's feel in reverse. The endpoints are exact.
func easeFraction(fn ease.TweenFunc, elapsed, duration float64, inverse bool) float64 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	if fn == nil {
		fn = ease.Linear
	}
	d := float32(duration)
	if inverse {
		return 1 - float64(fn(float32(duration-elapsed), 0, 1, d))
	}
	return float64(fn(float32(elapsed), 0, 1, d))
}

// SuggestEase returns the known ease name closest to name, if one is
// within three edits.
func SuggestEase(name string) (string, bool) {
	key := normalizeName(name)
	best, bestDist := "", 4
	for _, n := range EaseNames() {
		if d := levenshtein.ComputeDistance(key, normalizeName(n)); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, best != ""
}

// suggestEase formats SuggestEase as a log hint.
func suggestEase(name string) string {
	if s, ok := SuggestEase(name); ok {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}
