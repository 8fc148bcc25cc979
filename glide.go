package glide

import (
	"fmt"
	"math"
	"strings"
)

// Infinite is the loop count that repeats a unit forever.
const Infinite = -1

// loopEpsilon decides whether a position sitting on a loop boundary counts as
// the end of the previous loop. Changing it moves OnStepComplete/OnComplete
// across frames.
const loopEpsilon = 1e-7

// LoopType selects how a unit behaves when it starts a new loop.
type LoopType uint8

const (
	LoopRestart     LoopType = iota // jump back to the start every loop
	LoopYoyo                        // play forward, then backward, alternating
	LoopYoyoInverse                 // like Yoyo, with the ease mirrored on the way back
	LoopIncremental                 // each loop continues from where the previous ended
)

var loopTypeNames = [...]string{"restart", "yoyo", "yoyo_inverse", "incremental"}

// String returns the lower-case name of the loop type.
func (l LoopType) String() string {
	if int(l) < len(loopTypeNames) {
		return loopTypeNames[l]
	}
	return fmt.Sprintf("LoopType(%d)", l)
}

// MarshalText implements encoding.TextMarshaler.
func (l LoopType) MarshalText() ([]byte, error) {
	if int(l) >= len(loopTypeNames) {
		return nil, fmt.Errorf("glide: invalid loop type %d", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LoopType) UnmarshalText(text []byte) error {
	v, err := ParseLoopType(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLoopType converts a name such as "yoyo" or "YoyoInverse" to a LoopType.
func ParseLoopType(s string) (LoopType, error) {
	i, err := parseEnum(s, loopTypeNames[:])
	if err != nil {
		return 0, fmt.Errorf("glide: unknown loop type %q", s)
	}
	return LoopType(i), nil
}

// UpdateType selects the clock bucket a top-level unit is advanced by. Each
// bucket is polled separately by the host through Engine.Update.
type UpdateType uint8

const (
	UpdateNormal               UpdateType = iota // per-frame update, scaled by Engine.TimeScale
	UpdateLate                                   // late per-frame update, scaled
	UpdateFixed                                  // fixed-step update, scaled
	UpdateTimeScaleIndependent                   // per-frame update that ignores Engine.TimeScale
)

var updateTypeNames = [...]string{"normal", "late", "fixed", "time_scale_independent"}

// String returns the lower-case name of the update type.
func (u UpdateType) String() string {
	if int(u) < len(updateTypeNames) {
		return updateTypeNames[u]
	}
	return fmt.Sprintf("UpdateType(%d)", u)
}

// MarshalText implements encoding.TextMarshaler.
func (u UpdateType) MarshalText() ([]byte, error) {
	if int(u) >= len(updateTypeNames) {
		return nil, fmt.Errorf("glide: invalid update type %d", u)
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UpdateType) UnmarshalText(text []byte) error {
	i, err := parseEnum(string(text), updateTypeNames[:])
	if err != nil {
		return fmt.Errorf("glide: unknown update type %q", text)
	}
	*u = UpdateType(i)
	return nil
}

// LogLevel controls how chatty the engine is on its log output.
type LogLevel uint8

const (
	LogQuiet    LogLevel = iota // nothing is printed
	LogWarnings                 // misuse and invalid configuration
	LogVerbose                  // warnings plus overwrites, self-kills and pass stats
)

var logLevelNames = [...]string{"quiet", "warnings", "verbose"}

// String returns the lower-case name of the level.
func (l LogLevel) String() string {
	if int(l) < len(logLevelNames) {
		return logLevelNames[l]
	}
	return fmt.Sprintf("LogLevel(%d)", l)
}

// MarshalText implements encoding.TextMarshaler.
func (l LogLevel) MarshalText() ([]byte, error) {
	if int(l) >= len(logLevelNames) {
		return nil, fmt.Errorf("glide: invalid log level %d", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LogLevel) UnmarshalText(text []byte) error {
	i, err := parseEnum(string(text), logLevelNames[:])
	if err != nil {
		return fmt.Errorf("glide: unknown log level %q", text)
	}
	*l = LogLevel(i)
	return nil
}

// parseEnum matches s against names ignoring case, spaces, dashes and
// underscores, so "YoyoInverse", "yoyo-inverse" and "yoyo_inverse" agree.
func parseEnum(s string, names []string) (int, error) {
	key := normalizeName(s)
	for i, n := range names {
		if normalizeName(n) == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no match for %q", s)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Vec3 is a 3D vector. Paths are expressed in Vec3; 2D users leave Z at zero.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v*f.
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Dist returns the distance between v and o.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// ClampLen returns v shortened to at most maxLen. Longer vectors keep their
// direction.
func (v Vec3) ClampLen(maxLen float64) Vec3 {
	l := v.Len()
	if l <= maxLen || l == 0 {
		return v
	}
	return v.Scale(maxLen / l)
}

// XY drops the Z component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

// Disposable is implemented by targets that can be invalidated at runtime.
// A tween whose target reports IsDisposed kills itself on its next update and
// reports completion.
type Disposable interface {
	IsDisposed() bool
}

// Toggler is an auxiliary object switched on or off when a unit starts
// playing. See unit.KeepEnabled and unit.KeepDisabled.
type Toggler interface {
	SetEnabled(enabled bool)
}
