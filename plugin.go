package glide

import "github.com/tanema/gween/ease"

// Kind tags the value family a plugin writes. Two plugins conflict only when
// their kinds match or either one is KindAny.
type Kind int

const (
	KindAny   Kind = -1
	KindFloat Kind = 1
	KindVec2  Kind = 2
	KindVec3  Kind = 3
	KindPath  Kind = 4
)

// ValuePlugin interpolates one property of one target. A Tween owns one
// plugin per animated property and drives it through this contract:
//
//   - Bind is called once at construction; returning false rejects the target.
//   - Startup captures start and end values when the tween activates.
//   - SetChangeValue computes end-start. It runs exactly once per activation;
//     incremental loops shift start and end without touching the change.
//   - SetIncremental shifts start and end by change*diff loops.
//   - Evaluate writes the value at elapsed seconds into a loop of length
//     duration. inverse mirrors the ease (YoyoInverse loop-backs).
//   - SpeedBasedDuration converts a units-per-second speed to seconds.
type ValuePlugin interface {
	Property() string
	Kind() Kind
	Bind(target any) bool
	Startup()
	SetChangeValue()
	SetIncremental(diff int)
	Evaluate(elapsed, duration float64, fn ease.TweenFunc, inverse bool)
	SpeedBasedDuration(speed float64) float64
}

// Property is an accessor pair for one named value on a target. How the
// accessors reach the value (struct field, map entry, component lookup) is up
// to the caller.
type Property[V any] struct {
	Name    string
	Get     func(target any) V
	Set     func(target any, v V)
	Accepts func(target any) bool // optional target check used by Bind
}

// Arithmetic supplies the vector operations a Plugin needs for V.
type Arithmetic[V any] interface {
	Add(a, b V) V
	Sub(a, b V) V
	Scale(v V, f float64) V
	Len(v V) float64
}

// FloatMath is the Arithmetic for float64.
type FloatMath struct{}

func (FloatMath) Add(a, b float64) float64 { return a + b }
func (FloatMath) Sub(a, b float64) float64 { return a - b }
func (FloatMath) Scale(v float64, f float64) float64 { return v * f }
func (FloatMath) Len(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Vec2Math is the Arithmetic for Vec2.
type Vec2Math struct{}

func (Vec2Math) Add(a, b Vec2) Vec2 { return a.Add(b) }
func (Vec2Math) Sub(a, b Vec2) Vec2 { return a.Sub(b) }
func (Vec2Math) Scale(v Vec2, f float64) Vec2 { return v.Scale(f) }
func (Vec2Math) Len(v Vec2) float64 { return v.Len() }

// Vec3Math is the Arithmetic for Vec3.
type Vec3Math struct{}

func (Vec3Math) Add(a, b Vec3) Vec3 { return a.Add(b) }
func (Vec3Math) Sub(a, b Vec3) Vec3 { return a.Sub(b) }
func (Vec3Math) Scale(v Vec3, f float64) Vec3 { return v.Scale(f) }
func (Vec3Math) Len(v Vec3) float64 { return v.Len() }

// Plugin is the reference ValuePlugin for any value with Arithmetic: it
// interpolates linearly between start and end along the eased fraction.
type Plugin[V any] struct {
	prop   Property[V]
	math   Arithmetic[V]
	kind   Kind
	target any

	value    V
	from     bool
	relative bool

	start, end, change V
}

// NewPlugin creates a plugin tweening prop towards value.
func NewPlugin[V any](prop Property[V], m Arithmetic[V], kind Kind, value V) *Plugin[V] {
	return &Plugin[V]{prop: prop, math: m, kind: kind, value: value}
}

// FloatTo tweens a float64 property to value.
func FloatTo(prop Property[float64], value float64) *Plugin[float64] {
	return NewPlugin[float64](prop, FloatMath{}, KindFloat, value)
}

// Vec2To tweens a Vec2 property to value.
func Vec2To(prop Property[Vec2], value Vec2) *Plugin[Vec2] {
	return NewPlugin[Vec2](prop, Vec2Math{}, KindVec2, value)
}

// Vec3To tweens a Vec3 property to value.
func Vec3To(prop Property[Vec3], value Vec3) *Plugin[Vec3] {
	return NewPlugin[Vec3](prop, Vec3Math{}, KindVec3, value)
}

// From makes the plugin tween from its value to the current one.
func (p *Plugin[V]) From() *Plugin[V] {
	p.from = true
	return p
}

// Relative makes the value an offset from the current one.
func (p *Plugin[V]) Relative() *Plugin[V] {
	p.relative = true
	return p
}

// AnyKind makes the plugin conflict with every plugin writing the same
// property name, whatever its kind.
func (p *Plugin[V]) AnyKind() *Plugin[V] {
	p.kind = KindAny
	return p
}

func (p *Plugin[V]) Property() string { return p.prop.Name }
func (p *Plugin[V]) Kind() Kind { return p.kind }

// Start returns the captured start value.
func (p *Plugin[V]) Start() V { return p.start }

// End returns the captured end value.
func (p *Plugin[V]) End() V { return p.end }

// Change returns end-start as computed at activation.
func (p *Plugin[V]) Change() V { return p.change }

func (p *Plugin[V]) Bind(target any) bool {
	if p.prop.Get == nil || p.prop.Set == nil {
		return false
	}
	if p.prop.Accepts != nil && !p.prop.Accepts(target) {
		return false
	}
	p.target = target
	return true
}

func (p *Plugin[V]) Startup() {
	p.start, p.end = p.endpoints()
}

func (p *Plugin[V]) endpoints() (start, end V) {
	cur := p.prop.Get(p.target)
	goal := p.value
	if p.relative {
		goal = p.math.Add(cur, p.value)
	}
	if p.from {
		return goal, cur
	}
	return cur, goal
}

func (p *Plugin[V]) SetChangeValue() {
	p.change = p.math.Sub(p.end, p.start)
}

func (p *Plugin[V]) SetIncremental(diff int) {
	shift := p.math.Scale(p.change, float64(diff))
	p.start = p.math.Add(p.start, shift)
	p.end = p.math.Add(p.end, shift)
}

func (p *Plugin[V]) Evaluate(elapsed, duration float64, fn ease.TweenFunc, inverse bool) {
	f := easeFraction(fn, elapsed, duration, inverse)
	p.prop.Set(p.target, p.math.Add(p.start, p.math.Scale(p.change, f)))
}

// SpeedBasedDuration returns |change|/speed. Before activation the change is
// estimated from the target's current value.
func (p *Plugin[V]) SpeedBasedDuration(speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	start, end := p.start, p.end
	if p.target != nil && p.math.Len(p.change) == 0 {
		start, end = p.endpoints()
	}
	return p.math.Len(p.math.Sub(end, start)) / speed
}
