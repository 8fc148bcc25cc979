package glide

import "github.com/tanema/gween/ease"

// PathPlugin moves a Vec3 property along a Path. By default movement is at
// constant speed; the eased fraction is interpreted as a fraction of the path
// length.
type PathPlugin struct {
	prop   Property[Vec3]
	path   *Path
	kind   Kind
	target any

	constantSpeed bool
	relative      bool

	partial        bool
	fromPct, toPct float64

	change Vec3
}

// PathTo creates a plugin moving prop along path.
func PathTo(prop Property[Vec3], path *Path) *PathPlugin {
	return &PathPlugin{prop: prop, path: path, kind: KindPath, constantSpeed: true, toPct: 1}
}

// ConstantSpeed toggles length-based (true) or parametric (false) traversal.
func (p *PathPlugin) ConstantSpeed(on bool) *PathPlugin {
	p.constantSpeed = on
	return p
}

// Relative moves the path so it starts at the target's current value.
func (p *PathPlugin) Relative() *PathPlugin {
	p.relative = true
	return p
}

// AnyKind makes the plugin conflict with every plugin writing the same
// property name.
func (p *PathPlugin) AnyKind() *PathPlugin {
	p.kind = KindAny
	return p
}

// Path returns the path being followed.
func (p *PathPlugin) Path() *Path { return p.path }

func (p *PathPlugin) Property() string { return p.prop.Name }
func (p *PathPlugin) Kind() Kind { return p.kind }

func (p *PathPlugin) Bind(target any) bool {
	if p.path == nil || p.prop.Get == nil || p.prop.Set == nil {
		return false
	}
	if p.prop.Accepts != nil && !p.prop.Accepts(target) {
		return false
	}
	p.target = target
	return true
}

func (p *PathPlugin) Startup() {
	if p.relative {
		p.path.Translate(p.prop.Get(p.target).Sub(p.path.first()))
	}
}

// SetChangeValue records the offset between the first and last waypoints,
// which is what one incremental loop adds. Closed paths have none.
func (p *PathPlugin) SetChangeValue() {
	if p.path.Closed() {
		p.change = Vec3{}
		return
	}
	p.change = p.path.last().Sub(p.path.first())
}

func (p *PathPlugin) SetIncremental(diff int) {
	p.path.Translate(p.change.Scale(float64(diff)))
}

func (p *PathPlugin) Evaluate(elapsed, duration float64, fn ease.TweenFunc, inverse bool) {
	t := easeFraction(fn, elapsed, duration, inverse)
	t = p.fromPct + (p.toPct-p.fromPct)*t
	if p.constantSpeed {
		p.prop.Set(p.target, p.path.GetConstPoint(t))
	} else {
		p.prop.Set(p.target, p.path.GetPoint(t))
	}
}

func (p *PathPlugin) SpeedBasedDuration(speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	return p.path.Length() * (p.toPct - p.fromPct) / speed
}

// UsePartialPath limits playback to the stretch between two waypoints. It
// returns false and changes nothing when the indices are out of order or out
// of range.
func (p *PathPlugin) UsePartialPath(from, to int) bool {
	n := p.path.WaypointCount()
	if p.path.Closed() {
		n++
	}
	if from < 0 || to >= n || from >= to {
		return false
	}
	p.partial = true
	p.fromPct = p.path.WaypointPercentage(from)
	p.toPct = p.path.WaypointPercentage(to)
	return true
}

// ResetPath restores playback of the whole path.
func (p *PathPlugin) ResetPath() {
	p.partial = false
	p.fromPct, p.toPct = 0, 1
}
