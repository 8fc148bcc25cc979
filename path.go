package glide

import (
	"math"
	"sort"
)

// PathType selects how a Path interpolates between waypoints.
type PathType uint8

const (
	PathLinear PathType = iota // straight segments between waypoints
	PathCurved                 // Catmull-Rom spline through every waypoint
)

// DefaultPathSubdivisions is the number of length samples taken per curved
// segment when building the constant-speed table.
const DefaultPathSubdivisions = 16

// Path is a poly-line or spline through a list of waypoints, with lookup
// tables that map a length fraction to a parametric position so movement can
// proceed at constant speed regardless of waypoint spacing.
//
// Control points hold the waypoints plus one phantom point at each end. Open
// paths duplicate the end waypoints; closed paths wrap around, and repeat the
// first waypoint at the end.
type Path struct {
	kind         PathType
	closed       bool
	points       []Vec3
	subdivisions int
	length       float64

	// Linear: fractions[i] is the cumulative length fraction at waypoint i.
	fractions []float64
	// Curved: parallel tables of parametric positions and cumulative lengths.
	times   []float64
	lengths []float64

	wpLengths []float64 // built lazily; wpLengths[i] spans waypoint i-1 to i
	wpDirty   bool

	samples      []Vec3 // cached constant-speed polyline for drawing
	samplesDirty bool
}

// NewPath creates a path through waypoints. It returns nil when waypoints is
// empty. A single waypoint produces a zero-length path.
func NewPath(kind PathType, waypoints []Vec3, closed bool) *Path {
	if len(waypoints) == 0 {
		return nil
	}
	p := &Path{kind: kind, closed: closed, subdivisions: DefaultPathSubdivisions}
	p.setPoints(waypoints)
	return p
}

// Type returns the interpolation mode.
func (p *Path) Type() PathType { return p.kind }

// Closed reports whether the path loops back to its first waypoint.
func (p *Path) Closed() bool { return p.closed }

// SetSubdivisions changes the per-segment sample count used by curved paths
// and rebuilds the tables.
func (p *Path) SetSubdivisions(n int) {
	if n < 1 {
		n = 1
	}
	if n == p.subdivisions {
		return
	}
	p.subdivisions = n
	p.rebuild()
}

// WaypointCount returns the number of real waypoints (a closed path counts
// its repeated first waypoint once).
func (p *Path) WaypointCount() int {
	n := len(p.points) - 2
	if p.closed && n > 1 {
		n--
	}
	return n
}

// Waypoint returns waypoint i, or false when i is out of range.
func (p *Path) Waypoint(i int) (Vec3, bool) {
	if i < 0 || i >= p.WaypointCount() {
		return Vec3{}, false
	}
	return p.points[i+1], true
}

// SetWaypoint moves waypoint i and rebuilds the tables. An out-of-range
// index changes nothing and reports false.
func (p *Path) SetWaypoint(i int, v Vec3) bool {
	if i < 0 || i >= p.WaypointCount() {
		return false
	}
	wps := p.waypoints()
	wps[i] = v
	p.setPoints(wps)
	return true
}

func (p *Path) first() Vec3 { return p.points[1] }

func (p *Path) last() Vec3 { return p.points[p.WaypointCount()] }

// SetWaypoints replaces every waypoint and rebuilds the tables.
func (p *Path) SetWaypoints(waypoints []Vec3) {
	if len(waypoints) == 0 {
		return
	}
	p.setPoints(waypoints)
}

// Length returns the total path length.
func (p *Path) Length() float64 { return p.length }

// waypoints returns a copy of the real waypoints without phantoms or the
// closing duplicate.
func (p *Path) waypoints() []Vec3 {
	n := p.WaypointCount()
	out := make([]Vec3, n)
	copy(out, p.points[1:1+n])
	return out
}

func (p *Path) setPoints(wps []Vec3) {
	n := len(wps)
	if p.closed && n > 1 {
		pts := make([]Vec3, 0, n+3)
		pts = append(pts, wps[n-1])
		pts = append(pts, wps...)
		pts = append(pts, wps[0], wps[1])
		p.points = pts
	} else {
		pts := make([]Vec3, 0, n+2)
		pts = append(pts, wps[0])
		pts = append(pts, wps...)
		pts = append(pts, wps[n-1])
		p.points = pts
	}
	p.rebuild()
}

// rebuild recomputes the length tables after the control points changed
// shape.
func (p *Path) rebuild() {
	if p.kind == PathLinear {
		p.buildLinear()
	} else {
		p.buildCurved()
	}
	p.wpDirty = true
	p.samplesDirty = true
}

func (p *Path) buildLinear() {
	m := len(p.points) - 2
	p.fractions = resize(p.fractions, m)
	total := 0.0
	p.fractions[0] = 0
	for i := 1; i < m; i++ {
		total += p.points[i].Dist(p.points[i+1])
		p.fractions[i] = total
	}
	p.length = total
	for i := 1; i < m; i++ {
		if total > 0 {
			p.fractions[i] /= total
		} else {
			p.fractions[i] = float64(i) / float64(m-1)
		}
	}
}

func (p *Path) buildCurved() {
	sections := len(p.points) - 3
	n := p.subdivisions * max(sections, 1)
	p.times = resize(p.times, n+1)
	p.lengths = resize(p.lengths, n+1)
	incr := 1 / float64(n)
	prev := p.GetPoint(0)
	total := 0.0
	for i := 0; i <= n; i++ {
		t := incr * float64(i)
		cur := p.GetPoint(t)
		total += cur.Dist(prev)
		prev = cur
		p.times[i] = t
		p.lengths[i] = total
	}
	p.length = total
}

// GetPoint returns the point at parametric position t in [0, 1]. Linear paths
// are already constant speed; curved paths move faster where waypoints are
// far apart.
func (p *Path) GetPoint(t float64) Vec3 {
	if p.kind == PathLinear {
		return p.linearPoint(t)
	}
	return p.curvedPoint(t)
}

func (p *Path) linearPoint(t float64) Vec3 {
	m := len(p.points) - 2
	if t <= 0 || m == 1 {
		return p.points[1]
	}
	if t >= 1 {
		return p.points[m]
	}
	for k := 1; k < m; k++ {
		if p.fractions[k] >= t {
			from, to := p.points[k], p.points[k+1]
			partial := (t - p.fractions[k-1]) * p.length
			return from.Add(to.Sub(from).ClampLen(partial))
		}
	}
	return p.points[m]
}

func (p *Path) curvedPoint(t float64) Vec3 {
	sections := len(p.points) - 3
	if sections <= 0 {
		return p.points[1]
	}
	t = clamp01(t)
	fs := float64(sections)
	cur := int(math.Floor(t * fs))
	if cur > sections-1 {
		cur = sections - 1
	}
	u := t*fs - float64(cur)
	return catmullRom(p.points[cur], p.points[cur+1], p.points[cur+2], p.points[cur+3], u)
}

// GetConstPoint returns the point reached after travelling fraction t of the
// path length.
func (p *Path) GetConstPoint(t float64) Vec3 {
	if p.kind == PathLinear {
		return p.linearPoint(t)
	}
	return p.curvedPoint(p.constT(t))
}

// constT inverse-maps a length fraction to the parametric position that
// reaches it, interpolating inside the sampled length table.
func (p *Path) constT(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 || p.length == 0 {
		return clamp01(t)
	}
	target := p.length * t
	i := sort.SearchFloat64s(p.lengths, target)
	if i == 0 {
		return p.times[0]
	}
	if i >= len(p.lengths) {
		return 1
	}
	l0, l1 := p.lengths[i-1], p.lengths[i]
	t0, t1 := p.times[i-1], p.times[i]
	if l1 == l0 {
		return t1
	}
	return clamp01(t0 + (target-l0)/(l1-l0)*(t1-t0))
}

// WaypointLength returns the length of the stretch ending at waypoint i
// (zero for the first waypoint).
func (p *Path) WaypointLength(i int) float64 {
	p.ensureWaypointLengths()
	if i <= 0 || i >= len(p.wpLengths) {
		return 0
	}
	return p.wpLengths[i]
}

// WaypointPercentage returns the fraction of the path length covered when
// waypoint i is reached.
func (p *Path) WaypointPercentage(i int) float64 {
	p.ensureWaypointLengths()
	if i <= 0 {
		return 0
	}
	total, upTo := 0.0, 0.0
	for k, l := range p.wpLengths {
		total += l
		if k <= i {
			upTo += l
		}
	}
	if total == 0 {
		return 0
	}
	return math.Min(upTo/total, 1)
}

// ensureWaypointLengths builds the waypoint table, which is separate from the
// fine sampling table: curved segments are measured one at a time.
func (p *Path) ensureWaypointLengths() {
	if !p.wpDirty && p.wpLengths != nil {
		return
	}
	m := len(p.points) - 2
	p.wpLengths = resize(p.wpLengths, m)
	p.wpLengths[0] = 0
	for i := 1; i < m; i++ {
		if p.kind == PathLinear {
			p.wpLengths[i] = p.points[i].Dist(p.points[i+1])
			continue
		}
		a, b, c, d := p.points[i-1], p.points[i], p.points[i+1], p.points[i+2]
		prev := b
		length := 0.0
		for s := 1; s <= p.subdivisions; s++ {
			cur := catmullRom(a, b, c, d, float64(s)/float64(p.subdivisions))
			length += cur.Dist(prev)
			prev = cur
		}
		p.wpLengths[i] = length
	}
	p.wpDirty = false
}

// Translate moves every control point by delta. The shape is unchanged, so
// the length tables are kept; only cached samples are invalidated.
func (p *Path) Translate(delta Vec3) {
	for i := range p.points {
		p.points[i] = p.points[i].Add(delta)
	}
	p.samplesDirty = true
}

// Samples returns n+1 points spread at constant speed along the path. The
// slice is cached and reused until the path changes; callers must not keep
// it across mutations.
func (p *Path) Samples(n int) []Vec3 {
	if n < 1 {
		n = 1
	}
	if !p.samplesDirty && len(p.samples) == n+1 {
		return p.samples
	}
	p.samples = resizeVec3(p.samples, n+1)
	for i := 0; i <= n; i++ {
		p.samples[i] = p.GetConstPoint(float64(i) / float64(n))
	}
	p.samplesDirty = false
	return p.samples
}

// catmullRom evaluates the uniform Catmull-Rom segment between b and c.
func catmullRom(a, b, c, d Vec3, u float64) Vec3 {
	u2 := u * u
	u3 := u2 * u
	f := func(a, b, c, d float64) float64 {
		return 0.5 * ((-a+3*b-3*c+d)*u3 + (2*a-5*b+4*c-d)*u2 + (-a+c)*u + 2*b)
	}
	return Vec3{
		X: f(a.X, b.X, c.X, d.X),
		Y: f(a.Y, b.Y, c.Y, d.Y),
		Z: f(a.Z, b.Z, c.Z, d.Z),
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func resize(s []float64, n int) []float64 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]float64, n)
}

func resizeVec3(s []Vec3, n int) []Vec3 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]Vec3, n)
}
