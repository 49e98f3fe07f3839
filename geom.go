package strokemesh

import "math"

// Point is a 2D position in stroke units. The coordinate system matches the
// teacher's Vec2: no particular axis orientation is assumed by this package.
type Point struct {
	X, Y float64
}

// Vec is a 2D displacement/direction, distinct from Point so that the two
// can't be added to each other by accident.
type Vec struct {
	X, Y float64
}

// Add returns p translated by v.
func (p Point) Add(v Vec) Point { return Point{p.X + v.X, p.Y + v.Y} }

// Sub returns the displacement from o to p.
func (p Point) Sub(o Point) Vec { return Vec{p.X - o.X, p.Y - o.Y} }

// Lerp returns the linear interpolation (or extrapolation, for t outside
// [0,1]) between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// IsFinite reports whether both coordinates are finite, used to guard against
// numeric blowups from adversarial input (spec §7).
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }
func (v Vec) Length() float64     { return math.Hypot(v.X, v.Y) }

func (v Vec) Normalized() Vec {
	l := v.Length()
	if l < 1e-10 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Cross returns the 2D cross product (z-component) of v and o.
func (v Vec) Cross(o Vec) float64 { return v.X*o.Y - v.Y*o.X }

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 { return a.Sub(b).Length() }

// Segment is a directed line segment from Start to End.
type Segment struct {
	Start, End Point
}

func (s Segment) Vector() Vec { return s.End.Sub(s.Start) }

// IsDegenerate reports whether the segment's endpoints coincide.
func (s Segment) IsDegenerate() bool {
	return s.Start.X == s.End.X && s.Start.Y == s.End.Y
}

func (s Segment) Length() float64 { return Distance(s.Start, s.End) }

// DistanceToPoint returns the shortest distance from p to the segment
// (perpendicular distance to the line if the foot of the perpendicular falls
// within the segment, else distance to the nearer endpoint).
func DistanceToPoint(s Segment, p Point) float64 {
	d := s.Vector()
	lenSq := d.Dot(d)
	if lenSq < 1e-20 {
		return Distance(s.Start, p)
	}
	t := p.Sub(s.Start).Dot(d) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := s.Start.Add(d.Scale(t))
	return Distance(proj, p)
}

// Triangle is an ordered triple of positions. Per spec §3, counter-clockwise
// winding means SignedArea() > 0.
type Triangle struct {
	P0, P1, P2 Point
}

// SignedArea returns twice the signed area of the triangle; positive for
// counter-clockwise winding, negative for clockwise, zero for degenerate.
func (t Triangle) SignedArea() float64 {
	return t.P1.Sub(t.P0).Cross(t.P2.Sub(t.P0))
}

// Edge returns one of the triangle's three directed edges: 0 is P0->P1, 1 is
// P1->P2, 2 is P2->P0.
func (t Triangle) Edge(i int) Segment {
	switch i % 3 {
	case 0:
		return Segment{t.P0, t.P1}
	case 1:
		return Segment{t.P1, t.P2}
	default:
		return Segment{t.P2, t.P0}
	}
}

// Contains reports whether p lies within or on the boundary of the triangle,
// using the standard same-side/barycentric sign test. Degenerate triangles
// never contain anything.
func (t Triangle) Contains(p Point) bool {
	if t.SignedArea() == 0 {
		return false
	}
	d1 := Triangle{t.P0, t.P1, p}.SignedArea()
	d2 := Triangle{t.P1, t.P2, p}.SignedArea()
	d3 := Triangle{t.P2, t.P0, p}.SignedArea()
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// Barycentric returns the barycentric coordinates of p with respect to the
// triangle. The second return value is false for degenerate triangles.
func (t Triangle) Barycentric(p Point) (w [3]float64, ok bool) {
	area := t.SignedArea()
	if area == 0 {
		return w, false
	}
	w[0] = Triangle{t.P1, t.P2, p}.SignedArea() / area
	w[1] = Triangle{t.P2, t.P0, p}.SignedArea() / area
	w[2] = 1 - w[0] - w[1]
	return w, true
}

// Envelope is an axis-aligned bounding box accumulator. NewEmptyEnvelope
// returns an empty one; use Add/Union to grow it. The zero value is not
// empty: it is the single point at the origin.
type Envelope struct {
	Min, Max Point
	empty    bool
}

func NewEmptyEnvelope() Envelope { return Envelope{empty: true} }

func (e Envelope) IsEmpty() bool { return e.empty }

// Add grows the envelope to include p.
func (e Envelope) Add(p Point) Envelope {
	if e.empty {
		return Envelope{Min: p, Max: p}
	}
	return Envelope{
		Min: Point{math.Min(e.Min.X, p.X), math.Min(e.Min.Y, p.Y)},
		Max: Point{math.Max(e.Max.X, p.X), math.Max(e.Max.Y, p.Y)},
	}
}

// Union merges two envelopes.
func (e Envelope) Union(o Envelope) Envelope {
	if o.empty {
		return e
	}
	if e.empty {
		return o
	}
	return Envelope{
		Min: Point{math.Min(e.Min.X, o.Min.X), math.Min(e.Min.Y, o.Min.Y)},
		Max: Point{math.Max(e.Max.X, o.Max.X), math.Max(e.Max.Y, o.Max.Y)},
	}
}

// Width and Height report the envelope's extent; zero for an empty envelope.
func (e Envelope) Width() float64 {
	if e.empty {
		return 0
	}
	return e.Max.X - e.Min.X
}

func (e Envelope) Height() float64 {
	if e.empty {
		return 0
	}
	return e.Max.Y - e.Min.Y
}

// SegmentIntersection computes the parameters at which segments a and b
// intersect, if they do within their finite extents. tA and tB are both in
// [0, 1] on success.
func SegmentIntersection(a, b Segment) (tA, tB float64, ok bool) {
	r := a.Vector()
	s := b.Vector()
	denom := r.Cross(s)
	qp := b.Start.Sub(a.Start)
	if math.Abs(denom) < 1e-12 {
		// Parallel (or one/both degenerate). Treat collinear overlap as a hit
		// at the earliest point of overlap along a, which is the behavior the
		// outline search relies on for coincident-vertex runs.
		if r.Cross(qp) != 0 {
			return 0, 0, false
		}
		rr := r.Dot(r)
		if rr < 1e-20 {
			return 0, 0, false
		}
		t0 := qp.Dot(r) / rr
		t1 := t0 + s.Dot(r)/rr
		lo, hi := t0, t1
		if lo > hi {
			lo, hi = hi, lo
		}
		lo = math.Max(lo, 0)
		hi = math.Min(hi, 1)
		if lo > hi {
			return 0, 0, false
		}
		tA = lo
		pt := a.Start.Add(r.Scale(tA))
		ss := s.Dot(s)
		if ss < 1e-20 {
			tB = 0
		} else {
			tB = pt.Sub(b.Start).Dot(s) / ss
		}
		if tB < 0 || tB > 1 {
			return 0, 0, false
		}
		return tA, tB, true
	}
	tA = qp.Cross(s) / denom
	tB = qp.Cross(r) / denom
	if tA < 0 || tA > 1 || tB < 0 || tB > 1 {
		return 0, 0, false
	}
	return tA, tB, true
}
