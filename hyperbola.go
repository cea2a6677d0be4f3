package topomap

import "math"

// Inside a dual pixel the level set of the bilinear interpolant at level l
// has implicit equation
//
//	denom*(x-sx)*(y-sy) + num/denom = l
//
// provided denom != 0 (otherwise the level set is a straight segment). The
// center (sx, sy) of the hyperbola is the saddle point of the interpolant
// and num/denom is its level. The vertex, the point of maximal curvature of
// the branch, sits at (sx, sy) + (±r, ±r) with r = sqrt(|delta|) and
// delta = (denom*l - num)/denom², the signs chosen so the vertex lies in
// the same quadrant as the entry point relative to the saddle. The branch
// equation then reads (x-sx)*(y-sy) = delta.
type hyperbola struct {
	num, denom float64 // saddle level is num/denom, denom normalized > 0
	s          Point   // saddle point, center of the hyperbola
	v          Point   // vertex, point of maximal curvature
	delta      float64 // branch parameter
}

// newHyperbola computes the hyperbola parameters for the dual pixel with
// top-left corner pos and corner values lev (indexed by entry direction,
// see dualPixel), crossed at level l through the point p.
//
// The hyperbola can be degenerate (a segment), in which case s, v and delta
// are meaningless; check valid() before using them. When denom is negative,
// num and denom are both negated so that later saddle comparisons can be
// written l*denom < num without a division.
func newHyperbola(pos, p Point, lev [4]float64, l float64) hyperbola {
	h := hyperbola{
		num:   lev[0]*lev[2] - lev[1]*lev[3],
		denom: (lev[0] + lev[2]) - (lev[1] + lev[3]),
	}
	if h.denom == 0 {
		return h // degenerate hyperbola
	}
	d := 1 / h.denom
	h.s = Point{X: pos.X + (lev[0]-lev[1])*d, Y: pos.Y + (lev[0]-lev[3])*d}
	h.delta = (h.denom*l - h.num) * d * d
	r := math.Sqrt(math.Abs(h.delta))
	h.v = Point{X: h.s.X + signOf(p.X-h.s.X)*r, Y: h.s.Y + signOf(p.Y-h.s.Y)*r}
	if h.denom < 0 {
		h.num, h.denom = -h.num, -h.denom
	}
	return h
}

func signOf(f float64) float64 {
	if f > 0 {
		return 1
	}
	return -1
}

func (h hyperbola) valid() bool { return h.denom != 0 }

// vertexInDualPixel reports whether the vertex of the hyperbola branch lies
// strictly inside the dual pixel with top-left corner p.
func (h hyperbola) vertexInDualPixel(p Point) bool {
	return h.valid() &&
		p.X < h.v.X && h.v.X < p.X+1 &&
		p.Y < h.v.Y && h.v.Y < p.Y+1
}

// sample appends to line a uniform sampling of the hyperbola branch
// (x-sx)(y-sy)=delta between p1 and p2, excluded. The parameterization runs
// along the axis spanning the larger distance, with ceil(dist*ptsPixel)
// steps; the other coordinate is solved from the branch equation.
func (h hyperbola) sample(p1, p2 Point, ptsPixel int, line []Point) []Point {
	if ptsPixel < 2 {
		return line
	}
	ax, ay := math.Abs(p2.X-p1.X), math.Abs(p2.Y-p1.Y)
	if ax > ay { // uniform sample along x
		n := int(math.Ceil(ax * float64(ptsPixel)))
		dx := (p2.X - p1.X) / float64(n)
		p := p1
		for i := 1; i < n; i++ {
			p.X += dx
			p.Y = h.s.Y + h.delta/(p.X-h.s.X)
			line = append(line, p)
		}
	} else { // uniform sample along y
		n := int(math.Ceil(ay * float64(ptsPixel)))
		dy := (p2.Y - p1.Y) / float64(n)
		p := p1
		for i := 1; i < n; i++ {
			p.Y += dy
			p.X = h.s.X + h.delta/(p.Y-h.s.Y)
			line = append(line, p)
		}
	}
	return line
}

// saddleInSquare solves for the bilinear saddle of a dual pixel with corner
// values a (top-left), b (top-right), c (bottom-left) and d (bottom-right).
// A saddle exists iff b and c both lie strictly outside the closed interval
// [min(a,d), max(a,d)], on the same side. It returns the saddle level
// (a*d - b*c) / (a+d-b-c), or ok=false when the dual pixel carries no
// saddle.
func saddleInSquare(a, b, c, d float64) (v float64, ok bool) {
	lo, hi := a, d
	if lo > hi {
		lo, hi = hi, lo
	}
	sb := outsideSign(b, lo, hi)
	sc := outsideSign(c, lo, hi)
	if sb*sc <= 0 {
		return 0, false
	}
	return (a*d - b*c) / (a + d - b - c), true
}

func outsideSign(v, lo, hi float64) int {
	switch {
	case v < lo:
		return -1
	case v > hi:
		return 1
	default:
		return 0
	}
}
