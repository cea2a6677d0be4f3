package topomap

import "math"

// Entry directions into a dual pixel. The direction is the direction of
// travel of the level line: south means the line enters through the top
// horizontal edgel moving down, east through the left vertical edgel moving
// right, and so on. A left turn increments the direction, a right turn
// decrements it (mod 4).
type dir int8

const (
	dirS dir = 0
	dirE dir = 1
	dirN dir = 2
	dirW dir = 3
)

// dirDelta maps a direction to its unit vector. The fifth entry repeats
// south so that dirDelta[d+1] never needs a modulo.
var dirDelta = [5]Point{
	{X: 0, Y: 1},  // S
	{X: 1, Y: 0},  // E
	{X: 0, Y: -1}, // N
	{X: -1, Y: 0}, // W
	{X: 0, Y: 1},  // S again
}

// linear returns x such that the line through (0,v0) and (1,v1) reaches v.
func linear(v0, v, v1 float64) float64 {
	return (v - v0) / (v1 - v0)
}

// dualPixel is a mobile square whose four corners are adjacent data points.
// It is the engine of level-line tracing: starting on an edgel it moves to
// the adjacent dual pixel crossed by the line, over and over, until the
// line comes back to its starting edgel.
//
// lev holds the image values at the four corners, indexed so that the line
// entering with direction d has lev[d] on its right endpoint and
// lev[(d+3)%4] on its left: lev[0] is the top-left corner, lev[1] the
// bottom-left, lev[2] the bottom-right and lev[3] the top-right. The
// invariant lev[d] < level < lev[(d+3)%4] holds on every entry edgel.
type dualPixel struct {
	im  []uint8
	w   int
	lev [4]float64
	pos Point // top-left corner of the dual pixel
	d   dir   // direction of entry
}

// newDualPixel starts a trace at level l on the horizontal edgel from *p to
// *p+(1,0), assuming a south entry. If the level sits on the other side of
// that edgel the entry is flipped to north, moving the dual pixel one row
// up. In both cases *p is moved to the linear-interpolated crossing
// position on the edgel.
func newDualPixel(p *Point, l float64, im []uint8, w int) dualPixel {
	dp := dualPixel{im: im, w: w, pos: *p, d: dirS}
	dp.updateLevels()
	if dp.lev[dp.d] > l && l > dp.lev[(dp.d+3)%4] {
		dp.d = dirN
		dp.pos.Y--
		p.X++
		dp.updateLevels()
	}
	*p = p.Add(dirDelta[dp.d+1].Mul(linear(dp.lev[dp.d], l, dp.lev[(dp.d+3)%4])))
	return dp
}

// updateLevels reloads the corner values from the image.
func (dp *dualPixel) updateLevels() {
	i := int(dp.pos.Y)*dp.w + int(dp.pos.X)
	dp.lev[0] = float64(dp.im[i])
	dp.lev[3] = float64(dp.im[i+1])
	dp.lev[1] = float64(dp.im[i+dp.w])
	dp.lev[2] = float64(dp.im[i+dp.w+1])
}

// move advances to the adjacent dual pixel crossed by the line at level l
// and returns the exit point, which becomes the entry point of the new
// position. A left exit exists iff l is above the corner opposite the
// entry, a right exit iff l is below the adjacent corner; when both exist
// the dual pixel contains a saddle and the side is decided by comparing l
// with the saddle level snum/sdenom. sdenom is normalized positive so the
// comparison multiplies instead of dividing.
func (dp *dualPixel) move(l, snum, sdenom float64) Point {
	left := l > dp.lev[(dp.d+2)%4]
	right := l < dp.lev[(dp.d+1)%4]
	if left && right { // disambiguate via the saddle level
		right = l*sdenom < snum
		left = !right
	}
	if left {
		if dp.d++; dp.d > 3 {
			dp.d = 0
		}
	}
	if right {
		if dp.d--; dp.d < 0 {
			dp.d = 3
		}
	}
	dp.pos = dp.pos.Add(dirDelta[dp.d])
	dp.updateLevels()

	coord := linear(dp.lev[dp.d], l, dp.lev[(dp.d+3)%4])
	p := dp.pos
	for d := dir(0); d < dp.d; d++ {
		p = p.Add(dirDelta[d])
	}
	return p.Add(dirDelta[dp.d+1].Mul(coord)) // safe: dirDelta[4]==dirDelta[0]
}

// follow moves the dual pixel one step along the line at level l. On
// return *p is the exit point of the old position; the points sampled on
// the hyperbola branch between the old *p and the exit (exclusive on both
// ends, with the vertex emitted exactly when it lies inside the dual
// pixel) are appended to line.
func (dp *dualPixel) follow(p *Point, l float64, ptsPixel int, line []Point) []Point {
	h := newHyperbola(dp.pos, *p, dp.lev, l)
	vInside := h.vertexInDualPixel(dp.pos)
	pIni := *p // entry point, before moving to the exit
	*p = dp.move(l, h.num, h.denom)
	if h.valid() && ptsPixel > 0 { // degenerate hyperbola: straight, no samples
		if math.Abs(h.delta) < 1e-2 { // saddle level: one or two segments
			if vInside {
				line = append(line, h.v) // vertex only, almost the saddle point
			}
			return line
		}
		if vInside { // sample entry to vertex, then vertex to exit
			line = h.sample(pIni, h.v, ptsPixel, line)
			line = append(line, h.v)
			pIni = h.v
		}
		line = h.sample(pIni, *p, ptsPixel, line)
	}
	return line
}

// markVisit marks the current horizontal edgel as visited and reports
// whether the trace must continue. Only vertical entries (south or north)
// touch horizontal edgels; the visit array has one cell per horizontal
// edgel, indexed by its left endpoint (north entries sit one row above the
// edgel, hence their one-row offset), so south and north crossings of the
// same edgel share a cell. The first time an already-visited edgel comes
// up, the line has closed.
//
// When rows is non-nil the crossing is also logged on the entry row, keyed
// by the line index idx.
func (dp *dualPixel) markVisit(visit []bool, rows [][]Crossing, idx int, p Point) bool {
	cont := true
	if dp.d == dirS || dp.d == dirN {
		i := int(dp.pos.Y)*dp.w + int(dp.pos.X)
		if dp.d == dirN {
			i += dp.w
		}
		cont = !visit[i]
		visit[i] = true
		if rows != nil && cont {
			r := int(p.Y)
			rows[r] = append(rows[r], Crossing{X: p.X, Line: idx})
		}
	}
	return cont
}

// traceLine extracts the level line through the starting point p. The level
// and type are already set in ll; the polyline is appended until the line
// closes on an already-visited edgel.
func traceLine(im []uint8, w int, visit []bool, ptsPixel int, p Point, ll *LevelLine, idx int, rows [][]Crossing) {
	dp := newDualPixel(&p, ll.Level, im, w)
	for {
		ll.Points = append(ll.Points, p)
		if !dp.markVisit(visit, rows, idx, p) {
			break
		}
		ll.Points = dp.follow(&p, ll.Level, ptsPixel, ll.Points)
	}
}
