package render

import (
	"sort"

	"github.com/topomap/topomap"
)

// Interior fill of a closed curve by even-odd parity: each polyline segment
// contributes interval bounds to the image rows it crosses, then every row
// is filled between alternating bounds. Segments riding exactly on integer
// rows need care: a vertex on an integer row opens or closes an interval
// depending on whether the polyline crosses the row, grazes it, or doubles
// back along it, which is what the polyIterator state tracks.

// sign returns +1 when f2 > f1, else -1.
func sign(f1, f2 float64) int8 {
	if f1 < f2 {
		return 1
	}
	return -1
}

func isInteger(f float64) bool {
	return f == float64(int(f))
}

// lastPoint returns the index of the last vertex distinct from the first,
// or 0 for a single-vertex curve.
func lastPoint(curve []topomap.Point) int {
	p0 := curve[0]
	for i := len(curve) - 1; i > 0; i-- {
		if curve[i] != p0 {
			return i
		}
	}
	return 0
}

// polyIterator walks the polyline vertex by vertex, tracking whether the
// previous segment ran along a horizontal integer row and the direction of
// travel: right(+1)/left(-1) when horizontal, down(+1)/up(-1) otherwise.
type polyIterator struct {
	p          topomap.Point
	horizontal bool
	dir        int8 // 0 for a single-vertex curve
}

func newPolyIterator(curve []topomap.Point, tf Transform) polyIterator {
	pi := polyIterator{p: tf(curve[0])}
	i := lastPoint(curve)
	if i == 0 {
		return pi
	}
	q := tf(curve[i]) // vertex preceding the first one
	if q.Y == pi.p.Y {
		pi.horizontal = isInteger(pi.p.Y)
		pi.dir = sign(q.X, pi.p.X)
	} else {
		pi.dir = sign(q.Y, pi.p.Y)
	}
	return pi
}

// bound records an interval bound at abscissa x on row iy.
func bound(inter [][]float64, x float64, iy int) {
	if 0 <= iy && iy < len(inter) {
		inter[iy] = append(inter[iy], x)
	}
}

// addPoint advances to vertex p, contributing the interval bounds of the
// segment just completed.
func (pi *polyIterator) addPoint(p topomap.Point, inter [][]float64) {
	q := pi.p
	pi.p = p
	dirP := pi.dir // direction of the previous segment

	if q.Y == p.Y { // horizontal segment
		if q.X != p.X && isInteger(q.Y) {
			pi.dir = sign(q.X, p.X)
			if pi.horizontal { // half-turn along the row
				if dirP != pi.dir {
					bound(inter, q.X, int(q.Y))
				}
			} else { // first among consecutive horizontal edgels
				pi.horizontal = true
				if dirP == pi.dir {
					bound(inter, q.X, int(q.Y))
				}
			}
		}
		return
	}

	pi.dir = sign(q.Y, p.Y)
	d := int(pi.dir)
	iy1 := int(q.Y)
	iy2 := int(p.Y) + d
	a := (q.X - p.X) / (q.Y - p.Y) // inverse slope

	if pi.horizontal { // leaving a horizontal run
		pi.horizontal = false
		if dirP != pi.dir {
			bound(inter, q.X, iy1)
		}
		iy1 += d
	} else if pi.dir != dirP && q.Y == float64(iy1) { // local peak on a row
		bound(inter, q.X, iy1) // single-point interval
		bound(inter, q.X, iy1)
		iy1 += d
	} else if pi.dir > 0 && float64(iy1) < q.Y {
		iy1 += d
	}

	for j := iy1; j != iy2; j += d { // interior row crossings
		if pi.dir > 0 {
			if p.Y <= float64(j) {
				continue
			}
		} else if float64(j) <= p.Y {
			continue
		}
		bound(inter, q.X+a*(float64(j)-q.Y), j)
	}
}

// fillPoint fills the single pixel under a one-vertex curve.
func fillPoint[T any](p topomap.Point, value T, out []T, w int) {
	if isInteger(p.X) && isInteger(p.Y) {
		out[int(p.Y)*w+int(p.X)] = value
	}
}

// fillRow fills row between alternating bounds of inter.
func fillRow[T any](value T, row []T, inter []float64) {
	sort.Float64s(inter)
	in := false
	k := 0
	for ; k < len(inter) && inter[k] < 0; k++ { // bounds left of the raster
		in = !in
	}
	if k == len(inter) {
		return
	}
	if in {
		end := int(inter[k])
		if end > len(row) {
			end = len(row)
		}
		for i := 0; i < end; i++ {
			row[i] = value
		}
	}
	for i := int(inter[k]); i < len(row); i++ {
		for inter[k] < float64(i) {
			in = !in
			if k++; k == len(inter) {
				return
			}
		}
		if in || inter[k] == float64(i) {
			row[i] = value
		}
	}
}

// Fill paints the interior of a closed curve (even-odd rule) with value
// into a row-major w×h buffer. Pixels exactly on the curve are painted
// too.
func Fill[T any](curve []topomap.Point, value T, out []T, w, h int, tf Transform) {
	if len(curve) == 0 {
		return
	}
	pi := newPolyIterator(curve, tf)
	if pi.dir == 0 { // single vertex
		fillPoint(pi.p, value, out, w)
		return
	}
	inter := make([][]float64, h)
	for _, p := range curve[1:] {
		pi.addPoint(tf(p), inter)
	}
	pi.addPoint(tf(curve[0]), inter) // close the polygon

	for y := 0; y < h; y++ {
		if len(inter[y]) > 0 {
			fillRow(value, out[y*w:(y+1)*w], inter[y])
		}
	}
}
