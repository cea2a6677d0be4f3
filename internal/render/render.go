// Package render rasterizes level-line polylines: polyline drawing for the
// renderer CLI and even-odd interior fill for quantized-image
// reconstruction.
package render

import "github.com/topomap/topomap"

// Transform maps curve points to raster coordinates before rasterization.
type Transform func(topomap.Point) topomap.Point

// Identity returns points unchanged.
func Identity(p topomap.Point) topomap.Point { return p }

// Zoom returns a transform scaling both coordinates by an integer factor.
func Zoom(z int) Transform {
	f := float64(z)
	return func(p topomap.Point) topomap.Point {
		return topomap.Pt(f*p.X, f*p.Y)
	}
}

// clip clamps a coordinate to [0, m-1].
func clip(v float64, m int) int {
	if v < 0 {
		return 0
	}
	if v >= float64(m) {
		return m - 1
	}
	return int(v)
}

// drawLine rasterizes the segment from p to q with Bresenham's algorithm,
// invoking set for every covered pixel of a w×h raster except the end
// pixel of q (a segment within one pixel sets that pixel).
func drawLine(p, q topomap.Point, w, h int, set func(x, y int)) {
	x0, x1 := clip(p.X, w), clip(q.X, w)
	y0, y1 := clip(p.Y, h), clip(q.Y, h)
	if x0 == x1 && y0 == y1 {
		set(x0, y0)
		return
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	dx, dy := x1-x0, y1-y0
	adx, ady := sx*dx, sy*dy
	x, y := 0, 0
	if adx >= ady {
		z := -adx / 2
		for x != dx {
			set(x+x0, y+y0)
			x += sx
			z += ady
			if z > 0 {
				y += sy
				z -= adx
			}
		}
	} else {
		z := -ady / 2
		for y != dy {
			set(x+x0, y+y0)
			y += sy
			z += adx
			if z > 0 {
				x += sx
				z -= ady
			}
		}
	}
}

// Draw rasterizes a polyline onto a w×h raster, invoking set for every
// covered pixel; as each segment stops before its end pixel, the pixel of
// the last point is set only when an earlier segment covers it, as on a
// closed curve. Points are shifted by (0.5, 0.5) after tf so that integer
// curve coordinates land on pixel centers.
func Draw(curve []topomap.Point, w, h int, tf Transform, set func(x, y int)) {
	if len(curve) == 0 {
		return
	}
	half := topomap.Pt(0.5, 0.5)
	o := tf(curve[0]).Add(half)
	for _, p := range curve[1:] {
		q := tf(p).Add(half)
		drawLine(o, q, w, h, set)
		o = q
	}
}
