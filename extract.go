package topomap

import (
	"fmt"
	"sort"
)

// Extract traces all level lines of the bilinear interpolant of im, a
// row-major w×h grayscale raster: the lines around each regional extremum
// (at level extremum ∓ DeltaLevel, one per boundary of the plateau)
// followed by the lines of every quantized saddle level, in ascending level
// order. ptsPerPixel controls how densely each hyperbola branch is sampled;
// with 0 only the edgel crossings are emitted, with 1 the hyperbola vertices
// are added.
//
// The image border must be constant (see the package documentation) for
// every line to close inside the image.
func Extract(im []uint8, w, h, ptsPerPixel int) ([]LevelLine, error) {
	lines, _, err := extractLines(im, w, h, ptsPerPixel, false)
	return lines, err
}

// ExtractCrossings is Extract plus the row-intersection log: for every
// image row, the crossings of all lines through that row, in trace order.
// The log is the input of BuildTree.
func ExtractCrossings(im []uint8, w, h, ptsPerPixel int) ([]LevelLine, [][]Crossing, error) {
	return extractLines(im, w, h, ptsPerPixel, true)
}

func extractLines(im []uint8, w, h, ptsPerPixel int, wantRows bool) ([]LevelLine, [][]Crossing, error) {
	switch {
	case w < 2 || h < 2:
		return nil, nil, fmt.Errorf("%w: dimensions %dx%d below 2x2", ErrInvalidInput, w, h)
	case len(im) != w*h:
		return nil, nil, fmt.Errorf("%w: %d pixels for %dx%d image", ErrInvalidInput, len(im), w, h)
	case ptsPerPixel < 0:
		return nil, nil, fmt.Errorf("%w: negative points per pixel %d", ErrInvalidInput, ptsPerPixel)
	case w > MaxWidth:
		return nil, nil, fmt.Errorf("%w: width %d exceeds %d", ErrTooLarge, w, MaxWidth)
	}

	visit := make([]bool, w*h)
	var rows [][]Crossing
	if wantRows {
		rows = make([][]Crossing, h)
	}
	var lines []LevelLine
	lines, nExtrema := handleExtrema(im, w, h, ptsPerPixel, lines, visit, rows)
	lines, nSaddles := handleSaddles(im, w, h, ptsPerPixel, lines, visit, rows)
	Logger().Debug("level lines extracted",
		"width", w, "height", h,
		"extrema", nExtrema, "saddles", nSaddles, "lines", len(lines))
	return lines, rows, nil
}

// findExtremum flood-fills the 4-connected plateau of im containing (x,y)
// and appends it to plateau. It reports whether the plateau is a regional
// maximum (or minimum when max is false): no equal-valued pixel on the
// image border and every exterior neighbor strictly below (resp. above)
// the plateau level. vu tags explored pixels across calls so each plateau
// is visited once per image.
func findExtremum(im []uint8, w, h, x, y int, max bool, vu []bool, plateau []Point) ([]Point, bool) {
	level := im[y*w+x]
	vu[y*w+x] = true
	stack := []Point{{X: float64(x), Y: float64(y)}}
	success := true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		plateau = append(plateau, p)
		for i := 0; i < 4; i++ {
			q := p.Add(dirDelta[i])
			qx, qy := int(q.X), int(q.Y)
			idx := qy*w + qx
			if im[idx] == level {
				if qx == 0 || qx+1 == w || qy == 0 || qy+1 == h {
					success = false // plateau touches the border
				} else if !vu[idx] {
					vu[idx] = true
					stack = append(stack, q)
				}
			} else if max != (im[idx] < level) {
				success = false // neighbor on the wrong side
			}
		}
	}
	return plateau, success
}

// handleExtrema extracts one level line per regional extremum of im, at
// level extremum-Δ for maxima and extremum+Δ for minima. The first trace
// starts on the first plateau-exterior edgel in scan order; further
// boundaries of the same plateau (around holes) start from the remaining
// unvisited exterior edgels, in flood-fill order.
// The visit array is cleared after each extremum.
func handleExtrema(im []uint8, w, h, ptsPixel int, lines []LevelLine, visit []bool, rows [][]Crossing) ([]LevelLine, int) {
	vu := make([]bool, w*h)
	found := 0
	plateau := make([]Point, 0, 64)
	for y := 1; y+1 < h; y++ {
		for x := 1; x+1 < w; x++ {
			idx := y*w + x
			if vu[idx] || im[idx] == im[idx+1] {
				continue
			}
			level := im[idx]
			max := im[idx+1] < level
			plateau = plateau[:0]
			var ok bool
			plateau, ok = findExtremum(im, w, h, x, y, max, vu, plateau)
			if !ok {
				continue
			}
			found++
			v := float64(level) + DeltaLevel
			t := Min
			if max {
				v = float64(level) - DeltaLevel
				t = Max
			}
			for _, p := range plateau {
				i := int(p.Y)*w + int(p.X)
				if im[i+1] != level && !visit[i] {
					ll := LevelLine{Level: v, Type: t}
					traceLine(im, w, visit, ptsPixel, p, &ll, len(lines), rows)
					lines = append(lines, ll)
				}
			}
			clear(visit)
		}
	}
	return lines, found
}

// gridSaddle locates one bilinear saddle of the image grid.
type gridSaddle struct {
	x, y  int // top-left corner of the dual pixel
	value float64
}

// findSaddles scans every dual pixel of im and returns all bilinear
// saddles, sorted by level with (y,x) tie-breaking for determinism.
func findSaddles(im []uint8, w, h int) []gridSaddle {
	var saddles []gridSaddle
	for y := 0; y+1 < h; y++ {
		for x := 0; x+1 < w; x++ {
			i := y*w + x
			v, ok := saddleInSquare(float64(im[i]), float64(im[i+1]),
				float64(im[i+w]), float64(im[i+w+1]))
			if ok {
				saddles = append(saddles, gridSaddle{x: x, y: y, value: v})
			}
		}
	}
	sort.Slice(saddles, func(i, j int) bool {
		si, sj := saddles[i], saddles[j]
		if si.value != sj.value {
			return si.value < sj.value
		}
		if si.y != sj.y {
			return si.y < sj.y
		}
		return si.x < sj.x
	})
	return saddles
}

// handleSaddles traces the level lines of every quantized saddle level.
// Saddles quantizing to the same level are handled together: each of the
// two horizontal edgels of every saddle dual pixel starts a line unless the
// edgel was already visited within the group (one saddle crossing yields up
// to two distinct branches of the level set). The visit array is cleared
// between quantization groups, not within.
func handleSaddles(im []uint8, w, h, ptsPixel int, lines []LevelLine, visit []bool, rows [][]Crossing) ([]LevelLine, int) {
	saddles := findSaddles(im, w, h)
	for k := 0; k < len(saddles); {
		v := QuantizeLevel(saddles[k].value)
		for ; k < len(saddles) && QuantizeLevel(saddles[k].value) == v; k++ {
			s := saddles[k]
			for i := 0; i <= 1; i++ {
				if !visit[s.x+(s.y+i)*w] {
					ll := LevelLine{Level: v, Type: Saddle}
					p := Point{X: float64(s.x), Y: float64(s.y + i)}
					traceLine(im, w, visit, ptsPixel, p, &ll, len(lines), rows)
					lines = append(lines, ll)
				}
			}
		}
		clear(visit)
	}
	return lines, len(saddles)
}
