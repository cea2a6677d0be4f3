package topomap

import (
	"fmt"
	"sort"
)

// The persistence engine lifts monotone union-find from the pixel grid to
// the continuous bilinear surface with virtual samples: one extra sample
// per saddle-bearing dual pixel, placed at the dual pixel's top-left corner
// in a second w×h grid and carrying the saddle level. Samples are indexed
// in one flat array of length 2*w*h, real samples first; a real sample at
// (x,y) has index x+y*w and the virtual sample of the dual pixel at (x,y)
// has index x+(y+h)*w.
//
// Neighborhoods are what makes the lift work: a real sample has 4 real
// axis-aligned neighbors and up to 4 virtual neighbors, the saddles of the
// 4 dual pixels it is a corner of, so two diagonal pixels are never
// adjacent directly, only through the saddle between them; a virtual
// sample is adjacent to the 4 real corners of its dual pixel.
var (
	nbrDX = [12]int{1, 0, -1, 0, 0, -1, 0, -1 /* virtual: */, 0, 0, 1, 1}
	nbrDY = [12]int{0, 1, 0, -1, 0, 0, -1, -1 /* virtual: */, 0, 1, 0, 1}
)

// sentinel marks dual pixels without a saddle in the virtual grid. Sample
// values must be nonnegative so the sentinel sorts before every sample.
const sentinel = float32(-1)

// pnode is one node of the component tree: a canonical sample, its level,
// and the contrast attribute filled by the up propagation.
type pnode struct {
	parent   int
	children []int
	level    float32
	contrast float32
}

// Persistence computes the persistence map of im, a row-major w×h raster
// of nonnegative values: for every pixel, the topological contrast of the
// component of the bilinear surface it belongs to, in the minima
// orientation. The map for maxima is obtained by running Persistence on
// the complemented image (max value minus im).
//
// The output is a pure function of the input; re-running on the same data
// is bitwise identical.
func Persistence(im []float32, w, h int) ([]float32, error) {
	switch {
	case w < 2 || h < 2:
		return nil, fmt.Errorf("%w: dimensions %dx%d below 2x2", ErrInvalidInput, w, h)
	case len(im) != w*h:
		return nil, fmt.Errorf("%w: %d pixels for %dx%d image", ErrInvalidInput, len(im), w, h)
	}
	for _, v := range im {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative sample value %g", ErrInvalidInput, v)
		}
	}

	n := w * h
	// Stage 1: real samples followed by the virtual sample grid.
	samples := make([]float32, 2*n)
	copy(samples, im)
	fillVirtualSamples(im, w, h, samples[n:])

	// Stage 2: order all samples by value; ties resolve real before
	// virtual, then by scan order, which is exactly index order.
	ordered := make([]int32, 2*n)
	for i := range ordered {
		ordered[i] = int32(i)
	}
	sort.Slice(ordered, func(i, j int) bool {
		vi, vj := samples[ordered[i]], samples[ordered[j]]
		if vi != vj {
			return vi < vj
		}
		return ordered[i] < ordered[j]
	})

	// Stage 3: monotone union-find merge.
	parent, zparent := make([]int32, 2*n), make([]int32, 2*n)
	for i := range parent {
		parent[i], zparent[i] = -1, -1
	}
	for _, p := range ordered {
		if int(p) >= n && samples[p] == sentinel {
			continue // dual pixel without a saddle
		}
		parent[p], zparent[p] = p, p
		real := int(p) < n
		px, py := int(p)%w, int(p)/w
		if !real {
			py -= h
		}
		nb, i0 := 8, 0
		if !real {
			nb, i0 = 4, 8
		}
		for i := 0; i < nb; i++ {
			x, y := px+nbrDX[i0+i], py+nbrDY[i0+i]
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			q := int32(x + y*w)
			if i >= 4 { // incident dual pixels: the virtual samples
				q += int32(n)
			}
			if zparent[q] < 0 {
				continue // not processed yet
			}
			if r := findRoot(zparent, q); r != p {
				zparent[r], parent[r] = p, p
			}
		}
	}
	zparent = nil // only the merge needs the path-compressed finder

	// Stage 4: canonicalize plateaus.
	canonicalize(samples, parent, ordered)

	// Stages 5 and 6: component tree with contrast attributes.
	tree, nodeOf := buildComponentTree(samples, parent, n)
	Logger().Debug("persistence tree built",
		"width", w, "height", h, "nodes", len(tree))

	// Stage 7: emit the contrast of each pixel's canonical component.
	out := make([]float32, n)
	for i := int32(0); int(i) < n; i++ {
		s := i
		if !isCanonical(s, samples, parent) {
			s = parent[s]
		}
		out[i] = tree[nodeOf[s]].contrast
	}
	return out, nil
}

// fillVirtualSamples writes the saddle level of every saddle-bearing dual
// pixel at the dual pixel's top-left position in out, and the sentinel
// everywhere else (including the right and bottom rims, which own no dual
// pixel).
func fillVirtualSamples(im []float32, w, h int, out []float32) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := sentinel
			if x+1 < w && y+1 < h {
				i := y*w + x
				if s, ok := saddleInSquare(float64(im[i]), float64(im[i+1]),
					float64(im[i+w]), float64(im[i+w+1])); ok {
					v = float32(s)
				}
			}
			out[y*w+x] = v
		}
	}
}

// findRoot returns the representative of i's component, compressing the
// path behind it.
func findRoot(zparent []int32, i int32) int32 {
	r := i
	for zparent[r] != r {
		r = zparent[r]
	}
	for zparent[i] != r {
		i, zparent[i] = zparent[i], r
	}
	return r
}

// canonicalize folds plateau members onto their canonical element: walking
// the processed samples from highest to lowest, a sample whose parent and
// grandparent carry the same level is re-parented onto the grandparent.
// Afterwards a sample is canonical iff it is the root of its plateau, and
// the parent of every non-canonical sample is canonical.
func canonicalize(samples []float32, parent []int32, ordered []int32) {
	for k := len(ordered) - 1; k >= 0; k-- {
		p := parent[ordered[k]]
		if p < 0 {
			break // the rest are unprocessed sentinel samples
		}
		if q := parent[p]; samples[p] == samples[q] {
			parent[ordered[k]] = q
		}
	}
}

// isCanonical reports whether sample i represents its plateau: processed,
// and either the global root or strictly apart from its parent's level.
// parent must already be canonicalized.
func isCanonical(i int32, samples []float32, parent []int32) bool {
	p := parent[i]
	if p < 0 {
		return false
	}
	if p == i {
		return true
	}
	return samples[p] != samples[i]
}

// buildComponentTree enumerates canonical samples in index order (real
// scan order, then virtual), assigns each a node, links children to
// parents and propagates the contrast attribute from the leaves up:
// a node's contrast is the largest level drop along any descending path,
//
//	contrast(n) = max over children c of contrast(c) + level(n) - level(c)
//
// so the root's contrast is the dynamic range of the surface and exactly
// one component carries it. It returns the node arena and the sample→node
// index map (-1 for non-canonical samples).
func buildComponentTree(samples []float32, parent []int32, n int) ([]pnode, []int32) {
	nodeOf := make([]int32, 2*n)
	var tree []pnode
	for i := int32(0); int(i) < 2*n; i++ {
		nodeOf[i] = -1
		if isCanonical(i, samples, parent) {
			nodeOf[i] = int32(len(tree))
			tree = append(tree, pnode{parent: -1, level: samples[i]})
		}
	}
	root := 0
	for i := int32(0); int(i) < 2*n; i++ {
		ni := nodeOf[i]
		if ni < 0 {
			continue
		}
		if p := parent[i]; p == i {
			root = int(ni)
		} else {
			np := nodeOf[p]
			tree[np].children = append(tree[np].children, int(ni))
			tree[ni].parent = int(np)
		}
	}
	fillContrast(tree, root)
	return tree, nodeOf
}

// fillContrast propagates the contrast attribute from the leaves to the
// root. The tree can degenerate to a chain as long as the sample count, so
// the traversal is iterative: reverse preorder sees every child before its
// parent.
func fillContrast(tree []pnode, root int) {
	if len(tree) == 0 {
		return
	}
	order := make([]int, 0, len(tree))
	stack := []int{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		stack = append(stack, tree[n].children...)
	}
	for k := len(order) - 1; k >= 0; k-- {
		n := order[k]
		var contrast float32
		for _, c := range tree[n].children {
			if d := tree[c].contrast + tree[n].level - tree[c].level; d > contrast {
				contrast = d
			}
		}
		tree[n].contrast = contrast
	}
}
