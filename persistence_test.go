package topomap

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const persistEps = 1e-4

func floatImage(pix []uint8) []float32 {
	im := make([]float32, len(pix))
	for i, v := range pix {
		im[i] = float32(v)
	}
	return im
}

func invert(im []float32) []float32 {
	out := make([]float32, len(im))
	for i, v := range im {
		out[i] = 255 - v
	}
	return out
}

func TestPersistenceValidation(t *testing.T) {
	tests := []struct {
		name string
		im   []float32
		w, h int
	}{
		{"too narrow", make([]float32, 3), 1, 3},
		{"too short", make([]float32, 3), 3, 1},
		{"length mismatch", make([]float32, 5), 2, 3},
		{"negative sample", []float32{0, 1, -2, 3}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Persistence(tt.im, tt.w, tt.h)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPersistenceConstant(t *testing.T) {
	im := floatImage([]uint8{5, 5, 5, 5, 5, 5, 5, 5, 5})
	pm, err := Persistence(im, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 9), pm)
}

func TestPersistenceSingleMaximum(t *testing.T) {
	im := floatImage([]uint8{
		0, 0, 0,
		0, 9, 0,
		0, 0, 0,
	})
	pm, err := Persistence(im, 3, 3)
	require.NoError(t, err)
	// The component born at the global maximum spans the whole range; the
	// floor is a leaf component with no drop below it.
	want := []float32{
		0, 0, 0,
		0, 9, 0,
		0, 0, 0,
	}
	assert.Equal(t, want, pm)
}

func TestPersistenceCheckerboard(t *testing.T) {
	// One bilinear saddle at level 4.5 joins the two diagonal minima: each
	// 0 is its own component (diagonal adjacency only exists through the
	// virtual saddle sample), merged at 4.5.
	im := floatImage([]uint8{
		0, 9,
		9, 0,
	})
	pm, err := Persistence(im, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 9, 9, 0}, pm)

	// Complemented orientation: two maxima, symmetric map.
	pmMax, err := Persistence(invert(im), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{9, 0, 0, 9}, pmMax)
}

func TestPersistenceMonotoneRamp(t *testing.T) {
	im := floatImage([]uint8{
		0, 1, 2,
		0, 1, 2,
		0, 1, 2,
	})
	pm, err := Persistence(im, 3, 3)
	require.NoError(t, err)
	// Each column is one plateau component; its contrast is the drop to
	// the deepest column below it.
	want := []float32{
		0, 1, 2,
		0, 1, 2,
		0, 1, 2,
	}
	assert.Equal(t, want, pm)
}

func TestPersistenceNestedMaxima(t *testing.T) {
	im := floatImage([]uint8{
		0, 0, 0, 0,
		0, 5, 5, 0,
		0, 5, 9, 0,
		0, 0, 0, 0,
	})
	pm, err := Persistence(im, 4, 4)
	require.NoError(t, err)
	want := []float32{
		0, 0, 0, 0,
		0, 5, 5, 0,
		0, 5, 9, 0,
		0, 0, 0, 0,
	}
	assert.Equal(t, want, pm)
}

func TestPersistenceTwoPeaks(t *testing.T) {
	// Peaks of heights 3 and 7; the saddle between them sits at 2.1, so
	// the small peak's component reaches down to the virtual sample and
	// its contrast is its full height.
	im := floatImage([]uint8{
		0, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 7, 0,
		0, 0, 0, 0,
	})
	pm, err := Persistence(im, 4, 4)
	require.NoError(t, err)
	assert.InDelta(t, 3, pm[1*4+1], persistEps)
	assert.InDelta(t, 7, pm[2*4+2], persistEps)
	for i, v := range pm {
		if i == 1*4+1 || i == 2*4+2 {
			continue
		}
		assert.InDelta(t, 0, v, persistEps, "floor pixel %d", i)
	}
}

func TestPersistenceBoundsAndRoot(t *testing.T) {
	im := floatImage(testImage(13, 11, 90, 17))
	pm, err := Persistence(im, 13, 11)
	require.NoError(t, err)

	var lo, hi float32 = 255, 0
	for _, v := range im {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	var top float32
	for _, v := range pm {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, hi-lo+persistEps)
		if v > top {
			top = v
		}
	}
	// The global component spans the full dynamic range.
	assert.InDelta(t, float64(hi-lo), float64(top), persistEps)
}

func TestPersistenceDeterminism(t *testing.T) {
	im := floatImage(testImage(9, 9, 33, 123))
	a, err := Persistence(im, 9, 9)
	require.NoError(t, err)
	b, err := Persistence(im, 9, 9)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPersistenceInputUntouched(t *testing.T) {
	im := floatImage(testImage(6, 6, 10, 77))
	orig := make([]float32, len(im))
	copy(orig, im)
	_, err := Persistence(im, 6, 6)
	require.NoError(t, err)
	assert.Equal(t, orig, im)
}

func TestCanonicalChainMonotone(t *testing.T) {
	// Replay the merge stages on a small image and verify that parent
	// chains climb strictly in level after canonicalization.
	pix := testImage(7, 7, 60, 9)
	im := floatImage(pix)
	w, h, n := 7, 7, 49

	samples := make([]float32, 2*n)
	copy(samples, im)
	fillVirtualSamples(im, w, h, samples[n:])
	ordered := make([]int32, 0, 2*n)
	for i := 0; i < 2*n; i++ {
		ordered = append(ordered, int32(i))
	}
	sort.Slice(ordered, func(i, j int) bool {
		vi, vj := samples[ordered[i]], samples[ordered[j]]
		if vi != vj {
			return vi < vj
		}
		return ordered[i] < ordered[j]
	})

	parent, zparent := make([]int32, 2*n), make([]int32, 2*n)
	for i := range parent {
		parent[i], zparent[i] = -1, -1
	}
	for _, p := range ordered {
		if int(p) >= n && samples[p] == sentinel {
			continue
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
			if i >= 4 {
				q += int32(n)
			}
			if zparent[q] < 0 {
				continue
			}
			if r := findRoot(zparent, q); r != p {
				zparent[r], parent[r] = p, p
			}
		}
	}
	canonicalize(samples, parent, ordered)

	roots := 0
	for i := int32(0); int(i) < 2*n; i++ {
		if parent[i] < 0 {
			continue
		}
		if parent[i] == i {
			roots++
		}
		// Parent level never decreases; canonical parents are strict.
		assert.GreaterOrEqual(t, samples[parent[i]], samples[i])
		if isCanonical(i, samples, parent) && parent[i] != i {
			assert.Greater(t, samples[parent[i]], samples[i])
		}
	}
	assert.Equal(t, 1, roots, "a connected surface merges into one component")
}
