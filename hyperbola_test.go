package topomap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func TestSaddleInSquare(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d float64
		want       float64
		ok         bool
	}{
		{
			name: "checkerboard",
			a:    0, b: 9, c: 9, d: 0,
			want: 4.5, ok: true,
		},
		{
			name: "single high corner",
			a:    0, b: 0, c: 0, d: 9,
			ok: false,
		},
		{
			name: "antidiagonal below",
			a:    5, b: 1, c: 2, d: 7,
			want: 33.0 / 9.0, ok: true,
		},
		{
			name: "boundary is not outside",
			a:    0, b: 0, c: 9, d: 9,
			ok: false,
		},
		{
			name: "monotone ramp",
			a:    0, b: 1, c: 2, d: 3,
			ok: false,
		},
		{
			name: "opposite sides",
			a:    4, b: 9, c: 0, d: 5,
			ok: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := saddleInSquare(tt.a, tt.b, tt.c, tt.d)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, v, epsilon)
			}
		})
	}
}

func TestSaddleLevelBetweenDiagonals(t *testing.T) {
	// The saddle level always separates the two diagonals.
	cases := [][4]float64{
		{0, 9, 9, 0},
		{3, 0, 0, 7},
		{10, 200, 150, 30},
		{255, 0, 1, 254},
	}
	for _, c := range cases {
		a, b, cc, d := c[0], c[1], c[2], c[3]
		v, ok := saddleInSquare(a, b, cc, d)
		require.True(t, ok)
		if b > math.Max(a, d) { // b,c above the a-d diagonal
			assert.Greater(t, v, math.Max(a, d))
			assert.Less(t, v, math.Min(b, cc))
		} else { // b,c below
			assert.Less(t, v, math.Min(a, d))
			assert.Greater(t, v, math.Max(b, cc))
		}
	}
}

func TestQuantizeLevel(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"exact half", 4.5, 4.5},
		{"integer clamps up", 2.0, 2 + 2*DeltaLevel},
		{"near next integer clamps down", 2.9999, 2 + float64(QuantLevels-2)*DeltaLevel},
		{"generic fraction", 7.3, 7 + math.Floor(0.3*QuantLevels)*DeltaLevel},
		{"saddle of two peaks", 2.1, 2 + 51*DeltaLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, QuantizeLevel(tt.v), epsilon)
		})
	}
	// Quantization groups: equal iff same cell.
	assert.Equal(t, QuantizeLevel(4.5000001), QuantizeLevel(4.5))
	assert.NotEqual(t, QuantizeLevel(4.5), QuantizeLevel(4.51))
}

func TestHyperbolaSamplesOnBranch(t *testing.T) {
	// Checkerboard dual pixel: saddle at (0.5, 0.5), level 4.5.
	lev := [4]float64{0, 9, 0, 9} // TL, BL, BR, TR
	pos := Pt(0, 0)
	l := 2.0
	entry := Pt(linear(lev[0], l, lev[3]), 0) // on the top edgel
	h := newHyperbola(pos, entry, lev, l)
	require.True(t, h.valid())
	assert.Greater(t, h.denom, 0.0) // normalized positive
	assert.InDelta(t, 0.5, h.s.X, epsilon)
	assert.InDelta(t, 0.5, h.s.Y, epsilon)
	assert.InDelta(t, 4.5, h.num/h.denom, epsilon)

	// By symmetry the exit is on the left edgel.
	exit := Pt(0, linear(lev[0], l, lev[1]))
	pts := h.sample(entry, exit, 10, nil)
	require.NotEmpty(t, pts)
	for _, p := range pts {
		assert.InDelta(t, h.delta, (p.X-h.s.X)*(p.Y-h.s.Y), epsilon)
		assert.True(t, p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1)
	}
	// The vertex lies on the branch, inside the dual pixel, in the entry
	// quadrant.
	assert.True(t, h.vertexInDualPixel(pos))
	assert.InDelta(t, h.delta, (h.v.X-h.s.X)*(h.v.Y-h.s.Y), epsilon)
	assert.Less(t, h.v.X, h.s.X)
	assert.Less(t, h.v.Y, h.s.Y)
}

func TestHyperbolaDegenerate(t *testing.T) {
	// Equal diagonal sums: the level set is a straight segment.
	lev := [4]float64{0, 5, 10, 5}
	h := newHyperbola(Pt(0, 0), Pt(0.5, 0), lev, 3)
	assert.False(t, h.valid())
	assert.False(t, h.vertexInDualPixel(Pt(0, 0)))
}

func TestHyperbolaSampleCount(t *testing.T) {
	lev := [4]float64{0, 9, 0, 9}
	h := newHyperbola(Pt(0, 0), Pt(0.25, 0), lev, 2)
	// ptsPixel below 2 yields no interior samples.
	assert.Empty(t, h.sample(Pt(0.25, 0), Pt(0, 0.25), 1, nil))
	assert.Empty(t, h.sample(Pt(0.25, 0), Pt(0, 0.25), 0, nil))
	// ceil(dist*ptsPixel)-1 interior samples along the dominant axis.
	pts := h.sample(Pt(0.25, 0), Pt(0, 0.25), 20, nil)
	assert.Len(t, pts, int(math.Ceil(0.25*20))-1)
}
