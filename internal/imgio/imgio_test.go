package imgio

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGrayRoundTrip(t *testing.T) {
	w, h := 5, 3
	src := image.NewGray(image.Rect(0, 0, w, h))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 17)
	}
	path := filepath.Join(t.TempDir(), "gray.png")
	require.NoError(t, WritePNG(path, src))

	got, gw, gh, err := ReadGray(path)
	require.NoError(t, err)
	assert.Equal(t, w, gw)
	assert.Equal(t, h, gh)
	assert.Equal(t, src.Pix, got)
}

func TestReadGrayMissingFile(t *testing.T) {
	_, _, _, err := ReadGray(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestWriteGrayFloatFormats(t *testing.T) {
	data := []float32{0, 1.5, 127, 255}
	for _, name := range []string{"pm.png", "pm.tif", "pm.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteGrayFloat(path, data, 2, 2))

			got, w, h, err := ReadGray(path)
			require.NoError(t, err)
			assert.Equal(t, 2, w)
			assert.Equal(t, 2, h)
			// Gray16 values scaled by 256 decode back to the 8-bit levels.
			assert.Equal(t, []uint8{0, 1, 127, 255}, got)
		})
	}
}

func TestWriteGrayFloatBadLength(t *testing.T) {
	assert.Error(t, WriteGrayFloat(filepath.Join(t.TempDir(), "x.png"), make([]float32, 3), 2, 2))
}

func TestFillBorderMedian(t *testing.T) {
	// Border multiset: {0,1,2 (top), 3,5 (sides), 6,7,9 (bottom)}; median
	// picked by cumulative histogram at half the border count.
	im := []uint8{
		0, 1, 2,
		3, 99, 5,
		6, 7, 9,
	}
	m := FillBorderMedian(im, 3, 3)
	assert.Equal(t, uint8(3), m)
	want := []uint8{
		3, 3, 3,
		3, 99, 3,
		3, 3, 3,
	}
	assert.Equal(t, want, im)
}

func TestFillBorderMedianConstant(t *testing.T) {
	im := []uint8{7, 7, 7, 7, 0, 7, 7, 7, 7}
	assert.Equal(t, uint8(7), FillBorderMedian(im, 3, 3))
}

func TestFloatRawRoundTrip(t *testing.T) {
	data := []float32{0, 2.5, 4.5, 1e6, 0.125, 255}
	path := filepath.Join(t.TempDir(), "pm.f32z")
	require.NoError(t, WriteFloatRaw(path, data, 3, 2))

	got, w, h, err := ReadFloatRaw(path)
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, data, got)
}

func TestFloatRawRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	require.NoError(t, WritePNG(path, image.NewGray(image.Rect(0, 0, 2, 2))))
	_, _, _, err := ReadFloatRaw(path)
	assert.Error(t, err)
}

func TestWriteFloatRawBadLength(t *testing.T) {
	assert.Error(t, WriteFloatRaw(filepath.Join(t.TempDir(), "x.f32z"), make([]float32, 3), 2, 2))
}
