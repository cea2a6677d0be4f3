// Package imgio decodes and encodes the rasters exchanged with the
// topomap engines: grayscale inputs, RGBA renderings, 16-bit grayscale
// persistence maps and a lossless compressed float dump.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// ReadGray decodes the image at path (PNG or TIFF) and returns it as a
// row-major 8-bit grayscale buffer with its dimensions. Color inputs are
// converted through the standard grayscale model.
func ReadGray(path string) ([]uint8, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("imgio: decode %s: %w", path, err)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, 0, 0, fmt.Errorf("imgio: empty image %s", path)
	}
	out := make([]uint8, w*h)
	if g, ok := src.(*image.Gray); ok {
		for y := 0; y < h; y++ {
			copy(out[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
		}
		return out, w, h, nil
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out[y*w+x] = g.Y
		}
	}
	return out, w, h, nil
}

// WritePNG encodes img as PNG at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("imgio: encode %s: %w", path, err)
	}
	return f.Close()
}

// WriteGrayFloat encodes a float raster as 16-bit grayscale, PNG or TIFF
// depending on the path extension. Values are scaled by 256 and clamped,
// preserving 1/256 of a gray level; use WriteFloatRaw for a lossless dump.
func WriteGrayFloat(path string, data []float32, w, h int) error {
	if len(data) != w*h {
		return fmt.Errorf("imgio: %d values for %dx%d raster", len(data), w, h)
	}
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := data[y*w+x] * 256
			if v < 0 {
				v = 0
			} else if v > 65535 {
				v = 65535
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(v)})
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tif" || ext == ".tiff" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		opts := &tiff.Options{Compression: tiff.Deflate}
		if err := tiff.Encode(f, img, opts); err != nil {
			f.Close()
			return fmt.Errorf("imgio: encode %s: %w", path, err)
		}
		return f.Close()
	}
	return WritePNG(path, img)
}

// errNotRaster reports a buffer/dimension mismatch or a malformed dump
// (short header, bad magic, bad dimensions, short payload) in the raw codec.
var errNotRaster = errors.New("imgio: malformed raw raster")
