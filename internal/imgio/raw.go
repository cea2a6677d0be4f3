package imgio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Raw float raster dump: the image encodings quantize persistence values to
// 16 bits, so persistmap can alternatively emit the exact float32 map. The
// format is a plain header (magic, width, height, little-endian) followed
// by one zstd frame of row-major little-endian float32 values.

// rawMagic identifies a raw float raster dump.
var rawMagic = [4]byte{'T', 'P', 'F', '1'}

// WriteFloatRaw writes a row-major w×h float32 raster at path in the
// compressed raw dump format. The round-trip through ReadFloatRaw is
// bitwise exact.
func WriteFloatRaw(path string, data []float32, w, h int) error {
	if len(data) != w*h {
		return fmt.Errorf("%w: %d values for %dx%d", errNotRaster, len(data), w, h)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	header := make([]byte, 12)
	copy(header, rawMagic[:])
	binary.LittleEndian.PutUint32(header[4:], uint32(w))
	binary.LittleEndian.PutUint32(header[8:], uint32(h))
	if _, err := bw.Write(header); err != nil {
		f.Close()
		return err
	}
	zw, err := zstd.NewWriter(bw)
	if err != nil {
		f.Close()
		return err
	}
	payload := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(payload[4*i:], math.Float32bits(v))
	}
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFloatRaw reads a raster written by WriteFloatRaw.
func ReadFloatRaw(path string) ([]float32, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()
	br := bufio.NewReader(f)
	header := make([]byte, 12)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: short header", errNotRaster)
	}
	if [4]byte(header[:4]) != rawMagic {
		return nil, 0, 0, fmt.Errorf("%w: bad magic", errNotRaster)
	}
	w := int(binary.LittleEndian.Uint32(header[4:]))
	h := int(binary.LittleEndian.Uint32(header[8:]))
	if w <= 0 || h <= 0 || w*h > 1<<28 {
		return nil, 0, 0, fmt.Errorf("%w: dimensions %dx%d", errNotRaster, w, h)
	}
	zr, err := zstd.NewReader(br)
	if err != nil {
		return nil, 0, 0, err
	}
	defer zr.Close()
	payload := make([]byte, 4*w*h)
	if _, err := io.ReadFull(zr, payload); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: short payload", errNotRaster)
	}
	data := make([]float32, w*h)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[4*i:]))
	}
	return data, w, h, nil
}
