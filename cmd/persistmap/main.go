// Command persistmap writes the two persistence maps of a grayscale image:
// the minima orientation and the maxima orientation (computed on the
// complemented image).
//
// Usage:
//
//	persistmap [-r] [-v] in.png pm+.png pm-.png
//
// Outputs are 16-bit grayscale (values scaled by 256), PNG or TIFF by
// extension. With -r, or an output ending in .f32z, the exact float32 map
// is written in a zstd-compressed raw dump instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/topomap/topomap"
	"github.com/topomap/topomap/internal/imgio"
)

func main() {
	var (
		raw     = flag.Bool("r", false, "write raw float32 dumps")
		verbose = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()
	if flag.NArg() != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-r] [-v] in.png pm+.png pm-.png\n", os.Args[0])
		os.Exit(1)
	}
	if *verbose {
		topomap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if err := run(flag.Arg(0), flag.Arg(1), flag.Arg(2), *raw); err != nil {
		log.Fatal(err)
	}
}

func run(inPath, minPath, maxPath string, raw bool) error {
	pix, w, h, err := imgio.ReadGray(inPath)
	if err != nil {
		return err
	}
	im := make([]float32, w*h)
	for i, v := range pix {
		im[i] = float32(v)
	}

	pmMin, err := topomap.Persistence(im, w, h)
	if err != nil {
		return err
	}
	for i, v := range im {
		im[i] = 255 - v
	}
	pmMax, err := topomap.Persistence(im, w, h)
	if err != nil {
		return err
	}

	if err := writeMap(minPath, pmMin, w, h, raw); err != nil {
		return err
	}
	return writeMap(maxPath, pmMax, w, h, raw)
}

func writeMap(path string, data []float32, w, h int, raw bool) error {
	if raw || strings.HasSuffix(path, ".f32z") {
		return imgio.WriteFloatRaw(path, data, w, h)
	}
	return imgio.WriteGrayFloat(path, data, w, h)
}
