// Command levellines renders the level lines of a grayscale image, colored
// by type: regular lines black, minima blue, saddles green, maxima red.
//
// Usage:
//
//	levellines [-z zoom] [-i] [-f] [-v] in.png out.png
//
// The image border is replaced by its median value before extraction, so
// every level line closes inside the image. Hyperbola branches are sampled
// with zoom-1 points per pixel.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	"github.com/topomap/topomap"
	"github.com/topomap/topomap/internal/imgio"
	"github.com/topomap/topomap/internal/render"
)

// palette maps line types to display colors.
var palette = map[topomap.LineType]color.RGBA{
	topomap.Regular: {0, 0, 0, 255},
	topomap.Min:     {0, 0, 255, 255},
	topomap.Saddle:  {0, 255, 0, 255},
	topomap.Max:     {255, 0, 0, 255},
}

func main() {
	var (
		zoom    = flag.Int("z", 1, "integer zoom factor")
		underIn = flag.Bool("i", false, "underlay the zoomed input image")
		fill    = flag.Bool("f", false, "underlay the quantized reconstruction")
		verbose = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-z zoom] [-i] [-f] [-v] in.png out.png\n", os.Args[0])
		os.Exit(1)
	}
	if *zoom < 1 {
		fmt.Fprintln(os.Stderr, "The zoom factor must be strictly positive")
		os.Exit(1)
	}
	if *verbose {
		topomap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if err := run(flag.Arg(0), flag.Arg(1), *zoom, *underIn, *fill); err != nil {
		log.Fatal(err)
	}
}

func run(inPath, outPath string, zoom int, underIn, fill bool) error {
	in, w, h, err := imgio.ReadGray(inPath)
	if err != nil {
		return err
	}
	median := imgio.FillBorderMedian(in, w, h)

	tree, err := topomap.ExtractTree(in, w, h, zoom-1)
	if err != nil {
		return err
	}
	fmt.Printf("%d level lines:\n", len(tree.Lines))

	zw, zh := w*zoom, h*zoom
	out := image.NewRGBA(image.Rect(0, 0, zw, zh))
	tf := render.Zoom(zoom)
	switch {
	case fill:
		drawReconstruction(out, tree, median, zoom)
	case underIn:
		drawInput(out, in, w, h, zoom)
	default:
		draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	}

	var stats [4]int
	for _, n := range tree.Preorder() {
		ll := tree.Lines[tree.Nodes[n].Line]
		stats[ll.Type]++
		c := palette[ll.Type]
		render.Draw(ll.Points, zw, zh, tf, func(x, y int) {
			out.SetRGBA(x, y, c)
		})
	}
	fmt.Printf("Min: %d. Max: %d. Saddles: %d.\n",
		stats[topomap.Min], stats[topomap.Max], stats[topomap.Saddle])

	return imgio.WritePNG(outPath, out)
}

// drawInput paints the nearest-neighbor zoomed input as background.
func drawInput(dst *image.RGBA, in []uint8, w, h, zoom int) {
	src := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(src.Pix[y*src.Stride:y*src.Stride+w], in[y*w:(y+1)*w])
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}

// drawReconstruction paints the quantized image implied by the level-line
// tree: starting from the border median, each line interior is filled with
// its level, outside-in, so nested lines overwrite their parents.
func drawReconstruction(dst *image.RGBA, tree *topomap.Tree, median uint8, zoom int) {
	b := dst.Bounds()
	zw, zh := b.Dx(), b.Dy()
	gray := make([]uint8, zw*zh)
	for i := range gray {
		gray[i] = median
	}
	tf := render.Zoom(zoom)
	for _, n := range tree.Preorder() {
		ll := tree.Lines[tree.Nodes[n].Line]
		v := ll.Level
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		render.Fill(ll.Points, uint8(v+0.5), gray, zw, zh, tf)
	}
	for y := 0; y < zh; y++ {
		for x := 0; x < zw; x++ {
			g := gray[y*zw+x]
			dst.SetRGBA(x, y, color.RGBA{g, g, g, 255})
		}
	}
}
