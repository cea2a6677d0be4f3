// Package topomap analyzes the topology of a grayscale image interpreted as
// a continuous bilinear surface.
//
// # Overview
//
// topomap produces two artifacts from a single-channel raster:
//
//   - The level lines of the bilinear interpolant: closed polygonal curves
//     around regional extrema and through bilinear saddles, organized into an
//     inclusion tree.
//   - The persistence map: for every pixel, the topological contrast of the
//     connected component of the surface that contains it, computed with a
//     monotone union-find over real and virtual (saddle) samples.
//
// # Quick Start
//
//	import "github.com/topomap/topomap"
//
//	// Level lines and their inclusion tree
//	tree, err := topomap.ExtractTree(pixels, w, h, 4)
//
//	// Persistence map (minima orientation)
//	pm, err := topomap.Persistence(floats, w, h)
//
// # Coordinate System
//
// Standard raster coordinates: origin (0,0) at the top-left pixel center,
// X increases right, Y increases down. A dual pixel is the unit square whose
// corners are four adjacent pixel centers; level lines live on the bilinear
// interpolant over the dual pixel grid.
//
// # Preprocessing Contract
//
// Level-line extraction assumes the image border is constant (callers
// typically replace it with the border median, see internal/imgio). On such
// images every level line is a closed loop that never reaches the border.
// The persistence map has no such requirement.
//
// # Determinism
//
// Both engines are single-threaded and allocate all working buffers up
// front. Their output is a pure function of the input image: level lines are
// returned in extraction order (extrema first, then saddle groups by
// ascending level) and persistence ties are broken by sample kind and scan
// order.
package topomap
