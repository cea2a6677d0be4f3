package topomap

import "errors"

// ErrInvalidInput reports image dimensions below 2x2, a pixel buffer whose
// length does not match the declared dimensions, a negative sampling rate,
// or a negative sample value given to Persistence.
var ErrInvalidInput = errors.New("topomap: invalid input")

// ErrTooLarge reports an image wider than MaxWidth. Saddle levels are
// quantized with a fixed budget of mantissa bits (see QuantLevels); wider
// images would exhaust the headroom and alias distinct saddle levels, so the
// extraction engine refuses them instead of misquantizing.
var ErrTooLarge = errors.New("topomap: image too wide")
