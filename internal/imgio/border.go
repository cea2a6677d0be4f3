package imgio

// FillBorderMedian replaces every border pixel of the row-major w×h image
// with the median of the original border values and returns that value.
// This is the seeding step the level-line extraction contract expects: a
// constant border guarantees that no regional extremum touches it and that
// every level line closes inside the image.
func FillBorderMedian(im []uint8, w, h int) uint8 {
	var histo [256]int
	forBorder(im, w, h, func(i int) { histo[im[i]]++ })
	limit := w + h - 2 // half the number of border pixels
	sum, m := 0, -1
	for sum < limit {
		m++
		sum += histo[m]
	}
	v := uint8(m)
	forBorder(im, w, h, func(i int) { im[i] = v })
	return v
}

// forBorder invokes fn with the index of every border pixel.
func forBorder(im []uint8, w, h int, fn func(i int)) {
	for i := 0; i < w; i++ { // first row
		fn(i)
	}
	for y := 1; y+1 < h; y++ { // side columns
		fn(y * w)
		fn(y*w + w - 1)
	}
	for i := (h - 1) * w; i < w*h; i++ { // last row
		fn(i)
	}
}
