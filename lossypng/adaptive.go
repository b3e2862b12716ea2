package lossypng

// adaptiveFilterForRows implements C4: libpng's PNG_FILTER_HEUR_MINIMUM_SUM
// heuristic. It computes, for each of the five filters, the sum of
// absolute signed residuals over the row (values >= 128 counted as
// 256-value), and returns the filter with the smallest sum, ties broken in
// PNG filter order (None < Sub < Up < Average < Paeth).
func adaptiveFilterForRows(bytesPerPixel int, aboveRow, pixels []byte) Filter {
	var sums [filterCount]uint32

	width := len(pixels)
	for i := 0; i < width; i++ {
		var above, left, diag byte
		if i >= bytesPerPixel {
			left = pixels[i-bytesPerPixel]
			if aboveRow != nil {
				diag = aboveRow[i-bytesPerPixel]
			}
		}
		if aboveRow != nil {
			above = aboveRow[i]
		}
		here := pixels[i]

		sums[FilterNone] += signedMagnitude(here)
		sums[FilterSub] += signedMagnitude(here - left)
		sums[FilterUp] += signedMagnitude(here - above)
		sums[FilterAverage] += signedMagnitude(here - filterAverage(above, 0, left))
		sums[FilterPaeth] += signedMagnitude(here - filterPaeth(above, diag, left))
	}

	best := FilterNone
	for f := FilterSub; f < filterCount; f++ {
		if sums[f] < sums[best] {
			best = f
		}
	}
	return best
}

// signedMagnitude interprets a byte as a value in [-128, 127] (values >=
// 128 count as 256-v) and returns its absolute value.
func signedMagnitude(v byte) uint32 {
	if v < 128 {
		return uint32(v)
	}
	return uint32(256 - int(v))
}
