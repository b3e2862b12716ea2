package lossypng

// computeOriginalFrequency implements C5's static table: for every one of
// the five filters, it walks the unmodified image and counts how often
// each post-filter byte occurs. It is computed once per Optimize call and
// shared read-only across every cloned state.
func computeOriginalFrequency(img *Image) *frequencyTable {
	var table frequencyTable
	bpp := img.BytesPerPixel

	for f := Filter(0); f < filterCount; f++ {
		for y := 0; y < img.Height; y++ {
			row := img.Rows[y]
			var aboveRow []byte
			if y > 0 {
				aboveRow = img.Rows[y-1]
			}
			for x := 0; x < img.Width; x++ {
				for c := 0; c < bpp; c++ {
					offset := x*bpp + c
					var left byte
					if x > 0 {
						left = row[offset-bpp]
					}
					var above, diag byte
					if aboveRow != nil {
						above = aboveRow[offset]
						if x > 0 {
							diag = aboveRow[offset-bpp]
						}
					}
					predicted := predict(f, above, diag, left)
					filtered := row[offset] - predicted
					table[f][filtered]++
				}
			}
		}
	}
	return &table
}
