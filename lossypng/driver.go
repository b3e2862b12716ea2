package lossypng

import (
	"fmt"
	"math"
)

// StatsLogger receives one line per row that falls back to the identity
// transform (see C10). A nil logger silently drops the message; the CLI
// wires this to its pnglog.Stats sink.
type StatsLogger interface {
	Printf(format string, args ...interface{})
}

// Optimize mutates img.Rows in place, perturbing pixel values within the
// given strength envelope so that a subsequent PNG encode using the PNG row
// filters and DEFLATE produces a smaller file. strength is the maximum
// allowed |symbol - filtered value| per channel (0 is lossless).
// bleedDivider attenuates the diffused quantization error (1 is full
// strength, larger values approach ordered quantization). If rowFilters is
// non-nil it must have length img.Height; on return it holds the PNG
// filter id (0..4) chosen for each row.
func Optimize(img *Image, strength uint8, bleedDivider int16, rowFilters []byte, logger StatsLogger) error {
	if err := validateDimensions(img.Width, img.Height, img.BytesPerPixel); err != nil {
		return err
	}
	if bleedDivider < 1 {
		return fmt.Errorf("lossypng: bleed divider %d is below 1", bleedDivider)
	}
	if rowFilters != nil && len(rowFilters) != img.Height {
		return fmt.Errorf("lossypng: rowFilters length %d does not match image height %d", len(rowFilters), img.Height)
	}

	original := computeOriginalFrequency(img)
	base := newState(img, original)
	divider := int32(bleedDivider)

	for base.y < img.Height {
		y := base.y
		// The gate is always live: PNG 1.2 §5.9 obligates the first row to
		// be adaptively filterable, and every later row must still match
		// C4's prediction on its own final contents whenever the caller
		// asked for per-row filter ids (P5). There is no mode where the
		// driver would pick a filter the adaptive picker disagrees with.
		adaptive := true

		var bestCost uint32 = math.MaxUint32
		var bestState *state
		var bestFilter Filter
		found := false

		for strengthTry := strength; ; {
			for f := Filter(0); f < filterCount; f++ {
				scratch := base.clone()
				cost, ok := scratch.runRow(img, f, strengthTry, divider, adaptive)
				if !ok {
					continue
				}
				if cost < bestCost {
					bestCost = cost
					bestState = scratch
					bestFilter = f
					found = true
				}
			}
			if found {
				break
			}
			if strengthTry == 0 {
				break
			}
			strengthTry--
		}

		if !found {
			// Strength underflowed without a single accepted candidate.
			// The reference aborts the process here; this implementation
			// falls back to an identity row instead (see C10).
			scratch := base.clone()
			adaptiveFilter := adaptiveFilterForRows(img.BytesPerPixel, rowAbove(img, y), img.Rows[y])
			scratch.runIdentityRow(img, adaptiveFilter)
			bestState = scratch
			bestFilter = adaptiveFilter
			if logger != nil {
				logger.Printf("lossypng: row %d: falling back to identity transform (no accepted candidate)", y)
			}
		}

		copy(img.Rows[y], bestState.pixels)
		if rowFilters != nil {
			rowFilters[y] = byte(bestFilter)
		}
		base = bestState
	}

	return nil
}

func rowAbove(img *Image, y int) []byte {
	if y == 0 {
		return nil
	}
	return img.Rows[y-1]
}
