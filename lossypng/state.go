package lossypng

const (
	ditherRows   = 3
	filterWidth  = 5
	filterCenter = filterWidth / 2
	symbolRange  = 256
)

// maxCount stands in for the reference implementation's UINTMAX_MAX: the
// row-cost sweep (C7 step 3) only ever compares costs against each other, so
// the exact magnitude of the numerator doesn't matter, only that it is a
// fixed constant large enough that every symbol frequency divides it
// cleanly into a meaningful bit length.
const maxCount = ^uint64(0)

// frequencyTable is the static per-filter histogram of post-filter bytes
// the unmodified image would produce. It is computed once per Optimize
// call and shared (not copied) by every cloned state, per the data model's
// lifecycle note.
type frequencyTable [filterCount][symbolRange]uint32

// state is the mutable working set carried across rows (spec.md's
// OptimizeState). It is cloned per candidate (filter, strength) pair
// within a row and the best candidate is adopted as the new base state.
type state struct {
	x, y int

	pixels     []byte
	colorError [ditherRows][]colorDelta

	symbolFrequency [symbolRange]uint32
	symbolCount     uint64

	original *frequencyTable

	width, height, bytesPerPixel int
}

func newState(img *Image, original *frequencyTable) *state {
	errorWidth := img.Width + filterWidth - 1
	s := &state{
		width:         img.Width,
		height:        img.Height,
		bytesPerPixel: img.BytesPerPixel,
		pixels:        make([]byte, img.Width*img.BytesPerPixel),
		original:      original,
	}
	for i := range s.colorError {
		s.colorError[i] = make([]colorDelta, errorWidth)
	}
	return s
}

// clone makes a cheap per-candidate copy: the row-sized pixel buffer, the
// small color-error window and the 256-entry frequency histogram are
// copied by value; the static original-frequency table is shared.
func (s *state) clone() *state {
	c := *s
	c.pixels = append([]byte(nil), s.pixels...)
	for i := range c.colorError {
		c.colorError[i] = append([]colorDelta(nil), s.colorError[i]...)
	}
	return &c
}

// quantizePixel implements C6: it picks a committed byte for every channel
// of the pixel at the current cursor, advances the cursor, and diffuses the
// resulting color error.
func (s *state) quantizePixel(img *Image, filter Filter, strength uint8, bleedDivider int32) {
	bpp := s.bytesPerPixel
	back := make([]int32, bpp)
	here := make([]int32, bpp)

	row := img.Rows[s.y]
	alphaTransparent := bpp%2 == 0 && row[s.x*bpp+bpp-1] == 0

	for c := 0; c < bpp; c++ {
		offset := s.x*bpp + c
		orig := int32(row[offset])

		var left byte
		if s.x > 0 {
			left = s.pixels[offset-bpp]
		}
		var above, diag byte
		if s.y > 0 {
			aboveRow := img.Rows[s.y-1]
			above = aboveRow[offset]
			if s.x > 0 {
				diag = aboveRow[offset-bpp]
			}
		}
		predicted := int32(predict(filter, above, diag, left))

		var symbol byte
		if alphaTransparent {
			// Preserve the channel bit-exact: commit orig untouched and
			// diffuse no error from this pixel (here == back == orig).
			here[c] = orig
			back[c] = orig
			symbol = byte(orig - predicted)
		} else {
			lane := deltaIndex(bpp, c)
			colorErr := int32(s.colorError[0][s.x+filterCenter][lane])
			here[c] = orig + colorErr

			original := orig - predicted
			if original < -128 {
				predicted -= 256
				original = orig - predicted
			} else if original > 127 {
				predicted += 256
				original = orig - predicted
			}
			filtered := here[c] - predicted

			effStrength := int32(strength)
			if (bpp == 3 || bpp == 4) && c == 1 {
				effStrength /= 2
			} else if bpp == 2 && c == 0 {
				effStrength /= 2
			}

			var lo, hi int32
			if filtered < 0 {
				hi = -(-filtered - (-filtered % (effStrength + 1)))
				lo = hi - effStrength
			} else {
				lo = filtered - (filtered % (effStrength + 1))
				hi = lo + effStrength
			}
			// Keep the band within strength of orig despite dither error.
			limit := int32(strength)
			if lo < original-limit {
				lo = original - limit
			}
			if hi > original+limit {
				hi = original + limit
			}
			if hi < lo {
				if filtered < original {
					lo, hi = original-limit, original-limit
				} else {
					lo, hi = original+limit, original+limit
				}
			}
			if lo+predicted < 0 {
				lo = -predicted
			}
			if hi+predicted > 255 {
				hi = 255 - predicted
			}
			if hi < lo {
				if filtered+predicted > 255 {
					lo, hi = 255-predicted, 255-predicted
				}
				if filtered+predicted < 0 {
					lo, hi = -predicted, -predicted
				}
			}

			found := false
			var bestFreq uint32
			var bestSymbol byte
			var bestBack int32
			for cand := lo; cand <= hi; cand++ {
				candByte := byte(cand)
				freq := s.symbolFrequency[candByte]

				newBest := false
				switch {
				case !found:
					newBest = true
				case bestFreq < freq:
					newBest = true
				case bestFreq == freq:
					bestClose := s.original[filter][bestSymbol]
					closeFreq := s.original[filter][candByte]
					if bestClose < closeFreq {
						newBest = true
					} else if bestClose == closeFreq && cand == original {
						newBest = true
					}
				}
				if newBest {
					found = true
					bestFreq = freq
					bestSymbol = candByte
					bestBack = cand + predicted
				}
			}
			symbol = bestSymbol
			back[c] = bestBack
		}

		s.pixels[offset] = byte(back[c])
		s.symbolFrequency[symbol]++
		s.symbolCount++
	}

	difference := colorDifference(bpp, back, here)
	s.diffuseColorError(bleedDivider, difference)
	s.x++
}

// diffuseColorError implements C3: it spreads the 4-lane signed residual
// for the just-committed pixel at the current column into the Sierra-style
// three-row stencil, attenuated by bleedDivider. The weight decomposition
// (2/16, 3/16, 4/16, 1/2, remainder) matches the reference bit for bit; it
// is not the same as a direct {2,3,4,5}/32 weighting.
func (s *state) diffuseColorError(bleedDivider int32, difference colorDelta) {
	x := s.x
	for c := 0; c < deltaLanes; c++ {
		d := difference[c] / bleedDivider

		twos := d / 16
		d -= twos * 4
		s.colorError[1][x+0][c] += twos
		s.colorError[1][x+4][c] += twos
		s.colorError[2][x+1][c] += twos
		s.colorError[2][x+3][c] += twos

		threes := d / 8
		d -= threes * 2
		s.colorError[0][x+4][c] += threes
		s.colorError[2][x+2][c] += threes

		fours := d * 2 / 9
		d -= fours * 2
		s.colorError[1][x+1][c] += fours
		s.colorError[1][x+3][c] += fours

		five := d / 2
		d -= five
		s.colorError[1][x+2][c] += five

		s.colorError[0][x+3][c] += d
	}
}

// runRow implements C7: it walks the remainder of the row through the
// quantizer, optionally verifies the adaptive-filter gate, computes the
// authoritative post-hoc row cost, and advances to the next row. ok is
// false when the row was rejected by the adaptive gate.
func (s *state) runRow(img *Image, filter Filter, strength uint8, bleedDivider int32, adaptive bool) (cost uint32, ok bool) {
	for s.x < s.width {
		s.quantizePixel(img, filter, strength, bleedDivider)
	}

	var aboveRow []byte
	if s.y > 0 {
		aboveRow = img.Rows[s.y-1]
	}
	if adaptive {
		predicted := adaptiveFilterForRows(s.bytesPerPixel, aboveRow, s.pixels)
		if predicted != filter {
			return 0, false
		}
	}

	bpp := s.bytesPerPixel
	for x := 0; x < s.width; x++ {
		for c := 0; c < bpp; c++ {
			offset := x*bpp + c
			var left byte
			if x > 0 {
				left = s.pixels[offset-bpp]
			}
			var above, diag byte
			if aboveRow != nil {
				above = aboveRow[offset]
				if x > 0 {
					diag = aboveRow[offset-bpp]
				}
			}
			predicted := predict(filter, above, diag, left)
			symbol := s.pixels[offset] - predicted
			freq := s.symbolFrequency[symbol]
			if freq > 0 {
				cost += uint32(ulog2(maxCount / uint64(freq)))
			}
		}
	}

	s.advanceRow()
	return cost, true
}

// runIdentityRow implements the C10 fallback: the row is committed
// byte-identical to the source image, no quantization or diffusion
// performed. Symbol bookkeeping is still updated so histogram invariants
// (P4) keep holding for the rest of the image.
func (s *state) runIdentityRow(img *Image, filter Filter) {
	bpp := s.bytesPerPixel
	row := img.Rows[s.y]
	var aboveRow []byte
	if s.y > 0 {
		aboveRow = img.Rows[s.y-1]
	}
	for x := 0; x < s.width; x++ {
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
			predicted := predict(filter, above, diag, left)
			s.pixels[offset] = row[offset]
			symbol := row[offset] - predicted
			s.symbolFrequency[symbol]++
			s.symbolCount++
		}
	}
	s.x = s.width
	s.advanceRow()
}

func (s *state) advanceRow() {
	errorWidth := s.width + filterWidth - 1
	s.colorError[0], s.colorError[1], s.colorError[2] = s.colorError[1], s.colorError[2], s.colorError[0]
	for i := 0; i < errorWidth; i++ {
		s.colorError[2][i] = colorDelta{}
	}
	s.x = 0
	s.y++
}

// ulog2 returns the bit length of x, i.e. floor(log2(x))+1 for x > 0,
// matching the reference's bit-counting implementation; ulog2(0) == 0.
func ulog2(x uint64) uint8 {
	var result uint8
	for x != 0 {
		x >>= 1
		result++
	}
	return result
}
