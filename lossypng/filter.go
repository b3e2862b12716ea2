package lossypng

// Filter identifies one of the five PNG row predictors. Its numeric value
// is the PNG filter type id (PNG_FILTER_VALUE_* in libpng), so it can be
// written directly into a per-row filter vector.
type Filter uint8

const (
	FilterNone Filter = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth

	filterCount
)

func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "None"
	case FilterSub:
		return "Sub"
	case FilterUp:
		return "Up"
	case FilterAverage:
		return "Average"
	case FilterPaeth:
		return "Paeth"
	default:
		return "Invalid"
	}
}

// predict applies the given filter's predictor to the already-known
// neighbouring bytes: above (same column, previous row), diag (previous
// column, previous row) and left (previous column, same row).
func predict(f Filter, above, diag, left byte) byte {
	return filterFuncs[f](above, diag, left)
}

var filterFuncs = [filterCount]func(above, diag, left byte) byte{
	filterNone,
	filterSub,
	filterUp,
	filterAverage,
	filterPaeth,
}

func filterNone(above, diag, left byte) byte {
	return 0
}

func filterSub(above, diag, left byte) byte {
	return left
}

func filterUp(above, diag, left byte) byte {
	return above
}

func filterAverage(above, diag, left byte) byte {
	return byte((uint16(above) + uint16(left)) / 2)
}

// filterPaeth picks whichever of left, above, diag is closest to
// above + left - diag, breaking ties in the order left, above, diag.
func filterPaeth(above, diag, left byte) byte {
	p := int(above) - int(diag)
	pDiag := int(left) - int(diag)
	pLeft := abs(p)
	pAbove := abs(pDiag)
	pDiagAbs := abs(p + pDiag)

	if pLeft <= pAbove && pLeft <= pDiagAbs {
		return left
	}
	if pAbove <= pDiagAbs {
		return above
	}
	return diag
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
