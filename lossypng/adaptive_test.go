package lossypng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdaptiveFilterForRowsFirstRowPrefersNone(t *testing.T) {
	// An all-zero row with no above row: every predictor trivially agrees
	// (residual zero everywhere), so the None/Sub/Up/Average/Paeth tie
	// resolves to None by PNG filter-id order.
	pixels := make([]byte, 8)
	got := adaptiveFilterForRows(1, nil, pixels)
	require.Equal(t, FilterNone, got, "all-zero first row")
}

func TestAdaptiveFilterForRowsPicksSubOnHorizontalRamp(t *testing.T) {
	// A strictly increasing-by-1 row with no above row makes Sub's
	// residual a constant 1 everywhere (after the first pixel), which
	// beats None's residual (the raw increasing value).
	pixels := make([]byte, 32)
	for i := range pixels {
		pixels[i] = byte(i + 10)
	}
	got := adaptiveFilterForRows(1, nil, pixels)
	require.Equal(t, FilterSub, got, "ramp row")
}

func TestAdaptiveFilterForRowsPicksUpOnVerticalRepeat(t *testing.T) {
	above := make([]byte, 16)
	for i := range above {
		above[i] = byte(i * 7)
	}
	pixels := append([]byte(nil), above...)
	got := adaptiveFilterForRows(1, above, pixels)
	require.Equal(t, FilterUp, got, "identical-to-above row")
}

func TestSignedMagnitude(t *testing.T) {
	cases := map[byte]uint32{0: 0, 1: 1, 127: 127, 128: 128, 200: 56, 255: 1}
	for v, want := range cases {
		require.Equal(t, want, signedMagnitude(v), "signedMagnitude(%d)", v)
	}
}
