package lossypng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeOriginalFrequencySumsToImageSize(t *testing.T) {
	img, err := NewImage(4, 3, 3)
	require.NoError(t, err)
	for y := 0; y < img.Height; y++ {
		for i := range img.Rows[y] {
			img.Rows[y][i] = byte((y*7 + i*13) % 256)
		}
	}

	table := computeOriginalFrequency(img)
	total := img.Width * img.Height * img.BytesPerPixel
	for f := Filter(0); f < filterCount; f++ {
		var sum uint32
		for _, count := range table[f] {
			sum += count
		}
		require.EqualValues(t, total, sum, "filter %v", f)
	}
}

func TestComputeOriginalFrequencyNoneMatchesRawHistogram(t *testing.T) {
	img, err := NewImage(5, 5, 1)
	require.NoError(t, err)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Rows[y][x] = byte((x + y*3) % 256)
		}
	}
	table := computeOriginalFrequency(img)

	var want [symbolRange]uint32
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			want[img.Rows[y][x]]++
		}
	}
	require.Equal(t, want, table[FilterNone])
}

func TestUlog2(t *testing.T) {
	cases := map[uint64]uint8{0: 0, 1: 1, 2: 2, 3: 2, 4: 3, 255: 8, 256: 9}
	for x, want := range cases {
		require.Equal(t, want, ulog2(x), "ulog2(%d)", x)
	}
}
