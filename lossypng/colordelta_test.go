package lossypng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorDifferenceGray(t *testing.T) {
	d := colorDifference(1, []int32{100}, []int32{110})
	require.Equal(t, colorDelta{10, 10, 10, 0}, d)
}

func TestColorDifferenceGrayAlpha(t *testing.T) {
	d := colorDifference(2, []int32{100, 255}, []int32{90, 200})
	require.Equal(t, colorDelta{-10, -10, -10, -55}, d)
}

func TestColorDifferenceRGB(t *testing.T) {
	d := colorDifference(3, []int32{10, 20, 30}, []int32{15, 18, 40})
	require.Equal(t, colorDelta{5, -2, 10, 0}, d)
}

func TestColorDifferenceRGBA(t *testing.T) {
	d := colorDifference(4, []int32{10, 20, 30, 255}, []int32{15, 18, 40, 200})
	require.Equal(t, colorDelta{5, -2, 10, -55}, d)
}

func TestDeltaIndexGrayAlphaRemapsAlphaToLaneThree(t *testing.T) {
	require.Equal(t, 0, deltaIndex(2, 0), "gray+alpha lane0")
	require.Equal(t, 3, deltaIndex(2, 1), "gray+alpha lane1 (alpha)")
}

func TestDeltaIndexIdentityForRGBA(t *testing.T) {
	for c := 0; c < 4; c++ {
		require.Equal(t, c, deltaIndex(4, c), "rgba lane%d", c)
	}
}

func TestColorDeltaDistanceAndAdd(t *testing.T) {
	a := colorDelta{3, 4, 0, 0}
	require.EqualValues(t, 25, a.distance())

	b := colorDelta{1, 1, 1, 1}
	require.Equal(t, colorDelta{4, 5, 1, 1}, a.add(b))
}
