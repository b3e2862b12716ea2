package lossypng

// deltaLanes is the fixed width of the error-diffusion and color-difference
// vectors; every pixel format is mapped onto these four lanes regardless of
// its actual bytes-per-pixel, per the data model's delta_index remap.
const deltaLanes = 4

// colorDelta is a channel-wise signed difference between two colors,
// always expressed in the 4-lane (R,G,B,A)-shaped space described by
// spec.md's data model, even for grayscale/gray+alpha images.
type colorDelta [deltaLanes]int32

// colorDifference computes here-back channel-wise, normalised across
// pixel formats: for 1 and 2 byte-per-pixel (gray, gray+alpha) formats the
// single gray difference is replicated into lanes 0..2.
func colorDifference(bytesPerPixel int, back, here []int32) colorDelta {
	switch bytesPerPixel {
	case 1:
		d := here[0] - back[0]
		return colorDelta{d, d, d, 0}
	case 2:
		d := here[0] - back[0]
		return colorDelta{d, d, d, here[1] - back[1]}
	case 3:
		return colorDelta{here[0] - back[0], here[1] - back[1], here[2] - back[2], 0}
	default: // 4
		return colorDelta{here[0] - back[0], here[1] - back[1], here[2] - back[2], here[3] - back[3]}
	}
}

// deltaIndex maps a pixel channel index to its lane in the 4-wide delta
// vector. Only the gray+alpha format needs a remap: its alpha channel (c==1)
// lives in lane 3, matching the RGBA layout so error diffusion never needs
// to special-case bytes-per-pixel.
func deltaIndex(bytesPerPixel, channel int) int {
	if bytesPerPixel == 2 && channel == 1 {
		return 3
	}
	return channel
}

// distance returns the squared Euclidean magnitude of the delta. Only the
// tests call it; the quantizer never needs it (symbol frequency drives
// selection).
func (d colorDelta) distance() uint32 {
	var total uint32
	for _, v := range d {
		total += uint32(v * v)
	}
	return total
}

func (d colorDelta) add(o colorDelta) colorDelta {
	var sum colorDelta
	for i := range sum {
		sum[i] = d[i] + o[i]
	}
	return sum
}
