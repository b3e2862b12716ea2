// Package lossypng makes PNG files smaller by perturbing pixel values
// within a bounded quality envelope so that row-filter + DEFLATE encoding
// compresses the result more effectively, while staying visually close to
// the source.
package lossypng

import (
	"image"
	"image/draw"
)

// ColorConversion specifies what color profile the image should be
// converted to, if any, before compression.
type ColorConversion int

const (
	// NoConversion runs the format adapter (C9) to detect the narrowest
	// representation the input actually needs.
	NoConversion ColorConversion = iota

	// GrayscaleConversion forces conversion to single-channel grayscale.
	GrayscaleConversion

	// RGBAConversion forces conversion to 4-channel RGBA.
	RGBAConversion
)

// Compress is the format-adapter-wrapped convenience entry point: it
// detects (or is told) the narrowest pixel format the image needs, runs
// Optimize over the packed buffer, and expands the result back to an
// image.Image of the same shape as the input would imply. rowFilters,
// if non-nil, receives the chosen PNG filter id per row.
func Compress(
	decoded image.Image,
	colorConversion ColorConversion,
	strength uint8,
	bleedDivider int16,
	rowFilters []byte,
	logger StatsLogger,
) (image.Image, error) {
	bounds := decoded.Bounds()

	switch colorConversion {
	case GrayscaleConversion:
		converted := image.NewGray(bounds)
		draw.Draw(converted, bounds, decoded, image.Point{}, draw.Src)
		img := wrapPlanar(converted.Pix, bounds, converted.Stride, 1)
		if err := Optimize(img, strength, bleedDivider, rowFilters, logger); err != nil {
			return nil, err
		}
		return converted, nil

	case RGBAConversion:
		converted := image.NewNRGBA(bounds)
		draw.Draw(converted, bounds, decoded, image.Point{}, draw.Src)
		img := wrapPlanar(converted.Pix, bounds, converted.Stride, 4)
		if err := Optimize(img, strength, bleedDivider, rowFilters, logger); err != nil {
			return nil, err
		}
		return converted, nil

	default:
		return compressDetected(decoded, strength, bleedDivider, rowFilters, logger)
	}
}

// compressDetected implements C9: it scans the input once for two
// fast-path properties (every pixel is achromatic; every pixel is fully
// opaque), packs into the narrowest of the four supported pixel formats,
// runs the row driver, and expands the result back to RGBA. Any
// image.Image can be the input; this is a pure shape adapter; it never
// performs a colour-space transform.
func compressDetected(decoded image.Image, strength uint8, bleedDivider int16, rowFilters []byte, logger StatsLogger) (image.Image, error) {
	bounds := decoded.Bounds()
	source := image.NewNRGBA(bounds)
	draw.Draw(source, bounds, decoded, image.Point{}, draw.Src)

	width, height := bounds.Dx(), bounds.Dy()
	grayscale, opaque := detectShape(source)

	var bytesPerPixel int
	switch {
	case grayscale && opaque:
		bytesPerPixel = 1
	case grayscale:
		bytesPerPixel = 2
	case opaque:
		bytesPerPixel = 3
	default:
		bytesPerPixel = 4
	}

	img, err := NewImage(width, height, bytesPerPixel)
	if err != nil {
		return nil, err
	}
	packInto(img, source, grayscale, opaque)

	if err := Optimize(img, strength, bleedDivider, rowFilters, logger); err != nil {
		return nil, err
	}

	result := image.NewNRGBA(bounds)
	unpackFrom(img, result, grayscale, opaque)
	return result, nil
}

func detectShape(source *image.NRGBA) (grayscale, opaque bool) {
	grayscale, opaque = true, true
	bounds := source.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		rowStart := (y - bounds.Min.Y) * source.Stride
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			offset := rowStart + (x-bounds.Min.X)*4
			pixel := source.Pix[offset : offset+4 : offset+4]
			if pixel[0] != pixel[1] || pixel[1] != pixel[2] {
				grayscale = false
			}
			if pixel[3] != 255 {
				opaque = false
			}
		}
		if !grayscale && !opaque {
			return
		}
	}
	return
}

func packInto(img *Image, source *image.NRGBA, grayscale, opaque bool) {
	for y := 0; y < img.Height; y++ {
		rowStart := y * source.Stride
		dst := img.Rows[y]
		for x := 0; x < img.Width; x++ {
			srcOffset := rowStart + x*4
			pixel := source.Pix[srcOffset : srcOffset+4 : srcOffset+4]
			dstOffset := x * img.BytesPerPixel
			switch {
			case grayscale && opaque:
				dst[dstOffset] = pixel[1]
			case grayscale:
				dst[dstOffset] = pixel[1]
				dst[dstOffset+1] = pixel[3]
			case opaque:
				dst[dstOffset] = pixel[0]
				dst[dstOffset+1] = pixel[1]
				dst[dstOffset+2] = pixel[2]
			default:
				copy(dst[dstOffset:dstOffset+4], pixel)
			}
		}
	}
}

func unpackFrom(img *Image, dest *image.NRGBA, grayscale, opaque bool) {
	for y := 0; y < img.Height; y++ {
		src := img.Rows[y]
		dstRowStart := y * dest.Stride
		for x := 0; x < img.Width; x++ {
			srcOffset := x * img.BytesPerPixel
			dstOffset := dstRowStart + x*4
			pixel := dest.Pix[dstOffset : dstOffset+4 : dstOffset+4]
			switch {
			case grayscale && opaque:
				g := src[srcOffset]
				pixel[0], pixel[1], pixel[2], pixel[3] = g, g, g, 255
			case grayscale:
				g := src[srcOffset]
				pixel[0], pixel[1], pixel[2], pixel[3] = g, g, g, src[srcOffset+1]
			case opaque:
				pixel[0], pixel[1], pixel[2], pixel[3] = src[srcOffset], src[srcOffset+1], src[srcOffset+2], 255
			default:
				copy(pixel, src[srcOffset:srcOffset+4])
			}
		}
	}
}

// wrapPlanar adapts a draw.Image's packed Pix/Stride buffer (already in
// the target bytes-per-pixel layout, e.g. image.Gray or image.NRGBA) into
// the row-slice shape the core operates on, without copying pixel data.
func wrapPlanar(pix []byte, bounds image.Rectangle, stride, bytesPerPixel int) *Image {
	height := bounds.Dy()
	width := bounds.Dx()
	rows := make([][]byte, height)
	for y := 0; y < height; y++ {
		start := y * stride
		rows[y] = pix[start : start+width*bytesPerPixel]
	}
	return &Image{Width: width, Height: height, BytesPerPixel: bytesPerPixel, Rows: rows}
}
