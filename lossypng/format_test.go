package lossypng

import (
	"image"
	"image/color"
	"testing"
)

func TestDetectShapeGrayscaleOpaque(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		src.SetNRGBA(i%2, i/2, color.NRGBA{R: 80, G: 80, B: 80, A: 255})
	}
	gray, opaque := detectShape(src)
	if !gray || !opaque {
		t.Fatalf("gray=%v opaque=%v, want true,true", gray, opaque)
	}
}

func TestDetectShapeColorTransparent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	src.SetNRGBA(0, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	gray, opaque := detectShape(src)
	if gray {
		t.Fatal("expected non-grayscale (R != G != B)")
	}
	if opaque {
		t.Fatal("expected non-opaque (one transparent pixel)")
	}
}

func TestCompressDetectedRoundTripsShape(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := uint8((x + y) * 16)
			src.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	out, err := Compress(src, NoConversion, 0, 2, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	bounds := out.Bounds()
	if bounds.Dx() != 4 || bounds.Dy() != 4 {
		t.Fatalf("bounds = %v, want 4x4", bounds)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := out.At(x, y)
			want := src.At(x, y)
			gr, gg, gb, ga := got.RGBA()
			wr, wg, wb, wa := want.RGBA()
			if gr != wr || gg != wg || gb != wb || ga != wa {
				t.Fatalf("pixel (%d,%d): strength 0 must be bit-exact, got %v want %v", x, y, got, want)
			}
		}
	}
}

func TestDetectShapeColorOpaque(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 200, B: 10, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{R: 10, G: 10, B: 200, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 50, G: 50, B: 50, A: 255})

	grayscale, opaque := detectShape(src)
	if grayscale {
		t.Fatal("multi-hue image must not be detected as grayscale")
	}
	if !opaque {
		t.Fatal("fully-opaque image must detect opaque")
	}
}

func TestPackUnpackRoundTripGrayAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 40, G: 40, B: 40, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 40, G: 40, B: 40, A: 128})
	src.SetNRGBA(2, 0, color.NRGBA{R: 40, G: 40, B: 40, A: 255})

	img, err := NewImage(3, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	packInto(img, src, true, false)

	dest := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	unpackFrom(img, dest, true, false)

	for x := 0; x < 3; x++ {
		got := dest.NRGBAAt(x, 0)
		want := src.NRGBAAt(x, 0)
		if got != want {
			t.Fatalf("pixel %d: got %v, want %v", x, got, want)
		}
	}
}

func TestWrapPlanarSharesStorage(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range g.Pix {
		g.Pix[i] = byte(i)
	}
	img := wrapPlanar(g.Pix, g.Bounds(), g.Stride, 1)
	img.Rows[0][0] = 250
	if g.Pix[0] != 250 {
		t.Fatal("wrapPlanar must alias the underlying Pix buffer, not copy it")
	}
}

func TestCompressGrayscaleConversionForcesOneChannel(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 200, B: 10, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{R: 10, G: 10, B: 200, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 50, G: 50, B: 50, A: 255})

	out, err := Compress(src, GrayscaleConversion, 0, 2, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.(*image.Gray); !ok {
		t.Fatalf("GrayscaleConversion must return *image.Gray, got %T", out)
	}
}
