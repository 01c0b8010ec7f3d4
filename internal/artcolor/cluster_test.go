package artcolor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

func fillRect(img *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDominantColorsTwoToneImage(t *testing.T) {
	t.Parallel()

	// 90% red, 10% near-white.
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	fillRect(img, image.Rect(0, 0, 100, 90), color.NRGBA{R: 220, G: 5, B: 5, A: 255})
	fillRect(img, image.Rect(0, 90, 100, 100), color.NRGBA{R: 250, G: 250, B: 250, A: 255})

	result := DominantColors(encodePNG(t, img), 5)
	if len(result) == 0 {
		t.Fatal("no clusters returned")
	}

	top := result[0]
	if top.Fraction < 0.8 {
		t.Fatalf("top cluster covers %.2f of the image, want >= 0.8", top.Fraction)
	}
	if top.Color.R < 180 || top.Color.G > 80 || top.Color.B > 80 {
		t.Fatalf("top cluster %v is not the red region", top.Color)
	}

	sum := 0.0
	for i, cc := range result {
		if i > 0 && cc.Fraction > result[i-1].Fraction {
			t.Fatal("clusters not ordered by prevalence descending")
		}
		sum += cc.Fraction
	}
	if math.Abs(sum-1) > 0.01 {
		t.Fatalf("fractions sum to %.3f, want ~1", sum)
	}
}

func TestDominantColorsMonochromeImage(t *testing.T) {
	t.Parallel()

	// Single distinct color: k clamps below the requested cluster count.
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	fillRect(img, img.Bounds(), color.NRGBA{R: 10, G: 150, B: 30, A: 255})

	result := DominantColors(encodePNG(t, img), 8)
	if len(result) != 1 {
		t.Fatalf("got %d clusters for a monochrome image, want 1", len(result))
	}
	if result[0].Fraction != 1 {
		t.Fatalf("monochrome fraction = %v, want 1", result[0].Fraction)
	}
	if result[0].Color != (RGB{10, 150, 30}) {
		t.Fatalf("monochrome centroid = %v, want {10 150 30}", result[0].Color)
	}
}

func TestDominantColorsUndecodableBytes(t *testing.T) {
	t.Parallel()

	result := DominantColors([]byte("not an image"), 5)
	if len(result) != 1 {
		t.Fatalf("got %d clusters, want the single white fallback", len(result))
	}
	if result[0].Color != (RGB{255, 255, 255}) || result[0].Fraction != 1 {
		t.Fatalf("fallback = %+v, want pure white at 100%%", result[0])
	}
}

func TestDominantColorsDiscardsAlpha(t *testing.T) {
	t.Parallel()

	// Fully transparent red still clusters as red: alpha is dropped, not
	// composited.
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	fillRect(img, img.Bounds(), color.NRGBA{R: 200, G: 10, B: 10, A: 0})

	result := DominantColors(encodePNG(t, img), 3)
	if len(result) != 1 {
		t.Fatalf("got %d clusters, want 1", len(result))
	}
	if result[0].Color.R < 150 {
		t.Fatalf("alpha should be discarded, got centroid %v", result[0].Color)
	}
}
