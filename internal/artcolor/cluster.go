package artcolor

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	_ "golang.org/x/image/webp"
)

// Album art is downsampled to this resolution before clustering. Visual
// fidelity beyond "representative" is not required.
const sampleSize = 150

// ClusteredColor is one dominant color together with the fraction of sampled
// pixels assigned to its cluster.
type ClusteredColor struct {
	Color    RGB
	Fraction float64
}

func fallbackClusters() []ClusteredColor {
	return []ClusteredColor{{Color: RGB{255, 255, 255}, Fraction: 1}}
}

// DominantColors reduces raw image bytes to at most n representative colors,
// ordered most prevalent first. Fractions across the result sum to ~1. Any
// decode or clustering failure degrades to a single pure-white cluster
// covering the whole image rather than an error.
func DominantColors(data []byte, n int) []ClusteredColor {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		debugf("decode album art: %v", err)
		return fallbackClusters()
	}

	samples := samplePixels(img)
	if len(samples) == 0 {
		return fallbackClusters()
	}

	// Near-monochrome art can have fewer distinct colors than requested
	// clusters; clamp k so the partition stays well-formed.
	k := n
	if distinct := countDistinct(samples); distinct < k {
		k = distinct
	}
	if k < 1 {
		return fallbackClusters()
	}

	km := kmeans.New()
	partition, err := km.Partition(samples, k)
	if err != nil {
		debugf("cluster album art: %v", err)
		return fallbackClusters()
	}

	total := len(samples)
	result := make([]ClusteredColor, 0, len(partition))
	for _, cluster := range partition {
		if len(cluster.Observations) == 0 {
			continue
		}
		result = append(result, ClusteredColor{
			Color:    centroidRGB(cluster.Center),
			Fraction: float64(len(cluster.Observations)) / float64(total),
		})
	}
	if len(result) == 0 {
		return fallbackClusters()
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Fraction > result[j].Fraction
	})
	return result
}

// samplePixels flattens the image to sampleSize² RGB observations using
// nearest-neighbor sampling. Alpha is discarded.
func samplePixels(img image.Image) clusters.Observations {
	src := toNRGBA(img)
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil
	}

	samples := make(clusters.Observations, 0, sampleSize*sampleSize)
	for y := 0; y < sampleSize; y++ {
		srcY := y * height / sampleSize
		rowOffset := srcY * src.Stride
		for x := 0; x < sampleSize; x++ {
			srcX := x * width / sampleSize
			offset := rowOffset + srcX*4
			samples = append(samples, clusters.Coordinates{
				float64(src.Pix[offset]),
				float64(src.Pix[offset+1]),
				float64(src.Pix[offset+2]),
			})
		}
	}
	return samples
}

func toNRGBA(img image.Image) *image.NRGBA {
	if src, ok := img.(*image.NRGBA); ok {
		return src
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

func countDistinct(samples clusters.Observations) int {
	seen := make(map[[3]uint8]struct{})
	for _, obs := range samples {
		coords := obs.Coordinates()
		key := [3]uint8{uint8(coords[0]), uint8(coords[1]), uint8(coords[2])}
		seen[key] = struct{}{}
	}
	return len(seen)
}

func centroidRGB(center clusters.Coordinates) RGB {
	return RGB{
		R: clampChannel(center[0]),
		G: clampChannel(center[1]),
		B: clampChannel(center[2]),
	}
}

func clampChannel(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
