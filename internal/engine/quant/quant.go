package quant

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

const maxSamples = 1 << 16

type pixel struct {
	r, g, b uint8
}

// Palette computes an at-most n color palette for img using median-cut box
// splitting. Box representatives are averaged in CIE Lab so large flat
// regions do not wash out accent colors.
func Palette(img image.Image, n int) color.Palette {
	if n < 2 {
		n = 2
	}
	if n > 256 {
		n = 256
	}

	pixels := samplePixels(img)
	if len(pixels) == 0 {
		return color.Palette{color.Black}
	}

	boxes := [][]pixel{pixels}
	for len(boxes) < n {
		idx, channel, spread := widestBox(boxes)
		if spread == 0 {
			break
		}
		left, right := splitBox(boxes[idx], channel)
		boxes[idx] = left
		boxes = append(boxes, right)
	}

	palette := make(color.Palette, 0, len(boxes))
	for _, box := range boxes {
		palette = append(palette, averageLab(box))
	}
	return palette
}

// Apply redraws img as a paletted image with Floyd-Steinberg dithering,
// preserving the source bounds so offset animation frames stay aligned.
func Apply(img image.Image, palette color.Palette) *image.Paletted {
	dst := image.NewPaletted(img.Bounds(), palette)
	draw.FloydSteinberg.Draw(dst, img.Bounds(), img, img.Bounds().Min)
	return dst
}

func samplePixels(img image.Image) []pixel {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total <= 0 {
		return nil
	}

	stride := 1
	for total/(stride*stride) > maxSamples {
		stride++
	}

	pixels := make([]pixel, 0, total/(stride*stride)+1)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels = append(pixels, pixel{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
		}
	}
	return pixels
}

func widestBox(boxes [][]pixel) (idx, channel int, spread int) {
	for i, box := range boxes {
		if len(box) < 2 {
			continue
		}
		var minC, maxC [3]uint8
		minC = [3]uint8{255, 255, 255}
		for _, p := range box {
			values := [3]uint8{p.r, p.g, p.b}
			for c := 0; c < 3; c++ {
				if values[c] < minC[c] {
					minC[c] = values[c]
				}
				if values[c] > maxC[c] {
					maxC[c] = values[c]
				}
			}
		}
		for c := 0; c < 3; c++ {
			if s := int(maxC[c]) - int(minC[c]); s > spread {
				spread = s
				idx = i
				channel = c
			}
		}
	}
	return idx, channel, spread
}

func splitBox(box []pixel, channel int) ([]pixel, []pixel) {
	sort.Slice(box, func(i, j int) bool {
		return channelValue(box[i], channel) < channelValue(box[j], channel)
	})
	mid := len(box) / 2
	if mid == 0 {
		mid = 1
	}
	return box[:mid], box[mid:]
}

func channelValue(p pixel, channel int) uint8 {
	switch channel {
	case 0:
		return p.r
	case 1:
		return p.g
	default:
		return p.b
	}
}

func averageLab(box []pixel) color.Color {
	if len(box) == 0 {
		return color.Black
	}
	var l, a, b float64
	for _, p := range box {
		c := colorful.Color{R: float64(p.r) / 255, G: float64(p.g) / 255, B: float64(p.b) / 255}
		cl, ca, cb := c.Lab()
		l += cl
		a += ca
		b += cb
	}
	n := float64(len(box))
	avg := colorful.Lab(l/n, a/n, b/n).Clamped()
	r, g, bb := avg.RGB255()
	return color.RGBA{R: r, G: g, B: bb, A: 255}
}
