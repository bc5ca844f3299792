package testsupport

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"testing"
)

// GIFSpec describes a synthetic animation for tests.
type GIFSpec struct {
	Width     int
	Height    int
	DelaysCS  []int // one entry per frame, centiseconds
	LoopCount int   // 0 = infinite
	Colors    int   // palette size per frame, default 4
}

// WriteGIF synthesizes a small animated GIF at path. Each frame is filled
// with a distinct palette color so quantization has something to chew on.
func WriteGIF(t testing.TB, path string, spec GIFSpec) {
	t.Helper()

	if spec.Width <= 0 {
		spec.Width = 8
	}
	if spec.Height <= 0 {
		spec.Height = 8
	}
	if len(spec.DelaysCS) == 0 {
		spec.DelaysCS = []int{10}
	}
	if spec.Colors <= 0 {
		spec.Colors = 4
	}

	palette := make(color.Palette, spec.Colors)
	for i := range palette {
		v := uint8((i * 255) / spec.Colors)
		palette[i] = color.RGBA{R: v, G: 255 - v, B: uint8(i * 31), A: 255}
	}

	anim := &gif.GIF{
		LoopCount: spec.LoopCount,
		Config: image.Config{
			ColorModel: palette,
			Width:      spec.Width,
			Height:     spec.Height,
		},
	}
	for i, delay := range spec.DelaysCS {
		frame := image.NewPaletted(image.Rect(0, 0, spec.Width, spec.Height), palette)
		fill := uint8(i % spec.Colors)
		for p := range frame.Pix {
			frame.Pix[p] = fill
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalNone)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, anim); err != nil {
		t.Fatalf("encode gif %s: %v", path, err)
	}
}
