package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"os"

	"github.com/disintegration/imaging"

	"gifpress/internal/engine"
	"gifpress/internal/engine/quant"
)

// Engine is the single-frame back end. It decodes whatever raster format
// the source carries (first frame only for animations) and always reports
// a frame count of one.
type Engine struct {
	img image.Image
}

// New constructs an empty engine; call Load before anything else.
func New() *Engine {
	return &Engine{}
}

// Load decodes the source still image.
func (e *Engine) Load(path string) (int, engine.Dimensions, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return 0, engine.Dimensions{}, fmt.Errorf("open source: %w", err)
	}
	e.img = img
	bounds := img.Bounds()
	return 1, engine.Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// RenderFrame encodes the single frame as GIF bytes. Only index 0 exists.
func (e *Engine) RenderFrame(index int) ([]byte, error) {
	if e.img == nil {
		return nil, errors.New("no source loaded")
	}
	if index != 0 {
		return nil, fmt.Errorf("frame index %d out of range [0,1)", index)
	}
	var buf bytes.Buffer
	if err := gif.Encode(&buf, e.img, nil); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// Quantize reduces the frame's palette to at most colorBudget colors.
func (e *Engine) Quantize(colorBudget int) error {
	if e.img == nil {
		return errors.New("no source loaded")
	}
	if colorBudget < 2 {
		return fmt.Errorf("color budget %d too small", colorBudget)
	}
	palette := quant.Palette(e.img, colorBudget)
	e.img = quant.Apply(e.img, palette)
	return nil
}

// Save writes the frame to path as a GIF.
func (e *Engine) Save(path string) error {
	if e.img == nil {
		return errors.New("no source loaded")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := gif.Encode(f, e.img, nil); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}

var _ engine.Engine = (*Engine)(nil)
