package animate

import (
	"bytes"
	"errors"
	"fmt"
	"image/gif"
	"os"

	"gifpress/internal/engine"
	"gifpress/internal/engine/quant"
)

// Engine is the multi-frame container back end. It holds a decoded GIF and
// can reduce every frame's palette in process while preserving delays,
// disposal methods, and the loop count.
type Engine struct {
	gif *gif.GIF
}

// New constructs an empty engine; call Load before anything else.
func New() *Engine {
	return &Engine{}
}

// Load decodes all frames of the GIF at path.
func (e *Engine) Load(path string) (int, engine.Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, engine.Dimensions{}, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	decoded, err := gif.DecodeAll(f)
	if err != nil {
		return 0, engine.Dimensions{}, fmt.Errorf("decode gif: %w", err)
	}
	e.gif = decoded

	dims := engine.Dimensions{Width: decoded.Config.Width, Height: decoded.Config.Height}
	if dims.Width == 0 && len(decoded.Image) > 0 {
		bounds := decoded.Image[0].Bounds()
		dims = engine.Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}
	}
	return len(decoded.Image), dims, nil
}

// RenderFrame encodes the frame at index as a standalone GIF.
func (e *Engine) RenderFrame(index int) ([]byte, error) {
	if e.gif == nil {
		return nil, errors.New("no source loaded")
	}
	if index < 0 || index >= len(e.gif.Image) {
		return nil, fmt.Errorf("frame index %d out of range [0,%d)", index, len(e.gif.Image))
	}
	var buf bytes.Buffer
	if err := gif.Encode(&buf, e.gif.Image[index], nil); err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", index, err)
	}
	return buf.Bytes(), nil
}

// Quantize reduces each frame whose palette exceeds the budget. Frames
// already within budget are left untouched.
func (e *Engine) Quantize(colorBudget int) error {
	if e.gif == nil {
		return errors.New("no source loaded")
	}
	if colorBudget < 2 {
		return fmt.Errorf("color budget %d too small", colorBudget)
	}
	for i, frame := range e.gif.Image {
		if len(frame.Palette) <= colorBudget {
			continue
		}
		palette := quant.Palette(frame, colorBudget)
		e.gif.Image[i] = quant.Apply(frame, palette)
	}
	return nil
}

// Save writes the container to path, preserving animation timing.
func (e *Engine) Save(path string) error {
	if e.gif == nil {
		return errors.New("no source loaded")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := gif.EncodeAll(f, e.gif); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}

var _ engine.Engine = (*Engine)(nil)
