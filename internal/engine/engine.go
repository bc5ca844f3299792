package engine

// Dimensions holds a canvas size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Engine is the capability set the optimization pipeline requires from a
// raster back end: load a source, render individual frames, reduce
// palettes in process, and write the result. The pipeline depends only on
// this interface; concrete engines are injected at construction.
//
// Engines are stateful around a loaded source and are not safe for
// concurrent use. The pipeline is synchronous per invocation, so each run
// owns its engine exclusively.
type Engine interface {
	// Load opens the source and returns its frame count and canvas size.
	Load(path string) (int, Dimensions, error)
	// RenderFrame encodes the frame at index as standalone GIF bytes.
	RenderFrame(index int) ([]byte, error)
	// Quantize reduces every frame's palette to at most colorBudget colors.
	Quantize(colorBudget int) error
	// Save writes the loaded (possibly quantized) image to path.
	Save(path string) error
}
