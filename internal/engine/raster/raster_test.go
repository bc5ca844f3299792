package raster

import (
	"bytes"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"gifpress/internal/testsupport"
)

func TestLoadAlwaysReportsSingleFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	testsupport.WriteGIF(t, path, testsupport.GIFSpec{Width: 10, Height: 6, DelaysCS: []int{10, 10, 10}})

	eng := New()
	frames, dims, err := eng.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if frames != 1 {
		t.Fatalf("single-frame engine reported %d frames", frames)
	}
	if dims.Width != 10 || dims.Height != 6 {
		t.Fatalf("unexpected dimensions: %+v", dims)
	}
}

func TestQuantizeAndSaveProducesDecodableGIF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.gif")
	out := filepath.Join(dir, "out.gif")
	testsupport.WriteGIF(t, src, testsupport.GIFSpec{Colors: 128})

	eng := New()
	if _, _, err := eng.Load(src); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := eng.Quantize(16); err != nil {
		t.Fatalf("quantize: %v", err)
	}
	if err := eng.Save(out); err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	if _, err := gif.Decode(f); err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
}

func TestRenderFrameBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.gif")
	testsupport.WriteGIF(t, path, testsupport.GIFSpec{})

	eng := New()
	if _, _, err := eng.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	data, err := eng.RenderFrame(0)
	if err != nil {
		t.Fatalf("render frame: %v", err)
	}
	if _, err := gif.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("rendered frame is not a GIF: %v", err)
	}
	if _, err := eng.RenderFrame(1); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
