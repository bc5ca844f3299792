package optimize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gifpress/internal/engine/animate"
	"gifpress/internal/gifsicle"
	"gifpress/internal/tempfs"
	"gifpress/internal/testsupport"
)

// scriptedExecutor fakes gifsicle. It answers the version probe, serves a
// canned --info report, materializes frame files on --explode, and runs a
// configurable merge behavior.
type scriptedExecutor struct {
	infoLines  []string
	frameNames []string
	merge      func(args []string) (gifsicle.Invocation, error)

	mergeCalls [][]string
}

func (s *scriptedExecutor) Run(_ context.Context, _ string, args []string, workdir string) (gifsicle.Invocation, error) {
	switch args[0] {
	case "--version":
		return gifsicle.Invocation{Stdout: []string{"LCDF Gifsicle 1.94"}}, nil
	case "--info":
		return gifsicle.Invocation{Stdout: s.infoLines}, nil
	case "--explode":
		for _, name := range s.frameNames {
			if err := os.WriteFile(filepath.Join(workdir, name), []byte("GIF89a"), 0o644); err != nil {
				return gifsicle.Invocation{}, err
			}
		}
		return gifsicle.Invocation{}, nil
	default:
		s.mergeCalls = append(s.mergeCalls, args)
		if s.merge != nil {
			return s.merge(args)
		}
		return gifsicle.Invocation{}, nil
	}
}

func writeOutputOnMerge(t *testing.T) func(args []string) (gifsicle.Invocation, error) {
	return func(args []string) (gifsicle.Invocation, error) {
		for _, arg := range args {
			if path, ok := strings.CutPrefix(arg, "--output="); ok {
				if err := os.WriteFile(path, []byte("GIF89a-optimized"), 0o644); err != nil {
					t.Fatalf("fake merge write: %v", err)
				}
			}
		}
		return gifsicle.Invocation{}, nil
	}
}

func unavailableExecutor() gifsicle.Executor {
	return failingExecutor{}
}

type failingExecutor struct{}

func (failingExecutor) Run(context.Context, string, []string, string) (gifsicle.Invocation, error) {
	return gifsicle.Invocation{}, gifsicle.ErrLaunch
}

func newPipeline(t *testing.T, exec gifsicle.Executor, tempRoot string) *Pipeline {
	t.Helper()
	client := gifsicle.New("", gifsicle.WithExecutor(exec))
	return New(client, animate.New(), tempfs.New(tempRoot))
}

func animatedInfo() []string {
	return []string{
		"* src.gif 3 images",
		"  logical screen 8x8",
		"  global color table [64]",
		"  loop forever",
		"  + image #0 8x8",
		"    disposal asis delay 0.10s",
		"  + image #1 8x8",
		"    disposal asis delay 0.20s",
		"  + image #2 8x8",
		"    disposal asis delay 0.10s",
	}
}

func TestRunOptimizedPath(t *testing.T) {
	dir := t.TempDir()
	tempRoot := filepath.Join(dir, "tmp")
	src := filepath.Join(dir, "src.gif")
	out := filepath.Join(dir, "out.gif")
	testsupport.WriteGIF(t, src, testsupport.GIFSpec{DelaysCS: []int{10, 20, 10}})

	exec := &scriptedExecutor{
		infoLines:  animatedInfo(),
		frameNames: []string{"src.gif.0", "src.gif.1", "src.gif.2"},
	}
	exec.merge = writeOutputOnMerge(t)

	p := newPipeline(t, exec, tempRoot)
	before := testsupport.SnapshotDir(t, tempRoot)

	result, err := p.Run(context.Background(), src, out, NewRequest(80))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Success || result.Strategy != StrategyOptimized {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.FrameCount != 3 {
		t.Fatalf("expected 3 frames, got %d", result.FrameCount)
	}
	if result.OutputBytes == 0 {
		t.Fatal("expected output bytes recorded")
	}

	if after := testsupport.SnapshotDir(t, tempRoot); !reflect.DeepEqual(before, after) {
		t.Fatalf("temp root not clean: before=%v after=%v", before, after)
	}

	// The merge preserved frame order, delays, and the infinite loop.
	if len(exec.mergeCalls) != 1 {
		t.Fatalf("expected one merge call, got %d", len(exec.mergeCalls))
	}
	joined := strings.Join(exec.mergeCalls[0], " ")
	if !strings.Contains(joined, "--loopcount=forever") {
		t.Fatalf("infinite loop reinterpreted: %s", joined)
	}
	wantSequence := []string{"--delay=10", "src.gif.0", "--delay=20", "src.gif.1", "--delay=10", "src.gif.2"}
	idx := 0
	for _, arg := range exec.mergeCalls[0] {
		if idx < len(wantSequence) && strings.HasSuffix(arg, wantSequence[idx]) {
			idx++
		}
	}
	if idx != len(wantSequence) {
		t.Fatalf("frame order or delays not preserved: %s", joined)
	}
}

func TestRunZeroFramesSkipsMerge(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.gif")
	out := filepath.Join(dir, "out.gif")
	testsupport.WriteGIF(t, src, testsupport.GIFSpec{DelaysCS: []int{10}, Colors: 8})

	exec := &scriptedExecutor{
		infoLines:  []string{"* src.gif 0 images"},
		frameNames: nil, // explode yields nothing
	}

	p := newPipeline(t, exec, filepath.Join(dir, "tmp"))
	result, err := p.Run(context.Background(), src, out, NewRequest(50))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Success || result.Strategy != StrategyQuantized {
		t.Fatalf("expected quantized fallback, got %+v", result)
	}
	if len(exec.mergeCalls) != 0 {
		t.Fatalf("merge must not run for zero frames: %v", exec.mergeCalls)
	}
}

func TestRunMergeFailureFallsBackToQuantized(t *testing.T) {
	dir := t.TempDir()
	tempRoot := filepath.Join(dir, "tmp")
	src := filepath.Join(dir, "src.gif")
	out := filepath.Join(dir, "out.gif")
	testsupport.WriteGIF(t, src, testsupport.GIFSpec{DelaysCS: []int{10, 20, 10}})

	exec := &scriptedExecutor{
		infoLines:  animatedInfo(),
		frameNames: []string{"src.gif.0", "src.gif.1", "src.gif.2"},
		merge: func([]string) (gifsicle.Invocation, error) {
			return gifsicle.Invocation{ExitCode: 1}, nil
		},
	}

	p := newPipeline(t, exec, tempRoot)
	before := testsupport.SnapshotDir(t, tempRoot)

	result, err := p.Run(context.Background(), src, out, NewRequest(50))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Success || result.Strategy != StrategyQuantized {
		t.Fatalf("expected quantized fallback, got %+v", result)
	}
	if !outputUsable(out) {
		t.Fatal("expected usable output")
	}
	if after := testsupport.SnapshotDir(t, tempRoot); !reflect.DeepEqual(before, after) {
		t.Fatalf("temp root not clean after fallback: %v", after)
	}
}

func TestRunBinaryUnavailableStillSucceeds(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.gif")
	out := filepath.Join(dir, "out.gif")
	testsupport.WriteGIF(t, src, testsupport.GIFSpec{DelaysCS: []int{10, 10}})

	p := newPipeline(t, unavailableExecutor(), filepath.Join(dir, "tmp"))
	result, err := p.Run(context.Background(), src, out, NewRequest(50))
	if err != nil {
		t.Fatalf("run must not surface unavailability: %v", err)
	}
	if !result.Success || result.Strategy != StrategyQuantized {
		t.Fatalf("expected quantized save, got %+v", result)
	}
}

func TestRunFallsBackToCopyWhenEngineCannotDecode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	out := filepath.Join(dir, "out.gif")
	testsupport.WriteFile(t, src, 64) // not a GIF

	p := newPipeline(t, unavailableExecutor(), filepath.Join(dir, "tmp"))
	result, err := p.Run(context.Background(), src, out, NewRequest(50))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Success || result.Strategy != StrategyCopy {
		t.Fatalf("expected verbatim copy, got %+v", result)
	}
	if result.OutputBytes != 64 {
		t.Fatalf("copy must be byte-identical, got %d bytes", result.OutputBytes)
	}
}

func TestRunExhaustedWhenCopyFails(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	out := filepath.Join(dir, "missing", "nested", "out.gif")
	testsupport.WriteFile(t, src, 16)

	p := newPipeline(t, unavailableExecutor(), filepath.Join(dir, "tmp"))
	result, err := p.Run(context.Background(), src, out, NewRequest(50))
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if result.Success {
		t.Fatal("result must not claim success")
	}
}
