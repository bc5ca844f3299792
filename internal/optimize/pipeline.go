package optimize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gifpress/internal/engine"
	"gifpress/internal/gifsicle"
	"gifpress/internal/tempfs"
)

// Strategy identifies which fallback ultimately produced the output.
type Strategy string

const (
	StrategyOptimized Strategy = "optimized" // external merge/optimize succeeded
	StrategyQuantized Strategy = "quantized" // in-process quantization fallback
	StrategyCopy      Strategy = "copy"      // verbatim copy, last resort
)

// stage models the pipeline state machine. Success walks from idle
// through frames-ready to verified; failure edges drop to the quantized
// save and finally the naive copy.
type stage int

const (
	stageIdle stage = iota
	stageFramesReady
	stageVerified
	stageQuantizedSave
	stageNaiveCopy
)

// Result reports the outcome of one save call.
type Result struct {
	Success     bool
	OutputPath  string
	Strategy    Strategy
	FrameCount  int
	InputBytes  int64
	OutputBytes int64
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithLogger attaches a diagnostic logger; degradation is silent toward
// the caller but observable here.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline sequences extraction, optimization, and verification for one
// animated source, degrading gracefully when any stage fails. It is
// synchronous and owns every temp resource it acquires; concurrent runs
// must use separate pipelines sharing at most the temp root.
type Pipeline struct {
	client *gifsicle.Client
	engine engine.Engine
	temps  *tempfs.Workspace
	logger *slog.Logger
}

// New constructs a pipeline around the optimizer client, the fallback
// raster engine, and a temp workspace.
func New(client *gifsicle.Client, eng engine.Engine, temps *tempfs.Workspace, opts ...Option) *Pipeline {
	p := &Pipeline{
		client: client,
		engine: eng,
		temps:  temps,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run optimizes sourcePath into outputPath. It returns an error only when
// even the verbatim-copy strategy fails (or scratch space cannot be
// created); every other failure degrades silently to a simpler strategy.
func (p *Pipeline) Run(ctx context.Context, sourcePath, outputPath string, req Request) (Result, error) {
	result := Result{OutputPath: outputPath}
	if info, err := os.Stat(sourcePath); err == nil {
		result.InputBytes = info.Size()
	}

	current := stageIdle
	var meta gifsicle.Metadata

	if !p.client.Available() {
		p.logger.Info("optimizer unavailable, using in-process quantization",
			"source", sourcePath, "reason", ErrBinaryUnavailable)
		current = stageQuantizedSave
	}

	if current == stageIdle {
		var frames []gifsicle.Frame
		var workdir *tempfs.Resource
		var err error

		current, meta, frames, workdir, err = p.extract(ctx, sourcePath)
		if err != nil {
			// Without scratch space there is nothing left to fall back to.
			return result, err
		}
		result.FrameCount = len(frames)

		if current == stageFramesReady {
			current = p.merge(ctx, meta, frames, outputPath, req)
		}
		// Leaving extraction scope: frame files live inside the workdir,
		// so releasing it reclaims both.
		workdir.Release()
	}

	if current == stageQuantizedSave {
		if err := p.quantizedSave(sourcePath, outputPath, req); err != nil {
			p.logger.Warn("quantized save failed, copying source verbatim", "error", err)
			current = stageNaiveCopy
		} else if !outputUsable(outputPath) {
			p.logger.Warn("quantized save produced no usable output, copying source verbatim")
			current = stageNaiveCopy
		} else {
			result.Strategy = StrategyQuantized
			current = stageVerified
		}
	}

	if current == stageNaiveCopy {
		if err := copyFile(sourcePath, outputPath); err != nil {
			return result, Wrap(ErrExhausted, "naive-copy", "write output", outputPath, err)
		}
		result.Strategy = StrategyCopy
		current = stageVerified
	}

	if result.Strategy == "" {
		result.Strategy = StrategyOptimized
	}
	if info, err := os.Stat(outputPath); err == nil {
		result.OutputBytes = info.Size()
	}
	result.Success = current == stageVerified
	return result, nil
}

// extract probes the source and explodes it into per-frame files. A zero
// frame yield (non-animated source, probe failure, partial explode with
// nothing on disk) skips straight to the quantized fallback.
func (p *Pipeline) extract(ctx context.Context, sourcePath string) (stage, gifsicle.Metadata, []gifsicle.Frame, *tempfs.Resource, error) {
	meta, err := p.client.Info(ctx, sourcePath)
	if err != nil {
		p.logger.Debug("info probe failed", "error", err)
		meta = gifsicle.Metadata{}
	}

	workdir, err := p.temps.AcquireDirectory()
	if err != nil {
		return stageIdle, meta, nil, nil, Wrap(ErrResource, "extract", "acquire scratch directory", "", err)
	}

	frames, err := p.client.Explode(ctx, sourcePath, workdir.Path)
	if err != nil {
		p.logger.Debug("frame extraction failed", "error", err)
		workdir.Release()
		return stageQuantizedSave, meta, nil, nil, nil
	}
	if len(frames) == 0 {
		p.logger.Debug("no frames extracted, skipping merge", "source", sourcePath)
		workdir.Release()
		return stageQuantizedSave, meta, nil, nil, nil
	}
	if meta.FrameCount > 0 && len(frames) < meta.FrameCount {
		p.logger.Debug("frame extraction incomplete",
			"expected", meta.FrameCount, "extracted", len(frames))
	}

	for i := range frames {
		frames[i].DelayCentiseconds = meta.DelayCentiseconds(i)
	}
	return stageFramesReady, meta, frames, workdir, nil
}

// merge recombines extracted frames through gifsicle and verifies the
// output. Any failure transitions to the quantized fallback.
func (p *Pipeline) merge(ctx context.Context, meta gifsicle.Metadata, frames []gifsicle.Frame, outputPath string, req Request) stage {
	plan := BudgetFor(req.QualityLevel, meta.ColorTableSize, req.ColorBudget, req.Lossy, req.LossyValue)

	loopCount := meta.LoopCount
	if req.LoopCountOverride != nil {
		loopCount = *req.LoopCountOverride
	}
	spec := gifsicle.OptimizeSpec{
		Colors:            plan.Colors,
		Lossy:             plan.Lossy,
		OptimizationLevel: req.OptimizationLevel,
		Careful:           req.Careful,
		StripMetadata:     req.StripMetadata,
		LoopCount:         &loopCount,
	}

	inputs := make([]gifsicle.MergeInput, 0, len(frames))
	for _, frame := range frames {
		input := gifsicle.MergeInput{Path: frame.Path}
		if len(meta.Delays) > 0 {
			delay := frame.DelayCentiseconds
			input.DelayCS = &delay
		}
		inputs = append(inputs, input)
	}

	inv, err := p.client.Optimize(ctx, spec, inputs, outputPath)
	switch {
	case err != nil:
		p.logger.Warn("optimizer invocation failed", "error", err)
		return stageQuantizedSave
	case inv.Failed():
		p.logger.Warn("optimizer exited non-zero", "exit_code", inv.ExitCode)
		return stageQuantizedSave
	case !outputUsable(outputPath):
		p.logger.Warn("optimizer produced no usable output", "output", outputPath)
		return stageQuantizedSave
	}
	return stageVerified
}

// quantizedSave asks the raster engine to reduce palettes in process and
// write the result directly, bypassing the external optimizer.
func (p *Pipeline) quantizedSave(sourcePath, outputPath string, req Request) error {
	if _, _, err := p.engine.Load(sourcePath); err != nil {
		return fmt.Errorf("engine load: %w", err)
	}
	plan := BudgetFor(req.QualityLevel, 0, req.ColorBudget, false, nil)
	if err := p.engine.Quantize(plan.Colors); err != nil {
		return fmt.Errorf("engine quantize: %w", err)
	}
	if err := p.engine.Save(outputPath); err != nil {
		return fmt.Errorf("engine save: %w", err)
	}
	return nil
}

func outputUsable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy source: %w", err)
	}
	return out.Close()
}
