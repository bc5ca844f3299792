package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"gifpress/internal/engine"
	"gifpress/internal/engine/animate"
	"gifpress/internal/engine/raster"
	"gifpress/internal/history"
	"gifpress/internal/optimize"
	"gifpress/internal/tempfs"
)

func newOptimizeCommand(cctx *commandContext) *cobra.Command {
	var (
		outputFlag   string
		qualityFlag  int
		lossyFlag    bool
		lossyValue   int
		levelFlag    int
		loopsFlag    int
		keepMetadata bool
		rasterFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "optimize <input.gif>",
		Short: "Optimize an animated GIF, falling back to in-process quantization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cctx.ensureLogger()
			if err != nil {
				return err
			}

			sourcePath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			if _, err := os.Stat(sourcePath); err != nil {
				return fmt.Errorf("input not readable: %w", err)
			}

			outputPath := strings.TrimSpace(outputFlag)
			if outputPath == "" {
				outputPath = derivedOutputPath(sourcePath)
			}
			if outputPath, err = filepath.Abs(outputPath); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			lock := flock.New(outputPath + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire output lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another gifpress run is writing %s", outputPath)
			}
			defer func() {
				_ = lock.Unlock()
				_ = os.Remove(lock.Path())
			}()

			quality := cfg.Optimize.DefaultQuality
			if cmd.Flags().Changed("quality") {
				quality = qualityFlag
			}

			req := optimize.NewRequest(quality)
			req.Lossy = cfg.Optimize.Lossy || lossyFlag
			req.StripMetadata = cfg.Optimize.StripMetadata && !keepMetadata
			req.OptimizationLevel = cfg.Gifsicle.OptimizationLevel
			req.Careful = cfg.Gifsicle.Careful
			if cmd.Flags().Changed("level") {
				req.OptimizationLevel = levelFlag
			}
			if cmd.Flags().Changed("lossy-value") {
				req.Lossy = true
				req.LossyValue = &lossyValue
			}
			if cmd.Flags().Changed("loops") {
				req.LoopCountOverride = &loopsFlag
			}

			client, err := cctx.newClient()
			if err != nil {
				return err
			}

			var eng engine.Engine
			if rasterFlag {
				eng = raster.New()
			} else {
				eng = animate.New()
			}

			pipeline := optimize.New(client, eng, tempfs.New(cfg.Paths.TempDir), optimize.WithLogger(logger))

			started := time.Now()
			result, err := pipeline.Run(cmd.Context(), sourcePath, outputPath, req)
			if err != nil {
				return err
			}
			elapsed := time.Since(started)

			recordHistory(cctx, cmd, result, sourcePath, quality, req.ColorBudget, elapsed)
			printResult(cmd, result, elapsed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output path (default <input>.optimized.gif)")
	cmd.Flags().IntVarP(&qualityFlag, "quality", "q", 80, "Quality level, 0-100")
	cmd.Flags().BoolVar(&lossyFlag, "lossy", false, "Enable lossy compression derived from quality")
	cmd.Flags().IntVar(&lossyValue, "lossy-value", 0, "Explicit gifsicle --lossy value, 0-100")
	cmd.Flags().IntVar(&levelFlag, "level", 2, "Optimization level, 1-3")
	cmd.Flags().IntVar(&loopsFlag, "loops", 0, "Override loop count, 0 = forever")
	cmd.Flags().BoolVar(&keepMetadata, "keep-metadata", false, "Keep comments, names, and extensions")
	cmd.Flags().BoolVar(&rasterFlag, "raster", false, "Treat the input as a single-frame image")

	return cmd
}

func derivedOutputPath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	base := strings.TrimSuffix(sourcePath, ext)
	return base + ".optimized.gif"
}

// recordHistory appends the run to the ledger. History is a convenience;
// a broken database must not fail an optimization that already succeeded.
func recordHistory(cctx *commandContext, cmd *cobra.Command, result optimize.Result, sourcePath string, quality, colors int, elapsed time.Duration) {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		if logger, lerr := cctx.ensureLogger(); lerr == nil {
			logger.Warn("history unavailable", "error", err)
		}
		return
	}
	defer store.Close()

	_, err = store.Record(cmd.Context(), history.Entry{
		SourcePath:  sourcePath,
		OutputPath:  result.OutputPath,
		Strategy:    string(result.Strategy),
		Quality:     quality,
		Colors:      colors,
		InputBytes:  result.InputBytes,
		OutputBytes: result.OutputBytes,
		Duration:    elapsed,
	})
	if err != nil {
		if logger, lerr := cctx.ensureLogger(); lerr == nil {
			logger.Warn("history record failed", "error", err)
		}
	}
}

func printResult(cmd *cobra.Command, result optimize.Result, elapsed time.Duration) {
	saved := "-"
	if result.InputBytes > 0 && result.OutputBytes > 0 {
		pct := (1 - float64(result.OutputBytes)/float64(result.InputBytes)) * 100
		saved = fmt.Sprintf("%.1f%%", pct)
	}
	rows := [][]string{
		{"Output", result.OutputPath},
		{"Strategy", string(result.Strategy)},
		{"Frames", fmt.Sprintf("%d", result.FrameCount)},
		{"Input size", formatBytes(result.InputBytes)},
		{"Output size", formatBytes(result.OutputBytes)},
		{"Saved", saved},
		{"Elapsed", elapsed.Round(time.Millisecond).String()},
	}
	cmd.Println(renderTable([]string{"Field", "Value"}, rows))
}

func formatBytes(n int64) string {
	if n <= 0 {
		return "-"
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
