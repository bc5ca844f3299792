package gifsicle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// OptimizeSpec describes one optimize/merge invocation. Nil or zero
// optional fields omit their flag entirely.
type OptimizeSpec struct {
	Colors            int  // 2..256; 0 omits --colors
	Lossy             *int // nil = lossless
	OptimizationLevel int  // 1..3; 0 omits -O
	Careful           bool
	StripMetadata     bool
	LoopCount         *int // nil keeps the source loop count; 0 = forever
}

// MergeInput pairs a frame file with an optional display delay. Inputs are
// emitted in slice order; the merge result preserves that order.
type MergeInput struct {
	Path    string
	DelayCS *int // centiseconds
}

// BuildArgs translates a spec into a validated gifsicle argument list.
// Every value is formatted individually; nothing is interpolated into a
// shell string, and the result is handed to exec verbatim.
func BuildArgs(spec OptimizeSpec, inputs []MergeInput, outputPath string) ([]string, error) {
	if strings.TrimSpace(outputPath) == "" {
		return nil, errors.New("output path required")
	}
	if len(inputs) == 0 {
		return nil, errors.New("at least one input required")
	}
	if spec.Colors != 0 && (spec.Colors < 2 || spec.Colors > 256) {
		return nil, fmt.Errorf("colors %d out of range [2,256]", spec.Colors)
	}
	if spec.OptimizationLevel != 0 && (spec.OptimizationLevel < 1 || spec.OptimizationLevel > 3) {
		return nil, fmt.Errorf("optimization level %d out of range [1,3]", spec.OptimizationLevel)
	}
	if spec.Lossy != nil && *spec.Lossy < 0 {
		return nil, fmt.Errorf("lossy value %d must be non-negative", *spec.Lossy)
	}
	if spec.LoopCount != nil && *spec.LoopCount < 0 {
		return nil, fmt.Errorf("loop count %d must be non-negative", *spec.LoopCount)
	}

	args := make([]string, 0, 8+2*len(inputs))
	if spec.OptimizationLevel > 0 {
		args = append(args, fmt.Sprintf("-O%d", spec.OptimizationLevel))
	}
	if spec.Careful {
		args = append(args, "--careful")
	}
	if spec.Colors > 0 {
		args = append(args, "--colors="+strconv.Itoa(spec.Colors))
	}
	if spec.Lossy != nil {
		args = append(args, "--lossy="+strconv.Itoa(*spec.Lossy))
	}
	if spec.StripMetadata {
		args = append(args, "--no-comments", "--no-extensions", "--no-names")
	}
	if spec.LoopCount != nil {
		if *spec.LoopCount == 0 {
			args = append(args, "--loopcount=forever")
		} else {
			args = append(args, "--loopcount="+strconv.Itoa(*spec.LoopCount))
		}
	}
	args = append(args, "--output="+outputPath)

	for _, input := range inputs {
		if strings.TrimSpace(input.Path) == "" {
			return nil, errors.New("merge input with empty path")
		}
		if input.DelayCS != nil {
			if *input.DelayCS < 0 {
				return nil, fmt.Errorf("delay %d must be non-negative", *input.DelayCS)
			}
			args = append(args, "--delay="+strconv.Itoa(*input.DelayCS))
		}
		args = append(args, input.Path)
	}

	return args, nil
}

// Optimize merges the inputs into outputPath according to spec. The
// invocation result carries the exit code; callers interpret non-zero exit
// and decide whether to fall back.
func (c *Client) Optimize(ctx context.Context, spec OptimizeSpec, inputs []MergeInput, outputPath string) (Invocation, error) {
	args, err := BuildArgs(spec, inputs, outputPath)
	if err != nil {
		return Invocation{}, err
	}
	return c.run(ctx, args, "")
}
