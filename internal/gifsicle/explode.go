package gifsicle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Frame is one still image extracted from an animation. Index is the
// 0-based position in display order; the file at Path is owned by the
// caller once Explode returns.
type Frame struct {
	Index             int
	Path              string
	DelayCentiseconds int
}

// Explode decomposes the source animation into per-frame files inside
// workdir. gifsicle writes siblings named <base>.NNN into its working
// directory, so the invocation runs with workdir as its cwd to keep the
// caller's filesystem clean.
//
// A non-zero exit with some frames on disk is a partial result, not a
// failure: whatever was extracted is returned and the caller decides
// whether the set is usable.
func (c *Client) Explode(ctx context.Context, sourcePath, workdir string) ([]Frame, error) {
	absSource, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}

	inv, err := c.run(ctx, []string{"--explode", absSource}, workdir)
	if err != nil {
		return nil, err
	}

	frames, err := collectFrames(workdir, filepath.Base(sourcePath))
	if err != nil {
		return nil, err
	}
	if inv.Failed() && len(frames) > 0 {
		c.logger.Debug("explode exited non-zero with partial frames",
			"exit_code", inv.ExitCode, "frames", len(frames))
	}
	return frames, nil
}

// collectFrames enumerates workdir for files named base plus a numeric
// suffix and orders them by that suffix ascending. The sort is numeric,
// not lexicographic: img.10 follows img.2.
func collectFrames(dir, base string) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("enumerate frame files: %w", err)
	}

	type candidate struct {
		path   string
		suffix int
	}
	candidates := make([]candidate, 0, len(entries))
	prefix := base + "."
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		suffix, err := strconv.Atoi(name[len(prefix):])
		if err != nil || suffix < 0 {
			continue
		}
		candidates = append(candidates, candidate{path: filepath.Join(dir, name), suffix: suffix})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].suffix < candidates[j].suffix
	})

	frames := make([]Frame, 0, len(candidates))
	for i, c := range candidates {
		frames = append(frames, Frame{Index: i, Path: c.path})
	}
	return frames, nil
}
