package preflight

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"

	"gifpress/internal/config"
	"gifpress/internal/gifsicle"
)

// Result reports a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minFreeBytes is the scratch-space floor below which extraction of large
// animations is likely to fail mid-run.
const minFreeBytes = 64 << 20

// CheckOptimizer reports whether a usable gifsicle binary was discovered.
// Absence is a degradation, not a failure of the tool itself, but users
// running status want to know.
func CheckOptimizer(client *gifsicle.Client) Result {
	const name = "gifsicle"
	if client == nil {
		return Result{Name: name, Detail: "client not configured"}
	}
	if !client.Available() {
		return Result{Name: name, Detail: "binary not found; optimization will use in-process quantization"}
	}
	return Result{Name: name, Passed: true, Detail: client.Binary()}
}

// CheckTempDir verifies that the scratch directory exists (or can be
// created) and is readable, writable, and traversable.
func CheckTempDir(path string) Result {
	const name = "temp dir"
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the scratch filesystem has headroom for frame
// extraction.
func CheckDiskSpace(path string) Result {
	const name = "disk space"
	usage, err := disk.Usage(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(usage.Free)/(1<<30))
	if usage.Free < minFreeBytes {
		return Result{Name: name, Detail: detail + ", below the 64 MiB floor"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// Run evaluates every check for the given configuration.
func Run(cfg *config.Config, client *gifsicle.Client) []Result {
	results := []Result{
		CheckOptimizer(client),
		CheckTempDir(cfg.Paths.TempDir),
	}
	if tempDir := cfg.Paths.TempDir; tempDir != "" {
		results = append(results, CheckDiskSpace(tempDir))
	}
	return results
}
