package preflight

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"gifpress/internal/gifsicle"
)

type cannedExecutor struct {
	available bool
}

func (c cannedExecutor) Run(context.Context, string, []string, string) (gifsicle.Invocation, error) {
	if c.available {
		return gifsicle.Invocation{Stdout: []string{"LCDF Gifsicle 1.94"}}, nil
	}
	return gifsicle.Invocation{}, gifsicle.ErrLaunch
}

func TestCheckOptimizer(t *testing.T) {
	available := gifsicle.New("/opt/gifsicle", gifsicle.WithExecutor(cannedExecutor{available: true}))
	result := CheckOptimizer(available)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
	if result.Detail != "/opt/gifsicle" {
		t.Fatalf("detail should name the binary, got %q", result.Detail)
	}

	missing := gifsicle.New("", gifsicle.WithExecutor(cannedExecutor{}))
	result = CheckOptimizer(missing)
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
	if !strings.Contains(result.Detail, "quantization") {
		t.Fatalf("detail should mention the fallback, got %q", result.Detail)
	}

	if CheckOptimizer(nil).Passed {
		t.Fatal("nil client must not pass")
	}
}

func TestCheckTempDirCreatesAndPasses(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	result := CheckTempDir(dir)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckTempDirUnconfigured(t *testing.T) {
	if CheckTempDir("").Passed {
		t.Fatal("empty path must not pass")
	}
}

func TestCheckDiskSpaceOnRealFilesystem(t *testing.T) {
	result := CheckDiskSpace(t.TempDir())
	if result.Detail == "" {
		t.Fatal("expected detail with free space")
	}
}
