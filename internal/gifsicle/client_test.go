package gifsicle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeExecutor struct {
	run func(ctx context.Context, binary string, args []string, workdir string) (Invocation, error)
}

func (f fakeExecutor) Run(ctx context.Context, binary string, args []string, workdir string) (Invocation, error) {
	return f.run(ctx, binary, args, workdir)
}

func TestClientResolvesFirstRespondingCandidate(t *testing.T) {
	var probed []string
	exec := fakeExecutor{run: func(_ context.Context, binary string, args []string, _ string) (Invocation, error) {
		probed = append(probed, binary)
		if binary == "/usr/bin/gifsicle" {
			return Invocation{Stdout: []string{"LCDF Gifsicle 1.94"}}, nil
		}
		return Invocation{}, ErrLaunch
	}}

	client := New("", WithExecutor(exec))
	if !client.Available() {
		t.Fatal("expected client available")
	}
	if client.Binary() != "/usr/bin/gifsicle" {
		t.Fatalf("unexpected binary: %s", client.Binary())
	}
	if len(probed) == 0 || probed[0] != "gifsicle" {
		t.Fatalf("expected PATH name probed first, got %v", probed)
	}

	// Resolution is cached: further calls must not probe again.
	count := len(probed)
	_ = client.Available()
	if len(probed) != count {
		t.Fatal("expected cached resolution")
	}
}

func TestClientConfiguredBinaryProbedFirst(t *testing.T) {
	exec := fakeExecutor{run: func(_ context.Context, binary string, _ []string, _ string) (Invocation, error) {
		if binary == "/opt/tools/gifsicle" {
			return Invocation{Stdout: []string{"LCDF Gifsicle 1.94"}}, nil
		}
		t.Fatalf("unexpected probe of %s before configured binary", binary)
		return Invocation{}, nil
	}}

	client := New("/opt/tools/gifsicle", WithExecutor(exec))
	if client.Binary() != "/opt/tools/gifsicle" {
		t.Fatalf("unexpected binary: %s", client.Binary())
	}
}

func TestClientUnavailableWhenNoCandidateResponds(t *testing.T) {
	exec := fakeExecutor{run: func(context.Context, string, []string, string) (Invocation, error) {
		return Invocation{}, ErrLaunch
	}}

	client := New("", WithExecutor(exec))
	if client.Available() {
		t.Fatal("expected unavailable client")
	}

	_, err := client.Info(context.Background(), "a.gif")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClientProbeRejectsEmptyOutput(t *testing.T) {
	exec := fakeExecutor{run: func(context.Context, string, []string, string) (Invocation, error) {
		return Invocation{}, nil // zero exit, but silent
	}}

	client := New("", WithExecutor(exec))
	if client.Available() {
		t.Fatal("silent probe must not count as available")
	}
}

func TestInfoFillsSizeFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.gif")
	if err := os.WriteFile(path, []byte("GIF89a-data"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	exec := fakeExecutor{run: func(_ context.Context, _ string, args []string, _ string) (Invocation, error) {
		if args[0] == "--version" {
			return Invocation{Stdout: []string{"LCDF Gifsicle 1.94"}}, nil
		}
		return Invocation{Stdout: []string{"* a.gif 1 image", "  logical screen 4x4"}}, nil
	}}

	client := New("", WithExecutor(exec))
	meta, err := client.Info(context.Background(), path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if meta.FrameCount != 1 {
		t.Fatalf("expected 1 frame, got %d", meta.FrameCount)
	}
	if meta.SizeBytes != int64(len("GIF89a-data")) {
		t.Fatalf("unexpected size: %d", meta.SizeBytes)
	}
}
