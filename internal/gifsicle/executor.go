package gifsicle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrLaunch marks invocations that never produced a process: binary not
// found, not executable, or permission denied. Non-zero exit is not a
// launch failure and is reported through Invocation instead.
var ErrLaunch = errors.New("gifsicle launch failed")

// Invocation captures the observable result of one external call.
type Invocation struct {
	ExitCode int
	Stdout   []string
}

// Failed reports whether the process exited unsuccessfully.
func (i Invocation) Failed() bool {
	return i.ExitCode != 0
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, workdir string) (Invocation, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, workdir string) (Invocation, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = workdir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	inv := Invocation{Stdout: splitLines(output.String())}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			inv.ExitCode = exitErr.ExitCode()
			return inv, nil
		}
		return inv, fmt.Errorf("%w: %v", ErrLaunch, err)
	}
	return inv, nil
}

func splitLines(output string) []string {
	if output == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
