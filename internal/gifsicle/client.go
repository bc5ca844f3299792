package gifsicle

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrUnavailable is returned when no gifsicle binary answered the version
// probe. Callers treat this as a capability gap, not a fatal error.
var ErrUnavailable = errors.New("gifsicle unavailable")

const probeTimeout = 5 * time.Second

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger attaches a logger for invocation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each external invocation. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Client wraps gifsicle CLI interactions. The binary is resolved once, on
// first use, and the result is cached for the client's lifetime.
type Client struct {
	configured string
	timeout    time.Duration
	exec       Executor
	logger     *slog.Logger

	resolveOnce sync.Once
	binary      string
}

// New constructs a client. The configured binary path may be empty, in
// which case discovery falls back to PATH and common install locations.
func New(binary string, opts ...Option) *Client {
	client := &Client{
		configured: strings.TrimSpace(binary),
		exec:       commandExecutor{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Available reports whether a usable binary was discovered.
func (c *Client) Available() bool {
	return c.resolve() != ""
}

// Binary returns the resolved binary path, or empty when unavailable.
func (c *Client) Binary() string {
	return c.resolve()
}

func (c *Client) resolve() string {
	c.resolveOnce.Do(func() {
		for _, candidate := range c.candidates() {
			if c.probe(candidate) {
				c.binary = candidate
				c.logger.Debug("resolved gifsicle binary", "path", candidate)
				return
			}
		}
		c.logger.Warn("gifsicle not found; animated optimization will fall back to in-process quantization")
	})
	return c.binary
}

func (c *Client) candidates() []string {
	raw := make([]string, 0, 5)
	if c.configured != "" {
		raw = append(raw, c.configured)
	}
	raw = append(raw, "gifsicle")
	for _, dir := range []string{"/usr/local/bin", "/opt/homebrew/bin", "/usr/bin"} {
		raw = append(raw, filepath.Join(dir, "gifsicle"))
	}

	seen := make(map[string]struct{}, len(raw))
	out := raw[:0]
	for _, candidate := range raw {
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// probe runs `<candidate> --version` and accepts a zero exit with
// non-empty output.
func (c *Client) probe(candidate string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	inv, err := c.exec.Run(ctx, candidate, []string{"--version"}, "")
	if err != nil {
		return false
	}
	return inv.ExitCode == 0 && len(inv.Stdout) > 0
}

// run resolves the binary and executes it under the configured timeout.
func (c *Client) run(ctx context.Context, args []string, workdir string) (Invocation, error) {
	binary := c.resolve()
	if binary == "" {
		return Invocation{}, ErrUnavailable
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	inv, err := c.exec.Run(ctx, binary, args, workdir)
	if err != nil {
		return inv, err
	}
	if inv.Failed() {
		c.logger.Debug("gifsicle exited non-zero", "exit_code", inv.ExitCode, "args", strings.Join(args, " "))
	}
	return inv, nil
}

// Info runs `gifsicle --info` against path and parses the report. Parsing
// is tolerant: malformed output yields a metadata value with defaults.
func (c *Client) Info(ctx context.Context, path string) (Metadata, error) {
	inv, err := c.run(ctx, []string{"--info", path}, "")
	if err != nil {
		return Metadata{}, err
	}
	meta := ParseInfo(inv.Stdout)
	if info, statErr := os.Stat(path); statErr == nil {
		meta.SizeBytes = info.Size()
	}
	return meta, nil
}
