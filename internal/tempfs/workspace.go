package tempfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Kind distinguishes temp files from temp directories.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// Resource is a single scratch file or directory owned by the operation
// that acquired it. Release is idempotent and safe on a nil receiver, so
// call sites can defer it unconditionally.
type Resource struct {
	Path string
	Kind Kind

	once sync.Once
}

// Release deletes the underlying file or directory. Repeated calls and
// calls on already-deleted paths are no-ops.
func (r *Resource) Release() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		var err error
		switch r.Kind {
		case KindDirectory:
			err = os.RemoveAll(r.Path)
		default:
			err = os.Remove(r.Path)
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			// Nothing actionable for the caller; the temp root sweep
			// picks up stragglers.
			_ = err
		}
	})
}

// Workspace hands out uniquely named scratch resources under a single root.
// Names combine the PID with a UUID so concurrent pipelines in one process
// or across processes sharing the root cannot collide.
type Workspace struct {
	root   string
	prefix string
}

// New constructs a workspace rooted at dir. An empty dir falls back to the
// system temp directory.
func New(dir string) *Workspace {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = os.TempDir()
	}
	return &Workspace{root: dir, prefix: "gifpress"}
}

// Root returns the directory resources are created under.
func (w *Workspace) Root() string {
	return w.root
}

// AcquireFile creates an empty scratch file and returns its resource.
func (w *Workspace) AcquireFile() (*Resource, error) {
	if err := w.ensureRoot(); err != nil {
		return nil, err
	}
	path := filepath.Join(w.root, w.uniqueName())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("acquire temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("acquire temp file: %w", err)
	}
	return &Resource{Path: path, Kind: KindFile}, nil
}

// AcquireDirectory creates a scratch directory and returns its resource.
func (w *Workspace) AcquireDirectory() (*Resource, error) {
	if err := w.ensureRoot(); err != nil {
		return nil, err
	}
	path := filepath.Join(w.root, w.uniqueName())
	if err := os.Mkdir(path, 0o700); err != nil {
		return nil, fmt.Errorf("acquire temp directory: %w", err)
	}
	return &Resource{Path: path, Kind: KindDirectory}, nil
}

func (w *Workspace) ensureRoot() error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("ensure temp root: %w", err)
	}
	return nil
}

func (w *Workspace) uniqueName() string {
	return fmt.Sprintf("%s-%d-%s", w.prefix, os.Getpid(), uuid.NewString())
}
