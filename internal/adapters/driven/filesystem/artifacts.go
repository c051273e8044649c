package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ArtifactSink = (*ArtifactDir)(nil)

// ArtifactDir writes artifacts into a directory. Each artifact is written to
// a temporary file and renamed into place on Close, so readers never see a
// partial file.
type ArtifactDir struct {
	dir string
}

// NewArtifactDir creates the directory if needed.
func NewArtifactDir(dir string) (*ArtifactDir, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &ArtifactDir{dir: dir}, nil
}

// Dir returns the output directory.
func (d *ArtifactDir) Dir() string {
	return d.dir
}

// Create opens a temporary file for the named artifact.
func (d *ArtifactDir) Create(name string) (driven.Artifact, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid artifact name %q", name)
	}

	tmp, err := os.CreateTemp(d.dir, "."+name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create artifact %s: %w", name, err)
	}
	return &fileArtifact{tmp: tmp, path: filepath.Join(d.dir, name)}, nil
}

type fileArtifact struct {
	tmp  *os.File
	path string
	done bool
}

func (a *fileArtifact) Write(p []byte) (int, error) {
	return a.tmp.Write(p)
}

// Close syncs the temporary file and renames it over the final path.
func (a *fileArtifact) Close() error {
	if a.done {
		return nil
	}
	a.done = true

	// CreateTemp opens files 0600
	if err := a.tmp.Chmod(0o644); err != nil {
		return a.discard(err)
	}
	if err := a.tmp.Sync(); err != nil {
		return a.discard(err)
	}
	if err := a.tmp.Close(); err != nil {
		return a.discard(err)
	}
	if err := os.Rename(a.tmp.Name(), a.path); err != nil {
		return a.discard(err)
	}
	return nil
}

// Abort removes the temporary file.
func (a *fileArtifact) Abort() error {
	if a.done {
		return nil
	}
	a.done = true
	return a.discard(nil)
}

func (a *fileArtifact) Path() string {
	return a.path
}

func (a *fileArtifact) discard(cause error) error {
	closeErr := a.tmp.Close()
	if errors.Is(closeErr, os.ErrClosed) {
		closeErr = nil
	}
	removeErr := os.Remove(a.tmp.Name())
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}
	return errors.Join(cause, closeErr, removeErr)
}
