package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by a Provider when no template exists at the
// requested path, and by Engine.Render when the top-level template itself
// cannot be fetched.
var ErrNotFound = errors.New("template not found")

// Provider supplies raw template text by path. Fetch must be deterministic
// per call and must return ErrNotFound (possibly wrapped) when the path does
// not resolve to a template. The engine never writes through a Provider.
type Provider interface {
	Fetch(path string) (string, error)
}

// DirProvider serves template text from a single directory on disk, the
// theme root. All paths are resolved relative to that root; paths that
// escape it are treated as absent.
type DirProvider struct {
	root string
}

// NewDirProvider creates a DirProvider rooted at the given directory.
func NewDirProvider(root string) (*DirProvider, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve theme root: %w", err)
	}
	return &DirProvider{root: abs}, nil
}

// Root returns the absolute theme root directory.
func (p *DirProvider) Root() string {
	return p.root
}

// Fetch reads the template file at path, relative to the theme root.
func (p *DirProvider) Fetch(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(p.root, filepath.FromSlash(path)))
	if err != nil || !strings.HasPrefix(abs, p.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return string(data), nil
}
