package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDirProvider_Fetch(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "page.html"), []byte("content"), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	// A file next to the theme root that must never be reachable.
	if err := os.WriteFile(filepath.Join(filepath.Dir(root), "secret.txt"), []byte("secret"), 0644); err != nil {
		t.Fatalf("failed to write outside file: %v", err)
	}

	p, err := NewDirProvider(root)
	if err != nil {
		t.Fatalf("NewDirProvider failed: %v", err)
	}

	got, err := p.Fetch("page.html")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got != "content" {
		t.Errorf("unexpected content: %q", got)
	}

	if _, err = p.Fetch("missing.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing file, got %v", err)
	}

	if _, err = p.Fetch("../secret.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a path escaping the root, got %v", err)
	}
}
