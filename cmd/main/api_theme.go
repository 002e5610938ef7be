package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkrantz/tessella/pkg/theme"
	"github.com/natefinch/atomic"
)

// ThemeAPI holds the dependencies for the theme template API handlers.
type ThemeAPI struct {
	engine   *theme.Engine
	themeDir string
	siteData func() theme.Context
	logger   *slog.Logger
}

// NewThemeAPI creates a new instance of the ThemeAPI.
func NewThemeAPI(engine *theme.Engine, themeDir string, siteData func() theme.Context, logger *slog.Logger) *ThemeAPI {
	return &ThemeAPI{
		engine:   engine,
		themeDir: themeDir,
		siteData: siteData,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routing for all /api/theme endpoints.
func (t *ThemeAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/theme/render", t.handleRender)
	mux.HandleFunc("/api/theme/preview", t.handlePreview)
	mux.HandleFunc("/api/theme/templates", t.handleList)
	mux.HandleFunc("/api/theme/templates/", t.handleFile)
}

// handleList returns the theme-root-relative paths of all template files.
func (t *ThemeAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var names []string
	err := filepath.WalkDir(t.themeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, err := filepath.Rel(t.themeDir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.logger.Error("Failed to walk theme directory", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}
	respondWithJSON(w, http.StatusOK, names)
}

// handleRender renders a raw template string from the request body without
// saving it, for previewing edits.
func (t *ThemeAPI) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}

	content := t.engine.RenderString(string(body), t.siteData())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// handlePreview renders a saved template by name with the current site data.
func (t *ThemeAPI) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'name' is required")
		return
	}

	content, err := t.engine.Render(name, t.siteData())
	if err != nil {
		if errors.Is(err, theme.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Template '%s' not found", name))
			return
		}
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to render preview: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// handleFile manages CRUD operations for a single template file.
func (t *ThemeAPI) handleFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/theme/templates/")
	if name == "" || strings.HasSuffix(name, "/") {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	if strings.Contains(name, "..") || !strings.HasSuffix(name, ".html") {
		respondWithError(w, http.StatusBadRequest, "Invalid template name format")
		return
	}

	themeDir, err := filepath.Abs(t.themeDir)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve theme directory")
		return
	}

	path := filepath.Join(themeDir, filepath.FromSlash(name))
	absPath, err := filepath.Abs(path)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	if !strings.HasPrefix(absPath, themeDir+string(filepath.Separator)) {
		respondWithError(w, http.StatusForbidden, "Access denied: Path outside theme directory")
		return
	}

	switch r.Method {
	case http.MethodGet:
		content, err := os.ReadFile(absPath)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Template not found")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(content)

	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
			return
		}
		if err = os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create template directory: %v", err))
			return
		}
		if err = atomic.WriteFile(absPath, bytes.NewReader(body)); err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to write template file: %v", err))
			return
		}
		t.logger.Info("Template updated via API", "template", name)
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := os.Remove(absPath); err != nil {
			if os.IsNotExist(err) {
				respondWithError(w, http.StatusNotFound, "Template not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete template file: %v", err))
			return
		}
		t.logger.Info("Template deleted via API", "template", name)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
