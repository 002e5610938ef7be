package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkrantz/tessella/pkg/theme"
)

// setupTestServer builds a Server around a temp theme containing a base
// layout, two routed pages and a 404 template.
func setupTestServer(tb testing.TB) *Server {
	tb.Helper()

	dir := tb.TempDir()
	themeDir := filepath.Join(dir, "theme")
	templates := map[string]string{
		"templates/base.html":  `<title>{% block title %}{% endblock %} - {{ site.name }}</title>{% block body %}{% endblock %}`,
		"templates/front.html": `{% extends "templates/base.html" %}{% block title %}Home{% endblock %}{% block body %}<p>welcome</p>{% endblock %}`,
		"templates/404.html":   `<h1>Not Found</h1>`,
		"assets/app.css":       `body { margin: 0 }`,
	}
	for name, content := range templates {
		path := filepath.Join(themeDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			tb.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			tb.Fatalf("failed to write %s: %v", name, err)
		}
	}

	config := &Config{
		Server: DefaultServerConfig(),
		Engine: theme.DefaultConfig(),
	}
	config.Server.ThemeDir = themeDir
	config.Server.SiteDataPath = filepath.Join(dir, "site.yaml")
	config.Server.Routes = map[string]string{"/": "templates/front.html"}
	config.Server.NotFoundTemplate = "templates/404.html"

	if err := os.WriteFile(config.Server.SiteDataPath, []byte("site:\n  name: Acme\n"), 0644); err != nil {
		tb.Fatalf("failed to write site data: %v", err)
	}

	db, err := initDB(filepath.Join(dir, "stats.db"))
	if err != nil {
		tb.Fatalf("failed to open db: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	if err = setupStatsSchema(db); err != nil {
		tb.Fatalf("failed to setup stats schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server, err := NewServer(config, logger, db, make(chan string, 1))
	if err != nil {
		tb.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func doPreview(tb testing.TB, s *Server, path string) *httptest.ResponseRecorder {
	tb.Helper()
	rec := httptest.NewRecorder()
	s.previewMux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_RoutedTemplate(t *testing.T) {
	s := setupTestServer(t)

	rec := doPreview(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if body != "<title>Home - Acme</title><p>welcome</p>" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestServer_TrailingSlashRoute(t *testing.T) {
	s := setupTestServer(t)
	s.config.Server.Routes["/pricing"] = "templates/front.html"

	if rec := doPreview(t, s, "/pricing/"); rec.Code != http.StatusOK {
		t.Errorf("trailing slash should resolve the route, got %d", rec.Code)
	}
}

func TestServer_UnknownRouteRenders404Template(t *testing.T) {
	s := setupTestServer(t)

	rec := doPreview(t, s, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Not Found</h1>") {
		t.Errorf("expected the 404 template body, got %q", rec.Body.String())
	}
}

func TestServer_ServesThemeAssets(t *testing.T) {
	s := setupTestServer(t)

	rec := doPreview(t, s, "/assets/app.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an asset, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "margin: 0") {
		t.Errorf("unexpected asset body: %q", rec.Body.String())
	}

	// The theme's public prefix maps back onto the theme root.
	prefixed := "/themes/" + filepath.Base(s.provider.Root()) + "/assets/app.css"
	if rec = doPreview(t, s, prefixed); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for a prefixed asset, got %d", rec.Code)
	}
}

func TestServer_RendersAreCounted(t *testing.T) {
	s := setupTestServer(t)

	doPreview(t, s, "/")
	doPreview(t, s, "/")

	var total int
	err := s.db.QueryRow("SELECT total_renders FROM stats_template WHERE name = ?", "templates/front.html").Scan(&total)
	if err != nil {
		t.Fatalf("failed to query stats: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 recorded renders, got %d", total)
	}
}

func TestServer_ReloadSiteData(t *testing.T) {
	s := setupTestServer(t)

	if err := os.WriteFile(s.config.Server.SiteDataPath, []byte("site:\n  name: Umbrella\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite site data: %v", err)
	}
	if err := s.ReloadSiteData(); err != nil {
		t.Fatalf("ReloadSiteData failed: %v", err)
	}

	rec := doPreview(t, s, "/")
	if !strings.Contains(rec.Body.String(), "Umbrella") {
		t.Errorf("expected reloaded site data in output, got %q", rec.Body.String())
	}
}

func TestRequireToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("open when unset", func(t *testing.T) {
		rec := httptest.NewRecorder()
		requireToken("", ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/summary", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected pass-through, got %d", rec.Code)
		}
	})

	t.Run("rejects missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		requireToken("secret", ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/summary", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("accepts bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/stats/summary", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		requireToken("secret", ok).ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}
