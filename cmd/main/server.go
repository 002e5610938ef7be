package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mkrantz/tessella/pkg/theme"
)

type Server struct {
	config     *Config
	db         *sql.DB
	logger     *slog.Logger
	engine     *theme.Engine
	provider   *theme.DirProvider
	statsAPI   *StatsAPI
	themeAPI   *ThemeAPI
	serverAPI  *ServerAPI
	previewMux *http.ServeMux
	apiMux     *http.ServeMux

	mu       sync.RWMutex
	siteData theme.Context
}

func NewServer(config *Config, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {

	provider, err := theme.NewDirProvider(config.Server.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create theme provider: %w", err)
	}
	engine := theme.NewEngine(logger, provider, config.Engine)

	siteData, err := loadSiteData(config.Server.SiteDataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load site data: %w", err)
	}
	logger.Info("Loaded site data", "keys", len(siteData), "path", config.Server.SiteDataPath)

	server := &Server{
		config:     config,
		db:         db,
		logger:     logger,
		engine:     engine,
		provider:   provider,
		siteData:   siteData,
		previewMux: http.NewServeMux(),
		apiMux:     http.NewServeMux(),
	}

	// api initialization
	server.statsAPI = NewStatsAPI(db, logger)
	server.themeAPI = NewThemeAPI(engine, provider.Root(), server.SiteData, logger)
	server.serverAPI = NewServerAPI(config, "./config.json", actionChan, engine, server, logger)

	apiMux := http.NewServeMux()
	server.statsAPI.RegisterRoutes(apiMux)
	server.themeAPI.RegisterRoutes(apiMux)
	server.serverAPI.RegisterRoutes(apiMux)

	// All api routes sit behind the configured token.
	server.apiMux.Handle("/api/", requireToken(config.Server.ApiToken, apiMux))
	server.previewMux.HandleFunc("/", server.handlePreview)

	return server, nil
}

// SiteData returns the current site data context. The engine treats it as
// read-only, so handing out the shared map is safe alongside ReloadSiteData
// which swaps the whole map rather than mutating it.
func (s *Server) SiteData() theme.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.siteData
}

// ReloadSiteData re-reads the site data file from disk.
func (s *Server) ReloadSiteData() error {
	siteData, err := loadSiteData(s.config.Server.SiteDataPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.siteData = siteData
	s.mu.Unlock()
	s.logger.Info("Reloaded site data", "keys", len(siteData))
	return nil
}

// handlePreview maps the request path to a template route, falling back to
// theme assets and finally the 404 template.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	if templateName, ok := s.config.Server.Routes[path]; ok {
		s.serveTemplate(w, r, templateName, http.StatusOK)
		return
	}

	if s.serveAsset(w, r) {
		return
	}

	s.serveTemplate(w, r, s.config.Server.NotFoundTemplate, http.StatusNotFound)
}

// serveTemplate renders a template with the current site data and writes it
// with the given status code.
func (s *Server) serveTemplate(w http.ResponseWriter, r *http.Request, name string, status int) {
	content, err := s.engine.Render(name, s.SiteData())
	if err != nil {
		if errors.Is(err, theme.ErrNotFound) {
			s.logger.Warn("Routed template does not exist", "template", name, "path", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		s.logger.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err = s.statsAPI.LogRender(r.Context(), r.URL.Path, name); err != nil {
		s.logger.Error("Failed to log render stats", "error", err)
	}

	s.logger.Debug("Served template",
		"template", name,
		"path", r.URL.Path,
		"status", status,
		"size", humanize.Bytes(uint64(len(content))))

	w.Header().Set("Cache-Control", "no-store, no-cache")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(content))
}

// serveAsset serves a static file from the theme directory. Requests using
// the theme's public prefix (/themes/<name>/...) are mapped back onto the
// theme root, matching how the stock theme links its assets.
func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	root := s.provider.Root()
	assetPath := strings.TrimPrefix(r.URL.Path, "/themes/"+filepath.Base(root)+"/")
	assetPath = strings.TrimPrefix(assetPath, "/")
	if assetPath == "" || strings.Contains(assetPath, "..") {
		return false
	}

	full := filepath.Join(root, filepath.FromSlash(assetPath))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeFile(w, r, full)
	return true
}
