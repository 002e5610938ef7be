package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const statsSchema = `
CREATE TABLE IF NOT EXISTS stats_template (
    name            TEXT PRIMARY KEY,
    total_renders   INTEGER NOT NULL DEFAULT 1,
    first_rendered  DATETIME NOT NULL,
    last_rendered   DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS stats_path (
    path          TEXT PRIMARY KEY,
    total_hits    INTEGER NOT NULL DEFAULT 1,
    first_seen    DATETIME NOT NULL,
    last_seen     DATETIME NOT NULL
);
`

// RenderStatsSummary provides a high-level overview of all collected stats.
type RenderStatsSummary struct {
	TotalRenders    int64 `json:"total_renders"`
	UniqueTemplates int64 `json:"unique_templates"`
	UniquePaths     int64 `json:"unique_paths"`
}

// TemplateStats is one row of per-template render counts.
type TemplateStats struct {
	Name         string    `json:"name"`
	TotalRenders int       `json:"total_renders"`
	LastRendered time.Time `json:"last_rendered"`
}

// PathStats is one row of per-path hit counts.
type PathStats struct {
	Path      string    `json:"path"`
	TotalHits int       `json:"total_hits"`
	LastSeen  time.Time `json:"last_seen"`
}

// StatsAPI holds the dependencies for the render statistics handlers.
type StatsAPI struct {
	db     *sql.DB
	logger *slog.Logger
}

func setupStatsSchema(db *sql.DB) error {
	_, err := db.Exec(statsSchema)
	return err
}

func NewStatsAPI(db *sql.DB, logger *slog.Logger) *StatsAPI {
	return &StatsAPI{
		db:     db,
		logger: logger,
	}
}

func (s *StatsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats/summary", s.handleSummary)
	mux.HandleFunc("/api/stats/top_templates", s.handleTopTemplates)
	mux.HandleFunc("/api/stats/top_paths", s.handleTopPaths)
}

// LogRender records one render of a template for a request path. Called by
// the preview handler on every successful render.
func (s *StatsAPI) LogRender(ctx context.Context, path, template string) error {
	now := time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	_, err = tx.ExecContext(ctx, `
        INSERT INTO stats_template (name, first_rendered, last_rendered) VALUES (?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET total_renders = total_renders + 1, last_rendered = ?
    `, template, now, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert stats_template: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO stats_path (path, first_seen, last_seen) VALUES (?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET total_hits = total_hits + 1, last_seen = ?
    `, path, now, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert stats_path: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stats transaction: %w", err)
	}
	return nil
}

func (s *StatsAPI) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var summary RenderStatsSummary
	err := s.db.QueryRowContext(r.Context(),
		"SELECT COALESCE(SUM(total_renders), 0), COUNT(*) FROM stats_template").
		Scan(&summary.TotalRenders, &summary.UniqueTemplates)
	if err != nil {
		s.logger.Error("Failed to query template stats summary", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Database query failed")
		return
	}
	err = s.db.QueryRowContext(r.Context(), "SELECT COUNT(*) FROM stats_path").Scan(&summary.UniquePaths)
	if err != nil {
		s.logger.Error("Failed to query path stats summary", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Database query failed")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (s *StatsAPI) handleTopTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rows, err := s.db.QueryContext(r.Context(),
		"SELECT name, total_renders, last_rendered FROM stats_template ORDER BY total_renders DESC LIMIT ?",
		limitParam(r))
	if err != nil {
		s.logger.Error("Failed to query top templates", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Database query failed")
		return
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var stats []TemplateStats
	for rows.Next() {
		var row TemplateStats
		if err = rows.Scan(&row.Name, &row.TotalRenders, &row.LastRendered); err != nil {
			s.logger.Error("Failed to scan template stats row", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to process database results")
			return
		}
		stats = append(stats, row)
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (s *StatsAPI) handleTopPaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rows, err := s.db.QueryContext(r.Context(),
		"SELECT path, total_hits, last_seen FROM stats_path ORDER BY total_hits DESC LIMIT ?",
		limitParam(r))
	if err != nil {
		s.logger.Error("Failed to query top paths", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Database query failed")
		return
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var stats []PathStats
	for rows.Next() {
		var row PathStats
		if err = rows.Scan(&row.Path, &row.TotalHits, &row.LastSeen); err != nil {
			s.logger.Error("Failed to scan path stats row", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to process database results")
			return
		}
		stats = append(stats, row)
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// limitParam reads the "limit" query parameter, defaulting to 20.
func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 1000 {
		return 20
	}
	return limit
}
