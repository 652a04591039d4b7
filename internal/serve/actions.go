// Package serve implements the HTTP API: scan on demand, stored scan
// lookup, the leaderboard and the SVG score badge.
package serve

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/badge"
	"github.com/agentscan/agentscan/pkg/db"
	"github.com/agentscan/agentscan/pkg/scanner"
)

// Server holds the handler dependencies.
type Server struct {
	scanner  *scanner.Scanner
	database *db.DB
	logger   *slog.Logger
}

// NewServer wires the handlers. database may be nil; scan results are then
// not persisted and the lookup endpoints return 404.
func NewServer(s *scanner.Scanner, database *db.DB, logger *slog.Logger) *Server {
	return &Server{scanner: s, database: database, logger: logger}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/scan", s.handleScan)
	mux.HandleFunc("GET /api/v1/scan/{id}", s.handleGetScan)
	mux.HandleFunc("GET /api/v1/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/v1/recent", s.handleRecent)
	mux.HandleFunc("GET /badge/{domain}", s.handleBadge)
	return mux
}

type scanRequest struct {
	URL string `json:"url"`
}

// scanResponse is a stored scan id plus the full result.
type scanResponse struct {
	ID string `json:"id,omitempty"`
	models.ScanResult
}

type apiError struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// handleScan runs a scan synchronously. A malformed request is a 400; an
// unreachable target is not an error at the HTTP layer, the result just
// carries its Error field.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a url field")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusBadRequest, "missing_url", "url is required")
		return
	}
	if _, err := scanner.NormalizeURL(req.URL); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_url", err.Error())
		return
	}

	result := s.scanner.Scan(r.Context(), req.URL)

	resp := scanResponse{ScanResult: result}
	if s.database != nil && !result.Failed() {
		id, err := s.database.SaveScan(result)
		if err != nil {
			s.logger.Warn("failed to persist scan", "url", result.URL, "error", err)
		} else {
			resp.ID = id
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.writeError(w, http.StatusNotFound, "not_found", "scan storage is disabled")
		return
	}
	stored, err := s.database.GetScan(r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not_found", "no scan with that id")
		return
	}
	if err != nil {
		s.logger.Error("failed to load scan", "error", err)
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to load scan")
		return
	}
	s.writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.writeJSON(w, http.StatusOK, []db.LeaderboardEntry{})
		return
	}
	entries, err := s.database.Leaderboard(limitParam(r, 10))
	if err != nil {
		s.logger.Error("failed to load leaderboard", "error", err)
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to load leaderboard")
		return
	}
	if entries == nil {
		entries = []db.LeaderboardEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.writeJSON(w, http.StatusOK, []db.StoredScan{})
		return
	}
	scans, err := s.database.RecentScans(limitParam(r, 10))
	if err != nil {
		s.logger.Error("failed to load recent scans", "error", err)
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to load recent scans")
		return
	}
	if scans == nil {
		scans = []db.StoredScan{}
	}
	s.writeJSON(w, http.StatusOK, scans)
}

// handleBadge serves /badge/{domain}.svg. Unknown domains get the gray
// "unscanned" badge rather than a 404 so embeds never break.
func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	domain := strings.TrimSuffix(r.PathValue("domain"), ".svg")
	if domain == "" {
		s.writeError(w, http.StatusBadRequest, "missing_domain", "domain is required")
		return
	}

	svg := badge.RenderUnknown()
	if s.database != nil {
		best, err := s.database.BestForDomain(domain)
		if err == nil {
			svg = badge.Render(best.Score)
		} else if !errors.Is(err, db.ErrNotFound) {
			s.logger.Error("failed to load domain best", "domain", domain, "error", err)
		}
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "max-age=300")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, svg)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	var e apiError
	e.Error.Kind = kind
	e.Error.Message = message
	s.writeJSON(w, status, e)
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > 100 {
		n = 100
	}
	return n
}

// ServeAction starts the HTTP API.
func ServeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg := models.DefaultScanConfig()
	if c.IsSet("config") {
		loaded, err := models.LoadScanConfig(c.String("config"))
		if err != nil {
			logger.Error("failed to load config", "path", c.String("config"), "error", err)
			os.Exit(2)
		}
		cfg = loaded
	}

	var database *db.DB
	if !c.Bool("no-store") {
		var err error
		database, err = db.Open(c.String("db"))
		if err != nil {
			logger.Warn("failed to open database, running without storage", "error", err)
			database = nil
		} else {
			defer database.Close()
		}
	}

	server := NewServer(scanner.New(cfg, logger), database, logger)

	addr := c.String("addr")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(2)
	}
	return nil
}
