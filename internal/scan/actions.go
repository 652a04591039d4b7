// Package scan implements the scan and leaderboard CLI commands.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/db"
	"github.com/agentscan/agentscan/pkg/scanner"
)

// output is the document printed for one scan run.
type output struct {
	Results []entry `json:"results" yaml:"results"`
	Total   int     `json:"total" yaml:"total"`
	Failed  int     `json:"failed" yaml:"failed"`
}

type entry struct {
	ScanID string            `json:"scanId,omitempty" yaml:"scan_id,omitempty"`
	Result models.ScanResult `json:"result" yaml:"result"`
}

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// loadConfig resolves the scan config from defaults, optional YAML file
// and CLI flag overrides, in that order.
func loadConfig(c *cli.Context, logger *slog.Logger) models.ScanConfig {
	cfg := models.DefaultScanConfig()
	if c.IsSet("config") {
		loaded, err := models.LoadScanConfig(c.String("config"))
		if err != nil {
			logger.Error("failed to load config", "path", c.String("config"), "error", err)
			os.Exit(2)
		}
		cfg = loaded
	}
	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.FetchTimeout = c.Duration("timeout")
	}
	return cfg
}

// ScanAction runs one or more readiness scans from the command line.
func ScanAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)

	urls := splitURLs(c.String("urls"))
	if len(urls) == 0 {
		urls = c.Args().Slice()
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No URLs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  agentscan scan --urls "https://example.com,https://example.org"`)
		fmt.Fprintln(os.Stderr, `  agentscan scan https://example.com`)
		os.Exit(1)
	}

	var database *db.DB
	if !c.Bool("no-store") {
		var err error
		database, err = db.Open(c.String("db"))
		if err != nil {
			// Scanning still works without persistence.
			logger.Warn("failed to open database, results will not be stored", "error", err)
			database = nil
		} else {
			defer database.Close()
		}
	}

	s := scanner.New(cfg, logger)
	results := run(context.Background(), logger, s, database, urls, cfg.WorkerCount)

	doc := output{Total: len(results)}
	for _, r := range results {
		if r.Scan.Failed() {
			doc.Failed++
		}
		doc.Results = append(doc.Results, entry{ScanID: r.ScanID, Result: r.Scan})
	}

	if err := printDoc(doc, c.String("format")); err != nil {
		logger.Error("failed to render output", "error", err)
		os.Exit(2)
	}

	if doc.Failed == doc.Total {
		os.Exit(2)
	}
	if doc.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

// LeaderboardAction prints the top domains by best score.
func LeaderboardAction(c *cli.Context) error {
	logger := newLogger(c)

	database, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	entries, err := database.Leaderboard(c.Int("limit"))
	if err != nil {
		logger.Error("failed to load leaderboard", "error", err)
		os.Exit(2)
	}

	if strings.EqualFold(c.String("format"), "json") {
		return printDoc(entries, "json")
	}
	for i, e := range entries {
		fmt.Printf("%2d. %-40s %3d/100 %s (L%d %s)\n", i+1, e.Domain, e.Score, e.Grade, e.Level, e.LevelName)
	}
	return nil
}

// RecentAction prints the newest stored scans.
func RecentAction(c *cli.Context) error {
	logger := newLogger(c)

	database, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	scans, err := database.RecentScans(c.Int("limit"))
	if err != nil {
		logger.Error("failed to load recent scans", "error", err)
		os.Exit(2)
	}

	if strings.EqualFold(c.String("format"), "json") {
		return printDoc(scans, "json")
	}
	for _, s := range scans {
		fmt.Printf("%s  %-40s %3d/100 %s  %s\n", s.ID, s.Domain, s.Score, s.Grade, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printDoc(doc any, format string) error {
	switch strings.ToLower(format) {
	case "yaml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		fmt.Print(string(data))
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}

func splitURLs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}
