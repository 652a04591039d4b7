package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScanConfig holds runtime configuration for scan operations. Values come
// from CLI flags, optionally seeded from a YAML file.
type ScanConfig struct {
	// FetchTimeout bounds the primary page fetch.
	FetchTimeout time.Duration
	// SubFetchTimeout bounds each crawlability sub-fetch
	// (robots.txt, sitemap.xml, llms.txt).
	SubFetchTimeout time.Duration
	// ProbeTimeout bounds the response-time probe.
	ProbeTimeout time.Duration
	// MaxBodyBytes caps the page body; oversized responses are truncated,
	// not rejected.
	MaxBodyBytes int64
	// WorkerCount is the number of concurrent scan workers for multi-URL
	// runs.
	WorkerCount int
	// UserAgent is sent on every request.
	UserAgent string
}

// DefaultScanConfig returns the built-in configuration.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		FetchTimeout:    8 * time.Second,
		SubFetchTimeout: 3 * time.Second,
		ProbeTimeout:    5 * time.Second,
		MaxBodyBytes:    500 * 1024,
		WorkerCount:     4,
		UserAgent:       "agentscan/1.0 (+https://github.com/agentscan/agentscan)",
	}
}

// scanConfigFile is the YAML representation. Durations are Go duration
// strings ("8s", "500ms").
type scanConfigFile struct {
	FetchTimeout    string `yaml:"fetch_timeout"`
	SubFetchTimeout string `yaml:"sub_fetch_timeout"`
	ProbeTimeout    string `yaml:"probe_timeout"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
	WorkerCount     int    `yaml:"workers"`
	UserAgent       string `yaml:"user_agent"`
}

// LoadScanConfig reads a YAML config file and overlays it on the defaults.
// Unset fields keep their default values.
func LoadScanConfig(path string) (ScanConfig, error) {
	cfg := DefaultScanConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var file scanConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := overlayDuration(&cfg.FetchTimeout, file.FetchTimeout); err != nil {
		return cfg, fmt.Errorf("invalid fetch_timeout: %w", err)
	}
	if err := overlayDuration(&cfg.SubFetchTimeout, file.SubFetchTimeout); err != nil {
		return cfg, fmt.Errorf("invalid sub_fetch_timeout: %w", err)
	}
	if err := overlayDuration(&cfg.ProbeTimeout, file.ProbeTimeout); err != nil {
		return cfg, fmt.Errorf("invalid probe_timeout: %w", err)
	}
	if file.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = file.MaxBodyBytes
	}
	if file.WorkerCount > 0 {
		cfg.WorkerCount = file.WorkerCount
	}
	if file.UserAgent != "" {
		cfg.UserAgent = file.UserAgent
	}

	return cfg, nil
}

func overlayDuration(dst *time.Duration, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
