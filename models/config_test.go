package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadScanConfigOverlay(t *testing.T) {
	path := writeConfig(t, `
fetch_timeout: 12s
workers: 9
user_agent: "custom-agent/2.0"
`)

	cfg, err := LoadScanConfig(path)
	if err != nil {
		t.Fatalf("LoadScanConfig: %v", err)
	}

	if cfg.FetchTimeout != 12*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if cfg.WorkerCount != 9 {
		t.Errorf("WorkerCount = %d", cfg.WorkerCount)
	}
	if cfg.UserAgent != "custom-agent/2.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}

	// Unset fields keep their defaults.
	defaults := DefaultScanConfig()
	if cfg.SubFetchTimeout != defaults.SubFetchTimeout {
		t.Errorf("SubFetchTimeout = %v, want default %v", cfg.SubFetchTimeout, defaults.SubFetchTimeout)
	}
	if cfg.MaxBodyBytes != defaults.MaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want default %d", cfg.MaxBodyBytes, defaults.MaxBodyBytes)
	}
}

func TestLoadScanConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad duration", content: "fetch_timeout: fast"},
		{name: "not yaml", content: "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScanConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadScanConfigMissingFile(t *testing.T) {
	if _, err := LoadScanConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
