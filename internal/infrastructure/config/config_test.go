package config

import (
	"os"
	"testing"
)

func TestLoadServer(t *testing.T) {
	t.Setenv("FOCUSMETRICS_PORT", "3000")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Storage != "file" {
		t.Errorf("Storage = %q, want the file default", cfg.Storage)
	}
}

func TestLoadServer_DefaultPort(t *testing.T) {
	t.Setenv("FOCUSMETRICS_PORT", "") // restores any real value on cleanup
	if err := os.Unsetenv("FOCUSMETRICS_PORT"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want the 8080 default", cfg.Port)
	}
}
