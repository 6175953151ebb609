package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
http:
  port: 9000
  timeout: 5s
log:
  level: debug
database:
  path: data/predictions.db
artifacts:
  dir: artifacts
  model_type: logistic_regression
  scaler: scaler.json
cache:
  size: 16
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Http.Port != 9000 || cfg.Http.Timeout != 5*time.Second {
		t.Fatalf("unexpected http config: %+v", cfg.Http)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Artifacts.Dir != filepath.Join(dir, "artifacts") {
		t.Fatalf("expected artifacts dir relative to config, got %s", cfg.Artifacts.Dir)
	}
	if cfg.Database.Path != filepath.Join(dir, "data/predictions.db") {
		t.Fatalf("unexpected database path: %s", cfg.Database.Path)
	}
	bundle := cfg.Bundle()
	if bundle.ModelType != "logistic_regression" || bundle.Encoders != "label_encoders.json" || bundle.Scaler != "scaler.json" {
		t.Fatalf("unexpected bundle config: %+v", bundle)
	}
	if cfg.Cache.Size != 16 {
		t.Fatalf("expected cache size 16, got %d", cfg.Cache.Size)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SALARY_HTTP_PORT", "9100")
	t.Setenv("SALARY_LOG_LEVEL", "warn")
	cfg, err := Load(writeConfig(t, t.TempDir(), sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Http.Port != 9100 || cfg.Log.Level != "warn" {
		t.Fatalf("env overrides not applied: port=%d level=%s", cfg.Http.Port, cfg.Log.Level)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(writeConfig(t, dir, "artifacts:\n  dir: a\n  model_type: svm\n")); err == nil {
		t.Fatal("expected error for unsupported model type")
	}
	if _, err := Load(writeConfig(t, dir, "http:\n  port: 70000\nartifacts:\n  dir: a\n")); err == nil {
		t.Fatal("expected error for bad port")
	}
	if _, err := Load(writeConfig(t, dir, "log:\n  level: info\n")); err == nil {
		t.Fatal("expected error for missing artifacts dir")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleConfig)

	changed := make(chan *Config, 4)
	w, err := NewWatcher(path, nil, func(cfg *Config) { changed <- cfg })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	updated := "log:\n  level: error\nartifacts:\n  dir: artifacts\n"
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Log.Level == "error" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}
