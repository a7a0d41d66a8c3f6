package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:  HTTPConfig{Port: 8080},
		Index: IndexConfig{Dir: "/var/lib/textdex"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{-1, 0, 65536} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d: expected error", port)
		}
	}
}

func TestValidate_MissingIndexDir(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Dir = "  "

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing index dir")
	}
	if err.Error() != "index.dir is required" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestValidate_EmptyAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.APIKeys = []string{"secret", ""}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty api key")
	}
	expected := "auth.api_keys[1] is empty"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Index.Analyzer != "standard" {
		t.Errorf("expected Analyzer=standard, got %q", cfg.Index.Analyzer)
	}
	if cfg.Index.LockTimeout() != 5*time.Second {
		t.Errorf("expected LockTimeout=5s, got %s", cfg.Index.LockTimeout())
	}
	if cfg.Index.DefaultMaxHits != 100 {
		t.Errorf("expected DefaultMaxHits=100, got %d", cfg.Index.DefaultMaxHits)
	}
	if cfg.Index.HighlightPreTag != "<b>" || cfg.Index.HighlightPostTag != "</b>" {
		t.Errorf("unexpected highlight tags %q %q", cfg.Index.HighlightPreTag, cfg.Index.HighlightPostTag)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 9000, ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Index: IndexConfig{
			Analyzer:         "keyword",
			LockTimeoutSec:   1,
			DefaultMaxHits:   20,
			HighlightPostTag: "]",
		},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected Port=9000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Index.Analyzer != "keyword" {
		t.Errorf("expected Analyzer=keyword, got %q", cfg.Index.Analyzer)
	}
	if cfg.Index.DefaultMaxHits != 20 {
		t.Errorf("expected DefaultMaxHits=20, got %d", cfg.Index.DefaultMaxHits)
	}
	// A single configured tag is kept as is.
	if cfg.Index.HighlightPreTag != "" || cfg.Index.HighlightPostTag != "]" {
		t.Errorf("unexpected highlight tags %q %q", cfg.Index.HighlightPreTag, cfg.Index.HighlightPostTag)
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("TEXTDEX_TEST_DIR", "/tmp/textdex-test")
	path := filepath.Join(t.TempDir(), "test.yaml")
	data := []byte(`
http:
  port: ${TEXTDEX_TEST_PORT:-9090}
index:
  dir: ${TEXTDEX_TEST_DIR}
  analyzer: simple
auth:
  api_keys: ["k1"]
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected Port=9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Index.Dir != "/tmp/textdex-test" {
		t.Errorf("expected Dir from env, got %q", cfg.Index.Dir)
	}
	if cfg.Index.Analyzer != "simple" {
		t.Errorf("expected Analyzer=simple, got %q", cfg.Index.Analyzer)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "k1" {
		t.Errorf("unexpected api keys %v", cfg.Auth.APIKeys)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 80\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for config without index dir")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEXTDEX_SET", "value")
	tests := []struct {
		in, want string
	}{
		{"${TEXTDEX_SET}", "value"},
		{"${TEXTDEX_UNSET_VAR}", ""},
		{"${TEXTDEX_UNSET_VAR:-fallback}", "fallback"},
		{"${TEXTDEX_SET:-fallback}", "value"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
