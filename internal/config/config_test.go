package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Content.Deployment != DeploymentSingle || cfg.Multilingual() {
		t.Errorf("expected single deployment, got %s", cfg.Content.Deployment)
	}
	if cfg.Content.SiteRoot != "site" {
		t.Errorf("unexpected site root %q", cfg.Content.SiteRoot)
	}
	if cfg.Content.FetchTimeout != 10*time.Second {
		t.Errorf("unexpected fetch timeout: %s", cfg.Content.FetchTimeout)
	}
	if cfg.Content.ConverterWait != 100*time.Millisecond {
		t.Errorf("unexpected converter wait: %s", cfg.Content.ConverterWait)
	}
	if cfg.Content.Sanitize {
		t.Error("sanitizing should be opt-in")
	}
	if cfg.Preference.DBPath != "blog.db" {
		t.Errorf("unexpected preference db %q", cfg.Preference.DBPath)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("unexpected log level %q", cfg.Log.Level)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"BLOG_SERVER_PORT":         "9090",
		"BLOG_DEPLOYMENT":          "Multilingual",
		"BLOG_CONTENT_BASE_URL":    "https://example.github.io/blog/",
		"BLOG_FETCH_TIMEOUT":       "3s",
		"BLOG_MARKDOWN_SANITIZE":   "yes",
		"BLOG_CONVERTER_WAIT":      "0s",
		"BLOG_SERVER_IDLE_TIMEOUT": "not-a-duration",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("unexpected port %s", cfg.Server.Port)
	}
	if !cfg.Multilingual() {
		t.Errorf("expected multilingual deployment, got %s", cfg.Content.Deployment)
	}
	if cfg.Content.BaseURL != "https://example.github.io/blog/" {
		t.Errorf("unexpected base url %q", cfg.Content.BaseURL)
	}
	if cfg.Content.FetchTimeout != 3*time.Second {
		t.Errorf("unexpected fetch timeout %s", cfg.Content.FetchTimeout)
	}
	if !cfg.Content.Sanitize {
		t.Error("expected sanitizing enabled")
	}
	if cfg.Content.ConverterWait != 0 {
		t.Errorf("unexpected converter wait %s", cfg.Content.ConverterWait)
	}
	if cfg.Server.IdleTimeout != 120*time.Second {
		t.Errorf("invalid durations should fall back to the default, got %s", cfg.Server.IdleTimeout)
	}
}

func TestLoadValidation(t *testing.T) {
	env := map[string]string{
		"BLOG_SERVER_PORT":      "http",
		"BLOG_DEPLOYMENT":       "trilingual",
		"BLOG_CONTENT_BASE_URL": "ftp://example.com",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"Server.Port", "Content.Deployment", "Content.BaseURL"}
	got := vErr.Fields()
	if len(got) != len(want) {
		t.Fatalf("expected fields %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected fields %v, got %v", want, got)
		}
	}
}

func TestLoadDotEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport BLOG_SERVER_PORT=7070\nBLOG_SITE_ROOT=\"public\"\nBLOG_LOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, err := Load(context.Background(),
		WithEnvFile(path),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{"BLOG_LOG_LEVEL": "warn"}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from .env, got %s", cfg.Server.Port)
	}
	if cfg.Content.SiteRoot != "public" {
		t.Errorf("expected quoted value to be unwrapped, got %q", cfg.Content.SiteRoot)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("explicit map must win over .env, got %q", cfg.Log.Level)
	}
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(context.Background(), WithEnvFile(filepath.Join(t.TempDir(), "missing.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}
