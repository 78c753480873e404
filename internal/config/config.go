package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile       = ".env"
	defaultPort          = "8080"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultSiteRoot      = "site"
	defaultFetchTimeout  = 10 * time.Second
	defaultConverterWait = 100 * time.Millisecond
	defaultPreferenceDB  = "blog.db"
	defaultLogLevel      = "info"
)

// Deployment selects the site variant.
type Deployment string

const (
	// DeploymentSingle serves one language with path navigation (/posts/{id}.html).
	DeploymentSingle Deployment = "single"
	// DeploymentMultilingual serves en/ru with fragment navigation (#{id}).
	DeploymentMultilingual Deployment = "multilingual"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	Content    ContentConfig
	Preference PreferenceConfig
	Log        LogConfig
	Dev        bool
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ContentConfig says where posts come from and how they are rendered.
type ContentConfig struct {
	Deployment Deployment
	// SiteRoot is the directory holding posts/ when BaseURL is empty.
	SiteRoot string
	// BaseURL is a remote static origin serving posts/.
	BaseURL       string
	CatalogFile   string
	FetchTimeout  time.Duration
	Sanitize      bool
	ConverterWait time.Duration
}

// PreferenceConfig locates the CLI preference database.
type PreferenceConfig struct {
	DBPath string
}

// LogConfig controls logging.
type LogConfig struct {
	Level string
}

// Multilingual reports whether the two-language variant is configured.
func (c Config) Multilingual() bool {
	return c.Content.Deployment == DeploymentMultilingual
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Server.Port
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values; they take precedence over the system environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores os.Environ, mostly for tests.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration with precedence defaults < .env < OS env < explicit map.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "BLOG_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "BLOG_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "BLOG_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "BLOG_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Content: ContentConfig{
			Deployment:    Deployment(strings.ToLower(stringWithDefault(lookup, "BLOG_DEPLOYMENT", string(DeploymentSingle)))),
			SiteRoot:      stringWithDefault(lookup, "BLOG_SITE_ROOT", defaultSiteRoot),
			BaseURL:       strings.TrimSpace(stringWithDefault(lookup, "BLOG_CONTENT_BASE_URL", "")),
			CatalogFile:   stringWithDefault(lookup, "BLOG_CATALOG_FILE", ""),
			FetchTimeout:  durationWithDefault(lookup, "BLOG_FETCH_TIMEOUT", defaultFetchTimeout),
			Sanitize:      boolWithDefault(lookup, "BLOG_MARKDOWN_SANITIZE", false),
			ConverterWait: durationWithDefault(lookup, "BLOG_CONVERTER_WAIT", defaultConverterWait),
		},
		Preference: PreferenceConfig{
			DBPath: stringWithDefault(lookup, "BLOG_PREFERENCE_DB", defaultPreferenceDB),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, "BLOG_LOG_LEVEL", defaultLogLevel),
		},
		Dev: boolWithDefault(lookup, "BLOG_DEV", false),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, "Server.Port")
	}
	switch cfg.Content.Deployment {
	case DeploymentSingle, DeploymentMultilingual:
	default:
		invalid = append(invalid, "Content.Deployment")
	}
	if cfg.Content.BaseURL != "" {
		u, err := url.Parse(cfg.Content.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			invalid = append(invalid, "Content.BaseURL")
		}
	} else if strings.TrimSpace(cfg.Content.SiteRoot) == "" {
		invalid = append(invalid, "Content.SiteRoot")
	}
	if cfg.Content.FetchTimeout <= 0 {
		invalid = append(invalid, "Content.FetchTimeout")
	}
	if cfg.Content.ConverterWait < 0 {
		invalid = append(invalid, "Content.ConverterWait")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
