package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"tootaction/internal/model"
	"tootaction/internal/util"
)

// ErrMissingCredentials is returned by Validate when the instance URL or token is empty.
var ErrMissingCredentials = errors.New("need to provide MASTODON_URL and MASTODON_ACCESS_TOKEN")

// Overflow policies for messages longer than Post.MaxChars.
const (
	OverflowTruncate = "truncate"
	OverflowReject   = "reject"
)

// Config is the run configuration. It is built once in main and passed by
// pointer to the publisher.
type Config struct {
	Instance InstanceConfig `yaml:"-"`
	Client   ClientConfig   `yaml:"client"`
	Post     PostConfig     `yaml:"post"`
}

// InstanceConfig holds the credentials. They only ever come from the environment.
type InstanceConfig struct {
	URL         string `env:"MASTODON_URL"`
	AccessToken string `env:"MASTODON_ACCESS_TOKEN"`
}

type ClientConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"TOOT_TIMEOUT"`
	UserAgent string        `yaml:"userAgent" env:"TOOT_USER_AGENT"`
	// Probe the instance version at login and refuse unrecognized servers.
	StrictVersionCheck bool `yaml:"strictVersionCheck" env:"TOOT_STRICT_VERSION_CHECK"`
}

type PostConfig struct {
	MaxChars          int    `yaml:"maxChars" env:"TOOT_MAX_CHARS"`
	Overflow          string `yaml:"overflow" env:"TOOT_OVERFLOW"` // truncate|reject
	Ellipsis          string `yaml:"ellipsis" env:"TOOT_ELLIPSIS"`
	DefaultVisibility string `yaml:"defaultVisibility" env:"TOOT_DEFAULT_VISIBILITY"`
}

// Default returns the configuration used when no settings file is given.
func Default() Config {
	return Config{
		Client: ClientConfig{Timeout: 30 * time.Second, UserAgent: "tootaction"},
		Post: PostConfig{
			MaxChars:          500,
			Overflow:          OverflowTruncate,
			Ellipsis:          util.Ellipsis,
			DefaultVisibility: string(model.VisibilityPublic),
		},
	}
}

// ResolveEnv overlays environment variables on top of c. Unset variables keep
// the current value.
func (c *Config) ResolveEnv() error {
	if err := env.Parse(&c.Instance); err != nil {
		return err
	}
	if err := env.Parse(&c.Client); err != nil {
		return err
	}
	return env.Parse(&c.Post)
}

// Validate checks the credentials and the post settings.
func (c *Config) Validate() error {
	if c.Instance.URL == "" || c.Instance.AccessToken == "" {
		return ErrMissingCredentials
	}
	if u, err := url.Parse(c.Instance.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("MASTODON_URL must be an http(s) URL with a host, got %q", c.Instance.URL)
	}
	switch c.Post.Overflow {
	case OverflowTruncate, OverflowReject:
	default:
		return fmt.Errorf("post overflow must be %q or %q, got %q", OverflowTruncate, OverflowReject, c.Post.Overflow)
	}
	if c.Post.DefaultVisibility != "" {
		if _, err := model.ParseVisibility(c.Post.DefaultVisibility); err != nil {
			return fmt.Errorf("default visibility: %w", err)
		}
	}
	return nil
}

// Load reads the YAML settings file at path on top of Default and then applies
// the environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ResolveEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
