package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/content"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig describes the docs tree and how requests map onto it.
type ContentConfig struct {
	// Root holds one directory per version, each with one directory per locale.
	Root          string `yaml:"root"`
	DefaultLocale string `yaml:"default_locale"`
	// DefaultSlugs are tried in order when a request names no page,
	// written as slash-separated paths.
	DefaultSlugs []string        `yaml:"default_slugs"`
	Versions     content.Catalog `yaml:"versions"`
	// ResyncInterval enables a periodic full index resync; zero disables it.
	ResyncInterval time.Duration `yaml:"resync_interval"`
	Watch          bool          `yaml:"watch"`
	// FoldAnchors folds accented letters in heading ids ("Café" gives
	// "cafe" instead of "caf").
	FoldAnchors bool `yaml:"fold_anchors"`
}

// Anchors returns the heading id derivation selected by FoldAnchors.
func (c ContentConfig) Anchors() content.AnchorFunc {
	if c.FoldAnchors {
		return content.FoldedAnchorID
	}
	return content.AnchorID
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	if c.DefaultLocale == "" {
		c.DefaultLocale = content.FallbackLocale
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.ResyncInterval, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}

	seen := map[string]bool{}
	latest := 0
	for i, v := range c.Versions {
		if err := validation.ValidateStruct(&c.Versions[i],
			validation.Field(&c.Versions[i].Path, validation.Required),
		); err != nil {
			return fmt.Errorf("content: versions[%d]: %w", i, err)
		}
		if strings.Contains(v.Path, "/") {
			return fmt.Errorf("content: versions[%d]: path %q must be a single directory name", i, v.Path)
		}
		if seen[v.Path] {
			return fmt.Errorf("content: duplicate version %q", v.Path)
		}
		seen[v.Path] = true
		if v.Label == "" {
			c.Versions[i].Label = v.Path
		}
		if v.Latest {
			latest++
		}
	}
	if latest > 1 {
		return errors.New("content: at most one version may be marked latest")
	}
	return nil
}

// SlugCandidates returns DefaultSlugs split into segments, or nil when none
// are configured.
func (c *ContentConfig) SlugCandidates() [][]string {
	if len(c.DefaultSlugs) == 0 {
		return nil
	}
	out := make([][]string, 0, len(c.DefaultSlugs))
	for _, s := range c.DefaultSlugs {
		var segs []string
		for _, p := range strings.Split(s, "/") {
			if p != "" {
				segs = append(segs, p)
			}
		}
		if len(segs) > 0 {
			out = append(out, segs)
		}
	}
	return out
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the metrics configuration.
func (c *MetricsConfig) Validate() error {
	if c.Path == "" {
		c.Path = "/metrics"
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.By(func(any) error {
			if !strings.HasPrefix(c.Path, "/") || strings.HasPrefix(c.Path, "/api") {
				return errors.New("must start with / and not live under /api")
			}
			return nil
		})),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Root:          "./content",
			DefaultLocale: content.FallbackLocale,
			Watch:         true,
		},
		SQLite: SQLiteConfig{
			Path: "./folio.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}
