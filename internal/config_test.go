package internal

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/starford/folio/internal/content"
	pkgconfig "github.com/starford/folio/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestContentConfig_Defaults(t *testing.T) {
	cfg := ContentConfig{Root: "./docs"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.DefaultLocale != "en" {
		t.Errorf("default locale = %q", cfg.DefaultLocale)
	}
	if cfg.SlugCandidates() != nil {
		t.Error("no default slugs should yield nil candidates")
	}
}

func TestContentConfig_RequiresRoot(t *testing.T) {
	cfg := ContentConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty root should fail")
	}
}

func TestContentConfig_Versions(t *testing.T) {
	tests := []struct {
		name     string
		versions content.Catalog
		wantErr  string
	}{
		{"ok", content.Catalog{{Path: "v1"}, {Path: "v2", Latest: true}}, ""},
		{"empty path", content.Catalog{{Label: "x"}}, "versions[0]"},
		{"nested path", content.Catalog{{Path: "v1/en"}}, "single directory"},
		{"duplicate", content.Catalog{{Path: "v1"}, {Path: "v1"}}, "duplicate"},
		{"two latest", content.Catalog{{Path: "v1", Latest: true}, {Path: "v2", Latest: true}}, "at most one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ContentConfig{Root: "./docs", Versions: tt.versions}
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg.Versions[0].Label != "v1" {
					t.Errorf("label should default to path, got %q", cfg.Versions[0].Label)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestContentConfig_SlugCandidates(t *testing.T) {
	cfg := ContentConfig{DefaultSlugs: []string{"getting-started", "/introduction/protocol-overview/", ""}}
	got := cfg.SlugCandidates()
	if len(got) != 2 || strings.Join(got[1], "/") != "introduction/protocol-overview" {
		t.Errorf("candidates = %v", got)
	}
}

func TestContentConfig_AnchorsDefaultUnfolded(t *testing.T) {
	if got := (ContentConfig{}).Anchors()("Café"); got != "caf" {
		t.Errorf("anchor = %q, want caf", got)
	}
}

func TestMetricsConfig_Path(t *testing.T) {
	cfg := MetricsConfig{Enabled: true}
	if err := cfg.Validate(); err != nil || cfg.Path != "/metrics" {
		t.Fatalf("default path: %v, %q", err, cfg.Path)
	}
	for _, bad := range []string{"metrics", "/api/metrics"} {
		cfg := MetricsConfig{Path: bad}
		if err := cfg.Validate(); err == nil {
			t.Errorf("path %q should fail", bad)
		}
	}
}

func TestConfig_DecodeYAML(t *testing.T) {
	t.Setenv("FOLIO_TOKEN", "s3cret")
	yaml := `
app:
  log_level: debug
  http:
    port: 9090
content:
  root: ./site/docs
  default_slugs: [getting-started]
  resync_interval: 5m
  fold_anchors: true
  versions:
    - path: v1
      label: v1 (legacy)
    - path: v2
      latest: true
auth:
  mode: token
  token: ${FOLIO_TOKEN}
metrics:
  enabled: true
`
	cfg := NewDefaultConfig()
	if err := pkgconfig.Decode([]byte(yaml), cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug || cfg.App.HTTP.Port != 9090 {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Content.ResyncInterval != 5*time.Minute || cfg.Content.DefaultLocale != "en" {
		t.Errorf("content = %+v", cfg.Content)
	}
	if got := cfg.Content.Anchors()("Café"); got != "cafe" {
		t.Errorf("folded anchor = %q", got)
	}
	if v, _ := cfg.Content.Versions.Default(); v.Path != "v2" || v.Label != "v2" {
		t.Errorf("default version = %+v", v)
	}
	if !cfg.Auth.AuthEnabled() || cfg.Auth.Token != "s3cret" {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.SQLite.Path != "./folio.db" || cfg.Metrics.Path != "/metrics" {
		t.Errorf("defaults lost: sqlite=%q metrics=%q", cfg.SQLite.Path, cfg.Metrics.Path)
	}
}
