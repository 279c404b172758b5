package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/billing-atlas/pkg/export"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/render/raster"
	"github.com/de-tools/billing-atlas/pkg/services/reports"
	"github.com/de-tools/billing-atlas/pkg/store/postgres"
	"github.com/spf13/viper"
)

const EnvPrefix = "BILLING"

type Settings struct {
	Backend  BackendSettings     `mapstructure:"backend"`
	Renderer raster.ChromeConfig `mapstructure:"renderer"`
	Reports  ReportSettings      `mapstructure:"reports"`
	Output   OutputSettings      `mapstructure:"output"`
	Server   ServerSettings      `mapstructure:"server"`
}

// BackendSettings selects the data backend. A named profile from the
// profiles file wins over the inline url, api key and dsn.
type BackendSettings struct {
	Kind         string            `mapstructure:"kind"`
	Profile      string            `mapstructure:"profile"`
	ProfilesPath string            `mapstructure:"profiles_path"`
	URL          string            `mapstructure:"url"`
	APIKey       string            `mapstructure:"api_key"`
	Postgres     postgres.Settings `mapstructure:"postgres"`
	Timeout      time.Duration     `mapstructure:"timeout"`
}

type ReportSettings struct {
	Tiers    []reports.Tier `mapstructure:"tiers"`
	Optimize bool           `mapstructure:"optimize"`
}

func (r ReportSettings) Policy() reports.BatchPolicy {
	if len(r.Tiers) == 0 {
		return reports.DefaultBatchPolicy()
	}
	return reports.BatchPolicy{Tiers: r.Tiers}
}

type OutputSettings struct {
	Dir string            `mapstructure:"dir"`
	S3  export.S3Settings `mapstructure:"s3"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

var defaults = map[string]any{
	"backend.kind":                       string(domain.BackendKindREST),
	"backend.profile":                    "",
	"backend.profiles_path":              "",
	"backend.url":                        "",
	"backend.api_key":                    "",
	"backend.timeout":                    "30s",
	"backend.postgres.dsn":               "",
	"backend.postgres.max_open_conns":    5,
	"backend.postgres.conn_max_lifetime": "30m",
	"renderer.remote_url":                "",
	"renderer.no_sandbox":                false,
	"renderer.viewport_width":            900,
	"renderer.viewport_height":           1200,
	"renderer.resource_timeout":          "3s",
	"renderer.capture_timeout":           "60s",
	"renderer.max_tabs":                  2,
	"reports.optimize":                   false,
	"output.dir":                         "reports",
	"output.s3.bucket":                   "",
	"output.s3.prefix":                   "",
	"output.s3.region":                   "",
	"output.s3.profile":                  "",
	"server.host":                        "localhost",
	"server.port":                        8080,
}

// LoadSettings reads the YAML file at path when given, then applies
// BILLING_* environment overrides, e.g. BILLING_SERVER_PORT.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := settings.Reports.Policy().Validate(); err != nil {
		return nil, fmt.Errorf("invalid report tiers: %w", err)
	}
	return &settings, nil
}

// ResolveBackend returns the backend profile to connect with.
func (s *Settings) ResolveBackend(ctx context.Context) (*domain.BackendProfile, error) {
	b := s.Backend
	if b.Profile != "" {
		if b.ProfilesPath == "" {
			return nil, errors.New("backend profile set without profiles_path")
		}
		registry, err := NewRegistry(b.ProfilesPath)
		if err != nil {
			return nil, err
		}
		return registry.GetProfile(ctx, b.Profile)
	}

	profile := &domain.BackendProfile{
		Name:   "inline",
		Kind:   domain.BackendKind(strings.ToLower(b.Kind)),
		URL:    b.URL,
		APIKey: b.APIKey,
		DSN:    b.Postgres.DSN,
	}
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
