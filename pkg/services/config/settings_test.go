package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	// When
	settings, err := LoadSettings("")

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if settings.Server.Addr() != "localhost:8080" {
		t.Errorf("expected localhost:8080, got %s", settings.Server.Addr())
	}
	if settings.Renderer.ResourceTimeout != 3*time.Second {
		t.Errorf("expected 3s resource timeout, got %s", settings.Renderer.ResourceTimeout)
	}
	if settings.Renderer.MaxTabs != 2 {
		t.Errorf("expected 2 tabs, got %d", settings.Renderer.MaxTabs)
	}
	if got := settings.Reports.Policy().Select(55).BatchSize; got != 5 {
		t.Errorf("expected default tiers, got batch size %d", got)
	}
	if settings.Output.Dir != "reports" {
		t.Errorf("expected reports output dir, got %s", settings.Output.Dir)
	}
}

func TestLoadSettings_ValidYAML_PopulatesAllSections(t *testing.T) {
	// Given
	path := writeFile(t, "billing.yaml", `backend:
  kind: postgres
  postgres:
    dsn: "postgres://reader@db/billing"
    max_open_conns: 3
renderer:
  remote_url: "ws://chrome:9222"
  resource_timeout: 5s
reports:
  optimize: true
  tiers:
    - above: 100
      batch_size: 4
      scale: 1.25
    - above: 0
      batch_size: 25
      scale: 2
output:
  dir: /var/reports
  s3:
    bucket: billing-reports
    prefix: exports
server:
  port: 9090`)

	// When
	settings, err := LoadSettings(path)

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if settings.Backend.Postgres.MaxOpenConns != 3 {
		t.Errorf("expected 3 connections, got %d", settings.Backend.Postgres.MaxOpenConns)
	}
	if settings.Renderer.RemoteURL != "ws://chrome:9222" {
		t.Errorf("unexpected remote url %s", settings.Renderer.RemoteURL)
	}
	if settings.Renderer.ResourceTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", settings.Renderer.ResourceTimeout)
	}
	if !settings.Reports.Optimize {
		t.Error("expected optimize to be enabled")
	}
	if got := settings.Reports.Policy().Select(101).BatchSize; got != 4 {
		t.Errorf("expected batch size 4, got %d", got)
	}
	if got := settings.Reports.Policy().Select(10).BatchSize; got != 25 {
		t.Errorf("expected batch size 25, got %d", got)
	}
	if settings.Output.S3.Bucket != "billing-reports" || settings.Output.S3.Prefix != "exports" {
		t.Errorf("unexpected s3 settings %+v", settings.Output.S3)
	}
	if settings.Server.Addr() != "localhost:9090" {
		t.Errorf("expected localhost:9090, got %s", settings.Server.Addr())
	}

	profile, err := settings.ResolveBackend(context.Background())
	if err != nil {
		t.Fatalf("expected backend, got %v", err)
	}
	if profile.Kind != domain.BackendKindPostgres || profile.DSN != "postgres://reader@db/billing" {
		t.Errorf("unexpected profile %+v", profile)
	}
}

func TestLoadSettings_EnvironmentOverrides(t *testing.T) {
	// Given
	t.Setenv("BILLING_SERVER_PORT", "7070")
	t.Setenv("BILLING_BACKEND_URL", "https://project.example.co")

	// When
	settings, err := LoadSettings("")

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if settings.Server.Port != 7070 {
		t.Errorf("expected port 7070, got %d", settings.Server.Port)
	}
	if settings.Backend.URL != "https://project.example.co" {
		t.Errorf("unexpected backend url %s", settings.Backend.URL)
	}
}

func TestLoadSettings_InvalidTiers_ReturnsError(t *testing.T) {
	// Given
	path := writeFile(t, "bad.yaml", `reports:
  tiers:
    - above: 0
      batch_size: 0
      scale: 1`)

	// When
	_, err := LoadSettings(path)

	// Then
	if err == nil {
		t.Error("expected error for zero batch size, got nil")
	}
}

func TestLoadSettings_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestResolveBackend_InlineRESTRequiresURL(t *testing.T) {
	settings := &Settings{Backend: BackendSettings{Kind: "rest"}}

	if _, err := settings.ResolveBackend(context.Background()); err == nil {
		t.Error("expected error without url, got nil")
	}
}
