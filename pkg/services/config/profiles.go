package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry reads backend credentials from an INI profiles file:
//
//	[production]
//	kind    = rest
//	url     = https://project.example.co
//	api_key = ...
//
//	[replica]
//	kind = postgres
//	dsn  = postgres://reader@db/billing?sslmode=require
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*domain.BackendProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles file: %w", err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (*domain.BackendProfile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	profile := &domain.BackendProfile{
		Name:   name,
		Kind:   domain.BackendKind(strings.ToLower(section.Key("kind").MustString(string(domain.BackendKindREST)))),
		URL:    section.Key("url").String(),
		APIKey: section.Key("api_key").String(),
		DSN:    section.Key("dsn").String(),
	}
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ValidateProfile checks that a profile carries what its backend kind needs.
func ValidateProfile(p *domain.BackendProfile) error {
	switch p.Kind {
	case domain.BackendKindREST:
		if p.URL == "" {
			return fmt.Errorf("profile %s: rest backend requires url", p)
		}
	case domain.BackendKindPostgres:
		if p.DSN == "" {
			return fmt.Errorf("profile %s: postgres backend requires dsn", p)
		}
	default:
		return fmt.Errorf("profile %s: unknown backend kind %q", p.Name, p.Kind)
	}
	return nil
}
