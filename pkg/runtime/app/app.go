// Package app assembles the report services from settings for the web and
// CLI entry points.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/billing-atlas/pkg/export"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/render/raster"
	"github.com/de-tools/billing-atlas/pkg/services/config"
	"github.com/de-tools/billing-atlas/pkg/services/reports"
	"github.com/de-tools/billing-atlas/pkg/store/billing"
	"github.com/de-tools/billing-atlas/pkg/store/postgres"
	"github.com/de-tools/billing-atlas/pkg/store/postgrest"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
)

type App struct {
	Settings   *config.Settings
	Backend    *domain.BackendProfile
	Controller *reports.DefaultController

	closers []func() error
}

func New(ctx context.Context, settings *config.Settings) (*App, error) {
	logger := zerolog.Ctx(ctx)
	a := &App{Settings: settings}

	backend, err := settings.ResolveBackend(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backend: %w", err)
	}
	a.Backend = backend

	st, err := a.openStore(backend)
	if err != nil {
		return nil, err
	}

	rasterizer := raster.NewLazyChrome(settings.Renderer)
	a.closers = append(a.closers, rasterizer.Close)

	generator, err := reports.NewGenerator(rasterizer,
		reports.WithBatchPolicy(settings.Reports.Policy()),
		reports.WithVerifier(export.NewPDFVerifier(settings.Reports.Optimize)),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	sink, err := openSink(ctx, settings.Output)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Controller = reports.NewController(reports.NewProvider(st), generator, sink)
	logger.Info().Str("backend", backend.String()).Msg("report services ready")
	return a, nil
}

func (a *App) openStore(backend *domain.BackendProfile) (billing.Store, error) {
	switch backend.Kind {
	case domain.BackendKindREST:
		httpClient := cleanhttp.DefaultPooledClient()
		httpClient.Timeout = a.Settings.Backend.Timeout
		client, err := postgrest.NewClient(backend.URL, backend.APIKey, postgrest.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to create rest client: %w", err)
		}
		return postgrest.NewStore(client), nil
	case domain.BackendKindPostgres:
		pgSettings := a.Settings.Backend.Postgres
		pgSettings.DSN = backend.DSN
		db, err := postgres.NewDB(pgSettings)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewStore(db)
	}
	return nil, fmt.Errorf("unsupported backend kind %q", backend.Kind)
}

// openSink prefers S3 when a bucket is configured. No sink at all is valid;
// artifacts are then only handed to the caller.
func openSink(ctx context.Context, output config.OutputSettings) (reports.Sink, error) {
	if output.S3.Bucket != "" {
		return export.NewS3Sink(ctx, output.S3)
	}
	if output.Dir != "" {
		return export.NewFileSink(output.Dir), nil
	}
	return nil, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
