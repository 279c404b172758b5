package main

import (
	"fmt"
	"os"

	"github.com/de-tools/billing-atlas/pkg/runtime/app"
	"github.com/de-tools/billing-atlas/pkg/server"
	"github.com/de-tools/billing-atlas/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for billing reports",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the YAML settings file (BILLING_* environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	services, err := app.New(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize report services: %w", err)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to release report services")
		}
	}()

	if cfgPath != "" {
		logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	}
	logger.Info().Msgf("Using backend `%s`", services.Backend)

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:         settings.Server.Addr(),
		Dependencies: server.Dependencies{Reports: services.Controller},
	})
	return webAPI.Start()
}
