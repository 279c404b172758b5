package commands

import (
	"context"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultPanel = "cli"

type ReportCmd struct {
	env      *Env
	panel    string
	customer string
	timeout  time.Duration
}

func NewReportCmd(env *Env) *cobra.Command {
	rc := &ReportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate PDF reports",
	}
	cmd.PersistentFlags().StringVar(&rc.panel, "panel", defaultPanel, "Report panel name")
	cmd.PersistentFlags().DurationVar(&rc.timeout, "timeout", 10*time.Minute, "Maximum time for one report")

	transactions := &cobra.Command{
		Use:   "transactions",
		Short: "Generate the customer transactions report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rc.runOne(cmd, domain.ReportKindCustomerTransactions, rc.customer)
		},
	}
	transactions.Flags().StringVar(&rc.customer, "customer", "", "Customer number (default all customers)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "customers",
			Short: "Generate the customer list report",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return rc.runOne(cmd, domain.ReportKindCustomerList, "")
			},
		},
		transactions,
		&cobra.Command{
			Use:   "all",
			Short: "Generate every report concurrently",
			Args:  cobra.NoArgs,
			RunE:  rc.runAll,
		},
	)
	return cmd
}

func (rc *ReportCmd) runOne(cmd *cobra.Command, kind domain.ReportKind, scope string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rc.timeout)
	defer cancel()

	artifact, err := rc.generate(ctx, kind, rc.panel, scope)
	if err != nil {
		return userError(ctx, err, "failed to generate report")
	}
	return rc.env.Reporter.Artifact(artifact)
}

// runAll renders both reports side by side, each in its own panel.
func (rc *ReportCmd) runAll(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rc.timeout)
	defer cancel()

	kinds := []domain.ReportKind{domain.ReportKindCustomerList, domain.ReportKindCustomerTransactions}
	artifacts := make([]*domain.Artifact, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			artifact, err := rc.generate(gctx, kind, rc.panel+"-"+string(kind), "")
			if err != nil {
				return err
			}
			artifacts[i] = artifact
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return userError(ctx, err, "failed to generate reports")
	}

	for _, artifact := range artifacts {
		if err := rc.env.Reporter.Artifact(artifact); err != nil {
			return err
		}
	}
	return nil
}

func (rc *ReportCmd) generate(ctx context.Context, kind domain.ReportKind, panel, scope string) (*domain.Artifact, error) {
	logger := zerolog.Ctx(ctx).With().Str("report", string(kind)).Str("panel", panel).Logger()
	ctx = logger.WithContext(ctx)

	status, err := rc.env.Controller.Load(ctx, kind, panel, scope)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("records", status.Records).Msg("report data loaded")

	return rc.env.Controller.Generate(ctx, kind, panel)
}
