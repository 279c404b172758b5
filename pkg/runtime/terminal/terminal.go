package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/billing-atlas/pkg/runtime/app"
	"github.com/de-tools/billing-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/billing-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/billing-atlas/pkg/services/config"
	"github.com/de-tools/billing-atlas/pkg/services/reports"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	formatText  = "text"
	formatTable = "table"
)

// CLI represents the command-line interface
type CLI struct {
	opts    Options
	env     *commands.Env
	app     *app.App
	rootCmd *cobra.Command

	cfgPath string
	format  string
	verbose bool
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Logs   io.Writer
	// Controller skips building services from settings when set.
	Controller reports.Controller
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}

	cli := &CLI{
		opts: opts,
		env:  &commands.Env{},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

// ExecuteContext runs the command line. Services are released even when the
// command fails, which skips the post-run hook.
func (cli *CLI) ExecuteContext(ctx context.Context) error {
	err := cli.rootCmd.ExecuteContext(ctx)
	if closeErr := cli.teardown(); err == nil {
		err = closeErr
	}
	return err
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "billing",
		Short:             "Customer and transaction reports",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return cli.teardown()
		},
	}
	cmd.SetOut(cli.opts.Output)

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to the YAML settings file")
	cmd.PersistentFlags().StringVar(&cli.format, "format", formatTable, "Output format: table or text")
	cmd.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(commands.NewCustomersCmd(cli.env))
	cmd.AddCommand(commands.NewTransactionsCmd(cli.env))
	cmd.AddCommand(commands.NewPaymentsCmd(cli.env))
	cmd.AddCommand(commands.NewReportCmd(cli.env))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	level := zerolog.InfoLevel
	if cli.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.opts.Logs}).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	switch cli.format {
	case formatTable:
		cli.env.Reporter = export.NewReporter(cli.opts.Output)
	case formatText:
		cli.env.Reporter = NewReporter(cli.opts.Output)
	default:
		return fmt.Errorf("unknown output format %q", cli.format)
	}

	if cli.opts.Controller != nil {
		cli.env.Controller = cli.opts.Controller
		return nil
	}

	settings, err := config.LoadSettings(cli.cfgPath)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, settings)
	if err != nil {
		return err
	}
	cli.app = a
	cli.env.Controller = a.Controller
	return nil
}

func (cli *CLI) teardown() error {
	if cli.app == nil {
		return nil
	}
	err := cli.app.Close()
	cli.app = nil
	return err
}
