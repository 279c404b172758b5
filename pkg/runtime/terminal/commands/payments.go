package commands

import (
	"github.com/spf13/cobra"
)

type PaymentsCmd struct {
	env      *Env
	customer string
	limit    int
}

func NewPaymentsCmd(env *Env) *cobra.Command {
	pc := &PaymentsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List payments, newest first",
		Args:  cobra.NoArgs,
		RunE:  pc.run,
	}
	cmd.Flags().StringVar(&pc.customer, "customer", "", "Customer number (default all customers)")
	cmd.Flags().IntVar(&pc.limit, "limit", 0, "Show only the most recent payments (0 for all)")
	return cmd
}

func (pc *PaymentsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	payments, err := pc.env.Controller.Payments(ctx, pc.customer, pc.limit)
	if err != nil {
		return userError(ctx, err, "failed to list payments")
	}
	return pc.env.Reporter.Payments(payments)
}
