package commands

import (
	"github.com/spf13/cobra"
)

type TransactionsCmd struct {
	env      *Env
	customer string
}

func NewTransactionsCmd(env *Env) *cobra.Command {
	tc := &TransactionsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List sales transactions, newest first",
		Args:  cobra.NoArgs,
		RunE:  tc.run,
	}
	cmd.Flags().StringVar(&tc.customer, "customer", "", "Customer number (default all customers)")
	return cmd
}

func (tc *TransactionsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	txs, err := tc.env.Controller.Transactions(ctx, tc.customer)
	if err != nil {
		return userError(ctx, err, "failed to list transactions")
	}
	return tc.env.Reporter.Transactions(txs)
}
