package commands

import (
	"github.com/spf13/cobra"
)

type CustomersCmd struct {
	env *Env
}

func NewCustomersCmd(env *Env) *cobra.Command {
	cc := &CustomersCmd{env: env}
	return &cobra.Command{
		Use:   "customers",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE:  cc.run,
	}
}

func (cc *CustomersCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	customers, err := cc.env.Controller.Customers(ctx)
	if err != nil {
		return userError(ctx, err, "failed to list customers")
	}
	return cc.env.Reporter.Customers(customers)
}
