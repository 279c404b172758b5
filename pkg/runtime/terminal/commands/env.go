package commands

import (
	"context"
	"errors"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/services/reports"
	"github.com/rs/zerolog"
)

type Reporter interface {
	Customers(customers []domain.Customer) error
	Transactions(txs []domain.Transaction) error
	Payments(payments []domain.Payment) error
	Artifact(artifact *domain.Artifact) error
}

// Env is filled in by the root command before any subcommand runs.
type Env struct {
	Controller reports.Controller
	Reporter   Reporter
}

// userError logs err and returns the message meant for the operator.
func userError(ctx context.Context, err error, msg string) error {
	zerolog.Ctx(ctx).Error().Err(err).Msg(msg)
	return errors.New(reports.UserMessage(err))
}
