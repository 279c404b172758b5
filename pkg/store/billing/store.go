package billing

import (
	"context"

	"github.com/de-tools/billing-atlas/pkg/models/store"
)

// Store reads the datasets behind the billing views and reports.
// Implementations return rows already ordered: customers ascending by number,
// sales descending by date, payments descending by payment date.
type Store interface {
	ListCustomers(ctx context.Context) ([]store.Customer, error)
	ListSales(ctx context.Context, filter store.SalesFilter) ([]store.Sale, error)
	ListPayments(ctx context.Context, filter store.PaymentFilter) ([]store.Payment, error)
}
