package reports

import (
	"context"
	"slices"
	"strings"

	"github.com/de-tools/billing-atlas/pkg/adapters"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/models/store"
	"github.com/de-tools/billing-atlas/pkg/store/billing"
	"github.com/rs/zerolog"
)

const (
	opFetchCustomers    = "customers"
	opFetchTransactions = "transactions"
	opFetchPayments     = "payments"
)

// DataProvider supplies the two report datasets and the payment history
// shown next to them.
type DataProvider interface {
	FetchCustomerList(ctx context.Context) ([]domain.Customer, error)
	FetchTransactions(ctx context.Context, customerID string) ([]domain.Transaction, error)
	FetchPayments(ctx context.Context, customerID string, limit int) ([]domain.Payment, error)
}

type provider struct {
	store billing.Store
}

func NewProvider(store billing.Store) DataProvider {
	return &provider{store: store}
}

// FetchCustomerList returns every customer ascending by customer number.
func (p *provider) FetchCustomerList(ctx context.Context) ([]domain.Customer, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := p.store.ListCustomers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch customer list")
		return nil, &DataFetchError{Op: opFetchCustomers, Err: err}
	}

	customers := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.CustNo) == "" {
			return nil, &DataFetchError{Op: opFetchCustomers, Err: errMalformed("customer without number")}
		}
		customers = append(customers, adapters.MapStoreCustomerToDomain(row))
	}
	slices.SortStableFunc(customers, func(a, b domain.Customer) int {
		return strings.Compare(a.CustNo, b.CustNo)
	})
	return customers, nil
}

// FetchTransactions returns the transactions of customerID, or of every
// customer when it is empty, newest first. A malformed row fails the whole
// fetch so a report is never built from partial data.
func (p *provider) FetchTransactions(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	logger := zerolog.Ctx(ctx)
	customerID = strings.TrimSpace(customerID)

	rows, err := p.store.ListSales(ctx, store.SalesFilter{CustNo: customerID})
	if err != nil {
		logger.Error().Err(err).Str("customer", customerID).Msg("failed to fetch transactions")
		return nil, &DataFetchError{Op: opFetchTransactions, Err: err}
	}

	txs := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := adapters.MapStoreSaleToDomain(row)
		if err != nil {
			return nil, &DataFetchError{Op: opFetchTransactions, Err: errMalformed(err.Error())}
		}
		if customerID != "" && tx.CustNo != customerID {
			return nil, &DataFetchError{
				Op:  opFetchTransactions,
				Err: errMalformed("transaction " + tx.TransNo + " belongs to " + tx.CustNo),
			}
		}
		txs = append(txs, tx)
	}
	slices.SortStableFunc(txs, compareTransactions)
	return txs, nil
}

// FetchPayments returns the payments of customerID, or of every customer when
// it is empty, newest first. A positive limit keeps only the most recent ones.
func (p *provider) FetchPayments(ctx context.Context, customerID string, limit int) ([]domain.Payment, error) {
	logger := zerolog.Ctx(ctx)
	customerID = strings.TrimSpace(customerID)
	if limit < 0 {
		limit = 0
	}

	rows, err := p.store.ListPayments(ctx, store.PaymentFilter{CustNo: customerID, Limit: limit})
	if err != nil {
		logger.Error().Err(err).Str("customer", customerID).Msg("failed to fetch payments")
		return nil, &DataFetchError{Op: opFetchPayments, Err: err}
	}

	payments := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		payment, err := adapters.MapStorePaymentToDomain(row)
		if err != nil {
			return nil, &DataFetchError{Op: opFetchPayments, Err: errMalformed(err.Error())}
		}
		payments = append(payments, payment)
	}
	slices.SortStableFunc(payments, comparePayments)
	if limit > 0 && len(payments) > limit {
		payments = payments[:limit]
	}
	return payments, nil
}

func comparePayments(a, b domain.Payment) int {
	switch {
	case a.PayDate == nil && b.PayDate == nil:
	case a.PayDate == nil:
		return 1
	case b.PayDate == nil:
		return -1
	default:
		if c := b.PayDate.Compare(*a.PayDate); c != 0 {
			return c
		}
	}
	return strings.Compare(a.OrNo, b.OrNo)
}

// compareTransactions orders by date descending, undated last, then by
// transaction number.
func compareTransactions(a, b domain.Transaction) int {
	switch {
	case a.SalesDate == nil && b.SalesDate == nil:
	case a.SalesDate == nil:
		return 1
	case b.SalesDate == nil:
		return -1
	default:
		if c := b.SalesDate.Compare(*a.SalesDate); c != 0 {
			return c
		}
	}
	return strings.Compare(a.TransNo, b.TransNo)
}

type malformedError string

func (e malformedError) Error() string {
	return "malformed data: " + string(e)
}

func errMalformed(msg string) error {
	return malformedError(msg)
}
