package postgrest

import (
	"context"

	"github.com/de-tools/billing-atlas/pkg/models/store"
	"github.com/de-tools/billing-atlas/pkg/store/billing"
)

const salesColumns = `transno,salesdate,custno,customer:customer(custname),empno,` +
	`employee:employee(firstname,lastname),` +
	`salesdetails:salesdetail(quantity,prodcode,product:product(description,unit))`

const (
	paymentColumns       = `*,sales(custno,customer:customer(custname))`
	scopedPaymentColumns = `*,sales!inner(custno,customer:customer(custname))`
)

type restStore struct {
	client *Client
}

func NewStore(client *Client) billing.Store {
	return &restStore{client: client}
}

func (s *restStore) ListCustomers(ctx context.Context) ([]store.Customer, error) {
	var rows []store.Customer
	q := From("customer").Select("*").Order("custno", true)
	if err := s.client.Execute(ctx, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *restStore) ListSales(ctx context.Context, filter store.SalesFilter) ([]store.Sale, error) {
	var rows []store.Sale
	q := From("sales").Select(salesColumns).Order("salesdate", false)
	if filter.CustNo != "" {
		q.Eq("custno", filter.CustNo)
	}
	if filter.Limit > 0 {
		q.Limit(filter.Limit)
	}
	if err := s.client.Execute(ctx, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPayments filters on the embedded sale, which needs an inner join so that
// payments of other customers are dropped instead of returned without a sale.
func (s *restStore) ListPayments(ctx context.Context, filter store.PaymentFilter) ([]store.Payment, error) {
	var rows []store.Payment
	columns := paymentColumns
	if filter.CustNo != "" {
		columns = scopedPaymentColumns
	}
	q := From("payment").Select(columns).Order("paydate", false)
	if filter.CustNo != "" {
		q.Eq("sales.custno", filter.CustNo)
	}
	if filter.Limit > 0 {
		q.Limit(filter.Limit)
	}
	if err := s.client.Execute(ctx, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
