package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/store"
	"github.com/de-tools/billing-atlas/pkg/store/billing"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const customersQuery = `
	SELECT custno, custname, address, payterm
	FROM customer
	ORDER BY custno ASC`

const salesQuery = `
	SELECT s.transno, s.salesdate, s.custno, c.custname, s.empno, e.firstname, e.lastname
	FROM sales s
	LEFT JOIN customer c ON c.custno = s.custno
	LEFT JOIN employee e ON e.empno = s.empno
	WHERE ($1 = '' OR s.custno = $1)
	ORDER BY s.salesdate DESC NULLS LAST, s.transno ASC
	LIMIT NULLIF($2, 0)`

const detailsQuery = `
	SELECT d.transno, d.prodcode, d.quantity, p.description, p.unit
	FROM salesdetail d
	LEFT JOIN product p ON p.prodcode = d.prodcode
	WHERE d.transno = ANY($1)
	ORDER BY d.transno, d.prodcode`

const paymentsQuery = `
	SELECT p.orno, p.transno, p.paydate, p.amount, s.custno, c.custname
	FROM payment p
	LEFT JOIN sales s ON s.transno = p.transno
	LEFT JOIN customer c ON c.custno = s.custno
	WHERE ($1 = '' OR s.custno = $1)
	ORDER BY p.paydate DESC NULLS LAST, p.orno ASC
	LIMIT NULLIF($2, 0)`

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (billing.Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &sqlStore{db: db}, nil
}

func (s *sqlStore) ListCustomers(ctx context.Context) ([]store.Customer, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, customersQuery)
	if err != nil {
		return nil, fmt.Errorf("customer query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close customer rows")
		}
	}(rows)

	var customers []store.Customer
	for rows.Next() {
		var (
			c                      store.Customer
			name, address, payTerm sql.NullString
		)
		if err := rows.Scan(&c.CustNo, &name, &address, &payTerm); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.CustName = nullable(name)
		c.Address = nullable(address)
		c.PayTerm = nullable(payTerm)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customer rows: %w", err)
	}
	return customers, nil
}

func (s *sqlStore) ListSales(ctx context.Context, filter store.SalesFilter) ([]store.Sale, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, salesQuery, filter.CustNo, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("sales query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close sales rows")
		}
	}(rows)

	var (
		sales    []store.Sale
		transNos []string
	)
	for rows.Next() {
		var (
			sale                         store.Sale
			date                         sql.NullTime
			custName, empNo, first, last sql.NullString
		)
		if err := rows.Scan(&sale.TransNo, &date, &sale.CustNo, &custName, &empNo, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		if date.Valid {
			v := date.Time.Format(time.RFC3339)
			sale.SalesDate = &v
		}
		sale.Customer = &store.CustomerRef{CustName: nullable(custName)}
		sale.EmpNo = nullable(empNo)
		if empNo.Valid {
			sale.Employee = &store.Employee{FirstName: nullable(first), LastName: nullable(last)}
		}
		sales = append(sales, sale)
		transNos = append(transNos, sale.TransNo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales rows: %w", err)
	}

	if len(sales) == 0 {
		return sales, nil
	}

	details, err := s.listDetails(ctx, transNos)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Details = details[sales[i].TransNo]
	}
	return sales, nil
}

func (s *sqlStore) listDetails(ctx context.Context, transNos []string) (map[string][]store.SaleDetail, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, detailsQuery, pq.Array(transNos))
	if err != nil {
		return nil, fmt.Errorf("salesdetail query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close salesdetail rows")
		}
	}(rows)

	details := make(map[string][]store.SaleDetail, len(transNos))
	for rows.Next() {
		var (
			transNo           string
			d                 store.SaleDetail
			description, unit sql.NullString
		)
		if err := rows.Scan(&transNo, &d.ProdCode, &d.Quantity, &description, &unit); err != nil {
			return nil, fmt.Errorf("failed to scan salesdetail: %w", err)
		}
		if description.Valid || unit.Valid {
			d.Product = &store.Product{Description: nullable(description), Unit: nullable(unit)}
		}
		details[transNo] = append(details[transNo], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("salesdetail rows: %w", err)
	}
	return details, nil
}

func (s *sqlStore) ListPayments(ctx context.Context, filter store.PaymentFilter) ([]store.Payment, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, paymentsQuery, filter.CustNo, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("payment query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close payment rows")
		}
	}(rows)

	var payments []store.Payment
	for rows.Next() {
		var (
			p                 store.Payment
			transNo, custName sql.NullString
			custNo            sql.NullString
			date              sql.NullTime
			amount            sql.NullFloat64
		)
		if err := rows.Scan(&p.OrNo, &transNo, &date, &amount, &custNo, &custName); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.TransNo = nullable(transNo)
		if date.Valid {
			v := date.Time.Format(time.RFC3339)
			p.PayDate = &v
		}
		if amount.Valid {
			v := amount.Float64
			p.Amount = &v
		}
		if custNo.Valid {
			p.Sale = &store.PaymentSale{
				CustNo:   custNo.String,
				Customer: &store.CustomerRef{CustName: nullable(custName)},
			}
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payment rows: %w", err)
	}
	return payments, nil
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
