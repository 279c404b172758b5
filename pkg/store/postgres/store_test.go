package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/billing-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	mock  sqlmock.Sqlmock
	store *sqlStore
}

func setupFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return &fixture{mock: mock, store: s.(*sqlStore)}
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(nil)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestStore_ListCustomers(t *testing.T) {
	f := setupFixture(t)

	// Given
	rows := sqlmock.NewRows([]string{"custno", "custname", "address", "payterm"}).
		AddRow("C0001", "Acme", nil, "30D").
		AddRow("C0002", nil, "Main St", nil)
	f.mock.ExpectQuery(regexp.QuoteMeta(customersQuery)).WillReturnRows(rows)

	// When
	customers, err := f.store.ListCustomers(context.Background())

	// Then
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "C0001", customers[0].CustNo)
	assert.Equal(t, "Acme", *customers[0].CustName)
	assert.Nil(t, customers[0].Address)
	assert.Nil(t, customers[1].CustName)
	assert.Nil(t, customers[1].PayTerm)
}

func TestStore_ListCustomers_QueryError(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectQuery(regexp.QuoteMeta(customersQuery)).WillReturnError(errors.New("connection refused"))

	_, err := f.store.ListCustomers(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStore_ListSales(t *testing.T) {
	f := setupFixture(t)

	// Given
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	sales := sqlmock.NewRows([]string{"transno", "salesdate", "custno", "custname", "empno", "firstname", "lastname"}).
		AddRow("TR2", day, "C0001", "Acme", "E1", "Ana", "Reyes").
		AddRow("TR1", nil, "C0001", "Acme", nil, nil, nil)
	f.mock.ExpectQuery(regexp.QuoteMeta(salesQuery)).
		WithArgs("C0001", 0).
		WillReturnRows(sales)

	details := sqlmock.NewRows([]string{"transno", "prodcode", "quantity", "description", "unit"}).
		AddRow("TR2", "P1", 2, "Bolt", "pc").
		AddRow("TR2", "P2", 1, nil, nil)
	f.mock.ExpectQuery(regexp.QuoteMeta(detailsQuery)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(details)

	// When
	got, err := f.store.ListSales(context.Background(), store.SalesFilter{CustNo: "C0001"})

	// Then
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "TR2", got[0].TransNo)
	require.NotNil(t, got[0].SalesDate)
	assert.Equal(t, "2024-02-01T00:00:00Z", *got[0].SalesDate)
	require.NotNil(t, got[0].Employee)
	assert.Equal(t, "Ana", *got[0].Employee.FirstName)
	require.Len(t, got[0].Details, 2)
	assert.Equal(t, "Bolt", *got[0].Details[0].Product.Description)
	assert.Nil(t, got[0].Details[1].Product)

	assert.Nil(t, got[1].SalesDate)
	assert.Nil(t, got[1].Employee)
	assert.Empty(t, got[1].Details)
}

func TestStore_ListSales_NoRowsSkipsDetails(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectQuery(regexp.QuoteMeta(salesQuery)).
		WithArgs("", 10).
		WillReturnRows(sqlmock.NewRows([]string{"transno", "salesdate", "custno", "custname", "empno", "firstname", "lastname"}))

	got, err := f.store.ListSales(context.Background(), store.SalesFilter{Limit: 10})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ListSales_DetailError(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectQuery(regexp.QuoteMeta(salesQuery)).
		WithArgs("", 0).
		WillReturnRows(sqlmock.NewRows([]string{"transno", "salesdate", "custno", "custname", "empno", "firstname", "lastname"}).
			AddRow("TR1", nil, "C0001", nil, nil, nil, nil))
	f.mock.ExpectQuery(regexp.QuoteMeta(detailsQuery)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(errors.New("permission denied for table salesdetail"))

	_, err := f.store.ListSales(context.Background(), store.SalesFilter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "salesdetail")
}

func TestStore_ListPayments(t *testing.T) {
	f := setupFixture(t)

	// Given
	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"orno", "transno", "paydate", "amount", "custno", "custname"}).
		AddRow("OR2", "TR2", day, 120.5, "C0001", "Acme").
		AddRow("OR1", nil, nil, nil, nil, nil)
	f.mock.ExpectQuery(regexp.QuoteMeta(paymentsQuery)).
		WithArgs("", 5).
		WillReturnRows(rows)

	// When
	got, err := f.store.ListPayments(context.Background(), store.PaymentFilter{Limit: 5})

	// Then
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "OR2", got[0].OrNo)
	assert.Equal(t, "TR2", *got[0].TransNo)
	assert.Equal(t, "2024-03-07T00:00:00Z", *got[0].PayDate)
	assert.InDelta(t, 120.5, *got[0].Amount, 1e-9)
	require.NotNil(t, got[0].Sale)
	assert.Equal(t, "C0001", got[0].Sale.CustNo)
	assert.Equal(t, "Acme", *got[0].Sale.Customer.CustName)

	assert.Nil(t, got[1].TransNo)
	assert.Nil(t, got[1].PayDate)
	assert.Nil(t, got[1].Amount)
	assert.Nil(t, got[1].Sale)
}

func TestStore_ListPayments_QueryError(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectQuery(regexp.QuoteMeta(paymentsQuery)).
		WithArgs("C0001", 0).
		WillReturnError(errors.New("relation \"payment\" does not exist"))

	_, err := f.store.ListPayments(context.Background(), store.PaymentFilter{CustNo: "C0001"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment query failed")
}
