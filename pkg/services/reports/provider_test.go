package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func setupProvider(t *testing.T) (DataProvider, *mockStore) {
	t.Helper()
	st := &mockStore{}
	t.Cleanup(func() {
		st.AssertExpectations(t)
	})
	return NewProvider(st), st
}

func TestFetchCustomerList(t *testing.T) {
	// Given rows out of order with missing fields
	provider, st := setupProvider(t)
	st.On("ListCustomers", mock.Anything).Return([]store.Customer{
		{CustNo: "C002", CustName: ptr("Beta"), Address: nil, PayTerm: ptr("COD")},
		{CustNo: "C001", CustName: ptr("Acme"), Address: ptr("1 Main St"), PayTerm: ptr("  ")},
	}, nil)

	// When
	customers, err := provider.FetchCustomerList(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, []domain.Customer{
		{CustNo: "C001", CustName: "Acme", Address: "1 Main St", PayTerm: domain.Placeholder},
		{CustNo: "C002", CustName: "Beta", Address: domain.Placeholder, PayTerm: "COD"},
	}, customers)
}

func TestFetchCustomerList_Errors(t *testing.T) {
	t.Run("backend failure", func(t *testing.T) {
		provider, st := setupProvider(t)
		st.On("ListCustomers", mock.Anything).Return(nil, errors.New("connection refused"))

		customers, err := provider.FetchCustomerList(context.Background())

		assert.Nil(t, customers)
		var fetchErr *DataFetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, opFetchCustomers, fetchErr.Op)
		assert.Equal(t, "Failed to load customer data.", UserMessage(err))
	})

	t.Run("missing customer number", func(t *testing.T) {
		provider, st := setupProvider(t)
		st.On("ListCustomers", mock.Anything).Return([]store.Customer{{CustNo: " "}}, nil)

		_, err := provider.FetchCustomerList(context.Background())

		var fetchErr *DataFetchError
		assert.ErrorAs(t, err, &fetchErr)
	})
}

func TestFetchTransactions(t *testing.T) {
	// Given sales in backend order with one undated row
	provider, st := setupProvider(t)
	st.On("ListSales", mock.Anything, store.SalesFilter{CustNo: "C001"}).Return([]store.Sale{
		{TransNo: "T1", SalesDate: ptr("2024-01-05"), CustNo: "C001"},
		{TransNo: "T3", SalesDate: nil, CustNo: "C001"},
		{
			TransNo:   "T2",
			SalesDate: ptr("2024-02-01"),
			CustNo:    "C001",
			Customer:  &store.CustomerRef{CustName: ptr("Acme")},
			Employee:  &store.Employee{FirstName: ptr("Jane"), LastName: ptr("Doe")},
			Details: []store.SaleDetail{
				{Quantity: 2, ProdCode: "P1", Product: &store.Product{Description: ptr("Widget"), Unit: ptr("pc")}},
				{Quantity: 1, ProdCode: "P2"},
			},
		},
	}, nil)

	// When
	txs, err := provider.FetchTransactions(context.Background(), " C001 ")

	// Then newest first, undated last
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, []string{"T2", "T1", "T3"}, transNos(txs))
	assert.Equal(t, "Acme", txs[0].CustomerName)
	assert.Equal(t, "Jane Doe", txs[0].EmployeeName)
	assert.Equal(t, []domain.LineItem{
		{ProdCode: "P1", Description: "Widget", Quantity: 2, Unit: "pc"},
		{ProdCode: "P2", Description: domain.Placeholder, Quantity: 1, Unit: domain.Placeholder},
	}, txs[0].Items)
	assert.Equal(t, domain.Placeholder, txs[1].CustomerName)
	assert.Nil(t, txs[2].SalesDate)
}

func TestFetchTransactions_IsDeterministic(t *testing.T) {
	provider, st := setupProvider(t)
	rows := []store.Sale{
		{TransNo: "T9", SalesDate: ptr("2024-01-01"), CustNo: "C001"},
		{TransNo: "T2", SalesDate: ptr("2024-01-01"), CustNo: "C002"},
		{TransNo: "T5", SalesDate: ptr("2024-03-01"), CustNo: "C001"},
	}
	st.On("ListSales", mock.Anything, store.SalesFilter{}).Return(rows, nil).Twice()

	first, err := provider.FetchTransactions(context.Background(), "")
	require.NoError(t, err)
	second, err := provider.FetchTransactions(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"T5", "T2", "T9"}, transNos(first))
}

func TestFetchTransactions_Errors(t *testing.T) {
	tests := []struct {
		name     string
		customer string
		rows     []store.Sale
		err      error
	}{
		{name: "backend failure", err: errors.New("503")},
		{name: "negative quantity", rows: []store.Sale{
			{TransNo: "T1", CustNo: "C001", Details: []store.SaleDetail{{Quantity: -1, ProdCode: "P1"}}},
		}},
		{name: "unparseable date", rows: []store.Sale{
			{TransNo: "T1", CustNo: "C001", SalesDate: ptr("yesterday")},
		}},
		{name: "missing transaction number", rows: []store.Sale{{CustNo: "C001"}}},
		{name: "foreign customer", customer: "C001", rows: []store.Sale{{TransNo: "T1", CustNo: "C002"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, st := setupProvider(t)
			if tt.err != nil {
				st.On("ListSales", mock.Anything, store.SalesFilter{CustNo: tt.customer}).Return(nil, tt.err)
			} else {
				st.On("ListSales", mock.Anything, store.SalesFilter{CustNo: tt.customer}).Return(tt.rows, nil)
			}

			txs, err := provider.FetchTransactions(context.Background(), tt.customer)

			assert.Nil(t, txs)
			var fetchErr *DataFetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, opFetchTransactions, fetchErr.Op)
		})
	}
}

func amount(v float64) *float64 {
	return &v
}

func TestFetchPayments(t *testing.T) {
	// Given rows out of date order, one undated
	provider, st := setupProvider(t)
	st.On("ListPayments", mock.Anything, store.PaymentFilter{CustNo: "C001", Limit: 2}).Return([]store.Payment{
		{OrNo: "OR1", PayDate: ptr("2024-03-01"), Amount: amount(10)},
		{OrNo: "OR3", PayDate: nil, Amount: amount(30)},
		{OrNo: "OR2", PayDate: ptr("2024-03-07"), Amount: amount(20),
			Sale: &store.PaymentSale{CustNo: "C001", Customer: &store.CustomerRef{CustName: ptr("Acme")}}},
	}, nil)

	// When
	payments, err := provider.FetchPayments(context.Background(), " C001 ", 2)

	// Then newest first, trimmed to the limit
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "OR2", payments[0].OrNo)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), *payments[0].PayDate)
	assert.Equal(t, "Acme", payments[0].CustomerName)
	assert.Equal(t, "OR1", payments[1].OrNo)
	assert.Equal(t, domain.Placeholder, payments[1].CustomerName)
}

func TestFetchPayments_Errors(t *testing.T) {
	t.Run("backend failure", func(t *testing.T) {
		provider, st := setupProvider(t)
		st.On("ListPayments", mock.Anything, store.PaymentFilter{}).Return(nil, errors.New("timeout"))

		payments, err := provider.FetchPayments(context.Background(), "", -1)

		assert.Nil(t, payments)
		var fetchErr *DataFetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, opFetchPayments, fetchErr.Op)
		assert.Equal(t, "Failed to load payment data.", UserMessage(err))
	})

	t.Run("malformed row", func(t *testing.T) {
		provider, st := setupProvider(t)
		st.On("ListPayments", mock.Anything, store.PaymentFilter{}).Return([]store.Payment{{OrNo: "OR1", Amount: amount(-5)}}, nil)

		_, err := provider.FetchPayments(context.Background(), "", 0)

		var fetchErr *DataFetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "negative amount")
	})
}
