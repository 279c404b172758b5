package terminal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/services/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockController struct {
	mock.Mock
}

func (m *mockController) Customers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *mockController) Transactions(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *mockController) Payments(ctx context.Context, customerID string, limit int) ([]domain.Payment, error) {
	args := m.Called(ctx, customerID, limit)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *mockController) Status(ctx context.Context, kind domain.ReportKind, panel string) (domain.ReportStatus, error) {
	args := m.Called(ctx, kind, panel)
	return args.Get(0).(domain.ReportStatus), args.Error(1)
}

func (m *mockController) Load(ctx context.Context, kind domain.ReportKind, panel, scope string) (domain.ReportStatus, error) {
	args := m.Called(ctx, kind, panel, scope)
	return args.Get(0).(domain.ReportStatus), args.Error(1)
}

func (m *mockController) Generate(ctx context.Context, kind domain.ReportKind, panel string) (*domain.Artifact, error) {
	args := m.Called(ctx, kind, panel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *mockController) List(ctx context.Context) []domain.ReportStatus {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ReportStatus)
}

func setupFixture(t *testing.T, args ...string) (*CLI, *mockController, *bytes.Buffer) {
	t.Helper()
	ctrl := new(mockController)
	out := &bytes.Buffer{}
	cli := NewCLI(Options{Output: out, Logs: &bytes.Buffer{}, Controller: ctrl})
	cli.SetArgs(args)
	t.Cleanup(func() {
		ctrl.AssertExpectations(t)
	})
	return cli, ctrl, out
}

func TestCLI_Customers(t *testing.T) {
	// Given
	cli, ctrl, out := setupFixture(t, "customers")
	ctrl.On("Customers", mock.Anything).Return([]domain.Customer{
		{CustNo: "C001", CustName: "Acme", Address: "1 Main St", PayTerm: "30D"},
		{CustNo: "C002", CustName: "Beta", Address: domain.Placeholder, PayTerm: "COD"},
	}, nil)

	// When
	err := cli.Execute()

	// Then
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Customer List (2 customers)")
	assert.Contains(t, out.String(), "| C001         | Acme")
	assert.Contains(t, out.String(), "| Payment Terms")
}

func TestCLI_TransactionsText(t *testing.T) {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	cli, ctrl, out := setupFixture(t, "transactions", "--customer", "C001", "--format", "text")
	ctrl.On("Transactions", mock.Anything, "C001").Return([]domain.Transaction{
		{TransNo: "T1", SalesDate: &date, CustNo: "C001", CustomerName: "Acme", EmployeeName: "Jane Doe",
			Items: []domain.LineItem{{ProdCode: "P1", Description: "Widget", Quantity: 2, Unit: "pc"}}},
		{TransNo: "T2", CustNo: "C001", CustomerName: "Acme", EmployeeName: domain.Placeholder},
	}, nil)

	err := cli.Execute()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "=== Transaction #T1 ===")
	assert.Contains(t, out.String(), "Date: March 5, 2024")
	assert.Contains(t, out.String(), "- P1 Widget: 2 pc")
	assert.Contains(t, out.String(), "Date: N/A")
	assert.Contains(t, out.String(), domain.NoItemsLabel)
}

func TestCLI_Payments(t *testing.T) {
	date := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	payments := []domain.Payment{
		{OrNo: "OR1", TransNo: "T1", PayDate: &date, Amount: 1250.5, CustNo: "C001", CustomerName: "Acme"},
	}

	t.Run("table", func(t *testing.T) {
		cli, ctrl, out := setupFixture(t, "payments", "--limit", "5")
		ctrl.On("Payments", mock.Anything, "", 5).Return(payments, nil)

		require.NoError(t, cli.Execute())
		assert.Contains(t, out.String(), "Payments (1 payments)")
		assert.Contains(t, out.String(), "| OR1          | Acme")
		assert.Contains(t, out.String(), "1250.50")
	})

	t.Run("text", func(t *testing.T) {
		cli, ctrl, out := setupFixture(t, "payments", "--customer", "C001", "--format", "text")
		ctrl.On("Payments", mock.Anything, "C001", 0).Return(payments, nil)

		require.NoError(t, cli.Execute())
		assert.Contains(t, out.String(), "- OR1: 1250.50 on March 7, 2024")
		assert.Contains(t, out.String(), "Customer: Acme (C001)")
	})
}

func TestCLI_ReportTransactions(t *testing.T) {
	cli, ctrl, out := setupFixture(t, "report", "transactions", "--customer", "C001", "--format", "text")
	ctrl.On("Load", mock.Anything, domain.ReportKindCustomerTransactions, "cli", "C001").
		Return(domain.ReportStatus{State: domain.ReportStateReady, Records: 3}, nil)
	ctrl.On("Generate", mock.Anything, domain.ReportKindCustomerTransactions, "cli").
		Return(&domain.Artifact{Name: "customer-transactions-C001-2024-03-05T10-20-30.pdf", Pages: 2, Location: "reports/x.pdf"}, nil)

	err := cli.Execute()

	require.NoError(t, err)
	assert.Equal(t, "Report saved: customer-transactions-C001-2024-03-05T10-20-30.pdf\nPages: 2\nLocation: reports/x.pdf\n",
		out.String())
}

func TestCLI_ReportAll(t *testing.T) {
	cli, ctrl, out := setupFixture(t, "report", "all", "--format", "text")
	ctrl.On("Load", mock.Anything, domain.ReportKindCustomerList, "cli-customer-list", "").
		Return(domain.ReportStatus{State: domain.ReportStateReady}, nil)
	ctrl.On("Load", mock.Anything, domain.ReportKindCustomerTransactions, "cli-customer-transactions", "").
		Return(domain.ReportStatus{State: domain.ReportStateReady}, nil)
	ctrl.On("Generate", mock.Anything, domain.ReportKindCustomerList, "cli-customer-list").
		Return(&domain.Artifact{Name: "customer-list.pdf", Pages: 1}, nil)
	ctrl.On("Generate", mock.Anything, domain.ReportKindCustomerTransactions, "cli-customer-transactions").
		Return(&domain.Artifact{Name: "customer-transactions-all.pdf", Pages: 4}, nil)

	err := cli.Execute()

	require.NoError(t, err)
	assert.Equal(t,
		"Report saved: customer-list.pdf\nPages: 1\nReport saved: customer-transactions-all.pdf\nPages: 4\n",
		out.String())
}

func TestCLI_ReportFailureShowsUserMessage(t *testing.T) {
	cli, ctrl, _ := setupFixture(t, "report", "customers")
	ctrl.On("Load", mock.Anything, domain.ReportKindCustomerList, "cli", "").
		Return(domain.ReportStatus{State: domain.ReportStateFailed},
			&reports.DataFetchError{Op: "customers", Err: errors.New("dial tcp: connection refused")})

	err := cli.Execute()

	require.Error(t, err)
	assert.Equal(t, "Failed to load customer data.", err.Error())
}

func TestCLI_UnknownFormat(t *testing.T) {
	cli, _, _ := setupFixture(t, "customers", "--format", "xml")

	err := cli.Execute()

	assert.ErrorContains(t, err, "unknown output format")
}
