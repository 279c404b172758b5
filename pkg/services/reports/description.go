package reports

import (
	"fmt"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
)

const (
	customerListTitle         = "Customer List Report"
	customerTransactionsTitle = "Customer Transactions Report"
	subtitleDateLayout        = "1/2/2006"
)

var customerColumns = []string{"Customer ID", "Name", "Address", "Payment Terms"}

// CustomerListDescription puts the whole customer list into the header
// preamble. The report has no record groups.
func CustomerListDescription(customers []domain.Customer, now time.Time) domain.ReportDescription {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{c.CustNo, c.CustName, c.Address, c.PayTerm})
	}
	return domain.ReportDescription{
		Title:    customerListTitle,
		Subtitle: "Generated on " + now.Format(subtitleDateLayout),
		Preamble: &domain.Table{
			Columns:   customerColumns,
			Rows:      rows,
			EmptyText: "No customers to display.",
		},
		GeneratedAt: now,
	}
}

// TransactionsDescription uses one record group per transaction.
func TransactionsDescription(customerID string, txs []domain.Transaction, now time.Time) domain.ReportDescription {
	scope := "All Customers"
	if customerID != "" {
		scope = fmt.Sprintf("For Customer ID: %s", customerID)
	}
	return domain.ReportDescription{
		Title:       customerTransactionsTitle,
		Subtitle:    fmt.Sprintf("%s - Generated on %s", scope, now.Format(subtitleDateLayout)),
		Groups:      txs,
		GeneratedAt: now,
	}
}
