package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/render/layout"
)

const customersTmpl = `{{range .}}
- {{.CustNo}}: {{.CustName}}
  Address: {{.Address}}
  Payment Terms: {{.PayTerm}}
{{else}}No customers to display.
{{end}}`

const transactionsTmpl = `{{range .}}
=== Transaction #{{.TransNo}} ===
Date: {{formatDate .SalesDate}}
Customer: {{.CustomerName}} ({{.CustNo}})
Employee: {{.EmployeeName}}
{{range .Items}}- {{.ProdCode}} {{.Description}}: {{.Quantity}} {{.Unit}}
{{else}}{{noItems}}
{{end}}{{else}}No transactions to display.
{{end}}`

const paymentsTmpl = `{{range .}}
- {{.OrNo}}: {{formatAmount .Amount}} on {{formatDate .PayDate}}
  Customer: {{.CustomerName}} ({{.CustNo}})
  Transaction: {{.TransNo}}
{{else}}No payments to display.
{{end}}`

const artifactTmpl = `Report saved: {{.Name}}
Pages: {{.Pages}}
{{if .Location}}Location: {{.Location}}
{{end}}`

var templates = template.Must(template.New("reporter").Funcs(template.FuncMap{
	"formatDate":   layout.FormatDate,
	"formatAmount": formatAmount,
	"noItems":      func() string { return domain.NoItemsLabel },
}).Parse(`{{define "customers"}}` + customersTmpl + `{{end}}` +
	`{{define "transactions"}}` + transactionsTmpl + `{{end}}` +
	`{{define "payments"}}` + paymentsTmpl + `{{end}}` +
	`{{define "artifact"}}` + artifactTmpl + `{{end}}`))

// Reporter outputs report data to the console in a plain text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Customers(customers []domain.Customer) error {
	return c.execute("customers", customers)
}

func (c *Reporter) Transactions(txs []domain.Transaction) error {
	return c.execute("transactions", txs)
}

func (c *Reporter) Payments(payments []domain.Payment) error {
	return c.execute("payments", payments)
}

func (c *Reporter) Artifact(artifact *domain.Artifact) error {
	return c.execute("artifact", artifact)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func (c *Reporter) execute(name string, data any) error {
	if err := templates.ExecuteTemplate(c.writer, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
