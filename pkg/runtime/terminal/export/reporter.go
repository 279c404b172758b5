package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/render/layout"
)

type TableConfig struct {
	IDWidth      int
	NameWidth    int
	AddressWidth int
	TermsWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		IDWidth:      12,
		NameWidth:    30,
		AddressWidth: 40,
		TermsWidth:   14,
	}
}

// Reporter prints report data as fixed width tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcs() template.FuncMap {
	widths := []int{c.config.IDWidth, c.config.NameWidth, c.config.AddressWidth, c.config.TermsWidth}
	return template.FuncMap{
		"formatRow": func(cells ...any) string {
			parts := make([]string, len(widths))
			for i, w := range widths {
				var cell any = ""
				if i < len(cells) {
					cell = cells[i]
				}
				parts[i] = fmt.Sprintf(" %-*s ", w, truncate(fmt.Sprint(cell), w))
			}
			return "|" + strings.Join(parts, "|") + "|"
		},
		"separator": func() string {
			parts := make([]string, len(widths))
			for i, w := range widths {
				parts[i] = strings.Repeat("-", w+2)
			}
			return "+" + strings.Join(parts, "+") + "+"
		},
		"formatDate":   layout.FormatDate,
		"formatAmount": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"noItems":      func() string { return domain.NoItemsLabel },
	}
}

const customersTable = `
Customer List ({{len .}} customers)

{{separator}}
{{formatRow "Customer ID" "Name" "Address" "Payment Terms"}}
{{separator}}
{{range .}}{{formatRow .CustNo .CustName .Address .PayTerm}}
{{else}}{{formatRow "" "No customers to display."}}
{{end}}{{separator}}
`

const transactionsTable = `
Customer Transactions ({{len .}} transactions)
{{range .}}
=== {{.TransNo}} | {{formatDate .SalesDate}} | {{.CustomerName}} ({{.CustNo}}) | {{.EmployeeName}} ===
{{separator}}
{{formatRow "Product Code" "Description" "Quantity" "Unit"}}
{{separator}}
{{range .Items}}{{formatRow .ProdCode .Description .Quantity .Unit}}
{{else}}{{formatRow "" noItems}}
{{end}}{{separator}}
{{end}}`

const paymentsTable = `
Payments ({{len .}} payments)

{{separator}}
{{formatRow "OR Number" "Customer" "Date" "Amount"}}
{{separator}}
{{range .}}{{formatRow .OrNo .CustomerName (formatDate .PayDate) (formatAmount .Amount)}}
{{else}}{{formatRow "" "No payments to display."}}
{{end}}{{separator}}
`

const artifactTable = `
{{separator}}
{{formatRow "Report" .Name}}
{{formatRow "Pages" .Pages}}
{{formatRow "Location" .Location}}
{{separator}}
`

func (c *Reporter) Customers(customers []domain.Customer) error {
	return c.execute(customersTable, customers)
}

func (c *Reporter) Transactions(txs []domain.Transaction) error {
	return c.execute(transactionsTable, txs)
}

func (c *Reporter) Payments(payments []domain.Payment) error {
	return c.execute(paymentsTable, payments)
}

func (c *Reporter) Artifact(artifact *domain.Artifact) error {
	return c.execute(artifactTable, artifact)
}

func (c *Reporter) execute(tmpl string, data any) error {
	t, err := template.New("report").Funcs(c.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
