// Package layout turns a report description into the markup tree that is
// normalized and rasterized for one batch.
package layout

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"golang.org/x/net/html"
)

// RootID is the id of the container element returned by Build.
const RootID = "report-root"

// PageWidthPx is the A4 width at 96 DPI.
const PageWidthPx = 794

const reportTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<div id="report-root" style="width: {{.Width}}px; padding: 20px; background-color: #ffffff; font-family: Helvetica, Arial, sans-serif; font-size: 13px; color: #111111">
  <div class="report-header" style="text-align: center; margin-bottom: 24px">
    <h2 style="font-size: 22px">{{.Title}}</h2>
    {{- if .Subtitle}}
    <p style="color: #555555">{{.Subtitle}}</p>
    {{- end}}
  </div>
  {{- with .Preamble}}{{$cols := len .Columns}}
  <table class="report-table">
    <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
    {{- range .Rows}}
      <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{- else}}
      <tr><td colspan="{{$cols}}">{{.EmptyText}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  {{- end}}
  <div style="height: 20px"></div>
  {{- range .Groups}}
  <div class="transaction-item" id="transaction-{{.TransNo}}" data-group="{{.TransNo}}">
    <div class="transaction-summary" style="margin-bottom: 12px">
      <p>Transaction #: {{.TransNo}}</p>
      <p>Date: {{formatDate .SalesDate}}</p>
      <p>Customer: {{.CustomerName}} ({{.CustNo}})</p>
      <p>Employee: {{.EmployeeName}}</p>
    </div>
    <h4>Items:</h4>
    <table class="items-table">
      <thead><tr><th>Product Code</th><th>Description</th><th>Quantity</th><th>Unit</th></tr></thead>
      <tbody>
      {{- range .Items}}
        <tr><td>{{.ProdCode}}</td><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{.Unit}}</td></tr>
      {{- else}}
        <tr data-placeholder="true"><td colspan="4">{{noItems}}</td></tr>
      {{- end}}
      </tbody>
    </table>
  </div>
  {{- end}}
</div>
</body></html>`

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatDate": FormatDate,
	"noItems":    func() string { return domain.NoItemsLabel },
}).Parse(reportTemplate))

type page struct {
	Title    string
	Subtitle string
	Preamble *domain.Table
	Groups   []domain.Transaction
	Width    int
}

// Build renders the header of desc plus the given groups and returns the
// detached report container. groups is usually one batch of desc.Groups.
func Build(desc domain.ReportDescription, groups []domain.Transaction) (*html.Node, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, page{
		Title:    desc.Title,
		Subtitle: desc.Subtitle,
		Preamble: desc.Preamble,
		Groups:   groups,
		Width:    PageWidthPx,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute report template: %w", err)
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report markup: %w", err)
	}

	root := FindByID(doc, RootID)
	if root == nil {
		return nil, fmt.Errorf("report markup has no #%s container", RootID)
	}
	root.Parent.RemoveChild(root)
	return root, nil
}

// FormatDate renders a sales date the way the dashboard does, e.g. "March 5, 2024".
func FormatDate(t *time.Time) string {
	if t == nil {
		return domain.Placeholder
	}
	return t.Format("January 2, 2006")
}

// GroupIDs lists the record-group identifiers present under root in document order.
func GroupIDs(root *html.Node) []string {
	var ids []string
	visit(root, func(n *html.Node) {
		if v, ok := attrValue(n, "data-group"); ok {
			ids = append(ids, v)
		}
	})
	return ids
}

func FindByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	visit(n, func(c *html.Node) {
		if found != nil {
			return
		}
		if v, ok := attrValue(c, "id"); ok && v == id {
			found = c
		}
	})
	return found
}

func visit(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c, fn)
	}
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
