package adapters

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/api"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/models/store"
)

var salesDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func MapStoreSaleToDomain(s store.Sale) (domain.Transaction, error) {
	if strings.TrimSpace(s.TransNo) == "" {
		return domain.Transaction{}, fmt.Errorf("sale without transaction number")
	}

	date, err := parseSalesDate(s.SalesDate)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", s.TransNo, err)
	}

	items := make([]domain.LineItem, 0, len(s.Details))
	for _, d := range s.Details {
		if d.Quantity < 0 {
			return domain.Transaction{}, fmt.Errorf(
				"transaction %s: negative quantity %d for product %s", s.TransNo, d.Quantity, d.ProdCode)
		}
		item := domain.LineItem{
			ProdCode:    d.ProdCode,
			Quantity:    d.Quantity,
			Description: domain.Placeholder,
			Unit:        domain.Placeholder,
		}
		if d.Product != nil {
			item.Description = orPlaceholder(d.Product.Description)
			item.Unit = orPlaceholder(d.Product.Unit)
		}
		items = append(items, item)
	}

	tx := domain.Transaction{
		TransNo:      s.TransNo,
		SalesDate:    date,
		CustNo:       s.CustNo,
		CustomerName: domain.Placeholder,
		EmployeeName: domain.Placeholder,
		Items:        items,
	}
	if s.Customer != nil {
		tx.CustomerName = orPlaceholder(s.Customer.CustName)
	}
	if s.Employee != nil {
		tx.EmployeeName = employeeName(s.Employee)
	}
	return tx, nil
}

func MapDomainTransactionToAPI(tx domain.Transaction) api.Transaction {
	items := make([]api.LineItem, 0, len(tx.Items))
	for _, it := range tx.Items {
		items = append(items, api.LineItem{
			ProdCode:    it.ProdCode,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
		})
	}
	return api.Transaction{
		TransNo:      tx.TransNo,
		SalesDate:    tx.SalesDate,
		CustNo:       tx.CustNo,
		CustomerName: tx.CustomerName,
		EmployeeName: tx.EmployeeName,
		Items:        items,
	}
}

func employeeName(e *store.Employee) string {
	var parts []string
	if e.FirstName != nil {
		parts = append(parts, strings.TrimSpace(*e.FirstName))
	}
	if e.LastName != nil {
		parts = append(parts, strings.TrimSpace(*e.LastName))
	}
	name := strings.TrimSpace(strings.Join(parts, " "))
	if name == "" {
		return domain.Placeholder
	}
	return name
}

func parseSalesDate(v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	for _, layout := range salesDateLayouts {
		if t, err := time.Parse(layout, *v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable sales date %q", *v)
}
