package adapters

import (
	"strings"

	"github.com/de-tools/billing-atlas/pkg/models/api"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/models/store"
)

func MapStoreCustomerToDomain(c store.Customer) domain.Customer {
	return domain.Customer{
		CustNo:   c.CustNo,
		CustName: orPlaceholder(c.CustName),
		Address:  orPlaceholder(c.Address),
		PayTerm:  orPlaceholder(c.PayTerm),
	}
}

func MapDomainCustomerToAPI(c domain.Customer) api.Customer {
	return api.Customer{
		CustNo:   c.CustNo,
		CustName: c.CustName,
		Address:  c.Address,
		PayTerm:  c.PayTerm,
	}
}

// orPlaceholder mirrors the dashboard rule: nil, empty and blank values all
// display as the placeholder.
func orPlaceholder(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return domain.Placeholder
	}
	return *v
}
