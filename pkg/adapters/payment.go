package adapters

import (
	"fmt"
	"strings"

	"github.com/de-tools/billing-atlas/pkg/models/api"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/de-tools/billing-atlas/pkg/models/store"
)

func MapStorePaymentToDomain(p store.Payment) (domain.Payment, error) {
	if strings.TrimSpace(p.OrNo) == "" {
		return domain.Payment{}, fmt.Errorf("payment without receipt number")
	}

	date, err := parseSalesDate(p.PayDate)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payment %s: %w", p.OrNo, err)
	}

	payment := domain.Payment{
		OrNo:         p.OrNo,
		TransNo:      orPlaceholder(p.TransNo),
		PayDate:      date,
		CustNo:       domain.Placeholder,
		CustomerName: domain.Placeholder,
	}
	if p.Amount != nil {
		if *p.Amount < 0 {
			return domain.Payment{}, fmt.Errorf("payment %s: negative amount %.2f", p.OrNo, *p.Amount)
		}
		payment.Amount = *p.Amount
	}
	if p.Sale != nil {
		if p.Sale.CustNo != "" {
			payment.CustNo = p.Sale.CustNo
		}
		if p.Sale.Customer != nil {
			payment.CustomerName = orPlaceholder(p.Sale.Customer.CustName)
		}
	}
	return payment, nil
}

func MapDomainPaymentToAPI(p domain.Payment) api.Payment {
	return api.Payment{
		OrNo:         p.OrNo,
		TransNo:      p.TransNo,
		PayDate:      p.PayDate,
		Amount:       p.Amount,
		CustNo:       p.CustNo,
		CustomerName: p.CustomerName,
	}
}
