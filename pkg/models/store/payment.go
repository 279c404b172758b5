package store

// Payment is a row of the `payment` collection. The paying customer is
// reached through the sale the payment settles.
type Payment struct {
	OrNo    string       `json:"orno"`
	TransNo *string      `json:"transno"`
	PayDate *string      `json:"paydate"`
	Amount  *float64     `json:"amount"`
	Sale    *PaymentSale `json:"sales"`
}

type PaymentSale struct {
	CustNo   string       `json:"custno"`
	Customer *CustomerRef `json:"customer"`
}

// PaymentFilter narrows a payment query. An empty CustNo selects every
// customer and a zero Limit returns every row.
type PaymentFilter struct {
	CustNo string
	Limit  int
}
