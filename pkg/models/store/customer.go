package store

// Customer is a row of the `customer` collection as returned by the backend.
// Nullable text columns stay nil until adapted into the domain model.
type Customer struct {
	CustNo   string  `json:"custno"`
	CustName *string `json:"custname"`
	Address  *string `json:"address"`
	PayTerm  *string `json:"payterm"`
}

type CustomerRef struct {
	CustName *string `json:"custname"`
}
