package domain

// Placeholder is shown in reports wherever the backend returned no value.
const Placeholder = "N/A"

type Customer struct {
	CustNo   string
	CustName string
	Address  string
	PayTerm  string
}
