package domain

import "time"

// NoItemsLabel fills the single row rendered for a transaction without line items.
const NoItemsLabel = "No items in this transaction"

// Transaction is one logical group of the transactions report: a sale with its
// header summary and ordered line items.
type Transaction struct {
	TransNo      string
	SalesDate    *time.Time
	CustNo       string
	CustomerName string
	EmployeeName string
	Items        []LineItem
}

type LineItem struct {
	ProdCode    string
	Description string
	Quantity    int
	Unit        string
}
