package api

import "time"

type Customer struct {
	CustNo   string `json:"custno"`
	CustName string `json:"custname"`
	Address  string `json:"address"`
	PayTerm  string `json:"payterm"`
}

type LineItem struct {
	ProdCode    string `json:"prodcode"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
}

type Transaction struct {
	TransNo      string     `json:"transno"`
	SalesDate    *time.Time `json:"salesdate,omitempty"`
	CustNo       string     `json:"custno"`
	CustomerName string     `json:"customer_name"`
	EmployeeName string     `json:"employee_name"`
	Items        []LineItem `json:"items"`
}

type Payment struct {
	OrNo         string     `json:"orno"`
	TransNo      string     `json:"transno"`
	PayDate      *time.Time `json:"paydate,omitempty"`
	Amount       float64    `json:"amount"`
	CustNo       string     `json:"custno"`
	CustomerName string     `json:"customer_name"`
}
