package domain

import "time"

type Payment struct {
	OrNo         string
	TransNo      string
	PayDate      *time.Time
	Amount       float64
	CustNo       string
	CustomerName string
}
