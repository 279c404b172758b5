package domain

import "time"

type ReportKind string

const (
	ReportKindCustomerList         ReportKind = "customer-list"
	ReportKindCustomerTransactions ReportKind = "customer-transactions"
)

func (k ReportKind) Valid() bool {
	switch k {
	case ReportKindCustomerList, ReportKindCustomerTransactions:
		return true
	}
	return false
}

// ReportDescription is the declarative content of a report: a header repeated
// on every batch and the record groups split across batches.
type ReportDescription struct {
	Title       string
	Subtitle    string
	Preamble    *Table
	Groups      []Transaction
	GeneratedAt time.Time
}

// Table is a plain tabular section of the header, e.g. the customer list.
type Table struct {
	Columns   []string
	Rows      [][]string
	EmptyText string
}

// RasterImage is a bitmap captured from one rendered batch.
type RasterImage struct {
	Width  int
	Height int
	Format string
	Data   []byte
}

// Artifact is a finalized, downloadable report document.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
	Pages       int
	CreatedAt   time.Time
	Location    string
}
