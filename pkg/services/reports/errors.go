package reports

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy rejects a request while the report instance is loading or rendering.
	ErrBusy = errors.New("report is busy")
	// ErrNotReady rejects a generation before data has been loaded.
	ErrNotReady = errors.New("report data is not loaded")
	// ErrUnknownReport is returned for a report kind nobody registered.
	ErrUnknownReport = errors.New("unknown report")
)

// DataFetchError reports a failed or malformed backend read.
type DataFetchError struct {
	Op  string
	Err error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

// RenderCaptureError reports a rasterization that produced no image.
type RenderCaptureError struct {
	Err error
}

func (e *RenderCaptureError) Error() string {
	return fmt.Sprintf("render capture: %v", e.Err)
}

func (e *RenderCaptureError) Unwrap() error {
	return e.Err
}

// ReportGenerationError aborts a whole document because one batch failed.
type ReportGenerationError struct {
	Batch int
	Err   error
}

func (e *ReportGenerationError) Error() string {
	return fmt.Sprintf("report generation failed at batch %d: %v", e.Batch, e.Err)
}

func (e *ReportGenerationError) Unwrap() error {
	return e.Err
}

// UserMessage is the single non-technical message shown for err. Technical
// detail belongs in the logs.
func UserMessage(err error) string {
	var (
		fetchErr   *DataFetchError
		captureErr *RenderCaptureError
		genErr     *ReportGenerationError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "A report is already being prepared. Please wait for it to finish."
	case errors.Is(err, ErrNotReady):
		return "Report is not ready for printing. Load the data first."
	case errors.Is(err, ErrUnknownReport):
		return "This report does not exist."
	case errors.As(err, &fetchErr):
		switch fetchErr.Op {
		case opFetchCustomers:
			return "Failed to load customer data."
		case opFetchPayments:
			return "Failed to load payment data."
		}
		return "Failed to load transaction data."
	case errors.As(err, &captureErr):
		return "Failed to generate PDF. Try narrowing the report to fewer records."
	case errors.As(err, &genErr):
		return "Failed to generate PDF. Please try again."
	}
	return "Something went wrong. Please try again."
}

// userMessage is UserMessage as an optional value for status views.
func userMessage(err error) *string {
	if err == nil {
		return nil
	}
	s := UserMessage(err)
	return &s
}
