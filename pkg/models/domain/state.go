package domain

import "time"

type ReportState string

const (
	ReportStateIdle      ReportState = "idle"
	ReportStateLoading   ReportState = "loading"
	ReportStateReady     ReportState = "ready"
	ReportStateRendering ReportState = "rendering"
	ReportStateDone      ReportState = "done"
	ReportStateFailed    ReportState = "failed"
)

// ReportStatus is a point-in-time view of one report instance.
type ReportStatus struct {
	Kind      ReportKind
	Panel     string
	State     ReportState
	Scope     string
	Records   int
	UpdatedAt time.Time
	Error     *string
	Artifact  string
}
