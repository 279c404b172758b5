package api

import "time"

type ReportStatus struct {
	Kind      string    `json:"kind"`
	Panel     string    `json:"panel"`
	State     string    `json:"state"`
	Scope     string    `json:"scope,omitempty"`
	Records   int       `json:"records"`
	UpdatedAt time.Time `json:"updated_at"`
	Error     *string   `json:"error,omitempty"`
	Artifact  string    `json:"artifact,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
