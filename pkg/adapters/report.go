package adapters

import (
	"github.com/de-tools/billing-atlas/pkg/models/api"
	"github.com/de-tools/billing-atlas/pkg/models/domain"
)

func MapDomainReportStatusToAPI(s domain.ReportStatus) api.ReportStatus {
	return api.ReportStatus{
		Kind:      string(s.Kind),
		Panel:     s.Panel,
		State:     string(s.State),
		Scope:     s.Scope,
		Records:   s.Records,
		UpdatedAt: s.UpdatedAt,
		Error:     s.Error,
		Artifact:  s.Artifact,
	}
}
