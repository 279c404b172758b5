package reports

import (
	"strings"
	"time"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
)

const timestampLength = 19

// FileName builds "<prefix>[-<scope>]-<timestamp>.pdf". The timestamp is the
// UTC ISO-8601 instant with ':' and '.' replaced by '-', cut to 19 chars.
func FileName(prefix, scope string, now time.Time) string {
	parts := []string{prefix}
	if token := sanitize(scope); token != "" {
		parts = append(parts, token)
	}
	parts = append(parts, Timestamp(now))
	return strings.Join(parts, "-") + ".pdf"
}

func Timestamp(now time.Time) string {
	iso := now.UTC().Format("2006-01-02T15:04:05.000Z")
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(iso)
	if len(ts) > timestampLength {
		ts = ts[:timestampLength]
	}
	return ts
}

// ArtifactName picks the file name of a report kind. Transaction reports
// without a scope are named "all".
func ArtifactName(kind domain.ReportKind, scope string, now time.Time) string {
	if kind == domain.ReportKindCustomerTransactions {
		if scope == "" {
			scope = "all"
		}
		return FileName(string(kind), scope, now)
	}
	return FileName(string(kind), "", now)
}

func sanitize(token string) string {
	var b strings.Builder
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
