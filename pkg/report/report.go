// Package report renders finished runs: a console table for humans, a
// results.json file for machines and an optional Slack notification.
package report

import (
	"time"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/result"
)

// Summary is everything the reporters need about a finished run.
type Summary struct {
	RunID    string
	Project  string
	Platform string
	Duration time.Duration
	Totals   result.Totals
	Records  []*result.Record
	BuildURL string // CI job link, empty outside CI
}

func statusString(status core.CaseStatus) string {
	switch status {
	case core.StatusPassed:
		return "✓ pass"
	case core.StatusFailed:
		return "✗ fail"
	default:
		return "- untested"
	}
}
