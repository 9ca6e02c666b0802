package result

import (
	"fmt"
	"time"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/logger"
)

// Totals summarizes a store for reporting. Only tests that actually ran
// are counted; percentages are pre-rendered strings so every report
// surface shows the same figures.
type Totals struct {
	Total            int
	Passed           int
	Failed           int
	PassedPercentage string
	FailedPercentage string
}

// ComputeTotals counts terminal records. Untested records are logged
// and excluded so the percentages reflect tests that ran.
func ComputeTotals(store *Store) Totals {
	t := Totals{}
	for _, rec := range store.Records() {
		switch rec.Status {
		case core.StatusPassed:
			t.Passed++
		case core.StatusFailed:
			t.Failed++
		default:
			logger.Warn("test %s was never run, excluding it from totals", rec.Identity())
		}
	}
	t.Total = t.Passed + t.Failed

	if t.Total == 0 {
		t.PassedPercentage = "0.0%"
		t.FailedPercentage = "0.0%"
		return t
	}
	t.PassedPercentage = fmt.Sprintf("%.1f%%", float64(t.Passed)/float64(t.Total)*100)
	t.FailedPercentage = fmt.Sprintf("%.1f%%", float64(t.Failed)/float64(t.Total)*100)
	return t
}

// FormatRunDuration renders a wall-clock duration the way run summaries
// show it: hours and minutes appear only once they matter, seconds
// always do.
func FormatRunDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
