package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/qualab-dev/qualab/pkg/result"
)

// Console renders run summaries as a table.
type Console struct {
	out io.Writer
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Print renders one row per test grouped by class, with run totals in
// the footer. The table style follows the verdict.
func (c *Console) Print(s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetTitle(fmt.Sprintf("%s run %s on %s", s.Project, s.RunID, s.Platform))

	t.AppendHeader(table.Row{"Class", "Test", "Status", "Duration", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Class", AutoMerge: true},
		{Name: "Test", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Message", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	lastClass := ""
	for _, rec := range s.Records {
		if rec.Class != lastClass && lastClass != "" {
			t.AppendSeparator()
		}
		lastClass = rec.Class

		t.AppendRow(table.Row{
			rec.Class,
			rec.Method,
			statusString(rec.Status),
			formatTestDuration(rec.Duration),
			rec.Message,
		})
	}

	if s.Totals.Failed > 0 {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		s.Totals.Total,
		fmt.Sprintf("%d passed (%s), %d failed (%s)",
			s.Totals.Passed, s.Totals.PassedPercentage,
			s.Totals.Failed, s.Totals.FailedPercentage),
		result.FormatRunDuration(s.Duration),
		"",
	})

	t.Render()
}

// formatTestDuration keeps sub-second test times readable.
func formatTestDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
