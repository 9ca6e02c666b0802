// Package result tracks per-test outcomes and folds the runner's
// failure reports into them after a run.
package result

import (
	"time"

	"github.com/qualab-dev/qualab/pkg/core"
)

// Record is the run outcome of a single test method.
type Record struct {
	// Identity
	Class  string `json:"class"`
	Method string `json:"method"`

	// Status
	Status core.CaseStatus `json:"status"`

	// Timing
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime,omitempty"`
	Duration  time.Duration `json:"duration"`

	// Output
	Message string `json:"message,omitempty"`

	// Descriptive metadata from the suite definition
	TestCaseIDs []string `json:"testCaseIds,omitempty"`
	FeatureName string   `json:"featureName,omitempty"`
	Target      string   `json:"target,omitempty"`

	// Synthetic marks records fabricated during reconciliation for
	// outcomes that had no registered test, such as fixture failures.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Identity returns the Class.Method form the runner reports outcomes by.
func (r *Record) Identity() string {
	return r.Class + "." + r.Method
}

func (r *Record) finish(status core.CaseStatus, message string) {
	r.Status = status
	r.stampEnd()
	if message != "" {
		r.Message = message
	}
}

// stampEnd records the end time once; a verdict settled later must not
// move the duration measured at teardown.
func (r *Record) stampEnd() {
	if !r.EndTime.IsZero() {
		return
	}
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
