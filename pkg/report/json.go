package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qualab-dev/qualab/pkg/result"
)

// jsonReport is the machine-readable shape of results.json.
type jsonReport struct {
	RunID            string       `json:"runId"`
	Project          string       `json:"project"`
	Platform         string       `json:"platform"`
	Duration         string       `json:"duration"`
	Total            int          `json:"total"`
	Passed           int          `json:"passed"`
	Failed           int          `json:"failed"`
	PassedPercentage string       `json:"passedPercentage"`
	FailedPercentage string       `json:"failedPercentage"`
	Results          []jsonResult `json:"results"`
}

type jsonResult struct {
	Class       string    `json:"class"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	Duration    string    `json:"duration"`
	Message     string    `json:"message,omitempty"`
	TestCaseIDs []string  `json:"testCaseIds,omitempty"`
	FeatureName string    `json:"featureName,omitempty"`
	Target      string    `json:"target,omitempty"`
	Synthetic   bool      `json:"synthetic,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// WriteJSON writes results.json into dir and returns its path.
func WriteJSON(dir string, s Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	doc := jsonReport{
		RunID:            s.RunID,
		Project:          s.Project,
		Platform:         s.Platform,
		Duration:         result.FormatRunDuration(s.Duration),
		Total:            s.Totals.Total,
		Passed:           s.Totals.Passed,
		Failed:           s.Totals.Failed,
		PassedPercentage: s.Totals.PassedPercentage,
		FailedPercentage: s.Totals.FailedPercentage,
		Results:          make([]jsonResult, 0, len(s.Records)),
	}
	for _, rec := range s.Records {
		doc.Results = append(doc.Results, jsonResult{
			Class:       rec.Class,
			Method:      rec.Method,
			Status:      rec.Status.String(),
			Duration:    formatTestDuration(rec.Duration),
			Message:     rec.Message,
			TestCaseIDs: rec.TestCaseIDs,
			FeatureName: rec.FeatureName,
			Target:      rec.Target,
			Synthetic:   rec.Synthetic,
			StartTime:   rec.StartTime,
			EndTime:     rec.EndTime,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}

	path := filepath.Join(dir, "results.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write results.json: %w", err)
	}
	return path, nil
}
