package types

import (
	"sort"
	"time"
)

// Status is the three-way outcome of a tenant check.
type Status string

const (
	StatusPass    Status = "Pass"
	StatusWarning Status = "Warning"
	StatusFail    Status = "Fail"
)

// TestResult is a single classified check against a tenant resource.
type TestResult struct {
	Category  string      `json:"category"`
	Name      string      `json:"name"`
	Status    Status      `json:"status"`
	Details   string      `json:"details,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Report is the ordered accumulation of test results for one run.
type Report struct {
	Title     string       `json:"title"`
	RunID     string       `json:"runId"`
	Tenant    string       `json:"tenant"`
	Generated time.Time    `json:"generated"`
	Results   []TestResult `json:"results"`
}

// Summary holds the per-status totals for a set of results.
type Summary struct {
	Pass    int `json:"pass"`
	Warning int `json:"warning"`
	Fail    int `json:"fail"`
}

func (s Summary) Total() int {
	return s.Pass + s.Warning + s.Fail
}

func (r *Report) Add(result TestResult) {
	r.Results = append(r.Results, result)
}

// Categories returns the distinct categories in first-seen order.
func (r *Report) Categories() []string {
	seen := map[string]bool{}
	var categories []string
	for _, result := range r.Results {
		if !seen[result.Category] {
			seen[result.Category] = true
			categories = append(categories, result.Category)
		}
	}
	return categories
}

// ResultsFor returns the results belonging to one category, in insertion order.
func (r *Report) ResultsFor(category string) []TestResult {
	var results []TestResult
	for _, result := range r.Results {
		if result.Category == category {
			results = append(results, result)
		}
	}
	return results
}

// Summarize counts results by status. The overall summary always equals the
// sum of the per-category summaries.
func (r *Report) Summarize() Summary {
	return summarize(r.Results)
}

func (r *Report) SummarizeCategory(category string) Summary {
	return summarize(r.ResultsFor(category))
}

func summarize(results []TestResult) Summary {
	var s Summary
	for _, result := range results {
		switch result.Status {
		case StatusPass:
			s.Pass++
		case StatusWarning:
			s.Warning++
		case StatusFail:
			s.Fail++
		}
	}
	return s
}

// WorstStatus returns Fail over Warning over Pass across all results.
func (r *Report) WorstStatus() Status {
	worst := StatusPass
	for _, result := range r.Results {
		if result.Status == StatusFail {
			return StatusFail
		}
		if result.Status == StatusWarning {
			worst = StatusWarning
		}
	}
	return worst
}

// ExportRow is one denormalized inventory row destined for CSV export.
type ExportRow map[string]string

// ExportRows is the CSV-ready projection of an enumerated collection.
type ExportRows []ExportRow

// Headers returns the union of all column names across rows, in first-seen
// order. Rows missing a column are back-filled at write time so the CSV is
// never ragged.
func (rows ExportRows) Headers() []string {
	seen := map[string]bool{}
	var headers []string
	for _, row := range rows {
		for _, key := range row.keys() {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}
	return headers
}

func (row ExportRow) keys() []string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
