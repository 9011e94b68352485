// Package doctor runs environment checks: configuration, backend access,
// audio playback, desktop integration and the local database.
package doctor

import "context"

// Status is the outcome of one check item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem is a single line within a check result.
type CheckItem struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Result groups the items produced by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check is one diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll executes checks in order.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		results = append(results, check.Run(ctx))
	}
	return results
}

// Summary counts items by status across results.
func Summary(results []Result) (passed, warned, failed int) {
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				passed++
			case StatusWarn:
				warned++
			case StatusFail:
				failed++
			}
		}
	}
	return passed, warned, failed
}

// Func adapts a function into a Check.
type Func struct {
	Title string
	Fn    func(ctx context.Context) []CheckItem
}

func (f Func) Name() string { return f.Title }

func (f Func) Run(ctx context.Context) Result {
	return Result{Name: f.Title, Items: f.Fn(ctx)}
}

// Item builds a pass item when err is nil and an item with failStatus
// otherwise.
func Item(label string, err error, failStatus Status) CheckItem {
	if err == nil {
		return CheckItem{Label: label, Status: StatusPass}
	}
	return CheckItem{Label: label, Status: failStatus, Detail: err.Error()}
}
