package bulkimport

import "alumni/internal/alumni"

// State is the lifecycle of an import run.
type State string

const (
	StateIdle      State = "idle"
	StateImporting State = "importing"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Outcome is what happened to a single submitted record.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Failure pairs a record with the reason it was not imported.
type Failure struct {
	Record  alumni.Record `json:"record"`
	Message string        `json:"message"`
}

// Result aggregates an import run. Succeeded, Skipped and Failed are disjoint
// and add up to the number of records submitted.
type Result struct {
	State     State     `json:"state"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures"`
}

// Processed is the number of records submitted so far.
func (r *Result) Processed() int {
	return r.Succeeded + r.Skipped + r.Failed
}

func (r *Result) record(rec alumni.Record, o Outcome, msg string) {
	switch o {
	case OutcomeSucceeded:
		r.Succeeded++
	case OutcomeSkipped:
		r.Skipped++
	default:
		r.Failed++
		r.Failures = append(r.Failures, Failure{Record: rec, Message: msg})
	}
}
