package rename

import "fmt"

// Report is the ordered collection of outcomes plus summary counts.
// Pure aggregation: no decisions beyond counting and ordering.
type Report struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	Skipped   int
}

// NewReport aggregates outcomes, preserving their order.
func NewReport(outcomes []Outcome) Report {
	r := Report{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			r.Succeeded++
		case StatusFailed:
			r.Failed++
		case StatusSkipped:
			r.Skipped++
		}
	}
	return r
}

// Total returns the number of rows in the report.
func (r Report) Total() int {
	return len(r.Outcomes)
}

// Ok reports whether every non-skipped row succeeded. Used by the CLI
// for exit-code mapping.
func (r Report) Ok() bool {
	return r.Failed == 0
}

// Summary returns a one-line human-readable summary.
func (r Report) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped (%d rows)",
		r.Succeeded, r.Failed, r.Skipped, r.Total())
}
