// Package report surfaces round-trip outcomes through a leveled log sink
// and, optionally, as on-disk run artifacts.
package report

import (
	"strconv"
	"strings"

	"xmltrip/internal/fixture"
	"xmltrip/internal/verify"
)

const separator = "=================================================="

// Sink receives leveled log messages. *util.Logger satisfies it.
type Sink interface {
	Infof(format string, args ...any)
	Detailf(format string, args ...any)
	Errorf(format string, args ...any)
	Highlightf(format string, args ...any)
}

// Reporter logs each fixture's progress and accumulates a Tally.
type Reporter struct {
	sink  Sink
	tally Tally
}

// New returns a Reporter writing to sink.
func New(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Start announces f and echoes the SQL about to be submitted.
func (r *Reporter) Start(f fixture.Fixture) {
	r.sink.Infof("\n%s\nTest %d:\n%s", separator, f.ID, separator)
	r.sink.Detailf("Parsing SQL:\n%s", f.SQL)
}

// Report logs out for f and records it in the tally.
func (r *Reporter) Report(f fixture.Fixture, out verify.Outcome) {
	if out.AST != "" {
		r.sink.Infof("Successfully created AST: %s", out.AST)
	}
	if out.OK() {
		r.sink.Infof("Generated SQL: %s", out.Output)
		r.sink.Infof("Test completed successfully")
	} else {
		r.sink.Errorf("Error during %s of test %d: %+v", out.Stage, f.ID, out.Err)
	}
	if out.FixtureID == 0 {
		out.FixtureID = f.ID
	}
	r.tally.Add(out)
}

// Summary logs the aggregate result of the run.
func (r *Reporter) Summary(dialect string) {
	t := r.tally
	r.sink.Highlightf("round trip summary dialect=%s total=%d passed=%d failed=%d", dialect, t.Total, t.Passed, t.Failed)
	if t.Failed > 0 {
		r.sink.Errorf("failed fixtures: %s", joinIDs(t.Failures()))
	}
}

// Tally returns a copy of the accumulated results.
func (r *Reporter) Tally() Tally {
	t := r.tally
	t.Outcomes = append([]verify.Outcome(nil), r.tally.Outcomes...)
	return t
}

// Tally aggregates outcomes of one run.
type Tally struct {
	Total    int
	Passed   int
	Failed   int
	Outcomes []verify.Outcome
}

// Add records out.
func (t *Tally) Add(out verify.Outcome) {
	t.Total++
	if out.OK() {
		t.Passed++
	} else {
		t.Failed++
	}
	t.Outcomes = append(t.Outcomes, out)
}

// OK reports whether every recorded outcome succeeded.
func (t Tally) OK() bool {
	return t.Failed == 0
}

// Failures returns the failed outcomes in run order.
func (t Tally) Failures() []verify.Outcome {
	var out []verify.Outcome
	for _, o := range t.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

func joinIDs(outcomes []verify.Outcome) string {
	ids := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		ids = append(ids, strconv.Itoa(int(o.FixtureID)))
	}
	return strings.Join(ids, ", ")
}
