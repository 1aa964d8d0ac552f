package report

import (
	"fmt"
	"strings"
	"testing"

	"xmltrip/internal/fixture"
	"xmltrip/internal/verify"

	"github.com/pkg/errors"
)

type entry struct {
	level string
	msg   string
}

type recordingSink struct {
	entries []entry
}

func (s *recordingSink) add(level, format string, args ...any) {
	s.entries = append(s.entries, entry{level: level, msg: fmt.Sprintf(format, args...)})
}

func (s *recordingSink) Infof(format string, args ...any)      { s.add("info", format, args...) }
func (s *recordingSink) Detailf(format string, args ...any)    { s.add("detail", format, args...) }
func (s *recordingSink) Errorf(format string, args ...any)     { s.add("error", format, args...) }
func (s *recordingSink) Highlightf(format string, args ...any) { s.add("note", format, args...) }

func (s *recordingSink) contains(level, substr string) bool {
	for _, e := range s.entries {
		if e.level == level && strings.Contains(e.msg, substr) {
			return true
		}
	}
	return false
}

func testFixture(t *testing.T) fixture.Fixture {
	t.Helper()
	f, err := fixture.Get(fixture.PlainColumns)
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	return f
}

func TestStartEchoesSQL(t *testing.T) {
	sink := &recordingSink{}
	f := testFixture(t)
	New(sink).Start(f)
	if len(sink.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sink.entries))
	}
	if sink.entries[0].level != "info" || !strings.Contains(sink.entries[0].msg, "Test 2:") {
		t.Fatalf("unexpected start entry: %+v", sink.entries[0])
	}
	if !strings.Contains(sink.entries[0].msg, separator) {
		t.Fatalf("expected separator: %q", sink.entries[0].msg)
	}
	if sink.entries[1].level != "detail" || !strings.Contains(sink.entries[1].msg, f.SQL) {
		t.Fatalf("expected SQL echo at detail level: %+v", sink.entries[1])
	}
}

func TestReportSuccess(t *testing.T) {
	sink := &recordingSink{}
	r := New(sink)
	f := testFixture(t)
	r.Report(f, verify.Outcome{FixtureID: f.ID, Status: verify.Success, AST: "tree", Output: "SELECT 1"})

	if !sink.contains("info", "Successfully created AST: tree") {
		t.Fatalf("missing AST line: %+v", sink.entries)
	}
	if !sink.contains("info", "Generated SQL: SELECT 1") {
		t.Fatalf("missing generated SQL line: %+v", sink.entries)
	}
	if !sink.contains("info", "Test completed successfully") {
		t.Fatalf("missing completion line: %+v", sink.entries)
	}
	if tally := r.Tally(); tally.Total != 1 || tally.Passed != 1 || !tally.OK() {
		t.Fatalf("unexpected tally: %+v", tally)
	}
}

func TestReportFailure(t *testing.T) {
	sink := &recordingSink{}
	r := New(sink)
	f := testFixture(t)
	err := errors.WithStack(&verify.StageError{Stage: verify.StageGenerate, Dialect: "fake", Err: fmt.Errorf("no deparse")})
	r.Report(f, verify.Outcome{Status: verify.Failure, Stage: verify.StageGenerate, AST: "tree", Err: err})

	if !sink.contains("info", "Successfully created AST") {
		t.Fatalf("AST should still be reported on generate failure: %+v", sink.entries)
	}
	if !sink.contains("error", "no deparse") {
		t.Fatalf("missing error line: %+v", sink.entries)
	}
	if !sink.contains("error", "report.TestReportFailure") {
		t.Fatalf("expected stack trace in error line: %+v", sink.entries)
	}
	if sink.contains("info", "completed successfully") {
		t.Fatalf("failure must not report completion")
	}
	tally := r.Tally()
	if tally.Failed != 1 || tally.OK() {
		t.Fatalf("unexpected tally: %+v", tally)
	}
	if got := tally.Failures(); len(got) != 1 || got[0].FixtureID != f.ID {
		t.Fatalf("unexpected failures: %+v", got)
	}
}

func TestSummary(t *testing.T) {
	sink := &recordingSink{}
	r := New(sink)
	r.Report(fixture.Fixture{ID: 1}, verify.Outcome{FixtureID: 1, Status: verify.Success, Output: "x"})
	r.Report(fixture.Fixture{ID: 3}, verify.Outcome{FixtureID: 3, Status: verify.Failure, Stage: verify.StageParse, Err: fmt.Errorf("bad")})
	r.Summary("postgres")
	if !sink.contains("note", "total=2 passed=1 failed=1") {
		t.Fatalf("missing summary: %+v", sink.entries)
	}
	if !sink.contains("error", "failed fixtures: 3") {
		t.Fatalf("missing failed fixture list: %+v", sink.entries)
	}
}
