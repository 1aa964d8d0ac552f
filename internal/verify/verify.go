// Package verify runs the parse-then-generate round trip for one statement.
package verify

import (
	"fmt"
	"strings"
	"time"

	"xmltrip/internal/dialect"
	"xmltrip/internal/fixture"

	"github.com/pkg/errors"
)

// Status is the tag of an Outcome.
type Status int

const (
	// Success means both parse and generate completed.
	Success Status = iota
	// Failure means one of the stages returned an error.
	Failure
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failure"
}

// Stage names the round-trip step that failed.
type Stage string

const (
	// StageParse covers turning source text into a tree.
	StageParse Stage = "parse"
	// StageGenerate covers rendering the tree and generating SQL from it.
	StageGenerate Stage = "generate"
)

var (
	// ErrParse matches failures raised by the dialect parser.
	ErrParse = errors.New("parse failure")
	// ErrGenerate matches failures raised while generating SQL from a parsed tree.
	ErrGenerate = errors.New("generate failure")

	errEmptyOutput = errors.New("generator returned empty SQL")
)

// StageError records which stage of the round trip failed and why.
type StageError struct {
	Stage   Stage
	Dialect string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Dialect, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is matches ErrParse or ErrGenerate according to the failed stage.
func (e *StageError) Is(target error) bool {
	switch target {
	case ErrParse:
		return e.Stage == StageParse
	case ErrGenerate:
		return e.Stage == StageGenerate
	}
	return false
}

// Outcome is the result of verifying one statement.
// Output is set iff Status is Success; Err and Stage are set iff Status is Failure.
// AST is set whenever parsing succeeded, including generate failures.
type Outcome struct {
	FixtureID fixture.ID
	Dialect   string
	Input     string
	Status    Status
	AST       string
	Output    string
	Stage     Stage
	Err       error
	Elapsed   time.Duration
}

// OK reports whether the round trip succeeded.
func (o Outcome) OK() bool {
	return o.Status == Success
}

// Verifier runs round trips against a single dialect.
type Verifier struct {
	dialect dialect.Dialect
}

// New returns a Verifier bound to d.
func New(d dialect.Dialect) *Verifier {
	return &Verifier{dialect: d}
}

// Dialect returns the bound dialect.
func (v *Verifier) Dialect() dialect.Dialect {
	return v.dialect
}

// Fixture verifies f and tags the outcome with its id.
func (v *Verifier) Fixture(f fixture.Fixture) Outcome {
	out := v.Verify(f.SQL)
	out.FixtureID = f.ID
	return out
}

// Verify parses sql and generates SQL from the resulting tree.
func (v *Verifier) Verify(sql string) Outcome {
	return Verify(sql, v.dialect)
}

// Verify runs the round trip of sql against d.
func Verify(sql string, d dialect.Dialect) (out Outcome) {
	start := time.Now()
	out = Outcome{Dialect: d.Name(), Input: sql}
	defer func() {
		out.Elapsed = time.Since(start)
	}()

	var tree dialect.Tree
	err := guard(func() error {
		var err error
		tree, err = d.Parse(sql)
		return err
	})
	if err == nil && tree == nil {
		err = errors.New("parser returned no tree")
	}
	if err != nil {
		return fail(out, StageParse, err)
	}

	var generated string
	err = guard(func() error {
		out.AST = tree.String()
		var err error
		generated, err = tree.SQL()
		return err
	})
	if err == nil && strings.TrimSpace(generated) == "" {
		err = errEmptyOutput
	}
	if err != nil {
		return fail(out, StageGenerate, err)
	}
	out.Status = Success
	out.Output = generated
	return out
}

func fail(out Outcome, stage Stage, err error) Outcome {
	out.Status = Failure
	out.Stage = stage
	out.Err = errors.WithStack(&StageError{Stage: stage, Dialect: out.Dialect, Err: err})
	return out
}

// guard converts a panic inside the collaborator into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
