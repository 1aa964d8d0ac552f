package main

import (
	"context"
	"io"
	"testing"

	"xmltrip/internal/config"
	"xmltrip/internal/fixture"
	"xmltrip/internal/report"
	"xmltrip/internal/selector"
	"xmltrip/internal/util"
	"xmltrip/internal/verify"

	"github.com/pkg/errors"
)

func TestResolveTarget(t *testing.T) {
	cfg := config.Config{Fixture: 3}
	cases := []struct {
		test    string
		all     bool
		want    selector.Target
		wantErr bool
	}{
		{want: selector.Single(fixture.MultipleNamespaces)},
		{test: "1", want: selector.Single(fixture.NamespacedColumns)},
		{test: "all", want: selector.All},
		{test: "4", all: true, want: selector.All},
		{test: "abc", wantErr: true},
	}
	for _, c := range cases {
		got, err := resolveTarget(c.test, c.all, cfg)
		if c.wantErr {
			if err == nil {
				t.Fatalf("resolveTarget(%q, %v) expected error", c.test, c.all)
			}
			continue
		}
		if err != nil {
			t.Fatalf("resolveTarget(%q, %v): %v", c.test, c.all, err)
		}
		if got != c.want {
			t.Fatalf("resolveTarget(%q, %v)=%v, want %v", c.test, c.all, got, c.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	logger := util.NewLogger(io.Discard, util.LoggerOptions{})
	var passed, failed report.Tally
	passed.Add(verify.Outcome{FixtureID: 2, Status: verify.Success, Output: "x"})
	failed.Add(verify.Outcome{FixtureID: 2, Status: verify.Failure, Err: errors.New("bad")})

	cases := []struct {
		name  string
		tally report.Tally
		err   error
		want  int
	}{
		{name: "ok", tally: passed, want: exitOK},
		{name: "fixture failure", tally: failed, want: exitFailure},
		{name: "invalid selection", err: errors.Wrap(selector.ErrInvalidSelection, "fixture 9"), want: exitUsage},
		{name: "not found", err: errors.Wrap(fixture.ErrNotFound, "id 9"), want: exitUsage},
		{name: "interrupted", tally: passed, err: context.Canceled, want: exitFailure},
	}
	for _, c := range cases {
		if got := exitCode(c.tally, c.err, logger); got != c.want {
			t.Fatalf("%s: exitCode=%d, want %d", c.name, got, c.want)
		}
	}
}

func TestRunRejectsInvalidFixture(t *testing.T) {
	if code := run([]string{"-test", "7"}); code != exitUsage {
		t.Fatalf("expected usage exit code, got %d", code)
	}
}

func TestRunUnknownDialect(t *testing.T) {
	if code := run([]string{"-dialect", "oracle"}); code != exitUsage {
		t.Fatalf("expected usage exit code, got %d", code)
	}
}

func TestRunDefaultFixture(t *testing.T) {
	if code := run([]string{"-config", ""}); code != exitOK {
		t.Fatalf("expected default fixture to pass, got exit code %d", code)
	}
}
