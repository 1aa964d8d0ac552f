// Package runner drives fixture selection, verification and reporting for one run.
package runner

import (
	"context"

	"xmltrip/internal/config"
	"xmltrip/internal/dialect"
	"xmltrip/internal/report"
	"xmltrip/internal/selector"
	"xmltrip/internal/uploader"
	"xmltrip/internal/verify"
)

// Logger is the leveled sink used by a run.
type Logger interface {
	report.Sink
	Warnf(format string, args ...any)
}

// Runner executes selected fixtures one at a time against a single dialect.
type Runner struct {
	cfg       config.Config
	log       Logger
	verifier  *verify.Verifier
	reporter  *report.Reporter
	artifacts *report.ArtifactWriter
	uploader  uploader.Uploader
}

// New creates a runner for d. Artifacts are written when cfg.Report is enabled.
func New(cfg config.Config, d dialect.Dialect, log Logger) *Runner {
	r := &Runner{
		cfg:      cfg,
		log:      log,
		verifier: verify.New(d),
		reporter: report.New(log),
		uploader: uploader.NoopUploader{},
	}
	if cfg.Report.Enabled() {
		r.artifacts = report.NewArtifactWriter(cfg.Report.OutputDir, cfg.Report.Archive)
	}
	return r
}

// SetUploader sets the backend used to publish run artifacts.
func (r *Runner) SetUploader(u uploader.Uploader) {
	if u != nil {
		r.uploader = u
	}
}

// Run resolves target and verifies each selected fixture in registry order.
// Selection errors abort before any fixture is parsed. Fixture failures are
// recorded in the returned tally and never stop the run. Cancellation is
// observed between fixtures; the partial tally is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, target selector.Target) (report.Tally, error) {
	fixtures, err := selector.Select(target)
	if err != nil {
		return report.Tally{}, err
	}
	dialectName := r.verifier.Dialect().Name()
	r.log.Infof("Starting XML parsing tests target=%s dialect=%s fixtures=%d", target, dialectName, len(fixtures))

	var runErr error
	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			r.log.Warnf("run interrupted before test %d: %v", f.ID, err)
			runErr = err
			break
		}
		r.reporter.Start(f)
		r.log.Detailf("Calling %s parser...", dialectName)
		r.reporter.Report(f, r.verifier.Fixture(f))
	}
	r.reporter.Summary(dialectName)
	tally := r.reporter.Tally()

	if r.artifacts != nil {
		r.persist(ctx, target, tally)
	}
	return tally, runErr
}

func (r *Runner) persist(ctx context.Context, target selector.Target, tally report.Tally) {
	run, err := r.artifacts.NewRun()
	if err != nil {
		r.log.Warnf("create run dir failed: %v", err)
		return
	}
	summary, err := r.artifacts.WriteTally(run, r.verifier.Dialect().Name(), target.String(), r.cfg.RunInfo, tally)
	if err != nil {
		r.log.Warnf("write run artifacts failed dir=%s err=%v", run.Dir, err)
		return
	}
	r.log.Highlightf("run artifacts written to %s", run.Dir)
	if !r.uploader.Enabled() {
		return
	}
	location, err := r.uploader.UploadDir(ctx, run.Dir)
	if err != nil {
		r.log.Warnf("upload run artifacts failed dir=%s err=%v", run.Dir, err)
		return
	}
	summary.UploadLocation = location
	if err := r.artifacts.WriteSummary(run, summary); err != nil {
		r.log.Warnf("rewrite summary failed: %v", err)
	}
	r.log.Highlightf("run artifacts uploaded to %s", location)
}
