package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"xmltrip/internal/config"
	"xmltrip/internal/dialect"
	"xmltrip/internal/fixture"
	"xmltrip/internal/report"
	"xmltrip/internal/runner"
	"xmltrip/internal/selector"
	"xmltrip/internal/uploader"
	"xmltrip/internal/util"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("xmltrip", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file (optional)")
	test := fs.String("test", "", "fixture to run: 1-4 or \"all\" (default from config, 2)")
	all := fs.Bool("all", false, "run every fixture")
	dialectName := fs.String("dialect", "", "SQL dialect override: postgres, mysql, tidb")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return exitUsage
	}
	if *dialectName != "" {
		cfg.Dialect = *dialectName
	}

	out, closer, err := util.OpenLogOutput(cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return exitUsage
	}
	if closer != nil {
		defer util.CloseWithErr(closer, "log file")
	}
	logger := util.NewLogger(out, util.LoggerOptions{Verbose: cfg.Logging.Verbose, Color: cfg.Logging.Color})
	util.SetDefault(logger)

	if data, err := yaml.Marshal(&cfg); err == nil {
		logger.Detailf("config:\n%s", string(data))
	}

	d, err := dialect.Lookup(cfg.Dialect)
	if err != nil {
		logger.Errorf("%v", err)
		return exitUsage
	}
	target, err := resolveTarget(*test, *all, cfg)
	if err != nil {
		logger.Errorf("%v", err)
		return exitUsage
	}
	up, err := uploader.New(cfg.Storage)
	if err != nil {
		logger.Errorf("failed to init uploader: %v", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(cfg, d, logger)
	r.SetUploader(up)
	tally, err := r.Run(ctx, target)
	return exitCode(tally, err, logger)
}

// resolveTarget applies -all, then -test, then the configured fixture.
func resolveTarget(test string, all bool, cfg config.Config) (selector.Target, error) {
	if all {
		return selector.All, nil
	}
	if test != "" {
		return selector.ParseTarget(test)
	}
	return selector.Single(fixture.ID(cfg.Fixture)), nil
}

func exitCode(tally report.Tally, err error, logger *util.Logger) int {
	switch {
	case errors.Is(err, selector.ErrInvalidSelection), errors.Is(err, fixture.ErrNotFound):
		logger.Errorf("%v", err)
		return exitUsage
	case err != nil:
		logger.Errorf("run aborted: %v", err)
		return exitFailure
	case !tally.OK():
		return exitFailure
	}
	return exitOK
}
