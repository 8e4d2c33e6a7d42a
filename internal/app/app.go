// Package app wires configuration, the terminology database, the delta
// service and the report writer into one job run.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/levi/internal/adapter/postgres"
	"github.com/heartmarshall/levi/internal/adapter/postgres/terminology"
	"github.com/heartmarshall/levi/internal/collector"
	"github.com/heartmarshall/levi/internal/config"
	"github.com/heartmarshall/levi/internal/domain"
	"github.com/heartmarshall/levi/internal/refset"
	"github.com/heartmarshall/levi/internal/report"
	"github.com/heartmarshall/levi/internal/service/delta"
	"github.com/heartmarshall/levi/pkg/ctxutil"
)

// Exit codes of the levi command.
const (
	ExitOK            = 0
	ExitFailed        = 1
	ExitConfigInvalid = 2
	ExitCancelled     = 3
)

// Outcome is what a job run produced.
type Outcome struct {
	Result    *collector.Result
	Artifacts report.Artifacts
}

// RunJob validates cfg for job, connects to the terminology database when
// the job needs it, runs the job and writes the report of a successful run.
//
// Outcome always carries a finalized result. When the run could not start
// (invalid configuration, unreachable database) that result is unsuccessful
// and the cause is also returned as the error, as it is when the report of a
// successful run could not be written.
func RunJob(ctx context.Context, cfg *config.Config, job domain.JobType, logger *slog.Logger) (*Outcome, error) {
	start := time.Now()
	runID := uuid.NewString()

	if err := cfg.ValidateFor(job); err != nil {
		return notStarted(job, start, runID, collector.Failed(err)), err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	ctx = ctxutil.WithRunID(ctx, runID)
	ctx = ctxutil.WithJob(ctx, string(job))

	logger.InfoContext(ctx, "starting job",
		slog.String("version", BuildVersion()),
		slog.String("config", cfg.String()),
	)

	svc := delta.NewService(logger, refset.Default(), nil, nil)
	if job.NeedsDatabase() {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			if ctx.Err() != nil {
				return notStarted(job, start, runID, collector.Cancelled()), nil
			}
			if !errors.Is(err, domain.ErrDatabaseUnavailable) {
				err = fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, err)
			}
			return notStarted(job, start, runID, collector.Failed(err)), err
		}
		defer pool.Close()

	svc = delta.NewService(logger, refset.Default(), terminology.New(pool), postgres.NewTxManager(pool))
	}

	result := svc.Run(ctx, job, settingsFrom(cfg))
	out := &Outcome{Result: result}
	if !result.Successful {
		return out, nil
	}

	artifacts, err := report.Write(cfg.Paths.OutputDirectory, result)
	if err != nil {
		return out, err
	}
	out.Artifacts = artifacts

	logger.InfoContext(ctx, "report written",
		slog.String("workbook", artifacts.Workbook),
		slog.String("json", artifacts.JSON),
	)
	return out, nil
}

// notStarted finalizes the result of a run that ended before its job began.
func notStarted(job domain.JobType, start time.Time, runID string, outcome collector.Outcome) *Outcome {
	c := collector.New(job, start, collector.WithRunID(runID))
	// A fresh collector cannot already be finalized.
	result, _ := c.Finalize(time.Now(), outcome)
	return &Outcome{Result: result}
}

func settingsFrom(cfg *config.Config) delta.Settings {
	return delta.Settings{
		CountryCode:      cfg.Settings.CountryCode,
		TransformEszett:  cfg.Settings.TransformEszett,
		RegexCheck:       cfg.Settings.RegexCheck,
		FallbackLanguage: cfg.Settings.FallbackLanguageCode,
		CurrentFile:      cfg.Paths.CurrentFile,
		PreviousFile:     cfg.Paths.PreviousFile,
	}
}

// ExitCode maps the outcome of RunJob to the process exit code.
func ExitCode(out *Outcome, err error) int {
	switch {
	case errors.Is(err, domain.ErrConfigurationInvalid):
		return ExitConfigInvalid
	case err != nil:
		return ExitFailed
	case out == nil || out.Result == nil:
		return ExitFailed
	case out.Result.Cancelled:
		return ExitCancelled
	case out.Result.Successful:
		return ExitOK
	case out.Result.ErrorKind == domain.ErrorKind(domain.ErrConfigurationInvalid):
		return ExitConfigInvalid
	}
	return ExitFailed
}
