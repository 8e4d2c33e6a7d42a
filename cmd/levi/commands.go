package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/levi/internal/app"
	"github.com/heartmarshall/levi/internal/config"
	"github.com/heartmarshall/levi/internal/domain"
)

var jobDescriptions = map[domain.JobType]string{
	domain.JobOverview:       "Summarize terms, concepts and validation findings per language (no database)",
	domain.JobDescAdditions:  "List terms of the current file that are not yet active in the extension",
	domain.JobDescInactivate: "List active descriptions the current file drops or marks inactive",
	domain.JobFullDelta:      "Classify every term as addition, change, inactivation or reactivation",
	domain.JobEszettCheck:    "Warn about active German descriptions that still spell ß",
	domain.JobNotPublished:   "List terms of the previous file that were never published",
}

// execute runs the command line in args and returns the exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := app.ExitOK
	root := newRootCmd(&code)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "levi: %v\n", err)
		return app.ExitConfigInvalid
	}
	return code
}

func newRootCmd(code *int) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "levi",
		Short:         "Delta checker for SNOMED CT translation extensions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f.register(root)

	for _, job := range domain.AllJobTypes() {
		root.AddCommand(&cobra.Command{
			Use:   string(job),
			Short: jobDescriptions[job],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				*code = runJob(cmd, f, job)
				return nil
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	})

	return root
}

func runJob(cmd *cobra.Command, f *flags, job domain.JobType) int {
	cfg, err := config.Load(f.configPath, f.options(cmd)...)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "levi: %v\n", err)
		return app.ExitConfigInvalid
	}

	logger := app.NewLogger(cfg.Log)

	out, err := app.RunJob(cmd.Context(), cfg, job, logger)
	if err != nil {
		logger.Error("run job", slog.String("job", string(job)), slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrConfigurationInvalid) {
			fmt.Fprintf(cmd.ErrOrStderr(), "levi: %v\n", err)
		}
	}
	if out != nil && out.Result != nil {
		printSummary(cmd.OutOrStdout(), out)
	}
	return app.ExitCode(out, err)
}

func printSummary(w io.Writer, out *app.Outcome) {
	r := out.Result
	status := "successful"
	switch {
	case r.Cancelled:
		status = "cancelled"
	case !r.Successful:
		status = "failed: " + r.ErrorMessage
	}

	fmt.Fprintf(w, "%s %s (run %s, %d ms)\n", r.JobType, status, r.RunID, r.ExecutionTimeMs)
	if r.JobType == domain.JobOverview {
		for _, s := range r.Overview {
			fmt.Fprintf(w, "  %s (%s): %d terms, %d concepts, %d flagged\n", s.Language, s.RefsetID, s.Terms, s.Concepts, s.Flagged)
		}
	} else {
		fmt.Fprintf(w, "  additions %d, changes %d, inactivations %d, reactivations %d, not published %d\n",
			r.AdditionsCount, r.ChangesCount, r.InactivationsCount, r.ReactivationsCount, r.NotPublishedCount)
	}
	fmt.Fprintf(w, "  errors %d, warnings %d\n", r.ErrorsCount, r.WarningsCount)

	if out.Artifacts.Workbook != "" {
		fmt.Fprintf(w, "  report: %s\n", out.Artifacts.Workbook)
		fmt.Fprintf(w, "  result: %s\n", out.Artifacts.JSON)
	}
}
