package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"gospc/internal"
	"gospc/internal/config"
)

func newScheduleCmd() *cobra.Command {
	var flags inputFlags
	var spec string
	var runNow bool
	cmd := &cobra.Command{
		Use:   "schedule [data-file]",
		Short: "Regenerate the report on a cron schedule",
		Long: `Re-read the data file and write a fresh report on every tick of a
standard five-field cron expression (--cron or REPORT_SCHEDULE). Each run
writes into a timestamped directory under the output directory.

Example: gospc schedule ga4_export.json --cron "0 6 * * 1"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx, !flags.noStore)
			if err != nil {
				return err
			}
			defer e.Close()

			if spec == "" {
				spec = e.cfg.Report.Schedule
			}
			if spec == "" {
				return fmt.Errorf("no schedule: set --cron or REPORT_SCHEDULE")
			}
			if flags.outDir == "" {
				flags.outDir = e.cfg.Report.OutputDir
			}

			logger := internal.DefaultLogger.With("Scheduler")
			job := func() {
				jobFlags := flags
				jobFlags.outDir = filepath.Join(flags.outDir, time.Now().Format("20060102-150405"))
				if err := runReport(ctx, e, args[0], jobFlags, e.cfg.Report.Formats); err != nil {
					logger.Error("scheduled report failed: %v", err)
					return
				}
				logger.Info("report written to %s", jobFlags.outDir)
			}

			return runSchedule(ctx, spec, job, runNow)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&spec, "cron", "", "Cron expression (default: REPORT_SCHEDULE)")
	cmd.Flags().StringVar(&flags.outDir, "out", "", "Output directory (default: SPC_OUTPUT_DIR)")
	cmd.Flags().StringVar(&flags.gageFile, "gage", "", "Optional long-format Gage study file")
	cmd.Flags().BoolVar(&runNow, "now", false, "Also run once immediately")
	return cmd
}

// runSchedule runs job on spec until ctx is cancelled, letting a running
// job finish before returning
func runSchedule(ctx context.Context, spec string, job func(), runNow bool) error {
	c := cron.New(
		cron.WithParser(config.CronParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		cron.WithLogger(cron.PrintfLogger(log.Default())),
	)
	id, err := c.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	if runNow {
		job()
	}
	c.Start()
	log.Printf("[Scheduler] next report at %s", c.Entry(id).Next.Format(time.RFC3339))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
