package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gospc",
		Short:        "Statistical quality control for GA4 web-analytics metrics",
		SilenceUsage: true,
		Long: `gospc computes process capability (Cp, Cpk, Cpm), Gage R&R variance
components and group-comparison hypothesis tests over GA4 exports.

Configuration is read from the environment (and an optional .env file):
  SPC_ALPHA, SPC_TEST_POLICY, SPC_WORKERS, SPC_GROUP_COLUMN, SPC_SPEC_FILE,
  SPC_METRICS, SPC_OUTPUT_DIR, SPC_REPORT_FORMATS, REPORT_SCHEDULE,
  DATABASE_URL, DATABASE_DRIVER, PORT, GIN_MODE, LOG_LEVEL`,
	}

	rootCmd.AddCommand(
		newCapabilityCmd(),
		newHypothesisCmd(),
		newGageCmd(),
		newReportCmd(),
		newScheduleCmd(),
		newServeCmd(),
		newMigrateCmd(),
		newDemoCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
