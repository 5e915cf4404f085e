package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gospc/adapters/report"
	"gospc/internal/testkit"
)

func newDemoCmd() *cobra.Command {
	var seed int64
	var outDir string
	var events int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the full battery on a synthetic GA4 dataset",
		Long: `Generate a seeded synthetic GA4 table (eventName plus the eight catalogued
metrics) and a Gage study, run every analysis and write the report. Useful
for checking an installation without real data.

Example: gospc demo --seed 7 --out demo_report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			cfg := testkit.DefaultGA4Config()
			cfg.Seed = seed
			if events >= 2 && events < len(cfg.Events) {
				cfg.Events = cfg.Events[:events]
			}
			table, err := testkit.NewGA4DataGenerator(cfg).GenerateTable()
			if err != nil {
				return err
			}
			gageCfg := testkit.DefaultGageConfig()
			gageCfg.Seed = seed
			cube := testkit.GenerateCube(gageCfg)

			r, err := e.svc.Battery(cmd.Context(), table, cube)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = e.cfg.Report.OutputDir
			}
			written, err := report.NewWriter(outDir, e.cfg.Report.Formats).Write(r.Report)
			if err != nil {
				return err
			}

			fmt.Print(report.Markdown(r.Report))
			fmt.Println()
			for _, p := range written {
				fmt.Println(p)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for the synthetic data")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: SPC_OUTPUT_DIR)")
	cmd.Flags().IntVar(&events, "events", 0, "Use only the first N synthetic events (min 2)")
	return cmd
}
