package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gospc/adapters/report"
	"gospc/domain/dataset"
	"gospc/domain/run"
)

// inputFlags are shared by the table-driven commands
type inputFlags struct {
	sheet    string
	group    string
	asJSON   bool
	noStore  bool
	outDir   string
	gageFile string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX sheet name (default: Sheet1 or the first sheet)")
	cmd.Flags().StringVar(&f.group, "group", "", "Grouping column (default: SPC_GROUP_COLUMN)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the run as JSON instead of markdown")
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "Do not persist the run even when DATABASE_URL is set")
}

func newCapabilityCmd() *cobra.Command {
	var flags inputFlags
	cmd := &cobra.Command{
		Use:   "capability [data-file]",
		Short: "Compute Cp, Cpk and Cpm for every catalogued metric",
		Long: `Compute process capability for every metric present in both the input
table and the specification catalog. Metrics with fewer than two valid
observations or zero spread are reported as absent.

Example: gospc capability ga4_export.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableAnalysis(cmd.Context(), args[0], flags, func(e *env, ctx context.Context, t *dataset.Table) (*run.Run, error) {
				return e.svc.Capability(ctx, t)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newHypothesisCmd() *cobra.Command {
	var flags inputFlags
	cmd := &cobra.Command{
		Use:   "hypothesis [data-file]",
		Short: "Compare metrics across event groups with ANOVA or Kruskal-Wallis",
		Long: `Run the hypothesis battery over the configured metrics (SPC_METRICS),
grouped by the group column. ANOVA is used when every group has at least
two observations, Kruskal-Wallis otherwise. Significant ANOVA results are
followed by Tukey HSD.

Example: gospc hypothesis events.xlsx --group eventName`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableAnalysis(cmd.Context(), args[0], flags, func(e *env, ctx context.Context, t *dataset.Table) (*run.Run, error) {
				return e.svc.Hypothesis(ctx, t)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newGageCmd() *cobra.Command {
	var flags inputFlags
	cmd := &cobra.Command{
		Use:   "gage [study-file]",
		Short: "Decompose measurement variance into Gage R&R components",
		Long: `Read a long-format Gage study (operator, part, value columns; one row per
repeat) and print the Operator, Part, Operator by Part and Repeatability
variance components.

Example: gospc gage study.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), !flags.noStore)
			if err != nil {
				return err
			}
			defer e.Close()

			cube, layout, err := loadCube(args[0])
			if err != nil {
				return err
			}
			r, err := e.svc.Gage(cmd.Context(), args[0], cube)
			if r == nil {
				return err
			}
			if !flags.asJSON {
				fmt.Printf("Operators: %v\nParts: %v\n\n", layout.Operators, layout.Parts)
			}
			if perr := printRun(r, flags.asJSON); perr != nil {
				return perr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the run as JSON instead of markdown")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false, "Do not persist the run even when DATABASE_URL is set")
	return cmd
}

func newReportCmd() *cobra.Command {
	var flags inputFlags
	var formats []string
	cmd := &cobra.Command{
		Use:   "report [data-file]",
		Short: "Run the full battery and write report files",
		Long: `Run capability and hypothesis analysis (plus Gage R&R when --gage is given)
and write the report in every configured format (SPC_REPORT_FORMATS) under
the output directory.

Example: gospc report ga4_export.json --gage study.csv --out reports/2024-06`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), !flags.noStore)
			if err != nil {
				return err
			}
			defer e.Close()

			if flags.outDir == "" {
				flags.outDir = e.cfg.Report.OutputDir
			}
			if len(formats) == 0 {
				formats = e.cfg.Report.Formats
			}
			return runReport(cmd.Context(), e, args[0], flags, formats)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.outDir, "out", "", "Output directory (default: SPC_OUTPUT_DIR)")
	cmd.Flags().StringVar(&flags.gageFile, "gage", "", "Optional long-format Gage study file")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "Report formats: csv, xlsx, html, json")
	return cmd
}

func runTableAnalysis(ctx context.Context, path string, flags inputFlags, analyse func(*env, context.Context, *dataset.Table) (*run.Run, error)) error {
	e, err := setup(ctx, !flags.noStore)
	if err != nil {
		return err
	}
	defer e.Close()

	table, err := loadTable(path, flags.sheet, groupColumn(e, flags))
	if err != nil {
		return err
	}
	r, err := analyse(e, ctx, table)
	if r == nil {
		return err
	}
	if perr := printRun(r, flags.asJSON); perr != nil {
		return perr
	}
	return err
}

// runReport executes the battery and writes the report files
func runReport(ctx context.Context, e *env, path string, flags inputFlags, formats []string) error {
	table, err := loadTable(path, flags.sheet, groupColumn(e, flags))
	if err != nil {
		return err
	}

	var cube dataset.MeasurementCube
	if flags.gageFile != "" {
		if cube, _, err = loadCube(flags.gageFile); err != nil {
			return err
		}
	}

	r, runErr := e.svc.Battery(ctx, table, cube)
	if r == nil {
		return runErr
	}

	written, err := report.NewWriter(flags.outDir, formats).Write(r.Report)
	for _, p := range written {
		fmt.Println(p)
	}
	if err != nil {
		return err
	}
	fmt.Printf("run %s (%s)\n", r.ID, r.Fingerprint.Short())
	return runErr
}

func groupColumn(e *env, flags inputFlags) string {
	if flags.group != "" {
		return flags.group
	}
	return e.cfg.Analysis.GroupColumn
}

func printRun(r *run.Run, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Print(report.Markdown(r.Report))
	fmt.Printf("\nrun %s (%s)\n", r.ID, r.Fingerprint.Short())
	return nil
}
