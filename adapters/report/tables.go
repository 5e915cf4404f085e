package report

import (
	"math"
	"strconv"

	"gospc/domain/quality"
)

// Sheet is one tabular section of a report. Cells hold string or float64 values.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Sheets returns the report sections in output order. The Gage sheet is
// present only when the report carries a decomposition.
func Sheets(r *quality.BatteryReport) []Sheet {
	sheets := []Sheet{
		CapabilitySheet(r.Capability),
		ParetoSheet(r.Pareto),
		HypothesisSheet(r.Hypothesis),
		PostHocSheet(r.Hypothesis),
	}
	if r.Gage != nil {
		sheets = append(sheets, GageSheet(*r.Gage))
	}
	return sheets
}

// CapabilitySheet lists every metric outcome, absent ones with their reason
func CapabilitySheet(outcomes []quality.CapabilityOutcome) Sheet {
	s := Sheet{
		Name:    "Capability",
		Headers: []string{"Metric", "Status", "Cp", "Cpk", "Cpm", "Mean", "Std", "N", "LSL", "Target", "USL", "Meets 1.33", "Reason"},
	}
	for _, o := range outcomes {
		if o.Result == nil {
			s.Rows = append(s.Rows, []interface{}{o.Metric, string(o.Status), "", "", "", "", "", "", "", "", "", "", o.Reason})
			continue
		}
		m := o.Result
		s.Rows = append(s.Rows, []interface{}{
			o.Metric, string(o.Status), m.Cp, m.Cpk, m.Cpm, m.Mean, m.Std, float64(m.N),
			m.LSL, m.Target, m.USL, yesNo(m.MeetsTarget()), o.Reason,
		})
	}
	return s
}

// ParetoSheet is the Cp ranking with its cumulative share
func ParetoSheet(entries []quality.ParetoEntry) Sheet {
	s := Sheet{Name: "Pareto", Headers: []string{"Metric", "Cp", "Cumulative %"}}
	for _, e := range entries {
		s.Rows = append(s.Rows, []interface{}{e.Metric, e.Cp, e.CumulativePercent})
	}
	return s
}

// HypothesisSheet holds one omnibus row per metric
func HypothesisSheet(outcomes []quality.HypothesisOutcome) Sheet {
	s := Sheet{
		Name:    "Hypothesis",
		Headers: []string{"Metric", "Status", "Test", "Statistic", "P-Value", "Reject", "Conclusion"},
	}
	for _, o := range outcomes {
		if o.Result == nil {
			s.Rows = append(s.Rows, []interface{}{o.Metric, string(o.Status), "", "", "", "", o.Reason})
			continue
		}
		res := o.Result
		omnibus := res.Omnibus()
		if omnibus == nil {
			s.Rows = append(s.Rows, []interface{}{o.Metric, string(o.Status), string(res.Test), "", "", "", res.Error})
			continue
		}
		s.Rows = append(s.Rows, []interface{}{
			o.Metric, string(o.Status), string(res.Test), omnibus.Statistic, omnibus.PValue,
			yesNo(omnibus.RejectNull), omnibus.Conclusion,
		})
	}
	return s
}

// PostHocSheet flattens every Tukey comparison across metrics
func PostHocSheet(outcomes []quality.HypothesisOutcome) Sheet {
	s := Sheet{
		Name:    "PostHoc",
		Headers: []string{"Metric", "Group A", "Group B", "Mean Diff", "P-Adj", "Lower", "Upper", "Reject"},
	}
	for _, o := range outcomes {
		if o.Result == nil || o.Result.PostHoc == nil {
			continue
		}
		for _, c := range o.Result.PostHoc.Comparisons {
			s.Rows = append(s.Rows, []interface{}{
				o.Metric, c.GroupA, c.GroupB, c.MeanDiff, c.PAdj, c.Lower, c.Upper, yesNo(c.Significant),
			})
		}
	}
	return s
}

// GageSheet lists the sources in the fixed Operator, Part, Operator by Part, Repeatability order
func GageSheet(g quality.GageComponents) Sheet {
	s := Sheet{Name: "Gage", Headers: []string{"Source", "Variance", "Std Dev", "% Contribution"}}
	contrib := g.Contributions()
	for i, name := range quality.GageSources {
		s.Rows = append(s.Rows, []interface{}{name, g.Variances[i], g.StdDevs[i], contrib[i]})
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// formatCell renders a cell for text outputs
func formatCell(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return fToStr(x, 4)
	default:
		return ""
	}
}

func fToStr(x float64, decimals int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return strconv.FormatFloat(x, 'f', 0, 64)
	}
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', -1, 64)
}
