package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gospc/domain/quality"
)

const reportTitle = "Statistical Quality Control Report"

// Markdown renders the report as a markdown document
func Markdown(r *quality.BatteryReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", reportTitle)
	fmt.Fprintf(&b, "- Source: %s\n", r.Source)
	if !r.Period.IsZero() {
		fmt.Fprintf(&b, "- Period: %s\n", r.Period.String())
	}
	fmt.Fprintf(&b, "- Rows: %d\n", r.Rows)
	fmt.Fprintf(&b, "- Significance level: %s\n", fToStr(r.Alpha, 4))
	fmt.Fprintf(&b, "- Test policy: %s\n", r.Policy)
	tally := quality.Tally(r.Outcomes())
	fmt.Fprintf(&b, "- Outcomes: %d ok, %d absent, %d error\n\n",
		tally[quality.StatusOK], tally[quality.StatusAbsent], tally[quality.StatusError])

	b.WriteString("## Process Capability\n\n")
	writeMarkdownTable(&b, CapabilitySheet(r.Capability))
	if below := belowTarget(r.Capability); len(below) > 0 {
		fmt.Fprintf(&b, "Cpk below the %.2f capability target: %s\n\n", quality.CapabilityTarget, strings.Join(below, ", "))
	}

	b.WriteString("## Pareto of Cp\n\n")
	writeMarkdownTable(&b, ParetoSheet(r.Pareto))

	b.WriteString("## Hypothesis Tests\n\n")
	writeMarkdownTable(&b, HypothesisSheet(r.Hypothesis))
	for _, o := range r.Hypothesis {
		if o.Result == nil {
			continue
		}
		writeHypothesisDetail(&b, o.Result)
	}

	if post := PostHocSheet(r.Hypothesis); len(post.Rows) > 0 {
		b.WriteString("## Post-hoc Comparisons (Tukey HSD)\n\n")
		writeMarkdownTable(&b, post)
	}

	if r.Gage != nil {
		b.WriteString("## Gage R&R\n\n")
		writeMarkdownTable(&b, GageSheet(*r.Gage))
		b.WriteString("```\n")
		b.WriteString(r.Gage.Summary())
		b.WriteString("```\n")
	}

	return b.String()
}

func writeHypothesisDetail(b *strings.Builder, res *quality.HypothesisTestResult) {
	fmt.Fprintf(b, "### %s\n\n", res.Metric)
	if len(res.Groups) > 0 {
		s := Sheet{Headers: []string{"Group", "N", "Mean", "Median", "Std", "Min", "Max"}}
		for _, g := range res.Groups {
			s.Rows = append(s.Rows, []interface{}{g.Group, float64(g.N), g.Mean, g.Median, g.Std, g.Min, g.Max})
		}
		writeMarkdownTable(b, s)
	}
	if a := res.Assumptions; a != nil {
		fmt.Fprintf(b, "- Normality (%s): p = %s, %s\n", a.Normality.Test, fToStr(a.Normality.PValue, 4), passFail(a.Normality))
		fmt.Fprintf(b, "- Equal variance (%s): p = %s, %s\n", a.EqualVariance.Test, fToStr(a.EqualVariance.PValue, 4), passFail(a.EqualVariance))
	}
	if len(res.SkippedForDensity) > 0 {
		fmt.Fprintf(b, "- No density curve (zero variance or single value): %s\n", strings.Join(res.SkippedForDensity, ", "))
	}
	b.WriteString("\n")
}

func passFail(c quality.AssumptionCheck) string {
	if c.Note != "" {
		return c.Note
	}
	if c.Passed {
		return "passed"
	}
	return "violated"
}

func belowTarget(outcomes []quality.CapabilityOutcome) []string {
	var out []string
	for _, o := range outcomes {
		if o.Result != nil && !o.Result.MeetsTarget() {
			out = append(out, o.Metric)
		}
	}
	return out
}

func writeMarkdownTable(b *strings.Builder, s Sheet) {
	if len(s.Rows) == 0 {
		b.WriteString("_No results._\n\n")
		return
	}
	b.WriteString("| " + strings.Join(s.Headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(s.Headers)) + "\n")
	for _, row := range s.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strings.ReplaceAll(formatCell(v), "|", "\\|")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

// HTML renders the markdown report as a complete HTML page.
// Raw HTML in labels, metric names or the source is dropped.
func HTML(r *quality.BatteryReport) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML | html.Safelink,
		Title: reportTitle,
	})
	return markdown.ToHTML([]byte(Markdown(r)), p, renderer)
}
