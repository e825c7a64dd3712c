// Package report turns an assembled analysis into its two output forms:
// a JSON payload for downstream tooling and a styled terminal summary for
// the instructor.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"exitlens/internal/analysis"
	"exitlens/internal/knowledge"
	"exitlens/internal/quality"
	"exitlens/internal/ticket"
)

// payload is the full JSON document, report plus self-assessment.
type payload struct {
	*analysis.Report
	Quality    *quality.Evaluation   `json:"quality,omitempty"`
	Comparison *knowledge.Comparison `json:"comparison,omitempty"`
}

// WriteJSON writes the report payload as indented JSON.
func WriteJSON(w io.Writer, r *analysis.Report, eval *quality.Evaluation, cmp *knowledge.Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload{Report: r, Quality: eval, Comparison: cmp}); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

var categoryHeadings = map[ticket.Category]string{
	ticket.Learning: "What students learned",
	ticket.Question: "Open questions",
	ticket.Interest: "What sparked interest",
}

// Render produces the instructor-facing terminal summary. eval and cmp
// are optional.
func Render(r *analysis.Report, eval *quality.Evaluation, cmp *knowledge.Comparison) string {
	var sections []string

	header := titleStyle.Render("Exit Ticket Analysis") + "\n" +
		dimStyle.Render(fmt.Sprintf("%d students · model %s · run %s",
			r.StudentCount, r.Model, shortID(r.RunID)))
	sections = append(sections, header)

	for _, cat := range ticket.Categories() {
		cr := r.Category(cat)
		if cr == nil {
			continue
		}
		sections = append(sections, cardStyle.Render(renderCategory(cr)))
	}

	if len(r.Recommendations) > 0 {
		var b strings.Builder
		b.WriteString(sectionStyle.Render("Recommendations"))
		for _, rec := range r.Recommendations {
			b.WriteString("\n" + bodyStyle.Render("• "+rec))
		}
		sections = append(sections, b.String())
	}

	if eval != nil {
		sections = append(sections, renderQuality(eval, cmp))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func renderCategory(cr *analysis.CategoryReport) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(categoryHeadings[cr.Category]))

	if !cr.HasData {
		b.WriteString("\n" + dimStyle.Render("insufficient data"))
		return b.String()
	}

	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%d analyzed, %d excluded", cr.Analyzed, cr.Excluded)))

	if len(cr.Themes) > 0 {
		var labels []string
		for _, th := range cr.Themes {
			labels = append(labels, strings.Join(th.Terms, "/"))
		}
		b.WriteString("\n" + bodyStyle.Render("Themes: "+strings.Join(labels, ", ")))
	}

	for i, s := range cr.Selected {
		if i >= 5 {
			b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("… and %d more selected", len(cr.Selected)-i)))
			break
		}
		score := scoreStyle(s.CombinedScore).Render(fmt.Sprintf("%5.1f", s.CombinedScore))
		b.WriteString(fmt.Sprintf("\n%s  %s %s", score,
			dimStyle.Render(s.StudentID), bodyStyle.Render(truncate(s.Text, 70))))
	}

	b.WriteString("\n" + renderBucket(cr.Cohorts.Above) + "  " + renderBucket(cr.Cohorts.Below))
	return b.String()
}

func renderBucket(bk analysis.CohortBucket) string {
	return fmt.Sprintf("%s %s",
		scoreStyle(bk.Percentage).Render(fmt.Sprintf("%.1f%%", bk.Percentage)),
		dimStyle.Render(bk.Label))
}

func renderQuality(eval *quality.Evaluation, cmp *knowledge.Comparison) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Analysis quality"))
	b.WriteString("\n" + scoreStyle(eval.OverallScore).Render(fmt.Sprintf("%.1f", eval.OverallScore)) +
		" " + dimStyle.Render(eval.Feedback))
	if cmp != nil && cmp.Trend != "no_data" {
		arrow := "→"
		if cmp.IsImproving {
			arrow = "↑"
		} else if cmp.Improvement < 0 {
			arrow = "↓"
		}
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%s vs recent average %.1f (%s)",
			arrow, cmp.RecentAverage, cmp.Trend)))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
