package quality

import (
	"strings"
	"testing"

	"exitlens/internal/analysis"
	"exitlens/internal/ticket"
)

func fullReport() *analysis.Report {
	return &analysis.Report{
		Categories: []analysis.CategoryReport{
			{
				Category: ticket.Learning,
				HasData:  true,
				Analyzed: 25,
				Concepts: []string{"mitosis", "meiosis", "chromosomes", "spindle fibers", "cytokinesis"},
				Themes:   []analysis.Theme{{ID: 0}, {ID: 1}},
			},
			{
				Category: ticket.Question,
				HasData:  true,
				Analyzed: 18,
				Themes:   []analysis.Theme{{ID: 0}, {ID: 1}},
			},
			{
				Category: ticket.Interest,
				HasData:  true,
				Analyzed: 20,
				Themes:   []analysis.Theme{{ID: 0}},
			},
		},
	}
}

func TestEvaluate_FullReport(t *testing.T) {
	eval := Evaluate(fullReport())

	if eval.Dimensions["depth"] != 90 {
		t.Errorf("depth = %g, want 90 for 63 responses", eval.Dimensions["depth"])
	}
	if eval.Dimensions["concept_extraction"] != 90 {
		t.Errorf("concept_extraction = %g, want 90 for 5 concepts", eval.Dimensions["concept_extraction"])
	}
	if eval.Dimensions["coverage"] != 100 {
		t.Errorf("coverage = %g, want 100", eval.Dimensions["coverage"])
	}
	if eval.Dimensions["actionability"] != 100 {
		t.Errorf("actionability = %g, want 100", eval.Dimensions["actionability"])
	}
	if eval.Feedback != "Analysis meets quality standards" {
		t.Errorf("feedback = %q", eval.Feedback)
	}
	if eval.OverallScore < 80 {
		t.Errorf("overall = %g, want >= 80", eval.OverallScore)
	}
}

func TestEvaluate_SparseReport(t *testing.T) {
	r := &analysis.Report{
		Categories: []analysis.CategoryReport{
			{Category: ticket.Learning, HasData: true, Analyzed: 4, Concepts: []string{"one"}},
			{Category: ticket.Question},
			{Category: ticket.Interest},
		},
	}
	eval := Evaluate(r)

	if eval.Dimensions["depth"] != 30 {
		t.Errorf("depth = %g, want 30 for 4 responses", eval.Dimensions["depth"])
	}
	if got := eval.Dimensions["coverage"]; got < 33.2 || got > 33.4 {
		t.Errorf("coverage = %g, want one third", got)
	}
	if !strings.Contains(eval.Feedback, "deeper") {
		t.Errorf("feedback should flag depth, got %q", eval.Feedback)
	}
}

func TestEvaluate_EmptyReport(t *testing.T) {
	eval := Evaluate(&analysis.Report{})
	if eval.Dimensions["coverage"] != 0 {
		t.Errorf("coverage = %g, want 0", eval.Dimensions["coverage"])
	}
	if eval.OverallScore <= 0 {
		t.Errorf("overall = %g, baseline dimensions should keep it positive", eval.OverallScore)
	}
}
