// Package quality grades an assembled report on how useful it will be to
// the instructor. This is self-assessment of the analysis artifact, not
// of student work; scores feed the run history so quality can be tracked
// across sessions.
package quality

import (
	"math"
	"strings"

	"exitlens/internal/analysis"
	"exitlens/internal/ticket"
)

// Evaluation holds the dimension scores for one report.
type Evaluation struct {
	OverallScore float64            `json:"overall_score"`
	Dimensions   map[string]float64 `json:"dimensions"`
	Feedback     string             `json:"feedback"`
}

// Evaluate grades a report across five dimensions and averages them.
func Evaluate(r *analysis.Report) Evaluation {
	dims := map[string]float64{
		"depth":              scoreDepth(r),
		"theme_quality":      scoreThemes(r),
		"concept_extraction": scoreConcepts(r),
		"coverage":           scoreCoverage(r),
		"actionability":      scoreActionability(r),
	}
	var sum float64
	for _, v := range dims {
		sum += v
	}
	overall := math.Round(sum/float64(len(dims))*100) / 100
	return Evaluation{
		OverallScore: overall,
		Dimensions:   dims,
		Feedback:     feedback(dims),
	}
}

// scoreDepth rewards reports built from more responses.
func scoreDepth(r *analysis.Report) float64 {
	total := 0
	for _, c := range r.Categories {
		total += c.Analyzed
	}
	switch {
	case total > 50:
		return 90
	case total > 20:
		return 70
	case total > 10:
		return 50
	default:
		return 30
	}
}

// scoreThemes rewards a useful number of discovered themes. Too many
// themes fragment the picture as badly as too few.
func scoreThemes(r *analysis.Report) float64 {
	total := 0
	for _, c := range r.Categories {
		total += len(c.Themes)
	}
	switch {
	case total >= 3 && total <= 10:
		return 90
	case total > 10:
		return 70
	default:
		return 50
	}
}

func scoreConcepts(r *analysis.Report) float64 {
	var n int
	if lr := r.Category(ticket.Learning); lr != nil {
		n = len(lr.Concepts)
	}
	switch {
	case n >= 5:
		return 90
	case n >= 3:
		return 70
	default:
		return 50
	}
}

// scoreCoverage is the fraction of prompt categories with usable data.
func scoreCoverage(r *analysis.Report) float64 {
	if len(r.Categories) == 0 {
		return 0
	}
	withData := 0
	for _, c := range r.Categories {
		if c.HasData {
			withData++
		}
	}
	return float64(withData) / float64(len(r.Categories)) * 100
}

// scoreActionability checks that each category produced something an
// instructor can act on: cohorts for learning, themes for questions and
// interest.
func scoreActionability(r *analysis.Report) float64 {
	actionable := 0
	if lr := r.Category(ticket.Learning); lr != nil && lr.HasData {
		actionable++
	}
	if qr := r.Category(ticket.Question); qr != nil && qr.HasData && len(qr.Themes) > 0 {
		actionable++
	}
	if ir := r.Category(ticket.Interest); ir != nil && ir.HasData && len(ir.Themes) > 0 {
		actionable++
	}
	return float64(actionable) / 3 * 100
}

func feedback(dims map[string]float64) string {
	var parts []string
	if dims["depth"] < 70 {
		parts = append(parts, "Analysis could be deeper; collect more responses")
	}
	if dims["theme_quality"] < 70 {
		parts = append(parts, "Themes could be more meaningful")
	}
	if dims["actionability"] < 70 {
		parts = append(parts, "Insights could be more actionable")
	}
	if len(parts) == 0 {
		return "Analysis meets quality standards"
	}
	return strings.Join(parts, "; ")
}
