package analysis

import (
	"time"

	"exitlens/internal/ticket"
)

// ScoredResponse is one analyzed response with all of its scores. Built
// once per run and never mutated afterwards.
type ScoredResponse struct {
	StudentID     string  `json:"student_id"`
	Text          string  `json:"text"`
	LexicalScore  float64 `json:"lexical_score"`
	QualityScore  float64 `json:"quality_score"`
	CombinedScore float64 `json:"combined_score"`
	Cluster       int     `json:"cluster"`
}

// CohortBucket is one side of the threshold partition.
type CohortBucket struct {
	Label      string   `json:"label"`
	Students   []string `json:"students"`
	Percentage float64  `json:"percentage"`
}

// Cohorts holds both buckets for one prompt category.
type Cohorts struct {
	Above CohortBucket `json:"above"`
	Below CohortBucket `json:"below"`
}

// Theme is one discovered cluster with its label terms.
type Theme struct {
	ID    int      `json:"id"`
	Terms []string `json:"terms"`
	Size  int      `json:"size"`
}

// CategoryReport is the full analysis output for one prompt category.
// HasData false means no response survived filtering; the report still
// carries the category so downstream renderers show an explicit marker
// instead of a missing section.
type CategoryReport struct {
	Category       ticket.Category  `json:"category"`
	HasData        bool             `json:"has_data"`
	TotalResponses int              `json:"total_responses"`
	Analyzed       int              `json:"analyzed"`
	Excluded       int              `json:"excluded"`
	Concepts       []string         `json:"concepts,omitempty"`
	Themes         []Theme          `json:"themes,omitempty"`
	Selected       []ScoredResponse `json:"selected"`
	Cohorts        Cohorts          `json:"cohorts"`
}

// Report is the assembled payload for one analysis run. Activity holds a
// truncated description of the reference material, not the full text.
type Report struct {
	RunID           string           `json:"run_id"`
	Activity        string           `json:"activity"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Model           string           `json:"model"`
	ScoringMethod   string           `json:"scoring_method"`
	StudentCount    int              `json:"student_count"`
	TopK            int              `json:"top_k"`
	Categories      []CategoryReport `json:"categories"`
	Recommendations []string         `json:"recommendations"`
}

// Category returns the report section for c, or nil when absent.
func (r *Report) Category(c ticket.Category) *CategoryReport {
	for i := range r.Categories {
		if r.Categories[i].Category == c {
			return &r.Categories[i]
		}
	}
	return nil
}
