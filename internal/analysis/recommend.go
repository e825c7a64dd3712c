package analysis

import (
	"fmt"
	"strings"

	"exitlens/internal/themes"
	"exitlens/internal/ticket"
)

// recommendations derives short instructor-facing suggestions from the
// assembled report. Heuristic by design; the thresholds are coarse on
// purpose so a recommendation only appears when the signal is strong.
func recommendations(r *Report) []string {
	var recs []string

	if lr := r.Category(ticket.Learning); lr != nil {
		switch {
		case !lr.HasData:
			recs = append(recs, "No usable learning summaries were collected; consider revisiting how the exit ticket is introduced.")
		case lr.Cohorts.Below.Percentage >= 40:
			recs = append(recs, fmt.Sprintf(
				"%.1f%% of students may need reinforcement on the core concepts%s.",
				lr.Cohorts.Below.Percentage, themeHint(lr.Themes)))
		case lr.Cohorts.Above.Percentage >= 80:
			recs = append(recs, fmt.Sprintf(
				"Most students (%.1f%%) show a solid grasp of the material; this group is ready for extension work.",
				lr.Cohorts.Above.Percentage))
		}
	}

	if qr := r.Category(ticket.Question); qr != nil && qr.HasData {
		if qr.Cohorts.Above.Percentage >= 30 {
			recs = append(recs, fmt.Sprintf(
				"%d students asked substantive questions%s; worth addressing at the start of the next session.",
				len(qr.Cohorts.Above.Students), themeHint(qr.Themes)))
		}
	}

	if ir := r.Category(ticket.Interest); ir != nil && ir.HasData {
		if hint := themeHint(ir.Themes); hint != "" {
			recs = append(recs, fmt.Sprintf(
				"Student interest clusters%s could anchor an enrichment activity.", hint))
		}
	}

	return recs
}

// themeHint renders the strongest theme labels as a parenthetical, or ""
// when no informative labels exist.
func themeHint(ts []Theme) string {
	var terms []string
	for _, t := range ts {
		for _, term := range t.Terms {
			if term != themes.FallbackLabel {
				terms = append(terms, term)
			}
			if len(terms) >= 4 {
				break
			}
		}
		if len(terms) >= 4 {
			break
		}
	}
	if len(terms) == 0 {
		return ""
	}
	return fmt.Sprintf(" (around: %s)", strings.Join(terms, ", "))
}
