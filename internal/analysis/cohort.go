package analysis

import (
	"math"

	"exitlens/internal/ticket"
)

// bucketLabels names the two cohorts for a prompt category.
func bucketLabels(c ticket.Category) (above, below string) {
	switch c {
	case ticket.Question:
		return "asking substantive questions", "few or surface questions"
	case ticket.Interest:
		return "highly engaged", "less engaged"
	default:
		return "learned well", "needs reinforcement"
	}
}

// cohortMetric picks which score drives the partition. Interest responses
// bucket on quality alone: a student can be deeply engaged by material the
// lesson only touched, so lexical alignment is a poor engagement signal.
func cohortMetric(c ticket.Category, s ScoredResponse) float64 {
	if c == ticket.Interest {
		return s.QualityScore
	}
	return s.CombinedScore
}

// Categorize partitions the entire scored population, not just the
// selection, into the two cohort buckets. An empty population yields two
// empty buckets at 0% each.
func Categorize(scored []ScoredResponse, category ticket.Category, threshold float64) Cohorts {
	aboveLabel, belowLabel := bucketLabels(category)
	cohorts := Cohorts{
		Above: CohortBucket{Label: aboveLabel, Students: []string{}},
		Below: CohortBucket{Label: belowLabel, Students: []string{}},
	}
	for _, s := range scored {
		if cohortMetric(category, s) >= threshold {
			cohorts.Above.Students = append(cohorts.Above.Students, s.StudentID)
		} else {
			cohorts.Below.Students = append(cohorts.Below.Students, s.StudentID)
		}
	}
	total := len(scored)
	if total > 0 {
		cohorts.Above.Percentage = round1(float64(len(cohorts.Above.Students)) / float64(total) * 100)
		cohorts.Below.Percentage = round1(float64(len(cohorts.Below.Students)) / float64(total) * 100)
	}
	return cohorts
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
