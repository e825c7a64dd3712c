package analysis

import (
	"fmt"

	"exitlens/internal/concepts"
	"exitlens/internal/keywords"
	"exitlens/internal/scoring"
	"exitlens/internal/themes"
)

// Config is the full pipeline configuration, threaded through one run so
// results are reproducible from the config alone.
type Config struct {
	// TopK is how many responses the diverse selection keeps per prompt.
	TopK int

	// CohortThreshold splits each prompt's population into the above and
	// below buckets, on the 0-100 score scale.
	CohortThreshold float64

	// Minimum response lengths, in characters of trimmed text. Shorter
	// responses are excluded from the run entirely.
	MinLearningLen int
	MinQuestionLen int
	MinInterestLen int

	// EmergentTerms is how many corpus-derived keywords outside the
	// concept list can earn the emergent bonus.
	EmergentTerms int

	Keywords keywords.Config
	Concepts concepts.Config
	Themes   themes.Config
	Scoring  scoring.Config
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		TopK:            10,
		CohortThreshold: 50,
		MinLearningLen:  20,
		MinQuestionLen:  10,
		MinInterestLen:  20,
		EmergentTerms:   15,
		Keywords:        keywords.DefaultConfig(),
		Concepts:        concepts.DefaultConfig(),
		Themes:          themes.DefaultConfig(),
		Scoring:         scoring.DefaultConfig(),
	}
}

// Validate checks the configuration. A bad configuration is the one error
// class that aborts a run, since no safe fallback exists for it.
func (c Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("top-k must be at least 1, got %d", c.TopK)
	}
	if c.CohortThreshold < 0 || c.CohortThreshold > 100 {
		return fmt.Errorf("cohort threshold must be in [0,100], got %g", c.CohortThreshold)
	}
	if c.MinLearningLen < 0 || c.MinQuestionLen < 0 || c.MinInterestLen < 0 {
		return fmt.Errorf("minimum response lengths must be non-negative")
	}
	if c.EmergentTerms < 0 {
		return fmt.Errorf("emergent term count must be non-negative, got %d", c.EmergentTerms)
	}
	if c.Themes.MaxClusters < 1 {
		return fmt.Errorf("max clusters must be at least 1, got %d", c.Themes.MaxClusters)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring config: %w", err)
	}
	return nil
}
