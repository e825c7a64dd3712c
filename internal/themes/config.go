package themes

// Config controls thematic clustering.
type Config struct {
	// MaxClusters is the ceiling on discovered themes. The effective
	// cluster count is min(MaxClusters, number of responses).
	MaxClusters int

	// MaxFeatures caps the shared vocabulary used for vectorization.
	MaxFeatures int

	// Iterations bounds the k-means refinement loop. Assignment usually
	// stabilizes well before this on classroom-sized inputs.
	Iterations int

	// LabelTerms is how many top terms label each theme.
	LabelTerms int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxClusters: 5,
		MaxFeatures: 100,
		Iterations:  10,
		LabelTerms:  3,
	}
}
