package keywords

// Config controls term extraction and weighting.
type Config struct {
	// MaxTerms caps how many weighted terms are kept, both per document
	// and as the shared vocabulary for corpus vectorization.
	MaxTerms int

	// UseBigrams includes two-word adjacent phrases alongside unigrams.
	UseBigrams bool

	// MinDocChars is the minimum cleaned-text length for single-document
	// extraction. Shorter input yields no terms — a valid outcome, not
	// an error.
	MinDocChars int

	// MinWeight drops terms whose weight falls at or below this floor.
	MinWeight float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTerms:    50,
		UseBigrams:  true,
		MinDocChars: 50,
		MinWeight:   0.01,
	}
}
