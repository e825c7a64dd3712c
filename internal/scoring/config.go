package scoring

import "fmt"

// Weights controls how component scores blend into the combined score.
type Weights struct {
	Lexical float64
	Quality float64
}

// Config controls lexical and quality scoring.
type Config struct {
	// Weights for the combined score.
	Weights Weights
	// BatchSize is how many responses share one quality oracle call.
	BatchSize int
	// EmergentPerMatch is the bonus awarded per matched emergent keyword.
	EmergentPerMatch float64
	// EmergentBonusCap caps the total emergent-keyword bonus.
	EmergentBonusCap float64
	// ConceptFloor is the minimum score for a response matching at least
	// one extracted concept.
	ConceptFloor float64
	// ConceptBoost multiplies the score when two or more concepts match.
	ConceptBoost float64
	// MaxTokens bounds each quality oracle response.
	MaxTokens int
	// Temperature for quality oracle calls.
	Temperature float64
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights:          Weights{Lexical: 0.4, Quality: 0.4},
		BatchSize:        10,
		EmergentPerMatch: 2,
		EmergentBonusCap: 20,
		ConceptFloor:     30,
		ConceptBoost:     1.3,
		MaxTokens:        1024,
		Temperature:      0.2,
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.Weights.Lexical < 0 || c.Weights.Quality < 0 {
		return fmt.Errorf("score weights must be non-negative")
	}
	if c.Weights.Lexical+c.Weights.Quality > 1.0+1e-9 {
		return fmt.Errorf("score weights must not sum above 1.0")
	}
	if c.ConceptBoost < 1 {
		return fmt.Errorf("concept boost must be at least 1.0, got %g", c.ConceptBoost)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	return nil
}
