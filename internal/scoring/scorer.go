// Package scoring turns raw student responses into lexical, quality and
// combined scores. Lexical scoring is pure keyword arithmetic; quality
// scoring asks the LLM oracle in batches and degrades to a neutral score
// when the oracle is unavailable.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"exitlens/internal/keywords"
	"exitlens/internal/llm"
	"exitlens/internal/ticket"
)

// NeutralQuality is assigned when the oracle cannot score a response.
// Neutral keeps unscored responses rankable without favoring them.
const NeutralQuality = 50.0

// BatchItem is one response inside a quality batch. The ID is echoed back
// by the oracle so scores survive reordering.
type BatchItem struct {
	ID   string
	Text string
}

// Scorer computes all per-response scores. The provider may be nil, in
// which case every quality score is NeutralQuality.
type Scorer struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// New creates a Scorer. Pass a nil provider to run without the oracle.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{provider: provider, cfg: cfg, log: log}
}

// Lexical scores text against weighted activity terms: the weighted
// fraction of terms present, scaled to 0-100, plus the emergent-keyword
// bonus. Deterministic for fixed inputs.
func (s *Scorer) Lexical(text string, terms []keywords.WeightedTerm, emergent []string) float64 {
	var base float64
	var matched, total float64
	for _, t := range terms {
		total += t.Weight
		if keywords.ContainsTerm(text, t.Term) {
			matched += t.Weight
		}
	}
	if total > 0 {
		base = matched / total * 100
	}
	base += s.emergentBonus(text, emergent)
	return clamp(base, 0, 100)
}

// ConceptAligned scores text against oracle-extracted concepts. The base
// is the fraction of concepts mentioned; a response touching any concept
// is floored at ConceptFloor, and one touching two or more is boosted by
// ConceptBoost. Scores never exceed 100.
func (s *Scorer) ConceptAligned(text string, concepts []string, emergent []string) float64 {
	matches := 0
	for _, c := range concepts {
		if keywords.ContainsTerm(text, c) {
			matches++
		}
	}
	var base float64
	if len(concepts) > 0 {
		base = float64(matches) / float64(len(concepts)) * 100
	}
	base += s.emergentBonus(text, emergent)
	if matches >= 1 && base < s.cfg.ConceptFloor {
		base = s.cfg.ConceptFloor
	}
	if matches >= 2 {
		base *= s.cfg.ConceptBoost
	}
	return clamp(base, 0, 100)
}

// Combined blends the lexical and quality scores with the configured
// weights.
func (s *Scorer) Combined(lexical, quality float64) float64 {
	return clamp(s.cfg.Weights.Lexical*lexical+s.cfg.Weights.Quality*quality, 0, 100)
}

func (s *Scorer) emergentBonus(text string, emergent []string) float64 {
	var bonus float64
	for _, term := range emergent {
		if keywords.ContainsTerm(text, term) {
			bonus += s.cfg.EmergentPerMatch
		}
		if bonus >= s.cfg.EmergentBonusCap {
			return s.cfg.EmergentBonusCap
		}
	}
	return bonus
}

// QualityScores asks the oracle to score every item, in batches of
// BatchSize. Each item starts at NeutralQuality; a failed batch leaves
// its items neutral and never fails the run. The returned map always has
// one entry per input item.
func (s *Scorer) QualityScores(ctx context.Context, activity string, category ticket.Category, items []BatchItem) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		out[it.ID] = NeutralQuality
	}
	if s.provider == nil || len(items) == 0 {
		return out
	}
	for start := 0; start < len(items); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		scores, err := s.scoreBatch(ctx, activity, category, batch)
		if err != nil {
			s.log.Warn("quality batch failed, keeping neutral scores",
				zap.String("category", string(category)),
				zap.Int("batch_start", start),
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			continue
		}
		for id, score := range scores {
			if _, known := out[id]; known {
				out[id] = clamp(score, 0, 100)
			}
		}
	}
	return out
}

// batchOutput is the raw oracle response before clamping.
type batchOutput struct {
	Scores []struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
	} `json:"scores"`
}

func (s *Scorer) scoreBatch(ctx context.Context, activity string, category ticket.Category, batch []BatchItem) (map[string]float64, error) {
	ctx = llm.WithPurpose(ctx, "quality-batch")

	req := llm.Request{
		System: qualitySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildBatchPrompt(activity, category, batch)},
		},
		Schema:      BatchScoresSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quality oracle call failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		// Some providers wrap structured output in markdown fences.
		if ferr := json.Unmarshal([]byte(llm.StripFences(string(resp.Content))), &raw); ferr != nil {
			return nil, fmt.Errorf("failed to parse quality scores: %w", err)
		}
	}
	if len(raw.Scores) == 0 {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("quality oracle returned no scores")}
	}

	scores := make(map[string]float64, len(raw.Scores))
	for _, entry := range raw.Scores {
		scores[entry.ID] = entry.Score
	}
	return scores, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
