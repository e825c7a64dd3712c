// Package concepts reduces reference material to the short list of
// domain-specific concept keywords that scoring aligns responses against.
package concepts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"exitlens/internal/keywords"
	"exitlens/internal/llm"
)

// Config controls concept extraction.
type Config struct {
	// MaxConcepts caps the concept list.
	MaxConcepts int

	// FallbackTerms is how many TF-IDF terms stand in for concepts when
	// the judge is unavailable or unparsable.
	FallbackTerms int

	// MaxTokens caps the judge response.
	MaxTokens int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcepts:   30,
		FallbackTerms: 20,
		MaxTokens:     512,
	}
}

// Extractor produces concept keywords from reference material. Extraction
// never fails: every degradation path ends in a TF-IDF term list or, at
// worst, an empty list.
type Extractor struct {
	provider llm.Provider
	weighter *keywords.Weighter
	cfg      Config
	log      *zap.Logger
}

// New creates an Extractor. provider may be nil, in which case extraction
// goes straight to the TF-IDF fallback.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		provider: provider,
		weighter: keywords.New(keywords.DefaultConfig()),
		cfg:      cfg,
		log:      log,
	}
}

const systemPrompt = "You identify the domain-specific concepts taught in a lesson. " +
	"You list only subject-matter terms; never function words or generic classroom " +
	"vocabulary such as \"learn\", \"activity\", \"student\" or \"lesson\"."

// Extract returns up to MaxConcepts concept keywords for the reference
// text, ranked most important first.
func (e *Extractor) Extract(ctx context.Context, reference string) []string {
	if e.provider == nil {
		return e.termFallback(reference)
	}

	ctx = llm.WithPurpose(ctx, "concept-extraction")

	userMsg := fmt.Sprintf(`Extract the key domain-specific concepts from this lesson description.

Lesson description:
%s

Return ONLY a JSON object: {"concepts": ["concept one", "concept two", ...]}
List at most %d concepts, most important first. Use short terms or two-to-three word phrases.`,
		reference, e.cfg.MaxConcepts)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:    systemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		MaxTokens: e.cfg.MaxTokens,
	})
	if err != nil {
		e.log.Warn("concept extraction oracle unavailable, using term fallback", zap.Error(err))
		return e.termFallback(reference)
	}

	raw := string(resp.Content)

	if concepts := e.parseStructured(raw); len(concepts) > 0 {
		return concepts
	}
	if concepts := e.parseHeuristic(raw); len(concepts) > 0 {
		e.log.Warn("concept list recovered heuristically from unstructured oracle output")
		return concepts
	}

	e.log.Warn("oracle output unusable for concepts, using term fallback")
	return e.termFallback(reference)
}

// parseStructured expects {"concepts":[...]} somewhere in the raw output.
func (e *Extractor) parseStructured(raw string) []string {
	obj := llm.ExtractJSON(raw)
	v, ok := obj["concepts"]
	if !ok {
		return nil
	}

	var items []any
	switch arr := v.(type) {
	case []any:
		items = arr
	case string:
		// Salvage path flattens arrays to strings; split on commas.
		for _, part := range strings.Split(arr, ",") {
			items = append(items, part)
		}
	default:
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		out = appendConcept(out, s)
	}
	return e.cap(out)
}

// parseHeuristic splits raw oracle text on lines and commas, stripping
// bullets, numbering and fences. Used when no JSON object can be recovered.
func (e *Extractor) parseHeuristic(raw string) []string {
	text := llm.StripFences(raw)
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, piece := range strings.Split(line, ",") {
			out = appendConcept(out, trimListMarkers(piece))
		}
	}
	return e.cap(out)
}

// termFallback weights the reference text itself and keeps the top terms.
func (e *Extractor) termFallback(reference string) []string {
	terms := e.weighter.Extract(reference)
	var out []string
	for _, t := range terms {
		out = appendConcept(out, t.Term)
		if len(out) >= e.cfg.FallbackTerms {
			break
		}
	}
	return out
}

func (e *Extractor) cap(concepts []string) []string {
	if len(concepts) > e.cfg.MaxConcepts {
		return concepts[:e.cfg.MaxConcepts]
	}
	return concepts
}

// appendConcept normalizes, filters and dedupes a candidate concept.
func appendConcept(out []string, candidate string) []string {
	c := strings.ToLower(strings.TrimSpace(candidate))
	c = strings.Trim(c, `"'.:;`)
	if c == "" || len(c) < 2 {
		return out
	}
	// Whole sentences are list-parse noise, not concepts.
	if len(strings.Fields(c)) > 4 {
		return out
	}
	if keywords.IsGenericPedagogical(c) {
		return out
	}
	for _, existing := range out {
		if existing == c {
			return out
		}
	}
	return append(out, c)
}

func trimListMarkers(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*•>0123456789.) \t")
	return s
}
