// Package keywords extracts weighted key terms from reference material and
// student responses using TF-IDF over unigrams and bigrams. All output is
// deterministic: identical input always yields identical terms and weights.
package keywords

import (
	"math"
	"sort"
	"strings"
)

// WeightedTerm is a term with its importance weight, in [0, 1].
type WeightedTerm struct {
	Term   string
	Weight float64
}

// Weighter extracts and weights terms.
type Weighter struct {
	cfg Config
}

// New creates a Weighter with the given config.
func New(cfg Config) *Weighter {
	return &Weighter{cfg: cfg}
}

// Extract returns the weighted terms of a single document, ordered by
// weight descending (ties broken alphabetically). Input shorter than
// MinDocChars after cleaning returns nil.
func (w *Weighter) Extract(text string) []WeightedTerm {
	cleaned := CleanText(text)
	if len(cleaned) < w.cfg.MinDocChars {
		return nil
	}

	counts := w.termCounts(cleaned)
	if len(counts) == 0 {
		return nil
	}

	// With a single document every term has the same IDF, so the weight
	// vector is the L2-normalized term-frequency vector. Summing in integer
	// space keeps the norm independent of map iteration order.
	var sumSq int
	for _, c := range counts {
		sumSq += c * c
	}
	norm := math.Sqrt(float64(sumSq))

	terms := make([]WeightedTerm, 0, len(counts))
	for t, c := range counts {
		weight := float64(c) / norm
		if weight > w.cfg.MinWeight {
			terms = append(terms, WeightedTerm{Term: t, Weight: weight})
		}
	}

	sortTerms(terms)
	if len(terms) > w.cfg.MaxTerms {
		terms = terms[:w.cfg.MaxTerms]
	}
	return terms
}

// CorpusWeights returns the mean TF-IDF weight of each term across all
// documents. Documents whose cleaned text is shorter than 10 characters are
// skipped. An empty or degenerate corpus yields an empty map.
func (w *Weighter) CorpusWeights(texts []string) map[string]float64 {
	vocab, vectors := w.Vectorize(texts)
	if len(vocab) == 0 {
		return map[string]float64{}
	}

	mean := make([]float64, len(vocab))
	for _, vec := range vectors {
		for i, v := range vec {
			mean[i] += v
		}
	}

	out := make(map[string]float64, len(vocab))
	n := float64(len(vectors))
	for i, term := range vocab {
		m := mean[i] / n
		if m > w.cfg.MinWeight {
			out[term] = m
		}
	}
	return out
}

// Vectorize builds a shared vocabulary over all documents and returns each
// document's L2-normalized TF-IDF vector. The vocabulary is ordered (total
// frequency descending, then alphabetically) and capped at MaxTerms.
// Degenerate input (no usable documents or empty vocabulary) returns
// (nil, nil).
func (w *Weighter) Vectorize(texts []string) ([]string, [][]float64) {
	docs := make([]map[string]int, 0, len(texts))
	total := map[string]int{}
	df := map[string]int{}

	for _, text := range texts {
		cleaned := CleanText(text)
		if len(cleaned) < 10 {
			continue
		}
		counts := w.termCounts(cleaned)
		docs = append(docs, counts)
		for t, c := range counts {
			total[t] += c
			df[t]++
		}
	}
	if len(docs) == 0 || len(total) == 0 {
		return nil, nil
	}

	vocab := make([]string, 0, len(total))
	for t := range total {
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if total[vocab[i]] != total[vocab[j]] {
			return total[vocab[i]] > total[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > w.cfg.MaxTerms {
		vocab = vocab[:w.cfg.MaxTerms]
	}

	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	// Smoothed IDF: ln((1+N)/(1+df)) + 1.
	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, t := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for d, counts := range docs {
		vec := make([]float64, len(vocab))
		for t, c := range counts {
			i, ok := index[t]
			if !ok {
				continue
			}
			vec[i] = float64(c) * idf[i]
		}
		// The norm is accumulated over the slice in index order, never over
		// the counts map: float rounding must not depend on map iteration
		// order or identical runs could produce different weights.
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for i := range vec {
				vec[i] /= norm
			}
		}
		vectors[d] = vec
	}

	return vocab, vectors
}

// termCounts tokenizes cleaned text and counts unigrams and, when enabled,
// adjacent bigrams. Stopwords are removed before bigram formation.
func (w *Weighter) termCounts(cleaned string) map[string]int {
	tokens := contentTokens(cleaned)
	counts := make(map[string]int, len(tokens)*2)

	for _, t := range tokens {
		counts[t]++
	}
	if w.cfg.UseBigrams {
		for i := 0; i+1 < len(tokens); i++ {
			counts[tokens[i]+" "+tokens[i+1]]++
		}
	}
	return counts
}

// contentTokens splits cleaned text into content-bearing tokens: at least
// two characters and not a stopword.
func contentTokens(cleaned string) []string {
	fields := strings.Fields(cleaned)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func sortTerms(terms []WeightedTerm) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})
}

// CleanText lowercases, strips non-alphanumeric characters and collapses
// whitespace. Matching and weighting always operate on cleaned text.
func CleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// ContainsTerm reports whether term occurs in text, respecting word
// boundaries. Multi-word terms must appear as an exact adjacent phrase.
// Both term and text are cleaned before matching.
func ContainsTerm(text, term string) bool {
	ct := CleanText(term)
	if ct == "" {
		return false
	}
	padded := " " + CleanText(text) + " "
	return strings.Contains(padded, " "+ct+" ")
}
