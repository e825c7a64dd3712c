// Package analysis sequences the full exit-ticket pipeline: concept
// extraction, response filtering, scoring, clustering, diverse selection
// and cohort categorization, one pass per prompt category. Every sub-step
// failure degrades to a conservative fallback so the report is always
// producible from partial results.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exitlens/internal/concepts"
	"exitlens/internal/keywords"
	"exitlens/internal/llm"
	"exitlens/internal/scoring"
	"exitlens/internal/themes"
	"exitlens/internal/ticket"
)

// Analyzer runs the whole pipeline for one activity. A nil provider runs
// the pipeline offline: concepts fall back to TF-IDF terms and every
// quality score is neutral.
type Analyzer struct {
	cfg       Config
	provider  llm.Provider
	extractor *concepts.Extractor
	scorer    *scoring.Scorer
	clusterer *themes.Clusterer
	weighter  *keywords.Weighter
	log       *zap.Logger
}

// New builds an Analyzer. A malformed config is the one error this
// package surfaces to the caller.
func New(provider llm.Provider, cfg Config, log *zap.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		cfg:       cfg,
		provider:  provider,
		extractor: concepts.New(provider, cfg.Concepts, log),
		scorer:    scoring.New(provider, cfg.Scoring, log),
		clusterer: themes.NewClusterer(cfg.Themes, log),
		weighter:  keywords.New(cfg.Keywords),
		log:       log,
	}, nil
}

// Run analyzes all responses against the activity's reference text and
// assembles the report. It never fails: categories with no usable data
// are reported with an explicit marker, and oracle outages degrade to
// keyword and neutral-score fallbacks.
func (a *Analyzer) Run(ctx context.Context, activity string, responses []ticket.Response) *Report {
	conceptList := a.extractor.Extract(ctx, activity)
	activityTerms := a.weighter.Extract(activity)
	a.log.Info("reference material processed",
		zap.Int("concepts", len(conceptList)),
		zap.Int("activity_terms", len(activityTerms)))

	byCategory := make(map[ticket.Category][]ticket.Response)
	students := make(map[string]bool)
	for _, r := range responses {
		byCategory[r.Category] = append(byCategory[r.Category], r)
		students[r.StudentID] = true
	}

	report := &Report{
		RunID:         uuid.NewString(),
		Activity:      truncateRunes(activity, activityPreviewLen),
		GeneratedAt:   time.Now().UTC(),
		Model:         a.modelID(),
		ScoringMethod: a.scoringMethod(),
		StudentCount:  len(students),
		TopK:          a.cfg.TopK,
	}
	for _, cat := range ticket.Categories() {
		report.Categories = append(report.Categories,
			a.analyzeCategory(ctx, cat, byCategory[cat], activity, conceptList, activityTerms))
	}
	report.Recommendations = recommendations(report)
	return report
}

func (a *Analyzer) modelID() string {
	if a.provider == nil {
		return "none"
	}
	return a.provider.ModelID()
}

// activityPreviewLen caps the activity description carried in the report.
const activityPreviewLen = 200

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// scoringMethod describes how combined scores were produced. The residual
// weight beyond lexical+quality is realized by cluster-spread selection
// rather than arithmetic.
func (a *Analyzer) scoringMethod() string {
	w := a.cfg.Scoring.Weights
	return fmt.Sprintf("%.1f lexical + %.1f quality, remainder via cluster-diverse selection", w.Lexical, w.Quality)
}

func (a *Analyzer) analyzeCategory(ctx context.Context, cat ticket.Category, in []ticket.Response, activity string, conceptList []string, activityTerms []keywords.WeightedTerm) CategoryReport {
	cr := CategoryReport{
		Category:       cat,
		TotalResponses: len(in),
		Selected:       []ScoredResponse{},
	}

	valid := a.filter(cat, in)
	cr.Analyzed = len(valid)
	cr.Excluded = len(in) - len(valid)
	if cr.Excluded > 0 {
		a.log.Info("responses excluded from analysis",
			zap.String("category", string(cat)),
			zap.Int("excluded", cr.Excluded))
	}
	if len(valid) == 0 {
		cr.Cohorts = Categorize(nil, cat, a.cfg.CohortThreshold)
		return cr
	}
	cr.HasData = true
	cr.Concepts = conceptList

	texts := make([]string, len(valid))
	for i, r := range valid {
		texts[i] = r.Text
	}
	emergent := a.emergentTerms(texts, conceptList)

	items := make([]scoring.BatchItem, len(valid))
	for i, r := range valid {
		items[i] = scoring.BatchItem{ID: r.StudentID, Text: r.Text}
	}
	quality := a.scorer.QualityScores(ctx, activity, cat, items)

	clustering := a.clusterer.Cluster(texts)

	scored := make([]ScoredResponse, len(valid))
	for i, r := range valid {
		var lex float64
		if cat == ticket.Learning {
			lex = a.scorer.ConceptAligned(r.Text, conceptList, emergent)
		} else {
			lex = a.scorer.Lexical(r.Text, activityTerms, emergent)
		}
		q := quality[r.StudentID]
		scored[i] = ScoredResponse{
			StudentID:     r.StudentID,
			Text:          r.Text,
			LexicalScore:  lex,
			QualityScore:  q,
			CombinedScore: a.scorer.Combined(lex, q),
			Cluster:       clustering.Assignments[i],
		}
	}

	for id := 0; id < clustering.ClusterCount(); id++ {
		cr.Themes = append(cr.Themes, Theme{
			ID:    id,
			Terms: clustering.Labels[id],
			Size:  len(clustering.Members[id]),
		})
	}

	candidates := make([]themes.Candidate, len(scored))
	for i, s := range scored {
		candidates[i] = themes.Candidate{Index: i, Score: s.CombinedScore, Cluster: s.Cluster}
	}
	for _, c := range themes.SelectDiverse(candidates, a.cfg.TopK) {
		cr.Selected = append(cr.Selected, scored[c.Index])
	}

	cr.Cohorts = Categorize(scored, cat, a.cfg.CohortThreshold)
	return cr
}

// filter drops responses below the category's minimum length and, for the
// question prompt, stock non-answers. Exclusions never appear anywhere in
// the report; they are only logged.
func (a *Analyzer) filter(cat ticket.Category, in []ticket.Response) []ticket.Response {
	minLen := a.minLength(cat)
	var out []ticket.Response
	for _, r := range in {
		if utf8.RuneCountInString(r.Text) < minLen {
			a.log.Debug("response below minimum length",
				zap.String("category", string(cat)),
				zap.String("student", r.StudentID))
			continue
		}
		if cat == ticket.Question && !scoring.IsSubstantiveQuestion(r.Text) {
			a.log.Debug("non-answer question response dropped",
				zap.String("student", r.StudentID))
			continue
		}
		out = append(out, r)
	}
	return out
}

func (a *Analyzer) minLength(cat ticket.Category) int {
	switch cat {
	case ticket.Question:
		return a.cfg.MinQuestionLen
	case ticket.Interest:
		return a.cfg.MinInterestLen
	default:
		return a.cfg.MinLearningLen
	}
}

// emergentTerms returns the strongest corpus-derived terms that are not
// already in the concept list. Matches against these earn the emergent
// bonus: vocabulary the class introduced on its own still counts.
func (a *Analyzer) emergentTerms(texts []string, conceptList []string) []string {
	weights := a.weighter.CorpusWeights(texts)
	if len(weights) == 0 {
		return nil
	}
	known := make(map[string]bool, len(conceptList))
	for _, c := range conceptList {
		known[keywords.CleanText(c)] = true
	}
	type tw struct {
		term   string
		weight float64
	}
	var candidates []tw
	for term, w := range weights {
		if w <= 0 || known[term] {
			continue
		}
		candidates = append(candidates, tw{term, w})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight > candidates[j].weight
		}
		return candidates[i].term < candidates[j].term
	})
	if len(candidates) > a.cfg.EmergentTerms {
		candidates = candidates[:a.cfg.EmergentTerms]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.term
	}
	return out
}
