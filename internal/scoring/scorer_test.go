package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"

	"exitlens/internal/keywords"
	"exitlens/internal/llm"
	"exitlens/internal/ticket"
)

func newTestScorer(p llm.Provider) *Scorer {
	return New(p, DefaultConfig(), zap.NewNop())
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLexical_WeightedFraction(t *testing.T) {
	s := newTestScorer(nil)
	terms := []keywords.WeightedTerm{
		{Term: "enzyme", Weight: 0.6},
		{Term: "substrate", Weight: 0.4},
	}

	got := s.Lexical("The enzyme binds at the active site.", terms, nil)
	if !almostEqual(got, 60) {
		t.Errorf("Lexical = %g, want 60", got)
	}

	got = s.Lexical("The enzyme binds the substrate.", terms, nil)
	if !almostEqual(got, 100) {
		t.Errorf("Lexical full match = %g, want 100", got)
	}

	got = s.Lexical("Completely unrelated text here.", terms, nil)
	if got != 0 {
		t.Errorf("Lexical no match = %g, want 0", got)
	}
}

func TestLexical_NoTerms(t *testing.T) {
	s := newTestScorer(nil)
	if got := s.Lexical("anything at all", nil, nil); got != 0 {
		t.Errorf("Lexical with no terms = %g, want 0", got)
	}
}

func TestLexical_EmergentBonus(t *testing.T) {
	s := newTestScorer(nil)
	terms := []keywords.WeightedTerm{{Term: "enzyme", Weight: 1}}
	emergent := []string{"catalyst", "inhibitor"}

	got := s.Lexical("The enzyme acts as a catalyst unless an inhibitor blocks it.", terms, emergent)
	if !almostEqual(got, 100) {
		t.Errorf("Lexical bonus should clamp at 100, got %g", got)
	}

	got = s.Lexical("A catalyst and an inhibitor were discussed.", terms, emergent)
	if !almostEqual(got, 4) {
		t.Errorf("Lexical bonus-only = %g, want 4", got)
	}
}

func TestLexical_EmergentBonusCap(t *testing.T) {
	s := newTestScorer(nil)
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta",
		"eta", "theta", "iota", "kappa", "lambda", "sigma"}
	text := ""
	for _, w := range words {
		text += w + " "
	}
	got := s.Lexical(text, nil, words)
	if !almostEqual(got, s.cfg.EmergentBonusCap) {
		t.Errorf("bonus = %g, want cap %g", got, s.cfg.EmergentBonusCap)
	}
}

func TestConceptAligned_SingleMatchFloor(t *testing.T) {
	s := newTestScorer(nil)
	concepts := []string{"restriction enzymes", "dna ligase", "sticky ends", "plasmids", "transformation"}

	got := s.ConceptAligned("We used restriction enzymes to cut the sample.", concepts, nil)
	if !almostEqual(got, 30) {
		t.Errorf("single concept match = %g, want floor 30", got)
	}
}

func TestConceptAligned_MultiMatchBoost(t *testing.T) {
	s := newTestScorer(nil)
	concepts := []string{"restriction enzymes", "dna ligase", "sticky ends", "plasmids", "transformation"}

	// 2 of 5 matched: 40 * 1.3 = 52.
	got := s.ConceptAligned("Restriction enzymes leave sticky ends on the fragment.", concepts, nil)
	if !almostEqual(got, 52) {
		t.Errorf("two concept matches = %g, want 52", got)
	}
}

func TestConceptAligned_CapAt100(t *testing.T) {
	s := newTestScorer(nil)
	concepts := []string{"mitosis", "meiosis"}
	got := s.ConceptAligned("We compared mitosis and meiosis in detail.", concepts, nil)
	if !almostEqual(got, 100) {
		t.Errorf("all concepts matched = %g, want 100", got)
	}
}

func TestConceptAligned_NoMatches(t *testing.T) {
	s := newTestScorer(nil)
	got := s.ConceptAligned("Nothing relevant here.", []string{"osmosis"}, nil)
	if got != 0 {
		t.Errorf("no matches = %g, want 0", got)
	}
}

func TestCombined_DefaultWeights(t *testing.T) {
	s := newTestScorer(nil)
	got := s.Combined(80, 60)
	if !almostEqual(got, 56) {
		t.Errorf("Combined(80, 60) = %g, want 56", got)
	}
	if got := s.Combined(0, 0); got != 0 {
		t.Errorf("Combined(0, 0) = %g, want 0", got)
	}
}

func batchContent(scores map[string]float64) json.RawMessage {
	out := batchOutput{}
	for id, sc := range scores {
		out.Scores = append(out.Scores, struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		}{ID: id, Score: sc})
	}
	b, _ := json.Marshal(out)
	return b
}

func TestQualityScores_MapsByID(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchContent(map[string]float64{"s2": 41, "s1": 88}),
	})
	s := newTestScorer(mock)

	got := s.QualityScores(context.Background(), "gel electrophoresis", ticket.Learning, []BatchItem{
		{ID: "s1", Text: "The gel separates fragments by size."},
		{ID: "s2", Text: "It was fine."},
	})
	if got["s1"] != 88 || got["s2"] != 41 {
		t.Errorf("scores = %v, want s1=88 s2=41", got)
	}
}

func TestQualityScores_BatchFailureIsNeutral(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{},
	})
	s := newTestScorer(mock)

	got := s.QualityScores(context.Background(), "topic", ticket.Interest, []BatchItem{
		{ID: "a", Text: "first"},
		{ID: "b", Text: "second"},
	})
	if got["a"] != NeutralQuality || got["b"] != NeutralQuality {
		t.Errorf("failed batch scores = %v, want all %g", got, NeutralQuality)
	}
}

func TestQualityScores_NilProvider(t *testing.T) {
	s := newTestScorer(nil)
	got := s.QualityScores(context.Background(), "topic", ticket.Learning, []BatchItem{
		{ID: "a", Text: "first"},
	})
	if got["a"] != NeutralQuality {
		t.Errorf("nil provider score = %g, want %g", got["a"], NeutralQuality)
	}
}

func TestQualityScores_Batching(t *testing.T) {
	first := map[string]float64{}
	items := make([]BatchItem, 12)
	for i := range items {
		id := fmt.Sprintf("s%02d", i)
		items[i] = BatchItem{ID: id, Text: fmt.Sprintf("response number %d about osmosis", i)}
		if i < 10 {
			first[id] = float64(60 + i)
		}
	}
	second := map[string]float64{"s10": 95, "s11": 15}

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: batchContent(first)},
		llm.MockResponse{Content: batchContent(second)},
	)
	s := newTestScorer(mock)

	got := s.QualityScores(context.Background(), "osmosis", ticket.Learning, items)
	if mock.CallCount() != 2 {
		t.Fatalf("call count = %d, want 2", mock.CallCount())
	}
	if got["s03"] != 63 || got["s10"] != 95 || got["s11"] != 15 {
		t.Errorf("batched scores wrong: %v", got)
	}
}

func TestQualityScores_PartialBatchFailure(t *testing.T) {
	items := make([]BatchItem, 12)
	for i := range items {
		items[i] = BatchItem{ID: fmt.Sprintf("s%02d", i), Text: "some reflection text"}
	}
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: batchContent(map[string]float64{"s10": 77, "s11": 33})},
	)
	s := newTestScorer(mock)

	got := s.QualityScores(context.Background(), "topic", ticket.Question, items)
	if got["s00"] != NeutralQuality {
		t.Errorf("failed-batch item = %g, want neutral", got["s00"])
	}
	if got["s10"] != 77 {
		t.Errorf("surviving batch item = %g, want 77", got["s10"])
	}
}

func TestQualityScores_FencedOutput(t *testing.T) {
	fenced := "```json\n{\"scores\": [{\"id\": \"x\", \"score\": 64}]}\n```"
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fenced)})
	s := newTestScorer(mock)

	got := s.QualityScores(context.Background(), "topic", ticket.Learning, []BatchItem{{ID: "x", Text: "text"}})
	if got["x"] != 64 {
		t.Errorf("fenced score = %g, want 64", got["x"])
	}
}

func TestQualityScores_ClampsAndIgnoresUnknownIDs(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchContent(map[string]float64{"a": 150, "b": -5, "ghost": 99}),
	})
	s := newTestScorer(mock)

	got := s.QualityScores(context.Background(), "topic", ticket.Learning, []BatchItem{
		{ID: "a", Text: "one"},
		{ID: "b", Text: "two"},
	})
	if got["a"] != 100 {
		t.Errorf("score a = %g, want clamp to 100", got["a"])
	}
	if got["b"] != 0 {
		t.Errorf("score b = %g, want clamp to 0", got["b"])
	}
	if _, ok := got["ghost"]; ok {
		t.Errorf("unknown id should be dropped, got %v", got)
	}
}

func TestIsSubstantiveQuestion(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Why does the enzyme stop working at high temperature?", true},
		{"how do plasmids replicate", true},
		{"no", false},
		{"None", false},
		{"N/A", false},
		{"n.a.", false},
		{"nothing", false},
		{"No questions", false},
		{"idk", false},
		{"I don't know", false},
		{"???", true},
		{"...", false},
		{"", false},
		{"   ", false},
		{"what", true},
		{"does pH matter", true},
		{"I am still confused about the second step of the lab", true},
		{"ok", false},
	}
	for _, tc := range cases {
		if got := IsSubstantiveQuestion(tc.text); got != tc.want {
			t.Errorf("IsSubstantiveQuestion(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
