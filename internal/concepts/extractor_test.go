package concepts

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"exitlens/internal/llm"
)

const reference = "Restriction enzymes cut DNA at specific recognition sites; " +
	"this is the basis of recombinant DNA technology."

func newExtractor(p llm.Provider) *Extractor {
	return New(p, DefaultConfig(), zap.NewNop())
}

func TestExtract_StructuredOracleResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"concepts": ["restriction enzyme", "recombinant DNA", "recognition site"]}`),
	})

	got := newExtractor(mock).Extract(context.Background(), reference)
	want := []string{"restriction enzyme", "recombinant dna", "recognition site"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("concept %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtract_FencedOracleResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("```json\n{\"concepts\": [\"gel electrophoresis\"]}\n```"),
	})

	got := newExtractor(mock).Extract(context.Background(), reference)
	if len(got) != 1 || got[0] != "gel electrophoresis" {
		t.Fatalf("expected [gel electrophoresis], got %v", got)
	}
}

func TestExtract_FiltersGenericVocabulary(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"concepts": ["learning", "activity", "plasmid", "the lesson"]}`),
	})

	got := newExtractor(mock).Extract(context.Background(), reference)
	if len(got) != 1 || got[0] != "plasmid" {
		t.Fatalf("expected generic terms filtered, got %v", got)
	}
}

func TestExtract_HeuristicLineFallback(t *testing.T) {
	// No JSON object at all — plain bullet list.
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("- restriction enzymes\n- DNA ligase\n- sticky ends\n"),
	})

	got := newExtractor(mock).Extract(context.Background(), reference)
	if len(got) != 3 {
		t.Fatalf("expected 3 heuristic concepts, got %v", got)
	}
	if got[0] != "restriction enzymes" || got[1] != "dna ligase" {
		t.Fatalf("unexpected heuristic parse: %v", got)
	}
}

func TestExtract_OracleErrorFallsBackToTerms(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue → ErrProviderUnavailable

	got := newExtractor(mock).Extract(context.Background(), reference)
	if len(got) == 0 {
		t.Fatal("expected TF-IDF fallback terms, got none")
	}
	found := false
	for _, c := range got {
		if c == "dna" || c == "restriction enzymes" || c == "recombinant dna" {
			found = true
		}
	}
	if !found {
		t.Fatalf("fallback terms missing domain vocabulary: %v", got)
	}
}

func TestExtract_NilProviderUsesTermFallback(t *testing.T) {
	got := newExtractor(nil).Extract(context.Background(), reference)
	if len(got) == 0 {
		t.Fatal("expected term-fallback concepts")
	}
	if len(got) > DefaultConfig().FallbackTerms {
		t.Fatalf("fallback exceeded cap: %d terms", len(got))
	}
}

func TestExtract_ShortReferenceNeverPanics(t *testing.T) {
	got := newExtractor(nil).Extract(context.Background(), "tiny")
	if len(got) != 0 {
		t.Fatalf("expected empty list for sub-threshold reference, got %v", got)
	}
}

func TestExtract_CapsConceptCount(t *testing.T) {
	concepts := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		concepts = append(concepts, string(rune('a'+i%26))+"-term-"+string(rune('a'+i/26)))
	}
	payload, _ := json.Marshal(map[string]any{"concepts": concepts})
	mock := llm.NewMockProvider(llm.MockResponse{Content: payload})

	got := newExtractor(mock).Extract(context.Background(), reference)
	if len(got) > DefaultConfig().MaxConcepts {
		t.Fatalf("expected at most %d concepts, got %d", DefaultConfig().MaxConcepts, len(got))
	}
}

func TestExtract_DedupesConcepts(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"concepts": ["Plasmid", "plasmid", "PLASMID "]}`),
	})
	got := newExtractor(mock).Extract(context.Background(), reference)
	if len(got) != 1 {
		t.Fatalf("expected deduped single concept, got %v", got)
	}
}
