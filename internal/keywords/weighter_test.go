package keywords

import (
	"reflect"
	"strings"
	"testing"
)

const enzymeText = "Restriction enzymes cut DNA at specific recognition sites; " +
	"this is the basis of recombinant DNA technology. Restriction enzymes are " +
	"used to build recombinant DNA molecules in the laboratory."

func TestExtract_RanksRepeatedDomainTerms(t *testing.T) {
	w := New(DefaultConfig())
	terms := w.Extract(enzymeText)
	if len(terms) == 0 {
		t.Fatal("expected terms, got none")
	}

	found := map[string]bool{}
	for _, wt := range terms {
		found[wt.Term] = true
		if wt.Weight <= 0 || wt.Weight > 1 {
			t.Errorf("term %q weight %f out of range", wt.Term, wt.Weight)
		}
	}
	for _, want := range []string{"dna", "restriction", "enzymes", "restriction enzymes", "recombinant dna"} {
		if !found[want] {
			t.Errorf("expected term %q in extraction, got %v", want, found)
		}
	}
	if found["the"] || found["of"] {
		t.Error("stopwords leaked into extracted terms")
	}
}

func TestExtract_OrderedByWeightDescending(t *testing.T) {
	w := New(DefaultConfig())
	terms := w.Extract(enzymeText)
	for i := 1; i < len(terms); i++ {
		if terms[i].Weight > terms[i-1].Weight {
			t.Fatalf("terms not sorted: %v before %v", terms[i-1], terms[i])
		}
	}
}

func TestExtract_ShortInputReturnsNil(t *testing.T) {
	w := New(DefaultConfig())
	if got := w.Extract("too short"); got != nil {
		t.Fatalf("expected nil for short input, got %v", got)
	}
	if got := w.Extract(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	w := New(DefaultConfig())
	first := w.Extract(enzymeText)
	for i := 0; i < 100; i++ {
		if got := w.Extract(enzymeText); !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d: extraction is not deterministic", i)
		}
	}
}

func TestExtract_RespectsMaxTerms(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTerms = 5
	w := New(cfg)
	terms := w.Extract(enzymeText)
	if len(terms) > 5 {
		t.Fatalf("expected at most 5 terms, got %d", len(terms))
	}
}

func TestCorpusWeights_DistinctiveTermsOutweighCommonOnes(t *testing.T) {
	w := New(DefaultConfig())
	corpus := []string{
		"I learned that restriction enzymes cut DNA at palindromic sites",
		"I learned that plasmids carry recombinant DNA into bacteria",
		"I learned that gel electrophoresis separates DNA fragments by size",
	}
	weights := w.CorpusWeights(corpus)
	if len(weights) == 0 {
		t.Fatal("expected corpus weights")
	}
	if weights["dna"] <= 0 {
		t.Fatal("expected positive weight for shared term 'dna'")
	}
	// "plasmids" appears in one document only; its IDF boost should leave
	// it with nonzero mean weight.
	if weights["plasmids"] <= 0 {
		t.Fatal("expected positive weight for rare term 'plasmids'")
	}
}

func TestCorpusWeights_EmptyCorpus(t *testing.T) {
	w := New(DefaultConfig())
	if got := w.CorpusWeights(nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	if got := w.CorpusWeights([]string{"", "a", "!!"}); len(got) != 0 {
		t.Fatalf("expected empty map for degenerate corpus, got %v", got)
	}
}

func TestVectorize_SharedVocabularyAndUnitNorm(t *testing.T) {
	w := New(DefaultConfig())
	vocab, vectors := w.Vectorize([]string{
		"restriction enzymes cut dna molecules",
		"recombinant dna technology uses plasmids",
	})
	if len(vocab) == 0 || len(vectors) != 2 {
		t.Fatalf("unexpected shapes: vocab=%d vectors=%d", len(vocab), len(vectors))
	}
	for d, vec := range vectors {
		if len(vec) != len(vocab) {
			t.Fatalf("doc %d vector length %d != vocab %d", d, len(vec), len(vocab))
		}
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		if norm < 0.99 || norm > 1.01 {
			t.Errorf("doc %d vector not unit-normalized: %f", d, norm)
		}
	}
}

func TestVectorize_BitIdenticalAcrossRuns(t *testing.T) {
	// Weight vectors must be byte-identical between identical runs: norm
	// accumulation over a map would let float rounding vary with iteration
	// order, and downstream theme labels break ties on exact weights.
	w := New(DefaultConfig())
	corpus := []string{
		"plasmids are circular dna used as cloning vectors",
		"plasmids carry recombinant dna into bacterial cells",
		"restriction enzymes cut dna at recognition sites",
	}
	firstVocab, firstVecs := w.Vectorize(corpus)
	for i := 0; i < 200; i++ {
		vocab, vecs := w.Vectorize(corpus)
		if !reflect.DeepEqual(firstVocab, vocab) {
			t.Fatalf("run %d: vocabulary order differs", i)
		}
		if !reflect.DeepEqual(firstVecs, vecs) {
			t.Fatalf("run %d: weight vectors differ between identical runs", i)
		}
	}
}

func TestVectorize_DegenerateInput(t *testing.T) {
	w := New(DefaultConfig())
	vocab, vectors := w.Vectorize([]string{"", "  ", "!"})
	if vocab != nil || vectors != nil {
		t.Fatalf("expected nil results, got %v %v", vocab, vectors)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello,   World!", "hello world"},
		{"DNA-binding (proteins)", "dna binding proteins"},
		{"  spaced\tout\ntext ", "spaced out text"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsTerm(t *testing.T) {
	text := "The restriction enzyme EcoRI cuts DNA."
	tests := []struct {
		term string
		want bool
	}{
		{"restriction enzyme", true},
		{"dna", true},
		{"ecori", true},
		{"enzym", false},          // no partial-word match
		{"enzyme ecori", true},    // phrase across cleaned punctuation
		{"recombinant dna", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ContainsTerm(text, tt.term); got != tt.want {
			t.Errorf("ContainsTerm(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestIsGenericPedagogical(t *testing.T) {
	for term, want := range map[string]bool{
		"learning":            true,
		"the activity":        true,
		"restriction enzymes": false,
		"learned about dna":   false,
		"":                    true,
	} {
		if got := IsGenericPedagogical(term); got != want {
			t.Errorf("IsGenericPedagogical(%q) = %v, want %v", term, got, want)
		}
	}
}

func TestExtract_NoBigramsWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseBigrams = false
	w := New(cfg)
	for _, wt := range w.Extract(enzymeText) {
		if strings.Contains(wt.Term, " ") {
			t.Fatalf("bigram %q extracted with bigrams disabled", wt.Term)
		}
	}
}
