package keywords

// stopwords is the English function-word list removed before term counting.
// Derived from the usual IR stopword set; intentionally excludes domain
// vocabulary so subject terms always survive weighting.
var stopwords = buildStopwords()

func buildStopwords() map[string]bool {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "also",
		"am", "an", "and", "any", "are", "aren", "as", "at", "be", "because",
		"been", "before", "being", "below", "between", "both", "but", "by",
		"can", "cannot", "could", "couldn", "did", "didn", "do", "does",
		"doesn", "doing", "don", "down", "during", "each", "few", "for",
		"from", "further", "had", "hadn", "has", "hasn", "have", "haven",
		"having", "he", "her", "here", "hers", "herself", "him", "himself",
		"his", "how", "if", "in", "into", "is", "isn", "it", "its", "itself",
		"just", "ll", "me", "more", "most", "my", "myself", "no", "nor",
		"not", "now", "of", "off", "on", "once", "only", "or", "other",
		"our", "ours", "ourselves", "out", "over", "own", "re", "same",
		"she", "should", "shouldn", "so", "some", "such", "than", "that",
		"the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "through", "to", "too", "under",
		"until", "up", "ve", "very", "was", "wasn", "we", "were", "weren",
		"what", "when", "where", "which", "while", "who", "whom", "why",
		"will", "with", "won", "would", "wouldn", "you", "your", "yours",
		"yourself", "yourselves",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// genericPedagogical are course-mechanics words that carry no subject
// content. Concept extraction filters them so "learn" and "activity" never
// surface as taught concepts.
var genericPedagogical = map[string]bool{
	"activity": true, "answer": true, "class": true, "concept": true,
	"course": true, "discuss": true, "discussed": true, "example": true,
	"exercise": true, "explain": true, "learn": true, "learned": true,
	"learning": true, "lesson": true, "material": true, "question": true,
	"session": true, "student": true, "students": true, "study": true,
	"teacher": true, "today": true, "topic": true, "understand": true,
	"understanding": true,
}

// IsGenericPedagogical reports whether every token of term is either a
// stopword or generic course-mechanics vocabulary.
func IsGenericPedagogical(term string) bool {
	tokens := contentTokens(CleanText(term))
	if len(tokens) == 0 {
		return true
	}
	for _, t := range tokens {
		if !genericPedagogical[t] {
			return false
		}
	}
	return true
}
