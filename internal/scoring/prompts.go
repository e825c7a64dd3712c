package scoring

import (
	"fmt"
	"strings"

	"exitlens/internal/llm"
	"exitlens/internal/ticket"
)

const qualitySystemPrompt = `You judge the quality of student reflections from an exit ticket.
Score each response from 0 to 100. Reward specificity, evidence of genuine
engagement with the material, and connections between ideas. Penalize vague
one-liners, restated prompt text, and filler. Judge the thinking, not the
grammar.`

// categoryGuidance tells the oracle what "good" means per prompt.
var categoryGuidance = map[ticket.Category]string{
	ticket.Learning: "These answer \"what did you learn today?\". High scores name specific concepts and explain them in the student's own words.",
	ticket.Question: "These answer \"what questions do you still have?\". High scores ask specific, thoughtful questions that push past the lesson; low scores are generic or show the student was not engaged.",
	ticket.Interest: "These answer \"what interested you most?\". High scores identify a specific idea and say why it was interesting or where it could lead.",
}

// BatchScoresSchema is the JSON schema for one batched quality call.
var BatchScoresSchema = &llm.Schema{
	Name:        "quality-scores",
	Description: "Quality scores for a batch of student responses",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scores": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "The response id exactly as given in the input",
						},
						"score": map[string]any{
							"type":        "number",
							"minimum":     0,
							"maximum":     100,
							"description": "Quality score from 0 (empty effort) to 100 (exceptional)",
						},
					},
					"required":             []any{"id", "score"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"scores"},
		"additionalProperties": false,
	},
}

// buildBatchPrompt renders one quality batch as a numbered request. Each
// response carries the id the oracle must echo back.
func buildBatchPrompt(activity string, category ticket.Category, batch []BatchItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lesson topic: %s\n\n", activity)
	if g, ok := categoryGuidance[category]; ok {
		b.WriteString(g)
		b.WriteString("\n\n")
	}
	b.WriteString("Score each response below. Return a JSON object of the form\n")
	b.WriteString(`{"scores": [{"id": "...", "score": N}, ...]}`)
	b.WriteString(" with one entry per response, echoing each id unchanged.\n\n")
	for _, item := range batch {
		fmt.Fprintf(&b, "[%s] %s\n", item.ID, item.Text)
	}
	return b.String()
}
