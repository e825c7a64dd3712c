package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models asked for "JSON only" still wrap output in fences, preamble, or
// trailing prose often enough that every schema-less response goes through
// this salvage chain: strip fences → outermost object span → strict parse →
// key/value regex → empty map. An empty map is a valid outcome; callers fall
// back to neutral defaults rather than failing the run.

var (
	fenceRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	kvStringRe = regexp.MustCompile(`"([A-Za-z0-9_]+)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	kvNumberRe = regexp.MustCompile(`"([A-Za-z0-9_]+)"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
)

// ExtractJSON pulls a JSON object out of raw judge output.
// Never returns an error: total failure yields an empty map.
func ExtractJSON(raw string) map[string]any {
	candidate := StripFences(raw)

	// Narrow to the outermost {...} span if one exists.
	if start := strings.Index(candidate, "{"); start >= 0 {
		if end := strings.LastIndex(candidate, "}"); end > start {
			candidate = candidate[start : end+1]
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
		return parsed
	}

	return salvageKeyValues(candidate)
}

// StripFences removes a markdown code fence wrapper, if present,
// and returns the inner text trimmed.
func StripFences(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// salvageKeyValues recovers flat string and numeric fields from malformed
// JSON-ish text. Nested values are lost; that is acceptable for the flat
// score/keyword payloads this package deals in.
func salvageKeyValues(text string) map[string]any {
	out := map[string]any{}

	for _, m := range kvStringRe.FindAllStringSubmatch(text, -1) {
		out[m[1]] = unescapeBasic(m[2])
	}
	for _, m := range kvNumberRe.FindAllStringSubmatch(text, -1) {
		if _, taken := out[m[1]]; taken {
			continue
		}
		var f float64
		if err := json.Unmarshal([]byte(m[2]), &f); err == nil {
			out[m[1]] = f
		}
	}

	return out
}

func unescapeBasic(s string) string {
	r := strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n", `\t`, "\t")
	return r.Replace(s)
}
