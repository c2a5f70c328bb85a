package review

import (
	"encoding/json"
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// parseScores extracts a reviewer's score map from free-form LLM
// output. It tolerates surrounding prose, markdown code fences, and
// leading/trailing junk: direct parse first, then the fenced block,
// then the first-`{`-to-last-`}` span. Empty output is a parse
// failure, not a crash.
func parseScores(raw string) (map[string]Score, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}

	var scores map[string]Score
	if err := json.Unmarshal([]byte(trimmed), &scores); err == nil && len(scores) > 0 {
		return scores, true
	}

	if matches := codeBlockRe.FindStringSubmatch(raw); len(matches) > 1 {
		if err := json.Unmarshal([]byte(strings.TrimSpace(matches[1])), &scores); err == nil && len(scores) > 0 {
			return scores, true
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &scores); err == nil && len(scores) > 0 {
			return scores, true
		}
	}

	return nil, false
}
