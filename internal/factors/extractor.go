// Package factors extracts independently debatable factors from a
// report via the judge model, with layered parsing fallbacks.
package factors

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/project-aether/aether/internal/llm"
)

const extractionSystemPrompt = `You are a critical analyst. Your task is to break down reports into independent, debatable factors.

Rules:
- Each factor must be arguable from both sides
- Factors must be non-overlapping
- Prefer analytical dimensions over topics
- Examples: Feasibility, Scalability, Risk profile, Ethical implications, Market fit

CRITICAL: Return ONLY a valid JSON array of strings. NO explanations, NO markdown, NO extra text.
Format: ["Factor 1", "Factor 2"]`

const reportTruncateChars = 4000

// Extractor asks the judge model for debatable factors.
type Extractor struct {
	caller llm.Caller
	model  string
	max    int
	log    *logrus.Logger
}

// NewExtractor creates an Extractor bounded to max factors.
func NewExtractor(caller llm.Caller, model string, max int, log *logrus.Logger) *Extractor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Extractor{caller: caller, model: model, max: max, log: log}
}

// Extract returns 1..max factors. Parse failures degrade through the
// strategy chain; only a call failure is an error.
func (e *Extractor) Extract(ctx context.Context, report string) ([]string, error) {
	truncated := report
	if len(report) > reportTruncateChars {
		truncated = report[:reportTruncateChars] + "\n\n[Report truncated for factor extraction...]"
	}
	prompt := fmt.Sprintf(`Analyze this report and extract exactly %d debatable factors.

%s

Output ONLY the JSON array, nothing else:`, e.max, truncated)

	raw, err := e.caller.Call(ctx, e.model, prompt, extractionSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("factors: %w", err)
	}
	extracted := parseFactors(raw, e.max)
	e.log.WithField("count", len(extracted)).Info("factors extracted")
	return extracted, nil
}

var (
	fenceRe  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	arrayRe  = regexp.MustCompile(`\[[\s\S]*?\]`)
	quotedRe = regexp.MustCompile(`"([^"]+)"`)
)

// factorStrategy is one parse attempt; the chain falls through in
// order and the last link always produces something.
type factorStrategy func(raw string) []string

var factorStrategies = []factorStrategy{factorsFromJSONArray, factorsFromQuotedStrings, factorsFromLines}

func parseFactors(raw string, max int) []string {
	for _, strategy := range factorStrategies {
		if found := strategy(raw); len(found) > 0 {
			return limit(found, max)
		}
	}
	return []string{"Default Factor 1", "Default Factor 2"}
}

func factorsFromJSONArray(raw string) []string {
	candidate := strings.TrimSpace(raw)
	if matches := fenceRe.FindStringSubmatch(candidate); len(matches) > 1 {
		candidate = strings.TrimSpace(matches[1])
	}
	if span := arrayRe.FindString(candidate); span != "" {
		candidate = span
	}
	var factors []string
	if err := json.Unmarshal([]byte(candidate), &factors); err != nil {
		return nil
	}
	var clean []string
	for _, f := range factors {
		if f = strings.TrimSpace(f); f != "" {
			clean = append(clean, f)
		}
	}
	return clean
}

func factorsFromQuotedStrings(raw string) []string {
	var factors []string
	for _, match := range quotedRe.FindAllStringSubmatch(raw, -1) {
		quoted := match[1]
		if len(quoted) > 10 && !strings.HasPrefix(quoted, "Factor") {
			factors = append(factors, quoted)
		}
	}
	return factors
}

func factorsFromLines(raw string) []string {
	var factors []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(line, " \"-,[]")
		if len(line) <= 10 || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "```") {
			continue
		}
		factors = append(factors, line)
	}
	return factors
}

func limit(factors []string, max int) []string {
	if len(factors) > max {
		return factors[:max]
	}
	return factors
}
