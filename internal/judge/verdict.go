package judge

import (
	"strings"
)

// Stance is the judge's forced binary position. Neutral is not a legal
// output of the judge contract.
type Stance string

const (
	Positive Stance = "POSITIVE"
	Negative Stance = "NEGATIVE"
)

// Verdict is the judge's synthesis for one factor.
type Verdict struct {
	Stance     Stance `json:"stance"`
	Reasoning  string `json:"reasoning"`
	Confidence int    `json:"confidence"`
	Raw        string `json:"raw"`
}

var positiveKeywords = []string{"positive", "achievable", "feasible", "support", "pro side won", "viable"}
var negativeKeywords = []string{"negative", "not feasible", "high risk", "oppose", "con side won", "infeasible", "unachievable"}

// stanceStrategy attempts one way of classifying judge output. The
// chain is ordered; the first strategy that reports ok wins.
type stanceStrategy func(text string) (Stance, bool)

var stanceStrategies = []stanceStrategy{stanceFromVerdictLine, stanceFromLeadingKeywords}

// ParseVerdict classifies free-form judge output into a Verdict. The
// stance is always POSITIVE or NEGATIVE: labeled VERDICT lines first,
// then keyword polarity over the opening lines, then the conservative
// default for a stress test, NEGATIVE, with a first-sentence excerpt
// as reasoning.
func ParseVerdict(raw string) Verdict {
	text := strings.TrimSpace(raw)
	v := Verdict{
		Stance:     Negative,
		Reasoning:  text,
		Confidence: parseConfidence(text),
		Raw:        raw,
	}
	for _, strategy := range stanceStrategies {
		if stance, ok := strategy(text); ok {
			v.Stance = stance
			return v
		}
	}
	v.Reasoning = firstSentence(text)
	return v
}

// polarity counts keyword hits on a lowercased line. Negative phrases
// are checked first so "not feasible" never scores as "feasible".
func polarity(line string) (pos, neg int) {
	for _, kw := range negativeKeywords {
		for strings.Contains(line, kw) {
			neg++
			line = strings.Replace(line, kw, "", 1)
		}
	}
	for _, kw := range positiveKeywords {
		if strings.Contains(line, kw) {
			pos++
		}
	}
	return pos, neg
}

func stanceFromVerdictLine(text string) (Stance, bool) {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		idx := strings.Index(lower, "verdict:")
		if idx < 0 {
			continue
		}
		pos, neg := polarity(lower[idx+len("verdict:"):])
		switch {
		case pos > neg:
			return Positive, true
		case neg > pos:
			return Negative, true
		}
	}
	return "", false
}

const keywordScanLines = 5

func stanceFromLeadingKeywords(text string) (Stance, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > keywordScanLines {
		lines = lines[:keywordScanLines]
	}
	var pos, neg int
	for _, line := range lines {
		p, n := polarity(strings.ToLower(line))
		pos += p
		neg += n
	}
	switch {
	case pos > neg:
		return Positive, true
	case neg > pos:
		return Negative, true
	}
	return "", false
}

func firstSentence(text string) string {
	for _, sep := range []string{". ", ".\n"} {
		if idx := strings.Index(text, sep); idx >= 0 {
			return text[:idx+1]
		}
	}
	if len(text) > 200 {
		return text[:200]
	}
	return text
}

// parseConfidence pulls confidence from a CONFIDENCE-labeled line.
// Rule (documented, tested): digits on that line only; the first two
// digits form the candidate; if the two-digit value exceeds 10 only
// the first digit counts; the result clamps to [1,10]; no digits
// (or no line) means 5.
func parseConfidence(text string) int {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), "confidence") {
			continue
		}
		var digits []byte
		for i := 0; i < len(line) && len(digits) < 2; i++ {
			if line[i] >= '0' && line[i] <= '9' {
				digits = append(digits, line[i])
			}
		}
		if len(digits) == 0 {
			continue
		}
		value := int(digits[0] - '0')
		if len(digits) == 2 {
			twoDigit := value*10 + int(digits[1]-'0')
			if twoDigit <= 10 {
				value = twoDigit
			}
		}
		return clamp(value, 1, 10)
	}
	return 5
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
