package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-aether/aether/internal/judge"
	"github.com/project-aether/aether/internal/review"
)

func resultWithStance(factor string, stance judge.Stance) FactorResult {
	return FactorResult{
		Factor:  factor,
		Verdict: judge.Verdict{Stance: stance, Confidence: 7, Reasoning: "because"},
	}
}

func TestBuildReportMajority(t *testing.T) {
	tests := []struct {
		name    string
		stances []judge.Stance
		want    Recommendation
	}{
		{"all positive", []judge.Stance{judge.Positive, judge.Positive}, RecommendationProceed},
		{"majority negative", []judge.Stance{judge.Negative, judge.Positive, judge.Negative}, RecommendationReject},
		{"tie", []judge.Stance{judge.Positive, judge.Negative}, RecommendationInconclusive},
		{"no factors", nil, RecommendationInconclusive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []FactorResult
			for i, stance := range tt.stances {
				results = append(results, resultWithStance(string(rune('A'+i)), stance))
			}
			report := BuildReport("some report text", results)
			assert.Equal(t, tt.want, report.Recommendation)
		})
	}
}

func TestBuildReportCounts(t *testing.T) {
	report := BuildReport("text", []FactorResult{
		resultWithStance("a", judge.Positive),
		resultWithStance("b", judge.Negative),
		resultWithStance("c", judge.Negative),
	})
	assert.Equal(t, 1, report.Positive)
	assert.Equal(t, 2, report.Negative)
}

func TestBuildReportTruncatesPrefix(t *testing.T) {
	long := strings.Repeat("r", 1200)
	report := BuildReport(long, nil)
	assert.Len(t, report.ReportPrefix, 500)

	short := "short report"
	assert.Equal(t, short, BuildReport(short, nil).ReportPrefix)
}

func TestRenderMarkdown(t *testing.T) {
	result := resultWithStance("Scalability under load", judge.Positive)
	result.PeerReviews = map[string]map[string]review.Score{
		"openai/gpt-4o": {
			"Agent-1": {Reasoning: 8, Bias: 8, Insight: 8, Evidence: 8, DebateSkill: 8},
			"Agent-2": {Reasoning: 4, Bias: 4, Insight: 4, Evidence: 4, DebateSkill: 4},
		},
		"groq/llama": {
			"Agent-1": {Reasoning: 6, Bias: 6, Insight: 6, Evidence: 6, DebateSkill: 6},
			"Agent-2": {Reasoning: 4, Bias: 4, Insight: 4, Evidence: 4, DebateSkill: 4},
		},
	}
	report := BuildReport("original report body", []FactorResult{result})
	md := report.RenderMarkdown()

	require.Contains(t, md, "# PROJECT AETHER - FINAL REPORT")
	assert.Contains(t, md, "## FACTOR 1: Scalability under load")
	assert.Contains(t, md, "POSITIVE (confidence 7/10)")
	// Agent-1 averages (8.0 + 6.0) / 2, Agent-2 stays at 4.0
	assert.Contains(t, md, "Agent-1: 7.0/10")
	assert.Contains(t, md, "Agent-2: 4.0/10")
	assert.Contains(t, md, "Aggregate recommendation: PROCEED")
	// agent lines come out in stable label order
	assert.Less(t, strings.Index(md, "Agent-1:"), strings.Index(md, "Agent-2:"))
}
