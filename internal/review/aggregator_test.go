package review

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReviewJSON = `{
  "Agent-1": {"reasoning": 8, "bias": 3, "insight": 7, "evidence": 6, "debate_skill": 8, "critique": "strong opener"},
  "Agent-2": {"reasoning": 6, "bias": 4, "insight": 5, "evidence": 5, "debate_skill": 6, "critique": "repetitive"},
  "Agent-3": {"reasoning": 7, "bias": 5, "insight": 6, "evidence": 7, "debate_skill": 7, "critique": "sharp rebuttals"},
  "Agent-4": {"reasoning": 5, "bias": 6, "insight": 4, "evidence": 5, "debate_skill": 5, "critique": "quote-dumps"}
}`

// reviewCaller returns a canned response per model spec.
type reviewCaller struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (c *reviewCaller) Call(_ context.Context, modelSpec, _, _ string) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, modelSpec)
	c.mu.Unlock()
	if err := c.errs[modelSpec]; err != nil {
		return "", err
	}
	return c.responses[modelSpec], nil
}

func reviewerSpecs() []string {
	return []string{
		"openai/gpt-4",
		"anthropic/claude-3-5-sonnet-20241022",
		"groq/llama-3.3-70b-versatile",
		"ollama/qwen2.5:14b",
		"anthropic/claude-3-opus-20240229",
	}
}

func TestReviewOneRecordPerReviewer(t *testing.T) {
	caller := &reviewCaller{responses: map[string]string{}}
	for _, spec := range reviewerSpecs() {
		caller.responses[spec] = validReviewJSON
	}
	a := NewAggregator(caller, reviewerSpecs(), nil)

	reviews := a.Review(context.Background(), "transcript")
	require.Len(t, reviews, 5)
	for _, spec := range reviewerSpecs() {
		scores := reviews[spec]
		require.Len(t, scores, 4)
		assert.Equal(t, 8, scores["Agent-1"].Reasoning)
	}
	assert.Len(t, caller.calls, 5, "all reviewers called")
}

func TestReviewNonJSONProseYieldsFallback(t *testing.T) {
	caller := &reviewCaller{responses: map[string]string{}}
	specs := reviewerSpecs()
	for _, spec := range specs {
		caller.responses[spec] = validReviewJSON
	}
	caller.responses[specs[2]] = "I think Agent-1 did quite well overall, considering."

	a := NewAggregator(caller, specs, nil)
	reviews := a.Review(context.Background(), "transcript")

	fallback := reviews[specs[2]]
	require.Len(t, fallback, 4)
	for _, label := range AgentLabels {
		score := fallback[label]
		assert.Equal(t, 5, score.Reasoning)
		assert.Equal(t, 5, score.Bias)
		assert.Equal(t, 5, score.Insight)
		assert.Equal(t, 5, score.Evidence)
		assert.Equal(t, 5, score.DebateSkill)
		assert.Equal(t, "Unable to parse review", score.Critique)
	}
	// Other reviewers unaffected.
	assert.Equal(t, 8, reviews[specs[0]]["Agent-1"].Reasoning)
}

func TestReviewAllFailuresStillReturnsEveryReviewer(t *testing.T) {
	caller := &reviewCaller{errs: map[string]error{}}
	for _, spec := range reviewerSpecs() {
		caller.errs[spec] = fmt.Errorf("provider down")
	}
	a := NewAggregator(caller, reviewerSpecs(), nil)

	reviews := a.Review(context.Background(), "transcript")
	require.Len(t, reviews, 5)
	for _, scores := range reviews {
		assert.Equal(t, "Unable to parse review", scores["Agent-1"].Critique)
	}
}

func TestReviewDeduplicatesReviewerSpecs(t *testing.T) {
	caller := &reviewCaller{responses: map[string]string{"openai/gpt-4": validReviewJSON}}
	a := NewAggregator(caller, []string{"openai/gpt-4", "openai/gpt-4", "openai/gpt-4"}, nil)

	reviews := a.Review(context.Background(), "transcript")
	assert.Len(t, reviews, 1)
	assert.Len(t, caller.calls, 1)
}

func TestParseScoresToleratesWrapping(t *testing.T) {
	fenced := "Here are my scores:\n```json\n" + validReviewJSON + "\n```\nHope that helps!"
	prosed := "Sure! " + validReviewJSON + " Let me know if you need more."

	for name, raw := range map[string]string{"fenced": fenced, "prose": prosed, "bare": validReviewJSON} {
		scores, ok := parseScores(raw)
		require.True(t, ok, name)
		assert.Equal(t, "strong opener", scores["Agent-1"].Critique, name)
	}
}

func TestParseScoresFailures(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":      "",
		"whitespace": "  \n ",
		"prose only": "the debate was good",
		"wrong type": `["Agent-1", "Agent-2"]`,
	} {
		_, ok := parseScores(raw)
		assert.False(t, ok, name)
	}
}

func TestScoreAverage(t *testing.T) {
	s := Score{Reasoning: 8, Bias: 3, Insight: 7, Evidence: 6, DebateSkill: 8}
	assert.InDelta(t, 6.4, s.Average(), 0.001)
}
