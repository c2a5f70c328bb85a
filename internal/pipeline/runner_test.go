package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-aether/aether/internal/debate"
	"github.com/project-aether/aether/internal/evidence"
	"github.com/project-aether/aether/internal/judge"
)

// routedCaller answers by call kind, recognized from the system prompt.
type routedCaller struct {
	mu         sync.Mutex
	calls      []string
	factors    string // extraction response
	failFactor string // debate turns mentioning this factor fail
}

const goodReview = `{
  "Agent-1": {"reasoning": 8, "bias": 3, "insight": 7, "evidence": 6, "debate_skill": 8, "critique": "solid"},
  "Agent-2": {"reasoning": 7, "bias": 4, "insight": 6, "evidence": 7, "debate_skill": 7, "critique": "fine"},
  "Agent-3": {"reasoning": 6, "bias": 5, "insight": 5, "evidence": 6, "debate_skill": 6, "critique": "ok"},
  "Agent-4": {"reasoning": 7, "bias": 3, "insight": 8, "evidence": 7, "debate_skill": 7, "critique": "sharp"}
}`

func (c *routedCaller) Call(_ context.Context, model, prompt, systemPrompt string) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, model)
	c.mu.Unlock()

	switch {
	case strings.HasPrefix(systemPrompt, "You are a critical analyst"):
		return c.factors, nil
	case strings.HasPrefix(systemPrompt, "You are a debate evaluator"):
		return goodReview, nil
	case strings.HasPrefix(systemPrompt, "You are the Chairman"):
		return "VERDICT: POSITIVE\nCONFIDENCE: 8\nREASONING: The pro side carried the debate.", nil
	default:
		if c.failFactor != "" && strings.Contains(prompt, c.failFactor) {
			return "", fmt.Errorf("provider unavailable")
		}
		return "A pointed argument.", nil
	}
}

func testConfig() Config {
	return Config{
		ProModelA:        "openai/gpt-4o",
		ProModelB:        "anthropic/claude",
		ConModelA:        "groq/llama",
		ConModelB:        "ollama/qwen",
		JudgeModel:       "openai/gpt-4o",
		Rounds:           1,
		MaxArgumentWords: 200,
		MaxFactors:       5,
		JudgeTimeout:     time.Second,
		Anonymize:        true,
	}
}

func newTestRunner(t *testing.T, caller *routedCaller) *Runner {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	collector := evidence.NewCollector(evidence.NopSearcher{}, evidence.NopScraper{}, 8, 5, log)
	return NewRunner(context.Background(), testConfig(), caller, collector, NopSink{}, log)
}

const validReport = "This proposal introduces a distributed cache layer that will cut database load by half within two quarters."

func TestSubmitRejectsShortReports(t *testing.T) {
	r := newTestRunner(t, &routedCaller{})

	_, err := r.Submit(strings.Repeat("x", 49))
	assert.Error(t, err)

	// whitespace padding does not count toward the minimum
	_, err = r.Submit("   " + strings.Repeat("x", 49) + "   \n")
	assert.Error(t, err)

	id, err := r.Submit(strings.Repeat("x", 50))
	require.NoError(t, err)
	require.NoError(t, r.Wait(id))
}

func TestRunnerCompletesSingleFactor(t *testing.T) {
	caller := &routedCaller{factors: `["Technical feasibility of the cache layer"]`}
	r := newTestRunner(t, caller)

	id, err := r.Submit(validReport)
	require.NoError(t, err)
	require.NoError(t, r.Wait(id))

	state, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, state.Status)
	require.Len(t, state.Results, 1)

	result := state.Results[0]
	assert.Equal(t, "Technical feasibility of the cache layer", result.Factor)
	assert.Len(t, result.Transcript.Turns, 4) // 1 round x 4 agents
	assert.Len(t, result.PeerReviews, 4)      // judge model duplicates a debater, deduped
	assert.Equal(t, judge.Positive, result.Verdict.Stance)
	assert.Equal(t, 8, result.Verdict.Confidence)

	require.NotNil(t, state.Report)
	assert.Equal(t, RecommendationProceed, state.Report.Recommendation)
}

func TestRunnerFailsMidwayKeepingCompletedResults(t *testing.T) {
	caller := &routedCaller{
		factors:    `["Market demand", "Regulatory exposure", "Operating cost"]`,
		failFactor: "Regulatory exposure",
	}
	r := newTestRunner(t, caller)

	id, err := r.Submit(validReport)
	require.NoError(t, err)
	require.NoError(t, r.Wait(id))

	state, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, state.Status)
	assert.NotEmpty(t, state.Error)
	assert.Contains(t, state.Error, "provider unavailable")

	// factor 1 finished before the failure; factors 2 and 3 did not
	require.Len(t, state.Results, 1)
	assert.Equal(t, "Market demand", state.Results[0].Factor)
	assert.Nil(t, state.Report)
}

func TestRunnerProgressReflectsFactorCounts(t *testing.T) {
	caller := &routedCaller{factors: `["Factor feasibility here", "Factor scalability here"]`}
	r := newTestRunner(t, caller)

	var mu sync.Mutex
	var stages []Stage
	r.OnStage = func(_ string, stage Stage, _ string) {
		mu.Lock()
		stages = append(stages, stage)
		mu.Unlock()
	}

	id, err := r.Submit(validReport)
	require.NoError(t, err)
	require.NoError(t, r.Wait(id))

	state, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, 2, state.TotalFactors)
	assert.Equal(t, 2, state.CurrentFactor)

	perFactor := []Stage{StageCollectingEvidence, StageDebating, StageAnonymizing, StageReviewing, StageJudging}
	want := []Stage{StageExtracting}
	want = append(want, perFactor...)
	want = append(want, perFactor...)
	assert.Equal(t, want, stages)
}

func TestRunnerOnTurnObservesEveryTurn(t *testing.T) {
	caller := &routedCaller{factors: `["One debatable factor"]`}
	r := newTestRunner(t, caller)

	var mu sync.Mutex
	var agents []string
	r.OnTurn = func(_ string, turn debate.Turn) {
		mu.Lock()
		agents = append(agents, turn.AgentID)
		mu.Unlock()
	}

	id, err := r.Submit(validReport)
	require.NoError(t, err)
	require.NoError(t, r.Wait(id))

	assert.Equal(t, []string{"Pro-A", "Pro-B", "Con-A", "Con-B"}, agents)
}

func TestDeleteCancelsRunningJob(t *testing.T) {
	caller := &routedCaller{factors: `["Slow factor one", "Slow factor two", "Slow factor three"]`}
	r := newTestRunner(t, caller)

	started := make(chan struct{})
	once := sync.Once{}
	r.OnStage = func(_ string, stage Stage, _ string) {
		if stage == StageDebating {
			once.Do(func() { close(started) })
		}
	}

	id, err := r.Submit(validReport)
	require.NoError(t, err)
	<-started
	require.NoError(t, r.Delete(id))

	_, err = r.Status(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Wait(id), ErrNotFound)
}

func TestWaitUnknownJob(t *testing.T) {
	r := newTestRunner(t, &routedCaller{})
	assert.ErrorIs(t, r.Wait("nope"), ErrNotFound)
}

func TestListOrdersOldestFirst(t *testing.T) {
	caller := &routedCaller{factors: `["Single quick factor"]`}
	r := newTestRunner(t, caller)

	first, err := r.Submit(validReport)
	require.NoError(t, err)
	require.NoError(t, r.Wait(first))
	second, err := r.Submit(validReport)
	require.NoError(t, err)
	require.NoError(t, r.Wait(second))

	jobs := r.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, first, jobs[0].ID)
	assert.Equal(t, second, jobs[1].ID)
	assert.Equal(t, StatusCompleted, jobs[0].Status)
}
