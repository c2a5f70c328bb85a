package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/project-aether/aether/internal/llm"
)

const reviewSystemPrompt = `You are a debate evaluator. Score each agent's performance across multiple dimensions.

SCORING DIMENSIONS (1-10 scale):
- Reasoning Quality: Logical coherence and structure
- Bias: Emotional, ideological, selective framing (lower is better)
- Insight: Depth, originality, non-obvious points
- Evidence Use: Accuracy, relevance, proportionality
- Debate Skill: Rebuttal quality and adaptability

Return ONLY valid JSON in this format:
{
  "Agent-1": {"reasoning": X, "bias": X, "insight": X, "evidence": X, "debate_skill": X, "critique": "..."},
  "Agent-2": {...},
  "Agent-3": {...},
  "Agent-4": {...}
}`

// Aggregator fans one anonymized transcript out to every reviewer
// model concurrently and collects structured scores. Reviewers are the
// four debate models plus the judge model; the judge reviewing its own
// upcoming case is an accepted design choice.
type Aggregator struct {
	caller    llm.Caller
	reviewers []string
	log       *logrus.Logger
}

// NewAggregator creates an Aggregator over the given reviewer model
// specs. Duplicate specs are collapsed: a model spec is one reviewer
// no matter how many agents it powered.
func NewAggregator(caller llm.Caller, reviewers []string, log *logrus.Logger) *Aggregator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	seen := make(map[string]bool, len(reviewers))
	var unique []string
	for _, r := range reviewers {
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}
	return &Aggregator{caller: caller, reviewers: unique, log: log}
}

// Review collects one score map per reviewer, concurrently. Each
// reviewer is independently fault-isolated: a call or parse failure
// yields that reviewer's fallback record and never blocks the others.
func (a *Aggregator) Review(ctx context.Context, anonymizedTranscript string) map[string]map[string]Score {
	results := make(map[string]map[string]Score, len(a.reviewers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, reviewer := range a.reviewers {
		wg.Add(1)
		go func(reviewer string) {
			defer wg.Done()
			scores := a.reviewOne(ctx, reviewer, anonymizedTranscript)
			mu.Lock()
			results[reviewer] = scores
			mu.Unlock()
		}(reviewer)
	}
	wg.Wait()
	return results
}

func (a *Aggregator) reviewOne(ctx context.Context, reviewer, transcript string) map[string]Score {
	log := a.log.WithField("reviewer", reviewer)
	log.Info("collecting peer review")

	prompt := fmt.Sprintf(`Review this anonymized debate transcript and score each agent:

%s

Provide numerical scores (1-10) and written critique for each agent.`, transcript)

	raw, err := a.caller.Call(ctx, reviewer, prompt, reviewSystemPrompt)
	if err != nil {
		log.WithError(err).Warn("peer review call failed, substituting fallback scores")
		return fallbackScores()
	}
	scores, ok := parseScores(raw)
	if !ok {
		log.WithField("preview", prefix(raw, 200)).Warn("peer review unparseable, substituting fallback scores")
		return fallbackScores()
	}
	return scores
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
