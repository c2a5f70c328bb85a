// Package judge renders the forced binary verdict for one factor from
// its transcript and peer reviews.
package judge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/project-aether/aether/internal/llm"
	"github.com/project-aether/aether/internal/review"
)

const judgeSystemPrompt = `You are the Chairman and final judge of this debate.

Your responsibility is to judge the ENTIRE DEBATE, not just final turns.

CRITICAL RULE: You MUST take a definitive position - either SUPPORT or OPPOSE the factor.
NEUTRAL verdicts are FORBIDDEN. You must choose a side based on which arguments were stronger.

You must provide:
1. VERDICT: Either POSITIVE/ACHIEVABLE/FEASIBLE (if Pro won) OR NEGATIVE/NOT FEASIBLE/HIGH RISK (if Con won)
   - DO NOT use "neutral", "mixed", "inconclusive", or "needs further analysis"
   - Force yourself to pick the stronger side even if it's close
2. REASONING: Why this verdict holds based on debate quality
3. FAILURES: What arguments failed and why
4. POTENTIAL CHANGES: What could change the outcome
5. CONFIDENCE: Your confidence level (1-10)

Judge based on argument quality, not volume. Consider peer reviews but form your own opinion.
If both sides are equally strong, choose based on which presented more concrete evidence.
Be transparent and explainable, but ALWAYS pick a side.`

const critiqueSnippetChars = 100

// Judge issues the single authoritative synthesis call.
type Judge struct {
	caller             llm.Caller
	model              string
	maxTranscriptChars int
	timeout            time.Duration
	log                *logrus.Logger
}

// NewJudge creates a Judge using the given model spec. timeout bounds
// the synthesis call, which carries larger payloads than debate turns;
// zero means no extra bound. maxTranscriptChars caps the transcript
// fed to the model (0 uses the 8000-char default).
func NewJudge(caller llm.Caller, model string, maxTranscriptChars int, timeout time.Duration, log *logrus.Logger) *Judge {
	if maxTranscriptChars <= 0 {
		maxTranscriptChars = 8000
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Judge{
		caller:             caller,
		model:              model,
		maxTranscriptChars: maxTranscriptChars,
		timeout:            timeout,
		log:                log,
	}
}

// Synthesize renders the verdict for one factor. A call-level failure
// is captured as an error-marked verdict, never a fault: the pipeline
// still assembles a report.
func (j *Judge) Synthesize(ctx context.Context, factor, transcript string, peerReviews map[string]map[string]review.Score) Verdict {
	log := j.log.WithField("factor", factor)
	log.Info("judge synthesizing verdict")

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(`FACTOR: %s

DEBATE TRANSCRIPT:
%s

%s

Provide your final synthesis (be concise - max 500 words).

REMEMBER: You MUST choose either a POSITIVE verdict (Pro side won) or NEGATIVE verdict (Con side won).
No neutral positions allowed. Pick the stronger side now.`,
		factor, truncateTranscript(transcript, j.maxTranscriptChars, log), peerDigest(peerReviews))

	raw, err := j.caller.Call(ctx, j.model, prompt, judgeSystemPrompt)
	if err != nil {
		log.WithError(err).Error("judge synthesis failed")
		raw = fmt.Sprintf("ERROR: Judge synthesis failed due to: %v. Unable to provide verdict for this factor.", err)
	}
	verdict := ParseVerdict(raw)
	log.WithFields(logrus.Fields{"stance": verdict.Stance, "confidence": verdict.Confidence}).Info("verdict rendered")
	return verdict
}

// truncateTranscript keeps an equal prefix and suffix around an elided
// middle, preserving opening framing and closing rebuttals over
// mid-debate detail.
func truncateTranscript(transcript string, maxChars int, log *logrus.Entry) string {
	if len(transcript) <= maxChars {
		return transcript
	}
	log.WithFields(logrus.Fields{"from": len(transcript), "to": maxChars}).Warn("truncating transcript for judge")
	half := maxChars / 2
	return transcript[:half] +
		fmt.Sprintf("\n\n... [Middle section truncated (%d chars)] ...\n\n", len(transcript)-maxChars) +
		transcript[len(transcript)-half:]
}

// peerDigest summarizes peer reviews: per reviewer, per agent, the
// dimension average and a critique snippet. Output order is stable.
func peerDigest(peerReviews map[string]map[string]review.Score) string {
	var sb strings.Builder
	sb.WriteString("PEER REVIEW SUMMARY:\n")

	reviewers := make([]string, 0, len(peerReviews))
	for reviewer := range peerReviews {
		reviewers = append(reviewers, reviewer)
	}
	sort.Strings(reviewers)

	for _, reviewer := range reviewers {
		fmt.Fprintf(&sb, "\n%s:\n", reviewer)
		scores := peerReviews[reviewer]
		agents := make([]string, 0, len(scores))
		for agent := range scores {
			agents = append(agents, agent)
		}
		sort.Strings(agents)
		for _, agent := range agents {
			score := scores[agent]
			critique := score.Critique
			if len(critique) > critiqueSnippetChars {
				critique = critique[:critiqueSnippetChars]
			}
			fmt.Fprintf(&sb, "  %s: %.1f/10 - %s\n", agent, score.Average(), critique)
		}
	}
	return sb.String()
}
