package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/project-aether/aether/internal/judge"
	"github.com/project-aether/aether/internal/review"
)

// Recommendation is the aggregate category across all factor verdicts.
// Unlike a single verdict, the aggregate may legitimately be
// inconclusive: it describes the set of factors, not one stance.
type Recommendation string

const (
	RecommendationProceed      Recommendation = "PROCEED"
	RecommendationReject       Recommendation = "REJECT"
	RecommendationInconclusive Recommendation = "NEEDS FURTHER ANALYSIS"
)

// Report is the aggregate outcome of an analysis job.
type Report struct {
	ReportPrefix   string         `json:"report_prefix"`
	Positive       int            `json:"positive"`
	Negative       int            `json:"negative"`
	Recommendation Recommendation `json:"recommendation"`
	Results        []FactorResult `json:"results"`
}

const reportPrefixChars = 500

// BuildReport derives the aggregate report from completed factor
// results by majority count of verdict stances. Ties, and the
// zero-factor edge, resolve to the inconclusive category.
func BuildReport(reportText string, results []FactorResult) *Report {
	prefix := reportText
	if len(prefix) > reportPrefixChars {
		prefix = prefix[:reportPrefixChars]
	}
	r := &Report{ReportPrefix: prefix, Results: results}
	for _, result := range results {
		switch result.Verdict.Stance {
		case judge.Positive:
			r.Positive++
		case judge.Negative:
			r.Negative++
		}
	}
	switch {
	case r.Positive > r.Negative:
		r.Recommendation = RecommendationProceed
	case r.Negative > r.Positive:
		r.Recommendation = RecommendationReject
	default:
		r.Recommendation = RecommendationInconclusive
	}
	return r
}

// RenderMarkdown produces the final human-readable report.
func (r *Report) RenderMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# PROJECT AETHER - FINAL REPORT\n\n")
	sb.WriteString("## ORIGINAL REPORT\n")
	sb.WriteString(r.ReportPrefix + "...\n\n---\n\n")

	for idx, result := range r.Results {
		fmt.Fprintf(&sb, "## FACTOR %d: %s\n\n", idx+1, result.Factor)
		fmt.Fprintf(&sb, "### JUDGE'S VERDICT\n%s (confidence %d/10)\n\n%s\n\n", result.Verdict.Stance, result.Verdict.Confidence, result.Verdict.Reasoning)
		sb.WriteString("### PEER REVIEW SCORES\n")
		for _, line := range agentAverages(result.PeerReviews) {
			sb.WriteString("- " + line + "\n")
		}
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString("## META-ANALYSIS\n\n")
	fmt.Fprintf(&sb, "Verdicts: %d positive, %d negative.\n", r.Positive, r.Negative)
	fmt.Fprintf(&sb, "Aggregate recommendation: %s\n\n", r.Recommendation)
	sb.WriteString("This report represents a stress-test of the original proposal.\n")
	sb.WriteString("Verdicts are based on argument quality, not consensus.\n")
	sb.WriteString("All reasoning is auditable through saved transcripts.\n")
	return sb.String()
}

// agentAverages averages each agent's dimension means across all
// reviewers, in stable label order.
func agentAverages(reviews map[string]map[string]review.Score) []string {
	totals := map[string]float64{}
	counts := map[string]int{}
	for _, scores := range reviews {
		for agent, score := range scores {
			totals[agent] += score.Average()
			counts[agent]++
		}
	}
	agents := make([]string, 0, len(totals))
	for agent := range totals {
		agents = append(agents, agent)
	}
	sort.Strings(agents)
	lines := make([]string, 0, len(agents))
	for _, agent := range agents {
		lines = append(lines, fmt.Sprintf("%s: %.1f/10", agent, totals[agent]/float64(counts[agent])))
	}
	return lines
}
