package debate

import (
	"fmt"
	"strings"

	"github.com/project-aether/aether/internal/evidence"
)

const (
	reportPrefixChars  = 500
	evidenceChunkChars = 200
	evidenceChunkCap   = 3
)

func systemPrompt(agent Agent, maxWords int) string {
	side := strings.ToUpper(string(agent.Side))
	return fmt.Sprintf(`You are a %s debater. Your role is to argue %s the factor.

HARD RULES:
1. You MUST address opponent claims directly
2. Do NOT repeat previous arguments
3. Evidence augments reasoning - don't quote-dump
4. Ignoring rebuttals will be penalized
5. Max %d words

Be sharp, logical, and responsive.`, side, string(agent.Side), maxWords)
}

func formatEvidence(chunks []evidence.Chunk) string {
	if len(chunks) > evidenceChunkCap {
		chunks = chunks[:evidenceChunkCap]
	}
	lines := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		lines = append(lines, fmt.Sprintf("- %s... (source: %s)", prefix(chunk.Text, evidenceChunkChars), chunk.Source))
	}
	return strings.Join(lines, "\n")
}

func userPrompt(agent Agent, report, factor string, ev evidence.Set, history []string, maxWords int) string {
	task := "opposing"
	if agent.Side == Pro {
		task = "supporting"
	}

	historyText := ""
	if len(history) > 0 {
		historyText = "\n\nDEBATE SO FAR:\n" + strings.Join(history, "\n")
	}

	return fmt.Sprintf(`ORIGINAL REPORT:
%s...

FACTOR TO DEBATE:
%s

PRO EVIDENCE:
%s

CON EVIDENCE:
%s
%s

YOUR TASK:
Make your %s argument for this factor.
Address the opponent's points if they exist.
Be concise and sharp. Max %d words.`,
		prefix(report, reportPrefixChars), factor,
		formatEvidence(ev.Pro), formatEvidence(ev.Con),
		historyText, task, maxWords)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
