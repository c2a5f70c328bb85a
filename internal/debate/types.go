// Package debate runs the fixed 2-pro/2-con multi-round debate for a
// single factor and produces its transcript.
package debate

import (
	"fmt"
	"strings"
	"time"
)

// Side is the position an agent argues.
type Side string

const (
	Pro Side = "pro"
	Con Side = "con"
)

// Agent is one debate participant. Agents are stateless between
// debates; all during-debate state lives in the shared history.
type Agent struct {
	ID    string // Pro-A, Pro-B, Con-A, Con-B
	Side  Side
	Model string // provider/model spec
}

// BuildAgents returns the four fixed agents in speaking order.
func BuildAgents(proModelA, proModelB, conModelA, conModelB string) []Agent {
	return []Agent{
		{ID: "Pro-A", Side: Pro, Model: proModelA},
		{ID: "Pro-B", Side: Pro, Model: proModelB},
		{ID: "Con-A", Side: Con, Model: conModelA},
		{ID: "Con-B", Side: Con, Model: conModelB},
	}
}

// Turn is one agent's contribution. Ordinal is the append position
// across the whole debate.
type Turn struct {
	AgentID  string `json:"agent_id"`
	Side     Side   `json:"side"`
	Round    int    `json:"round"`
	Argument string `json:"argument"`
	Ordinal  int    `json:"ordinal"`
}

// String renders the turn the way it appears in transcripts and in the
// shared debate history.
func (t Turn) String() string {
	return fmt.Sprintf("[%s] (%s):\n%s\n", t.AgentID, strings.ToUpper(string(t.Side)), t.Argument)
}

// Transcript is the complete ordered record of one factor's debate.
// Immutable once finalized by the engine.
type Transcript struct {
	Factor  string    `json:"factor"`
	Started time.Time `json:"started"`
	Ended   time.Time `json:"ended"`
	Rounds  int       `json:"rounds"`
	Turns   []Turn    `json:"turns"`
}

const rule = "================================================================================"

// Render produces the textual transcript carried into anonymization,
// peer review, and judging.
func (t *Transcript) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DEBATE: %s\n", t.Factor)
	fmt.Fprintf(&sb, "Started: %s\n", t.Started.Format(time.RFC3339))
	sb.WriteString(rule + "\n")
	for round := 1; round <= t.Rounds; round++ {
		fmt.Fprintf(&sb, "\n--- ROUND %d ---\n\n", round)
		for _, turn := range t.Turns {
			if turn.Round == round {
				sb.WriteString(turn.String())
			}
		}
	}
	sb.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&sb, "Ended: %s\n", t.Ended.Format(time.RFC3339))
	return sb.String()
}
