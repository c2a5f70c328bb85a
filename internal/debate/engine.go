package debate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/project-aether/aether/internal/evidence"
	"github.com/project-aether/aether/internal/llm"
)

// Engine orchestrates one factor's debate: R rounds over the four
// fixed agents in fixed order, every turn seeing the full prior
// history.
type Engine struct {
	report   string
	factor   string
	evidence evidence.Set
	agents   []Agent
	caller   llm.Caller
	rounds   int
	maxWords int
	log      *logrus.Logger

	// OnTurn, when set, observes each completed turn.
	OnTurn func(Turn)
}

// NewEngine creates an engine for a single factor.
func NewEngine(report, factor string, ev evidence.Set, agents []Agent, caller llm.Caller, rounds, maxWords int, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		report:   report,
		factor:   factor,
		evidence: ev,
		agents:   agents,
		caller:   caller,
		rounds:   rounds,
		maxWords: maxWords,
		log:      log,
	}
}

// Run executes all rounds and finalizes the transcript. Any single
// turn failure aborts the debate: downstream review assumes a
// complete, well-formed transcript.
func (e *Engine) Run(ctx context.Context) (*Transcript, error) {
	transcript := &Transcript{
		Factor:  e.factor,
		Started: time.Now(),
	}
	var history []string

	e.log.WithField("factor", e.factor).Info("starting debate")
	for round := 1; round <= e.rounds; round++ {
		e.log.WithFields(logrus.Fields{"round": round, "rounds": e.rounds}).Info("debate round")
		for _, agent := range e.agents {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("debate: %w", err)
			}
			prompt := userPrompt(agent, e.report, e.factor, e.evidence, history, e.maxWords)
			argument, err := e.caller.Call(ctx, agent.Model, prompt, systemPrompt(agent, e.maxWords))
			if err != nil {
				return nil, fmt.Errorf("debate: agent %s round %d: %w", agent.ID, round, err)
			}
			turn := Turn{
				AgentID:  agent.ID,
				Side:     agent.Side,
				Round:    round,
				Argument: strings.TrimSpace(argument),
				Ordinal:  len(transcript.Turns),
			}
			transcript.Turns = append(transcript.Turns, turn)
			history = append(history, turn.String())
			if e.OnTurn != nil {
				e.OnTurn(turn)
			}
			e.log.WithFields(logrus.Fields{"agent": agent.ID, "chars": len(turn.Argument)}).Debug("turn complete")
		}
		transcript.Rounds = round
	}
	transcript.Ended = time.Now()
	e.log.WithField("turns", len(transcript.Turns)).Info("debate complete")
	return transcript, nil
}
