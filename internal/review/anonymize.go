// Package review anonymizes debate transcripts and collects concurrent
// peer reviews of them.
package review

import (
	"regexp"
	"strings"
)

// AgentLabels are the anonymous identities reviewers see, in debate
// speaking order.
var AgentLabels = []string{"Agent-1", "Agent-2", "Agent-3", "Agent-4"}

var identityMap = strings.NewReplacer(
	"Pro-A", "Agent-1",
	"Pro-B", "Agent-2",
	"Con-A", "Agent-3",
	"Con-B", "Agent-4",
)

var sideMarker = regexp.MustCompile(`\((PRO|CON)\)`)

// Anonymizer strips agent identity and side markers from transcripts
// before peer review. The transform is deterministic and idempotent:
// anonymous labels never match the raw names a second time.
type Anonymizer struct {
	enabled bool
}

// NewAnonymizer creates an Anonymizer. When disabled it returns input
// unchanged, so reviewers see real identities; that is a configuration
// trade-off, not an error.
func NewAnonymizer(enabled bool) Anonymizer {
	return Anonymizer{enabled: enabled}
}

// Apply anonymizes a rendered transcript.
func (a Anonymizer) Apply(transcript string) string {
	if !a.enabled {
		return transcript
	}
	anonymized := identityMap.Replace(transcript)
	return sideMarker.ReplaceAllString(anonymized, "")
}
