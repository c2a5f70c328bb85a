package review

// Score is one reviewer's rating of one anonymous agent across the
// fixed dimensions, each on a 1-10 scale.
type Score struct {
	Reasoning   int    `json:"reasoning"`
	Bias        int    `json:"bias"`
	Insight     int    `json:"insight"`
	Evidence    int    `json:"evidence"`
	DebateSkill int    `json:"debate_skill"`
	Critique    string `json:"critique"`
}

// Average is the mean of the five numeric dimensions.
func (s Score) Average() float64 {
	return float64(s.Reasoning+s.Bias+s.Insight+s.Evidence+s.DebateSkill) / 5
}

const fallbackCritique = "Unable to parse review"

// fallbackScores is substituted for a reviewer whose call or parse
// failed: neutral 5s on every dimension, never a silently dropped
// reviewer.
func fallbackScores() map[string]Score {
	scores := make(map[string]Score, len(AgentLabels))
	for _, label := range AgentLabels {
		scores[label] = Score{
			Reasoning:   5,
			Bias:        5,
			Insight:     5,
			Evidence:    5,
			DebateSkill: 5,
			Critique:    fallbackCritique,
		}
	}
	return scores
}
