// Package pipeline sequences factor analysis end to end and owns the
// process-lifetime job registry.
package pipeline

import (
	"time"

	"github.com/project-aether/aether/internal/debate"
	"github.com/project-aether/aether/internal/evidence"
	"github.com/project-aether/aether/internal/judge"
	"github.com/project-aether/aether/internal/review"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Stage is the sub-state while a job is running. Factors advance
// through the per-factor stages strictly in order.
type Stage string

const (
	StageExtracting         Stage = "extracting"
	StageCollectingEvidence Stage = "collecting_evidence"
	StageDebating           Stage = "debating"
	StageAnonymizing        Stage = "anonymizing"
	StageReviewing          Stage = "reviewing"
	StageJudging            Stage = "judging"
)

// FactorResult is the unit aggregated into the final report, created
// once all five sub-stages for its factor complete and immutable
// thereafter.
type FactorResult struct {
	Factor      string                             `json:"factor"`
	Evidence    evidence.Set                       `json:"evidence"`
	Transcript  *debate.Transcript                 `json:"transcript"`
	PeerReviews map[string]map[string]review.Score `json:"peer_reviews"`
	Verdict     judge.Verdict                      `json:"verdict"`
}

// JobState is a point-in-time snapshot of one analysis job.
type JobState struct {
	ID            string         `json:"job_id"`
	Status        Status         `json:"status"`
	Stage         Stage          `json:"stage,omitempty"`
	Progress      string         `json:"progress,omitempty"`
	CurrentFactor int            `json:"current_factor,omitempty"`
	TotalFactors  int            `json:"total_factors,omitempty"`
	Factors       []string       `json:"factors,omitempty"`
	Results       []FactorResult `json:"results,omitempty"`
	Report        *Report        `json:"report,omitempty"`
	Error         string         `json:"error,omitempty"`
	Created       time.Time      `json:"created_at"`
}

// JobSummary is the listing view of a job.
type JobSummary struct {
	ID       string    `json:"job_id"`
	Status   Status    `json:"status"`
	Progress string    `json:"progress,omitempty"`
	Created  time.Time `json:"created_at"`
}
