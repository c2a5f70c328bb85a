package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/project-aether/aether/internal/debate"
	"github.com/project-aether/aether/internal/evidence"
	"github.com/project-aether/aether/internal/factors"
	"github.com/project-aether/aether/internal/judge"
	"github.com/project-aether/aether/internal/llm"
	"github.com/project-aether/aether/internal/metrics"
	"github.com/project-aether/aether/internal/review"
)

const minReportChars = 50

// Config carries the knobs the driver needs.
type Config struct {
	ProModelA  string
	ProModelB  string
	ConModelA  string
	ConModelB  string
	JudgeModel string

	Rounds             int
	MaxArgumentWords   int
	MaxFactors         int
	MaxTranscriptChars int
	JudgeTimeout       time.Duration
	Anonymize          bool
}

// ReviewerModels returns the peer review panel: the four debate
// models plus the judge.
func (c Config) ReviewerModels() []string {
	return []string{c.ProModelA, c.ProModelB, c.ConModelA, c.ConModelB, c.JudgeModel}
}

// Runner drives analysis jobs. One job runs as one sequential
// background task; concurrency exists only inside peer review.
type Runner struct {
	cfg       Config
	caller    llm.Caller
	extractor *factors.Extractor
	collector *evidence.Collector
	anonymize review.Anonymizer
	reviewer  *review.Aggregator
	judge     *judge.Judge
	registry  *Registry
	sink      Sink
	log       *logrus.Logger

	// baseCtx parents every job context, so shutting down the owner
	// cancels in-flight jobs.
	baseCtx context.Context

	// OnTurn and OnStage observe progress; used by the CLI.
	OnTurn  func(jobID string, turn debate.Turn)
	OnStage func(jobID string, stage Stage, progress string)
}

// NewRunner wires the pipeline. collector may use nop collaborators
// when evidence gathering is disabled; sink may be NopSink.
func NewRunner(baseCtx context.Context, cfg Config, caller llm.Caller, collector *evidence.Collector, sink Sink, log *logrus.Logger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Runner{
		cfg:       cfg,
		caller:    caller,
		extractor: factors.NewExtractor(caller, cfg.JudgeModel, cfg.MaxFactors, log),
		collector: collector,
		anonymize: review.NewAnonymizer(cfg.Anonymize),
		reviewer:  review.NewAggregator(caller, cfg.ReviewerModels(), log),
		judge:     judge.NewJudge(caller, cfg.JudgeModel, cfg.MaxTranscriptChars, cfg.JudgeTimeout, log),
		registry:  NewRegistry(),
		sink:      sink,
		log:       log,
		baseCtx:   baseCtx,
	}
}

// Submit validates the report, creates a job, and starts its
// background task. It returns the job ID immediately.
func (r *Runner) Submit(reportText string) (string, error) {
	if len(strings.TrimSpace(reportText)) < minReportChars {
		return "", fmt.Errorf("pipeline: report text must be at least %d characters", minReportChars)
	}
	ctx, cancel := context.WithCancel(r.baseCtx)
	j := r.registry.create(cancel)
	jobID := j.state.ID

	go func() {
		defer close(j.done)
		r.run(ctx, jobID, reportText)
	}()
	return jobID, nil
}

// Status returns a snapshot of the job.
func (r *Runner) Status(jobID string) (JobState, error) { return r.registry.Status(jobID) }

// List returns all job summaries.
func (r *Runner) List() []JobSummary { return r.registry.List() }

// Delete removes a job, cancelling it if still running.
func (r *Runner) Delete(jobID string) error { return r.registry.Delete(jobID) }

// Wait blocks until the job's background task finishes.
func (r *Runner) Wait(jobID string) error {
	done, ok := r.registry.doneChan(jobID)
	if !ok {
		return ErrNotFound
	}
	<-done
	return nil
}

func (r *Runner) setStage(jobID string, stage Stage, progress string) {
	r.registry.update(jobID, func(s *JobState) {
		s.Stage = stage
		s.Progress = progress
	})
	if r.OnStage != nil {
		r.OnStage(jobID, stage, progress)
	}
}

func (r *Runner) fail(jobID string, err error) {
	r.log.WithField("job", jobID).WithError(err).Error("job failed")
	r.registry.update(jobID, func(s *JobState) {
		s.Status = StatusFailed
		s.Error = err.Error()
		s.Progress = "Error: " + err.Error()
	})
	metrics.Jobs.WithLabelValues(string(StatusFailed)).Inc()
}

// run is the single driver task for one job. Stages are strictly
// sequential; any unrecoverable stage error fails the whole job while
// completed factor results stay inspectable.
func (r *Runner) run(ctx context.Context, jobID, reportText string) {
	log := r.log.WithField("job", jobID)
	r.registry.update(jobID, func(s *JobState) { s.Status = StatusRunning })
	r.setStage(jobID, StageExtracting, "Extracting factors")

	factorList, err := r.extractor.Extract(ctx, reportText)
	if err != nil {
		r.fail(jobID, err)
		return
	}
	r.registry.update(jobID, func(s *JobState) {
		s.TotalFactors = len(factorList)
		s.Factors = factorList
	})

	agents := debate.BuildAgents(r.cfg.ProModelA, r.cfg.ProModelB, r.cfg.ConModelA, r.cfg.ConModelB)
	var results []FactorResult

	for idx, factor := range factorList {
		if err := ctx.Err(); err != nil {
			r.fail(jobID, err)
			return
		}
		r.registry.update(jobID, func(s *JobState) { s.CurrentFactor = idx + 1 })
		progress := func(stage string) string {
			return fmt.Sprintf("Factor %d/%d (%s): %s", idx+1, len(factorList), stage, factor)
		}

		r.setStage(jobID, StageCollectingEvidence, progress("collecting evidence"))
		ev := r.collector.Collect(ctx, factor)

		r.setStage(jobID, StageDebating, progress("debating"))
		engine := debate.NewEngine(reportText, factor, ev, agents, r.caller, r.cfg.Rounds, r.cfg.MaxArgumentWords, r.log)
		if r.OnTurn != nil {
			engine.OnTurn = func(turn debate.Turn) { r.OnTurn(jobID, turn) }
		}
		transcript, err := engine.Run(ctx)
		if err != nil {
			r.fail(jobID, err)
			return
		}
		rendered := transcript.Render()
		if err := r.sink.SaveTranscript(jobID, idx+1, rendered); err != nil {
			log.WithError(err).Warn("transcript not persisted")
		}

		r.setStage(jobID, StageAnonymizing, progress("anonymizing"))
		anonymized := r.anonymize.Apply(rendered)

		r.setStage(jobID, StageReviewing, progress("peer review"))
		reviews := r.reviewer.Review(ctx, anonymized)

		r.setStage(jobID, StageJudging, progress("judging"))
		verdict := r.judge.Synthesize(ctx, factor, rendered, reviews)

		result := FactorResult{
			Factor:      factor,
			Evidence:    ev,
			Transcript:  transcript,
			PeerReviews: reviews,
			Verdict:     verdict,
		}
		results = append(results, result)
		r.registry.update(jobID, func(s *JobState) {
			s.Results = append(s.Results, result)
		})
	}

	report := BuildReport(reportText, results)
	if err := r.sink.SaveReviews(jobID, results); err != nil {
		log.WithError(err).Warn("reviews not persisted")
	}
	if err := r.sink.SaveReport(jobID, report); err != nil {
		log.WithError(err).Warn("report not persisted")
	}

	r.registry.update(jobID, func(s *JobState) {
		s.Status = StatusCompleted
		s.Report = report
		s.Progress = "Analysis complete"
	})
	metrics.Jobs.WithLabelValues(string(StatusCompleted)).Inc()
	log.WithField("recommendation", report.Recommendation).Info("analysis complete")
}
