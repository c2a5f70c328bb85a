package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for lookups of unknown job IDs.
var ErrNotFound = errors.New("pipeline: job not found")

// job is the registry's mutable record. The driver goroutine is the
// only writer of state after creation; all access goes through the
// registry mutex because readers race with it.
type job struct {
	state  JobState
	cancel context.CancelFunc
	done   chan struct{}
}

// Registry maps job IDs to job state. It is an explicit,
// lifecycle-scoped object handed to callers, never ambient process
// state. All jobs live in memory for the process lifetime only.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*job)}
}

func (r *Registry) create(cancel context.CancelFunc) *job {
	j := &job{
		state: JobState{
			ID:       uuid.NewString(),
			Status:   StatusQueued,
			Progress: "Queued for processing",
			Created:  time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.mu.Lock()
	r.jobs[j.state.ID] = j
	r.mu.Unlock()
	return j
}

// Status returns a snapshot of the job's state.
func (r *Registry) Status(jobID string) (JobState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return JobState{}, ErrNotFound
	}
	return snapshot(&j.state), nil
}

// List returns summaries of all jobs, oldest first.
func (r *Registry) List() []JobSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	summaries := make([]JobSummary, 0, len(r.jobs))
	for _, j := range r.jobs {
		summaries = append(summaries, JobSummary{
			ID:       j.state.ID,
			Status:   j.state.Status,
			Progress: j.state.Progress,
			Created:  j.state.Created,
		})
	}
	sort.Slice(summaries, func(a, b int) bool { return summaries[a].Created.Before(summaries[b].Created) })
	return summaries
}

// Delete removes a job. A running job's context is cancelled so its
// background task does not leak.
func (r *Registry) Delete(jobID string) error {
	r.mu.Lock()
	j, ok := r.jobs[jobID]
	if ok {
		delete(r.jobs, jobID)
	}
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if j.cancel != nil {
		j.cancel()
	}
	return nil
}

// update applies fn to a job's state under the registry lock.
func (r *Registry) update(jobID string, fn func(*JobState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[jobID]; ok {
		fn(&j.state)
	}
}

// doneChan returns the channel closed when the job's driver finishes.
func (r *Registry) doneChan(jobID string) (chan struct{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return nil, false
	}
	return j.done, true
}

// snapshot copies state so callers never alias driver-owned slices.
func snapshot(s *JobState) JobState {
	out := *s
	out.Factors = append([]string(nil), s.Factors...)
	out.Results = append([]FactorResult(nil), s.Results...)
	return out
}
