package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives artifacts for persistence by the surrounding service.
// Sink failures degrade: the in-memory result is the authoritative
// output.
type Sink interface {
	SaveTranscript(jobID string, factorIndex int, transcript string) error
	SaveReviews(jobID string, results []FactorResult) error
	SaveReport(jobID string, report *Report) error
}

// NopSink discards all artifacts.
type NopSink struct{}

func (NopSink) SaveTranscript(string, int, string) error { return nil }
func (NopSink) SaveReviews(string, []FactorResult) error { return nil }
func (NopSink) SaveReport(string, *Report) error         { return nil }

// FileSink writes artifacts into a directory, one file per artifact.
type FileSink struct {
	Dir string
}

func (s FileSink) ensureDir() error { return os.MkdirAll(s.Dir, 0o755) }

// SaveTranscript writes the raw transcript for one factor.
func (s FileSink) SaveTranscript(jobID string, factorIndex int, transcript string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	name := fmt.Sprintf("debate_%s_factor_%d.txt", jobID, factorIndex)
	return os.WriteFile(filepath.Join(s.Dir, name), []byte(transcript), 0o644)
}

// SaveReviews writes all peer reviews as JSON keyed by factor.
func (s FileSink) SaveReviews(jobID string, results []FactorResult) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	data := make(map[string]any, len(results))
	for i, result := range results {
		data[fmt.Sprintf("factor_%d", i+1)] = map[string]any{
			"factor":  result.Factor,
			"reviews": result.PeerReviews,
		}
	}
	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("peer_review_%s.json", jobID)
	return os.WriteFile(filepath.Join(s.Dir, name), blob, 0o644)
}

// SaveReport writes the rendered markdown report.
func (s FileSink) SaveReport(jobID string, report *Report) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	name := fmt.Sprintf("final_report_%s.md", jobID)
	return os.WriteFile(filepath.Join(s.Dir, name), []byte(report.RenderMarkdown()), 0o644)
}
