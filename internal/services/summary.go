package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
)

// ItemResult is the outcome for a single project
type ItemResult struct {
	ProjectID  string          `json:"project_id" yaml:"project_id"`
	Name       string          `json:"name" yaml:"name"`
	RegistryID string          `json:"registry_id,omitempty" yaml:"registry_id,omitempty"`
	Outcome    account.Outcome `json:"outcome" yaml:"outcome"`
}

// Summary reports a finished onboarding or offboarding run
type Summary struct {
	RunID         string            `json:"run_id" yaml:"run_id"`
	Operation     account.Operation `json:"operation" yaml:"operation"`
	StartedAt     time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt    time.Time         `json:"finished_at" yaml:"finished_at"`
	Candidates    int               `json:"candidates" yaml:"candidates"`
	Succeeded     int               `json:"succeeded" yaml:"succeeded"`
	AlreadyExists int               `json:"already_exists" yaml:"already_exists"`
	Rejected      int               `json:"rejected" yaml:"rejected"`
	Failed        int               `json:"failed" yaml:"failed"`
	Skipped       int               `json:"skipped" yaml:"skipped"`
	Aborted       bool              `json:"aborted" yaml:"aborted"`
	AbortReason   string            `json:"abort_reason,omitempty" yaml:"abort_reason,omitempty"`
	Results       []ItemResult      `json:"results" yaml:"results"`

	abortErr error
}

func newSummary(op account.Operation) *Summary {
	return &Summary{
		RunID:     uuid.New().String(),
		Operation: op,
		StartedAt: time.Now().UTC(),
		Results:   []ItemResult{},
	}
}

// record adds a per-item result and updates the counters
func (s *Summary) record(r ItemResult) {
	s.Results = append(s.Results, r)
	switch {
	case r.Outcome.Counted():
		s.Succeeded++
	case r.Outcome.Kind == account.OutcomeAlreadyExists:
		s.AlreadyExists++
	case r.Outcome.Kind == account.OutcomeRejected:
		s.Rejected++
	default:
		s.Failed++
	}
}

// abort marks the run as stopped; skipped projects are not retried
func (s *Summary) abort(err error, skipped int) {
	s.Aborted = true
	s.AbortReason = err.Error()
	s.Skipped = skipped
	s.abortErr = err
}

// Processed returns how many candidates reached the registry
func (s *Summary) Processed() int {
	return len(s.Results)
}

// Status is "aborted", "partial" or "ok"
func (s *Summary) Status() string {
	switch {
	case s.Aborted:
		return "aborted"
	case s.Rejected+s.Failed > 0:
		return "partial"
	default:
		return "ok"
	}
}

// Err returns the error the run should exit with, nil when every project
// ended created, removed or already in the desired state.
func (s *Summary) Err() error {
	if s.Aborted {
		return apperrors.Aborted(string(s.Operation), s.Processed(), s.Candidates, s.abortErr)
	}
	if n := s.Rejected + s.Failed; n > 0 {
		return apperrors.ItemFailures(string(s.Operation), n)
	}
	return nil
}
