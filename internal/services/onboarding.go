package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/pkg/logger"
	"github.com/pratik-mahalle/d9sync/internal/pkg/metrics"
)

// Onboard registers every ACTIVE project that the registry does not know yet.
// Per-item rejections are recorded and the run moves on; a registry call that
// produces no response at all aborts the remaining candidates. The summary is
// returned in every case, together with the error the run should exit with.
func (s *SyncService) Onboard(ctx context.Context) (*Summary, error) {
	summary := newSummary(account.OperationOnboard)
	log := s.logger.WithFields(map[string]interface{}{
		"run_id":    summary.RunID,
		"operation": summary.Operation,
	})

	snap, err := s.TakeSnapshot(ctx)
	if err != nil {
		summary.abort(err, 0)
		s.finish(ctx, summary, log)
		return summary, summary.Err()
	}

	ids := ProjectsToOnboard(snap.Projects, snap.Accounts)
	summary.Candidates = len(ids)
	metrics.SetCandidates(string(summary.Operation), len(ids))
	log.Infof("Found %d projects to onboard", len(ids))

	for i, id := range ids {
		if err := s.pacer.Wait(ctx); err != nil {
			summary.abort(err, len(ids)-i)
			break
		}

		name := snap.ProjectIndex.Name(id)
		start := time.Now()
		status, err := s.registry.Register(ctx, name, s.credentials.WithProjectID(id))
		s.pacer.Done()

		result := ItemResult{ProjectID: id, Name: name}
		if isSystemic(status, err) {
			result.Outcome = account.Outcome{
				Kind:   account.OutcomeTransientFailure,
				Reason: err.Error(),
			}
			summary.record(result)
			summary.abort(err, len(ids)-i-1)
			metrics.RecordRegistryWrite(string(summary.Operation), string(result.Outcome.Kind), time.Since(start))
			log.With("project_id", id).ErrorWithErr(err, "Registry unreachable, aborting onboarding")
			break
		}

		result.Outcome = ClassifyResponse(account.OperationOnboard, status, err)
		summary.record(result)
		metrics.RecordRegistryWrite(string(summary.Operation), string(result.Outcome.Kind), time.Since(start))
		logItem(log, result)
	}

	s.finish(ctx, summary, log)
	return summary, summary.Err()
}

// logItem logs one per-item outcome at a level matching its kind
func logItem(log *logger.Logger, r ItemResult) {
	l := log.WithFields(map[string]interface{}{
		"project_id": r.ProjectID,
		"name":       r.Name,
		"status":     r.Outcome.StatusCode,
		"outcome":    r.Outcome.Kind,
	})
	if r.RegistryID != "" {
		l = l.With("registry_id", r.RegistryID)
	}

	switch r.Outcome.Kind {
	case account.OutcomeSucceeded:
		l.Info("Project reconciled")
	case account.OutcomeAlreadyExists:
		l.Warn(r.Outcome.Reason)
	default:
		if r.Outcome.Body != "" {
			l = l.With("body", r.Outcome.Body)
		}
		l.Error(r.Outcome.Reason)
	}
}
