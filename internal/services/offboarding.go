package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/pkg/metrics"
)

// Offboard removes registry accounts whose project is no longer ACTIVE. Calls
// are addressed by registry ID, looked up from the snapshot taken at the start
// of the run. Error handling matches Onboard.
func (s *SyncService) Offboard(ctx context.Context) (*Summary, error) {
	summary := newSummary(account.OperationOffboard)
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

	ids := ProjectsToOffboard(snap.Projects, snap.Accounts)
	summary.Candidates = len(ids)
	metrics.SetCandidates(string(summary.Operation), len(ids))
	log.Infof("Found %d projects to offboard", len(ids))

	for i, id := range ids {
		result := ItemResult{ProjectID: id, Name: snap.RegistryIndex.Name(id)}

		registryID, ok := snap.RegistryIndex.RegistryID(id)
		if !ok {
			result.Outcome = account.Outcome{
				Kind:   account.OutcomeRejected,
				Reason: "registry account has no ID",
			}
			summary.record(result)
			logItem(log, result)
			continue
		}
		result.RegistryID = registryID

		if err := s.pacer.Wait(ctx); err != nil {
			summary.abort(err, len(ids)-i)
			break
		}

		start := time.Now()
		status, err := s.registry.Deregister(ctx, registryID)
		s.pacer.Done()
		if isSystemic(status, err) {
			result.Outcome = account.Outcome{
				Kind:   account.OutcomeTransientFailure,
				Reason: err.Error(),
			}
			summary.record(result)
			summary.abort(err, len(ids)-i-1)
			metrics.RecordRegistryWrite(string(summary.Operation), string(result.Outcome.Kind), time.Since(start))
			log.WithFields(map[string]interface{}{
				"project_id":  id,
				"registry_id": registryID,
			}).ErrorWithErr(err, "Registry unreachable, aborting offboarding")
			break
		}

		result.Outcome = ClassifyResponse(account.OperationOffboard, status, err)
		summary.record(result)
		metrics.RecordRegistryWrite(string(summary.Operation), string(result.Outcome.Kind), time.Since(start))
		logItem(log, result)
	}

	s.finish(ctx, summary, log)
	return summary, summary.Err()
}
