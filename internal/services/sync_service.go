package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/domain/project"
	"github.com/pratik-mahalle/d9sync/internal/pkg/logger"
	"github.com/pratik-mahalle/d9sync/internal/pkg/metrics"
	"github.com/pratik-mahalle/d9sync/internal/providers"
)

// Notifier delivers a run summary somewhere humans will see it
type Notifier interface {
	NotifySummary(ctx context.Context, summary *Summary) error
}

// MetricsPusher publishes run metrics after each run
type MetricsPusher interface {
	Push(ctx context.Context) error
}

// Snapshot is one point-in-time view of both sides of the reconciliation
type Snapshot struct {
	Projects      []project.CloudProject
	Accounts      []account.RegisteredAccount
	ProjectIndex  project.Index
	RegistryIndex account.Index
	TakenAt       time.Time
}

// SyncService reconciles cloud projects with registry accounts
type SyncService struct {
	lister      project.Lister
	registry    account.Registry
	credentials providers.CredentialDocument
	pacer       *Pacer
	notifier    Notifier
	pusher      MetricsPusher
	logger      *logger.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(
	lister project.Lister,
	registry account.Registry,
	credentials providers.CredentialDocument,
	pacer *Pacer,
	log *logger.Logger,
) *SyncService {
	if pacer == nil {
		pacer = NewPacer(time.Second)
	}
	return &SyncService{
		lister:      lister,
		registry:    registry,
		credentials: credentials,
		pacer:       pacer,
		logger:      log,
	}
}

// SetNotifier sets where run summaries are sent
func (s *SyncService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetMetricsPusher sets where run metrics are pushed
func (s *SyncService) SetMetricsPusher(p MetricsPusher) {
	s.pusher = p
}

// TakeSnapshot lists both sides. Every call fetches fresh data; nothing is
// cached between calls.
func (s *SyncService) TakeSnapshot(ctx context.Context) (*Snapshot, error) {
	projects, err := s.lister.ListActiveProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cloud projects: %w", err)
	}

	accounts, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered accounts: %w", err)
	}

	metrics.SetSnapshot(len(projects), len(accounts))

	return &Snapshot{
		Projects:      projects,
		Accounts:      accounts,
		ProjectIndex:  project.NewIndex(projects),
		RegistryIndex: account.NewIndex(accounts),
		TakenAt:       time.Now().UTC(),
	}, nil
}

// PlannedItem is a project selected for onboarding or offboarding
type PlannedItem struct {
	ProjectID  string `json:"project_id" yaml:"project_id"`
	Name       string `json:"name" yaml:"name"`
	RegistryID string `json:"registry_id,omitempty" yaml:"registry_id,omitempty"`
}

// Plan lists what an onboarding and an offboarding run would do now
type Plan struct {
	TakenAt  time.Time     `json:"taken_at" yaml:"taken_at"`
	Projects int           `json:"active_projects" yaml:"active_projects"`
	Accounts int           `json:"registered_accounts" yaml:"registered_accounts"`
	Onboard  []PlannedItem `json:"onboard" yaml:"onboard"`
	Offboard []PlannedItem `json:"offboard" yaml:"offboard"`
}

// Plan computes both candidate sets from a single snapshot without writing
func (s *SyncService) Plan(ctx context.Context) (*Plan, error) {
	snap, err := s.TakeSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		TakenAt:  snap.TakenAt,
		Projects: len(snap.Projects),
		Accounts: len(snap.Accounts),
		Onboard:  []PlannedItem{},
		Offboard: []PlannedItem{},
	}
	for _, id := range ProjectsToOnboard(snap.Projects, snap.Accounts) {
		plan.Onboard = append(plan.Onboard, PlannedItem{
			ProjectID: id,
			Name:      snap.ProjectIndex.Name(id),
		})
	}
	for _, id := range ProjectsToOffboard(snap.Projects, snap.Accounts) {
		registryID, _ := snap.RegistryIndex.RegistryID(id)
		plan.Offboard = append(plan.Offboard, PlannedItem{
			ProjectID:  id,
			Name:       snap.RegistryIndex.Name(id),
			RegistryID: registryID,
		})
	}
	return plan, nil
}

// Sync runs onboarding and, when offboard is set, offboarding. Each phase
// takes its own snapshot. Offboarding is skipped if onboarding aborted.
func (s *SyncService) Sync(ctx context.Context, offboard bool) ([]*Summary, error) {
	onboarded, err := s.Onboard(ctx)
	summaries := []*Summary{onboarded}
	if !offboard || onboarded.Aborted {
		return summaries, err
	}

	offboarded, offErr := s.Offboard(ctx)
	summaries = append(summaries, offboarded)
	if err == nil {
		err = offErr
	}
	return summaries, err
}

// finish stamps the summary, records metrics and sends notifications.
// Reporting failures are logged and never change the run result.
func (s *SyncService) finish(ctx context.Context, summary *Summary, log *logger.Logger) {
	summary.FinishedAt = time.Now().UTC()
	metrics.RecordRun(string(summary.Operation), summary.Status(), summary.FinishedAt.Sub(summary.StartedAt))

	log.WithFields(map[string]interface{}{
		"candidates":     summary.Candidates,
		"succeeded":      summary.Succeeded,
		"already_exists": summary.AlreadyExists,
		"rejected":       summary.Rejected,
		"failed":         summary.Failed,
		"skipped":        summary.Skipped,
		"status":         summary.Status(),
	}).Info("Run complete")

	// Reporting still runs when the run context was cancelled.
	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if s.notifier != nil {
		if err := s.notifier.NotifySummary(reportCtx, summary); err != nil {
			log.ErrorWithErr(err, "Failed to send run summary notification")
		}
	}
	if s.pusher != nil {
		if err := s.pusher.Push(reportCtx); err != nil {
			log.ErrorWithErr(err, "Failed to push metrics")
		}
	}
}
