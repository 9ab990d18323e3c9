package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/domain/project"
	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
	"github.com/pratik-mahalle/d9sync/internal/pkg/logger"
	"github.com/pratik-mahalle/d9sync/internal/providers"
	"github.com/pratik-mahalle/d9sync/internal/testutil"
)

type recordingNotifier struct {
	summaries []*Summary
}

func (n *recordingNotifier) NotifySummary(ctx context.Context, s *Summary) error {
	n.summaries = append(n.summaries, s)
	return nil
}

func newTestSyncService(lister project.Lister, registry account.Registry) *SyncService {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	creds := providers.CredentialDocument(testutil.ServiceAccountKey())
	return NewSyncService(lister, registry, creds, NewPacer(0), log)
}

func TestSyncService_Onboard(t *testing.T) {
	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		testutil.ActiveProject("p-b", "Bravo"),
		testutil.ActiveProject("p-c", "Charlie"),
	)
	registry := testutil.NewMockRegistry(testutil.Account("acc-1", "p-c"))
	service := newTestSyncService(lister, registry)

	summary, err := service.Onboard(context.Background())
	if err != nil {
		t.Fatalf("Onboard() error = %v", err)
	}

	if summary.Candidates != 2 || summary.Succeeded != 2 {
		t.Errorf("Candidates = %d, Succeeded = %d, want 2 and 2", summary.Candidates, summary.Succeeded)
	}
	if summary.Status() != "ok" {
		t.Errorf("Status() = %s, want ok", summary.Status())
	}

	if len(registry.RegisterCalls) != 2 {
		t.Fatalf("expected 2 register calls, got %d", len(registry.RegisterCalls))
	}
	for i, want := range []struct{ id, name string }{{"p-a", "Alpha"}, {"p-b", "Bravo"}} {
		call := registry.RegisterCalls[i]
		if call.Name != want.name {
			t.Errorf("call %d name = %q, want %q", i, call.Name, want.name)
		}
		if call.Credentials["project_id"] != want.id {
			t.Errorf("call %d project_id = %v, want %s", i, call.Credentials["project_id"], want.id)
		}
		if call.Credentials["client_email"] != "d9sync@key-home.iam.gserviceaccount.com" {
			t.Errorf("call %d lost the rest of the credential document", i)
		}
	}

	if got := service.credentials.ProjectID(); got != "key-home" {
		t.Errorf("shared credential document was modified, project_id = %s", got)
	}
}

func TestSyncService_Onboard_ConflictIsNotCounted(t *testing.T) {
	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		testutil.ActiveProject("p-b", "Bravo"),
	)
	registry := testutil.NewMockRegistry()
	registry.Responses["p-a"] = testutil.Response{Status: http.StatusConflict}
	service := newTestSyncService(lister, registry)

	summary, err := service.Onboard(context.Background())
	if err != nil {
		t.Fatalf("Onboard() error = %v", err)
	}
	if summary.Aborted {
		t.Fatal("a conflict must not abort the run")
	}
	if summary.Succeeded != 1 || summary.AlreadyExists != 1 {
		t.Errorf("Succeeded = %d, AlreadyExists = %d, want 1 and 1", summary.Succeeded, summary.AlreadyExists)
	}
	if len(registry.RegisterCalls) != 2 {
		t.Errorf("expected both projects to be attempted, got %d calls", len(registry.RegisterCalls))
	}
}

func TestSyncService_Onboard_Idempotent(t *testing.T) {
	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		testutil.ActiveProject("p-b", "Bravo"),
	)
	registry := testutil.NewMockRegistry()
	service := newTestSyncService(lister, registry)

	first, err := service.Onboard(context.Background())
	if err != nil {
		t.Fatalf("first Onboard() error = %v", err)
	}
	if first.Succeeded != 2 {
		t.Fatalf("first run Succeeded = %d, want 2", first.Succeeded)
	}

	second, err := service.Onboard(context.Background())
	if err != nil {
		t.Fatalf("second Onboard() error = %v", err)
	}
	if second.Candidates != 0 || second.Succeeded != 0 {
		t.Errorf("second run Candidates = %d, Succeeded = %d, want 0 and 0", second.Candidates, second.Succeeded)
	}
	if len(registry.RegisterCalls) != 2 {
		t.Errorf("second run made registry writes, total calls = %d", len(registry.RegisterCalls))
	}
}

func TestSyncService_Onboard_PerItemFailuresContinue(t *testing.T) {
	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		testutil.ActiveProject("p-b", "Bravo"),
		testutil.ActiveProject("p-c", "Charlie"),
		testutil.ActiveProject("p-d", "Delta"),
	)
	registry := testutil.NewMockRegistry()
	registry.Responses["p-a"] = testutil.Response{Status: http.StatusBadRequest}
	registry.Responses["p-b"] = testutil.Response{Status: http.StatusInternalServerError}
	registry.Responses["p-c"] = testutil.Response{Status: http.StatusServiceUnavailable}
	service := newTestSyncService(lister, registry)

	summary, err := service.Onboard(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeItemFailures) {
		t.Fatalf("Onboard() error = %v, want item failures", err)
	}
	if summary.Aborted {
		t.Fatal("per-item failures must not abort the run")
	}

	got := make([]account.OutcomeKind, 0, len(summary.Results))
	for _, r := range summary.Results {
		got = append(got, r.Outcome.Kind)
	}
	want := []account.OutcomeKind{
		account.OutcomeRejected,
		account.OutcomeTransientFailure,
		account.OutcomeUnknown,
		account.OutcomeSucceeded,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
	if summary.Succeeded != 1 || summary.Rejected != 1 || summary.Failed != 2 {
		t.Errorf("counters = %+v", summary)
	}
	if summary.Status() != "partial" {
		t.Errorf("Status() = %s, want partial", summary.Status())
	}
}

func TestSyncService_Onboard_AbortsOnTransportError(t *testing.T) {
	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		testutil.ActiveProject("p-b", "Bravo"),
		testutil.ActiveProject("p-c", "Charlie"),
		testutil.ActiveProject("p-d", "Delta"),
	)
	registry := testutil.NewMockRegistry()
	registry.Responses["p-b"] = testutil.Response{Err: errors.New("dial tcp: connection refused")}
	service := newTestSyncService(lister, registry)

	summary, err := service.Onboard(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeAborted) {
		t.Fatalf("Onboard() error = %v, want aborted", err)
	}

	if len(registry.RegisterCalls) != 2 {
		t.Errorf("expected 2 register calls before the abort, got %d", len(registry.RegisterCalls))
	}
	if !summary.Aborted || summary.Skipped != 2 {
		t.Errorf("Aborted = %v, Skipped = %d, want true and 2", summary.Aborted, summary.Skipped)
	}
	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Errorf("Succeeded = %d, Failed = %d, want 1 and 1", summary.Succeeded, summary.Failed)
	}
	if summary.Processed() != 2 {
		t.Errorf("Processed() = %d, want 2", summary.Processed())
	}
}

func TestSyncService_Onboard_CancelledContext(t *testing.T) {
	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		testutil.ActiveProject("p-b", "Bravo"),
	)
	registry := testutil.NewMockRegistry()
	service := newTestSyncService(lister, registry)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := service.Onboard(ctx)
	if err == nil {
		t.Fatal("expected an error for a cancelled run")
	}
	if len(registry.RegisterCalls) != 0 {
		t.Errorf("expected no register calls, got %d", len(registry.RegisterCalls))
	}
	if summary.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", summary.Skipped)
	}
}

// slowRegistry answers every write after a delay and records when each call
// started and returned
type slowRegistry struct {
	*testutil.MockRegistry
	delay  time.Duration
	starts []time.Time
	ends   []time.Time
}

func (r *slowRegistry) Register(ctx context.Context, name string, credentials map[string]interface{}) (int, error) {
	r.starts = append(r.starts, time.Now())
	time.Sleep(r.delay)
	status, err := r.MockRegistry.Register(ctx, name, credentials)
	r.ends = append(r.ends, time.Now())
	return status, err
}

func TestSyncService_Onboard_PausesAfterEachWrite(t *testing.T) {
	const interval = 100 * time.Millisecond

	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		testutil.ActiveProject("p-b", "Bravo"),
		testutil.ActiveProject("p-c", "Charlie"),
	)
	registry := &slowRegistry{MockRegistry: testutil.NewMockRegistry(), delay: 90 * time.Millisecond}
	service := newTestSyncService(lister, registry)
	service.pacer = NewPacer(interval)

	if _, err := service.Onboard(context.Background()); err != nil {
		t.Fatalf("Onboard() error = %v", err)
	}

	if len(registry.starts) != 3 {
		t.Fatalf("expected 3 register calls, got %d", len(registry.starts))
	}
	for i := 1; i < len(registry.starts); i++ {
		if gap := registry.starts[i].Sub(registry.ends[i-1]); gap < interval {
			t.Errorf("pause between call %d and call %d = %v, want at least %v", i, i+1, gap, interval)
		}
	}
}

func TestSyncService_Onboard_ListingFailure(t *testing.T) {
	lister := testutil.NewMockProjectLister()
	lister.ListError = apperrors.ProviderAuthError("GCP", errors.New("permission denied"))
	registry := testutil.NewMockRegistry()
	service := newTestSyncService(lister, registry)

	summary, err := service.Onboard(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeProviderAuth) {
		t.Errorf("Onboard() error = %v, want the auth error in the chain", err)
	}
	if !summary.Aborted {
		t.Error("expected the run to be aborted")
	}
	if registry.ListCalls != 0 || len(registry.RegisterCalls) != 0 {
		t.Error("registry must not be called when the listing fails")
	}
}

func TestSyncService_Offboard(t *testing.T) {
	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		project.CloudProject{ID: "p-doomed", Name: "Doomed", LifecycleState: project.StateDeleteRequested},
	)
	registry := testutil.NewMockRegistry(
		testutil.Account("acc-a", "p-a"),
		testutil.Account("acc-doomed", "p-doomed"),
		testutil.Account("acc-gone", "p-gone"),
	)
	service := newTestSyncService(lister, registry)

	summary, err := service.Offboard(context.Background())
	if err != nil {
		t.Fatalf("Offboard() error = %v", err)
	}

	if diff := cmp.Diff([]string{"acc-doomed", "acc-gone"}, registry.DeregisterCalls); diff != "" {
		t.Errorf("deregister calls mismatch (-want +got):\n%s", diff)
	}
	if summary.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", summary.Succeeded)
	}
	for _, r := range summary.Results {
		if r.RegistryID == "" {
			t.Errorf("result for %s has no registry ID", r.ProjectID)
		}
	}
}

func TestSyncService_Offboard_MissingRegistryID(t *testing.T) {
	lister := testutil.NewMockProjectLister()
	registry := testutil.NewMockRegistry(
		account.RegisteredAccount{CloudProjectID: "p-orphan", Name: "Orphan"},
		testutil.Account("acc-old", "p-old"),
	)
	service := newTestSyncService(lister, registry)

	summary, err := service.Offboard(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeItemFailures) {
		t.Errorf("Offboard() error = %v, want item failures", err)
	}
	if diff := cmp.Diff([]string{"acc-old"}, registry.DeregisterCalls); diff != "" {
		t.Errorf("deregister calls mismatch (-want +got):\n%s", diff)
	}
	if summary.Rejected != 1 || summary.Succeeded != 1 {
		t.Errorf("Rejected = %d, Succeeded = %d, want 1 and 1", summary.Rejected, summary.Succeeded)
	}
}

func TestSyncService_Sync(t *testing.T) {
	lister := testutil.NewMockProjectLister(testutil.ActiveProject("p-new", "New"))
	registry := testutil.NewMockRegistry(testutil.Account("acc-old", "p-old"))
	service := newTestSyncService(lister, registry)
	notifier := &recordingNotifier{}
	service.SetNotifier(notifier)

	summaries, err := service.Sync(context.Background(), true)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Operation != account.OperationOnboard || summaries[1].Operation != account.OperationOffboard {
		t.Errorf("unexpected operation order: %s, %s", summaries[0].Operation, summaries[1].Operation)
	}

	// Offboarding must see the account onboarding just created.
	if lister.Calls != 2 || registry.ListCalls != 2 {
		t.Errorf("expected a fresh snapshot per phase, got %d listings and %d registry lists", lister.Calls, registry.ListCalls)
	}
	if diff := cmp.Diff([]string{"acc-old"}, registry.DeregisterCalls); diff != "" {
		t.Errorf("deregister calls mismatch (-want +got):\n%s", diff)
	}
	if len(notifier.summaries) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(notifier.summaries))
	}
}

func TestSyncService_Sync_SkipsOffboardAfterAbort(t *testing.T) {
	lister := testutil.NewMockProjectLister(testutil.ActiveProject("p-new", "New"))
	registry := testutil.NewMockRegistry(testutil.Account("acc-old", "p-old"))
	registry.Responses["p-new"] = testutil.Response{Err: errors.New("timeout")}
	service := newTestSyncService(lister, registry)

	summaries, err := service.Sync(context.Background(), true)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(summaries) != 1 {
		t.Errorf("expected only the onboarding summary, got %d", len(summaries))
	}
	if len(registry.DeregisterCalls) != 0 {
		t.Error("offboarding must not run after an aborted onboarding")
	}
}

func TestSyncService_Plan(t *testing.T) {
	lister := testutil.NewMockProjectLister(
		testutil.ActiveProject("p-a", "Alpha"),
		testutil.ActiveProject("p-b", "Bravo"),
	)
	registry := testutil.NewMockRegistry(
		testutil.Account("acc-b", "p-b"),
		account.RegisteredAccount{RegistryID: "acc-z", CloudProjectID: "p-z", Name: "Zulu"},
	)
	service := newTestSyncService(lister, registry)

	plan, err := service.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	wantOnboard := []PlannedItem{{ProjectID: "p-a", Name: "Alpha"}}
	wantOffboard := []PlannedItem{{ProjectID: "p-z", Name: "Zulu", RegistryID: "acc-z"}}
	if diff := cmp.Diff(wantOnboard, plan.Onboard); diff != "" {
		t.Errorf("onboard mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantOffboard, plan.Offboard); diff != "" {
		t.Errorf("offboard mismatch (-want +got):\n%s", diff)
	}
	if len(registry.RegisterCalls)+len(registry.DeregisterCalls) != 0 {
		t.Error("Plan() must not write to the registry")
	}
}
