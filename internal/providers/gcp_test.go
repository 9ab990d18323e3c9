package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"

	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
)

func newTestLister(t *testing.T, handler http.HandlerFunc) *GCPProjectLister {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	lister, err := NewGCPProjectLister(context.Background(), nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewGCPProjectLister() error = %v", err)
	}
	return lister
}

func TestGCPProjectLister_ListActiveProjects(t *testing.T) {
	pages := 0
	lister := newTestLister(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/projects" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("pageSize"); got != "500" {
			t.Errorf("pageSize = %q, want 500", got)
		}
		pages++

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("pageToken") {
		case "":
			fmt.Fprint(w, `{
				"projects": [
					{"projectId": "p-a", "name": "Alpha", "lifecycleState": "ACTIVE"},
					{"projectId": "p-gone", "name": "Gone", "lifecycleState": "DELETE_REQUESTED"}
				],
				"nextPageToken": "page-2"
			}`)
		case "page-2":
			fmt.Fprint(w, `{
				"projects": [
					{"projectId": "p-b", "name": "Bravo", "lifecycleState": "ACTIVE"}
				]
			}`)
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	})

	projects, err := lister.ListActiveProjects(context.Background())
	if err != nil {
		t.Fatalf("ListActiveProjects() error = %v", err)
	}
	if pages != 2 {
		t.Errorf("expected 2 pages, got %d", pages)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 active projects, got %d: %+v", len(projects), projects)
	}
	if projects[0].ID != "p-a" || projects[0].Name != "Alpha" || projects[1].ID != "p-b" {
		t.Errorf("unexpected projects: %+v", projects)
	}
}

func TestGCPProjectLister_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{"unauthenticated", http.StatusUnauthorized, apperrors.ErrCodeProviderAuth},
		{"permission denied", http.StatusForbidden, apperrors.ErrCodeProviderAuth},
		{"bad request", http.StatusBadRequest, apperrors.ErrCodeProviderAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := newTestLister(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprintf(w, `{"error": {"code": %d, "message": "nope"}}`, tt.status)
			})

			_, err := lister.ListActiveProjects(context.Background())
			if got := apperrors.CodeOf(err); got != tt.wantCode {
				t.Errorf("CodeOf() = %s, want %s (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestNewGCPProjectLister_BadCredentials(t *testing.T) {
	_, err := NewGCPProjectLister(context.Background(), CredentialDocument{"type": "bogus"})
	if !apperrors.Is(err, apperrors.ErrCodeProviderAuth) {
		t.Errorf("expected a provider auth error, got %v", err)
	}
}
