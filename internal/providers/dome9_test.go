package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
	"github.com/pratik-mahalle/d9sync/pkg/client"
)

func TestDome9Registry_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "acc-1", "projectId": "p-a", "name": "Alpha", "vendor": "google"},
			{"id": "acc-2", "projectId": "p-b", "name": "Bravo"},
		})
	}))
	defer srv.Close()

	registry := NewDome9Registry(client.NewClient(client.Config{BaseURL: srv.URL, APIKey: "k", APISecret: "s"}))
	accounts, err := registry.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].RegistryID != "acc-1" || accounts[0].CloudProjectID != "p-a" || accounts[0].Name != "Alpha" {
		t.Errorf("unexpected account: %+v", accounts[0])
	}
}

func TestDome9Registry_ListErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	registry := NewDome9Registry(client.NewClient(client.Config{BaseURL: srv.URL}))
	_, err := registry.List(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeRegistryHTTP) {
		t.Errorf("expected a registry HTTP error, got %v", err)
	}

	srv.Close()
	registry = NewDome9Registry(client.NewClient(client.Config{BaseURL: srv.URL, Timeout: time.Second}))
	_, err = registry.List(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeRegistryTransport) {
		t.Errorf("expected a registry transport error, got %v", err)
	}
}

func TestDome9Registry_RegisterAndDeregister(t *testing.T) {
	var created client.CreateGoogleCloudAccountRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewDecoder(r.Body).Decode(&created)
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message": "already exists"}`))
		case http.MethodDelete:
			if r.URL.Path != "/v2/GoogleCloudAccount/acc-1" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	registry := NewDome9Registry(client.NewClient(client.Config{BaseURL: srv.URL}))

	status, err := registry.Register(context.Background(), "Alpha", map[string]interface{}{"project_id": "p-a"})
	if status != http.StatusConflict || err == nil {
		t.Errorf("Register() = %d, %v, want 409 and an error", status, err)
	}
	if created.Name != "Alpha" || created.ServiceAccountCredentials["project_id"] != "p-a" {
		t.Errorf("unexpected request body: %+v", created)
	}

	status, err = registry.Deregister(context.Background(), "acc-1")
	if status != http.StatusNoContent || err != nil {
		t.Errorf("Deregister() = %d, %v, want 204 and nil", status, err)
	}
}
