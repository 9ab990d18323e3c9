package testutil

import (
	"context"
	"fmt"
	"maps"
	"net/http"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/domain/project"
	"github.com/pratik-mahalle/d9sync/pkg/client"
)

// MockProjectLister is a mock implementation of project.Lister
type MockProjectLister struct {
	Projects  []project.CloudProject
	ListError error
	Calls     int
}

func NewMockProjectLister(projects ...project.CloudProject) *MockProjectLister {
	return &MockProjectLister{Projects: projects}
}

func (m *MockProjectLister) ListActiveProjects(ctx context.Context) ([]project.CloudProject, error) {
	m.Calls++
	if m.ListError != nil {
		return nil, m.ListError
	}
	return project.Active(m.Projects), nil
}

// Response scripts one registry answer. A zero Status with an Err simulates
// a request that never got a response.
type Response struct {
	Status int
	Err    error
}

// RegisterCall captures the arguments of one Register call
type RegisterCall struct {
	Name        string
	Credentials map[string]interface{}
}

// MockRegistry is an in-memory account.Registry. Unscripted writes behave
// like the real registry: a create of a known project answers 409, a
// successful create adds the account and a successful delete removes it.
type MockRegistry struct {
	Accounts  []account.RegisteredAccount
	ListError error

	// Responses are keyed by project ID for Register and by registry ID for
	// Deregister.
	Responses map[string]Response

	RegisterCalls   []RegisterCall
	DeregisterCalls []string
	ListCalls       int

	nextID int
}

func NewMockRegistry(accounts ...account.RegisteredAccount) *MockRegistry {
	return &MockRegistry{
		Accounts:  accounts,
		Responses: make(map[string]Response),
		nextID:    1000,
	}
}

func (m *MockRegistry) List(ctx context.Context) ([]account.RegisteredAccount, error) {
	m.ListCalls++
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]account.RegisteredAccount, len(m.Accounts))
	copy(out, m.Accounts)
	return out, nil
}

func (m *MockRegistry) Register(ctx context.Context, name string, credentials map[string]interface{}) (int, error) {
	m.RegisterCalls = append(m.RegisterCalls, RegisterCall{
		Name:        name,
		Credentials: maps.Clone(credentials),
	})

	projectID, _ := credentials["project_id"].(string)
	if r, ok := m.Responses[projectID]; ok {
		return scripted(r)
	}

	for _, a := range m.Accounts {
		if a.CloudProjectID == projectID {
			return scripted(Response{Status: http.StatusConflict})
		}
	}

	m.nextID++
	m.Accounts = append(m.Accounts, account.RegisteredAccount{
		RegistryID:     fmt.Sprintf("acc-%d", m.nextID),
		CloudProjectID: projectID,
		Name:           name,
	})
	return http.StatusCreated, nil
}

func (m *MockRegistry) Deregister(ctx context.Context, registryID string) (int, error) {
	m.DeregisterCalls = append(m.DeregisterCalls, registryID)

	if r, ok := m.Responses[registryID]; ok {
		return scripted(r)
	}

	for i, a := range m.Accounts {
		if a.RegistryID == registryID {
			m.Accounts = append(m.Accounts[:i], m.Accounts[i+1:]...)
			return http.StatusNoContent, nil
		}
	}
	return scripted(Response{Status: http.StatusBadRequest})
}

func scripted(r Response) (int, error) {
	if r.Err != nil {
		return r.Status, r.Err
	}
	if r.Status >= 400 {
		return r.Status, &client.APIError{
			StatusCode: r.Status,
			Body:       fmt.Sprintf(`{"message":"status %d"}`, r.Status),
			Message:    fmt.Sprintf("status %d", r.Status),
		}
	}
	return r.Status, nil
}
