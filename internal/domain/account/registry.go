package account

import (
	"context"
	"net/http"
)

// Registry is the security service's account database
type Registry interface {
	// List returns every registered Google Cloud account
	List(ctx context.Context) ([]RegisteredAccount, error)

	// Register creates an account for a project using a credential document
	// already scoped to that project. It returns the HTTP status; a status of
	// 400 or above is also returned as an error carrying that status.
	Register(ctx context.Context, name string, credentials map[string]interface{}) (int, error)

	// Deregister removes an account by its registry ID, with the same status
	// semantics as Register
	Deregister(ctx context.Context, registryID string) (int, error)
}

// Operation identifies a registry write
type Operation string

// Operations and the status code each treats as success
const (
	OperationOnboard  Operation = "onboard"
	OperationOffboard Operation = "offboard"
)

// SuccessStatus returns the status the registry answers with on success
func (op Operation) SuccessStatus() int {
	if op == OperationOffboard {
		return http.StatusNoContent
	}
	return http.StatusCreated
}
