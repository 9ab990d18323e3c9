package providers

import (
	"context"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
	"github.com/pratik-mahalle/d9sync/pkg/client"
)

// Dome9Registry adapts the Dome9 API client to account.Registry
type Dome9Registry struct {
	accounts *client.GoogleCloudAccountService
}

// NewDome9Registry creates a registry backed by c
func NewDome9Registry(c *client.Client) *Dome9Registry {
	return &Dome9Registry{accounts: c.GoogleCloudAccounts()}
}

// List returns every registered Google Cloud account
func (r *Dome9Registry) List(ctx context.Context) ([]account.RegisteredAccount, error) {
	accounts, err := r.accounts.List(ctx)
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok {
			return nil, apperrors.RegistryHTTPError(apiErr.StatusCode, err)
		}
		return nil, apperrors.RegistryTransportError(err)
	}

	out := make([]account.RegisteredAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, account.RegisteredAccount{
			RegistryID:     a.ID,
			CloudProjectID: a.ProjectID,
			Name:           a.Name,
		})
	}
	return out, nil
}

// Register onboards a project
func (r *Dome9Registry) Register(ctx context.Context, name string, credentials map[string]interface{}) (int, error) {
	_, status, err := r.accounts.Create(ctx, client.CreateGoogleCloudAccountRequest{
		Name:                      name,
		ServiceAccountCredentials: credentials,
	})
	return status, err
}

// Deregister offboards an account by registry ID
func (r *Dome9Registry) Deregister(ctx context.Context, registryID string) (int, error) {
	return r.accounts.Delete(ctx, registryID)
}
