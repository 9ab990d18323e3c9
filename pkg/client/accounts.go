package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const googleCloudAccountPath = "/v2/GoogleCloudAccount"

// GoogleCloudAccountService handles Google Cloud account API calls
type GoogleCloudAccountService struct {
	client *Client
}

// List retrieves every registered Google Cloud account
func (s *GoogleCloudAccountService) List(ctx context.Context) ([]GoogleCloudAccount, error) {
	var accounts []GoogleCloudAccount
	if _, err := s.client.doRequest(ctx, http.MethodGet, googleCloudAccountPath, nil, &accounts); err != nil {
		return nil, err
	}

	return accounts, nil
}

// Create onboards a Google Cloud project. Compute validation is skipped so
// projects without the Compute API enabled can still be registered.
// It returns the response status code; 201 means the account was created.
func (s *GoogleCloudAccountService) Create(ctx context.Context, req CreateGoogleCloudAccountRequest) (*GoogleCloudAccount, int, error) {
	query := url.Values{}
	query.Set("skipComputeValidation", "true")
	path := googleCloudAccountPath + "?" + query.Encode()

	var account GoogleCloudAccount
	status, err := s.client.doRequest(ctx, http.MethodPost, path, req, &account)
	if err != nil {
		return nil, status, err
	}

	return &account, status, nil
}

// Delete offboards an account by its Dome9 ID. 204 means it was removed.
func (s *GoogleCloudAccountService) Delete(ctx context.Context, id string) (int, error) {
	path := fmt.Sprintf("%s/%s", googleCloudAccountPath, url.PathEscape(id))
	return s.client.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
