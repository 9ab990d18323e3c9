package providers

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2/google"
	cloudresourcemanager "google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/pratik-mahalle/d9sync/internal/domain/project"
	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
)

const projectsPageSize = 500

// GCPProjectLister lists projects through the Resource Manager v1 API
type GCPProjectLister struct {
	service *cloudresourcemanager.Service
}

// NewGCPProjectLister creates a lister authenticated with creds. When creds
// is nil the caller must supply authentication through opts.
func NewGCPProjectLister(ctx context.Context, creds CredentialDocument, opts ...option.ClientOption) (*GCPProjectLister, error) {
	if creds != nil {
		raw, err := creds.JSON()
		if err != nil {
			return nil, apperrors.ProviderAuthError("gcp", err)
		}
		gcreds, err := google.CredentialsFromJSON(ctx, raw, cloudresourcemanager.CloudPlatformReadOnlyScope)
		if err != nil {
			return nil, apperrors.ProviderAuthError("gcp", err)
		}
		opts = append([]option.ClientOption{option.WithCredentials(gcreds)}, opts...)
	}

	svc, err := cloudresourcemanager.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.ProviderAPIError("gcp", err)
	}
	return &GCPProjectLister{service: svc}, nil
}

// ListActiveProjects walks every page of projects.list and keeps ACTIVE ones
func (l *GCPProjectLister) ListActiveProjects(ctx context.Context) ([]project.CloudProject, error) {
	var out []project.CloudProject

	call := l.service.Projects.List().PageSize(projectsPageSize)
	err := call.Pages(ctx, func(resp *cloudresourcemanager.ListProjectsResponse) error {
		for _, p := range resp.Projects {
			cp := project.CloudProject{
				ID:             p.ProjectId,
				Name:           p.Name,
				LifecycleState: project.LifecycleState(p.LifecycleState),
			}
			if cp.IsActive() {
				out = append(out, cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, classifyGCPError(err)
	}

	return out, nil
}

func classifyGCPError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.ProviderAuthError("gcp", err)
		}
	}
	return apperrors.ProviderAPIError("gcp", err)
}
