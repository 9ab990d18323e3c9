package cli

import (
	"context"

	"google.golang.org/api/option"

	"github.com/pratik-mahalle/d9sync/internal/config"
	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/domain/project"
	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
	"github.com/pratik-mahalle/d9sync/internal/pkg/metrics"
	"github.com/pratik-mahalle/d9sync/internal/providers"
	"github.com/pratik-mahalle/d9sync/internal/services"
	"github.com/pratik-mahalle/d9sync/pkg/client"
)

// backends are the two sides of the reconciliation plus the credential
// document sent to the registry
type backends struct {
	lister      project.Lister
	registry    account.Registry
	credentials providers.CredentialDocument
}

type backendFactory func(ctx context.Context, cfg *config.Config) (*backends, error)

// defaultBackends talks to Google Cloud Resource Manager and the Dome9 API
func defaultBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	creds, err := providers.LoadCredentialDocument(cfg.GCP.CredentialsFile)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfig, "Invalid GOOGLE_APPLICATION_CREDENTIALS")
	}

	var opts []option.ClientOption
	if cfg.GCP.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.GCP.Endpoint))
	}
	lister, err := providers.NewGCPProjectLister(ctx, creds, opts...)
	if err != nil {
		return nil, err
	}

	apiClient := client.NewClient(client.Config{
		BaseURL:   cfg.Registry.BaseURL,
		APIKey:    cfg.Registry.APIKey,
		APISecret: cfg.Registry.APISecret,
		Timeout:   cfg.Registry.Timeout,
	})

	return &backends{
		lister:      lister,
		registry:    providers.NewDome9Registry(apiClient),
		credentials: creds,
	}, nil
}

// syncService validates the configuration and wires a SyncService. Nothing
// is sent over the network before validation passes.
func (o *rootOptions) syncService(ctx context.Context) (*services.SyncService, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	b, err := o.backends(ctx, o.cfg)
	if err != nil {
		return nil, err
	}
	o.log.WithFields(map[string]interface{}{
		"client_email": b.credentials.ClientEmail(),
		"key_project":  b.credentials.ProjectID(),
		"registry":     o.cfg.Registry.BaseURL,
	}).Info("Using service account")

	svc := services.NewSyncService(
		b.lister,
		b.registry,
		b.credentials,
		services.NewPacer(o.cfg.Sync.PacingInterval),
		o.log,
	)
	if o.cfg.Notify.SlackWebhookURL != "" {
		svc.SetNotifier(services.NewNotificationService(o.cfg.Notify.SlackWebhookURL, o.cfg.Notify.SlackChannel, o.log))
	}
	if o.cfg.Metrics.PushgatewayURL != "" {
		svc.SetMetricsPusher(metrics.NewPusher(o.cfg.Metrics.PushgatewayURL, o.cfg.Metrics.JobName))
	}
	return svc, nil
}
