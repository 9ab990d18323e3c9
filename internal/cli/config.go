package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect d9sync configuration",
	}

	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigValidateCmd(opts))

	return cmd
}

// configView is the printable configuration with secrets masked
type configView struct {
	ConfigFile      string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	APIURL          string `json:"api_url" yaml:"api_url"`
	APIKey          string `json:"api_key" yaml:"api_key"`
	APISecret       string `json:"api_secret" yaml:"api_secret"`
	Timeout         string `json:"timeout" yaml:"timeout"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	GCPEndpoint     string `json:"gcp_endpoint,omitempty" yaml:"gcp_endpoint,omitempty"`
	Pacing          string `json:"pacing" yaml:"pacing"`
	Schedule        string `json:"schedule" yaml:"schedule"`
	ListenAddr      string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	LogLevel        string `json:"log_level" yaml:"log_level"`
	LogFormat       string `json:"log_format" yaml:"log_format"`
	SlackWebhook    string `json:"slack_webhook" yaml:"slack_webhook"`
	SlackChannel    string `json:"slack_channel" yaml:"slack_channel"`
	Pushgateway     string `json:"pushgateway" yaml:"pushgateway"`
	PushgatewayJob  string `json:"pushgateway_job" yaml:"pushgateway_job"`
}

func (o *rootOptions) configView() configView {
	c := o.cfg
	return configView{
		ConfigFile:      o.v.ConfigFileUsed(),
		APIURL:          c.Registry.BaseURL,
		APIKey:          maskSecret(c.Registry.APIKey),
		APISecret:       maskSecret(c.Registry.APISecret),
		Timeout:         c.Registry.Timeout.String(),
		CredentialsFile: c.GCP.CredentialsFile,
		GCPEndpoint:     c.GCP.Endpoint,
		Pacing:          c.Sync.PacingInterval.String(),
		Schedule:        c.Sync.Schedule,
		ListenAddr:      c.Sync.ListenAddr,
		LogLevel:        c.Logging.Level,
		LogFormat:       c.Logging.Format,
		SlackWebhook:    maskSecret(c.Notify.SlackWebhookURL),
		SlackChannel:    c.Notify.SlackChannel,
		Pushgateway:     c.Metrics.PushgatewayURL,
		PushgatewayJob:  c.Metrics.JobName,
	}
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := opts.configView()

			w := cmd.OutOrStdout()
			format := opts.getOutputFormat()
			if format != "table" {
				return printOutput(w, format, view)
			}

			t := NewTable(w, "KEY", "VALUE")
			t.AddRow("config_file", orNone(view.ConfigFile))
			t.AddRow("api_url", view.APIURL)
			t.AddRow("api_key", orNone(view.APIKey))
			t.AddRow("api_secret", orNone(view.APISecret))
			t.AddRow("timeout", view.Timeout)
			t.AddRow("credentials_file", orNone(view.CredentialsFile))
			t.AddRow("gcp_endpoint", orNone(view.GCPEndpoint))
			t.AddRow("pacing", view.Pacing)
			t.AddRow("schedule", view.Schedule)
			t.AddRow("listen_addr", orNone(view.ListenAddr))
			t.AddRow("log_level", view.LogLevel)
			t.AddRow("log_format", view.LogFormat)
			t.AddRow("slack_webhook", orNone(view.SlackWebhook))
			t.AddRow("slack_channel", view.SlackChannel)
			t.AddRow("pushgateway", orNone(view.Pushgateway))
			t.AddRow("pushgateway_job", view.PushgatewayJob)
			t.Render()
			return nil
		},
	}
}

func newConfigValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every required setting is present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}

// maskSecret keeps the last four characters of a secret
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
