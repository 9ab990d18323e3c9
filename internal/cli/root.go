package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/d9sync/internal/config"
	"github.com/pratik-mahalle/d9sync/internal/pkg/logger"
)

// rootOptions is the state shared by every command of one invocation
type rootOptions struct {
	cfgFile      string
	outputFormat string
	noColor      bool
	apiURL       string
	logLevel     string
	logFormat    string

	v        *viper.Viper
	cfg      *config.Config
	log      *logger.Logger
	backends backendFactory
	logOut   io.Writer
}

// Execute runs the d9sync command tree with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the d9sync command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultBackends)
}

func newRootCmd(backends backendFactory) *cobra.Command {
	opts := &rootOptions{
		v:        viper.New(),
		backends: backends,
	}

	cmd := &cobra.Command{
		Use:   "d9sync",
		Short: "d9sync - keep Dome9 in sync with your Google Cloud projects",
		Long: `d9sync reconciles the ACTIVE projects visible to a Google Cloud service
account with the Google Cloud accounts registered in Dome9 (Check Point
CloudGuard). Run without a subcommand it onboards every project that is not
registered yet.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriver(cmd, opts, operationOnboard)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default $HOME/.d9sync/config.yaml)")
	flags.StringVarP(&opts.outputFormat, "output", "o", "table", "output format: table, json, yaml")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.apiURL, "api-url", "", "Dome9 API base URL (overrides D9_API)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: auto, json, console")
	flags.Duration("pacing", 0, "minimum delay between registry writes (overrides D9_PACING_INTERVAL)")

	_ = opts.v.BindPFlag("output", flags.Lookup("output"))
	_ = opts.v.BindPFlag("no_color", flags.Lookup("no-color"))
	_ = opts.v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = opts.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = opts.v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = opts.v.BindPFlag("pacing", flags.Lookup("pacing"))

	cmd.AddCommand(newOnboardCmd(opts))
	cmd.AddCommand(newOffboardCmd(opts))
	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newPlanCmd(opts))
	cmd.AddCommand(newProjectsCmd(opts))
	cmd.AddCommand(newAccountsCmd(opts))
	cmd.AddCommand(newScheduleCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration and builds the logger. It never validates and
// never touches the network; commands that call out validate first.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if err := o.initConfig(); err != nil {
		return err
	}

	o.cfg = config.Load()
	o.applyOverrides()

	if o.v.GetBool("no_color") {
		color.NoColor = true
	}

	out := o.logOut
	if out == nil {
		out = cmd.ErrOrStderr()
	}
	o.log = logger.New(logger.Config{
		Level:  o.cfg.Logging.Level,
		Format: o.cfg.Logging.Format,
		Output: out,
	})
	return nil
}

func (o *rootOptions) initConfig() error {
	v := o.v
	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".d9sync"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment wins over the config file, flags win over both.
	_ = v.BindEnv("api_url", "D9_API")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_format", "LOG_FORMAT")
	_ = v.BindEnv("pacing", "D9_PACING_INTERVAL")
	_ = v.BindEnv("schedule", "D9SYNC_SCHEDULE")
	_ = v.BindEnv("listen_addr", "D9SYNC_LISTEN_ADDR")
	_ = v.BindEnv("slack_channel", "SLACK_CHANNEL")

	v.SetDefault("output", "table")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// applyOverrides layers config file values and flags over the environment
// configuration
func (o *rootOptions) applyOverrides() {
	v := o.v
	if v.IsSet("api_url") {
		o.cfg.Registry.BaseURL = v.GetString("api_url")
	}
	if v.IsSet("log_level") {
		o.cfg.Logging.Level = v.GetString("log_level")
	}
	if v.IsSet("log_format") {
		o.cfg.Logging.Format = v.GetString("log_format")
	}
	if v.IsSet("pacing") {
		o.cfg.Sync.PacingInterval = v.GetDuration("pacing")
	}
	if v.IsSet("schedule") {
		o.cfg.Sync.Schedule = v.GetString("schedule")
	}
	if v.IsSet("listen_addr") {
		o.cfg.Sync.ListenAddr = v.GetString("listen_addr")
	}
	if v.IsSet("slack_channel") {
		o.cfg.Notify.SlackChannel = v.GetString("slack_channel")
	}
}

func (o *rootOptions) getOutputFormat() string {
	if o.outputFormat != "" && o.outputFormat != "table" {
		return o.outputFormat
	}
	return o.v.GetString("output")
}
