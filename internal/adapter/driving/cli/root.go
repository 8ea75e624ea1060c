// Package cli defines the prtimeline command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ericfisherdev/prtimeline/internal/adapter/driving/report"
	"github.com/ericfisherdev/prtimeline/internal/application"
	"github.com/ericfisherdev/prtimeline/internal/config"
)

// BuildInfo is stamped by the linker at release time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// serviceFactory builds a TimelineService for repo from the loaded config.
type serviceFactory func(ctx context.Context, cfg *config.Config, repoFullName string) (*application.TimelineService, error)

// app is the state shared by all subcommands of one invocation.
type app struct {
	build      BuildInfo
	v          *viper.Viper
	cfg        *config.Config
	format     report.Format
	cfgFile    string
	logOut     io.Writer
	getenv     func(string) string
	newService serviceFactory
}

// Execute runs the root command with os.Args.
func Execute(ctx context.Context, build BuildInfo) error {
	return newRootCommand(build, defaultServiceFactory).ExecuteContext(ctx)
}

func newRootCommand(build BuildInfo, factory serviceFactory) *cobra.Command {
	a := &app{
		build:      build,
		v:          viper.New(),
		logOut:     os.Stderr,
		getenv:     os.Getenv,
		newService: factory,
	}

	root := &cobra.Command{
		Use:   "prtimeline",
		Short: "Show how long each reviewer took to review a pull request.",
		Long: `prtimeline builds a per-reviewer review window for a GitHub pull request,
from the day a review was requested (or assigned, or first given) to the day the
reviewer approved, the PR merged, or today, and renders it as a Mermaid Gantt chart.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, config.KeyConfigFile, "", "Path to config file (default .prtimeline.yaml in . or $HOME)")
	flags.String(config.KeyToken, "", "GitHub token (default: GITHUB_TOKEN, GH_TOKEN or gh auth)")
	flags.String(config.KeyHost, "github.com", "GitHub host")
	flags.String(config.KeyAPIURL, "", "GitHub Enterprise API URL")
	flags.String(config.KeyAppID, "", "GitHub App ID for app authentication")
	flags.String(config.KeyAppKeyPath, "", "Path to the GitHub App private key (PEM)")
	flags.StringP(config.KeyRepo, "R", "", "Repository as owner/repo (default: current git repository)")
	flags.StringP(config.KeyFormat, "f", string(report.FormatText), "Output format: text, json, mermaid, gantt, markdown or html")
	flags.StringP(config.KeyOutputFile, "o", "", "Write output to this file instead of stdout")
	flags.Bool(config.KeyPublish, false, "Patch the timeline into the pull request description")
	flags.Bool(config.KeySkipDraft, false, "Skip draft pull requests")
	flags.Bool(config.KeyColor, true, "Color terminal output")
	flags.String(config.KeyToday, "", "Freeze today's date (YYYY-MM-DD) for open windows")
	flags.Duration(config.KeyHTTPTimeout, 30*time.Second, "Timeout for each GitHub API request")
	flags.Int(config.KeyMaxRetries, 5, "Attempts per GitHub API request on transient failures")
	flags.BoolP(config.KeyVerbose, "v", false, "Enable debug logging")

	// Bind every persistent flag except --config, which selects the file itself.
	for _, key := range []string{
		config.KeyToken, config.KeyHost, config.KeyAPIURL, config.KeyAppID, config.KeyAppKeyPath,
		config.KeyRepo, config.KeyFormat, config.KeyOutputFile, config.KeyPublish, config.KeySkipDraft,
		config.KeyColor, config.KeyToday, config.KeyHTTPTimeout, config.KeyMaxRetries, config.KeyVerbose,
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newShowCommand(a),
		newActionCommand(a),
		newMCPCommand(a),
		newVersionCommand(a),
	)

	return root
}

// setup loads .env, the config file, environment and flags, then installs
// the process logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.Repo != "" {
		if err := application.ValidateRepo(cfg.Repo); err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
	}
	a.cfg = cfg
	a.format = format

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.logOut, &slog.HandlerOptions{Level: level})))

	slog.Debug("config loaded",
		"command", cmd.Name(),
		"host", cfg.GitHubHost,
		"repo", cfg.Repo,
		"format", format,
		"app_auth", cfg.HasAppCredentials(),
		"today_override", !cfg.Today.IsZero(),
	)
	return nil
}
