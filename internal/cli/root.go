// Package cli wires configuration, the GitHub client and rendering into cobra commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ryo246912/gh-merge-ready/internal/config"
	"github.com/ryo246912/gh-merge-ready/internal/github"
	"github.com/ryo246912/gh-merge-ready/internal/logger"
	"github.com/ryo246912/gh-merge-ready/internal/service"
	"github.com/ryo246912/gh-merge-ready/internal/ui"
)

// app holds the dependencies shared by all commands
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	log      *zap.SugaredLogger
	ui       *ui.UI
	prompter ui.Prompter

	newClient   func(cfg *config.Config) (github.GitHubClient, error)
	currentRepo func() (string, error)
	now         func() time.Time

	cfgFile string
	verbose bool
}

func newApp() *app {
	return &app{
		v:           viper.New(),
		ui:          ui.New(),
		prompter:    &ui.DefaultPrompter{},
		newClient:   defaultClient,
		currentRepo: currentRepoFromGit,
		now:         time.Now,
	}
}

func defaultClient(cfg *config.Config) (github.GitHubClient, error) {
	return github.NewClient(github.Options{
		Host:      cfg.Host,
		AuthToken: cfg.Token,
	})
}

func currentRepoFromGit() (string, error) {
	repo, err := repository.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current repository: %w", err)
	}
	return repo.Owner + "/" + repo.Name, nil
}

type rootOptions struct {
	htmlFile    string
	repo        string
	currentRepo bool
	interactive bool
}

func newRootCmd(a *app) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "merge-ready [username]",
		Short: "Show why your open pull requests cannot be merged",
		Long: `merge-ready analyzes every open pull request authored by a user and
reports what blocks each one: merge conflicts, failing or pending checks,
requested changes, missing approvals, unresolved review threads or branch
protection. Without a username the authenticated user is analyzed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			username := ""
			if len(args) == 1 {
				username = args[0]
			}
			return a.runUser(cmd.Context(), username, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default ~/.config/gh-merge-ready/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log API activity to stderr")
	pf.StringP("format", "f", config.FormatTable, "Output format: table, json or yaml")
	pf.String("hostname", "", "GitHub host (default github.com)")

	f := cmd.Flags()
	f.StringVar(&opts.htmlFile, "html", "", "Export results to an HTML file")
	f.StringVarP(&opts.repo, "repo", "R", "", "Only analyze PRs in owner/name")
	f.BoolVar(&opts.currentRepo, "current-repo", false, "Only analyze PRs in the repository of the current directory")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "Pick a PR from the results and show its blockers")
	f.IntP("concurrency", "c", 4, "Number of PRs fetched in parallel")
	f.Int("limit", 100, "Maximum number of PRs to analyze (1-100)")
	cmd.MarkFlagsMutuallyExclusive("repo", "current-repo")

	_ = a.v.BindPFlag("format", pf.Lookup("format"))
	_ = a.v.BindPFlag("host", pf.Lookup("hostname"))
	_ = a.v.BindPFlag("concurrency", f.Lookup("concurrency"))
	_ = a.v.BindPFlag("search_limit", f.Lookup("limit"))

	cmd.AddCommand(newPRCmd(a))
	cmd.AddCommand(newRateLimitCmd(a))
	return cmd
}

// setup resolves config and logger once flags are parsed
func (a *app) setup() error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if cfg.Host == "" {
		cfg.Host = "github.com"
	}

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.ui.TitleWidth = cfg.TitleWidth
	a.log.Debugw("configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"host", cfg.Host,
		"format", cfg.Format,
		"concurrency", cfg.Concurrency,
		"token_set", cfg.Token != "",
	)
	return nil
}

func (a *app) service() (*service.AnalyzeService, error) {
	client, err := a.newClient(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return service.NewAnalyzeService(client, a.log, a.cfg.Concurrency), nil
}

func (a *app) runUser(ctx context.Context, username string, opts *rootOptions) error {
	repoFilter := opts.repo
	if opts.currentRepo {
		current, err := a.currentRepo()
		if err != nil {
			return err
		}
		repoFilter = current
	}
	if repoFilter != "" {
		if _, _, err := github.SplitRepo(repoFilter); err != nil {
			return err
		}
	}
	if opts.interactive && a.cfg.Format != config.FormatTable {
		return fmt.Errorf("--interactive requires table output, got %q", a.cfg.Format)
	}

	svc, err := a.service()
	if err != nil {
		return err
	}

	report, err := svc.AnalyzeUser(ctx, username, service.AnalyzeOptions{
		RepoFilter: repoFilter,
		Limit:      a.cfg.SearchLimit,
	})
	if err != nil {
		return err
	}

	if len(report.Analyses) == 0 {
		a.ui.Warning("No open PRs found for %s", report.Username)
		return nil
	}

	switch a.cfg.Format {
	case config.FormatJSON:
		err = ui.WriteJSON(a.ui.Out, ui.NewReport(report.Username, a.now(), report.Analyses))
	case config.FormatYAML:
		err = ui.WriteYAML(a.ui.Out, ui.NewReport(report.Username, a.now(), report.Analyses))
	default:
		a.ui.Success("Found %d open PR(s) for %s", len(report.Analyses), report.Username)
		if err = a.ui.RenderTable(report.Analyses); err == nil {
			a.ui.RenderSummary(ui.Summarize(report.Analyses))
		}
	}
	if err != nil {
		return err
	}

	if opts.htmlFile != "" {
		if err := a.exportHTML(opts.htmlFile, report); err != nil {
			return err
		}
	}

	if opts.interactive {
		idx, err := a.prompter.SelectAnalysis(report.Analyses)
		if err != nil {
			return fmt.Errorf("failed to select pull request: %w", err)
		}
		if idx < 0 || idx >= len(report.Analyses) {
			return fmt.Errorf("selection %d out of range", idx)
		}
		fmt.Fprintln(a.ui.Out)
		a.ui.RenderDetail(report.Analyses[idx])
	}
	return nil
}

func (a *app) exportHTML(path string, report *service.UserReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html report: %w", err)
	}
	if err := ui.WriteHTML(f, report.Username, a.now(), report.Analyses); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write html report: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	a.ui.Success("HTML report exported to: %s", abs)
	return nil
}

// hint adds a remedy to errors the user can fix
func hint(err error) error {
	switch {
	case errors.Is(err, github.ErrUnauthorized):
		return fmt.Errorf("%w (run `gh auth login` or set GITHUB_TOKEN)", err)
	case errors.Is(err, github.ErrRateLimited):
		return fmt.Errorf("%w (check `gh merge-ready rate-limit`)", err)
	default:
		return err
	}
}

func run(a *app, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.ui.Out)
	cmd.SetErr(a.ui.ErrOut)
	return cmd.ExecuteContext(ctx)
}

// Execute is the main entry point called from main.go.
func Execute() {
	a := newApp()
	if err := run(a, os.Args[1:]); err != nil {
		a.ui.Error("Error: %v", hint(err))
		os.Exit(1)
	}
}
