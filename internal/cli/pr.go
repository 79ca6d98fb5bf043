package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ryo246912/gh-merge-ready/internal/config"
	"github.com/ryo246912/gh-merge-ready/internal/github"
	"github.com/ryo246912/gh-merge-ready/internal/ui"
)

func newPRCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pr <owner/repo> <number>",
		Short: "Show the merge blockers of a single pull request",
		Example: `  gh merge-ready pr cli/cli 1234
  gh merge-ready pr cli/cli 1234 --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := github.SplitRepo(args[0])
			if err != nil {
				return err
			}
			prNumber, err := parsePRNumber(args[1])
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			analysis, err := svc.AnalyzePR(cmd.Context(), owner, repo, prNumber)
			if err != nil {
				return err
			}

			switch a.cfg.Format {
			case config.FormatJSON:
				return ui.WriteJSON(a.ui.Out, ui.NewAnalysisView(analysis))
			case config.FormatYAML:
				return ui.WriteYAML(a.ui.Out, ui.NewAnalysisView(analysis))
			default:
				a.ui.RenderDetail(analysis)
				return nil
			}
		},
	}
}

func parsePRNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid PR number: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("PR number must be positive")
	}
	return n, nil
}
