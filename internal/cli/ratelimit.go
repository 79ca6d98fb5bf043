package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ryo246912/gh-merge-ready/internal/config"
	"github.com/ryo246912/gh-merge-ready/internal/github"
	"github.com/ryo246912/gh-merge-ready/internal/ui"
)

func newRateLimitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate-limit",
		Short: "Show the remaining GitHub API quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			limits, err := svc.RateLimit(cmd.Context())
			if err != nil {
				return err
			}

			switch a.cfg.Format {
			case config.FormatJSON:
				return ui.WriteJSON(a.ui.Out, limits)
			case config.FormatYAML:
				return ui.WriteYAML(a.ui.Out, limits)
			}

			table := a.ui.Table([]string{"Resource", "Remaining", "Limit", "Resets"})
			for _, row := range []struct {
				name  string
				limit github.RateLimit
			}{
				{"core", limits.Core},
				{"graphql", limits.GraphQL},
				{"search", limits.Search},
			} {
				if err := table.Append([]string{
					row.name,
					strconv.Itoa(row.limit.Remaining),
					strconv.Itoa(row.limit.Limit),
					row.limit.ResetAt().Local().Format("15:04:05"),
				}); err != nil {
					return fmt.Errorf("render table: %w", err)
				}
			}
			if err := table.Render(); err != nil {
				return fmt.Errorf("render table: %w", err)
			}
			return nil
		},
	}
}
