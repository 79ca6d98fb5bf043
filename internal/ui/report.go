package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ryo246912/gh-merge-ready/internal/analyzer"
)

var tableHeaders = []string{"Repository", "PR #", "Title", "State", "CI Status", "Reviews", "Comments", "Conflicts"}

// Summary counts ready and blocked PRs
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Ready   int `json:"ready" yaml:"ready"`
	Blocked int `json:"blocked" yaml:"blocked"`
}

// Summarize folds analyses into counts. Only IsMergeable decides readiness.
func Summarize(analyses []*analyzer.Analysis) Summary {
	s := Summary{Total: len(analyses)}
	for _, a := range analyses {
		if a.IsMergeable() {
			s.Ready++
		}
	}
	s.Blocked = s.Total - s.Ready
	return s
}

// RenderTable prints one row per analysis
func (u *UI) RenderTable(analyses []*analyzer.Analysis) error {
	table := u.Table(tableHeaders)
	for _, a := range analyses {
		if err := table.Append([]string{
			cyan(a.Repo),
			strconv.Itoa(a.Number),
			Truncate(a.Title, u.titleWidth()),
			StateCell(a),
			CICell(a),
			ReviewCell(a),
			CommentsCell(a),
			ConflictsCell(a),
		}); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// RenderSummary prints the ready/blocked counts
func (u *UI) RenderSummary(s Summary) {
	fmt.Fprintf(u.Out, "\n%s\n", bold("Summary:"))
	fmt.Fprintf(u.Out, "  %s %d\n", green("Ready to merge:"), s.Ready)
	fmt.Fprintf(u.Out, "  %s %d\n", red("Blocked:"), s.Blocked)
	fmt.Fprintf(u.Out, "  %s %d\n", cyan("Total:"), s.Total)
}

// RenderDetail prints every blocker of one PR with its details
func (u *UI) RenderDetail(a *analyzer.Analysis) {
	fmt.Fprintf(u.Out, "%s %s\n", bold(fmt.Sprintf("%s#%d", a.Repo, a.Number)), a.Title)
	fmt.Fprintf(u.Out, "%s\n", faint(a.URL))
	fmt.Fprintf(u.Out, "State: %s  CI: %s  Reviews: %s  Comments: %s  Conflicts: %s\n",
		StateCell(a),
		ciBadge(a.CIStatus).colored(),
		ReviewCell(a),
		commentsBadge(a).colored(),
		ConflictsCell(a),
	)

	if len(a.ReviewLabels) > 0 {
		labels := make([]string, 0, len(a.ReviewLabels))
		for _, l := range a.ReviewLabels {
			labels = append(labels, ReviewLabelColor(l.Status, fmt.Sprintf("%s (%s)", l.Username, l.Status)))
		}
		fmt.Fprintf(u.Out, "Review labels: %s\n", strings.Join(labels, ", "))
	}

	fmt.Fprintln(u.Out)
	if a.IsMergeable() {
		fmt.Fprintf(u.Out, "%s %s\n", successPrefix, green("Ready to merge"))
		return
	}

	fmt.Fprintf(u.Out, "%s\n", bold(fmt.Sprintf("Blockers (%d):", len(a.Blockers))))
	for _, b := range a.Blockers {
		fmt.Fprintf(u.Out, "  %s %s\n", BlockerColor(b.Kind, "["+string(b.Kind)+"]"), b.Description)
		if b.Details == "" {
			continue
		}
		for _, line := range strings.Split(b.Details, "\n") {
			fmt.Fprintf(u.Out, "      %s\n", faint(strings.TrimSpace(line)))
		}
	}
	if len(a.UnresolvedCommentURLs) > 0 {
		fmt.Fprintf(u.Out, "\n%s\n", bold("Unresolved threads:"))
		for _, url := range a.UnresolvedCommentURLs {
			fmt.Fprintf(u.Out, "  • %s\n", url)
		}
	}
}
