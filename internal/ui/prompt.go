package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ryo246912/gh-merge-ready/internal/analyzer"
)

// ErrNoChoices is returned when there is nothing to select
var ErrNoChoices = errors.New("no pull requests to select")

// SelectionItems formats one line per analysis for the picker
func SelectionItems(analyses []*analyzer.Analysis) []string {
	items := make([]string, len(analyses))
	for i, a := range analyses {
		verdict := "ready"
		if !a.IsMergeable() {
			verdict = fmt.Sprintf("%d blocker(s)", len(a.Blockers))
		}
		items[i] = fmt.Sprintf(
			"%s %s %s %s",
			PadRight(Truncate(a.Repo, 30), 30),
			PadRight(fmt.Sprintf("#%d", a.Number), 7),
			PadRight(Truncate(a.Title, 60), 60),
			verdict,
		)
	}
	return items
}

// SelectAnalysis shows a searchable list of analyzed PRs
func SelectAnalysis(analyses []*analyzer.Analysis) (int, error) {
	if len(analyses) == 0 {
		return 0, ErrNoChoices
	}

	items := SelectionItems(analyses)
	prompt := promptui.Select{
		Label: "Select PR to inspect",
		Items: items,
		Size:  12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
		StartInSearchMode: true,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return idx, nil
}
