package analyzer

import (
	"strings"
	"unicode"

	"github.com/ryo246912/gh-merge-ready/internal/models"
)

var wipPrefixes = []string{"wip:", "[wip]", "wip "}

// DeriveState picks one lifecycle tag: merged, closed, draft, wip, then open
func DeriveState(pr models.PullRequest) State {
	switch {
	case pr.Merged:
		return StateMerged
	case pr.State == "closed":
		return StateClosed
	case pr.Draft:
		return StateDraft
	case isWIPTitle(pr.Title):
		return StateWIP
	default:
		return StateOpen
	}
}

func isWIPTitle(title string) bool {
	t := strings.ToLower(strings.TrimLeftFunc(title, unicode.IsSpace))
	for _, p := range wipPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}
