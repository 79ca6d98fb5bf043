package analyzer

import (
	"strings"

	"github.com/ryo246912/gh-merge-ready/internal/models"
)

// ReviewLabelStatus is the verdict encoded in a review label
type ReviewLabelStatus string

const (
	LabelLGTM             ReviewLabelStatus = "lgtm"
	LabelApproved         ReviewLabelStatus = "approved"
	LabelChangesRequested ReviewLabelStatus = "changes-requested"
)

// ReviewLabel is a per-user verdict parsed from a label like "lgtm-alice"
type ReviewLabel struct {
	Username string            `json:"username" yaml:"username"`
	Status   ReviewLabelStatus `json:"status" yaml:"status"`
}

type labelRule struct {
	prefix string
	status ReviewLabelStatus
}

// Tried top to bottom; the first matching prefix wins.
// "commented-<user>" labels are deliberately absent.
var labelRules = []labelRule{
	{prefix: "changes-requested-", status: LabelChangesRequested},
	{prefix: "change-requested-", status: LabelChangesRequested},
	{prefix: "approved-", status: LabelApproved},
	{prefix: "lgtm-", status: LabelLGTM},
}

var botUsers = map[string]struct{}{
	"coderabbitai":                    {},
	"openshift-virtualization-qe-bot": {},
}

// isBot checks if a label user is an automation account
func isBot(user string) bool {
	if _, ok := botUsers[user]; ok {
		return true
	}
	return strings.HasSuffix(user, "[bot]")
}

// ParseReviewLabel extracts a review verdict from one label name
func ParseReviewLabel(name string) (ReviewLabel, bool) {
	for _, rule := range labelRules {
		user, ok := strings.CutPrefix(name, rule.prefix)
		if !ok {
			continue
		}
		if user == "" || isBot(user) {
			return ReviewLabel{}, false
		}
		return ReviewLabel{Username: user, Status: rule.status}, true
	}
	return ReviewLabel{}, false
}

// ParseReviewLabels keeps label order and does not merge entries for the same user
func ParseReviewLabels(labels []models.Label) []ReviewLabel {
	result := make([]ReviewLabel, 0, len(labels))
	for _, l := range labels {
		if rl, ok := ParseReviewLabel(l.Name); ok {
			result = append(result, rl)
		}
	}
	return result
}
