// Package analyzer decides whether a pull request is ready to merge.
//
// Analyze is pure: it performs no I/O and keeps no state between calls, so it
// may run concurrently for independent pull requests.
package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ryo246912/gh-merge-ready/internal/models"
)

const (
	maxErrorLines       = 5
	maxPendingListed    = 3
	errorLineIndent     = "\n    "
	mergeableStateDirty = "dirty"
	mergeableStateBlock = "blocked"
)

// Input is everything fetched for one pull request.
// A nil ReviewThreads means the threads were not fetched.
type Input struct {
	PullRequest   models.PullRequest
	Reviews       []models.Review
	CheckRuns     []models.CheckRun
	ReviewThreads []models.ReviewThread
}

// detector inspects the input and extends the analysis built so far.
// Detectors run in a fixed order and later ones may read earlier results.
type detector func(in *Input, a *Analysis)

var detectors = []detector{
	detectConflicts,
	detectFailingChecks,
	detectPendingChecks,
	deriveCIStatus,
	detectChangesRequested,
	detectApprovals,
	detectMissingApprovals,
	deriveReviewStatus,
	detectUnresolvedComments,
	detectBranchProtection,
	extractReviewLabels,
	deriveState,
}

// Analyze classifies a pull request and lists what blocks its merge
func Analyze(in Input) (*Analysis, error) {
	if err := validate(in.PullRequest); err != nil {
		return nil, err
	}

	pr := in.PullRequest
	a := &Analysis{
		Repo:                  pr.Base.Repo.FullName,
		Number:                pr.Number,
		Title:                 pr.Title,
		URL:                   pr.HTMLURL,
		Blockers:              []MergeBlocker{},
		CIStatus:              CIUnknown,
		ReviewStatus:          ReviewUnknown,
		CommentsStatus:        CommentsUnknown,
		ConflictsStatus:       ConflictsUnknown,
		FailedCheckNames:      []string{},
		PendingCheckNames:     []string{},
		UnresolvedCommentURLs: []string{},
		ReviewLabels:          []ReviewLabel{},
		State:                 StateOpen,
	}

	for _, d := range detectors {
		d(&in, a)
	}
	return a, nil
}

func validate(pr models.PullRequest) error {
	var missing []string
	if pr.Base.Repo.FullName == "" {
		missing = append(missing, "base.repo.full_name")
	}
	if pr.Number <= 0 {
		missing = append(missing, "number")
	}
	if pr.Title == "" {
		missing = append(missing, "title")
	}
	if pr.HTMLURL == "" {
		missing = append(missing, "html_url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidPullRequest, strings.Join(missing, ", "))
	}
	return nil
}

func mergeableState(pr models.PullRequest) string {
	if pr.MergeableState == "" {
		return "unknown"
	}
	return pr.MergeableState
}

func detectConflicts(in *Input, a *Analysis) {
	pr := in.PullRequest
	switch {
	case (pr.Mergeable != nil && !*pr.Mergeable) || mergeableState(pr) == mergeableStateDirty:
		a.ConflictsStatus = ConflictsConflicts
		a.addBlocker(BlockerMergeConflict, "PR has merge conflicts", "Resolve conflicts with the base branch")
	case pr.Mergeable != nil && *pr.Mergeable:
		a.ConflictsStatus = ConflictsClean
	default:
		a.ConflictsStatus = ConflictsUnknown
	}
}

func isFailing(c models.CheckRun) bool {
	return c.Conclusion != nil && *c.Conclusion == "failure"
}

func isPending(c models.CheckRun) bool {
	return c.Status != "completed" && c.Conclusion == nil
}

func detectFailingChecks(in *Input, a *Analysis) {
	for _, check := range in.CheckRuns {
		if !isFailing(check) {
			continue
		}
		name := check.Name
		if name == "" {
			name = "Unknown check"
		}
		a.FailedCheckCount++
		a.FailedCheckNames = append(a.FailedCheckNames, name)
		a.addBlocker(BlockerFailingCheck, fmt.Sprintf("Check '%s' failed", name), errorTail(check.Output))
	}
}

// errorTail keeps the last lines of a check summary
func errorTail(out *models.CheckRunOutput) string {
	if out == nil || out.Summary == nil {
		return ""
	}
	summary := strings.TrimSpace(*out.Summary)
	if summary == "" {
		return ""
	}
	lines := strings.Split(summary, "\n")
	if len(lines) > maxErrorLines {
		lines = lines[len(lines)-maxErrorLines:]
	}
	return strings.Join(lines, errorLineIndent)
}

func detectPendingChecks(in *Input, a *Analysis) {
	for _, check := range in.CheckRuns {
		if !isPending(check) {
			continue
		}
		name := check.Name
		if name == "" {
			name = "Unknown"
		}
		a.PendingCheckNames = append(a.PendingCheckNames, name)
	}
	a.PendingCheckCount = len(a.PendingCheckNames)
	if a.PendingCheckCount == 0 {
		return
	}

	listed := a.PendingCheckNames
	if len(listed) > maxPendingListed {
		listed = listed[:maxPendingListed]
	}
	details := strings.Join(listed, ", ")
	if a.PendingCheckCount > maxPendingListed {
		details += fmt.Sprintf(" and %d more", a.PendingCheckCount-maxPendingListed)
	}
	a.addBlocker(BlockerPendingChecks, fmt.Sprintf("%d check(s) still running", a.PendingCheckCount), details)
}

func deriveCIStatus(in *Input, a *Analysis) {
	switch {
	case a.FailedCheckCount > 0:
		a.CIStatus = CIFailing
	case a.PendingCheckCount > 0:
		a.CIStatus = CIPending
	case len(in.CheckRuns) > 0:
		a.CIStatus = CIPassing
	default:
		a.CIStatus = CIUnknown
	}
}

func detectChangesRequested(in *Input, a *Analysis) {
	found := false
	logins := make(map[string]struct{}) // Use map as set
	for _, review := range in.Reviews {
		if review.State != "CHANGES_REQUESTED" {
			continue
		}
		found = true
		if login := review.Login(); login != "" {
			logins[login] = struct{}{}
		}
	}
	if !found {
		return
	}

	reviewers := "Unknown reviewers"
	if len(logins) > 0 {
		names := make([]string, 0, len(logins))
		for l := range logins {
			names = append(names, l)
		}
		sort.Strings(names)
		reviewers = strings.Join(names, ", ")
	}
	a.ReviewStatus = ReviewChangesRequested
	a.addBlocker(BlockerChangesRequested, "Changes requested by reviewer(s)", "Reviewers: "+reviewers)
}

func hasApproval(reviews []models.Review) bool {
	for _, review := range reviews {
		if review.State == "APPROVED" {
			return true
		}
	}
	return false
}

// detectApprovals never overrides a changes-requested verdict
func detectApprovals(in *Input, a *Analysis) {
	if hasApproval(in.Reviews) && a.ReviewStatus == ReviewUnknown {
		a.ReviewStatus = ReviewApproved
	}
}

// detectMissingApprovals is a heuristic for private repos only.
// It does not evaluate required reviewer counts from branch protection.
func detectMissingApprovals(in *Input, a *Analysis) {
	pr := in.PullRequest
	if !pr.Base.Repo.Private || mergeableState(pr) != mergeableStateBlock || hasApproval(in.Reviews) {
		return
	}
	a.ReviewStatus = ReviewPending
	a.addBlocker(BlockerMissingApprovals, "Required approvals missing", "This PR may require approval from code owners")
}

func deriveReviewStatus(in *Input, a *Analysis) {
	if a.ReviewStatus != ReviewUnknown {
		return
	}
	if len(in.Reviews) > 0 {
		a.ReviewStatus = ReviewPending
	} else {
		a.ReviewStatus = ReviewNone
	}
}

// detectUnresolvedComments counts outdated threads too; only isResolved matters
func detectUnresolvedComments(in *Input, a *Analysis) {
	if len(in.ReviewThreads) == 0 {
		a.CommentsStatus = CommentsNone
		return
	}

	for _, thread := range in.ReviewThreads {
		if thread.IsResolved {
			continue
		}
		a.UnresolvedCommentCount++
		if url := thread.FirstCommentURL(); url != "" {
			a.UnresolvedCommentURLs = append(a.UnresolvedCommentURLs, url)
		}
	}

	if a.UnresolvedCommentCount == 0 {
		a.CommentsStatus = CommentsResolved
		return
	}
	a.CommentsStatus = CommentsUnresolved
	a.addBlocker(BlockerUnresolvedComments,
		fmt.Sprintf("%d unresolved review comment(s)", a.UnresolvedCommentCount),
		"Review and resolve all discussion threads")
}

// detectBranchProtection only explains a block nothing else accounts for,
// so it must stay after every other blocker detector.
func detectBranchProtection(in *Input, a *Analysis) {
	if mergeableState(in.PullRequest) != mergeableStateBlock || len(a.Blockers) > 0 {
		return
	}
	a.addBlocker(BlockerBranchProtection, "Blocked by branch protection rules", "Check repository branch protection settings")
}

func extractReviewLabels(in *Input, a *Analysis) {
	a.ReviewLabels = append(a.ReviewLabels, ParseReviewLabels(in.PullRequest.Labels)...)
}

func deriveState(in *Input, a *Analysis) {
	a.State = DeriveState(in.PullRequest)
}
