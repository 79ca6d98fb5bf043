package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/ryo246912/gh-merge-ready/internal/analyzer"
)

// Badge classes, shared by the terminal and HTML renderers
const (
	classPassing = "passing"
	classFailing = "failing"
	classPending = "pending"
	classNone    = "none"
	classUnknown = "unknown"
)

var (
	green   = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	red     = color.New(color.FgHiRed, color.Bold).SprintFunc()
	yellow  = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
	magenta = color.New(color.FgHiMagenta, color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// badge is a status label with its icon and style class
type badge struct {
	Icon  string
	Text  string
	Class string
}

func (b badge) String() string {
	if b.Icon == "" {
		return b.Text
	}
	return b.Icon + " " + b.Text
}

// colored renders the badge for a terminal
func (b badge) colored() string {
	return paint(b.Class, b.String())
}

func paint(class, s string) string {
	switch class {
	case classPassing:
		return green(s)
	case classFailing:
		return red(s)
	case classPending:
		return yellow(s)
	default:
		return faint(s)
	}
}

var unknownBadge = badge{Icon: "⏳", Text: "Unknown", Class: classUnknown}

func ciBadge(s analyzer.CIStatus) badge {
	switch s {
	case analyzer.CIPassing:
		return badge{"✅", "Passing", classPassing}
	case analyzer.CIFailing:
		return badge{"❌", "Failing", classFailing}
	case analyzer.CIPending:
		return badge{"⏳", "Pending", classPending}
	default:
		return unknownBadge
	}
}

func reviewBadge(s analyzer.ReviewStatus) badge {
	switch s {
	case analyzer.ReviewApproved:
		return badge{"✅", "Approved", classPassing}
	case analyzer.ReviewChangesRequested:
		return badge{"❌", "Changes requested", classFailing}
	case analyzer.ReviewPending:
		return badge{"⏳", "Pending", classPending}
	case analyzer.ReviewNone:
		return badge{"➖", "None", classNone}
	default:
		return unknownBadge
	}
}

func commentsBadge(a *analyzer.Analysis) badge {
	switch a.CommentsStatus {
	case analyzer.CommentsResolved:
		return badge{"✅", "Resolved", classPassing}
	case analyzer.CommentsUnresolved:
		return badge{"❌", fmt.Sprintf("%d unresolved", a.UnresolvedCommentCount), classFailing}
	case analyzer.CommentsNone:
		return badge{"➖", "None", classNone}
	default:
		return unknownBadge
	}
}

func conflictsBadge(s analyzer.ConflictsStatus) badge {
	switch s {
	case analyzer.ConflictsClean:
		return badge{"✅", "Clean", classPassing}
	case analyzer.ConflictsConflicts:
		return badge{"❌", "Has conflicts", classFailing}
	default:
		return unknownBadge
	}
}

func stateBadge(s analyzer.State) badge {
	switch s {
	case analyzer.StateOpen:
		return badge{Text: "Open", Class: classPassing}
	case analyzer.StateDraft:
		return badge{Text: "Draft", Class: classNone}
	case analyzer.StateWIP:
		return badge{Text: "WIP", Class: classPending}
	case analyzer.StateClosed:
		return badge{Text: "Closed", Class: classFailing}
	case analyzer.StateMerged:
		return badge{Text: "Merged", Class: classPassing}
	default:
		return badge{Text: string(s), Class: classUnknown}
	}
}

// CICell renders the CI column, listing failing and pending check names
func CICell(a *analyzer.Analysis) string {
	if a.CIStatus == analyzer.CIPassing || (len(a.FailedCheckNames) == 0 && len(a.PendingCheckNames) == 0) {
		return ciBadge(a.CIStatus).colored()
	}

	var lines []string
	if len(a.FailedCheckNames) > 0 {
		lines = append(lines, red("❌ Failing:"))
		for _, name := range a.FailedCheckNames {
			lines = append(lines, paint(classFailing, "  • "+name))
		}
	}
	if len(a.PendingCheckNames) > 0 {
		lines = append(lines, yellow("⏳ Pending:"))
		for _, name := range a.PendingCheckNames {
			lines = append(lines, paint(classPending, "  • "+name))
		}
	}
	return strings.Join(lines, "\n")
}

// ReviewCell renders the review column
func ReviewCell(a *analyzer.Analysis) string {
	return reviewBadge(a.ReviewStatus).colored()
}

// CommentsCell renders the comments column with one URL per unresolved thread
func CommentsCell(a *analyzer.Analysis) string {
	b := commentsBadge(a)
	if a.CommentsStatus != analyzer.CommentsUnresolved || len(a.UnresolvedCommentURLs) == 0 {
		return b.colored()
	}
	lines := []string{paint(b.Class, b.String()+":")}
	for _, url := range a.UnresolvedCommentURLs {
		lines = append(lines, "  • "+url)
	}
	return strings.Join(lines, "\n")
}

// ConflictsCell renders the conflicts column
func ConflictsCell(a *analyzer.Analysis) string {
	return conflictsBadge(a.ConflictsStatus).colored()
}

// StateCell renders the lifecycle state
func StateCell(a *analyzer.Analysis) string {
	return stateBadge(a.State).colored()
}

// BlockerColor returns the string colored by blocker kind
func BlockerColor(kind analyzer.BlockerKind, s string) string {
	switch kind {
	case analyzer.BlockerMergeConflict, analyzer.BlockerFailingCheck, analyzer.BlockerChangesRequested:
		return red(s)
	case analyzer.BlockerPendingChecks, analyzer.BlockerMissingApprovals, analyzer.BlockerUnresolvedComments:
		return yellow(s)
	case analyzer.BlockerBranchProtection:
		return magenta(s)
	default:
		return s
	}
}

// ReviewLabelColor returns the string colored by label verdict
func ReviewLabelColor(status analyzer.ReviewLabelStatus, s string) string {
	switch status {
	case analyzer.LabelLGTM, analyzer.LabelApproved:
		return green(s)
	case analyzer.LabelChangesRequested:
		return red(s)
	default:
		return s
	}
}
