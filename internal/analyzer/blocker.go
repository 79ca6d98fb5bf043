package analyzer

// BlockerKind identifies why a PR cannot be merged.
// Renderers key colors and icons off these values.
type BlockerKind string

const (
	BlockerMergeConflict      BlockerKind = "MERGE_CONFLICT"
	BlockerFailingCheck       BlockerKind = "FAILING_CHECK"
	BlockerPendingChecks      BlockerKind = "PENDING_CHECKS"
	BlockerChangesRequested   BlockerKind = "CHANGES_REQUESTED"
	BlockerMissingApprovals   BlockerKind = "MISSING_APPROVALS"
	BlockerUnresolvedComments BlockerKind = "UNRESOLVED_COMMENTS"
	BlockerBranchProtection   BlockerKind = "BRANCH_PROTECTION"
)

// MergeBlocker is a single reason a PR cannot be merged
type MergeBlocker struct {
	Kind        BlockerKind `json:"type" yaml:"type"`
	Description string      `json:"description" yaml:"description"`
	// Details is optional and may span several lines
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

func (b MergeBlocker) String() string {
	if b.Details != "" {
		return string(b.Kind) + ": " + b.Description + "\n  " + b.Details
	}
	return string(b.Kind) + ": " + b.Description
}
