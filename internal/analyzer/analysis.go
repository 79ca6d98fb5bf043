package analyzer

// CIStatus summarizes check runs
type CIStatus string

const (
	CIUnknown CIStatus = "unknown"
	CIPassing CIStatus = "passing"
	CIFailing CIStatus = "failing"
	CIPending CIStatus = "pending"
)

// ReviewStatus summarizes reviews
type ReviewStatus string

const (
	ReviewUnknown          ReviewStatus = "unknown"
	ReviewApproved         ReviewStatus = "approved"
	ReviewChangesRequested ReviewStatus = "changes_requested"
	ReviewPending          ReviewStatus = "pending"
	ReviewNone             ReviewStatus = "none"
)

// CommentsStatus summarizes review threads
type CommentsStatus string

const (
	CommentsUnknown    CommentsStatus = "unknown"
	CommentsResolved   CommentsStatus = "resolved"
	CommentsUnresolved CommentsStatus = "unresolved"
	CommentsNone       CommentsStatus = "none"
)

// ConflictsStatus summarizes mergeability against the base branch
type ConflictsStatus string

const (
	ConflictsUnknown   ConflictsStatus = "unknown"
	ConflictsClean     ConflictsStatus = "clean"
	ConflictsConflicts ConflictsStatus = "conflicts"
)

// State is the lifecycle tag of a PR
type State string

const (
	StateOpen   State = "open"
	StateDraft  State = "draft"
	StateWIP    State = "wip"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// Analysis is the merge-readiness result for one pull request.
// Blockers are kept in detection order.
type Analysis struct {
	Repo   string `json:"repo" yaml:"repo"`
	Number int    `json:"pr_number" yaml:"pr_number"`
	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url" yaml:"url"`

	Blockers []MergeBlocker `json:"blockers" yaml:"blockers"`

	CIStatus        CIStatus        `json:"ci_status" yaml:"ci_status"`
	ReviewStatus    ReviewStatus    `json:"review_status" yaml:"review_status"`
	CommentsStatus  CommentsStatus  `json:"comments_status" yaml:"comments_status"`
	ConflictsStatus ConflictsStatus `json:"conflicts_status" yaml:"conflicts_status"`

	UnresolvedCommentCount int `json:"unresolved_comment_count" yaml:"unresolved_comment_count"`
	FailedCheckCount       int `json:"failed_check_count" yaml:"failed_check_count"`
	PendingCheckCount      int `json:"pending_check_count" yaml:"pending_check_count"`

	FailedCheckNames      []string `json:"failed_check_names" yaml:"failed_check_names"`
	PendingCheckNames     []string `json:"pending_check_names" yaml:"pending_check_names"`
	UnresolvedCommentURLs []string `json:"unresolved_comment_urls" yaml:"unresolved_comment_urls"`

	ReviewLabels []ReviewLabel `json:"review_labels" yaml:"review_labels"`
	State        State         `json:"state" yaml:"state"`
}

// IsMergeable reports whether nothing blocks the PR
func (a *Analysis) IsMergeable() bool {
	return len(a.Blockers) == 0
}

func (a *Analysis) addBlocker(kind BlockerKind, description, details string) {
	a.Blockers = append(a.Blockers, MergeBlocker{
		Kind:        kind,
		Description: description,
		Details:     details,
	})
}
