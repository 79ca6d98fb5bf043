package models

// PullRequestRef identifies a PR found by search
type PullRequestRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// FullName returns owner/repo
func (r PullRequestRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// User represents a GitHub user
type User struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// Label represents a PR label
type Label struct {
	Name string `json:"name"`
}

// Repository is the repo section of a PR base or head
type Repository struct {
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
}

// Branch represents the base or head of a PR
type Branch struct {
	Ref  string     `json:"ref"`
	SHA  string     `json:"sha"`
	Repo Repository `json:"repo"`
}

// PullRequest is the PR snapshot returned by GET repos/{owner}/{repo}/pulls/{number}.
// Mergeable is nil while GitHub is still computing it.
type PullRequest struct {
	Number         int     `json:"number"`
	Title          string  `json:"title"`
	HTMLURL        string  `json:"html_url"`
	State          string  `json:"state"`
	Draft          bool    `json:"draft"`
	Merged         bool    `json:"merged"`
	Mergeable      *bool   `json:"mergeable"`
	MergeableState string  `json:"mergeable_state"`
	Labels         []Label `json:"labels"`
	User           *User   `json:"user"`
	Head           Branch  `json:"head"`
	Base           Branch  `json:"base"`
}

// Review represents a PR review
type Review struct {
	State string `json:"state"`
	User  *User  `json:"user"`
}

// Login returns the reviewer login, or "" when the user is missing
func (r Review) Login() string {
	if r.User == nil {
		return ""
	}
	return r.User.Login
}

// CheckRunOutput holds the textual output of a check run
type CheckRunOutput struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
}

// CheckRun represents a check run on the PR head commit.
// Conclusion stays nil until the run completes.
type CheckRun struct {
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	Conclusion *string         `json:"conclusion"`
	Output     *CheckRunOutput `json:"output"`
}

// ThreadComment is the first comment of a review thread
type ThreadComment struct {
	URL    string `json:"url"`
	Body   string `json:"body"`
	Author *User  `json:"author"`
}

// ReviewThread represents a review thread from the GraphQL API
type ReviewThread struct {
	IsResolved bool `json:"isResolved"`
	IsOutdated bool `json:"isOutdated"`
	Comments   struct {
		Nodes []ThreadComment `json:"nodes"`
	} `json:"comments"`
}

// FirstCommentURL returns the URL of the thread's first comment, if any
func (t ReviewThread) FirstCommentURL() string {
	if len(t.Comments.Nodes) == 0 {
		return ""
	}
	return t.Comments.Nodes[0].URL
}
