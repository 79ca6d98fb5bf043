package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/ryo246912/gh-merge-ready/internal/models"
)

// MockPR bundles the canned responses for one pull request
type MockPR struct {
	PullRequest   *models.PullRequest
	Reviews       []models.Review
	CheckRuns     []models.CheckRun
	ReviewThreads []models.ReviewThread
}

// MockClient implements GitHubClient for testing.
// It is safe for concurrent use.
type MockClient struct {
	// Control test behavior
	CurrentUser      string
	CurrentUserError error
	SearchResults    []models.PullRequestRef
	SearchError      error
	PRs              map[string]MockPR
	PRError          error
	ReviewsError     error
	CheckRunsError   error
	ThreadsError     error
	RateLimits       *RateLimits
	RateLimitError   error

	mu sync.Mutex

	// Track method calls
	GetCurrentUserLoginCalled bool
	SearchOpenPRsCalled       bool
	FetchedPRs                []string

	// Store call arguments for verification
	LastAuthor     string
	LastRepoFilter string
	LastLimit      int
	LastRefs       []string
}

// MockKey builds the PRs map key for owner/repo#number
func MockKey(owner, repo string, prNumber int) string {
	return fmt.Sprintf("%s/%s#%d", owner, repo, prNumber)
}

// GetCurrentUserLogin mocks the GitHub API call
func (m *MockClient) GetCurrentUserLogin(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCurrentUserLoginCalled = true
	return m.CurrentUser, m.CurrentUserError
}

// SearchOpenPRs mocks the search API call
func (m *MockClient) SearchOpenPRs(ctx context.Context, author, repoFilter string, limit int) ([]models.PullRequestRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchOpenPRsCalled = true
	m.LastAuthor = author
	m.LastRepoFilter = repoFilter
	m.LastLimit = limit
	return m.SearchResults, m.SearchError
}

func (m *MockClient) lookup(owner, repo string, prNumber int) (MockPR, error) {
	pr, ok := m.PRs[MockKey(owner, repo, prNumber)]
	if !ok {
		return MockPR{}, &APIError{Op: "mock", StatusCode: 404, Err: ErrNotFound}
	}
	return pr, nil
}

// GetPullRequest mocks the pull request API call
func (m *MockClient) GetPullRequest(ctx context.Context, owner, repo string, prNumber int) (*models.PullRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchedPRs = append(m.FetchedPRs, MockKey(owner, repo, prNumber))
	if m.PRError != nil {
		return nil, m.PRError
	}
	pr, err := m.lookup(owner, repo, prNumber)
	if err != nil {
		return nil, err
	}
	return pr.PullRequest, nil
}

// GetReviews mocks the reviews API call
func (m *MockClient) GetReviews(ctx context.Context, owner, repo string, prNumber int) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReviewsError != nil {
		return nil, m.ReviewsError
	}
	pr, err := m.lookup(owner, repo, prNumber)
	return pr.Reviews, err
}

// GetCheckRuns mocks the check runs API call
func (m *MockClient) GetCheckRuns(ctx context.Context, owner, repo, ref string) ([]models.CheckRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRefs = append(m.LastRefs, ref)
	if m.CheckRunsError != nil {
		return nil, m.CheckRunsError
	}
	for _, pr := range m.PRs {
		if pr.PullRequest != nil && pr.PullRequest.Head.SHA == ref && pr.PullRequest.Base.Repo.FullName == owner+"/"+repo {
			return pr.CheckRuns, nil
		}
	}
	return nil, nil
}

// GetReviewThreads mocks the GraphQL API call
func (m *MockClient) GetReviewThreads(ctx context.Context, owner, repo string, prNumber int) ([]models.ReviewThread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ThreadsError != nil {
		return nil, m.ThreadsError
	}
	pr, err := m.lookup(owner, repo, prNumber)
	return pr.ReviewThreads, err
}

// GetRateLimit mocks the rate limit API call
func (m *MockClient) GetRateLimit(ctx context.Context) (*RateLimits, error) {
	return m.RateLimits, m.RateLimitError
}

// Helper functions for creating test data
func CreateTestPR(owner, repo string, number int) *models.PullRequest {
	mergeable := true
	return &models.PullRequest{
		Number:         number,
		Title:          fmt.Sprintf("Test PR #%d", number),
		HTMLURL:        fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, number),
		State:          "open",
		Mergeable:      &mergeable,
		MergeableState: "clean",
		Head:           models.Branch{SHA: fmt.Sprintf("sha-%s-%d", repo, number)},
		Base:           models.Branch{Repo: models.Repository{FullName: owner + "/" + repo}},
	}
}

// NewAPIError builds a transport error as the real client would return it
func NewAPIError(statusCode int, err error) error {
	return &APIError{Op: "mock", StatusCode: statusCode, Err: err}
}
