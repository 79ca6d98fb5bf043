package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryo246912/gh-merge-ready/internal/analyzer"
	"github.com/ryo246912/gh-merge-ready/internal/github"
	"github.com/ryo246912/gh-merge-ready/internal/models"
)

func strPtr(s string) *string { return &s }

func mockWithPRs(refs ...models.PullRequestRef) *github.MockClient {
	client := &github.MockClient{
		CurrentUser:   "octocat",
		SearchResults: refs,
		PRs:           make(map[string]github.MockPR),
	}
	for _, ref := range refs {
		client.PRs[github.MockKey(ref.Owner, ref.Repo, ref.Number)] = github.MockPR{
			PullRequest: github.CreateTestPR(ref.Owner, ref.Repo, ref.Number),
		}
	}
	return client
}

func TestAnalyzeService_AnalyzeUser(t *testing.T) {
	refs := []models.PullRequestRef{
		{Owner: "acme", Repo: "api", Number: 3},
		{Owner: "acme", Repo: "web", Number: 1},
		{Owner: "other", Repo: "cli", Number: 42},
		{Owner: "acme", Repo: "api", Number: 7},
	}

	tests := []struct {
		name          string
		username      string
		setup         func(c *github.MockClient)
		expectedUser  string
		expectError   bool
		errorContains string
	}{
		{
			name:         "explicit username",
			username:     "hubot",
			expectedUser: "hubot",
		},
		{
			name:         "falls back to current user",
			username:     "",
			expectedUser: "octocat",
		},
		{
			name:     "current user error",
			username: "",
			setup: func(c *github.MockClient) {
				c.CurrentUserError = github.NewAPIError(401, github.ErrUnauthorized)
			},
			expectError:   true,
			errorContains: "failed to get current user",
		},
		{
			name:     "current user empty",
			username: "",
			setup: func(c *github.MockClient) {
				c.CurrentUser = ""
			},
			expectError:   true,
			errorContains: "current user is unknown",
		},
		{
			name:     "search error",
			username: "hubot",
			setup: func(c *github.MockClient) {
				c.SearchError = github.NewAPIError(429, github.ErrRateLimited)
			},
			expectError:   true,
			errorContains: "failed to search pull requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mockWithPRs(refs...)
			if tt.setup != nil {
				tt.setup(client)
			}
			svc := NewAnalyzeService(client, nil, 3)

			report, err := svc.AnalyzeUser(context.Background(), tt.username, AnalyzeOptions{RepoFilter: "acme/api", Limit: 20})

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedUser, report.Username)
			assert.Equal(t, tt.expectedUser, client.LastAuthor)
			assert.Equal(t, "acme/api", client.LastRepoFilter)
			assert.Equal(t, 20, client.LastLimit)

			require.Len(t, report.Analyses, len(refs))
			for i, ref := range refs {
				assert.Equal(t, ref.FullName(), report.Analyses[i].Repo)
				assert.Equal(t, ref.Number, report.Analyses[i].Number)
			}
		})
	}
}

func TestAnalyzeService_AnalyzeUser_DefaultLimit(t *testing.T) {
	client := mockWithPRs()
	svc := NewAnalyzeService(client, nil, 0)

	report, err := svc.AnalyzeUser(context.Background(), "hubot", AnalyzeOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Analyses)
	assert.Equal(t, 100, client.LastLimit)
	assert.False(t, client.GetCurrentUserLoginCalled)
}

func TestAnalyzeService_AnalyzeUser_OnePRFailsBatch(t *testing.T) {
	refs := []models.PullRequestRef{
		{Owner: "acme", Repo: "api", Number: 1},
		{Owner: "acme", Repo: "api", Number: 2},
	}
	client := mockWithPRs(refs...)
	delete(client.PRs, github.MockKey("acme", "api", 2))

	svc := NewAnalyzeService(client, nil, 2)
	_, err := svc.AnalyzeUser(context.Background(), "hubot", AnalyzeOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme/api#2")
	assert.True(t, errors.Is(err, github.ErrNotFound))
}

func TestAnalyzeService_AnalyzePR(t *testing.T) {
	client := mockWithPRs(models.PullRequestRef{Owner: "acme", Repo: "api", Number: 5})
	key := github.MockKey("acme", "api", 5)
	mock := client.PRs[key]
	mock.Reviews = []models.Review{
		{State: "APPROVED", User: &models.User{Login: "alice"}},
	}
	mock.CheckRuns = []models.CheckRun{
		{Name: "build", Status: "completed", Conclusion: strPtr("failure")},
		{Name: "lint", Status: "in_progress"},
	}
	mock.ReviewThreads = []models.ReviewThread{
		{IsResolved: false},
		{IsResolved: true},
	}
	client.PRs[key] = mock

	svc := NewAnalyzeService(client, nil, 1)
	a, err := svc.AnalyzePR(context.Background(), "acme", "api", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{mock.PullRequest.Head.SHA}, client.LastRefs)
	assert.Equal(t, analyzer.CIFailing, a.CIStatus)
	assert.Equal(t, analyzer.ReviewApproved, a.ReviewStatus)
	assert.Equal(t, analyzer.CommentsUnresolved, a.CommentsStatus)
	assert.Equal(t, analyzer.ConflictsClean, a.ConflictsStatus)
	assert.Equal(t, []string{"build"}, a.FailedCheckNames)
	assert.Equal(t, []string{"lint"}, a.PendingCheckNames)
	assert.False(t, a.IsMergeable())

	kinds := make([]analyzer.BlockerKind, 0, len(a.Blockers))
	for _, b := range a.Blockers {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []analyzer.BlockerKind{
		analyzer.BlockerFailingCheck,
		analyzer.BlockerPendingChecks,
		analyzer.BlockerUnresolvedComments,
	}, kinds)
}

func TestAnalyzeService_AnalyzePR_FillsMissingFullName(t *testing.T) {
	client := mockWithPRs(models.PullRequestRef{Owner: "acme", Repo: "api", Number: 9})
	pr := client.PRs[github.MockKey("acme", "api", 9)].PullRequest
	pr.Base.Repo.FullName = ""

	svc := NewAnalyzeService(client, nil, 1)
	a, err := svc.AnalyzePR(context.Background(), "acme", "api", 9)
	require.NoError(t, err)
	assert.Equal(t, "acme/api", a.Repo)
	assert.Empty(t, pr.Base.Repo.FullName, "fetched payload must not be mutated")
}

func TestAnalyzeService_AnalyzePR_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name          string
		setup         func(c *github.MockClient)
		errorContains string
	}{
		{
			name:          "pull request",
			setup:         func(c *github.MockClient) { c.PRError = boom },
			errorContains: "failed to get pull request",
		},
		{
			name:          "reviews",
			setup:         func(c *github.MockClient) { c.ReviewsError = boom },
			errorContains: "failed to get reviews",
		},
		{
			name:          "check runs",
			setup:         func(c *github.MockClient) { c.CheckRunsError = boom },
			errorContains: "failed to get check runs",
		},
		{
			name:          "review threads",
			setup:         func(c *github.MockClient) { c.ThreadsError = boom },
			errorContains: "failed to get review threads",
		},
		{
			name: "invalid pull request",
			setup: func(c *github.MockClient) {
				c.PRs[github.MockKey("acme", "api", 1)].PullRequest.Title = ""
			},
			errorContains: "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mockWithPRs(models.PullRequestRef{Owner: "acme", Repo: "api", Number: 1})
			tt.setup(client)

			svc := NewAnalyzeService(client, nil, 1)
			a, err := svc.AnalyzePR(context.Background(), "acme", "api", 1)

			require.Error(t, err)
			assert.Nil(t, a)
			assert.Contains(t, err.Error(), "acme/api#1")
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestAnalyzeService_RateLimit(t *testing.T) {
	limits := &github.RateLimits{
		Core:    github.RateLimit{Limit: 5000, Remaining: 4999},
		GraphQL: github.RateLimit{Limit: 5000, Remaining: 4000},
	}
	svc := NewAnalyzeService(&github.MockClient{RateLimits: limits}, nil, 1)

	got, err := svc.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, limits, got)

	svc = NewAnalyzeService(&github.MockClient{RateLimitError: errors.New("down")}, nil, 1)
	_, err = svc.RateLimit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get rate limit")
}
