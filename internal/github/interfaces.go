package github

import (
	"context"

	"github.com/ryo246912/gh-merge-ready/internal/models"
)

// GitHubClient defines the interface for GitHub operations
type GitHubClient interface {
	GetCurrentUserLogin(ctx context.Context) (string, error)
	SearchOpenPRs(ctx context.Context, author, repoFilter string, limit int) ([]models.PullRequestRef, error)
	GetPullRequest(ctx context.Context, owner, repo string, prNumber int) (*models.PullRequest, error)
	GetReviews(ctx context.Context, owner, repo string, prNumber int) ([]models.Review, error)
	GetCheckRuns(ctx context.Context, owner, repo, ref string) ([]models.CheckRun, error)
	GetReviewThreads(ctx context.Context, owner, repo string, prNumber int) ([]models.ReviewThread, error)
	GetRateLimit(ctx context.Context) (*RateLimits, error)
}

// Ensure Client implements GitHubClient interface
var _ GitHubClient = (*Client)(nil)
