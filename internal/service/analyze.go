package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ryo246912/gh-merge-ready/internal/analyzer"
	"github.com/ryo246912/gh-merge-ready/internal/github"
	"github.com/ryo246912/gh-merge-ready/internal/models"
)

const defaultSearchLimit = 100

// ErrNoUser is returned when no username was given and the current user could not be resolved
var ErrNoUser = errors.New("no username given and current user is unknown")

// AnalyzeOptions narrows the set of PRs analyzed for a user
type AnalyzeOptions struct {
	// RepoFilter is an optional owner/name
	RepoFilter string
	Limit      int
}

// UserReport is the result of analyzing every open PR of one author
type UserReport struct {
	Username string
	Analyses []*analyzer.Analysis
}

// AnalyzeService fetches PR data from GitHub and runs the analyzer on it
type AnalyzeService struct {
	client      github.GitHubClient
	log         *zap.SugaredLogger
	concurrency int
}

// NewAnalyzeService creates a new service instance.
// A nil logger disables logging; concurrency below 1 means one PR at a time.
func NewAnalyzeService(client github.GitHubClient, log *zap.SugaredLogger, concurrency int) *AnalyzeService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &AnalyzeService{
		client:      client,
		log:         log,
		concurrency: concurrency,
	}
}

// AnalyzeUser analyzes all open PRs authored by username.
// Results keep the order returned by search.
func (s *AnalyzeService) AnalyzeUser(ctx context.Context, username string, opts AnalyzeOptions) (*UserReport, error) {
	if username == "" {
		self, err := s.client.GetCurrentUserLogin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get current user: %w", err)
		}
		if self == "" {
			return nil, ErrNoUser
		}
		username = self
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	s.log.Debugw("searching open pull requests", "author", username, "repo", opts.RepoFilter, "limit", limit)
	refs, err := s.client.SearchOpenPRs(ctx, username, opts.RepoFilter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search pull requests: %w", err)
	}
	s.log.Infow("found open pull requests", "author", username, "count", len(refs))

	analyses, err := s.analyzeAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	return &UserReport{Username: username, Analyses: analyses}, nil
}

func (s *AnalyzeService) analyzeAll(ctx context.Context, refs []models.PullRequestRef) ([]*analyzer.Analysis, error) {
	analyses := make([]*analyzer.Analysis, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			a, err := s.AnalyzePR(gctx, ref.Owner, ref.Repo, ref.Number)
			if err != nil {
				return err
			}
			analyses[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analyses, nil
}

// AnalyzePR fetches the four inputs of one PR and analyzes them together.
// A failure in any fetch fails the whole PR.
func (s *AnalyzeService) AnalyzePR(ctx context.Context, owner, repo string, prNumber int) (*analyzer.Analysis, error) {
	ref := fmt.Sprintf("%s/%s#%d", owner, repo, prNumber)
	log := s.log.With("pr", ref)

	pr, err := s.client.GetPullRequest(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get pull request: %w", ref, err)
	}
	if pr == nil {
		return nil, fmt.Errorf("%s: %w", ref, github.ErrNotFound)
	}

	var (
		reviews   []models.Review
		checkRuns []models.CheckRun
		threads   []models.ReviewThread
	)

	// the PR itself is needed first for the head SHA
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = s.client.GetReviews(gctx, owner, repo, prNumber)
		if err != nil {
			return fmt.Errorf("failed to get reviews: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if pr.Head.SHA == "" {
			return nil
		}
		var err error
		checkRuns, err = s.client.GetCheckRuns(gctx, owner, repo, pr.Head.SHA)
		if err != nil {
			return fmt.Errorf("failed to get check runs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		threads, err = s.client.GetReviewThreads(gctx, owner, repo, prNumber)
		if err != nil {
			return fmt.Errorf("failed to get review threads: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	snapshot := *pr
	if snapshot.Base.Repo.FullName == "" {
		snapshot.Base.Repo.FullName = owner + "/" + repo
	}

	a, err := analyzer.Analyze(analyzer.Input{
		PullRequest:   snapshot,
		Reviews:       reviews,
		CheckRuns:     checkRuns,
		ReviewThreads: threads,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	log.Debugw("analyzed pull request", "blockers", len(a.Blockers), "state", a.State)
	return a, nil
}

// RateLimit returns the remaining API quota
func (s *AnalyzeService) RateLimit(ctx context.Context) (*github.RateLimits, error) {
	limits, err := s.client.GetRateLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limit: %w", err)
	}
	return limits, nil
}
