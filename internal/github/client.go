package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	graphql "github.com/cli/shurcooL-graphql"
	"github.com/ryo246912/gh-merge-ready/internal/models"
)

const (
	defaultHost    = "github.com"
	defaultTimeout = 30 * time.Second
	perPage        = 100
)

// Options configures the API clients. Empty Host and AuthToken fall back to gh's auth.
type Options struct {
	Host      string
	AuthToken string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client wraps GitHub API clients
type Client struct {
	host string
	rest *api.RESTClient
	gql  *api.GraphQLClient
}

func NewClient(opts Options) (*Client, error) {
	clientOpts := api.ClientOptions{
		Host:      opts.Host,
		AuthToken: opts.AuthToken,
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
	}
	if clientOpts.Timeout == 0 {
		clientOpts.Timeout = defaultTimeout
	}

	restClient, err := api.NewRESTClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	gqlClient, err := api.NewGraphQLClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	host := opts.Host
	if host == "" {
		host = defaultHost
	}

	return &Client{
		host: host,
		rest: restClient,
		gql:  gqlClient,
	}, nil
}

func (c *Client) get(ctx context.Context, op, path string, resp interface{}) error {
	return wrapError(op, c.rest.DoWithContext(ctx, http.MethodGet, path, nil, resp))
}

// GetCurrentUserLogin fetches current user's login
func (c *Client) GetCurrentUserLogin(ctx context.Context) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := c.get(ctx, "fetch current user", "user", &user); err != nil {
		return "", err
	}
	return user.Login, nil
}

// SearchOpenPRs finds open pull requests authored by a user.
// repoFilter is "owner/name" or empty for all repositories.
func (c *Client) SearchOpenPRs(ctx context.Context, author, repoFilter string, limit int) ([]models.PullRequestRef, error) {
	if limit <= 0 || limit > perPage {
		limit = perPage
	}
	query := fmt.Sprintf("is:pr is:open author:%s", author)
	if repoFilter != "" {
		query += " repo:" + repoFilter
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", fmt.Sprintf("%d", limit))

	var result struct {
		Items []struct {
			Number        int    `json:"number"`
			Title         string `json:"title"`
			RepositoryURL string `json:"repository_url"`
		} `json:"items"`
	}
	if err := c.get(ctx, "search pull requests", "search/issues?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	refs := make([]models.PullRequestRef, 0, len(result.Items))
	for _, item := range result.Items {
		owner, repo, err := ParseRepoFromURL(c.host, item.RepositoryURL)
		if err != nil {
			return nil, err
		}
		refs = append(refs, models.PullRequestRef{
			Owner:  owner,
			Repo:   repo,
			Number: item.Number,
			Title:  item.Title,
		})
	}
	return refs, nil
}

// GetPullRequest fetches the full PR snapshot including mergeable state
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, prNumber int) (*models.PullRequest, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d", owner, repo, prNumber)
	var pr models.PullRequest
	if err := c.get(ctx, "fetch pull request", path, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetReviews fetches submitted reviews of a PR
func (c *Client) GetReviews(ctx context.Context, owner, repo string, prNumber int) ([]models.Review, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d/reviews?per_page=%d", owner, repo, prNumber, perPage)
	var reviews []models.Review
	if err := c.get(ctx, "fetch reviews", path, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetCheckRuns fetches check runs for a commit
func (c *Client) GetCheckRuns(ctx context.Context, owner, repo, ref string) ([]models.CheckRun, error) {
	path := fmt.Sprintf("repos/%s/%s/commits/%s/check-runs?per_page=%d", owner, repo, ref, perPage)
	var result struct {
		CheckRuns []models.CheckRun `json:"check_runs"`
	}
	if err := c.get(ctx, "fetch check runs", path, &result); err != nil {
		return nil, err
	}
	return result.CheckRuns, nil
}

// reviewThreadsQuery mirrors:
//
//	repository(owner: $owner, name: $name) {
//	  pullRequest(number: $number) {
//	    reviewThreads(first: $first, after: $endCursor) {
//	      nodes { isResolved isOutdated comments(first: 1) { nodes { url body author { login } } } }
//	      pageInfo { hasNextPage endCursor }
//	    }
//	  }
//	}
type reviewThreadsQuery struct {
	Repository struct {
		PullRequest struct {
			ReviewThreads struct {
				Nodes []struct {
					IsResolved bool
					IsOutdated bool
					Comments   struct {
						Nodes []struct {
							URL    string
							Body   string
							Author struct {
								Login string
							}
						}
					} `graphql:"comments(first: 1)"`
				}
				PageInfo struct {
					HasNextPage bool
					EndCursor   string
				}
			} `graphql:"reviewThreads(first: $first, after: $endCursor)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// GetReviewThreads fetches all review threads of a PR using GraphQL
func (c *Client) GetReviewThreads(ctx context.Context, owner, repo string, prNumber int) ([]models.ReviewThread, error) {
	variables := map[string]interface{}{
		"owner":     graphql.String(owner),
		"name":      graphql.String(repo),
		"number":    graphql.Int(prNumber),
		"first":     graphql.Int(perPage),
		"endCursor": (*graphql.String)(nil),
	}

	threads := []models.ReviewThread{}
	for {
		var q reviewThreadsQuery
		if err := c.gql.QueryWithContext(ctx, "ReviewThreads", &q, variables); err != nil {
			return nil, wrapError("fetch review threads", err)
		}

		page := q.Repository.PullRequest.ReviewThreads
		for _, node := range page.Nodes {
			t := models.ReviewThread{IsResolved: node.IsResolved, IsOutdated: node.IsOutdated}
			for _, cm := range node.Comments.Nodes {
				comment := models.ThreadComment{URL: cm.URL, Body: cm.Body}
				if cm.Author.Login != "" {
					comment.Author = &models.User{Login: cm.Author.Login}
				}
				t.Comments.Nodes = append(t.Comments.Nodes, comment)
			}
			threads = append(threads, t)
		}

		if !page.PageInfo.HasNextPage || page.PageInfo.EndCursor == "" {
			return threads, nil
		}
		variables["endCursor"] = graphql.String(page.PageInfo.EndCursor)
	}
}

// RateLimit is the quota of one API bucket
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// ResetAt returns the reset time of the bucket
func (r RateLimit) ResetAt() time.Time {
	return time.Unix(r.Reset, 0)
}

// RateLimits holds the quota buckets this tool consumes
type RateLimits struct {
	Core    RateLimit `json:"core"`
	GraphQL RateLimit `json:"graphql"`
	Search  RateLimit `json:"search"`
}

// GetRateLimit fetches the current API quota
func (c *Client) GetRateLimit(ctx context.Context) (*RateLimits, error) {
	var result struct {
		Resources RateLimits `json:"resources"`
	}
	if err := c.get(ctx, "fetch rate limit", "rate_limit", &result); err != nil {
		return nil, err
	}
	return &result.Resources, nil
}

// ParseRepoFromURL extracts owner and repo from web or API repository URLs.
// Only host itself and its api. and www. variants are accepted.
func ParseRepoFromURL(host, rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid GitHub repo URL: %s", rawURL)
	}
	if !isHostOf(host, u.Host) {
		return "", "", fmt.Errorf("invalid GitHub URL domain: %q", u.Host)
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	// API form: /repos/{owner}/{repo}/...
	for i, p := range parts {
		if p != "repos" {
			continue
		}
		if len(parts) < i+3 {
			return "", "", fmt.Errorf("invalid GitHub repo URL: %s", rawURL)
		}
		return parts[i+1], parts[i+2], nil
	}

	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid GitHub repo URL: %s", rawURL)
	}
	return parts[0], parts[1], nil
}

func isHostOf(host, candidate string) bool {
	host = strings.ToLower(host)
	if host == "" {
		host = defaultHost
	}
	candidate = strings.ToLower(candidate)
	return candidate == host || candidate == "api."+host || candidate == "www."+host
}

// SplitRepo splits "owner/name"
func SplitRepo(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("repository must be in owner/name form: %q", fullName)
	}
	return owner, name, nil
}
