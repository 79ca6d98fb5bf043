package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryo246912/gh-merge-ready/internal/config"
	"github.com/ryo246912/gh-merge-ready/internal/github"
	"github.com/ryo246912/gh-merge-ready/internal/models"
	"github.com/ryo246912/gh-merge-ready/internal/ui"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type testApp struct {
	*app
	client   *github.MockClient
	prompter *ui.MockPrompter
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	dir      string
}

func newTestApp(t *testing.T, refs ...models.PullRequestRef) *testApp {
	t.Helper()
	dir := t.TempDir()
	origDir := config.DirFunc
	config.DirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { config.DirFunc = origDir })
	t.Chdir(dir)

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

	var out, errOut bytes.Buffer
	prompter := &ui.MockPrompter{}
	a := &app{
		v:        viper.New(),
		ui:       &ui.UI{Out: &out, ErrOut: &errOut},
		prompter: prompter,
		newClient: func(cfg *config.Config) (github.GitHubClient, error) {
			return client, nil
		},
		currentRepo: func() (string, error) { return "acme/current", nil },
		now:         func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) },
	}
	return &testApp{app: a, client: client, prompter: prompter, out: &out, errOut: &errOut, dir: dir}
}

func TestRoot_Table(t *testing.T) {
	ta := newTestApp(t,
		models.PullRequestRef{Owner: "acme", Repo: "api", Number: 1},
		models.PullRequestRef{Owner: "acme", Repo: "web", Number: 2},
	)
	conflicted := false
	ta.client.PRs[github.MockKey("acme", "web", 2)].PullRequest.Mergeable = &conflicted

	require.NoError(t, run(ta.app, []string{"hubot"}))

	got := ta.out.String()
	assert.Contains(t, got, "Found 2 open PR(s) for hubot")
	assert.Contains(t, got, "acme/api")
	assert.Contains(t, got, "Has conflicts")
	assert.Contains(t, got, "Ready to merge: 1")
	assert.Contains(t, got, "Blocked: 1")
	assert.Equal(t, "hubot", ta.client.LastAuthor)
	assert.False(t, ta.client.GetCurrentUserLoginCalled)
}

func TestRoot_DefaultsToCurrentUser(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, run(ta.app, nil))

	assert.True(t, ta.client.GetCurrentUserLoginCalled)
	assert.Equal(t, "octocat", ta.client.LastAuthor)
	assert.Contains(t, ta.errOut.String(), "No open PRs found for octocat")
	assert.Empty(t, ta.out.String())
}

func TestRoot_RepoFilters(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expected      string
		errorContains string
	}{
		{"repo flag", []string{"--repo", "acme/api"}, "acme/api", ""},
		{"current repo", []string{"--current-repo"}, "acme/current", ""},
		{"invalid repo", []string{"--repo", "acme"}, "", "owner/name"},
		{"both flags", []string{"--repo", "acme/api", "--current-repo"}, "", "none of the others"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			err := run(ta.app, tt.args)
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ta.client.LastRepoFilter)
		})
	}
}

func TestRoot_FlagsOverrideConfig(t *testing.T) {
	ta := newTestApp(t, models.PullRequestRef{Owner: "acme", Repo: "api", Number: 1})
	require.NoError(t, os.WriteFile(filepath.Join(ta.dir, "config.yaml"), []byte("search_limit: 10\nformat: yaml\n"), 0o644))

	require.NoError(t, run(ta.app, []string{"--limit", "5", "--format", "json"}))

	assert.Equal(t, 5, ta.client.LastLimit)
	assert.Equal(t, config.FormatJSON, ta.cfg.Format)
}

func TestRoot_JSON(t *testing.T) {
	ta := newTestApp(t, models.PullRequestRef{Owner: "acme", Repo: "api", Number: 1})

	require.NoError(t, run(ta.app, []string{"hubot", "--format", "json"}))

	var report struct {
		Username     string `json:"username"`
		PullRequests []struct {
			Repo        string `json:"repo"`
			Number      int    `json:"pr_number"`
			IsMergeable bool   `json:"is_mergeable"`
		} `json:"pull_requests"`
	}
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &report))
	assert.Equal(t, "hubot", report.Username)
	require.Len(t, report.PullRequests, 1)
	assert.Equal(t, "acme/api", report.PullRequests[0].Repo)
	assert.Equal(t, 1, report.PullRequests[0].Number)
	assert.True(t, report.PullRequests[0].IsMergeable)
}

func TestRoot_HTMLExport(t *testing.T) {
	ta := newTestApp(t, models.PullRequestRef{Owner: "acme", Repo: "api", Number: 1})
	path := filepath.Join(ta.dir, "report.html")

	require.NoError(t, run(ta.app, []string{"hubot", "--html", path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hubot")
	assert.Contains(t, string(data), "2026-05-06 07:08:09")
	assert.Contains(t, ta.out.String(), "HTML report exported to: "+path)
}

func TestRoot_Interactive(t *testing.T) {
	ta := newTestApp(t,
		models.PullRequestRef{Owner: "acme", Repo: "api", Number: 1},
		models.PullRequestRef{Owner: "acme", Repo: "web", Number: 2},
	)
	ta.prompter.SelectedIndex = 1

	require.NoError(t, run(ta.app, []string{"hubot", "--interactive"}))

	assert.True(t, ta.prompter.SelectAnalysisCalled)
	assert.Equal(t, 2, ta.prompter.LastChoices)
	assert.Contains(t, ta.out.String(), "acme/web#2 Test PR #2")

	ta = newTestApp(t, models.PullRequestRef{Owner: "acme", Repo: "api", Number: 1})
	ta.prompter.SelectionError = errors.New("^C")
	err := run(ta.app, []string{"hubot", "-i"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select pull request")

	ta = newTestApp(t)
	err = run(ta.app, []string{"-i", "--format", "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires table output")
}

func TestRoot_Errors(t *testing.T) {
	ta := newTestApp(t)
	ta.client.SearchError = github.NewAPIError(401, github.ErrUnauthorized)

	err := run(ta.app, []string{"hubot"})
	require.Error(t, err)
	assert.ErrorIs(t, err, github.ErrUnauthorized)
	assert.Contains(t, hint(err).Error(), "gh auth login")

	ta = newTestApp(t)
	err = run(ta.app, []string{"a", "b"})
	require.Error(t, err)

	ta = newTestApp(t)
	err = run(ta.app, []string{"--format", "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestPRCmd(t *testing.T) {
	ta := newTestApp(t, models.PullRequestRef{Owner: "acme", Repo: "api", Number: 9})
	failure := "failure"
	key := github.MockKey("acme", "api", 9)
	mock := ta.client.PRs[key]
	mock.CheckRuns = []models.CheckRun{{Name: "build", Status: "completed", Conclusion: &failure}}
	ta.client.PRs[key] = mock

	require.NoError(t, run(ta.app, []string{"pr", "acme/api", "9"}))

	got := ta.out.String()
	assert.Contains(t, got, "acme/api#9 Test PR #9")
	assert.Contains(t, got, "[FAILING_CHECK]")
	assert.False(t, ta.client.SearchOpenPRsCalled)
}

func TestPRCmd_JSON(t *testing.T) {
	ta := newTestApp(t, models.PullRequestRef{Owner: "acme", Repo: "api", Number: 9})

	require.NoError(t, run(ta.app, []string{"pr", "acme/api", "9", "-f", "json"}))

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &view))
	assert.Equal(t, true, view["is_mergeable"])
	assert.Equal(t, "acme/api", view["repo"])
}

func TestPRCmd_InvalidArgs(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		errorContains string
	}{
		{"bad repo", []string{"pr", "acme", "1"}, "owner/name"},
		{"not a number", []string{"pr", "acme/api", "abc"}, "invalid PR number"},
		{"zero", []string{"pr", "acme/api", "0"}, "must be positive"},
		{"missing arg", []string{"pr", "acme/api"}, "accepts 2 arg(s)"},
		{"not found", []string{"pr", "acme/api", "404"}, "acme/api#404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			err := run(ta.app, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestRateLimitCmd(t *testing.T) {
	ta := newTestApp(t)
	ta.client.RateLimits = &github.RateLimits{
		Core:    github.RateLimit{Limit: 5000, Remaining: 4321, Reset: 1700000000},
		GraphQL: github.RateLimit{Limit: 5000, Remaining: 4999, Reset: 1700000000},
		Search:  github.RateLimit{Limit: 30, Remaining: 29, Reset: 1700000000},
	}

	require.NoError(t, run(ta.app, []string{"rate-limit"}))

	got := ta.out.String()
	assert.Contains(t, got, "core")
	assert.Contains(t, got, "4321")
	assert.Contains(t, got, "graphql")
	assert.Contains(t, got, "search")

	ta.client.RateLimitError = errors.New("down")
	ta.out.Reset()
	ta.app.v = viper.New()
	err := run(ta.app, []string{"rate-limit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get rate limit")
}
