package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{Token: "gh-token", Username: "octocat", BaseURL: srv.URL}, zap.NewNop())
}

func TestListRepositories_FiltersArchived(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "gadget", "full_name": "octocat/gadget", "language": "Go", "stargazers_count": 5},
			{"id": 2, "name": "attic", "full_name": "octocat/attic", "archived": true},
			{"id": 3, "name": "oxide", "full_name": "octocat/oxide", "language": "Rust", "private": true}
		]`))
	})

	repos, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "octocat/gadget", repos[0].FullName)
	assert.Equal(t, "octocat/oxide", repos[1].FullName)
	assert.True(t, repos[1].Private)
}

func TestListCommits(t *testing.T) {
	since := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/gadget/commits", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "octocat", query.Get("author"))
		assert.Equal(t, "2025-03-03T00:00:00Z", query.Get("since"))
		assert.Equal(t, "2025-03-10T00:00:00Z", query.Get("until"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"sha": "abc123", "html_url": "https://example.com/abc123",
			 "commit": {"message": "fix parser", "author": {"name": "Octo Cat", "email": "octo@example.com", "date": "2025-03-05T10:00:00Z"}}}
		]`))
	})

	commits, err := client.ListCommits(context.Background(), "octocat/gadget", since, until)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "abc123", commits[0].SHA)
	assert.Equal(t, "fix parser", commits[0].Commit.Message)
	assert.Equal(t, "octo@example.com", commits[0].Commit.Author.Email)
}

func TestGetCommitStats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/gadget/commits/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sha": "abc123",
			"stats": {"additions": 50, "deletions": 10, "total": 60},
			"files": [{"filename": "parser.go"}, {"filename": "parser_test.go"}]
		}`))
	})

	commit, err := client.GetCommitStats(context.Background(), "octocat/gadget", "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(50), commit.Stats.Additions)
	assert.Equal(t, int64(10), commit.Stats.Deletions)
	assert.Len(t, commit.Files, 2)
}

func TestGet_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "rate limited"}`))
	})

	_, err := client.ListRepositories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
