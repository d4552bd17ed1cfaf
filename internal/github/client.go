// Package github is a minimal REST client for the commit-activity endpoints
// this service consumes. It deliberately exposes only what the collector
// needs: repository listings, commit listings, and per-commit stats.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
	maxPages       = 10
)

type Config struct {
	Token    string
	Username string
	BaseURL  string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.Named("github.client"),
	}
}

// Repository is the subset of the repository resource the collector stores.
type Repository struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Private     bool    `json:"private"`
	Archived    bool    `json:"archived"`
	Stars       int64   `json:"stargazers_count"`
	Forks       int64   `json:"forks_count"`
	PushedAt    *string `json:"pushed_at"`
}

// Commit is one entry from the commit list endpoint. Stats are only
// populated by GetCommitStats; the list endpoint does not include them.
type Commit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Stats CommitStats `json:"stats"`
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

type CommitStats struct {
	Additions int64 `json:"additions"`
	Deletions int64 `json:"deletions"`
	Total     int64 `json:"total"`
}

// ListRepositories returns the authenticated user's repositories, newest
// push first. Archived repositories are filtered out.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	var repos []Repository
	for page := 1; page <= maxPages; page++ {
		query := url.Values{
			"per_page":  {strconv.Itoa(perPage)},
			"page":      {strconv.Itoa(page)},
			"sort":      {"pushed"},
			"direction": {"desc"},
		}
		var batch []Repository
		if err := c.get(ctx, "/user/repos?"+query.Encode(), &batch); err != nil {
			return nil, fmt.Errorf("list repositories: %w", err)
		}
		for _, repo := range batch {
			if repo.Archived {
				continue
			}
			repos = append(repos, repo)
		}
		if len(batch) < perPage {
			break
		}
	}
	return repos, nil
}

// ListCommits returns commits on the repository's default branch authored
// in [since, until).
func (c *Client) ListCommits(ctx context.Context, fullName string, since, until time.Time) ([]Commit, error) {
	var commits []Commit
	for page := 1; page <= maxPages; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
			"author":   {c.cfg.Username},
			"since":    {since.UTC().Format(time.RFC3339)},
			"until":    {until.UTC().Format(time.RFC3339)},
		}
		var batch []Commit
		path := fmt.Sprintf("/repos/%s/commits?%s", fullName, query.Encode())
		if err := c.get(ctx, path, &batch); err != nil {
			return nil, fmt.Errorf("list commits %s: %w", fullName, err)
		}
		commits = append(commits, batch...)
		if len(batch) < perPage {
			break
		}
	}
	return commits, nil
}

// GetCommitStats fetches the full commit resource, which carries the
// additions/deletions totals the list endpoint omits.
func (c *Client) GetCommitStats(ctx context.Context, fullName, sha string) (Commit, error) {
	var commit Commit
	path := fmt.Sprintf("/repos/%s/commits/%s", fullName, sha)
	if err := c.get(ctx, path, &commit); err != nil {
		return Commit{}, fmt.Errorf("commit stats %s@%s: %w", fullName, sha, err)
	}
	return commit, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("github api error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("github api: status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return json.Unmarshal(body, out)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
