// Package github is a small client for the parts of the GitHub REST API the
// agenda needs: the authenticated user's profile and repositories, a
// repository's commits, and one commit's diff stats.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// PerPage is the page size of every list call. Only the first page is
	// read: a sync covers at most PerPage commits.
	PerPage = 100

	userAgent = "DevAgenda-App"
)

// User is the portion of GET /user we keep.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

// Repository is the portion of GET /user/repos we keep.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Owner       string    `json:"owner"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	URL         string    `json:"url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Commit is a commit as listed by GET /repos/{owner}/{repo}/commits, before
// diff stats are fetched.
type Commit struct {
	SHA         string
	Message     string
	AuthorName  string
	AuthorEmail string
	Date        time.Time
	URL         string
}

// CommitStats are the diff counters of one commit.
type CommitStats struct {
	Additions    int
	Deletions    int
	FilesChanged int
}

// Client is an authenticated GitHub API client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (GitHub Enterprise, tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient returns a client that sends token as a bearer credential.
//
// oauth2.NewClient wraps the default transport so that every request gets
// an "Authorization: Bearer <token>" header; a static source never refreshes.
func NewClient(ctx context.Context, token string, opts ...Option) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	c := &Client{
		httpClient: oauth2.NewClient(ctx, ts),
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUser returns the profile of the token's owner.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/user", nil, &u); err != nil {
		return nil, fmt.Errorf("github: fetching user: %w", err)
	}
	if u.Login == "" {
		return nil, fmt.Errorf("github: fetching user: empty login in response")
	}
	return &u, nil
}

// ListRepositories returns the token owner's repositories, most recently
// updated first.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	q := url.Values{}
	q.Set("per_page", fmt.Sprint(PerPage))
	q.Set("sort", "updated")
	q.Set("direction", "desc")

	var raw []struct {
		ID          int64     `json:"id"`
		Name        string    `json:"name"`
		FullName    string    `json:"full_name"`
		Description string    `json:"description"`
		Private     bool      `json:"private"`
		HTMLURL     string    `json:"html_url"`
		UpdatedAt   time.Time `json:"updated_at"`
		Owner       struct {
			Login string `json:"login"`
		} `json:"owner"`
	}
	if err := c.get(ctx, "/user/repos", q, &raw); err != nil {
		return nil, fmt.Errorf("github: listing repositories: %w", err)
	}

	repos := make([]Repository, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, Repository{
			ID:          r.ID,
			Name:        r.Name,
			FullName:    r.FullName,
			Owner:       r.Owner.Login,
			Description: r.Description,
			Private:     r.Private,
			URL:         r.HTMLURL,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return repos, nil
}

// ListCommits returns the first page of commits of owner/repo authored in
// [since, until]. A zero bound is omitted from the query.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]Commit, error) {
	q := url.Values{}
	q.Set("per_page", fmt.Sprint(PerPage))
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	if !until.IsZero() {
		q.Set("until", until.UTC().Format(time.RFC3339))
	}

	var raw []struct {
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
	}
	path := fmt.Sprintf("/repos/%s/%s/commits", url.PathEscape(owner), url.PathEscape(repo))
	if err := c.get(ctx, path, q, &raw); err != nil {
		return nil, fmt.Errorf("github: listing commits of %s/%s: %w", owner, repo, err)
	}

	commits := make([]Commit, 0, len(raw))
	for _, r := range raw {
		commits = append(commits, Commit{
			SHA:         r.SHA,
			Message:     r.Commit.Message,
			AuthorName:  r.Commit.Author.Name,
			AuthorEmail: r.Commit.Author.Email,
			Date:        r.Commit.Author.Date,
			URL:         r.HTMLURL,
		})
	}
	return commits, nil
}

// GetCommitStats returns additions, deletions and the number of files
// touched by one commit.
func (c *Client) GetCommitStats(ctx context.Context, owner, repo, sha string) (CommitStats, error) {
	var raw struct {
		Stats *struct {
			Additions int `json:"additions"`
			Deletions int `json:"deletions"`
		} `json:"stats"`
		Files []json.RawMessage `json:"files"`
	}
	path := fmt.Sprintf("/repos/%s/%s/commits/%s", url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(sha))
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return CommitStats{}, fmt.Errorf("github: fetching stats of %s: %w", sha, err)
	}

	stats := CommitStats{FilesChanged: len(raw.Files)}
	if raw.Stats != nil {
		stats.Additions = raw.Stats.Additions
		stats.Deletions = raw.Stats.Deletions
	}
	return stats, nil
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// get performs a GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
