// Package github creates remote release resources through the GitHub API.
// It wraps the go-github client with the small surface the release
// workflow needs.
package github

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	gh "github.com/google/go-github/v80/github"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// ReleaseParams describes the release resource to create.
// See https://docs.github.com/en/rest/releases/releases#create-a-release.
type ReleaseParams struct {
	TagName         string
	Name            string
	Body            string
	TargetCommitish string
	Draft           bool
	Prerelease      bool
}

// BuildReleaseParams assembles the release payload for a version. The tag
// name gets the prefix applied unless the version already carries it.
func BuildReleaseParams(version, changelog, name, targetCommitish, tagPrefix string, draft, prerelease bool) ReleaseParams {
	tagName := version
	if tagPrefix == "" || len(version) < len(tagPrefix) || version[:len(tagPrefix)] != tagPrefix {
		tagName = tagPrefix + version
	}
	return ReleaseParams{
		TagName:         tagName,
		Name:            name,
		Body:            changelog,
		TargetCommitish: targetCommitish,
		Draft:           draft,
		Prerelease:      prerelease,
	}
}

// Client wraps the go-github client.
type Client struct {
	gh *gh.Client
}

// NewClient creates a GitHub API client authenticated with token.
func NewClient(token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultTimeout
	return &Client{gh: gh.NewClient(tc)}
}

// NewClientWithHTTP creates a client over a caller-supplied http.Client.
// Useful for tests.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{gh: gh.NewClient(httpClient)}
}

// WithBaseURL points the client at a different API endpoint, e.g. an
// httptest server. The URL must end with a trailing slash.
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	client, err := c.gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("setting base URL %s: %w", baseURL, err)
	}
	c.gh = client
	return c, nil
}

// CreateRelease creates a release in owner/repo and returns the HTTP
// status code alongside any error, so callers can report the remote
// outcome precisely.
func (c *Client) CreateRelease(ctx context.Context, owner, repo string, params ReleaseParams) (int, error) {
	release := &gh.RepositoryRelease{
		TagName:    gh.Ptr(params.TagName),
		Body:       gh.Ptr(params.Body),
		Draft:      gh.Ptr(params.Draft),
		Prerelease: gh.Ptr(params.Prerelease),
	}
	if params.Name != "" {
		release.Name = gh.Ptr(params.Name)
	}
	if params.TargetCommitish != "" {
		release.TargetCommitish = gh.Ptr(params.TargetCommitish)
	}

	_, resp, err := c.gh.Repositories.CreateRelease(ctx, owner, repo, release)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err != nil {
		return status, fmt.Errorf("creating release %s: %w", params.TagName, err)
	}
	return status, nil
}

// Token resolves the GitHub API token from the environment. A .env file in
// the working directory is loaded first, so local credentials never need
// exporting. PONTOS_GITHUB_TOKEN wins over GITHUB_TOKEN.
func Token() (string, error) {
	_ = godotenv.Load()

	if token := os.Getenv("PONTOS_GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("no GitHub token found; set PONTOS_GITHUB_TOKEN or GITHUB_TOKEN")
}
