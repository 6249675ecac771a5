package config

import (
	"net/http"

	"github.com/rlamana/create-agent/internal/github"
)

// TrackerAPI addresses the GitHub API with the configured client id.
func (c *Config) TrackerAPI(httpClient *http.Client) github.APIConfig {
	return github.APIConfig{
		HTTPClient: httpClient,
		BaseURL:    c.GitHubAPIURL,
		UserAgent:  c.UserAgent,
	}
}

// NewTokenSource returns the issue tracker credential. A token takes
// precedence over GitHub App credentials; nil means none is configured.
func (c *Config) NewTokenSource(httpClient *http.Client) github.TokenSource {
	switch {
	case c.GitHubToken != "":
		return github.StaticToken(c.GitHubToken)
	case c.GitHubAppID != "" && c.GitHubPrivateKey != "":
		return &github.AppAuth{
			AppID:      c.GitHubAppID,
			PrivateKey: c.GitHubPrivateKey,
			API:        c.TrackerAPI(httpClient),
		}
	default:
		return nil
	}
}

// IssueRef returns the issue to notify, or nil when no issue context is
// configured.
func (c *Config) IssueRef() (*github.IssueRef, error) {
	if !c.HasIssueContext() {
		return nil, nil
	}
	ref, err := github.ParseIssueRef(c.IssueRepository, c.IssueNumber)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
