package github

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/rlamana/create-agent/internal/apierr"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com/"

// APIConfig addresses a GitHub REST API.
type APIConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	// UserAgent identifies the client; GitHub rejects requests without one.
	UserAgent string
}

// ParseAPIURL resolves a GitHub REST base URL. Empty selects
// DefaultAPIURL; the result always ends with a slash.
func ParseAPIURL(raw string) (*url.URL, error) {
	base := strings.TrimSpace(raw)
	if base == "" {
		base = DefaultAPIURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apierr.Invalid("GITHUB_API_URL", "must be an absolute URL, got %q", raw)
	}
	return u, nil
}

// client returns a go-github client authenticated with a bearer token.
func (c APIConfig) client(token string) (*gh.Client, error) {
	u, err := ParseAPIURL(c.BaseURL)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(c.HTTPClient).WithAuthToken(token)
	client.BaseURL = u
	if c.UserAgent != "" {
		client.UserAgent = c.UserAgent
	}
	return client, nil
}

// classify maps go-github failures onto the shared taxonomy.
func classify(stage apierr.Stage, err error) error {
	if err == nil {
		return nil
	}

	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) {
		doc := errorDoc{
			Message:          errResp.Message,
			Errors:           errResp.Errors,
			DocumentationURL: errResp.DocumentationURL,
		}
		return &apierr.APIError{
			Stage:      stage,
			StatusCode: statusOf(errResp.Response),
			Body:       encodeErrorDoc(doc),
			Message:    errResp.Message,
		}
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &apierr.APIError{
			Stage:      stage,
			StatusCode: statusOf(rateErr.Response),
			Body:       encodeErrorDoc(errorDoc{Message: rateErr.Message}),
			Message:    rateErr.Message,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &apierr.APIError{
			Stage:      stage,
			StatusCode: statusOf(abuseErr.Response),
			Body:       encodeErrorDoc(errorDoc{Message: abuseErr.Message}),
			Message:    abuseErr.Message,
		}
	}

	if apierr.IsValidation(err) {
		return err
	}
	return &apierr.TransportError{Stage: stage, Err: err}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// errorDoc mirrors GitHub's error document. go-github consumes the raw
// body while decoding it, so diagnostics are rebuilt from the parsed fields.
type errorDoc struct {
	Message          string     `json:"message"`
	Errors           []gh.Error `json:"errors,omitempty"`
	DocumentationURL string     `json:"documentation_url,omitempty"`
}

func encodeErrorDoc(doc errorDoc) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return doc.Message
	}
	return string(data)
}
