// Package okteto is a minimal client for the Okteto agent platform API.
package okteto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rlamana/create-agent/internal/apierr"
)

// DefaultUserAgent identifies this client when none is configured.
const DefaultUserAgent = "okteto-create-agent"

type requestIDKey struct{}

// WithRequestID attaches a correlation id that is sent as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client creates agents with a bearer token.
type Client struct {
	httpClient *http.Client
	token      string
	userAgent  string
}

// NewClient returns a client that authenticates with token. A nil
// httpClient falls back to http.DefaultClient.
func NewClient(httpClient *http.Client, token, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: httpClient,
		token:      token,
		userAgent:  userAgent,
	}
}

// CreateAgent issues a single POST to endpoint. 200 and 201 are success;
// nothing is retried.
func (c *Client) CreateAgent(ctx context.Context, endpoint string, req AgentRequest) (*AgentResponse, error) {
	payload, err := encodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("encode agent request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrInvalidEndpoint, err)
	}
	httpReq.ContentLength = int64(len(payload))
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if id := requestIDFrom(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &apierr.TransportError{Stage: apierr.StageCreation, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierr.TransportError{Stage: apierr.StageCreation, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &apierr.APIError{
			Stage:      apierr.StageCreation,
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Message:    errorMessage(body),
		}
	}

	var agent AgentResponse
	if err := json.Unmarshal(body, &agent); err != nil {
		return nil, &apierr.MalformedResponseError{Stage: apierr.StageCreation, Body: string(body), Err: err}
	}
	agent.Raw = json.RawMessage(body)
	return &agent, nil
}

// encodeRequest marshals without HTML escaping so prompts containing <, >
// or & reach the platform as written.
func encodeRequest(req AgentRequest) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// errorMessage extracts the error field, or else the message field, from a
// JSON error body.
func errorMessage(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message"} {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if msg := rawText(raw); msg != "" {
			return msg
		}
	}
	return ""
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("false")) {
		return ""
	}
	return string(trimmed)
}
