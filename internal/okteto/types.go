package okteto

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/rlamana/create-agent/internal/apierr"
)

// AgentRequest is the body of an agent creation call.
type AgentRequest struct {
	Prompt     string `json:"prompt"`
	Repository string `json:"repository"`
}

// NewAgentRequest validates the prompt and repository reference.
func NewAgentRequest(prompt, repository string) (AgentRequest, error) {
	if strings.TrimSpace(prompt) == "" {
		return AgentRequest{}, apierr.Invalid("prompt", "is required")
	}
	if strings.TrimSpace(repository) == "" {
		return AgentRequest{}, apierr.Invalid("repository", "is required")
	}
	u, err := url.Parse(repository)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return AgentRequest{}, apierr.Invalid("repository", "must be a repository URL, got %q", repository)
	}
	return AgentRequest{Prompt: prompt, Repository: repository}, nil
}

// AgentResponse is the platform's view of a created agent.
type AgentResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ChatURL   string `json:"chat_url,omitempty"`
	VSCodeURL string `json:"vscode_url,omitempty"`

	// Raw is the response body as returned by the platform.
	Raw json.RawMessage `json:"-"`
}
