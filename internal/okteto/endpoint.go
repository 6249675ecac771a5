package okteto

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rlamana/create-agent/internal/apierr"
)

// AgentsPath is the agent creation path relative to an Okteto context.
const AgentsPath = "api/v0/agents"

// AgentsEndpoint resolves the agent creation endpoint for an Okteto
// context URL. A trailing slash on base is optional.
func AgentsEndpoint(base string) (string, error) {
	root, err := parseContext(base)
	if err != nil {
		return "", err
	}
	return root.ResolveReference(&url.URL{Path: AgentsPath}).String(), nil
}

// AgentLink is the deep link to an agent in the Okteto UI.
func AgentLink(base, agentID string) string {
	return strings.TrimSuffix(base, "/") + "/agents/" + url.PathEscape(agentID)
}

func parseContext(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: context URL is empty", apierr.ErrInvalidEndpoint)
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q must use http or https", apierr.ErrInvalidEndpoint, base)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", apierr.ErrInvalidEndpoint, base)
	}
	return u, nil
}
