package github

import (
	"fmt"
	"strings"

	"github.com/rlamana/create-agent/internal/okteto"
)

// CommentRequest is the body of an issue comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// FormatAgentComment links an issue to the agent working on it. The agent
// link is built from contextBase and the agent id. Values from the agent
// response are sanitized before they reach the comment.
func FormatAgentComment(contextBase string, agent *okteto.AgentResponse) CommentRequest {
	var b strings.Builder
	link := okteto.AgentLink(contextBase, agent.ID)

	b.WriteString("🤖 An Okteto agent is working on this issue.\n\n")
	fmt.Fprintf(&b, "- **Agent:** [%s](%s)\n", linkLabel(agent.ID), link)
	if status := sanitizeInline(agent.Status); status != "" {
		fmt.Fprintf(&b, "- **Status:** %s\n", status)
	}
	if chat := linkTarget(agent.ChatURL); chat != "" {
		fmt.Fprintf(&b, "- **Chat:** [Open chat](%s)\n", chat)
	}
	if vscode := linkTarget(agent.VSCodeURL); vscode != "" {
		fmt.Fprintf(&b, "- **VS Code:** [Open in VS Code](%s)\n", vscode)
	}
	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "Follow progress at %s", link)

	return CommentRequest{Body: b.String()}
}
