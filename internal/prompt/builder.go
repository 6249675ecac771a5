package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/rlamana/create-agent/internal/apierr"
)

// IssueContext identifies the issue an agent works on.
type IssueContext struct {
	Repository string // owner/repo
	Number     int
}

var issueInstructions = template.Must(template.New("issue-instructions").Parse(IssueInstructionsTemplate))

// Build returns the prompt sent to the agent platform. Without issue
// context the raw prompt is returned unchanged; with it, the fixed issue
// instruction block is appended.
func Build(raw string, issue *IssueContext) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apierr.Invalid("prompt", "is required")
	}
	if issue == nil {
		return raw, nil
	}

	var buf bytes.Buffer
	buf.WriteString(raw)
	if err := issueInstructions.Execute(&buf, issue); err != nil {
		return "", fmt.Errorf("render issue instructions: %w", err)
	}
	return buf.String(), nil
}

// Preview shortens a prompt for console output.
func Preview(p string, limit int) string {
	runes := []rune(p)
	if len(runes) <= limit {
		return p
	}
	return string(runes[:limit]) + "..."
}
