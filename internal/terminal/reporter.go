package terminal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rlamana/create-agent/internal/apierr"
	"github.com/rlamana/create-agent/internal/okteto"
	"github.com/rlamana/create-agent/internal/prompt"
)

const promptPreviewLength = 100

// Reporter prints progress to out and failures to errOut.
type Reporter struct {
	out      io.Writer
	errOut   io.Writer
	colorOut bool
	colorErr bool
}

// NewReporter enables colors on each writer that is a terminal.
func NewReporter(out, errOut io.Writer) *Reporter {
	return newReporter(out, errOut, IsTTY(out), IsTTY(errOut))
}

func newReporter(out, errOut io.Writer, colorOut, colorErr bool) *Reporter {
	return &Reporter{out: out, errOut: errOut, colorOut: colorOut, colorErr: colorErr}
}

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + Reset
}

// Creating announces the creation call.
func (r *Reporter) Creating(endpoint string, req okteto.AgentRequest) {
	fmt.Fprintf(r.out, "Creating Okteto agent... %s\n", endpoint)
	fmt.Fprintf(r.out, "Repository: %s\n", req.Repository)
	fmt.Fprintf(r.out, "Prompt: %s\n", prompt.Preview(req.Prompt, promptPreviewLength))
}

// AgentCreated prints the agent details and the full response.
func (r *Reporter) AgentCreated(agent *okteto.AgentResponse) {
	fmt.Fprintf(r.out, "\n%s\n\n", paint(r.colorOut, Green, "✅ Agent created successfully!"))
	fmt.Fprintln(r.out, paint(r.colorOut, Bold, "Agent Details:"))
	fmt.Fprintf(r.out, "- ID: %s\n", orNA(agent.ID))
	fmt.Fprintf(r.out, "- Status: %s\n", orNA(agent.Status))
	if agent.ChatURL != "" {
		fmt.Fprintf(r.out, "- Chat URL: %s\n", agent.ChatURL)
	}
	if agent.VSCodeURL != "" {
		fmt.Fprintf(r.out, "- VS Code URL: %s\n", agent.VSCodeURL)
	}

	if len(agent.Raw) > 0 {
		fmt.Fprintln(r.out, "\nFull response:")
		fmt.Fprintln(r.out, indentJSON(agent.Raw))
	}
}

// Notifying announces the issue comment.
func (r *Reporter) Notifying(issue string) {
	fmt.Fprintf(r.out, "\nPosting agent link to %s...\n", issue)
}

// Notified confirms the issue comment.
func (r *Reporter) Notified(issue string) {
	fmt.Fprintf(r.out, "%s\n", paint(r.colorOut, Green, "✅ Commented on "+issue))
}

// Failed prints the diagnostics for a failed stage. agentCreated tells
// operators whether the agent exists despite the failure.
func (r *Reporter) Failed(stage apierr.Stage, err error, agentCreated bool) {
	var headline string
	switch stage {
	case apierr.StageCreation:
		headline = "❌ Failed to create agent."
	case apierr.StageNotification:
		headline = "❌ Agent was created, but the issue comment failed."
	default:
		headline = "❌ Invalid input."
	}

	fmt.Fprintf(r.errOut, "\n%s\n", paint(r.colorErr, Red, headline))
	for _, line := range apierr.Describe(err) {
		fmt.Fprintln(r.errOut, line)
	}
	if agentCreated {
		fmt.Fprintln(r.errOut, paint(r.colorErr, Dim, "The agent exists; only the issue cross-reference is missing."))
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
