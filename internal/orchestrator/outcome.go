package orchestrator

import (
	"github.com/rlamana/create-agent/internal/apierr"
	"github.com/rlamana/create-agent/internal/okteto"
)

// State is the terminal state of an invocation.
type State string

const (
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Outcome is the result of Run. Agent is set whenever creation succeeded,
// including when the issue comment failed afterwards.
type Outcome struct {
	State        State
	Stage        apierr.Stage // failing stage; empty on success
	Agent        *okteto.AgentResponse
	Err          error
	InvocationID string
}

// ExitCode maps the outcome to a process exit status.
func (o Outcome) ExitCode() int {
	if o.State == StateSucceeded {
		return 0
	}
	return 1
}

// AgentCreated reports whether the agent exists.
func (o Outcome) AgentCreated() bool {
	return o.Agent != nil
}
