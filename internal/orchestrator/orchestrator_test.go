package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rlamana/create-agent/internal/apierr"
	"github.com/rlamana/create-agent/internal/config"
	"github.com/rlamana/create-agent/internal/github"
	"github.com/rlamana/create-agent/internal/okteto"
)

type stubAgents struct {
	calls    int
	endpoint string
	req      okteto.AgentRequest
	deadline bool
	resp     *okteto.AgentResponse
	err      error
}

func (s *stubAgents) CreateAgent(ctx context.Context, endpoint string, req okteto.AgentRequest) (*okteto.AgentResponse, error) {
	s.calls++
	s.endpoint = endpoint
	s.req = req
	_, s.deadline = ctx.Deadline()
	return s.resp, s.err
}

type stubNotifier struct {
	calls int
	ref   github.IssueRef
	req   github.CommentRequest
	err   error
}

func (s *stubNotifier) PostIssueComment(_ context.Context, ref github.IssueRef, req github.CommentRequest) error {
	s.calls++
	s.ref = ref
	s.req = req
	return s.err
}

type event struct {
	name         string
	stage        apierr.Stage
	err          error
	agentCreated bool
}

type recordingReporter struct {
	events []event
}

func (r *recordingReporter) Creating(string, okteto.AgentRequest) {
	r.events = append(r.events, event{name: "creating"})
}

func (r *recordingReporter) AgentCreated(*okteto.AgentResponse) {
	r.events = append(r.events, event{name: "created"})
}

func (r *recordingReporter) Notifying(string) {
	r.events = append(r.events, event{name: "notifying"})
}

func (r *recordingReporter) Notified(string) {
	r.events = append(r.events, event{name: "notified"})
}

func (r *recordingReporter) Failed(stage apierr.Stage, err error, agentCreated bool) {
	r.events = append(r.events, event{name: "failed", stage: stage, err: err, agentCreated: agentCreated})
}

func (r *recordingReporter) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.name)
	}
	return out
}

func baseConfig() config.Config {
	return config.Config{
		OktetoContext: "https://ctx.example",
		OktetoToken:   "okteto-token",
		Timeout:       5 * time.Second,
	}
}

func withIssue(cfg config.Config) config.Config {
	cfg.GitHubToken = "gh-token"
	cfg.IssueRepository = "okteto/movies"
	cfg.IssueNumber = 42
	return cfg
}

var task = Task{Prompt: "Fix the login bug", Repository: "https://github.com/okteto/movies"}

func newTestOrchestrator(cfg config.Config, agents AgentCreator, notifier CommentPoster, rep Reporter) *Orchestrator {
	o := New(cfg, agents, notifier, rep, nil)
	o.newID = func() string { return "inv-1" }
	return o
}

func TestRun_SucceedsWithoutIssueContext(t *testing.T) {
	agents := &stubAgents{resp: &okteto.AgentResponse{ID: "agent-1", Status: "running"}}
	notifier := &stubNotifier{}
	rep := &recordingReporter{}

	out := newTestOrchestrator(baseConfig(), agents, notifier, rep).Run(context.Background(), task)

	require.Equal(t, StateSucceeded, out.State)
	require.Equal(t, 0, out.ExitCode())
	require.NoError(t, out.Err)
	require.Equal(t, "inv-1", out.InvocationID)
	require.True(t, out.AgentCreated())

	require.Equal(t, 1, agents.calls)
	require.Equal(t, "https://ctx.example/api/v0/agents", agents.endpoint)
	require.Equal(t, okteto.AgentRequest{Prompt: task.Prompt, Repository: task.Repository}, agents.req)
	require.True(t, agents.deadline, "creation call should carry the configured timeout")
	require.Zero(t, notifier.calls)
	require.Equal(t, []string{"creating", "created"}, rep.names())
}

func TestRun_NoTimeoutWhenDisabled(t *testing.T) {
	cfg := baseConfig()
	cfg.Timeout = 0
	agents := &stubAgents{resp: &okteto.AgentResponse{ID: "agent-1"}}

	out := newTestOrchestrator(cfg, agents, nil, &recordingReporter{}).Run(context.Background(), task)
	require.Equal(t, StateSucceeded, out.State)
	require.False(t, agents.deadline)
}

func TestRun_NotifiesIssue(t *testing.T) {
	agents := &stubAgents{resp: &okteto.AgentResponse{ID: "agent-1", Status: "running"}}
	notifier := &stubNotifier{}
	rep := &recordingReporter{}

	out := newTestOrchestrator(withIssue(baseConfig()), agents, notifier, rep).Run(context.Background(), task)

	require.Equal(t, StateSucceeded, out.State)
	require.Equal(t, 0, out.ExitCode())
	require.Equal(t, 1, notifier.calls)
	require.Equal(t, github.IssueRef{Owner: "okteto", Repo: "movies", Number: 42}, notifier.ref)
	require.Contains(t, notifier.req.Body, "https://ctx.example/agents/agent-1")
	require.Contains(t, agents.req.Prompt, "issue #42 in okteto/movies")
	require.Equal(t, []string{"creating", "created", "notifying", "notified"}, rep.names())
}

func TestRun_CreationFailureSkipsNotification(t *testing.T) {
	apiErr := &apierr.APIError{Stage: apierr.StageCreation, StatusCode: 422, Message: "bad repo"}
	agents := &stubAgents{err: apiErr}
	notifier := &stubNotifier{}
	rep := &recordingReporter{}

	out := newTestOrchestrator(withIssue(baseConfig()), agents, notifier, rep).Run(context.Background(), task)

	require.Equal(t, StateFailed, out.State)
	require.Equal(t, apierr.StageCreation, out.Stage)
	require.Equal(t, 1, out.ExitCode())
	require.False(t, out.AgentCreated())
	require.ErrorIs(t, out.Err, apiErr)
	require.Zero(t, notifier.calls)

	last := rep.events[len(rep.events)-1]
	require.Equal(t, "failed", last.name)
	require.Equal(t, apierr.StageCreation, last.stage)
	require.False(t, last.agentCreated)
}

func TestRun_NotificationFailureKeepsAgent(t *testing.T) {
	agents := &stubAgents{resp: &okteto.AgentResponse{ID: "agent-1", Status: "running"}}
	notifier := &stubNotifier{err: &apierr.APIError{Stage: apierr.StageNotification, StatusCode: 403}}
	rep := &recordingReporter{}

	out := newTestOrchestrator(withIssue(baseConfig()), agents, notifier, rep).Run(context.Background(), task)

	require.Equal(t, StateFailed, out.State)
	require.Equal(t, apierr.StageNotification, out.Stage)
	require.Equal(t, 1, out.ExitCode())
	require.True(t, out.AgentCreated())
	require.Equal(t, "agent-1", out.Agent.ID)
	require.Equal(t, 1, agents.calls, "creation must not be retried or rolled back")
	require.Equal(t, []string{"creating", "created", "notifying", "failed"}, rep.names())
	require.True(t, rep.events[3].agentCreated)
}

func TestRun_MissingAgentID(t *testing.T) {
	t.Run("without issue context", func(t *testing.T) {
		agents := &stubAgents{resp: &okteto.AgentResponse{Status: "queued"}}
		out := newTestOrchestrator(baseConfig(), agents, nil, &recordingReporter{}).Run(context.Background(), task)
		require.Equal(t, StateSucceeded, out.State)
	})

	t.Run("with issue context", func(t *testing.T) {
		agents := &stubAgents{resp: &okteto.AgentResponse{Status: "queued"}}
		notifier := &stubNotifier{}
		out := newTestOrchestrator(withIssue(baseConfig()), agents, notifier, &recordingReporter{}).Run(context.Background(), task)
		require.Equal(t, StateFailed, out.State)
		require.Equal(t, apierr.StageNotification, out.Stage)
		require.ErrorIs(t, out.Err, apierr.ErrMissingAgentID)
		require.True(t, out.AgentCreated())
		require.Zero(t, notifier.calls)
	})
}

func TestRun_ValidationHappensBeforeNetwork(t *testing.T) {
	tests := []struct {
		name     string
		cfg      func() config.Config
		task     Task
		notifier CommentPoster
		wantIs   error
	}{
		{
			name:   "empty context",
			cfg:    func() config.Config { c := baseConfig(); c.OktetoContext = ""; return c },
			task:   task,
			wantIs: apierr.ErrInvalidEndpoint,
		},
		{
			name:   "unparsable context",
			cfg:    func() config.Config { c := baseConfig(); c.OktetoContext = "://nope"; return c },
			task:   task,
			wantIs: apierr.ErrInvalidEndpoint,
		},
		{
			name: "missing token",
			cfg:  func() config.Config { c := baseConfig(); c.OktetoToken = ""; return c },
			task: task,
		},
		{
			name: "empty prompt",
			cfg:  baseConfig,
			task: Task{Prompt: " ", Repository: task.Repository},
		},
		{
			name: "invalid repository",
			cfg:  baseConfig,
			task: Task{Prompt: "p", Repository: "movies"},
		},
		{
			name: "partial issue context",
			cfg:  func() config.Config { c := baseConfig(); c.IssueNumber = 7; return c },
			task: task,
		},
		{
			name: "malformed issue repository",
			cfg:  func() config.Config { c := withIssue(baseConfig()); c.IssueRepository = "movies"; return c },
			task: task,
		},
		{
			name:     "issue context without notifier",
			cfg:      func() config.Config { return withIssue(baseConfig()) },
			task:     task,
			notifier: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agents := &stubAgents{resp: &okteto.AgentResponse{ID: "x"}}
			rep := &recordingReporter{}

			out := newTestOrchestrator(tt.cfg(), agents, tt.notifier, rep).Run(context.Background(), tt.task)

			require.Equal(t, StateFailed, out.State)
			require.Equal(t, apierr.StageValidation, out.Stage)
			require.Equal(t, 1, out.ExitCode())
			require.True(t, apierr.IsValidation(out.Err), "err = %v", out.Err)
			if tt.wantIs != nil {
				require.True(t, errors.Is(out.Err, tt.wantIs), "err = %v", out.Err)
			}
			require.Zero(t, agents.calls)
			require.Equal(t, []string{"failed"}, rep.names())
		})
	}
}

func TestRun_NilReporter(t *testing.T) {
	agents := &stubAgents{resp: &okteto.AgentResponse{ID: "agent-1"}}
	notifier := &stubNotifier{}

	out := New(withIssue(baseConfig()), agents, notifier, nil, nil).Run(context.Background(), task)

	require.Equal(t, StateSucceeded, out.State)
	require.Equal(t, 1, notifier.calls)

	agents.err = errors.New("boom")
	out = New(baseConfig(), agents, nil, nil, nil).Run(context.Background(), task)
	require.Equal(t, StateFailed, out.State)
}
