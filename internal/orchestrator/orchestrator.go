// Package orchestrator sequences agent creation and the issue comment
// that references the agent.
package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlamana/create-agent/internal/apierr"
	"github.com/rlamana/create-agent/internal/config"
	"github.com/rlamana/create-agent/internal/github"
	"github.com/rlamana/create-agent/internal/okteto"
	"github.com/rlamana/create-agent/internal/prompt"
)

// AgentCreator creates agents on the platform.
type AgentCreator interface {
	CreateAgent(ctx context.Context, endpoint string, req okteto.AgentRequest) (*okteto.AgentResponse, error)
}

// CommentPoster posts issue comments.
type CommentPoster interface {
	PostIssueComment(ctx context.Context, ref github.IssueRef, req github.CommentRequest) error
}

// Reporter receives user-facing progress.
type Reporter interface {
	Creating(endpoint string, req okteto.AgentRequest)
	AgentCreated(agent *okteto.AgentResponse)
	Notifying(issue string)
	Notified(issue string)
	Failed(stage apierr.Stage, err error, agentCreated bool)
}

type nopReporter struct{}

func (nopReporter) Creating(string, okteto.AgentRequest) {}
func (nopReporter) AgentCreated(*okteto.AgentResponse) {}
func (nopReporter) Notifying(string) {}
func (nopReporter) Notified(string) {}
func (nopReporter) Failed(apierr.Stage, error, bool) {}

// Task is what the caller asks the agent to do.
type Task struct {
	Prompt     string
	Repository string
}

// Orchestrator runs one invocation. It holds no state between runs.
type Orchestrator struct {
	cfg      config.Config
	agents   AgentCreator
	notifier CommentPoster
	reporter Reporter
	logger   *zap.Logger
	newID    func() string
}

// New creates an orchestrator. notifier may be nil when no issue context
// is configured.
func New(cfg config.Config, agents AgentCreator, notifier CommentPoster, reporter Reporter, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Orchestrator{
		cfg:      cfg,
		agents:   agents,
		notifier: notifier,
		reporter: reporter,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Run validates the inputs, creates the agent and, when issue context is
// configured, comments on the issue. Nothing is retried.
func (o *Orchestrator) Run(ctx context.Context, task Task) Outcome {
	invocationID := o.newID()
	logger := o.logger.With(zap.String("invocation_id", invocationID))

	plan, err := o.plan(task)
	if err != nil {
		logger.Error("invalid input", zap.Error(err))
		return o.fail(apierr.StageValidation, nil, err, invocationID)
	}

	ctx = okteto.WithRequestID(ctx, invocationID)
	o.reporter.Creating(plan.endpoint, plan.request)
	logger.Info("creating agent", zap.String("endpoint", plan.endpoint), zap.String("repository", plan.request.Repository))

	agent, err := o.createAgent(ctx, plan)
	if err != nil {
		logger.Error("agent creation failed", zap.Error(err))
		return o.fail(apierr.StageCreation, nil, err, invocationID)
	}
	o.reporter.AgentCreated(agent)
	logger.Info("agent created", zap.String("agent_id", agent.ID), zap.String("status", agent.Status))

	if plan.issue == nil {
		if agent.ID == "" {
			logger.Warn("agent response has no id")
		}
		return Outcome{State: StateSucceeded, Agent: agent, InvocationID: invocationID}
	}

	if agent.ID == "" {
		logger.Warn("agent response has no id, skipping issue comment", zap.Stringer("issue", plan.issue))
		return o.fail(apierr.StageNotification, agent, apierr.ErrMissingAgentID, invocationID)
	}

	o.reporter.Notifying(plan.issue.String())
	if err := o.notify(ctx, *plan.issue, agent); err != nil {
		logger.Error("issue comment failed", zap.Stringer("issue", plan.issue), zap.Error(err))
		return o.fail(apierr.StageNotification, agent, err, invocationID)
	}
	o.reporter.Notified(plan.issue.String())

	return Outcome{State: StateSucceeded, Agent: agent, InvocationID: invocationID}
}

type plan struct {
	endpoint string
	request  okteto.AgentRequest
	issue    *github.IssueRef
}

// plan performs every check that must pass before a network call.
func (o *Orchestrator) plan(task Task) (plan, error) {
	if err := o.cfg.Validate(); err != nil {
		return plan{}, err
	}

	endpoint, err := okteto.AgentsEndpoint(o.cfg.OktetoContext)
	if err != nil {
		return plan{}, err
	}

	issue, err := o.cfg.IssueRef()
	if err != nil {
		return plan{}, err
	}
	if issue != nil && o.notifier == nil {
		return plan{}, apierr.Invalid("GITHUB_TOKEN", "no issue tracker client configured")
	}

	var issueCtx *prompt.IssueContext
	if issue != nil {
		issueCtx = &prompt.IssueContext{Repository: issue.FullName(), Number: issue.Number}
	}
	text, err := prompt.Build(task.Prompt, issueCtx)
	if err != nil {
		return plan{}, err
	}

	req, err := okteto.NewAgentRequest(text, task.Repository)
	if err != nil {
		return plan{}, err
	}

	return plan{endpoint: endpoint, request: req, issue: issue}, nil
}

func (o *Orchestrator) createAgent(ctx context.Context, p plan) (*okteto.AgentResponse, error) {
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()
	return o.agents.CreateAgent(ctx, p.endpoint, p.request)
}

func (o *Orchestrator) notify(ctx context.Context, ref github.IssueRef, agent *okteto.AgentResponse) error {
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()
	return o.notifier.PostIssueComment(ctx, ref, github.FormatAgentComment(o.cfg.OktetoContext, agent))
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.cfg.Timeout)
}

func (o *Orchestrator) fail(stage apierr.Stage, agent *okteto.AgentResponse, err error, invocationID string) Outcome {
	o.reporter.Failed(stage, err, agent != nil)
	return Outcome{State: StateFailed, Stage: stage, Agent: agent, Err: err, InvocationID: invocationID}
}
