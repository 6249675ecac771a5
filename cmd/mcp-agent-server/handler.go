package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/rlamana/create-agent/internal/config"
	"github.com/rlamana/create-agent/internal/github"
	"github.com/rlamana/create-agent/internal/okteto"
	"github.com/rlamana/create-agent/internal/orchestrator"
	"github.com/rlamana/create-agent/internal/terminal"
)

// CreateAgentParams defines the input parameters for the create_agent tool.
type CreateAgentParams struct {
	Prompt          string `json:"prompt" jsonschema:"What the agent should do"`
	Repository      string `json:"repository" jsonschema:"URL of the git repository the agent works on"`
	IssueNumber     int    `json:"issue_number,omitempty" jsonschema:"GitHub issue to link the agent from"`
	IssueRepository string `json:"issue_repository,omitempty" jsonschema:"owner/repo of the issue, defaults to ISSUE_REPOSITORY"`
}

type createAgentResult struct {
	Success      bool   `json:"success"`
	InvocationID string `json:"invocation_id"`
	AgentID      string `json:"agent_id,omitempty"`
	Status       string `json:"status,omitempty"`
	AgentURL     string `json:"agent_url,omitempty"`
	Issue        string `json:"issue,omitempty"`
	FailedStage  string `json:"failed_stage,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Handler runs the create_agent tool against a fixed base configuration.
type Handler struct {
	cfg        config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHandler creates a tool handler.
func NewHandler(cfg config.Config, httpClient *http.Client, logger *zap.Logger) *Handler {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cfg: cfg, httpClient: httpClient, logger: logger.Named("mcp")}
}

// HandleCreateAgent handles the create_agent tool call. Failures are
// reported as tool errors with the stage that failed.
func (h *Handler) HandleCreateAgent(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params CreateAgentParams,
) (*mcp.CallToolResult, any, error) {
	if params.Prompt == "" || params.Repository == "" {
		return nil, nil, errors.New("prompt and repository parameters are required")
	}

	cfg := h.cfg
	if params.IssueNumber != 0 {
		cfg.IssueNumber = params.IssueNumber
	}
	if params.IssueRepository != "" {
		cfg.IssueRepository = params.IssueRepository
	}

	var report bytes.Buffer
	reporter := terminal.NewReporter(&report, &report)

	agents := okteto.NewClient(h.httpClient, cfg.OktetoToken, cfg.UserAgent)
	var notifier orchestrator.CommentPoster
	if tokens := cfg.NewTokenSource(h.httpClient); tokens != nil {
		notifier = github.NewNotifier(cfg.TrackerAPI(h.httpClient), tokens, h.logger)
	}

	h.logger.Info("received create_agent request", zap.String("repository", params.Repository))
	outcome := orchestrator.New(cfg, agents, notifier, reporter, h.logger).
		Run(ctx, orchestrator.Task{Prompt: params.Prompt, Repository: params.Repository})

	result := createAgentResult{
		Success:      outcome.State == orchestrator.StateSucceeded,
		InvocationID: outcome.InvocationID,
	}
	if outcome.Agent != nil {
		result.AgentID = outcome.Agent.ID
		result.Status = outcome.Agent.Status
		if outcome.Agent.ID != "" {
			result.AgentURL = okteto.AgentLink(cfg.OktetoContext, outcome.Agent.ID)
		}
	}
	if ref, err := cfg.IssueRef(); err == nil && ref != nil {
		result.Issue = ref.String()
	}
	if outcome.Err != nil {
		result.FailedStage = string(outcome.Stage)
		result.Error = outcome.Err.Error()
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(text)},
			&mcp.TextContent{Text: report.String()},
		},
		IsError: !result.Success,
	}, nil, nil
}
