// Command create-agent starts an Okteto agent for a repository and, when
// issue context is configured, links it from the GitHub issue.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rlamana/create-agent/internal/apierr"
	"github.com/rlamana/create-agent/internal/config"
	"github.com/rlamana/create-agent/internal/github"
	"github.com/rlamana/create-agent/internal/logging"
	"github.com/rlamana/create-agent/internal/okteto"
	"github.com/rlamana/create-agent/internal/orchestrator"
	"github.com/rlamana/create-agent/internal/terminal"
)

var loadDotEnv = godotenv.Load

type options struct {
	issue     string
	issueRepo string
	timeout   time.Duration
	logLevel  string
	logFormat string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	var opts options
	exitCode := 0

	rootCmd := &cobra.Command{
		Use:   "create-agent <prompt> <repository>",
		Short: "Create an Okteto agent and optionally link it from a GitHub issue",
		Long: `Create an Okteto agent that works on a repository.

Environment:
  OKTETO_CONTEXT      Okteto context URL (required)
  OKTETO_TOKEN        Okteto API token (required)
  GITHUB_TOKEN        GitHub token used to comment on the issue
  ISSUE_REPOSITORY    owner/repo of the issue
  ISSUE_NUMBER        issue number

When GITHUB_TOKEN, ISSUE_REPOSITORY and ISSUE_NUMBER are all set, a comment
linking the agent is posted on the issue.

Exit codes:
  0 - Agent created (and issue commented, when configured)
  1 - Any failure`,
		Example: `  create-agent "Fix the login bug" https://github.com/okteto/movies
  create-agent --issue 42 --issue-repo okteto/movies "Fix #42" https://github.com/okteto/movies`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = createAgent(cmd, opts, args, stdout, stderr)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&opts.issue, "issue", "",
		"Issue number to comment on (env: ISSUE_NUMBER)")
	rootCmd.Flags().StringVar(&opts.issueRepo, "issue-repo", "",
		"owner/repo of the issue (env: ISSUE_REPOSITORY)")
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", 0,
		"Timeout per API call, 0 disables (default: 30s, env: CREATE_AGENT_TIMEOUT_SECONDS)")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn, error (default: info, env: LOG_LEVEL)")
	rootCmd.Flags().StringVar(&opts.logFormat, "log-format", "",
		"Log format: console, json (default: console, env: LOG_FORMAT)")

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		rootCmd.SetOut(stderr)
		_ = rootCmd.Usage()
		return 1
	}
	return exitCode
}

func createAgent(cmd *cobra.Command, opts options, args []string, stdout, stderr io.Writer) int {
	reporter := terminal.NewReporter(stdout, stderr)

	cfg, err := config.Load()
	if err == nil {
		err = applyFlags(cmd, cfg, opts)
	}
	if err != nil {
		reporter.Failed(apierr.StageValidation, err, false)
		return 1
	}

	logger, err := logging.NewWriterLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		reporter.Failed(apierr.StageValidation, err, false)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	httpClient := &http.Client{}
	agents := okteto.NewClient(httpClient, cfg.OktetoToken, cfg.UserAgent)

	var notifier orchestrator.CommentPoster
	if tokens := cfg.NewTokenSource(httpClient); tokens != nil {
		notifier = github.NewNotifier(cfg.TrackerAPI(httpClient), tokens, logger)
	}

	outcome := orchestrator.New(*cfg, agents, notifier, reporter, logger).
		Run(cmd.Context(), orchestrator.Task{Prompt: args[0], Repository: args[1]})
	return outcome.ExitCode()
}

// applyFlags overrides environment values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) error {
	flags := cmd.Flags()
	if flags.Changed("issue") {
		n, err := config.ParseIssueNumber("--issue", opts.issue)
		if err != nil {
			return err
		}
		cfg.IssueNumber = n
	}
	if flags.Changed("issue-repo") {
		cfg.IssueRepository = opts.issueRepo
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	return nil
}
