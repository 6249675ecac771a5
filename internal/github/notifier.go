// Package github posts agent cross-references to GitHub issues.
package github

import (
	"context"
	"encoding/json"
	"errors"

	gh "github.com/google/go-github/v66/github"
	"go.uber.org/zap"

	"github.com/rlamana/create-agent/internal/apierr"
)

// Notifier posts comments on GitHub issues.
type Notifier struct {
	api    APIConfig
	tokens TokenSource
	logger *zap.Logger
}

// NewNotifier creates a notifier that authenticates with tokens.
func NewNotifier(api APIConfig, tokens TokenSource, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{api: api, tokens: tokens, logger: logger.Named("github")}
}

// PostIssueComment creates a single comment on ref. Failures are not
// retried.
func (n *Notifier) PostIssueComment(ctx context.Context, ref IssueRef, req CommentRequest) error {
	if n == nil || n.tokens == nil {
		return apierr.Invalid("GITHUB_TOKEN", "no issue tracker credential configured")
	}

	token, err := n.tokens.Token(ctx, ref)
	if err != nil {
		return classify(apierr.StageNotification, err)
	}

	client, err := n.api.client(token)
	if err != nil {
		return err
	}

	body := req.Body
	comment, resp, err := client.Issues.CreateComment(ctx, ref.Owner, ref.Repo, ref.Number, &gh.IssueComment{
		Body: &body,
	})
	if err != nil {
		if posted(resp, err) {
			n.logger.Warn("comment posted but response could not be decoded",
				zap.Stringer("issue", ref), zap.Error(err))
			return nil
		}
		return classify(apierr.StageNotification, err)
	}

	n.logger.Info("posted issue comment",
		zap.Stringer("issue", ref), zap.Int64("comment_id", comment.GetID()))
	return nil
}

// posted reports whether GitHub accepted the comment even though the
// response body failed to decode.
func posted(resp *gh.Response, err error) bool {
	if resp == nil || resp.Response == nil {
		return false
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
