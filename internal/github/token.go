package github

import (
	"context"
	"strings"

	"github.com/rlamana/create-agent/internal/apierr"
)

// TokenSource yields the bearer credential used for a repository.
type TokenSource interface {
	Token(ctx context.Context, ref IssueRef) (string, error)
}

// StaticToken is a personal access or workflow token.
type StaticToken string

// Token returns the token unchanged.
func (t StaticToken) Token(context.Context, IssueRef) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", apierr.Invalid("GITHUB_TOKEN", "is empty")
	}
	return string(t), nil
}
