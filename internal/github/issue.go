package github

import (
	"fmt"
	"strings"

	"github.com/rlamana/create-agent/internal/apierr"
)

// IssueRef addresses a single issue.
type IssueRef struct {
	Owner  string
	Repo   string
	Number int
}

// ParseIssueRef builds an IssueRef from an "owner/repo" full name.
func ParseIssueRef(fullName string, number int) (IssueRef, error) {
	parts := strings.Split(strings.TrimSpace(fullName), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return IssueRef{}, apierr.Invalid("ISSUE_REPOSITORY", "invalid repo format: %q (expected owner/repo)", fullName)
	}
	if number <= 0 {
		return IssueRef{}, apierr.Invalid("ISSUE_NUMBER", "must be a positive number, got %d", number)
	}
	return IssueRef{Owner: parts[0], Repo: parts[1], Number: number}, nil
}

// FullName returns owner/repo.
func (r IssueRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

func (r IssueRef) String() string {
	return fmt.Sprintf("%s#%d", r.FullName(), r.Number)
}
