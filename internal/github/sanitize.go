package github

import (
	"regexp"
	"strings"
)

var (
	reInvisible    = regexp.MustCompile("[\u200B\u200C\u200D\uFEFF\u00AD]")
	reControl      = regexp.MustCompile("[\u0000-\u001F\u007F-\u009F]")
	reBidi         = regexp.MustCompile("[\u202A-\u202E\u2066-\u2069]")
	reHTMLComments = regexp.MustCompile(`<!--[\s\S]*?-->`)

	reGitHubTokens = []*regexp.Regexp{
		regexp.MustCompile(`\bghp_[A-Za-z0-9]{36}\b`),
		regexp.MustCompile(`\bgho_[A-Za-z0-9]{36}\b`),
		regexp.MustCompile(`\bghs_[A-Za-z0-9]{36}\b`),
		regexp.MustCompile(`\bghr_[A-Za-z0-9]{36}\b`),
		regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{11,221}\b`),
	}
)

// sanitizeInline cleans a platform-supplied value so it renders as plain
// text on one line of a comment.
func sanitizeInline(s string) string {
	if s == "" {
		return s
	}
	s = reHTMLComments.ReplaceAllString(s, "")
	s = reInvisible.ReplaceAllString(s, "")
	s = reBidi.ReplaceAllString(s, "")
	s = reControl.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return redactGitHubTokens(s)
}

// linkLabel is sanitizeInline for text inside [...].
func linkLabel(s string) string {
	s = sanitizeInline(s)
	s = strings.ReplaceAll(s, "[", `\[`)
	return strings.ReplaceAll(s, "]", `\]`)
}

// linkTarget returns u when it is safe inside (...), or "" otherwise.
func linkTarget(u string) string {
	u = sanitizeInline(u)
	if strings.ContainsAny(u, " ()<>") {
		return ""
	}
	return u
}

func redactGitHubTokens(s string) string {
	for _, re := range reGitHubTokens {
		s = re.ReplaceAllString(s, "[REDACTED_GITHUB_TOKEN]")
	}
	return s
}
