package prompt

// IssueInstructionsTemplate is appended to the task prompt when the agent
// was started from a GitHub issue.
const IssueInstructionsTemplate = `

---

This task comes from issue #{{.Number}} in {{.Repository}}. When you are done:
- Commit your changes with a descriptive message.
- Open a pull request with your changes against the default branch.
- Reference #{{.Number}} in the pull request description (for example "Fixes #{{.Number}}").
- Never force-push to a branch without explicit permission.
- Use the okteto CLI to validate your changes locally before opening the pull request (okteto deploy, okteto test).`
