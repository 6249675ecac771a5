// Package platformtest is an in-process fake of the Okteto agent API and
// the GitHub issue comment API. It records every call it receives.
package platformtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Call is a request received by the fake.
type Call struct {
	Method        string
	Path          string
	Header        http.Header
	Body          []byte
	ContentLength int64
	Vars          map[string]string
}

type cannedResponse struct {
	status int
	body   string
}

// Platform serves:
//   - POST /api/v0/agents -> 201 with a generated agent
//   - POST /repos/{owner}/{repo}/issues/{number}/comments -> 201
type Platform struct {
	mu           sync.Mutex
	router       *mux.Router
	agent        *cannedResponse
	comment      *cannedResponse
	agentCalls   []Call
	commentCalls []Call

	// NewAgentID generates ids for the default agent response.
	NewAgentID func() string
}

// New returns a fake with default success responses.
func New() *Platform {
	p := &Platform{NewAgentID: uuid.NewString}

	r := mux.NewRouter()
	r.HandleFunc("/api/v0/agents", p.createAgent).Methods(http.MethodPost)
	r.HandleFunc("/repos/{owner}/{repo}/issues/{number:[0-9]+}/comments", p.createComment).Methods(http.MethodPost)
	p.router = r
	return p
}

func (p *Platform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.router.ServeHTTP(w, r)
}

// SetAgentResponse overrides the agent creation response.
func (p *Platform) SetAgentResponse(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agent = &cannedResponse{status: status, body: body}
}

// SetCommentResponse overrides the issue comment response.
func (p *Platform) SetCommentResponse(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comment = &cannedResponse{status: status, body: body}
}

// AgentCalls returns the agent creation calls received so far.
func (p *Platform) AgentCalls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.agentCalls...)
}

// CommentCalls returns the issue comment calls received so far.
func (p *Platform) CommentCalls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.commentCalls...)
}

func (p *Platform) createAgent(w http.ResponseWriter, r *http.Request) {
	call := record(r)

	p.mu.Lock()
	p.agentCalls = append(p.agentCalls, call)
	canned := p.agent
	p.mu.Unlock()

	if canned != nil {
		write(w, canned.status, canned.body)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		write(w, http.StatusUnauthorized, `{"message":"missing bearer token"}`)
		return
	}
	var req struct {
		Prompt     string `json:"prompt"`
		Repository string `json:"repository"`
	}
	if err := json.Unmarshal(call.Body, &req); err != nil || req.Prompt == "" || req.Repository == "" {
		write(w, http.StatusBadRequest, `{"error":"prompt and repository are required"}`)
		return
	}

	id := p.NewAgentID()
	base := "http://" + r.Host
	resp, _ := json.Marshal(map[string]string{
		"id":         id,
		"status":     "running",
		"chat_url":   fmt.Sprintf("%s/agents/%s/chat", base, id),
		"vscode_url": fmt.Sprintf("vscode://okteto.remote-kubernetes/agent/%s", id),
	})
	write(w, http.StatusCreated, string(resp))
}

func (p *Platform) createComment(w http.ResponseWriter, r *http.Request) {
	call := record(r)

	p.mu.Lock()
	p.commentCalls = append(p.commentCalls, call)
	canned := p.comment
	id := len(p.commentCalls)
	p.mu.Unlock()

	if canned != nil {
		write(w, canned.status, canned.body)
		return
	}

	if r.Header.Get("User-Agent") == "" {
		write(w, http.StatusForbidden, `{"message":"Request forbidden by administrative rules. Please make sure your request has a User-Agent header"}`)
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(call.Body, &req); err != nil || req.Body == "" {
		write(w, http.StatusUnprocessableEntity, `{"message":"Validation Failed"}`)
		return
	}
	resp, _ := json.Marshal(map[string]any{"id": id, "body": req.Body})
	write(w, http.StatusCreated, string(resp))
}

func record(r *http.Request) Call {
	body, _ := io.ReadAll(r.Body)
	return Call{
		Method:        r.Method,
		Path:          r.URL.Path,
		Header:        r.Header.Clone(),
		Body:          body,
		ContentLength: r.ContentLength,
		Vars:          mux.Vars(r),
	}
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
