// Package agentrt talks to the hosted agent runtime that owns the LLM
// tool-calling loop and conversation memory. The runtime's wire format is
// an opaque, versioned contract; this client forwards chat turns and pulls
// recalled history without interpreting the stream.
package agentrt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"glycall/internal/chat"
	"glycall/internal/httpclient"
	"glycall/internal/logging"
)

const (
	defaultRecallTimeout = 30 * time.Second
	maxRecallBodyBytes   = 16 << 20
)

// Client calls one agent on the runtime.
type Client struct {
	baseURL    string
	agentID    string
	resourceID string

	// Streaming responses stay open for the lifetime of a turn, so the
	// stream client carries no total-request timeout; recall is a plain
	// request/response call and gets both a timeout and a breaker.
	streamClient *http.Client
	recallClient *http.Client
	logger       logging.Logger
}

// New constructs a runtime client for the given agent.
func New(baseURL, agentID, resourceID string) *Client {
	logger := logging.NewComponentLogger("AgentRuntime")
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		agentID:      agentID,
		resourceID:   resourceID,
		streamClient: httpclient.NewWithCircuitBreaker(0, "agent-stream", logger),
		recallClient: httpclient.NewWithCircuitBreaker(defaultRecallTimeout, "agent-recall", logger),
		logger:       logger,
	}
}

// Memory scopes a chat turn to its thread and owning resource.
type Memory struct {
	Thread   string `json:"thread"`
	Resource string `json:"resource"`
}

// ChatRequest is one user turn forwarded to the runtime.
type ChatRequest struct {
	Text     string `json:"text"`
	ThreadID string `json:"threadId,omitempty"`
	Timezone string `json:"timezone"`
	Memory   Memory `json:"memory"`
}

// Stream is a live chat response. Body carries the runtime's event stream
// verbatim; the caller copies it through and must close it.
type Stream struct {
	Body        io.ReadCloser
	ContentType string
}

// StreamChat forwards a chat turn and returns the runtime's live response
// stream. The request's memory is pinned to the client's resource.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest) (*Stream, error) {
	req.Memory.Resource = c.resourceID
	if req.Memory.Thread == "" {
		req.Memory.Thread = req.ThreadID
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/agents/%s/stream", c.baseURL, url.PathEscape(c.agentID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat stream request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := httpclient.ReadAllWithLimit(resp.Body, 4096)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("chat stream request: runtime returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/event-stream"
	}
	return &Stream{Body: resp.Body, ContentType: contentType}, nil
}

// Recall fetches the prior messages of a thread from the runtime's memory.
// A thread with no recorded history yields an empty slice, not an error.
func (c *Client) Recall(ctx context.Context, threadID string) ([]chat.Message, error) {
	endpoint := fmt.Sprintf("%s/api/agents/%s/memory/recall?threadId=%s&resourceId=%s",
		c.baseURL, url.PathEscape(c.agentID), url.QueryEscape(threadID), url.QueryEscape(c.resourceID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build recall request: %w", err)
	}

	resp, err := c.recallClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("recall request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return []chat.Message{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recall request: runtime returned %d", resp.StatusCode)
	}

	body, err := httpclient.ReadAllWithLimit(resp.Body, maxRecallBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("read recall response: %w", err)
	}

	var messages []chat.Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("decode recall response: %w", err)
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	return messages, nil
}
