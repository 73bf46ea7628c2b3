package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"glycall/internal/agentrt"
	"glycall/internal/chat"
	"glycall/internal/config"
	"glycall/internal/genui"
	"glycall/internal/thread"
)

type chatRequest struct {
	Text     string `json:"text"`
	ThreadID string `json:"threadId"`
	Timezone string `json:"timezone"`
}

// handleChat forwards one user turn to the agent runtime and streams the
// response body through untouched. The runtime owns the stream format.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}
	threadID := req.ThreadID
	if threadID == "" {
		threadID = config.DefaultThreadID
	}
	if !thread.IsSafeID(threadID) {
		writeError(c, http.StatusBadRequest, "invalid thread id")
		return
	}

	stream, err := s.runtime.StreamChat(c.Request.Context(), agentrt.ChatRequest{
		Text:     req.Text,
		ThreadID: threadID,
		Timezone: req.Timezone,
	})
	if err != nil {
		s.logger.Error("chat stream failed for thread %s: %v", threadID, err)
		writeError(c, http.StatusBadGateway, "agent runtime unavailable", err.Error())
		return
	}
	defer func() { _ = stream.Body.Close() }()

	// The turn changes the thread's history and recency.
	s.history.Remove(threadID)
	s.touchThread(c, threadID)

	c.Header("Content-Type", stream.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	buf := make([]byte, 32*1024)
	for {
		n, readErr := stream.Body.Read(buf)
		if n > 0 {
			if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
				return
			}
			c.Writer.Flush()
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				s.logger.Warn("chat stream for thread %s ended early: %v", threadID, readErr)
			}
			return
		}
	}
}

func (s *Server) touchThread(c *gin.Context, threadID string) {
	if s.threads == nil {
		return
	}
	err := s.threads.Touch(c.Request.Context(), threadID)
	if err != nil && !errors.Is(err, thread.ErrNotFound) && !errors.Is(err, thread.ErrNotConfigured) {
		s.logger.Warn("touch thread %s: %v", threadID, err)
	}
}

type messageView struct {
	chat.Message
	VisibleText string            `json:"visibleText"`
	Directives  []genui.Directive `json:"directives,omitempty"`
}

type historyView struct {
	ThreadID    string        `json:"threadId"`
	Messages    []messageView `json:"messages"`
	Suggestions []string      `json:"suggestions"`
}

// handleHistory returns a thread's recalled messages with the view already
// resolved: visible text, render directives, follow-up suggestions. The
// result is cached briefly and recalls are deduplicated so a view that
// mounts twice does not fetch twice.
func (s *Server) handleHistory(c *gin.Context) {
	threadID := c.DefaultQuery("threadId", config.DefaultThreadID)
	if !thread.IsSafeID(threadID) {
		writeError(c, http.StatusBadRequest, "invalid thread id")
		return
	}

	if view, ok := s.history.Get(threadID); ok {
		c.JSON(http.StatusOK, view)
		return
	}

	v, _, _ := s.recalls.Do(threadID, func() (any, error) {
		messages, err := s.runtime.Recall(c.Request.Context(), threadID)
		if err != nil {
			// A thread the runtime cannot recall renders as an empty
			// conversation, not an error page.
			s.logger.Warn("recall for thread %s failed: %v", threadID, err)
			messages = []chat.Message{}
		}
		view := s.buildHistoryView(threadID, messages)
		if err == nil {
			s.history.Add(threadID, view)
		}
		return view, nil
	})

	c.JSON(http.StatusOK, v.(historyView))
}

func (s *Server) buildHistoryView(threadID string, messages []chat.Message) historyView {
	views := make([]messageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, messageView{
			Message:     msg,
			VisibleText: s.registry.VisibleText(msg),
			Directives:  s.registry.RenderMessage(msg),
		})
	}
	return historyView{
		ThreadID:    threadID,
		Messages:    views,
		Suggestions: chat.ExtractSuggestions(messages),
	}
}
