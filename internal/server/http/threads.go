package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"glycall/internal/thread"
)

type threadListResponse struct {
	Threads  []thread.Thread  `json:"threads"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"hasMore"`
	Sections []thread.Section `json:"sections"`
}

// handleListThreads returns the sidebar: one page of threads plus their
// date-bucketed sections. Without storage the sidebar is simply empty.
func (s *Server) handleListThreads(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "perPage", defaultPerPage)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	if s.threads == nil {
		c.JSON(http.StatusOK, emptyThreadList())
		return
	}

	// Stores count pages from zero; the query parameter counts from one.
	result, err := s.threads.List(c.Request.Context(), s.resourceID, page-1, perPage)
	if err != nil {
		if errors.Is(err, thread.ErrNotConfigured) {
			c.JSON(http.StatusOK, emptyThreadList())
			return
		}
		s.logger.Error("list threads: %v", err)
		writeError(c, http.StatusInternalServerError, "failed to list threads")
		return
	}

	c.JSON(http.StatusOK, threadListResponse{
		Threads:  result.Threads,
		Total:    result.Total,
		HasMore:  result.HasMore,
		Sections: thread.GroupByDate(result.Threads, time.Now()).Sections(),
	})
}

func emptyThreadList() threadListResponse {
	return threadListResponse{
		Threads:  []thread.Thread{},
		Sections: []thread.Section{},
	}
}

type createThreadRequest struct {
	Title        string `json:"title"`
	FirstMessage string `json:"firstMessage"`
}

// handleCreateThread creates a thread and, when the request carries the
// user's first message, stashes it for one-shot delivery after the client
// navigates to the new thread.
func (s *Server) handleCreateThread(c *gin.Context) {
	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if s.threads == nil {
		writeError(c, http.StatusServiceUnavailable, "thread storage not configured")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" && strings.TrimSpace(req.FirstMessage) != "" {
		title = thread.DeriveTitle(strings.TrimSpace(req.FirstMessage))
	}

	created, err := s.threads.Create(c.Request.Context(), s.resourceID, title)
	if err != nil {
		if errors.Is(err, thread.ErrNotConfigured) {
			writeError(c, http.StatusServiceUnavailable, "thread storage not configured")
			return
		}
		s.logger.Error("create thread: %v", err)
		writeError(c, http.StatusInternalServerError, "failed to create thread")
		return
	}

	s.pending.Put(created.ID, req.FirstMessage)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetThread(c *gin.Context) {
	threadID := c.Param("id")
	if !thread.IsSafeID(threadID) {
		writeError(c, http.StatusBadRequest, "invalid thread id")
		return
	}
	if s.threads == nil {
		writeError(c, http.StatusNotFound, "thread not found")
		return
	}

	found, err := s.threads.Get(c.Request.Context(), threadID)
	if err != nil {
		if errors.Is(err, thread.ErrNotFound) || errors.Is(err, thread.ErrNotConfigured) {
			writeError(c, http.StatusNotFound, "thread not found")
			return
		}
		s.logger.Error("get thread %s: %v", threadID, err)
		writeError(c, http.StatusInternalServerError, "failed to load thread")
		return
	}
	c.JSON(http.StatusOK, found)
}

// handleDeleteThread removes a thread. Deleting an unknown thread succeeds;
// the end state is the same.
func (s *Server) handleDeleteThread(c *gin.Context) {
	threadID := c.Param("id")
	if !thread.IsSafeID(threadID) {
		writeError(c, http.StatusBadRequest, "invalid thread id")
		return
	}
	if s.threads == nil {
		writeError(c, http.StatusServiceUnavailable, "thread storage not configured")
		return
	}

	if err := s.threads.Delete(c.Request.Context(), threadID); err != nil {
		if errors.Is(err, thread.ErrNotConfigured) {
			writeError(c, http.StatusServiceUnavailable, "thread storage not configured")
			return
		}
		s.logger.Error("delete thread %s: %v", threadID, err)
		writeError(c, http.StatusInternalServerError, "failed to delete thread")
		return
	}

	s.history.Remove(threadID)
	c.Status(http.StatusNoContent)
}

// handlePendingMessage hands out a thread's stashed first message. The read
// consumes it; any later read finds nothing.
func (s *Server) handlePendingMessage(c *gin.Context) {
	threadID := c.Param("id")
	if !thread.IsSafeID(threadID) {
		writeError(c, http.StatusBadRequest, "invalid thread id")
		return
	}

	text, ok := s.pending.Consume(threadID)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
