package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glycall/internal/chat"
)

func TestChatProxiesStream(t *testing.T) {
	runtime := &fakeRuntime{streamBody: "data: {\"delta\":\"hi\"}\n\n"}
	env := newMemEnv(runtime)

	rec := env.do(http.MethodPost, "/api/chat", `{"text":"list my calls","threadId":"thread-1","timezone":"Europe/London"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data: {\"delta\":\"hi\"}\n\n", rec.Body.String())

	assert.Equal(t, "list my calls", runtime.lastRequest.Text)
	assert.Equal(t, "thread-1", runtime.lastRequest.ThreadID)
	assert.Equal(t, "Europe/London", runtime.lastRequest.Timezone)
}

func TestChatDefaultsThreadID(t *testing.T) {
	runtime := &fakeRuntime{streamBody: "ok"}
	env := newMemEnv(runtime)

	rec := env.do(http.MethodPost, "/api/chat", `{"text":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default-thread", runtime.lastRequest.ThreadID)
}

func TestChatRejectsEmptyText(t *testing.T) {
	env := newMemEnv(&fakeRuntime{})

	rec := env.do(http.MethodPost, "/api/chat", `{"text":"   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "text is required", envelope["error"])
}

func TestChatRejectsUnsafeThreadID(t *testing.T) {
	env := newMemEnv(&fakeRuntime{})

	rec := env.do(http.MethodPost, "/api/chat", `{"text":"hi","threadId":"abc; DROP TABLE"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRuntimeFailureIsBadGateway(t *testing.T) {
	env := newMemEnv(&fakeRuntime{streamErr: errors.New("connection refused")})

	rec := env.do(http.MethodPost, "/api/chat", `{"text":"hi"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "agent runtime unavailable", envelope["error"])
	assert.Contains(t, envelope["details"], "connection refused")
}

func historyMessages() []chat.Message {
	return []chat.Message{
		{ID: "m1", Role: chat.RoleUser, Parts: []chat.Part{{Type: "text", Text: "show my calls"}}},
		{ID: "m2", Role: chat.RoleAssistant, Parts: []chat.Part{
			{Type: "text", Text: "Here are your calls:"},
			{Type: "tool-show-call-list", State: chat.ToolStateOutputAvailable, Input: json.RawMessage(`{"calls":[],"hasMore":false}`)},
			{Type: "text", Text: "Anything else?"},
		}},
	}
}

func TestHistoryReturnsResolvedView(t *testing.T) {
	runtime := &fakeRuntime{recallMessages: historyMessages()}
	env := newMemEnv(runtime)

	rec := env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		ThreadID string `json:"threadId"`
		Messages []struct {
			ID          string `json:"id"`
			VisibleText string `json:"visibleText"`
			Directives  []struct {
				Kind      string `json:"kind"`
				Key       string `json:"key"`
				Component string `json:"component"`
			} `json:"directives"`
		} `json:"messages"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	assert.Equal(t, "thread-1", view.ThreadID)
	require.Len(t, view.Messages, 2)

	// The completed display tool hides the earlier text fragments.
	assert.Equal(t, "Anything else?", view.Messages[1].VisibleText)
	require.Len(t, view.Messages[1].Directives, 1)
	assert.Equal(t, "component", view.Messages[1].Directives[0].Kind)
	assert.Equal(t, "show-call-list", view.Messages[1].Directives[0].Component)
	assert.Equal(t, "m2-1", view.Messages[1].Directives[0].Key)

	// No suggestion tool ran, so the defaults come back.
	assert.Len(t, view.Suggestions, 4)
	assert.Contains(t, view.Suggestions, "Summarize the calls we had in September")
}

func TestHistoryIsCachedAcrossMounts(t *testing.T) {
	runtime := &fakeRuntime{recallMessages: historyMessages()}
	env := newMemEnv(runtime)

	first := env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")
	second := env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int64(1), runtime.recallCalls.Load())
}

func TestHistoryRecallFailureDegradesToEmpty(t *testing.T) {
	runtime := &fakeRuntime{recallErr: errors.New("runtime down")}
	env := newMemEnv(runtime)

	rec := env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Messages    []any    `json:"messages"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Messages)
	assert.Len(t, view.Suggestions, 4)
}

func TestHistoryFailureIsNotCached(t *testing.T) {
	runtime := &fakeRuntime{recallErr: errors.New("runtime down")}
	env := newMemEnv(runtime)

	env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")
	runtime.recallErr = nil
	runtime.recallMessages = historyMessages()
	rec := env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")

	var view struct {
		Messages []any `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Messages, 2)
	assert.Equal(t, int64(2), runtime.recallCalls.Load())
}

func TestChatInvalidatesHistoryCache(t *testing.T) {
	runtime := &fakeRuntime{streamBody: "ok", recallMessages: historyMessages()}
	env := newMemEnv(runtime)

	env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")
	env.do(http.MethodPost, "/api/chat", `{"text":"another turn","threadId":"thread-1"}`)
	env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")

	assert.Equal(t, int64(2), runtime.recallCalls.Load())
}

func TestHistorySuggestionsFromToolOutput(t *testing.T) {
	messages := []chat.Message{
		{ID: "m1", Role: chat.RoleAssistant, Parts: []chat.Part{
			{Type: "tool-suggest-follow-ups", State: chat.ToolStateOutputAvailable,
				Output: json.RawMessage(`{"suggestions":["Dig into the Freetrade call","Draft a follow-up email"]}`)},
		}},
	}
	env := newMemEnv(&fakeRuntime{recallMessages: messages})

	rec := env.do(http.MethodGet, "/api/chat?threadId=thread-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, []string{"Dig into the Freetrade call", "Draft a follow-up email"}, view.Suggestions)
}
