package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"glycall/internal/agentrt"
	"glycall/internal/chat"
	"glycall/internal/pending"
	"glycall/internal/thread"
	"glycall/internal/thread/memstore"
)

// fakeRuntime scripts the agent runtime for handler tests.
type fakeRuntime struct {
	streamBody  string
	streamErr   error
	lastRequest agentrt.ChatRequest

	recallMessages []chat.Message
	recallErr      error
	recallCalls    atomic.Int64
}

func (f *fakeRuntime) StreamChat(_ context.Context, req agentrt.ChatRequest) (*agentrt.Stream, error) {
	f.lastRequest = req
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return &agentrt.Stream{
		Body:        io.NopCloser(strings.NewReader(f.streamBody)),
		ContentType: "text/event-stream",
	}, nil
}

func (f *fakeRuntime) Recall(_ context.Context, _ string) ([]chat.Message, error) {
	f.recallCalls.Add(1)
	if f.recallErr != nil {
		return nil, f.recallErr
	}
	return f.recallMessages, nil
}

type testEnv struct {
	runtime *fakeRuntime
	threads thread.Store
	pending *pending.Store
	router  http.Handler
}

func newTestEnv(runtime *fakeRuntime, threads thread.Store) *testEnv {
	pendingStore := pending.NewStore()
	srv := New(Options{
		Runtime:    runtime,
		Threads:    threads,
		Pending:    pendingStore,
		ResourceID: "glyphic-chat",
	})
	return &testEnv{
		runtime: runtime,
		threads: threads,
		pending: pendingStore,
		router:  srv.Router(),
	}
}

func newMemEnv(runtime *fakeRuntime) *testEnv {
	return newTestEnv(runtime, memstore.New())
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
