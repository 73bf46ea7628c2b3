package logging

import (
	"strings"
	"testing"
)

func TestRedactAPIKeyAssignment(t *testing.T) {
	line := "2026-01-10 [INFO] [Config] config.go:10 - apiKey=sk-test12345678901234567890\n"
	sanitized := redact(line)
	if strings.Contains(sanitized, "sk-test") {
		t.Fatalf("expected api key to be redacted, got %q", sanitized)
	}
	if !strings.Contains(sanitized, redactedPlaceholder) {
		t.Fatalf("expected placeholder in sanitized line: %q", sanitized)
	}
}

func TestRedactBearerToken(t *testing.T) {
	line := "forwarding with Authorization: Bearer abc123def456"
	sanitized := redact(line)
	if strings.Contains(sanitized, "abc123def456") {
		t.Fatalf("expected bearer token to be redacted, got %q", sanitized)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"WARN":    WARN,
		"warning": WARN,
		"error":   ERROR,
		"info":    INFO,
		"":        INFO,
		"bogus":   INFO,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestOrNopReturnsUsableLogger(t *testing.T) {
	logger := OrNop(nil)
	if logger == nil {
		t.Fatalf("expected OrNop to return a usable logger")
	}
	logger.Info("hello %s", "world") // should not panic
}
