package httpclient

import (
	"fmt"
	"sync"
	"time"

	"glycall/internal/logging"
)

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	failureThreshold = 5
	successThreshold = 2
	openTimeout      = 30 * time.Second
)

// breaker is a minimal consecutive-failure circuit breaker: it opens after
// failureThreshold straight failures, waits openTimeout before probing, and
// closes again after successThreshold straight successes in half-open.
type breaker struct {
	name   string
	logger logging.Logger

	mu           sync.Mutex
	state        breakerState
	failureCount int
	successCount int
	openedAt     time.Time
}

func newBreaker(name string, logger logging.Logger) *breaker {
	if name == "" {
		name = "http-client"
	}
	return &breaker{
		name:   name,
		logger: logging.OrNop(logger),
	}
}

func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen {
		if time.Since(b.openedAt) < openTimeout {
			return fmt.Errorf("circuit breaker %s is open", b.name)
		}
		b.transition(stateHalfOpen)
	}
	return nil
}

func (b *breaker) mark(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failureCount = 0
		if b.state == stateHalfOpen {
			b.successCount++
			if b.successCount >= successThreshold {
				b.transition(stateClosed)
			}
		}
		return
	}

	b.successCount = 0
	b.failureCount++
	if b.state == stateHalfOpen || b.failureCount >= failureThreshold {
		b.transition(stateOpen)
		b.openedAt = time.Now()
	}
}

func (b *breaker) transition(to breakerState) {
	if b.state == to {
		return
	}
	b.logger.Warn("Circuit breaker %s: %s -> %s", b.name, b.state, to)
	b.state = to
	b.failureCount = 0
	b.successCount = 0
}
