package pending

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumeDeliversAtMostOnce(t *testing.T) {
	store := NewStore()
	store.Put("t1", "list my calls")

	// Simulates the thread view mounting twice after creation.
	first, ok := store.Consume("t1")
	assert.True(t, ok)
	assert.Equal(t, "list my calls", first)

	_, ok = store.Consume("t1")
	assert.False(t, ok, "second mount must not re-send")
}

func TestClaimedThreadIsNeverReinstated(t *testing.T) {
	store := NewStore()
	store.Put("t1", "first")
	if _, ok := store.Consume("t1"); !ok {
		t.Fatalf("expected first consume to succeed")
	}

	// A late Put for a thread that already delivered is dropped.
	store.Put("t1", "again")
	_, ok := store.Consume("t1")
	assert.False(t, ok)
}

func TestThreadsAreIsolated(t *testing.T) {
	store := NewStore()
	store.Put("t1", "for one")
	store.Put("t2", "for two")

	got1, ok1 := store.Consume("t1")
	got2, ok2 := store.Consume("t2")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, "for one", got1)
	assert.Equal(t, "for two", got2)
}

func TestConcurrentConsumersSeeOneDelivery(t *testing.T) {
	store := NewStore()
	store.Put("t1", "race me")

	var wg sync.WaitGroup
	delivered := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if text, ok := store.Consume("t1"); ok {
				delivered <- text
			}
		}()
	}
	wg.Wait()
	close(delivered)

	count := 0
	for range delivered {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestEmptyInputsAreIgnored(t *testing.T) {
	store := NewStore()
	store.Put("", "text")
	store.Put("t1", "")

	_, ok := store.Consume("t1")
	assert.False(t, ok)
}
