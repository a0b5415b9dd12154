package sse

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	_, ok := r.Lookup(userID)
	assert.False(t, ok)

	s := NewStream()
	prev := r.Register(userID, s)
	assert.Nil(t, prev)

	got, ok := r.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryLastRegisterWins(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	first := NewStream()
	second := NewStream()

	require.Nil(t, r.Register(userID, first))
	prev := r.Register(userID, second)
	assert.Same(t, first, prev, "register should hand back the replaced stream")

	got, ok := r.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryUnregisterOnlyRemovesOwnStream(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	first := NewStream()
	second := NewStream()
	r.Register(userID, first)
	r.Register(userID, second)

	// The replaced connection tearing down must not evict the newer one.
	r.Unregister(userID, first)
	got, ok := r.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, second, got)

	r.Unregister(userID, second)
	_, ok = r.Lookup(userID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestStreamSendAfterClose(t *testing.T) {
	s := NewStream()
	s.Close()
	s.Close() // idempotent

	assert.False(t, s.Send([]byte("late")))

	select {
	case <-s.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestStreamSendDropsWhenFull(t *testing.T) {
	s := NewStream()

	for i := 0; i < streamBuffer; i++ {
		require.True(t, s.Send([]byte(fmt.Sprintf("event-%d", i))))
	}
	assert.False(t, s.Send([]byte("overflow")), "full buffer should drop, not block")

	got := <-s.Events()
	assert.Equal(t, []byte("event-0"), got)
	assert.True(t, s.Send([]byte("after-drain")))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	users := make([]uuid.UUID, 32)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for _, id := range users {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			s := NewStream()
			r.Register(id, s)
			_, _ = r.Lookup(id)
			r.Unregister(id, s)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}
