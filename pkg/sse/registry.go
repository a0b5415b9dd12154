package sse

import (
	"sync"

	"github.com/google/uuid"
)

const streamBuffer = 16

// Stream is the write side of one open notification channel.
type Stream struct {
	ch        chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewStream constructs a stream with a buffered event queue.
func NewStream() *Stream {
	return &Stream{
		ch:   make(chan []byte, streamBuffer),
		done: make(chan struct{}),
	}
}

// Send enqueues one event frame without blocking. It reports false when
// the stream is closed or the consumer is too slow and the frame was
// dropped; the durable notification record is the recovery path.
func (s *Stream) Send(payload []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.ch <- payload:
		return true
	default:
		return false
	}
}

// Events returns the read side consumed by the SSE handler.
func (s *Stream) Events() <-chan []byte {
	return s.ch
}

// Done is closed when the stream is closed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Close terminates the stream. Safe to call more than once.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Registry is the process-wide table of live notification streams,
// keyed by user id. It owns only the transient mapping; it is rebuilt
// empty on restart and never touches notification data.
type Registry struct {
	mu      sync.RWMutex
	streams map[uuid.UUID]*Stream
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		streams: make(map[uuid.UUID]*Stream),
	}
}

// Register installs the stream for a user and returns the handle it
// replaced, if any. Last register wins; the caller is responsible for
// closing the returned previous stream.
func (r *Registry) Register(userID uuid.UUID, s *Stream) *Stream {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.streams[userID]
	r.streams[userID] = s
	return prev
}

// Unregister removes the user's entry if it still refers to s. A stream
// that was already replaced by a newer register leaves the table untouched.
func (r *Registry) Unregister(userID uuid.UUID, s *Stream) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.streams[userID]; ok && cur == s {
		delete(r.streams, userID)
	}
}

// Lookup returns the live stream for a user, if one is open.
func (r *Registry) Lookup(userID uuid.UUID) (*Stream, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.streams[userID]
	return s, ok
}

// Len reports the number of open streams.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.streams)
}
