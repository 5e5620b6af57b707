package stub

import (
	"errors"
	"sync"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/pumpportal"
)

// StubFeedClient is an in-memory feed for testing.
// Frames are injected with Emit and delivered synchronously to the handler.
// Implements pumpportal.FeedClient interface.
type StubFeedClient struct {
	mu      sync.Mutex
	handler pumpportal.MessageHandler
	state   domain.ConnState
	started bool
	closed  bool
}

// NewStubFeedClient creates a disconnected stub client.
func NewStubFeedClient() *StubFeedClient {
	return &StubFeedClient{}
}

// Start records the handler and reports connected.
func (s *StubFeedClient) Start(handler pumpportal.MessageHandler) error {
	if handler == nil {
		return errors.New("nil message handler")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return pumpportal.ErrClientClosed
	}
	if s.started {
		return pumpportal.ErrAlreadyStarted
	}
	s.started = true
	s.handler = handler
	s.state = domain.ConnConnected
	return nil
}

// Emit delivers raw to the handler. Returns false once closed or before Start.
func (s *StubFeedClient) Emit(raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.handler == nil {
		return false
	}
	s.handler([]byte(raw))
	return true
}

// SetState forces the reported connection state.
func (s *StubFeedClient) SetState(state domain.ConnState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// State returns the reported connection state.
func (s *StubFeedClient) State() domain.ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close stops delivery.
func (s *StubFeedClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.state = domain.ConnDisconnected
	return nil
}

// Closed reports whether Close was called.
func (s *StubFeedClient) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var _ pumpportal.FeedClient = (*StubFeedClient)(nil)
