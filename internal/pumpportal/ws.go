package pumpportal

import "prophet-ai/internal/domain"

// MessageHandler receives every inbound text frame.
// It is called from a single goroutine at a time.
type MessageHandler func(raw []byte)

// FeedClient defines the live feed connection used by the ingestion runner.
type FeedClient interface {
	// Start connects and keeps reconnecting until Close is called.
	Start(handler MessageHandler) error

	// State returns the current connection state.
	State() domain.ConnState

	// Close tears down the connection and any pending reconnect.
	Close() error
}
