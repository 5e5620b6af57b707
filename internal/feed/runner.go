package feed

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/observability"
	"prophet-ai/internal/pumpportal"
)

// Discard reasons reported to metrics.
const (
	reasonMalformed     = "malformed"
	reasonMissingFields = "missing_fields"
)

// Runner owns the feed connection and the display buffer.
// Buffer mutation happens only on the client's message path.
type Runner struct {
	client pumpportal.FeedClient
	buffer *Buffer
	now    func() time.Time
	logger *zap.SugaredLogger

	mu       sync.Mutex
	started  bool
	stopped  atomic.Bool
	onAccept func(domain.ObservedToken)
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Client pumpportal.FeedClient
	Buffer *Buffer          // Default: NewBuffer(domain.BufferCapacity)
	Now    func() time.Time // Default: time.Now
	Logger *zap.SugaredLogger
	// OnAccept is called after a token enters the buffer, on the message path.
	OnAccept func(domain.ObservedToken)
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	buffer := opts.Buffer
	if buffer == nil {
		buffer = NewBuffer(domain.BufferCapacity)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	return &Runner{
		client:   opts.Client,
		buffer:   buffer,
		now:      now,
		logger:   logger,
		onAccept: opts.OnAccept,
	}
}

// Start connects the feed. It does not block.
func (r *Runner) Start() error {
	if r.client == nil {
		return errors.New("feed runner has no client")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped.Load() {
		return pumpportal.ErrClientClosed
	}
	if r.started {
		return pumpportal.ErrAlreadyStarted
	}
	r.started = true

	r.logger.Info("[ingestion] starting feed")
	return r.client.Start(r.HandleMessage)
}

// Stop closes the feed connection and cancels any pending reconnect.
// The buffer is not modified after Stop returns.
func (r *Runner) Stop() error {
	if r.stopped.Swap(true) {
		return nil
	}
	r.logger.Info("[ingestion] stopping feed")
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// HandleMessage processes one raw feed frame. Frames that fail to parse or
// lack a mint or name are dropped; they are expected traffic, not errors.
func (r *Runner) HandleMessage(raw []byte) {
	if r.stopped.Load() {
		return
	}
	start := time.Now()
	observability.RecordFrameReceived()

	frame, err := pumpportal.ParseNewTokenFrame(raw)
	if err != nil {
		reason := reasonMissingFields
		if errors.Is(err, pumpportal.ErrMalformedFrame) {
			reason = reasonMalformed
		}
		observability.RecordFrameDiscarded(reason)
		r.logger.Debugw("[ingestion] frame discarded", "reason", reason, "err", err)
		return
	}

	token := domain.NewObservedToken(frame.Mint, frame.Name, frame.Symbol, frame.URI, r.now())
	size := r.buffer.Push(token)

	observability.RecordTokenObserved(token, size)
	observability.RecordFrameLatency(time.Since(start).Seconds())
	r.logger.Debugw("[ingestion] token observed", "mint", token.Mint, "symbol", token.Symbol)

	if r.onAccept != nil {
		r.onAccept(token)
	}
}

// Tokens returns the buffered tokens, newest first.
func (r *Runner) Tokens() []domain.ObservedToken {
	return r.buffer.Snapshot()
}

// State returns the feed connection state.
func (r *Runner) State() domain.ConnState {
	if r.client == nil {
		return domain.ConnDisconnected
	}
	return r.client.State()
}
