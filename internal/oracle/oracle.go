package oracle

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/observability"
)

// ErrEmptyQuery is returned by Ask for blank queries.
var ErrEmptyQuery = errors.New("empty query")

// TokenSource provides the tokens currently in view, newest first.
type TokenSource interface {
	Tokens() []domain.ObservedToken
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() []domain.ObservedToken

// Tokens calls f.
func (f TokenSourceFunc) Tokens() []domain.ObservedToken { return f() }

// DelayFunc returns how long to wait before replying.
type DelayFunc func() time.Duration

// Default presentation delay bounds.
const (
	DefaultMinDelay = 500 * time.Millisecond
	DefaultMaxDelay = 1500 * time.Millisecond
)

// UniformDelay returns a DelayFunc picking uniformly from [lo, hi).
// An hi not above lo yields a constant lo.
func UniformDelay(lo, hi time.Duration) DelayFunc {
	if hi <= lo {
		return func() time.Duration { return lo }
	}
	span := int64(hi - lo)
	return func() time.Duration {
		return lo + time.Duration(rand.Int64N(span))
	}
}

// NoDelay replies immediately.
func NoDelay() time.Duration { return 0 }

// Oracle answers queries against a live token source.
type Oracle struct {
	tokens TokenSource
	delay  DelayFunc
	logger *zap.SugaredLogger
}

// Options contains configuration for creating an Oracle.
type Options struct {
	Tokens TokenSource
	Delay  DelayFunc // Default: UniformDelay(DefaultMinDelay, DefaultMaxDelay)
	Logger *zap.SugaredLogger
}

// New creates an Oracle. A nil Tokens source behaves as an empty buffer.
func New(opts Options) *Oracle {
	tokens := opts.Tokens
	if tokens == nil {
		tokens = TokenSourceFunc(func() []domain.ObservedToken { return nil })
	}

	delay := opts.Delay
	if delay == nil {
		delay = UniformDelay(DefaultMinDelay, DefaultMaxDelay)
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	return &Oracle{tokens: tokens, delay: delay, logger: logger}
}

// Ask waits the presentation delay and then replies using the tokens in view
// at that moment. Returns ctx.Err() if ctx ends first.
func (o *Oracle) Ask(ctx context.Context, query string) (string, error) {
	if isBlank(query) {
		return "", ErrEmptyQuery
	}

	if d := o.delay(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	tokens := o.tokens.Tokens()
	intent, _ := Classify(query, tokens)
	observability.RecordOracleQuery(string(intent))
	o.logger.Debugw("[oracle] query answered", "intent", intent, "in_view", len(tokens))

	return Respond(query, tokens), nil
}
