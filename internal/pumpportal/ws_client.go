package pumpportal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/observability"
)

var (
	// ErrClientClosed is returned when starting a client after Close.
	ErrClientClosed = errors.New("client closed")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("client already started")
)

// WSClientConfig configures WebSocket client behavior.
type WSClientConfig struct {
	// ReconnectDelay is the fixed delay between a failure and the next attempt.
	ReconnectDelay time.Duration
	// HandshakeTimeout bounds the opening handshake.
	HandshakeTimeout time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is how long the connection may stay silent (pongs included).
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// OnStateChange is called on every state transition while the client
	// lock is held. It must not call back into the client.
	OnStateChange func(domain.ConnState)
	// Logger defaults to a no-op logger.
	Logger *zap.SugaredLogger
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		ReconnectDelay:   3 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		ReadTimeout:      60 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// withDefaults fills zero durations in cfg from def.
func withDefaults(cfg, def WSClientConfig) WSClientConfig {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = def.ReconnectDelay
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	return cfg
}

// WSClient implements FeedClient using gorilla/websocket.
//
// Lifecycle: disconnected -> connecting -> connected -> disconnected (on any
// transport failure) -> connecting (after ReconnectDelay), indefinitely until
// Close. At most one connection and one reconnect timer exist at a time.
type WSClient struct {
	endpoint string
	config   WSClientConfig
	logger   *zap.SugaredLogger

	// ctx is cancelled by Close to abort an in-flight dial.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    domain.ConnState
	conn     *websocket.Conn
	timer    *time.Timer
	timerSeq uint64
	gen      uint64 // connection attempt generation
	handler  MessageHandler
	started  bool
	closed   atomic.Bool

	wg sync.WaitGroup
}

// NewWSClient creates a client for endpoint. Nothing is dialled until Start.
func NewWSClient(endpoint string, config *WSClientConfig) *WSClient {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = withDefaults(*config, cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WSClient{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the first connection attempt and returns immediately.
func (c *WSClient) Start(handler MessageHandler) error {
	if handler == nil {
		return errors.New("nil message handler")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return ErrClientClosed
	}
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true
	c.handler = handler
	c.beginAttemptLocked()
	return nil
}

// State returns the current connection state.
func (c *WSClient) State() domain.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close closes the connection, cancels any pending reconnect and waits for
// all client goroutines. The handler is never called after Close returns.
func (c *WSClient) Close() error {
	c.mu.Lock()
	if c.closed.Swap(true) {
		c.mu.Unlock()
		return nil
	}

	c.cancel()

	if c.timer != nil {
		if c.timer.Stop() {
			c.wg.Done()
		}
		c.timer = nil
	}

	if c.conn != nil {
		deadline := time.Now().Add(c.config.WriteTimeout)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.conn.Close()
		c.conn = nil
	}

	c.setStateLocked(domain.ConnDisconnected)
	c.mu.Unlock()

	c.wg.Wait()
	c.logger.Info("[ws] closed")
	return nil
}

// beginAttemptLocked moves to connecting and dials in the background.
func (c *WSClient) beginAttemptLocked() {
	c.gen++
	gen := c.gen
	c.setStateLocked(domain.ConnConnecting)

	c.wg.Add(1)
	go c.dial(gen)
}

// dial establishes the connection and sends the subscription request.
func (c *WSClient) dial(gen uint64) {
	defer c.wg.Done()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.config.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(c.ctx, c.endpoint, nil)
	if err != nil {
		if !c.closed.Load() {
			c.logger.Warnw("[ws] dial failed", "endpoint", c.endpoint, "err", err)
		}
		c.dropConnection(gen)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() || gen != c.gen {
		conn.Close()
		return
	}

	c.conn = conn
	c.setStateLocked(domain.ConnConnected)

	if err := c.subscribeLocked(conn); err != nil {
		c.logger.Warnw("[ws] subscribe failed", "err", err)
		c.dropConnectionLocked(gen)
		return
	}
	c.logger.Infow("[ws] subscribed", "method", MethodSubscribeNewToken)

	done := make(chan struct{})
	c.wg.Add(2)
	go c.readLoop(conn, gen, done)
	go c.pingLoop(conn, done)
}

// subscribeLocked writes the subscription request on conn.
func (c *WSClient) subscribeLocked(conn *websocket.Conn) error {
	payload, err := encodeSubscribe(MethodSubscribeNewToken)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// readLoop delivers text frames to the handler until the connection fails.
func (c *WSClient) readLoop(conn *websocket.Conn, gen uint64, done chan struct{}) {
	defer c.wg.Done()
	defer close(done)

	conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	})

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				c.logger.Warnw("[ws] connection lost", "err", err)
			}
			c.dropConnection(gen)
			return
		}
		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		if c.closed.Load() {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		c.handler(message)
	}
}

// pingLoop sends periodic ping frames to keep connection alive.
func (c *WSClient) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.config.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				// reader will notice the dead connection
				c.logger.Debugw("[ws] ping failed", "err", err)
				return
			}
		}
	}
}

func (c *WSClient) dropConnection(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropConnectionLocked(gen)
}

// dropConnectionLocked handles a transport failure of attempt gen.
// Failures reported by stale attempts are ignored.
func (c *WSClient) dropConnectionLocked(gen uint64) {
	if c.closed.Load() || gen != c.gen {
		return
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.setStateLocked(domain.ConnDisconnected)
	c.scheduleReconnectLocked()
}

// scheduleReconnectLocked arms the single reconnect timer, replacing any
// pending one.
func (c *WSClient) scheduleReconnectLocked() {
	if c.timer != nil && c.timer.Stop() {
		c.wg.Done()
	}

	c.timerSeq++
	seq := c.timerSeq

	c.wg.Add(1)
	c.timer = time.AfterFunc(c.config.ReconnectDelay, func() {
		c.reconnect(seq)
	})

	observability.RecordReconnectScheduled()
	c.logger.Infow("[ws] reconnect scheduled", "delay", c.config.ReconnectDelay)
}

func (c *WSClient) reconnect(seq uint64) {
	defer c.wg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() || seq != c.timerSeq {
		return
	}
	c.timer = nil
	c.beginAttemptLocked()
}

func (c *WSClient) setStateLocked(s domain.ConnState) {
	if c.state == s {
		return
	}
	c.state = s
	observability.SetConnState(s)
	c.logger.Debugw("[ws] state changed", "state", s.String())

	if c.config.OnStateChange != nil {
		c.config.OnStateChange(s)
	}
}

var _ FeedClient = (*WSClient)(nil)
