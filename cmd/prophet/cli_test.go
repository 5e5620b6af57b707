package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--env-file", ""}, args...))

	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// newFakeFeed serves frames to every connection after the subscription
// request, then holds the connection open.
func newFakeFeed(t *testing.T, frames ...string) string {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestConfigPrintsDefaults(t *testing.T) {
	stdout, _, err := executeCLI(t, context.Background(), "", "config")
	require.NoError(t, err)

	assert.Contains(t, stdout, "[feed]")
	assert.Contains(t, stdout, "wss://pumpportal.fun/api/data")
	assert.Contains(t, stdout, "3s")
	assert.Contains(t, stdout, "PROPHET...XXXXX")
}

func TestConfigFlagAndEnvOverrides(t *testing.T) {
	t.Setenv("PROPHET_SITE_X_LINK", "https://x.com/example")

	stdout, _, err := executeCLI(t, context.Background(), "",
		"--feed-url", "ws://localhost:9000/data",
		"--reconnect-delay", "7s",
		"config",
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "ws://localhost:9000/data")
	assert.Contains(t, stdout, "7s")
	assert.Contains(t, stdout, "https://x.com/example")
}

func TestInvalidFeedURLRejected(t *testing.T) {
	_, _, err := executeCLI(t, context.Background(), "", "--feed-url", "http://example.com", "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be ws or wss")
}

func TestChatOffline(t *testing.T) {
	t.Setenv("PROPHET_ORACLE_MIN_DELAY", "0s")
	t.Setenv("PROPHET_ORACLE_MAX_DELAY", "0s")

	stdout, _, err := executeCLI(t, context.Background(), "recent launches\n\nhow does it work\nquit\nignored\n",
		"chat", "--offline")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Welcome to the Prophecy Oracle.")
	assert.Contains(t, stdout, "Scanning for new launches... Stand by.")
	assert.Contains(t, stdout, "0 recent tokens in view.")
	assert.NotContains(t, stdout, "ignored")
}

func TestChatEndsOnEOF(t *testing.T) {
	t.Setenv("PROPHET_ORACLE_MAX_DELAY", "0s")
	t.Setenv("PROPHET_ORACLE_MIN_DELAY", "0s")

	_, _, err := executeCLI(t, context.Background(), "", "chat", "--offline")
	assert.NoError(t, err)
}

func TestTailPrintsAcceptedTokens(t *testing.T) {
	feedURL := newFakeFeed(t,
		`{"message":"Successfully subscribed to token creation events."}`,
		`{"mint":"MintAAAAAAAAAAAA1111","name":"Alpha","symbol":"AAA"}`,
		`{"mint":"","name":"Dropped"}`,
		`{"mint":"MintBBBBBBBBBBBB2222","name":"Beta","symbol":"BBB"}`,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stdout, _, err := executeCLI(t, ctx, "", "--feed-url", feedURL, "tail", "--limit", "2")
	require.NoError(t, err)
	require.NoError(t, ctx.Err(), "tail should exit after the limit")

	assert.Contains(t, stdout, "feed connecting")
	assert.Contains(t, stdout, "feed LIVE")
	assert.Contains(t, stdout, "$AAA")
	assert.Contains(t, stdout, "$BBB")
	assert.Contains(t, stdout, "MintAA...1111")
	assert.NotContains(t, stdout, "Dropped")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	feedURL := newFakeFeed(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, _, err := executeCLI(t, ctx, "", "--feed-url", feedURL, "serve", "--addr", "127.0.0.1:0")
		errCh <- err
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
