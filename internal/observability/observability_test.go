package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"prophet-ai/internal/domain"
)

func TestNewMetrics_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.FramesReceived.Inc()
	m.FramesDiscarded.WithLabelValues("missing_fields").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesReceived))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesDiscarded.WithLabelValues("missing_fields")))

	count, err := testutil.GatherAndCount(reg, "test_feed_frames_received_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSetConnState_OneHot(t *testing.T) {
	SetConnState(domain.ConnConnecting)
	assert.Equal(t, 1.0, testutil.ToFloat64(DefaultMetrics.ConnectionState.WithLabelValues("connecting")))
	assert.Equal(t, 0.0, testutil.ToFloat64(DefaultMetrics.ConnectionState.WithLabelValues("connected")))

	SetConnState(domain.ConnConnected)
	assert.Equal(t, 0.0, testutil.ToFloat64(DefaultMetrics.ConnectionState.WithLabelValues("connecting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(DefaultMetrics.ConnectionState.WithLabelValues("connected")))
}

func TestRecordTokenObserved(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.TokensObserved)
	tok := domain.NewObservedToken("mint", "Foo", "FOO", "", time.Unix(1704067200, 0))

	RecordTokenObserved(tok, 3)

	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.TokensObserved))
	assert.Equal(t, 3.0, testutil.ToFloat64(DefaultMetrics.BufferSize))
	assert.Equal(t, 1704067200.0, testutil.ToFloat64(DefaultMetrics.LastTokenObserved))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("dev", "debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("prod", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("prod", "loud")
	assert.Error(t, err)
}

func TestInitTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "test", NopLogger())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()

	_, span := StartSpan(context.Background(), "noop")
	EndSpan(span, nil)
}
