package nahiri

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		WithDimension(3).
		WithCount(10)

	l.LogBuild(ctx, 10, 3, time.Millisecond, nil)
	assert.Contains(t, buf.String(), "build completed")
	assert.Contains(t, buf.String(), "dimension=3")
	assert.Contains(t, buf.String(), "count=10")

	buf.Reset()
	l.LogBuild(ctx, 0, 3, 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")

	buf.Reset()
	l.LogQuery(ctx, "k", 5, true, 3)
	assert.Contains(t, buf.String(), "results=3")

	buf.Reset()
	l.LogSearch(ctx, 5, 2, nil)
	assert.Contains(t, buf.String(), "search completed")

	// Must not panic or write anywhere.
	NoopLogger().LogBuild(ctx, 1, 1, 0, errors.New("ignored"))
	assert.NotNil(t, NewLogger(nil))
	assert.NotNil(t, NewJSONLogger(slog.LevelWarn))
	assert.NotNil(t, NewTextLogger(slog.LevelWarn))
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	mc.RecordBuild(1, time.Second, nil)
	mc.RecordQuery(true, 1, time.Second)
	mc.RecordSearch(1, time.Second, nil)
}

func TestBasicMetricsCollectorAverages(t *testing.T) {
	b := &BasicMetricsCollector{}
	assert.Equal(t, int64(0), b.GetStats().QueryAvgNanos)

	b.RecordQuery(true, 2, 10*time.Nanosecond)
	b.RecordQuery(true, 2, 30*time.Nanosecond)
	b.RecordSearch(3, 8*time.Nanosecond, nil)

	st := b.GetStats()
	assert.Equal(t, int64(20), st.QueryAvgNanos)
	assert.Equal(t, int64(4), st.QueryResults)
	assert.Equal(t, int64(8), st.SearchAvgNanos)
}
