package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VirgileHenry/nahiri"
	"github.com/VirgileHenry/nahiri/codec"
	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/observability"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	rows, err := readDataset(strings.NewReader(testDataset), codec.GoJSON{})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := observability.NewPrometheusCollector(func(o *observability.Options) {
		o.Registerer = reg
	})

	db, err := nahiri.New(toPoints(rows), recordKey,
		nahiri.WithDimension(2),
		nahiri.WithMetric(distance.MetricSquaredL2),
		nahiri.WithCapacities(2, 1, 1, 1),
		nahiri.WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(newHandler(db, codec.GoJSON{}, reg))
	t.Cleanup(srv.Close)

	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()

	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestHandler(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{name: "neighbors", path: "/neighbors?key=a&k=1", status: http.StatusOK, body: `{"results":[{"key":"b"}]}`},
		{name: "neighbors default k", path: "/neighbors?key=d", status: http.StatusOK, body: `{"results":[{"key":"e"},{"key":"c"}]}`},
		{name: "neighbors zero k", path: "/neighbors?key=d&k=0", status: http.StatusOK, body: `{"results":[]}`},
		{name: "unknown key", path: "/neighbors?key=zzz", status: http.StatusNotFound, body: `{"error":"key \"zzz\" not found"}`},
		{name: "missing key", path: "/neighbors", status: http.StatusBadRequest, body: `{"error":"missing key"}`},
		{name: "bad k", path: "/neighbors?key=a&k=ten", status: http.StatusBadRequest, body: `{"error":"invalid k \"ten\""}`},
		{name: "closest", path: "/closest?k=1&vector=" + url.QueryEscape("[5,4.5]"), status: http.StatusOK, body: `{"results":[{"key":"d"}]}`},
		{name: "closest missing vector", path: "/closest", status: http.StatusBadRequest, body: `{"error":"missing vector"}`},
		{name: "closest wrong dimension", path: "/closest?vector=" + url.QueryEscape("[1]"), status: http.StatusBadRequest, body: `{"error":"dimension mismatch: expected 2, got 1"}`},
		{name: "closest overflow", path: "/closest?vector=" + url.QueryEscape("[1e39,1]"), status: http.StatusBadRequest, body: `{"error":"decode vector (go-json): component 0: value out of float32 range"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, srv, tt.path)
			assert.Equal(t, tt.status, status)
			assert.JSONEq(t, tt.body, body)
		})
	}

	status, body := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "nahiri_queries_total")
	assert.Contains(t, body, "nahiri_build_points_total 5")
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, http.NotFoundHandler()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
