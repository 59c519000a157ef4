package sampleapp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fllarpy/sampleapp/config"
	"github.com/fllarpy/sampleapp/infrastructure/storage"
	"github.com/fllarpy/sampleapp/internal/service"
	"github.com/fllarpy/sampleapp/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets the batch span processor and the test share a log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestApp_CountsRequests(t *testing.T) {
	for _, backend := range []string{storage.BackendPrometheus, storage.BackendInMemory} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Registry.Backend = backend

			app, err := New(cfg, zerolog.Nop(), WithLatency(service.NoLatency, service.NoLatency))
			require.NoError(t, err)

			srv := httptest.NewServer(app.Handler())
			defer srv.Close()

			get(t, srv.URL+"/")
			get(t, srv.URL+"/products")

			counters := testutil.ParseRequestCounters(t, get(t, srv.URL+"/metrics"), "sampleapp_requests_total")
			assert.Equal(t, uint64(1), counters[testutil.Key("GET", "/")])
			assert.Equal(t, uint64(1), counters[testutil.Key("GET", "/products")])
			assert.Len(t, app.Registry().Snapshot(), 3)
		})
	}
}

func TestApp_Tracing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tracing.Enabled = true

	var logs syncBuffer
	app, err := New(cfg, zerolog.New(&logs), WithLatency(service.NoLatency, service.NoLatency))
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	get(t, srv.URL+"/products")

	// The server span ends after the response is flushed to the client.
	require.Eventually(t, func() bool {
		_ = app.tp.ForceFlush(context.Background())
		return strings.Contains(logs.String(), `"span":"GET /products"`)
	}, 2*time.Second, 20*time.Millisecond)
	assert.Contains(t, logs.String(), `"status":200`)

	counters := testutil.ParseRequestCounters(t, get(t, srv.URL+"/metrics"), "sampleapp_requests_total")
	assert.Equal(t, uint64(1), counters[testutil.Key("GET", "/products")], "tracing must not change counting")

	app.Shutdown(context.Background())
}

func TestApp_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Registry.Backend = "etcd"

	_, err := New(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, storage.ErrUnknownBackend)
}
