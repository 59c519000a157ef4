package http_middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fllarpy/sampleapp/domain/metrics"
	"github.com/fllarpy/sampleapp/infrastructure/storage/inmemory"
	"github.com/fllarpy/sampleapp/internal/testutil"
	"github.com/stretchr/testify/assert"
)

// orderingCounter records whether the increment happened before the handler ran.
type orderingCounter struct {
	mu    sync.Mutex
	calls []string
}

func (c *orderingCounter) Increment(method, endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "increment "+method+" "+endpoint)
}

func TestCountRequests(t *testing.T) {
	t.Run("counts every method and path", func(t *testing.T) {
		store := inmemory.NewStore("test")
		handler := CountRequests(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		requests := []struct {
			method string
			target string
		}{
			{http.MethodGet, "/"},
			{http.MethodGet, "/"},
			{http.MethodGet, "/products?page=2"},
			{http.MethodPost, "/order"},
			{http.MethodDelete, "/missing"},
		}
		for _, req := range requests {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(req.method, req.target, nil))
			assert.Equal(t, http.StatusTeapot, rr.Code, "the wrapped handler's response must pass through")
		}

		assert.Equal(t, []metrics.CounterSample{
			{CounterKey: testutil.Key("GET", "/"), Value: 2},
			{CounterKey: testutil.Key("DELETE", "/missing"), Value: 1},
			{CounterKey: testutil.Key("POST", "/order"), Value: 1},
			{CounterKey: testutil.Key("GET", "/products"), Value: 1},
		}, store.Snapshot(), "the query string is not part of the endpoint label")
	})

	t.Run("endpoint is the path as sent on the wire", func(t *testing.T) {
		store := inmemory.NewStore("test")
		handler := CountRequests(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		for _, target := range []string{"/%FF", "/caf%C3%A9", "/a%2Fb", "/%FF"} {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
		}

		assert.Equal(t, []metrics.CounterSample{
			{CounterKey: testutil.Key("GET", "/%FF"), Value: 2},
			{CounterKey: testutil.Key("GET", "/a%2Fb"), Value: 1},
			{CounterKey: testutil.Key("GET", "/caf%C3%A9"), Value: 1},
		}, store.Snapshot(), "percent-encoded bytes are kept, not decoded")
	})

	t.Run("increments before the handler runs", func(t *testing.T) {
		counter := &orderingCounter{}
		handler := CountRequests(counter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			counter.mu.Lock()
			defer counter.mu.Unlock()
			counter.calls = append(counter.calls, "handler")
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, []string{"increment GET /metrics", "handler"}, counter.calls)
	})

	t.Run("nil counter is a no-op", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		CountRequests(nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, called)
	})

	t.Run("concurrent requests", func(t *testing.T) {
		store := inmemory.NewStore("test")
		handler := CountRequests(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		const n = 500
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			}()
		}
		wg.Wait()

		assert.Equal(t, []metrics.CounterSample{{CounterKey: testutil.Key("GET", "/"), Value: n}}, store.Snapshot())
	})
}
