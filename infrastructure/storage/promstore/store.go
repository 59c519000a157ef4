package promstore

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/fllarpy/sampleapp/domain"
	"github.com/fllarpy/sampleapp/domain/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
)

var (
	_ domain.Registry = (*Store)(nil)
	_ domain.Reporter = (*Store)(nil)
)

// Options configures a Store.
type Options struct {
	// Namespace prefixes the counter name, e.g. "sampleapp" gives
	// sampleapp_requests_total.
	Namespace string
	// RuntimeCollectors adds the Go runtime and process collectors to the
	// registry, so the exposition carries more than the request counter.
	RuntimeCollectors bool
	// Logger receives errors from the exposition handler.
	Logger zerolog.Logger
}

// Store is a request counter registry backed by a private
// prometheus.Registry. Nothing is registered with the default registerer,
// so any number of stores can live in one process.
type Store struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	logger   zerolog.Logger
}

// NewStore creates a Store and registers its collectors.
func NewStore(opts Options) (*Store, error) {
	s := &Store{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      metrics.MetricName,
			Help:      metrics.MetricHelp,
		}, []string{metrics.LabelMethod, metrics.LabelEndpoint}),
		logger: opts.Logger,
	}

	if err := s.registry.Register(s.requests); err != nil {
		return nil, fmt.Errorf("failed to register request counter: %w", err)
	}
	if opts.RuntimeCollectors {
		if err := s.registry.Register(collectors.NewGoCollector()); err != nil {
			return nil, fmt.Errorf("failed to register go collector: %w", err)
		}
		if err := s.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return nil, fmt.Errorf("failed to register process collector: %w", err)
		}
	}
	return s, nil
}

// Increment records one request for the (method, endpoint) pair.
// CounterVec creates the child on first use and increments it atomically.
// Labels go through metrics.NewCounterKey because WithLabelValues panics on
// invalid UTF-8.
func (s *Store) Increment(method, endpoint string) {
	key := metrics.NewCounterKey(method, endpoint)
	s.requests.WithLabelValues(key.Method, key.Endpoint).Inc()
}

// Snapshot returns a sorted copy of every request counter.
func (s *Store) Snapshot() []metrics.CounterSample {
	ch := make(chan prometheus.Metric)
	go func() {
		s.requests.Collect(ch)
		close(ch)
	}()

	var samples []metrics.CounterSample
	for m := range ch {
		var pb dto.Metric
		if err := m.Write(&pb); err != nil {
			s.logger.Error().Err(err).Msg("failed to read request counter")
			continue
		}
		sample := metrics.CounterSample{Value: uint64(pb.GetCounter().GetValue())}
		for _, lp := range pb.GetLabel() {
			switch lp.GetName() {
			case metrics.LabelMethod:
				sample.Method = lp.GetValue()
			case metrics.LabelEndpoint:
				sample.Endpoint = lp.GetValue()
			}
		}
		samples = append(samples, sample)
	}

	metrics.SortSamples(samples)
	return samples
}

// Export gathers the registry and encodes it in the Prometheus text format.
func (s *Store) Export() ([]byte, error) {
	families, err := s.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", family.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}

// ContentType returns the media type of the Export output.
func (s *Store) ContentType() string {
	return string(expfmt.NewFormat(expfmt.TypeTextPlain))
}

// Handler serves the registry with promhttp, which negotiates the
// exposition format with the scraper.
func (s *Store) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog:      promLogger{s.logger},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// promLogger adapts zerolog to promhttp.Logger.
type promLogger struct {
	logger zerolog.Logger
}

func (l promLogger) Println(v ...interface{}) {
	l.logger.Error().Msg(fmt.Sprint(v...))
}
