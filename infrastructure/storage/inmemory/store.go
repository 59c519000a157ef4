package inmemory

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fllarpy/sampleapp/domain"
	"github.com/fllarpy/sampleapp/domain/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Store is a thread-safe in-memory request counter registry.
// It implements the domain.Registry interface.
var _ domain.Registry = (*Store)(nil)

type Store struct {
	name string

	mu       sync.RWMutex
	counters map[metrics.CounterKey]*atomic.Uint64
}

// NewStore creates an empty Store whose counter is published as
// <namespace>_requests_total.
func NewStore(namespace string) *Store {
	return &Store{
		name:     metrics.FullName(namespace),
		counters: make(map[metrics.CounterKey]*atomic.Uint64),
	}
}

// Increment records one request for the (method, endpoint) pair.
func (s *Store) Increment(method, endpoint string) {
	s.counter(metrics.NewCounterKey(method, endpoint)).Add(1)
}

// counter returns the entry for key, creating it under the write lock if
// it is not present yet. The fast path only takes the read lock.
func (s *Store) counter(key metrics.CounterKey) *atomic.Uint64 {
	s.mu.RLock()
	c, ok := s.counters[key]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.counters[key]; !ok {
		c = new(atomic.Uint64)
		s.counters[key] = c
	}
	return c
}

// Snapshot returns a sorted copy of every counter.
func (s *Store) Snapshot() []metrics.CounterSample {
	s.mu.RLock()
	samples := make([]metrics.CounterSample, 0, len(s.counters))
	for key, c := range s.counters {
		samples = append(samples, metrics.CounterSample{CounterKey: key, Value: c.Load()})
	}
	s.mu.RUnlock()

	metrics.SortSamples(samples)
	return samples
}

// Export encodes the counters in the Prometheus text format.
func (s *Store) Export() ([]byte, error) {
	family := s.family()
	if len(family.Metric) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	if err := enc.Encode(family); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", s.name, err)
	}
	return buf.Bytes(), nil
}

// ContentType returns the media type of the Export output.
func (s *Store) ContentType() string {
	return string(expfmt.NewFormat(expfmt.TypeTextPlain))
}

// family builds the MetricFamily for the current counter values. Label pairs
// are emitted in name order, which is what the text encoder expects.
func (s *Store) family() *dto.MetricFamily {
	samples := s.Snapshot()
	family := &dto.MetricFamily{
		Name:   ptr(s.name),
		Help:   ptr(metrics.MetricHelp),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: make([]*dto.Metric, 0, len(samples)),
	}
	for _, sample := range samples {
		family.Metric = append(family.Metric, &dto.Metric{
			Label: []*dto.LabelPair{
				{Name: ptr(metrics.LabelEndpoint), Value: ptr(sample.Endpoint)},
				{Name: ptr(metrics.LabelMethod), Value: ptr(sample.Method)},
			},
			Counter: &dto.Counter{Value: ptr(float64(sample.Value))},
		})
	}
	return family
}

func ptr[T any](v T) *T {
	return &v
}
