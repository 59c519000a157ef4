package domain

import (
	"net/http"

	"github.com/fllarpy/sampleapp/domain/metrics"
)

// CounterWriter defines the contract for recording observed requests.
type CounterWriter interface {
	// Increment adds one to the counter for the (method, endpoint) pair,
	// creating it with an initial value of zero if it does not exist yet.
	Increment(method, endpoint string)
}

// CounterReader defines the contract for reading the current counter state.
type CounterReader interface {
	// Snapshot returns a sorted, read-only copy of every counter.
	Snapshot() []metrics.CounterSample
	// Export serializes every counter in the text exposition format.
	Export() ([]byte, error)
	// ContentType is the media type of the Export output.
	ContentType() string
}

// Registry is the combined interface for a request counter registry.
// Implementations must be safe for concurrent use.
type Registry interface {
	CounterWriter
	CounterReader
}

// Reporter is implemented by registries that serve their own exposition
// handler, e.g. one with content negotiation.
type Reporter interface {
	Handler() http.Handler
}
