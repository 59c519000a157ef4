package metrics

import (
	"cmp"
	"slices"
	"strings"
)

// MetricName is the un-namespaced name of the request counter.
const MetricName = "requests_total"

// MetricHelp is the help text published with the request counter.
const MetricHelp = "Track the total number of requests"

// Label names attached to every counter entry.
const (
	LabelMethod   = "method"
	LabelEndpoint = "endpoint"
)

// CounterKey identifies a counter entry.
type CounterKey struct {
	Method   string `json:"method"`
	Endpoint string `json:"endpoint"`
}

// NewCounterKey builds a key whose labels are valid UTF-8. Invalid byte
// sequences are replaced with U+FFFD, since the exposition format only
// carries UTF-8 label values.
func NewCounterKey(method, endpoint string) CounterKey {
	return CounterKey{
		Method:   strings.ToValidUTF8(method, "\uFFFD"),
		Endpoint: strings.ToValidUTF8(endpoint, "\uFFFD"),
	}
}

// CounterSample is a read-only copy of a single counter entry.
type CounterSample struct {
	CounterKey
	Value uint64 `json:"value"`
}

// SortSamples orders samples by endpoint, then method.
func SortSamples(samples []CounterSample) {
	slices.SortFunc(samples, func(a, b CounterSample) int {
		return cmp.Or(
			cmp.Compare(a.Endpoint, b.Endpoint),
			cmp.Compare(a.Method, b.Method),
		)
	})
}

// FullName joins a namespace and MetricName the way Prometheus does.
func FullName(namespace string) string {
	if namespace == "" {
		return MetricName
	}
	return namespace + "_" + MetricName
}
