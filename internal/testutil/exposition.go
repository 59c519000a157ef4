// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fllarpy/sampleapp/domain/metrics"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
)

// ParseRequestCounters parses text exposition output with the Prometheus
// text parser and returns every sample of the named counter. It fails the
// test on invalid UTF-8, unparsable output, a missing label or a duplicate
// (method, endpoint) pair.
func ParseRequestCounters(t testing.TB, exposition, name string) map[metrics.CounterKey]uint64 {
	t.Helper()

	if !utf8.ValidString(exposition) {
		t.Fatalf("exposition is not valid UTF-8: %q", exposition)
	}

	counters := make(map[metrics.CounterKey]uint64)
	if exposition == "" {
		return counters
	}

	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(strings.NewReader(exposition))
	if err != nil {
		t.Fatalf("failed to parse exposition: %v", err)
	}

	family, ok := families[name]
	if !ok {
		return counters
	}
	for _, m := range family.GetMetric() {
		var key metrics.CounterKey
		var hasMethod, hasEndpoint bool
		for _, lp := range m.GetLabel() {
			switch lp.GetName() {
			case metrics.LabelMethod:
				key.Method, hasMethod = lp.GetValue(), true
			case metrics.LabelEndpoint:
				key.Endpoint, hasEndpoint = lp.GetValue(), true
			}
		}
		if !hasMethod || !hasEndpoint {
			t.Fatalf("sample of %s is missing a label: %v", name, m.GetLabel())
		}
		if _, dup := counters[key]; dup {
			t.Fatalf("duplicate sample for %s %s", key.Method, key.Endpoint)
		}
		counters[key] = uint64(m.GetCounter().GetValue())
	}
	return counters
}

// Key is shorthand for building a CounterKey in assertions.
func Key(method, endpoint string) metrics.CounterKey {
	return metrics.CounterKey{Method: method, Endpoint: endpoint}
}
