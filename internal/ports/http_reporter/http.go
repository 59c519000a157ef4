package http_reporter

import (
	"encoding/json"
	"net/http"

	"github.com/fllarpy/sampleapp/domain"
	"github.com/fllarpy/sampleapp/domain/metrics"
	"github.com/rs/zerolog"
)

// NewHandler creates an HTTP handler that serves the registry in the text
// exposition format. Registries that bring their own handler (domain.Reporter)
// are served through it.
func NewHandler(reader domain.CounterReader, logger zerolog.Logger) http.Handler {
	if reporter, ok := reader.(domain.Reporter); ok {
		return reporter.Handler()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out, err := reader.Export()
		if err != nil {
			logger.Error().Err(err).Msg("failed to export metrics")
			http.Error(w, "Failed to export metrics", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", reader.ContentType())
		if _, err := w.Write(out); err != nil {
			logger.Debug().Err(err).Msg("failed to write metrics response")
		}
	})
}

// snapshot is the JSON document served by NewJSONHandler.
type snapshot struct {
	Requests []metrics.CounterSample `json:"requests"`
	Total    uint64                  `json:"total"`
}

// NewJSONHandler creates an HTTP handler that serves a snapshot of every
// counter as JSON.
func NewJSONHandler(reader domain.CounterReader, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := snapshot{Requests: reader.Snapshot()}
		if doc.Requests == nil {
			doc.Requests = []metrics.CounterSample{}
		}
		for _, sample := range doc.Requests {
			doc.Total += sample.Value
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			logger.Error().Err(err).Msg("failed to encode metrics snapshot")
		}
	})
}
