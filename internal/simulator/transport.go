package simulator

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Transport is an http.RoundTripper that logs every request it executes.
type Transport struct {
	// Base is the underlying RoundTripper to execute the request.
	// If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	logger zerolog.Logger
}

// NewTransport creates a new Transport logging to logger.
func NewTransport(base http.RoundTripper, logger zerolog.Logger) *Transport {
	return &Transport{
		Base:   base,
		logger: logger,
	}
}

// RoundTrip executes a single HTTP transaction and logs its outcome at
// debug level. Transport errors are returned unchanged; the caller decides
// how loudly to report them.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request sent")
	return resp, nil
}
