// Package simulator generates load against the demo service: an endless
// sequence of rounds, each a random burst of index and product reads followed
// by a single order.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fllarpy/sampleapp/config"
	"github.com/rs/zerolog"
)

// Burst bounds, inclusive.
const (
	MaxIndexRequests   = 10
	MaxProductRequests = 5
)

// orderForm is the body posted to /order.
var orderForm = url.Values{"test": {"value"}}

// Round summarizes one iteration of the load loop.
type Round struct {
	Index    int
	Products int
	Orders   int
	Failures int
}

// Requests is the number of requests the round issued.
func (r Round) Requests() int {
	return r.Index + r.Products + r.Orders
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithHTTPClient replaces the default client. Its transport is used as is.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Simulator) { s.client = client }
}

// WithRand sets the random source for burst sizes.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

// Simulator issues randomized bursts of requests against a target service.
// It is not safe for concurrent use.
type Simulator struct {
	target string
	client *http.Client
	rng    *rand.Rand
	logger zerolog.Logger
}

// New returns a Simulator for cfg.Target.
func New(cfg config.SimulatorConfig, logger zerolog.Logger, opts ...Option) (*Simulator, error) {
	target, err := url.Parse(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid simulator target %q: %w", cfg.Target, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid simulator target %q: scheme and host are required", cfg.Target)
	}

	s := &Simulator{
		target: strings.TrimSuffix(target.String(), "/"),
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: NewTransport(nil, logger),
		},
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes rounds back to back until ctx is cancelled. Failed requests
// are logged and do not stop the loop.
func (s *Simulator) Run(ctx context.Context) error {
	s.logger.Info().Str("target", s.target).Msg("simulator started")

	var rounds, requests, failures int
	for ctx.Err() == nil {
		round := s.Round(ctx)
		rounds++
		requests += round.Requests()
		failures += round.Failures

		s.logger.Debug().
			Int("round", rounds).
			Int("index", round.Index).
			Int("products", round.Products).
			Int("orders", round.Orders).
			Int("failures", round.Failures).
			Msg("round finished")
	}

	s.logger.Info().
		Int("rounds", rounds).
		Int("requests", requests).
		Int("failures", failures).
		Msg("simulator stopped")
	return nil
}

// Round issues n GET / (n in [1,10]), m GET /products (m in [1,5]) and one
// POST /order, sequentially.
func (s *Simulator) Round(ctx context.Context) Round {
	var round Round

	n := s.rng.IntN(MaxIndexRequests) + 1
	for i := 0; i < n && ctx.Err() == nil; i++ {
		round.Index++
		if !s.send(ctx, http.MethodGet, "/", nil) {
			round.Failures++
		}
	}

	m := s.rng.IntN(MaxProductRequests) + 1
	for i := 0; i < m && ctx.Err() == nil; i++ {
		round.Products++
		if !s.send(ctx, http.MethodGet, "/products", nil) {
			round.Failures++
		}
	}

	if ctx.Err() == nil {
		round.Orders++
		if !s.send(ctx, http.MethodPost, "/order", orderForm) {
			round.Failures++
		}
	}
	return round
}

// send issues one request and reports whether it got a non-error response.
func (s *Simulator) send(ctx context.Context, method, path string, form url.Values) bool {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, s.target+path, body)
	if err != nil {
		s.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("failed to build request")
		return false
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		}
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("unexpected response status")
		return false
	}
	return true
}
