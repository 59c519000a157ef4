// Package service implements the demo routes. Each one waits for a simulated
// latency and returns a fixed JSON payload.
package service

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Message is the payload of the index and order routes.
type Message struct {
	Message string `json:"message"`
}

// Product is a single entry of the product listing.
type Product struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// Products is the fixed catalogue served by /products, in order.
var Products = []Product{
	{Title: "product_a", Price: 10.0},
	{Title: "product_b", Price: 5.0},
}

// Handlers serves the demo routes.
type Handlers struct {
	latency      Latency
	orderLatency Latency
	logger       zerolog.Logger
}

// NewHandlers returns Handlers drawing delays from latency for the read
// routes and from orderLatency for /order. Nil sources mean no delay.
func NewHandlers(latency, orderLatency Latency, logger zerolog.Logger) *Handlers {
	if latency == nil {
		latency = NoLatency
	}
	if orderLatency == nil {
		orderLatency = NoLatency
	}
	return &Handlers{
		latency:      latency,
		orderLatency: orderLatency,
		logger:       logger,
	}
}

// Index handles GET /.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	if !h.simulateLatency(r, h.latency) {
		return
	}
	h.writeJSON(w, Message{Message: "Hello there!"})
}

// ListProducts handles GET /products.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	if !h.simulateLatency(r, h.latency) {
		return
	}
	h.writeJSON(w, Products)
}

// CreateOrder handles POST /order. The request body is ignored.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.simulateLatency(r, h.orderLatency) {
		return
	}
	h.writeJSON(w, Message{Message: "OK"})
}

// simulateLatency waits for a delay drawn from latency. It reports false if
// the client went away first, in which case nothing should be written.
func (h *Handlers) simulateLatency(r *http.Request, latency Latency) bool {
	delay := latency()
	if err := wait(r.Context(), delay); err != nil {
		h.logger.Debug().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("delay", delay).
			Msg("request abandoned during simulated latency")
		return false
	}
	return true
}

func (h *Handlers) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
