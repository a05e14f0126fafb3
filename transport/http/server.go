// Package http implements the wire transport that sits in front of the
// broker package: a producer ingest endpoint and a consumer long-poll
// endpoint, per SPEC_FULL.md §4.6-§4.7. The broker itself never imports
// this package — the dependency points inward.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	ratelib "golang.org/x/time/rate"

	"go.bryk.io/routebroker/broker"
	"go.bryk.io/routebroker/errors"
	"go.bryk.io/routebroker/log"
)

// PriorityHeader optionally overrides the server's default priority for a
// publish, for new and existing keys alike; it is only consulted when
// present and parseable as an integer.
const PriorityHeader = "X-Route-Priority"

// Server wires a broker.Broker to the HTTP transport described above.
type Server struct {
	b               *broker.Broker
	log             log.Logger
	defaultPriority int
	maxPollTimeout  time.Duration
	mux             *http.ServeMux
	ingestLimiter   *ratelib.Limiter
}

// NewServer builds a Server ready to be used as an http.Handler.
// defaultPriority is used when a request carries no PriorityHeader.
// ingestLimit/ingestBurst bound the rate of accepted POST /v1/routes
// requests, protecting the daemon from a misbehaving producer; a zero
// ingestLimit disables the limiter entirely.
func NewServer(b *broker.Broker, ll log.Logger, defaultPriority int, maxPollTimeout time.Duration, ingestLimit float64, ingestBurst int) *Server {
	if ll == nil {
		ll = log.Discard()
	}
	s := &Server{
		b:               b,
		log:             ll,
		defaultPriority: defaultPriority,
		maxPollTimeout:  maxPollTimeout,
		mux:             http.NewServeMux(),
	}
	if ingestLimit > 0 {
		s.ingestLimiter = ratelib.NewLimiter(ratelib.Limit(ingestLimit), ingestBurst)
	}
	s.mux.HandleFunc("POST /v1/routes", s.handleIngest)
	s.mux.HandleFunc("GET /v1/clients/{name}/next", s.handleNext)
	s.mux.HandleFunc("DELETE /v1/clients/{name}", s.handleDeleteClient)
	return s
}

// ServeHTTP implements http.Handler, wrapping the mux with request
// logging and panic recovery, grounded on gorilla/handlers.RecoveryHandler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(loggingHandler(s.log, s.mux))
	recovered.ServeHTTP(w, r)
}

// handleIngest implements POST /v1/routes (spec.md §4.6). The body is the
// raw payload handed to the broker's Codec; a zero-length topic key is
// treated as "ignored", not an error, per spec.md §7.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.ingestLimiter != nil && !s.ingestLimiter.Allow() {
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}

	priority := s.defaultPriority
	if raw := r.Header.Get(PriorityHeader); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			priority = p
		}
	}

	defer r.Body.Close()
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed reading request body", http.StatusBadRequest)
		return
	}

	if err := s.b.Publish(payload, priority); err != nil {
		s.log.WithField("error", err.Error()).Warning("publish rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// noticeEnvelope is the JSON shape returned by handleNext.
type noticeEnvelope struct {
	Kind    string `json:"kind"`
	Topic   string `json:"topic"`
	Payload []byte `json:"payload,omitempty"`
}

// handleNext implements GET /v1/clients/{name}/next?timeout=1s (spec.md
// §4.7). The named client is created lazily if it does not yet exist,
// mirroring spec.md §6's client_create.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c, err := s.resolveClient(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	timeout := s.maxPollTimeout
	if raw := r.URL.Query().Get("timeout"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d < timeout {
			timeout = d
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	notice, err := s.b.GetNext(ctx, c)
	if err != nil {
		if errors.Is(err, broker.ErrClientClosed) {
			http.Error(w, err.Error(), http.StatusGone)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if notice == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	env := noticeEnvelope{Kind: notice.Kind.String(), Topic: notice.Topic, Payload: notice.Payload}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(env)
}

// resolveClient returns the named client, creating it on first use so a
// consumer's first GET is also its registration.
func (s *Server) resolveClient(name string) (*broker.Client, error) {
	c, err := s.b.CreateClient(name)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, broker.ErrClientExists) {
		return s.b.Client(name)
	}
	return nil, err
}

// handleDeleteClient implements DELETE /v1/clients/{name} (spec.md §4.7).
func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.b.DeleteClient(name); err != nil {
		if errors.Is(err, broker.ErrUnknownClient) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
