package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/flitsinc/docsrs-mcp/jsonrpc"
)

// maxBodySize bounds one inbound envelope on the HTTP binding.
const maxBodySize = 4 * 1024 * 1024

// shutdownGrace is how long in-flight requests get to finish after the
// context is cancelled.
const shutdownGrace = 5 * time.Second

// SSETransport is the event-stream binding. Each POST carries one request
// envelope and receives its response on a per-call SSE stream, so concurrent
// callers are fully independent of each other.
type SSETransport struct {
	addr   string
	server *Server
}

// NewSSETransport returns an event-stream binding for the given dispatcher,
// listening on addr once started.
func NewSSETransport(addr string, server *Server) *SSETransport {
	return &SSETransport{addr: addr, server: server}
}

// Start listens on the configured address and serves until the context is
// cancelled. An unavailable bind address is reported immediately, before any
// request is accepted, so startup can fail with a non-zero exit.
func (t *SSETransport) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", t.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", t.handleCall)

	srv := &http.Server{
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	log.WithField("addr", ln.Addr().String()).Info("SSE server listening")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("SSE server shutdown was not clean")
			srv.Close()
		}
		return nil
	})
	return g.Wait()
}

// handleCall accepts one envelope per POST and streams the response back as
// a single SSE message event. A dropped connection simply cancels the
// request's context; no response is emitted and other connections are
// unaffected.
func (t *SSETransport) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.WithError(err).Warn("failed to read request body")
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var req jsonrpc.Request
	if err := json.Unmarshal(body, &req); err != nil {
		// Malformed frame: answer over the stream when an id is
		// recoverable, otherwise reject the request outright.
		if resp, ok := decodeFailure(body, err); ok {
			writeSSE(w, resp)
			return
		}
		http.Error(w, "failed to parse request", http.StatusBadRequest)
		return
	}

	resp := t.server.Dispatch(r.Context(), req)
	if resp == nil {
		// Notifications are acknowledged without a body.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeSSE(w, resp)
}

// writeSSE emits one response envelope as an SSE message event.
func writeSSE(w http.ResponseWriter, resp *jsonrpc.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.WithError(err).Error("failed to encode response envelope")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
