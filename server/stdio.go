package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/flitsinc/docsrs-mcp/jsonrpc"
)

// maxFrameSize bounds a single newline-delimited frame on the pipe.
const maxFrameSize = 4 * 1024 * 1024

// ServeStdio reads newline-delimited request frames from in and writes one
// response frame per line to out, until end-of-input or context
// cancellation. Each request runs on its own goroutine so a slow fetch never
// blocks decoding of subsequent frames; responses therefore may complete out
// of submission order, and the correlation id is the only matching
// mechanism. End-of-input drains in-flight requests and returns nil, the
// orderly shutdown path.
func ServeStdio(ctx context.Context, s *Server, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	enc := json.NewEncoder(out)
	var writeMu sync.Mutex
	write := func(resp *jsonrpc.Response) {
		if resp == nil {
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := enc.Encode(resp); err != nil {
			log.WithError(err).Error("failed to write response frame")
		}
	}

	// Reading happens on its own goroutine so cancellation is honored even
	// while blocked waiting for the next frame.
	lines := make(chan []byte)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			// A closed channel aborts in-flight requests without a
			// response.
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				// In-flight requests still get their responses
				// before shutdown.
				wg.Wait()
				if scanErr != nil {
					return scanErr
				}
				log.Info("stdio input closed, shutting down")
				return nil
			}
			if len(line) == 0 {
				continue
			}

			var req jsonrpc.Request
			if err := json.Unmarshal(line, &req); err != nil {
				// Best effort: answer with a parse error when the
				// frame still carried a recoverable id, otherwise
				// drop it.
				if resp, ok := decodeFailure(line, err); ok {
					write(resp)
				}
				continue
			}

			wg.Add(1)
			go func(req jsonrpc.Request) {
				defer wg.Done()
				write(s.Dispatch(ctx, req))
			}(req)
		}
	}
}

// decodeFailure recovers a correlation id from a malformed frame when
// possible. Frames without one are logged and discarded.
func decodeFailure(frame []byte, cause error) (*jsonrpc.Response, bool) {
	var probe struct {
		ID jsonrpc.ID `json:"id"`
	}
	if err := json.Unmarshal(frame, &probe); err != nil || probe.ID.IsZero() {
		log.WithError(cause).Warn("discarding malformed frame without recoverable id")
		return nil, false
	}
	resp := jsonrpc.NewErrorResponse(probe.ID, &jsonrpc.Error{
		Code:    jsonrpc.CodeParseError,
		Message: "failed to parse request",
	})
	return &resp, true
}
