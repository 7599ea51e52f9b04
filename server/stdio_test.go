package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flitsinc/docsrs-mcp/jsonrpc"
)

func decodeFrames(t *testing.T, out *bytes.Buffer) map[string]jsonrpc.Response {
	t.Helper()
	responses := make(map[string]jsonrpc.Response)
	dec := json.NewDecoder(out)
	for dec.More() {
		var resp jsonrpc.Response
		require.NoError(t, dec.Decode(&resp))
		responses[resp.ID.String()] = resp
	}
	return responses
}

func TestServeStdio_EOFIsOrderlyShutdown(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page"))
	})

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"fetch_document","params":{"crate_name":"serde","version":"1.0.0","path":"serde/index.html"}}` + "\n")
	var out bytes.Buffer
	require.NoError(t, ServeStdio(context.Background(), s, in, &out))

	responses := decodeFrames(t, &out)
	require.Len(t, responses, 1)
	require.Nil(t, responses["1"].Error)
}

func TestServeStdio_ConcurrentRequestsCorrelateByID(t *testing.T) {
	// The first request's fetch is held back so the second can finish
	// first; each response must still carry its own originating id.
	release := make(chan struct{})
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "slow") {
			select {
			case <-release:
			case <-time.After(5 * time.Second):
			}
			w.Write([]byte("slow page"))
			return
		}
		defer close(release)
		w.Write([]byte("fast page"))
	})

	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":"first","method":"fetch_document","params":{"crate_name":"slow","version":"1.0.0","path":"slow/index.html"}}` + "\n" +
			`{"jsonrpc":"2.0","id":"second","method":"fetch_document","params":{"crate_name":"fast","version":"1.0.0","path":"fast/index.html"}}` + "\n")
	var out bytes.Buffer
	require.NoError(t, ServeStdio(context.Background(), s, in, &out))

	responses := decodeFrames(t, &out)
	require.Len(t, responses, 2)

	var first, second string
	require.NoError(t, json.Unmarshal(responses[`"first"`].Result, &first))
	require.NoError(t, json.Unmarshal(responses[`"second"`].Result, &second))
	require.Equal(t, "slow page", first)
	require.Equal(t, "fast page", second)
}

func TestServeStdio_MalformedFrameWithRecoverableID(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	// The frame is valid JSON with a usable id, but not a valid request
	// envelope, so a best-effort error response is possible.
	in := strings.NewReader(`{"jsonrpc":"2.0","id":5,"method":123}`)
	var out bytes.Buffer
	require.NoError(t, ServeStdio(context.Background(), s, in, &out))

	responses := decodeFrames(t, &out)
	require.Len(t, responses, 1)
	resp := responses["5"]
	require.NotNil(t, resp.Error)
	require.Equal(t, jsonrpc.CodeParseError, resp.Error.Code)
}

func TestServeStdio_MalformedFrameWithoutIDIsDropped(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page"))
	})

	in := strings.NewReader("this is not json\n" +
		`{"jsonrpc":"2.0","id":1,"method":"fetch_document","params":{"crate_name":"serde","version":"1.0.0","path":"serde/index.html"}}` + "\n")
	var out bytes.Buffer
	require.NoError(t, ServeStdio(context.Background(), s, in, &out))

	// A bad frame never takes the pipe down; the next one still runs.
	responses := decodeFrames(t, &out)
	require.Len(t, responses, 1)
	require.Nil(t, responses["1"].Error)
}

func TestServeStdio_EmptyLinesIgnored(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page"))
	})

	in := strings.NewReader("\n\n" +
		`{"jsonrpc":"2.0","id":1,"method":"fetch_document","params":{"crate_name":"serde","version":"1.0.0","path":"serde/index.html"}}` + "\n\n")
	var out bytes.Buffer
	require.NoError(t, ServeStdio(context.Background(), s, in, &out))
	require.Len(t, decodeFrames(t, &out), 1)
}
