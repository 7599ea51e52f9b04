package docsrs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDocs_Success(t *testing.T) {
	var hits atomic.Int64
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/serde/1.0.0/serde/ser/trait.Serializer.html", r.URL.Path)
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		w.Write([]byte("<html>OK</html>"))
	}))
	defer host.Close()

	client := NewClientWithBaseURL(host.URL)
	doc, err := client.FetchDocs(context.Background(), Params{
		CrateName: "serde",
		Version:   "1.0.0",
		Path:      "serde/ser/trait.Serializer.html",
	})
	require.NoError(t, err)

	// The body comes back verbatim, with no parsing or transformation.
	require.Equal(t, "<html>OK</html>", doc.Content)
	require.Equal(t, host.URL+"/serde/1.0.0/serde/ser/trait.Serializer.html", doc.URL)
	require.Equal(t, "1.0.0", doc.Version)
	require.Equal(t, http.StatusOK, doc.Status)
	require.EqualValues(t, 1, hits.Load())
}

func TestFetchDocs_UpstreamNotFound(t *testing.T) {
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer host.Close()

	client := NewClientWithBaseURL(host.URL)
	_, err := client.FetchDocs(context.Background(), Params{
		CrateName: "nonexistent",
		Version:   "1.0.0",
		Path:      "path/to/doc.html",
	})
	require.Error(t, err)

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, KindUpstream, fetchErr.Kind)
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestFetchDocs_NetworkError(t *testing.T) {
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host.Close() // nothing is listening anymore

	client := NewClientWithBaseURL(host.URL)
	_, err := client.FetchDocs(context.Background(), Params{
		CrateName: "serde",
		Version:   "1.0.0",
		Path:      "serde/index.html",
	})
	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, KindNetwork, fetchErr.Kind)
}

func TestFetchDocs_LatestSentinelForwardedVerbatim(t *testing.T) {
	var requestedPath string
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte("ok"))
	}))
	defer host.Close()

	client := NewClientWithBaseURL(host.URL)
	doc, err := client.FetchDocs(context.Background(), Params{
		CrateName: "serde",
		Version:   VersionLatest,
		Path:      "serde/index.html",
	})
	require.NoError(t, err)

	// No local version discovery: the literal sentinel lands in the URL.
	require.Equal(t, "/serde/latest/serde/index.html", requestedPath)
	require.Equal(t, VersionLatest, doc.Version)
}

func TestFetchDocs_LatestResolvedThroughHostRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/serde/latest/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/serde/1.0.219/serde/index.html", http.StatusFound)
	})
	mux.HandleFunc("/serde/1.0.219/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pinned"))
	})
	host := httptest.NewServer(mux)
	defer host.Close()

	client := NewClientWithBaseURL(host.URL)
	doc, err := client.FetchDocs(context.Background(), Params{
		CrateName: "serde",
		Version:   VersionLatest,
		Path:      "serde/index.html",
	})
	require.NoError(t, err)
	require.Equal(t, "pinned", doc.Content)
	require.Equal(t, "1.0.219", doc.Version)
}

func TestFetchDocs_ValidationRunsBeforeAnyNetworkCall(t *testing.T) {
	var hits atomic.Int64
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer host.Close()

	client := NewClientWithBaseURL(host.URL)

	tests := []struct {
		name   string
		params Params
		param  string
	}{
		{"empty crate", Params{Version: "1.0.0", Path: "p.html"}, "crate_name"},
		{"crate with separator", Params{CrateName: "a/b", Version: "1.0.0", Path: "p.html"}, "crate_name"},
		{"crate with traversal", Params{CrateName: "..", Version: "1.0.0", Path: "p.html"}, "crate_name"},
		{"empty version", Params{CrateName: "serde", Path: "p.html"}, "version"},
		{"version with traversal", Params{CrateName: "serde", Version: "../1.0", Path: "p.html"}, "version"},
		{"empty path", Params{CrateName: "serde", Version: "1.0.0"}, "path"},
		{"absolute path", Params{CrateName: "serde", Version: "1.0.0", Path: "/etc/passwd"}, "path"},
		{"path with traversal", Params{CrateName: "serde", Version: "1.0.0", Path: "a/../../x.html"}, "path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.FetchDocs(context.Background(), tt.params)
			var fetchErr *Error
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, KindInvalidParams, fetchErr.Kind)
			assert.Equal(t, tt.param, fetchErr.Param)
		})
	}

	require.EqualValues(t, 0, hits.Load(), "invalid params must never reach the network")
}

func TestError_WireForm(t *testing.T) {
	upstream := &Error{Kind: KindUpstream, Status: 404}
	rpcErr := upstream.RPCError()
	require.Equal(t, -32000, rpcErr.Code)
	require.Equal(t, map[string]int{"status": 404}, rpcErr.Data)

	network := &Error{Kind: KindNetwork, Err: errors.New("refused")}
	require.Equal(t, -32001, network.RPCError().Code)

	invalid := invalidParam("path", "must not contain '..'")
	require.Equal(t, -32602, invalid.RPCError().Code)
}
