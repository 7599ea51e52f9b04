package docsrs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the public documentation host.
const DefaultBaseURL = "https://docs.rs"

// VersionLatest is the sentinel version meaning "whatever the host considers
// current". It is forwarded to the host verbatim; no local version discovery
// is performed.
const VersionLatest = "latest"

// Params identifies one documentation page by crate, version and page path.
type Params struct {
	CrateName string `json:"crate_name" description:"Name of the crate to fetch documentation for"`
	Version   string `json:"version" description:"Version of crate, e.g. 1.0.0, or \"latest\" for the current version"`
	Path      string `json:"path" description:"Path to the specific documentation page (e.g. 'serde/ser/trait.Serializer.html')"`
}

// Validate checks the parameters before any network I/O. The values are
// embedded directly into an outbound URL, so anything that could walk out of
// the crate/version prefix is rejected here.
func (p Params) Validate() error {
	if p.CrateName == "" {
		return invalidParam("crate_name", "must not be empty")
	}
	if strings.ContainsAny(p.CrateName, "/\\") {
		return invalidParam("crate_name", "must not contain path separators")
	}
	if strings.Contains(p.CrateName, "..") {
		return invalidParam("crate_name", "must not contain '..'")
	}
	if p.Version == "" {
		return invalidParam("version", "must not be empty")
	}
	if strings.Contains(p.Version, "/") || strings.Contains(p.Version, "..") {
		return invalidParam("version", "must not contain path separators or '..'")
	}
	if p.Path == "" {
		return invalidParam("path", "must not be empty")
	}
	if strings.HasPrefix(p.Path, "/") {
		return invalidParam("path", "must not start with '/'")
	}
	if strings.Contains(p.Path, "..") {
		return invalidParam("path", "must not contain '..'")
	}
	return nil
}

// Document is one fetched documentation page plus retrieval metadata.
type Document struct {
	// Content is the response body, verbatim.
	Content string `json:"content"`
	// URL is the target the page was requested from.
	URL string `json:"url"`
	// Version is the version the host served. It differs from the
	// requested version only when the "latest" sentinel was resolved by
	// the host's own redirect routing.
	Version string `json:"version"`
	// Status is the upstream HTTP status.
	Status int `json:"status"`
}

// Text implements tools.Result.
func (d *Document) Text() string {
	return d.Content
}

// Client fetches documentation pages from a docs.rs-compatible host.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a client for the public docs.rs host.
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL returns a client for a different documentation host.
// This is primarily useful for testing against a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// url builds the target for the given parameters following the host's
// /{crate}/{version}/{path} layout.
func (c *Client) url(p Params) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, p.CrateName, p.Version, p.Path)
}

// FetchDocs performs a single GET for the page identified by params. The
// body is returned untouched; there is no retry and no caching, so identical
// calls always hit the host again.
func (c *Client) FetchDocs(ctx context.Context, params Params) (*Document, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	target := c.url(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindUpstream, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}

	return &Document{
		Content: string(body),
		URL:     target,
		Version: resolvedVersion(params, resp),
		Status:  resp.StatusCode,
	}, nil
}

// resolvedVersion reports the version the host actually served. When the
// "latest" sentinel was requested and the host redirected to a concrete
// version, the final request URL carries it in the second path segment.
func resolvedVersion(params Params, resp *http.Response) string {
	if params.Version != VersionLatest {
		return params.Version
	}
	if resp.Request == nil || resp.Request.URL == nil {
		return params.Version
	}
	segments := strings.Split(strings.Trim(resp.Request.URL.Path, "/"), "/")
	if len(segments) >= 2 && segments[1] != "" {
		return segments[1]
	}
	return params.Version
}
