// Package config resolves the start-time configuration. It is read once
// during startup and immutable for the process lifetime.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"sigs.k8s.io/yaml"

	"github.com/flitsinc/docsrs-mcp/docsrs"
)

// Transport selects the wire binding. The choice is fixed at start time.
type Transport string

const (
	// TransportSSE serves request/response envelopes over HTTP with
	// event-stream responses.
	TransportSSE Transport = "sse"
	// TransportStdio serves newline-delimited envelopes on stdin/stdout.
	TransportStdio Transport = "stdio"
)

// Config is the resolved process configuration.
type Config struct {
	// Transport selects the binding to serve on.
	Transport Transport `json:"transport" env:"DOCSRS_MCP_TRANSPORT"`
	// Address is the bind address for the SSE binding. Ignored by stdio.
	Address string `json:"address" env:"DOCSRS_MCP_ADDRESS"`
	// DocsBaseURL overrides the documentation host, mainly for tests.
	DocsBaseURL string `json:"docsBaseURL" env:"DOCSRS_MCP_DOCS_URL"`
}

// Default returns the built-in configuration, matching the original CLI
// defaults.
func Default() Config {
	return Config{
		Transport:   TransportSSE,
		Address:     "127.0.0.1:8080",
		DocsBaseURL: docsrs.DefaultBaseURL,
	}
}

// Load resolves configuration from, in increasing precedence: defaults, an
// optional YAML file, and environment variables. Flags on top of this are
// the caller's concern.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values that cannot describe a runnable server.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportSSE, TransportStdio:
	default:
		return fmt.Errorf("unsupported transport %q (want %q or %q)", c.Transport, TransportSSE, TransportStdio)
	}
	if c.Transport == TransportSSE && c.Address == "" {
		return fmt.Errorf("address is required for the %q transport", TransportSSE)
	}
	if c.DocsBaseURL == "" {
		return fmt.Errorf("docs base URL must not be empty")
	}
	return nil
}
