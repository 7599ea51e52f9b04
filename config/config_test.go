package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, TransportSSE, cfg.Transport)
	require.Equal(t, "127.0.0.1:8080", cfg.Address)
	require.Equal(t, "https://docs.rs", cfg.DocsBaseURL)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: stdio\ndocsBaseURL: http://localhost:9999\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, TransportStdio, cfg.Transport)
	require.Equal(t, "http://localhost:9999", cfg.DocsBaseURL)
	// Untouched fields keep their defaults.
	require.Equal(t, "127.0.0.1:8080", cfg.Address)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: stdio\naddress: 10.0.0.1:1\n"), 0o644))

	t.Setenv("DOCSRS_MCP_TRANSPORT", "sse")
	t.Setenv("DOCSRS_MCP_ADDRESS", "127.0.0.1:9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, TransportSSE, cfg.Transport)
	require.Equal(t, "127.0.0.1:9090", cfg.Address)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_RejectsUnknownTransport(t *testing.T) {
	cfg := Default()
	cfg.Transport = "tcp"
	require.Error(t, cfg.Validate())
}

func TestValidate_SSERequiresAddress(t *testing.T) {
	cfg := Default()
	cfg.Address = ""
	require.Error(t, cfg.Validate())

	// stdio has no bind address to validate.
	cfg.Transport = TransportStdio
	require.NoError(t, cfg.Validate())
}
