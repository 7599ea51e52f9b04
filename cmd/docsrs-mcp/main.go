package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/flitsinc/docsrs-mcp/config"
	"github.com/flitsinc/docsrs-mcp/docsrs"
	"github.com/flitsinc/docsrs-mcp/server"
	"github.com/flitsinc/docsrs-mcp/tools"
)

const version = "0.1.0"

func init() {
	// Local development overrides live in .env and this will load them.
	godotenv.Load()
}

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	transport := flag.String("transport", "", "transport to serve on: sse or stdio")
	address := flag.String("address", "", "bind address for the sse transport")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	// All logging goes to stderr so the stdio transport keeps stdout as a
	// pure frame stream.
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if *transport != "" {
		cfg.Transport = config.Transport(*transport)
	}
	if *address != "" {
		cfg.Address = *address
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	client := docsrs.NewClientWithBaseURL(cfg.DocsBaseURL)
	registry, err := tools.NewRegistry(docsrs.NewTool(client))
	if err != nil {
		log.WithError(err).Fatal("failed to build tool registry")
	}

	srv := server.New(registry, server.ServerInfo{Name: "docsrs-mcp", Version: version})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportStdio:
		err = server.ServeStdio(ctx, srv, os.Stdin, os.Stdout)
	case config.TransportSSE:
		err = server.NewSSETransport(cfg.Address, srv).Start(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("server exited")
	}
}
