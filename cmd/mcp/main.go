package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/config"
	"github.com/urmzd/neuracontrol/pkg/device/schema"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
	neuramcp "github.com/urmzd/neuracontrol/pkg/mcp"
)

func main() {
	// Logging must go to stderr, stdout is the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configFile := flag.String("config", "", "Path to a config file (env vars override it)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())

	orchestrator, err := cfg.Orchestrator(cfg.Transport())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load device table")
	}

	states := dispatch.NewStateBook(orchestrator.Registry())
	mcpServer := neuramcp.NewServer(orchestrator, states, schema.NewValidator(), nil)

	log.Info().Str("actuator", orchestrator.Actuator().Name()).Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
