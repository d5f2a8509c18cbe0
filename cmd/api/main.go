package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/api"
	"github.com/urmzd/neuracontrol/pkg/config"
	"github.com/urmzd/neuracontrol/pkg/db"
	"github.com/urmzd/neuracontrol/pkg/device/schema"

	_ "github.com/urmzd/neuracontrol/docs"
)

// @title           NeuraControl API
// @version         1.0
// @description     Natural-language control of microcontroller-driven home devices

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configFile := flag.String("config", "", "Path to a config file (env vars override it)")
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/neuracontrol/neuracontrol.db)")
	addrFlag := flag.String("addr", "", "Listen address, overrides the stored api.host/api.port settings")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	transport := cfg.Transport()
	orchestrator, err := cfg.Orchestrator(transport)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load device table")
	}

	database, err := db.Setup(ctx, cfg.DBPath, orchestrator.Registry())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().
		Str("db", database.Path()).
		Str("actuator", orchestrator.Actuator().Name()).
		Str("session_mode", string(cfg.Mode())).
		Int("devices", orchestrator.Registry().Len()).
		Msg("Configuration loaded")

	router := api.NewRouter(api.Deps{
		Orchestrator: orchestrator,
		Database:     database,
		Validator:    schema.NewValidator(),
		SerialPort:   cfg.Port,
	})

	addr := *addrFlag
	if addr == "" {
		addr, err = database.APIAddress(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read API address")
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("address", addr).Msg("Starting API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
