package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/trainer"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	ticks := flag.Int("ticks", -1, "Stop after this many ticks, 0 for no limit (-1 to use config default)")
	seed := flag.Int64("seed", 0, "Random seed (0 to use config default)")
	modelAddr := flag.String("model-addr", "", "Model server address (empty to use config default or the in-process network)")
	renderEvery := flag.Int("render-every", -1, "Print the board every N ticks, 0 to disable (-1 to use config default)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	cfg := config.Get()

	// Use config defaults if not overridden by flags
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	if *ticks >= 0 {
		cfg.Trainer.MaxTicks = *ticks
	}
	if *seed != 0 {
		cfg.Agent.Seed = *seed
	}
	if *modelAddr != "" {
		cfg.Agent.ModelAddr = *modelAddr
	}
	if *renderEvery >= 0 {
		cfg.Trainer.RenderEvery = *renderEvery
	}

	setupLogging(*logLevel, cfg.Logging.Format)

	// Re-apply the log level when the config file changes
	if config.ConfigFilePath() != "" {
		config.WatchConfig(func() {
			setupLogging(config.Get().Logging.Level, config.Get().Logging.Format)
			log.Info().Str("level", config.Get().Logging.Level).Msg("Config reloaded")
		})
	}

	var renderer trainer.Renderer
	if cfg.Trainer.RenderEvery > 0 {
		renderer = trainer.NewConsoleRenderer(os.Stdout, os.Getenv("APP_ENV") != "production")
	}

	setup, err := trainer.Build(cfg, renderer, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build trainer")
	}
	defer setup.Close()

	log.Info().
		Int64("seed", setup.Seed).
		Int("board_width", cfg.Game.BoardWidth).
		Int("board_height", cfg.Game.BoardHeight).
		Str("model_addr", cfg.Agent.ModelAddr).
		Msg("Starting trainer")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := setup.Runner.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Training stopped")
		setup.Monitor.Report()
		os.Exit(1)
	}

	setup.Monitor.Report()
	log.Info().Msg("Trainer shutdown complete")
}

func setupLogging(level, format string) {
	// Parse log level
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" || format == "json" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
