package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/trainer"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "Random seed (0 to use config default)")
	modelAddr := flag.String("model-addr", "", "Model server address (empty for the in-process network)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	if *seed != 0 {
		cfg.Agent.Seed = *seed
	}
	if *modelAddr != "" {
		cfg.Agent.ModelAddr = *modelAddr
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	setup, err := trainer.Build(cfg, nil, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build trainer")
	}
	defer setup.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uiGame, err := ui.NewUIGame(ctx, setup.Runner)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create UI")
	}

	ebiten.SetWindowSize(ui.ScreenWidth(), ui.ScreenHeight())
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(uiGame); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("UI stopped")
	}
	setup.Monitor.Report()
}
