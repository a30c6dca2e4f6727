package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ericogr/tickduel/internal/config"
	"github.com/ericogr/tickduel/internal/constants"
	"github.com/ericogr/tickduel/internal/engine"
	"github.com/ericogr/tickduel/internal/game"
	"github.com/ericogr/tickduel/internal/logging"
	"github.com/ericogr/tickduel/internal/service"
	"github.com/ericogr/tickduel/internal/targets"
	"github.com/ericogr/tickduel/internal/ui"
)

// run wires the collaborators and supervises the key pump and the match loop
// until the player quits or a signal arrives.
func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	seed := cfg.Seed
	if seed == 0 {
		seed, err = targets.NewSeed()
		if err != nil {
			return err
		}
	}
	gen := targets.NewGenerator(seed)
	log.Info("objective generator ready", zap.Int64(constants.LogFieldSeed, seed))

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	term := ui.NewTerminal(screen)
	defer term.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return term.Run(gctx)
	})
	g.Go(func() error {
		// Closing the screen unblocks the pump once play ends.
		defer term.Close()
		return playMatches(gctx, cfg, gen, term, log)
	})

	err = g.Wait()
	if errors.Is(err, ui.ErrQuit) || errors.Is(err, context.Canceled) {
		log.Info("session interrupted")
		return nil
	}
	return err
}

// playMatches runs duels back to back until the players decline to rematch.
// Every match starts from the configured stats.
func playMatches(ctx context.Context, cfg config.Config, gen *targets.Generator, term *ui.Terminal, log *zap.Logger) error {
	for {
		first, err := game.NewPlayer(cfg.PlayerOneName, cfg.Vitality, cfg.Speed, cfg.Strength)
		if err != nil {
			return err
		}
		second, err := game.NewPlayer(cfg.PlayerTwoName, cfg.Vitality, cfg.Speed, cfg.Strength)
		if err != nil {
			return err
		}

		match, err := service.NewMatch(first, second, cfg.Objectives, service.Deps{
			Targets:  gen,
			Runner:   &engine.CounterTurnRunner{Input: term, Observer: term},
			Picker:   term,
			Observer: term,
			Log:      log,
		})
		if err != nil {
			return err
		}
		if _, err := match.Play(ctx); err != nil {
			return err
		}

		again, err := term.PlayAgain(ctx)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}
