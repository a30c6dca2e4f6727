package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/ericogr/tickduel/internal/game"
)

// Config holds the initial match settings. Environment variables provide the
// defaults; command-line flags override them.
type Config struct {
	PlayerOneName string `env:"TICKDUEL_PLAYER1" envDefault:"Player 1"`
	PlayerTwoName string `env:"TICKDUEL_PLAYER2" envDefault:"Player 2"`
	Vitality      int    `env:"TICKDUEL_VITALITY" envDefault:"50"`
	Speed         int    `env:"TICKDUEL_SPEED" envDefault:"50"`
	Strength      int    `env:"TICKDUEL_STRENGTH" envDefault:"50"`
	Objectives    int    `env:"TICKDUEL_OBJECTIVES" envDefault:"5"`
	Seed          int64  `env:"TICKDUEL_SEED" envDefault:"0"`
	LogPath       string `env:"TICKDUEL_LOG"`
	Debug         bool   `env:"TICKDUEL_DEBUG" envDefault:"false"`
}

// FromEnv parses the TICKDUEL_* environment variables over the built-in
// defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings no match can start from. It mirrors the game
// package's construction rules so bad values surface before any terminal
// setup happens.
func (c Config) Validate() error {
	if c.PlayerOneName == "" || c.PlayerTwoName == "" {
		return fmt.Errorf("%w: player names must not be empty", game.ErrInvalidStat)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %d", game.ErrInvalidStat, c.Speed)
	}
	if c.Vitality < 0 {
		return fmt.Errorf("%w: vitality must not be negative, got %d", game.ErrInvalidStat, c.Vitality)
	}
	if c.Strength < 0 {
		return fmt.Errorf("%w: strength must not be negative, got %d", game.ErrInvalidStat, c.Strength)
	}
	if c.Objectives <= 0 {
		return fmt.Errorf("%w: objectives must be positive, got %d", game.ErrEmptyTargetList, c.Objectives)
	}
	return nil
}
