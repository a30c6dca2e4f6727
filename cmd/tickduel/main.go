package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ericogr/tickduel/internal/config"
	"github.com/ericogr/tickduel/internal/version"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Flags default to the environment-provided values, so the precedence
	// is: built-in defaults < TICKDUEL_* environment < command line.
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.StringVar(&cfg.PlayerOneName, "name1", cfg.PlayerOneName, "first player name")
	flag.StringVar(&cfg.PlayerTwoName, "name2", cfg.PlayerTwoName, "second player name")
	flag.IntVar(&cfg.Vitality, "vitality", cfg.Vitality, "initial vitality for both players")
	flag.IntVar(&cfg.Speed, "speed", cfg.Speed, "initial speed in milliseconds per counter tick")
	flag.IntVar(&cfg.Strength, "strength", cfg.Strength, "initial strength bonus")
	flag.IntVar(&cfg.Objectives, "objectives", cfg.Objectives, "objectives per round")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "objective generator seed (0 picks a random one)")
	flag.StringVar(&cfg.LogPath, "log", cfg.LogPath, "write JSON logs to this file")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log at debug level")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Human())
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
