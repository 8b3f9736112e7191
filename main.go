package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"draftmate/internal/config"
	"draftmate/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml, json or toml config file")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	app := NewApp(cfg, log)
	ctx := setupSignalHandler(log)

	if cmd := flag.Arg(0); cmd == "" || cmd == "run" {
		err = app.Run(ctx)
	} else {
		err = runCommand(ctx, app, cmd, flag.Args()[1:], os.Stdout)
	}
	app.shutdown()

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("draftmate exited")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: draftmate [-config file] [command]

commands:
  run                      watch the client and automate champion select (default)
  overview [puuid]         print a summoner overview
  match <gameId> [puuid]   print a match scoreboard
  teammates [puuid]        print frequent recent teammates
  reroll                   reroll and keep the current champion

flags:
`)
	flag.PrintDefaults()
}
