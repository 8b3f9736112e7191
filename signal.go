package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// setupSignalHandler returns a context cancelled on SIGTERM or SIGINT. A
// second signal forces exit.
func setupSignalHandler(log zerolog.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		log.Info().Stringer("signal", sig).Msg("shutting down")
		cancel()

		sig = <-sigCh
		log.Warn().Stringer("signal", sig).Msg("second signal, forcing exit")
		os.Exit(1)
	}()

	return ctx
}
