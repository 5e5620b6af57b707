package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// withSignals returns a context cancelled on SIGINT or SIGTERM. A second
// signal, or teardown taking longer than shutdownGrace, exits the process.
// Call the returned func once teardown has completed.
func withSignals(parent context.Context, logger *zap.SugaredLogger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Infow("Received signal, initiating graceful shutdown", "signal", sig.String())
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			logger.Warnw("Received second signal, forcing immediate shutdown", "signal", sig.String())
			os.Exit(1)
		case <-time.After(shutdownGrace):
			logger.Warnw("Graceful shutdown timed out, forcing exit", "grace", shutdownGrace)
			os.Exit(1)
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		close(done)
		cancel()
	}
}
