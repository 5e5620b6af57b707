package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/feed"
	"prophet-ai/internal/render"
)

// lockedWriter serializes lines written from feed goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) println(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func newTailCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print new Pumpfun launches as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTail(cmd.Context(), cmd.OutOrStdout(), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "exit after this many tokens (0 runs until interrupted)")
	return cmd
}

func (a *app) runTail(parent context.Context, out io.Writer, limit int) error {
	ctx, finish := withSignals(parent, a.logger)
	defer finish()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := &lockedWriter{w: out}
	var (
		mu   sync.Mutex
		seen int
	)

	runner := feed.NewRunner(feed.RunnerOptions{
		Client: a.newFeedClient(func(s domain.ConnState) {
			w.println(render.StatusLine(s, time.Now()))
		}),
		Logger: a.logger,
		OnAccept: func(t domain.ObservedToken) {
			w.println(render.TokenLine(t, t.ObservedAt))

			mu.Lock()
			seen++
			reached := limit > 0 && seen >= limit
			mu.Unlock()
			if reached {
				cancel()
			}
		},
	})
	if err := runner.Start(); err != nil {
		return fmt.Errorf("start feed: %w", err)
	}

	<-ctx.Done()
	return runner.Stop()
}
