package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prophet-ai/internal/feed"
	"prophet-ai/internal/observability"
	"prophet-ai/internal/oracle"
	"prophet-ai/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the landing page, token API and oracle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "HTTP listen address")
	cmd.Flags().String("otel-endpoint", "", "OTLP/gRPC collector endpoint (tracing disabled when empty)")
	_ = a.v.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("otel.endpoint", cmd.Flags().Lookup("otel-endpoint"))

	return cmd
}

func (a *app) runServe(parent context.Context) error {
	ctx, finish := withSignals(parent, a.logger)
	defer finish()

	shutdownTracing, err := observability.InitTracing(ctx, a.cfg.OTel.Endpoint, version, a.logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing()

	runner := feed.NewRunner(feed.RunnerOptions{
		Client: a.newFeedClient(nil),
		Logger: a.logger,
	})
	if err := runner.Start(); err != nil {
		return fmt.Errorf("start feed: %w", err)
	}
	// Teardown closes the connection and cancels any pending reconnect
	defer func() {
		if err := runner.Stop(); err != nil {
			a.logger.Warnw("[server] stop feed", "err", err)
		}
	}()

	srv, err := web.NewServer(web.Options{
		Feed: runner,
		Oracle: oracle.New(oracle.Options{
			Tokens: runner,
			Delay:  oracle.UniformDelay(a.cfg.Oracle.MinDelay, a.cfg.Oracle.MaxDelay),
			Logger: a.logger,
		}),
		Site: &web.SiteConfig{
			Title:   web.DefaultSiteConfig().Title,
			TokenCA: a.cfg.Site.TokenCA,
			XLink:   a.cfg.Site.XLink,
		},
		Logger: a.logger,
	})
	if err != nil {
		return err
	}

	a.logger.Infow("[server] starting", "addr", a.cfg.HTTP.Addr, "feed", a.cfg.Feed.URL, "version", version)
	if err := srv.Start(ctx, a.cfg.HTTP.Addr); err != nil {
		return err
	}
	a.logger.Info("[server] shutdown complete")
	return nil
}
