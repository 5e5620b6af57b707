package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/feed"
	"prophet-ai/internal/oracle"
	"prophet-ai/internal/render"
)

func newChatCmd(a *app) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask the oracle about the launches currently in view",
		Long:  "chat opens an oracle session in the terminal. Type a token name, symbol or CA, or \"recent launches\". Type exit or quit to leave.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), offline)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "do not connect to the feed")
	return cmd
}

func (a *app) runChat(parent context.Context, in io.Reader, out io.Writer, offline bool) error {
	ctx, finish := withSignals(parent, a.logger)
	defer finish()

	var source oracle.TokenSource = oracle.TokenSourceFunc(func() []domain.ObservedToken { return nil })
	if !offline {
		runner := feed.NewRunner(feed.RunnerOptions{
			Client: a.newFeedClient(nil),
			Logger: a.logger,
		})
		if err := runner.Start(); err != nil {
			return fmt.Errorf("start feed: %w", err)
		}
		defer runner.Stop()
		source = runner
	}

	session := oracle.NewSession(oracle.New(oracle.Options{
		Tokens: source,
		Delay:  oracle.UniformDelay(a.cfg.Oracle.MinDelay, a.cfg.Oracle.MaxDelay),
		Logger: a.logger,
	}))

	for _, m := range session.Messages() {
		fmt.Fprintln(out, render.MessageLine(m))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply, err := session.Ask(ctx, line)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, render.MessageLine(oracle.Message{Text: reply}))
	}
}
