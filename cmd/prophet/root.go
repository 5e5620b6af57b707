package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"prophet-ai/internal/config"
	"prophet-ai/internal/domain"
	"prophet-ai/internal/observability"
	"prophet-ai/internal/pumpportal"
)

// version is overridden at build time with -ldflags.
var version = "dev"

// app carries state shared by subcommands.
type app struct {
	v          *viper.Viper
	configFile string
	envFile    string
	cfg        config.Config
	logger     *zap.SugaredLogger
	sync       func()
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	rootCmd := &cobra.Command{
		Use:           "prophet",
		Short:         "ProphetAI: live Pumpfun launches and the Prophecy Oracle",
		Long:          "prophet watches the PumpPortal new-token stream, keeps the newest launches in view and answers oracle queries about them, on the web or in the terminal.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.sync != nil {
				a.sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml or toml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading PROPHET_* variables")
	flags.String("feed-url", "", "PumpPortal WebSocket endpoint")
	flags.Duration("reconnect-delay", 0, "fixed delay between feed reconnect attempts")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-env", "", "log preset (dev or prod)")
	// Flags override other sources only when set on the command line
	_ = a.v.BindPFlag("feed.url", flags.Lookup("feed-url"))
	_ = a.v.BindPFlag("feed.reconnect_delay", flags.Lookup("reconnect-delay"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.env", flags.Lookup("log-env"))

	rootCmd.AddCommand(
		newServeCmd(a),
		newTailCmd(a),
		newChatCmd(a),
		newConfigCmd(a),
	)

	return rootCmd
}

// init loads the environment file and configuration and builds the logger.
func (a *app) init() error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := observability.NewLogger(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.logger = logger.Sugar()
	a.sync = func() { _ = logger.Sync() }
	return nil
}

// newFeedClient builds the PumpPortal client from configuration.
func (a *app) newFeedClient(onState func(domain.ConnState)) *pumpportal.WSClient {
	wsCfg := pumpportal.DefaultWSConfig()
	wsCfg.ReconnectDelay = a.cfg.Feed.ReconnectDelay
	wsCfg.PingInterval = a.cfg.Feed.PingInterval
	wsCfg.ReadTimeout = a.cfg.Feed.ReadTimeout
	wsCfg.OnStateChange = onState
	wsCfg.Logger = a.logger
	return pumpportal.NewWSClient(a.cfg.Feed.URL, &wsCfg)
}

// shutdownGrace bounds teardown after the first signal.
const shutdownGrace = 30 * time.Second
