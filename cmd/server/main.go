package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/webgame/internal/api"
	"github.com/mcoot/webgame/internal/config"
	"github.com/mcoot/webgame/internal/factory"
	redisstorage "github.com/mcoot/webgame/internal/storage/redis"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the webgame API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, config.Options{ConfigFile: configFile})
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Config file (default: ./config.yaml if present)")
	addServerFlags(cmd.Flags(), v)

	return cmd
}

// addServerFlags registers the overridable settings and binds them into v,
// so a flag given on the command line beats env, file and defaults
func addServerFlags(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("host", "", "Listen host (env: WEBGAME_SERVER_HOST)")
	flags.Int("port", 8080, "Listen port (env: WEBGAME_SERVER_PORT)")
	flags.String("storage", "memory", "Storage backend: memory, redis, sqlite (env: WEBGAME_STORAGE_TYPE)")
	flags.String("redis-url", "", "Redis URL (env: WEBGAME_STORAGE_REDIS_URL)")
	flags.String("sqlite-path", "", "SQLite database file (env: WEBGAME_STORAGE_SQLITE_PATH)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error (env: WEBGAME_LOG_LEVEL)")

	bindings := map[string]string{
		"server.host":         "host",
		"server.port":         "port",
		"storage.type":        "storage",
		"storage.redis_url":   "redis-url",
		"storage.sqlite_path": "sqlite-path",
		"log.level":           "log-level",
	}
	for key, name := range bindings {
		bindFlag(v, key, flags.Lookup(name))
	}
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag.Name, err))
	}
}

func run(ctx context.Context, cfg config.Config) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		SQLitePath:  cfg.Storage.SQLitePath,
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		redisCfg.FinishedGameTTL = cfg.Storage.FinishedGameTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Clock:          app.Clock,
		Validator:      app.Validator,
		UserService:    app.UserService,
		GameController: app.GameController,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	server := api.NewServer(router, serverConfig, logger)
	if err := server.Listen(); err != nil {
		logger.Error("failed to listen", slog.String("error", err.Error()))
		return err
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
