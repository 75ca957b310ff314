// Command doltctl-admin runs the doltctl admin server standalone,
// for deployments where the admin surface lives on its own host
// rather than behind 'doltctl admin start'.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kilupskalvis/doltctl/internal/admin"
	"github.com/kilupskalvis/doltctl/internal/config"
	"github.com/kilupskalvis/doltctl/internal/dolt"
)

func main() {
	configDir := flag.String("config", os.Getenv("DOLTCTL_CONFIG"), "Path to the .doltctl directory (default: walk up from cwd)")
	listen := flag.String("listen", envOrDefault("DOLTCTL_LISTEN", ""), "Listen address (default from config)")
	prefix := flag.String("prefix", envOrDefault("DOLTCTL_PREFIX", ""), "URL prefix (default from config)")
	logLevel := flag.String("log-level", envOrDefault("DOLTCTL_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", envOrDefault("DOLTCTL_LOG_FORMAT", "json"), "Log format (json, text)")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if *logFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	var cfg *config.Config
	var err error
	if *configDir != "" {
		cfg, err = config.LoadFrom(*configDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := dolt.Open(dolt.ConnParams{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
	})
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := dolt.NewService(dolt.NewSQLInvoker(db), dolt.Params{
		Author:     cfg.Author,
		RemoteUser: cfg.RemoteUser,
	})

	addr := *listen
	if addr == "" {
		addr = cfg.AdminListen
	}

	acfg := admin.DefaultConfig()
	acfg.Token = cfg.AdminToken
	if *prefix != "" {
		acfg.Prefix = *prefix
	} else {
		acfg.Prefix = cfg.AdminPrefix
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      admin.Handler(svc, acfg, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return context.Background() },
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting doltctl-admin", "listen", addr, "prefix", acfg.Prefix, "database", cfg.Database)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
