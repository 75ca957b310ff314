package cli

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kilupskalvis/doltctl/internal/admin"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Run the admin HTTP server",
	Long:  "Commands for running the doltctl admin server.",
}

var adminStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the admin HTTP server",
	Long: `Start the admin HTTP server.

The server exposes the commit history view and the pull action under
the configured URL prefix. Bearer token authentication is enabled when
the DOLTCTL_ADMIN_TOKEN environment variable is set.

Examples:
  doltctl admin start
  doltctl admin start --listen 0.0.0.0:8780`,
	Run: runAdminStart,
}

var (
	adminListen    string
	adminPrefix    string
	adminLogLevel  string
	adminLogFormat string
)

func init() {
	adminCmd.AddCommand(adminStartCmd)

	f := adminStartCmd.Flags()
	f.StringVar(&adminListen, "listen", "", "Listen address (host:port, default from config)")
	f.StringVar(&adminPrefix, "prefix", "", "URL prefix (default from config)")
	f.StringVar(&adminLogLevel, "log-level", envOrDefault("DOLTCTL_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	f.StringVar(&adminLogFormat, "log-format", envOrDefault("DOLTCTL_LOG_FORMAT", "json"), "Log format (json|text)")
}

func runAdminStart(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	logger := newLogger(adminLogLevel, adminLogFormat)

	listen := adminListen
	if listen == "" {
		listen = c.Config.AdminListen
	}
	prefix := adminPrefix
	if prefix == "" {
		prefix = c.Config.AdminPrefix
	}

	cfg := admin.DefaultConfig()
	cfg.Prefix = prefix
	cfg.Token = c.Config.AdminToken

	srv := &http.Server{
		Addr:         listen,
		Handler:      admin.Handler(c.Service, cfg, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return context.Background() },
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting admin server", "listen", listen, "prefix", prefix)
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

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
