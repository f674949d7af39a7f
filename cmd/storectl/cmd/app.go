package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agricult/storectl/internal/api"
	"github.com/agricult/storectl/internal/cart"
	"github.com/agricult/storectl/internal/config"
	"github.com/agricult/storectl/internal/orders"
	"github.com/agricult/storectl/internal/session"
)

// app bundles the wired components shared by all commands. There is no
// global state beyond the cobra command tree: every invocation builds one
// app and threads it explicitly.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *api.Client
	session *session.Service
	cart    *cart.Sync
	orders  *orders.Service
}

// newApp loads configuration, restores any persisted session, and wires
// the API client, cart synchronizer, and order service.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Debug("loaded config", "file", configFile)
	}

	// Session file path: CLI flag > env var (via config) > default.
	sessionPath := sessionFilePath
	if sessionPath == "" {
		sessionPath = cfg.Session.Path
	}
	store := session.NewFileStore(sessionPath, logger)

	// The client and the session service reference each other: the client
	// needs the session's token, the session needs the client to log in.
	// A late-bound token source breaks the cycle.
	var sess *session.Service
	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.APITimeout()),
		api.WithLogger(logger),
		api.WithMetrics(api.NewMetrics(prometheus.NewRegistry())),
		api.WithTokenSource(api.TokenSourceFunc(func() string {
			if sess == nil {
				return ""
			}
			return sess.Token()
		})),
	)

	sess, err = session.NewService(client, store, logger)
	if err != nil {
		return nil, err
	}

	cartSync := cart.New(client, sess, logger)
	sess.OnLogout(cartSync.Clear)

	return &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		session: sess,
		cart:    cartSync,
		orders:  orders.NewService(client, sess, logger),
	}, nil
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
