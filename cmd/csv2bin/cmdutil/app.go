// Package cmdutil carries the loaded configuration and logger from the root
// command to its subcommands.
package cmdutil

import (
	"context"
	"log/slog"

	"github.com/flarebyte/csv2bin/internal/config"
	"github.com/flarebyte/csv2bin/internal/logging"
)

// App is the state shared by every subcommand.
type App struct {
	Config *config.Config
	Logger *slog.Logger
}

type appKey struct{}

// WithApp returns ctx carrying a.
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// FromContext returns the App set by the root command. Without one, the
// environment is loaded on the spot and logs are discarded.
func FromContext(ctx context.Context) (*App, error) {
	if ctx != nil {
		if a, ok := ctx.Value(appKey{}).(*App); ok && a != nil {
			return a, nil
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Logger: logging.Discard()}, nil
}

// Pick returns flag when set, fallback otherwise.
func Pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
