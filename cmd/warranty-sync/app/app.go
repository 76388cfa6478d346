// Package app provides the warranty-sync CLI application.
//
// It wires configuration loaded from the environment, the logger, and the
// updater together, and exposes the cobra command tree through Execute.
package app

import (
	"context"

	"github.com/rs/zerolog"

	warrantysync "github.com/CC-Digital-Innovation/warranty-sync"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

// App represents the warranty-sync CLI application with its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	flags syncFlags

	// updater, when set, replaces the one wired from configuration.
	// Tests inject fakes here.
	updater warrantysync.Updater
}

// syncFlags holds the root command's flag values between parse and run.
type syncFlags struct {
	dryRun        bool
	manufacturers []string
	report        string
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithUpdater sets a custom updater, bypassing the one wired from
// configuration. Useful for testing.
func WithUpdater(updater warrantysync.Updater) Option {
	return func(a *App) error {
		a.updater = updater
		return nil
	}
}

// New creates a new App with the given version information and options.
// Configuration is loaded from the environment and .env files before the
// options run, so options can override it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	a.config = config

	logger := NewLogger(config)
	a.logger = &logger
	logging.SetDefault(logger)

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Version returns the application version.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Updater returns the injected updater when one was set, otherwise it wires
// a new one from the given configuration. The context scopes the vendor
// token sessions, so the run context should be passed.
func (a *App) Updater(ctx context.Context, cfg warrantysync.Config) (warrantysync.Updater, error) {
	if a.updater != nil {
		return a.updater, nil
	}
	return warrantysync.New(ctx, cfg)
}
