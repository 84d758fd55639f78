package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/sporthub/internal/config"
	"github.com/mcoot/sporthub/internal/factory"
)

// Flags holds global flag values. Empty values defer to the environment.
type Flags struct {
	Output  string
	Storage string
	Data    string
}

// AppBuilder constructs the application for one invocation
type AppBuilder func(settings config.Config, logger *slog.Logger) (*factory.App, error)

// Options controls how the root command builds its dependencies
type Options struct {
	// NewApp builds the application (optional)
	// If nil, factory.New is used with settings from the environment
	NewApp AppBuilder
	// Logger is used for application logs (optional)
	// If nil, JSON logs go to stderr at the configured level
	Logger *slog.Logger
}

func defaultAppBuilder(settings config.Config, logger *slog.Logger) (*factory.App, error) {
	return factory.New(factory.FromSettings(settings, logger))
}

// settings loads environment configuration and applies flag overrides
func (f Flags) settings(cmd *cobra.Command) (config.Config, error) {
	settings, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("storage") {
		settings.Storage = f.Storage
	}
	if cmd.Flags().Changed("data") {
		settings.DataSource = f.Data
	}
	if err := settings.Validate(); err != nil {
		return config.Config{}, err
	}
	return settings, nil
}

func (f Flags) validateOutput() error {
	switch f.Output {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be text or json", f.Output)
	}
}

func newLogger(settings config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: settings.SlogLevel(),
	}))
}
