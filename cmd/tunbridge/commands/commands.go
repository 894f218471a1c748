package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"github.com/xstream/tunbridge/internal/config"
	"github.com/xstream/tunbridge/pkg/tunbridge"
	"github.com/xstream/tunbridge/pkg/tunbridge/logging"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = config.LogFormatDefault
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = config.LogFormatJSON
	// LoggerTypeZap is the zap json logger type.
	LoggerTypeZap = config.LogFormatZap
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug            bool
	NoColor          bool
	LoggerType       string
	SettingsPath     string
	LibraryName      string
	SearchProcess    bool
	RetryUnavailable bool

	// Settings is the settings file merged with the global flags.
	Settings config.Settings

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger logging.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON, LoggerTypeZap)
	app.Flag("settings", "Path to a YAML settings file.").StringVar(&c.SettingsPath)
	app.Flag("library", "Engine shared library passed to dlopen.").StringVar(&c.LibraryName)
	app.Flag("search-process", "Resolve the engine entry points from the running executable.").BoolVar(&c.SearchProcess)
	app.Flag("retry-unavailable", "Retry loading the engine after a failed attempt.").BoolVar(&c.RetryUnavailable)

	return c
}

// LoadSettings reads the settings file, if any, and applies the global flags
// over it.
func (c *RootCommand) LoadSettings() error {
	if c.SettingsPath != "" {
		s, err := config.LoadFile(c.SettingsPath)
		if err != nil {
			return fmt.Errorf("could not load settings: %w", err)
		}
		c.Settings = s
	}

	if c.LibraryName != "" {
		c.Settings.Library.Name = c.LibraryName
		c.Settings.Library.SearchProcess = false
	}
	if c.SearchProcess {
		c.Settings.Library.Name = ""
		c.Settings.Library.SearchProcess = true
	}
	c.Settings.Library.RetryUnavailable = c.Settings.Library.RetryUnavailable || c.RetryUnavailable
	c.Settings.Log.Debug = c.Settings.Log.Debug || c.Debug
	if c.LoggerType != "" {
		c.Settings.Log.Format = c.LoggerType
	}
	if c.Settings.Log.Format == "" {
		c.Settings.Log.Format = LoggerTypeDefault
	}

	return c.Settings.Validate()
}

// NewBridge returns a bridge configured from the merged settings.
func (c *RootCommand) NewBridge() *tunbridge.Bridge {
	return tunbridge.New(tunbridge.Config{
		LibraryName:      c.Settings.Library.Name,
		SearchProcess:    c.Settings.Library.SearchProcess,
		RetryUnavailable: c.Settings.Library.RetryUnavailable,
		Logger:           c.Logger,
	})
}
