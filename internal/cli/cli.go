// Package cli implements the pypi-extractor command-line interface.
//
// The CLI wraps the [pypi] client with commands for listing a user's
// packages, inspecting one package, dumping full details for every package a
// user has published, and serving the same data over HTTP. Logging uses
// charmbracelet/log and all commands support --verbose (-v) for debug-level
// output.
//
// # Commands
//
//   - packages: list the packages a PyPI user has published
//   - info: show normalized metadata for one package
//   - details: fetch details for every package of a user
//   - serve: expose the client as a JSON HTTP API
//   - completion: generate shell completion scripts
//
// A default username can be stored in a TOML config file
// ($XDG_CONFIG_HOME/pypi-extractor/config.toml) so commands can be run
// without repeating it.
//
// [pypi]: github.com/developerstoolbox/pypi-extractor/pkg/pypi
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/developerstoolbox/pypi-extractor/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "pypi-extractor"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The --verbose flag switches the shared logger to debug level, and the
// logger is attached to the command context for subcommands.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Extract package metadata for a PyPI user",
		Long:         `pypi-extractor lists the packages a PyPI user has published and fetches normalized per-package metadata (versions, authors, dependencies) from the registry.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.packagesCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.detailsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
