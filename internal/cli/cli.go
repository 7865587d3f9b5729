// Package cli implements the featexport command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/featexport/pkg/buildinfo"
	"github.com/matzehuels/featexport/pkg/host/memhost"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "featexport"

	// defaultMap is the map document looked up when --map is not given.
	defaultMap = "map.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	mapPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "featexport writes one map image per feature of a layer",
		Long: `featexport zooms a map to every feature of a vector layer in turn and
exports the view as an image named after the feature's unique attribute.

Features are framed either individually (fill) or at one common scale that
fits the largest feature (proportional).`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.mapPath, "map", "m", defaultMap, "map document (TOML)")

	// Register all subcommands
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.fieldsCommand())
	root.AddCommand(c.framesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Host Factory
// =============================================================================

// openHost loads the map document named by --map.
func (c *CLI) openHost(ctx context.Context) (*memhost.Host, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	h, err := memhost.Open(c.mapPath, logger)
	if err != nil {
		return nil, err
	}
	prog.done("Loaded map " + c.mapPath)
	return h, nil
}
