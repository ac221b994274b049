package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"loupe/internal/config"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. It is
// typically called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the loupe CLI and returns an error if any command fails.
//
// Logging defaults to info level on stderr; --verbose (-v) raises it to
// debug. The logger is attached to the context and accessible to all
// commands via loggerFromContext.
func Execute() error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "loupe",
		Short:        "Loupe is a pan/zoom image viewer",
		Long:         `Loupe displays images with smooth panning, stepped zooming, quarter-turn rotation and read mode, and can render zoomed views headlessly.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("loupe %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(newViewCmd(&configPath))
	root.AddCommand(newFitCmd(&configPath))
	root.AddCommand(newSnapshotCmd(&configPath))

	return root.ExecuteContext(context.Background())
}

// loadConfig loads the configured settings file, or the defaults when no
// path was given.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
