package cli

import (
	"github.com/spf13/cobra"

	"loupe/internal/gui"
)

// newViewCmd creates the view command, which opens the desktop viewer.
func newViewCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "view [image]",
		Short: "Open the desktop viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			app := gui.NewApp(cfg, logger)
			if len(args) == 1 {
				app.RunWithFile(args[0])
			} else {
				app.Run()
			}
			return nil
		},
	}
}
