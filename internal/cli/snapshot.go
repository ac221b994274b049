package cli

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"loupe/internal/snapshot"
	"loupe/pkg/zoom"
)

// newSnapshotCmd creates the snapshot command, which renders a zoomed
// view of an image to a PNG without opening a window.
func newSnapshotCmd(configPath *string) *cobra.Command {
	var (
		output   string
		sizeFlag string
		scale    float64
		rotation int
	)

	cmd := &cobra.Command{
		Use:   "snapshot <image>",
		Short: "Render a zoomed view of an image to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if sizeFlag != "" {
				size, err := parseSize(sizeFlag)
				if err != nil {
					return err
				}
				cfg.Snapshot.Width = size.Width
				cfg.Snapshot.Height = size.Height
			}

			src, format, err := snapshot.Decode(args[0])
			if err != nil {
				return err
			}
			logger.Debug("decoded image", "format", format)

			contentScale, _ := zoom.ParseContentScale(cfg.View.ContentScale)
			alignment, _ := zoom.ParseAlignment(cfg.View.Alignment)
			background, err := snapshot.ParseHexColor(cfg.Snapshot.Background)
			if err != nil {
				return err
			}

			if scale == 0 {
				scale = cfg.Snapshot.Scale
			}
			img, err := snapshot.Render(src, snapshot.Options{
				Width:        cfg.Snapshot.Width,
				Height:       cfg.Snapshot.Height,
				Scale:        scale,
				ContentScale: contentScale,
				Alignment:    alignment,
				Rotation:     rotation,
				ReadMode:     cfg.View.ReadMode,
				Background:   background,
			})
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			if err := png.Encode(f, img); err != nil {
				return fmt.Errorf("encode %s: %w", output, err)
			}

			logger.Info("snapshot written", "path", output,
				"size", fmt.Sprintf("%dx%d", cfg.Snapshot.Width, cfg.Snapshot.Height))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "snapshot.png", "output PNG path")
	cmd.Flags().StringVar(&sizeFlag, "size", "", "container size as WxH (overrides config)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "final scale (0 = fitted)")
	cmd.Flags().IntVar(&rotation, "rotation", 0, "rotation in degrees (snapped to quarter turns)")
	return cmd
}
