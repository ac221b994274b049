package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"loupe/internal/snapshot"
	"loupe/pkg/geom"
	"loupe/pkg/zoom"
)

// newFitCmd creates the fit command, which resolves and prints the view
// geometry for a container/content pair without opening a window.
func newFitCmd(configPath *string) *cobra.Command {
	var (
		containerFlag string
		contentFlag   string
		rotation      int
	)

	cmd := &cobra.Command{
		Use:   "fit [image]",
		Short: "Print the resolved view geometry for an image",
		Long:  `Fit resolves the base transform, scale range and display rectangle for an image inside a container, using the configured content scale, alignment and read mode. The content size comes from the image file or from --content.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			container, err := parseSize(containerFlag)
			if err != nil {
				return err
			}

			var content geom.Size
			switch {
			case len(args) == 1:
				img, format, err := snapshot.Decode(args[0])
				if err != nil {
					return err
				}
				b := img.Bounds()
				content = geom.Sz(b.Dx(), b.Dy())
				logger.Debug("decoded image", "format", format,
					"size", fmt.Sprintf("%dx%d", content.Width, content.Height))
			case contentFlag != "":
				content, err = parseSize(contentFlag)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either an image argument or --content is required")
			}

			e := zoom.NewEngine()
			cfg.Apply(e, logger)
			e.SetContainerSize(container)
			e.SetContentSize(content)
			e.SetContentOriginSize(content)
			if rotation != 0 {
				e.Rotate(rotation)
			}

			st := e.State()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "container:    %dx%d\n", container.Width, container.Height)
			fmt.Fprintf(out, "content:      %dx%d\n", content.Width, content.Height)
			fmt.Fprintf(out, "rotation:     %d\n", e.Rotation())
			fmt.Fprintf(out, "base scale:   %.4f x %.4f\n", st.BaseTransform.ScaleX, st.BaseTransform.ScaleY)
			fmt.Fprintf(out, "base offset:  %.1f, %.1f\n", st.BaseTransform.OffsetX, st.BaseTransform.OffsetY)
			fmt.Fprintf(out, "scale range:  %.4f / %.4f / %.4f\n", st.MinScale, st.MediumScale, st.MaxScale)
			fmt.Fprintf(out, "display rect: %v\n", st.ContentDisplayRectRounded)
			if st.ReadModeApplied {
				fmt.Fprintln(out, "read mode:    applied")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&containerFlag, "container", "1000x1000", "container size as WxH")
	cmd.Flags().StringVar(&contentFlag, "content", "", "content size as WxH (instead of an image file)")
	cmd.Flags().IntVar(&rotation, "rotation", 0, "rotation in degrees (snapped to quarter turns)")
	return cmd
}
