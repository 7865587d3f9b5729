package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// framesCommand lists the display frames of the map document. export always
// uses the first one.
func (c *CLI) framesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "frames",
		Short: "List display frames with their extent and scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFrames(cmd.Context())
		},
	}
}

func (c *CLI) runFrames(ctx context.Context) error {
	h, err := c.openHost(ctx)
	if err != nil {
		return err
	}
	frames, err := h.DisplayFrames()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(frames))
	for i, f := range frames {
		e, err := h.FrameExtent(f)
		if err != nil {
			return err
		}
		s, err := h.FrameScale(f)
		if err != nil {
			return err
		}
		use := ""
		if i == 0 {
			use = "export"
		}
		rows = append(rows, []string{f.Name(), e.String(), fmt.Sprintf("1:%.0f", s), use})
	}
	fmt.Fprintln(out, renderTable([]string{"Frame", "Extent", "Scale", "Used by"}, rows))

	for _, layer := range h.Layers() {
		filter, _ := h.LayerFilter(layer)
		if filter != "" {
			printInfo("layer %s is filtered by %s", layer, filter)
		}
	}
	return nil
}
